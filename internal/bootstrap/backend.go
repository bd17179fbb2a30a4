// Package bootstrap opens the configured data access backend.
package bootstrap

import (
	"errors"
	"fmt"

	"github.com/fadilmartias/grant-portal/internal/config"
	"github.com/fadilmartias/grant-portal/internal/database"
	"github.com/fadilmartias/grant-portal/internal/metrics"
	"github.com/fadilmartias/grant-portal/internal/repository"
	"github.com/fadilmartias/grant-portal/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Configs struct {
	App      *config.AppConfig
	DB       *config.DBConfig
	Identity *config.IdentityConfig
	Local    *config.LocalConfig
}

// LoadConfigs reads every config the backends need from the environment.
func LoadConfigs() Configs {
	return Configs{
		App:      config.LoadAppConfig(),
		DB:       config.LoadDBConfig(),
		Identity: config.LoadIdentityConfig(),
		Local:    config.LoadLocalConfig(),
	}
}

// Backend is an opened data access backend. Exactly one of Local and
// Remote is set; Portal wraps it.
type Backend struct {
	Name     string
	Portal   service.PortalServiceInterface
	Local    *service.LocalPortalService
	Remote   *service.RemotePortalService
	Identity service.IdentityServiceInterface

	db *gorm.DB
}

// Open builds the backend selected by cfg.App.Backend. When m is set every
// call is counted.
func Open(cfg Configs, logger *zap.Logger, m *metrics.Metrics, opts ...service.Option) (*Backend, error) {
	opts = append([]service.Option{service.WithLogger(logger)}, opts...)

	b := &Backend{Name: cfg.App.Backend}
	switch cfg.App.Backend {
	case config.BackendLocal:
		db, err := database.OpenSQLite(cfg.Local.Path)
		if err != nil {
			return nil, err
		}
		b.db = db
		if err := database.MigrateLocal(db); err != nil {
			b.Close()
			return nil, err
		}
		b.Local = service.NewLocalPortalService(repository.NewLocalStorageRepository(db), cfg.Local.BcryptCost, opts...)
		b.Portal = b.Local
		logger.Info("local backend ready", zap.String("path", cfg.Local.Path))

	case config.BackendRemote:
		db, err := database.Connect(cfg.DB, cfg.App)
		if err != nil {
			return nil, err
		}
		b.db = db
		identity, err := service.NewIdentityService(cfg.Identity, repository.NewIdentityRepository(db), logger)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Identity = identity
		b.Remote = service.NewRemotePortalService(repository.NewDocumentRepository(db), identity, opts...)
		b.Portal = b.Remote
		logger.Info("remote backend ready",
			zap.String("driver", cfg.DB.Driver),
			zap.String("identity", cfg.Identity.Provider),
		)

	default:
		return nil, fmt.Errorf("unsupported backend: %s (supported: local, remote)", cfg.App.Backend)
	}

	if m != nil {
		b.Portal = service.NewInstrumentedPortalService(b.Portal, b.Name, m)
	}
	return b, nil
}

func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DatabaseIdentity returns the database identity provider when the remote
// backend uses one.
func (b *Backend) DatabaseIdentity() (*service.DatabaseIdentityService, error) {
	identity, ok := b.Identity.(*service.DatabaseIdentityService)
	if !ok {
		return nil, errors.New("credentials can only be provisioned with the database identity provider")
	}
	return identity, nil
}
