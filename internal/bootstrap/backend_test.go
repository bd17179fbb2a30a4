package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fadilmartias/grant-portal/internal/config"
	"github.com/fadilmartias/grant-portal/internal/metrics"
	"github.com/fadilmartias/grant-portal/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestOpenLocal(t *testing.T) {
	cfg := Configs{
		App:   &config.AppConfig{Backend: config.BackendLocal},
		Local: &config.LocalConfig{Path: filepath.Join(t.TempDir(), "local.sqlite"), BcryptCost: bcrypt.MinCost},
	}
	b, err := Open(cfg, zap.NewNop(), metrics.New(nil))
	require.NoError(t, err)
	defer b.Close()

	assert.NotNil(t, b.Local)
	assert.Nil(t, b.Remote)
	assert.IsType(t, &service.InstrumentedPortalService{}, b.Portal)

	_, err = b.Portal.Login(context.Background(), "admin", "admin123")
	assert.NoError(t, err)

	_, err = b.DatabaseIdentity()
	assert.Error(t, err)
}

func TestOpenRemoteOnSQLite(t *testing.T) {
	cfg := Configs{
		App:      &config.AppConfig{Backend: config.BackendRemote},
		DB:       &config.DBConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "remote.sqlite")},
		Identity: &config.IdentityConfig{Provider: config.IdentityDatabase},
	}
	b, err := Open(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	defer b.Close()

	require.NotNil(t, b.Remote)
	assert.Same(t, b.Remote, b.Portal)
	require.NoError(t, b.Portal.SeedDatabase(context.Background()))

	identity, err := b.DatabaseIdentity()
	require.NoError(t, err)
	assert.NotNil(t, identity)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(Configs{App: &config.AppConfig{Backend: "cloud"}}, zap.NewNop(), nil)
	assert.Error(t, err)
}
