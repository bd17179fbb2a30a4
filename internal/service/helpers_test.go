package service_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/fadilmartias/grant-portal/internal/database"
	"github.com/fadilmartias/grant-portal/internal/fixture"
	"github.com/fadilmartias/grant-portal/internal/repository"
	"github.com/fadilmartias/grant-portal/internal/service"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, database.MigrateRemote(db))
	require.NoError(t, database.MigrateLocal(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func testOptions() []service.Option {
	return []service.Option{
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithRand(rand.New(rand.NewPCG(1, 2))),
	}
}

func newLocal(t *testing.T) *service.LocalPortalService {
	t.Helper()
	store := repository.NewLocalStorageRepository(newDB(t))
	return service.NewLocalPortalService(store, bcrypt.MinCost, testOptions()...)
}

type remoteEnv struct {
	svc      *service.RemotePortalService
	store    *repository.DocumentRepository
	identity *service.DatabaseIdentityService
}

// newRemote returns a remote backend over sqlite, seeded with the fixture
// data and fixture credentials.
func newRemote(t *testing.T) remoteEnv {
	t.Helper()
	ctx := context.Background()
	db := newDB(t)
	store := repository.NewDocumentRepository(db)
	identity := service.NewDatabaseIdentityService(repository.NewIdentityRepository(db), bcrypt.MinCost)
	svc := service.NewRemotePortalService(store, identity, testOptions()...)

	require.NoError(t, svc.SeedDatabase(ctx))
	data, err := fixture.Load()
	require.NoError(t, err)
	for _, u := range data.Users {
		require.NoError(t, identity.ProvisionIdentity(ctx, u.UID, u.Email, u.Password))
	}
	return remoteEnv{svc: svc, store: store, identity: identity}
}

// backends runs fn against both implementations.
func backends(t *testing.T, fn func(t *testing.T, svc service.PortalServiceInterface)) {
	t.Run("local", func(t *testing.T) { fn(t, newLocal(t)) })
	t.Run("remote", func(t *testing.T) { fn(t, newRemote(t).svc) })
}
