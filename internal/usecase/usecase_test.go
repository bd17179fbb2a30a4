package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fadilmartias/grant-portal/internal/database"
	"github.com/fadilmartias/grant-portal/internal/metrics"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/repository"
	"github.com/fadilmartias/grant-portal/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	admin     = model.User{UID: "user_admin", Email: "admin@pbportal.wales", DisplayName: "Portal Administrator", Role: model.RoleAdmin}
	louise    = model.User{UID: "user_louise_white", DisplayName: "Louise White", Role: model.RoleCommittee, Area: model.AreaBlaenavon}
	dafydd    = model.User{UID: "user_dafydd_jones", DisplayName: "Dafydd Jones", Role: model.RoleCommittee, Area: model.AreaThornhill}
	applicant = model.User{UID: "user_applicant", DisplayName: "Demo Applicant", Role: model.RoleApplicant}
	stranger  = model.User{UID: "user_stranger", DisplayName: "Someone Else", Role: model.RoleApplicant}
)

func newPortal(t *testing.T) service.PortalServiceInterface {
	t.Helper()
	db, err := database.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, database.MigrateLocal(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return service.NewLocalPortalService(repository.NewLocalStorageRepository(db), bcrypt.MinCost)
}

// newPortalWithApps starts a local portal whose application list is apps
// instead of the demo data.
func newPortalWithApps(t *testing.T, apps ...model.Application) service.PortalServiceInterface {
	t.Helper()
	db, err := database.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, database.MigrateLocal(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	store := repository.NewLocalStorageRepository(db)
	buf, err := json.Marshal(apps)
	require.NoError(t, err)
	require.NoError(t, store.SetItem(context.Background(), "apps", string(buf)))
	return service.NewLocalPortalService(store, bcrypt.MinCost)
}

func setStages(t *testing.T, portal service.PortalServiceInterface, stage1, stage2 bool) {
	t.Helper()
	require.NoError(t, portal.UpdatePortalSettings(context.Background(), model.PortalSettings{
		Stage1Visible: stage1,
		Stage2Visible: stage2,
	}))
}

func testMetrics() *metrics.Metrics {
	return metrics.New(nil)
}

func nop() *zap.Logger {
	return zap.NewNop()
}
