package service_test

import (
	"context"
	"testing"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/lifecycle"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalHandle(t *testing.T) {
	assert.Equal(t, "louise.white@committee.local", service.CanonicalHandle("louise.white"))
	assert.Equal(t, "louise.white@committee.local", service.CanonicalHandle("  Louise.White "))
	assert.Equal(t, "admin@pbportal.wales", service.CanonicalHandle("Admin@PBPortal.wales"))
	assert.Equal(t, "", service.CanonicalHandle(""))
}

func TestPortalService_Login(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()

		user, err := svc.Login(ctx, "admin@pbportal.wales", "admin123")
		require.NoError(t, err)
		assert.Equal(t, "user_admin", user.UID)
		assert.Equal(t, model.RoleAdmin, user.Role)

		user, err = svc.Login(ctx, "louise.white", "committee123")
		require.NoError(t, err)
		assert.Equal(t, model.RoleCommittee, user.Role)
		assert.Equal(t, model.AreaBlaenavon, user.Area)

		_, err = svc.Login(ctx, "admin@pbportal.wales", "wrong")
		assert.ErrorIs(t, err, apperror.ErrAuthentication)

		_, err = svc.Login(ctx, "nobody@example.org", "admin123")
		assert.ErrorIs(t, err, apperror.ErrAuthentication)
	})
}

func TestPortalService_Register(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()

		user, err := svc.Register(ctx, "New.Group@Example.org", "secret99", "New Group")
		require.NoError(t, err)
		assert.NotEmpty(t, user.UID)
		assert.Equal(t, "new.group@example.org", user.Email)
		assert.Equal(t, model.RoleApplicant, user.Role)

		_, err = svc.Register(ctx, "new.group@example.org", "other", "Again")
		assert.ErrorIs(t, err, apperror.ErrDuplicateAccount)

		again, err := svc.Login(ctx, "new.group@example.org", "secret99")
		require.NoError(t, err)
		assert.Equal(t, user.UID, again.UID)
		assert.Equal(t, "New Group", again.DisplayName)
	})
}

func TestPortalService_GetApplicationsFiltersByArea(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()

		all, err := svc.GetApplications(ctx, model.AllAreas)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		none, err := svc.GetApplications(ctx, "")
		require.NoError(t, err)
		assert.Len(t, none, 3)

		blaenavon, err := svc.GetApplications(ctx, model.AreaBlaenavon)
		require.NoError(t, err)
		require.Len(t, blaenavon, 2)
		for _, app := range blaenavon {
			assert.Contains(t, []string{model.AreaBlaenavon, model.CrossArea}, app.Area)
		}
	})
}

func TestPortalService_CreateApplication(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()

		created, err := svc.CreateApplication(ctx, model.Application{
			UserID:          "user_applicant",
			OrgName:         "Garndiffaith Allotments",
			Area:            model.AreaTrevethin,
			ProjectTitle:    "Raised Beds",
			TotalCost:       1200,
			AmountRequested: 1000,
			Status:          model.StatusDraft,
			Ref:             "PB-ZZZ-000",
		})
		require.NoError(t, err)
		assert.Regexp(t, `^app_[0-9a-f-]{36}$`, created.ID)
		assert.Equal(t, model.StatusSubmittedStage1, created.Status)
		assert.Equal(t, 1, created.Stage)
		assert.Equal(t, fixedNow.UnixMilli(), created.CreatedAt)
		assert.True(t, lifecycle.ValidReference(created.Ref))
		assert.Equal(t, "PB-TRE-", created.Ref[:7])
		assert.NotNil(t, created.FormData)

		stored, err := svc.GetApplication(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Ref, stored.Ref)
		assert.Equal(t, "Raised Beds", stored.ProjectTitle)

		_, err = svc.GetApplication(ctx, "app_missing")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestPortalService_UpdateApplication(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()
		const id = "app_demo_blaenavon_blues"

		before, err := svc.GetApplication(ctx, id)
		require.NoError(t, err)

		err = svc.UpdateApplication(ctx, id, map[string]any{
			"summary":   "Updated summary",
			"ref":       "PB-HAX-999",
			"id":        "app_other",
			"createdAt": 1,
			"formData":  map[string]any{"charityNumber": "1187654"},
		})
		require.NoError(t, err)

		after, err := svc.GetApplication(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Updated summary", after.Summary)
		assert.Equal(t, before.Ref, after.Ref)
		assert.Equal(t, before.CreatedAt, after.CreatedAt)
		assert.Equal(t, id, after.ID)
		assert.Equal(t, "1187654", after.FormData["charityNumber"])
		assert.Equal(t, true, after.FormData["declarationSigned"])

		err = svc.UpdateApplication(ctx, "app_missing", map[string]any{"summary": "x"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestPortalService_DeleteApplication(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()

		require.NoError(t, svc.DeleteApplication(ctx, "app_demo_blaenavon_blues"))
		_, err := svc.GetApplication(ctx, "app_demo_blaenavon_blues")
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		err = svc.DeleteApplication(ctx, "app_demo_blaenavon_blues")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestPortalService_Scores(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()

		scores, err := svc.GetScores(ctx)
		require.NoError(t, err)
		assert.Empty(t, scores)

		first := model.Score{
			AppID:    "app_demo_blaenavon_blues",
			ScorerID: "user_louise_white",
			Scores:   map[string]int{"community_need": 2},
			IsFinal:  true,
			Total:    2,
		}
		require.NoError(t, svc.SaveScore(ctx, first))

		// same (appId, scorerId) replaces the earlier score
		first.Scores = map[string]int{"community_need": 3, "inclusion": 1}
		first.Total = 4
		require.NoError(t, svc.SaveScore(ctx, first))

		require.NoError(t, svc.SaveScore(ctx, model.Score{
			AppID:    "app_demo_blaenavon_blues",
			ScorerID: "user_dafydd_jones",
			Scores:   map[string]int{"community_need": 1},
			Total:    1,
		}))

		scores, err = svc.GetScores(ctx)
		require.NoError(t, err)
		require.Len(t, scores, 2)
		for _, sc := range scores {
			if sc.ScorerID == "user_louise_white" {
				assert.Equal(t, 4, sc.Total)
				assert.Equal(t, 3, sc.Scores["community_need"])
			}
		}

		require.NoError(t, svc.ResetUserScores(ctx, "user_louise_white"))
		scores, err = svc.GetScores(ctx)
		require.NoError(t, err)
		require.Len(t, scores, 1)
		assert.Equal(t, "user_dafydd_jones", scores[0].ScorerID)

		// resetting a scorer with nothing saved is a no-op
		require.NoError(t, svc.ResetUserScores(ctx, "user_nobody"))
	})
}

func TestPortalService_SaveScoreValidation(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()
		base := model.Score{AppID: "app_demo_blaenavon_blues", ScorerID: "user_louise_white"}

		tooHigh := base
		tooHigh.Scores = map[string]int{"community_need": 4}
		assert.ErrorIs(t, svc.SaveScore(ctx, tooHigh), apperror.ErrValidation)

		negative := base
		negative.Scores = map[string]int{"community_need": -1}
		assert.ErrorIs(t, svc.SaveScore(ctx, negative), apperror.ErrValidation)

		unknown := base
		unknown.Scores = map[string]int{"made_up": 1}
		assert.ErrorIs(t, svc.SaveScore(ctx, unknown), apperror.ErrValidation)

		noScorer := model.Score{AppID: "a", Scores: map[string]int{}}
		assert.ErrorIs(t, svc.SaveScore(ctx, noScorer), apperror.ErrValidation)

		scores, err := svc.GetScores(ctx)
		require.NoError(t, err)
		assert.Empty(t, scores)
	})
}

func TestPortalService_Settings(t *testing.T) {
	t.Run("local defaults", func(t *testing.T) {
		settings, err := newLocal(t).GetPortalSettings(context.Background())
		require.NoError(t, err)
		assert.Equal(t, model.DefaultPortalSettings(), settings)
	})

	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()
		want := model.PortalSettings{Stage1Visible: false, Stage2Visible: true, VotingOpen: true}
		require.NoError(t, svc.UpdatePortalSettings(ctx, want))

		got, err := svc.GetPortalSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestPortalService_Users(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()

		users, err := svc.GetUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 5)

		updated, err := svc.UpdateUserProfile(ctx, "user_applicant", map[string]any{
			"bio":   "Community organiser",
			"phone": "01495 000000",
			"uid":   "user_admin",
		})
		require.NoError(t, err)
		assert.Equal(t, "user_applicant", updated.UID)
		assert.Equal(t, "Community organiser", updated.Bio)
		assert.Equal(t, "Demo Applicant", updated.DisplayName)

		_, err = svc.UpdateUserProfile(ctx, "user_missing", map[string]any{"bio": "x"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		require.NoError(t, svc.UpdateUser(ctx, model.User{
			UID:         "user_applicant",
			Email:       "applicant@example.org",
			DisplayName: "Promoted",
			Role:        model.RoleCommittee,
			Area:        model.AreaThornhill,
		}))
		users, err = svc.GetUsers(ctx)
		require.NoError(t, err)
		for _, u := range users {
			if u.UID == "user_applicant" {
				assert.Equal(t, model.RoleCommittee, u.Role)
				assert.Equal(t, "Community organiser", u.Bio)
			}
		}

		err = svc.UpdateUser(ctx, model.User{UID: "user_applicant", Email: "applicant@example.org", Role: model.RoleCommittee, Area: "Atlantis"})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		err = svc.UpdateUser(ctx, model.User{UID: "user_missing", Email: "x@example.org", Role: model.RoleApplicant})
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		require.NoError(t, svc.DeleteUser(ctx, "user_sian_morgan"))
		assert.ErrorIs(t, svc.DeleteUser(ctx, "user_sian_morgan"), apperror.ErrNotFound)
		users, err = svc.GetUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 4)
	})
}

func TestPortalService_DeleteUserKeepsRecords(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()
		require.NoError(t, svc.SaveScore(ctx, model.Score{
			AppID:    "app_demo_blaenavon_blues",
			ScorerID: "user_louise_white",
			Scores:   map[string]int{"community_need": 2},
			Total:    2,
		}))

		require.NoError(t, svc.DeleteUser(ctx, "user_applicant"))
		require.NoError(t, svc.DeleteUser(ctx, "user_louise_white"))

		apps, err := svc.GetApplications(ctx, "All")
		require.NoError(t, err)
		owned := 0
		for _, a := range apps {
			if a.UserID == "user_applicant" {
				owned++
			}
		}
		assert.Equal(t, 3, owned)

		scores, err := svc.GetScores(ctx)
		require.NoError(t, err)
		require.Len(t, scores, 1)
		assert.Equal(t, "user_louise_white", scores[0].ScorerID)
	})
}

func TestPortalService_UpdateApplicationRejectsBadTypes(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()
		err := svc.UpdateApplication(ctx, "app_demo_blaenavon_blues", map[string]any{"projectTitle": 42})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		apps, err := svc.GetApplications(ctx, "All")
		require.NoError(t, err)
		assert.NotEmpty(t, apps)
	})
}

func TestPortalService_RefIsWrittenOnlyWhenAbsent(t *testing.T) {
	backends(t, func(t *testing.T, svc service.PortalServiceInterface) {
		ctx := context.Background()
		app, err := svc.GetApplication(ctx, "app_demo_blaenavon_blues")
		require.NoError(t, err)
		require.NotEmpty(t, app.Ref)

		require.NoError(t, svc.UpdateApplication(ctx, app.ID, map[string]any{"ref": "PB-ZZZ-111"}))
		got, err := svc.GetApplication(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, app.Ref, got.Ref)

		require.NoError(t, svc.UpdateApplication(ctx, app.ID, map[string]any{"ref": ""}))
		got, err = svc.GetApplication(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, app.Ref, got.Ref)
	})
}
