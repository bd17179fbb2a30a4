package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/lifecycle"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/repository"
	"github.com/fadilmartias/grant-portal/internal/scoring"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommitteeDomain is appended to bare usernames at login.
const CommitteeDomain = "@committee.local"

// PortalServiceInterface is the data access service for users,
// applications, scores and portal settings. The local and remote backends
// both implement it and callers never need to know which one is active.
type PortalServiceInterface interface {
	Login(ctx context.Context, identifier, password string) (*model.User, error)
	Register(ctx context.Context, email, password, displayName string) (*model.User, error)

	GetApplications(ctx context.Context, area string) ([]model.Application, error)
	GetApplication(ctx context.Context, id string) (*model.Application, error)
	CreateApplication(ctx context.Context, draft model.Application) (*model.Application, error)
	UpdateApplication(ctx context.Context, id string, updates map[string]any) error
	DeleteApplication(ctx context.Context, id string) error

	SaveScore(ctx context.Context, score model.Score) error
	GetScores(ctx context.Context) ([]model.Score, error)
	ResetUserScores(ctx context.Context, scorerID string) error

	GetPortalSettings(ctx context.Context) (model.PortalSettings, error)
	UpdatePortalSettings(ctx context.Context, settings model.PortalSettings) error

	GetUsers(ctx context.Context) ([]model.User, error)
	UpdateUserProfile(ctx context.Context, uid string, updates map[string]any) (*model.User, error)
	UpdateUser(ctx context.Context, user model.User) error
	DeleteUser(ctx context.Context, uid string) error
	AdminCreateUser(ctx context.Context, user model.User, password string) (*model.User, error)

	SeedDatabase(ctx context.Context) error
}

type Option func(*options)

type options struct {
	now      func() time.Time
	rng      *rand.Rand
	criteria []model.ScoringCriterion
	logger   *zap.Logger
}

func defaultOptions() options {
	return options{
		now:      time.Now,
		criteria: scoring.DefaultCriteria(),
		logger:   zap.NewNop(),
	}
}

// WithClock replaces time.Now for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRand fixes the source used for reference numbers.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

func WithCriteria(criteria []model.ScoringCriterion) Option {
	return func(o *options) { o.criteria = criteria }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// CanonicalHandle turns a login identifier into the email used by the
// identity store. Bare usernames belong to committee accounts.
func CanonicalHandle(identifier string) string {
	handle := strings.ToLower(strings.TrimSpace(identifier))
	if handle != "" && !strings.Contains(handle, "@") {
		handle += CommitteeDomain
	}
	return handle
}

// filterByArea keeps the applications visible under an area filter. Cross
// area applications match every filter.
func filterByArea(apps []model.Application, area string) []model.Application {
	if area == "" || area == model.AllAreas {
		return apps
	}
	out := make([]model.Application, 0, len(apps))
	for _, app := range apps {
		if app.Area == area || app.Area == model.CrossArea {
			out = append(out, app)
		}
	}
	return out
}

// newApplication stamps the server assigned fields on a submitted draft.
func newApplication(draft model.Application, o options) model.Application {
	app := draft
	app.ID = "app_" + uuid.NewString()
	app.CreatedAt = o.now().UnixMilli()
	app.Status = model.StatusSubmittedStage1
	app.Stage = 1
	app.Ref = lifecycle.GenerateReference(app.Area, o.rng)
	if app.FormData == nil {
		app.FormData = model.FormData{}
	}
	return app
}

// applicationUpdates copies updates without the keys that are fixed once
// set. A ref may be written only while the stored record has none.
func applicationUpdates(current repository.Document, updates map[string]any) repository.Document {
	drop := []string{"id", "createdAt"}
	if ref, _ := current["ref"].(string); ref != "" {
		drop = append(drop, "ref")
	}
	return sanitizeUpdates(updates, drop...)
}

// sanitizeUpdates copies updates without the given keys.
func sanitizeUpdates(updates map[string]any, drop ...string) repository.Document {
	out := make(repository.Document, len(updates))
	for k, v := range updates {
		out[k] = v
	}
	for _, k := range drop {
		delete(out, k)
	}
	return out
}

func validateUser(user model.User) error {
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: email is required", apperror.ErrValidation)
	}
	if !user.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", apperror.ErrValidation, user.Role)
	}
	if user.Role == model.RoleCommittee && !model.ValidArea(user.Area) {
		return fmt.Errorf("%w: committee members need a valid area", apperror.ErrValidation)
	}
	return nil
}

func validateScore(criteria []model.ScoringCriterion, score model.Score) error {
	if score.AppID == "" || score.ScorerID == "" {
		return fmt.Errorf("%w: score needs an application and a scorer", apperror.ErrValidation)
	}
	return scoring.Validate(criteria, score.Scores)
}
