package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/fixture"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/repository"
	"github.com/fadilmartias/grant-portal/internal/scoring"
	"go.uber.org/zap"
)

// Collections and fixed document ids of the remote backend.
const (
	CollectionUsers        = "users"
	CollectionApplications = "applications"
	CollectionScores       = "scores"
	CollectionSettings     = "portalSettings"
	CollectionConfig       = "config"

	SettingsDocumentID = "global"
	CriteriaDocumentID = "scoringCriteria"
)

// RemotePortalService keeps profiles and records in a DocumentStore and
// delegates credentials to an identity provider.
type RemotePortalService struct {
	store    repository.DocumentStore
	identity IdentityServiceInterface
	opts     options
}

func NewRemotePortalService(store repository.DocumentStore, identity IdentityServiceInterface, opts ...Option) *RemotePortalService {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.Named("remote-portal")
	return &RemotePortalService{store: store, identity: identity, opts: o}
}

func decodeAll[T any](snapshots []repository.Snapshot) ([]T, error) {
	out := make([]T, 0, len(snapshots))
	for _, snap := range snapshots {
		var item T
		if err := snap.Data.Decode(&item); err != nil {
			return nil, fmt.Errorf("document %s: %w", snap.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *RemotePortalService) Login(ctx context.Context, identifier, password string) (*model.User, error) {
	handle := CanonicalHandle(identifier)
	uid, err := s.identity.Authenticate(ctx, handle, password)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.GetDocument(ctx, CollectionUsers, uid)
	if errors.Is(err, apperror.ErrNotFound) {
		s.opts.logger.Warn("signed in without a profile document",
			zap.String("uid", uid),
			zap.Error(apperror.ErrProfileMissing),
		)
		return &model.User{
			UID:         uid,
			Email:       handle,
			Role:        model.RoleApplicant,
			DisplayName: "User",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := doc.Decode(&user); err != nil {
		return nil, err
	}
	if user.UID == "" {
		user.UID = uid
	}
	return &user, nil
}

func (s *RemotePortalService) Register(ctx context.Context, email, password, displayName string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	uid, err := s.identity.CreateIdentity(ctx, email, password)
	if err != nil {
		return nil, err
	}
	user := model.User{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		Role:        model.RoleApplicant,
	}
	doc, err := repository.ToDocument(user)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetDocument(ctx, CollectionUsers, uid, doc, false); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *RemotePortalService) GetApplications(ctx context.Context, area string) ([]model.Application, error) {
	snaps, err := s.store.GetAllDocuments(ctx, CollectionApplications)
	if err != nil {
		return nil, err
	}
	apps, err := decodeAll[model.Application](snaps)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if apps[i].ID == "" {
			apps[i].ID = snaps[i].ID
		}
	}
	return filterByArea(apps, area), nil
}

func (s *RemotePortalService) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	doc, err := s.store.GetDocument(ctx, CollectionApplications, id)
	if err != nil {
		return nil, err
	}
	var app model.Application
	if err := doc.Decode(&app); err != nil {
		return nil, err
	}
	if app.ID == "" {
		app.ID = id
	}
	return &app, nil
}

func (s *RemotePortalService) CreateApplication(ctx context.Context, draft model.Application) (*model.Application, error) {
	app := newApplication(draft, s.opts)
	doc, err := repository.ToDocument(app)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetDocument(ctx, CollectionApplications, app.ID, doc, false); err != nil {
		return nil, err
	}
	s.opts.logger.Debug("application created", zap.String("id", app.ID), zap.String("ref", app.Ref))
	return &app, nil
}

func (s *RemotePortalService) UpdateApplication(ctx context.Context, id string, updates map[string]any) error {
	current, err := s.store.GetDocument(ctx, CollectionApplications, id)
	if err != nil {
		return err
	}
	clean := applicationUpdates(current, updates)
	var app model.Application
	if err := repository.Merge(current, clean).Decode(&app); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrValidation, err)
	}
	return s.store.SetDocument(ctx, CollectionApplications, id, clean, true)
}

func (s *RemotePortalService) DeleteApplication(ctx context.Context, id string) error {
	return s.store.DeleteDocument(ctx, CollectionApplications, id)
}

func (s *RemotePortalService) SaveScore(ctx context.Context, score model.Score) error {
	if err := validateScore(s.opts.criteria, score); err != nil {
		return err
	}
	doc, err := repository.ToDocument(score)
	if err != nil {
		return err
	}
	return s.store.SetDocument(ctx, CollectionScores, score.DocumentID(), doc, false)
}

func (s *RemotePortalService) GetScores(ctx context.Context) ([]model.Score, error) {
	snaps, err := s.store.GetAllDocuments(ctx, CollectionScores)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Score](snaps)
}

// ResetUserScores deletes every score written by the scorer in one batch.
func (s *RemotePortalService) ResetUserScores(ctx context.Context, scorerID string) error {
	snaps, err := s.store.QueryDocuments(ctx, CollectionScores, "scorerId", scorerID)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return nil
	}
	writes := make([]repository.BatchWrite, 0, len(snaps))
	for _, snap := range snaps {
		writes = append(writes, repository.BatchWrite{
			Op:         repository.BatchDelete,
			Collection: CollectionScores,
			ID:         snap.ID,
		})
	}
	return s.store.CommitBatch(ctx, writes)
}

func (s *RemotePortalService) GetPortalSettings(ctx context.Context) (model.PortalSettings, error) {
	doc, err := s.store.GetDocument(ctx, CollectionSettings, SettingsDocumentID)
	if errors.Is(err, apperror.ErrNotFound) {
		return model.DefaultPortalSettings(), nil
	}
	if err != nil {
		return model.PortalSettings{}, err
	}
	settings := model.DefaultPortalSettings()
	if err := doc.Decode(&settings); err != nil {
		return model.PortalSettings{}, err
	}
	return settings, nil
}

func (s *RemotePortalService) UpdatePortalSettings(ctx context.Context, settings model.PortalSettings) error {
	doc, err := repository.ToDocument(settings)
	if err != nil {
		return err
	}
	return s.store.SetDocument(ctx, CollectionSettings, SettingsDocumentID, doc, false)
}

func (s *RemotePortalService) GetUsers(ctx context.Context) ([]model.User, error) {
	snaps, err := s.store.GetAllDocuments(ctx, CollectionUsers)
	if err != nil {
		return nil, err
	}
	users, err := decodeAll[model.User](snaps)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UID == "" {
			users[i].UID = snaps[i].ID
		}
	}
	return users, nil
}

func (s *RemotePortalService) UpdateUserProfile(ctx context.Context, uid string, updates map[string]any) (*model.User, error) {
	current, err := s.store.GetDocument(ctx, CollectionUsers, uid)
	if err != nil {
		return nil, err
	}
	clean := sanitizeUpdates(updates, "uid")
	var user model.User
	if err := repository.Merge(current, clean).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrValidation, err)
	}
	if err := s.store.SetDocument(ctx, CollectionUsers, uid, clean, true); err != nil {
		return nil, err
	}
	user.UID = uid
	return &user, nil
}

func (s *RemotePortalService) UpdateUser(ctx context.Context, user model.User) error {
	current, err := s.store.GetDocument(ctx, CollectionUsers, user.UID)
	if err != nil {
		return err
	}
	updates, err := repository.ToDocument(user)
	if err != nil {
		return err
	}
	var merged model.User
	if err := repository.Merge(current, updates).Decode(&merged); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrValidation, err)
	}
	if err := validateUser(merged); err != nil {
		return err
	}
	return s.store.SetDocument(ctx, CollectionUsers, user.UID, updates, true)
}

func (s *RemotePortalService) DeleteUser(ctx context.Context, uid string) error {
	return s.store.DeleteDocument(ctx, CollectionUsers, uid)
}

// AdminCreateUser is not available here: creating an identity from a client
// session would sign that session in as the new user. Accounts are
// provisioned with `portalctl create-user` instead.
func (s *RemotePortalService) AdminCreateUser(ctx context.Context, user model.User, password string) (*model.User, error) {
	return nil, fmt.Errorf("%w: create accounts with portalctl create-user on the server", apperror.ErrUnsupportedOperation)
}

// ProvisionUser creates an identity and its profile document. It runs on
// the server with provider credentials, not from a user session.
func (s *RemotePortalService) ProvisionUser(ctx context.Context, user model.User, password string) (*model.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := validateUser(user); err != nil {
		return nil, err
	}
	uid, err := s.identity.CreateIdentity(ctx, user.Email, password)
	if err != nil {
		return nil, err
	}
	user.UID = uid
	doc, err := repository.ToDocument(user)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetDocument(ctx, CollectionUsers, uid, doc, false); err != nil {
		return nil, err
	}
	s.opts.logger.Info("user provisioned", zap.String("uid", uid), zap.String("role", string(user.Role)))
	return &user, nil
}

// SeedDatabase writes the demo users, applications, default settings and
// the scoring rubric in one batch.
func (s *RemotePortalService) SeedDatabase(ctx context.Context) error {
	if err := scoring.ValidateCriteria(s.opts.criteria); err != nil {
		return err
	}
	data, err := fixture.Load()
	if err != nil {
		return err
	}

	var writes []repository.BatchWrite
	set := func(collection, id string, v any) error {
		doc, err := repository.ToDocument(v)
		if err != nil {
			return err
		}
		writes = append(writes, repository.BatchWrite{
			Op:         repository.BatchSet,
			Collection: collection,
			ID:         id,
			Data:       doc,
		})
		return nil
	}

	for _, u := range data.Profiles() {
		if err := set(CollectionUsers, u.UID, u); err != nil {
			return err
		}
	}
	for _, app := range data.Applications {
		if err := set(CollectionApplications, app.ID, app); err != nil {
			return err
		}
	}
	if err := set(CollectionSettings, SettingsDocumentID, model.DefaultPortalSettings()); err != nil {
		return err
	}
	if err := set(CollectionConfig, CriteriaDocumentID, map[string]any{"items": s.opts.criteria}); err != nil {
		return err
	}

	if err := s.store.CommitBatch(ctx, writes); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	s.opts.logger.Info("database seeded",
		zap.Int("users", len(data.Users)),
		zap.Int("applications", len(data.Applications)),
	)
	return nil
}
