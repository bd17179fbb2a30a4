package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/fixture"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Keys of the local store. Each holds a JSON array.
const (
	localKeyUsers    = "users"
	localKeyApps     = "apps"
	localKeyScores   = "scores"
	localKeySettings = "portalSettings"
)

// localUser is the stored shape of a user in local mode.
type localUser struct {
	model.User
	PasswordHash string `json:"passwordHash,omitempty"`
}

// LocalPortalService is the single-node backend. Every collection is a JSON
// array under one key of a LocalStorage; writes rewrite the whole array.
type LocalPortalService struct {
	store      repository.LocalStorage
	bcryptCost int
	opts       options

	// mu serialises read-modify-write cycles on the arrays.
	mu sync.Mutex
}

func NewLocalPortalService(store repository.LocalStorage, bcryptCost int, opts ...Option) *LocalPortalService {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	o.logger = o.logger.Named("local-portal")
	return &LocalPortalService{store: store, bcryptCost: bcryptCost, opts: o}
}

func loadArray[T any](ctx context.Context, store repository.LocalStorage, key string) ([]T, bool, error) {
	raw, ok, err := store.GetItem(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, true, fmt.Errorf("failed to decode local %s: %w", key, err)
	}
	return items, true, nil
}

func saveArray[T any](ctx context.Context, store repository.LocalStorage, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	buf, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode local %s: %w", key, err)
	}
	return store.SetItem(ctx, key, string(buf))
}

// users returns the stored users, seeding the demo accounts when there are
// none.
func (s *LocalPortalService) users(ctx context.Context) ([]localUser, error) {
	users, _, err := loadArray[localUser](ctx, s.store, localKeyUsers)
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return users, nil
	}

	data, err := fixture.Load()
	if err != nil {
		return nil, err
	}
	users = make([]localUser, 0, len(data.Users))
	for _, u := range data.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		users = append(users, localUser{User: u.User, PasswordHash: string(hash)})
	}
	if err := saveArray(ctx, s.store, localKeyUsers, users); err != nil {
		return nil, err
	}
	s.opts.logger.Info("seeded demo users", zap.Int("count", len(users)))
	return users, nil
}

// apps returns the stored applications. The demo applications are written
// only when the key has never been set, so an emptied list stays empty.
func (s *LocalPortalService) apps(ctx context.Context) ([]model.Application, error) {
	apps, ok, err := loadArray[model.Application](ctx, s.store, localKeyApps)
	if err != nil || ok {
		return apps, err
	}

	data, err := fixture.Load()
	if err != nil {
		return nil, err
	}
	if err := saveArray(ctx, s.store, localKeyApps, data.Applications); err != nil {
		return nil, err
	}
	s.opts.logger.Info("seeded demo applications", zap.Int("count", len(data.Applications)))
	return data.Applications, nil
}

func findUser(users []localUser, uid string) int {
	for i, u := range users {
		if u.UID == uid {
			return i
		}
	}
	return -1
}

func findApp(apps []model.Application, id string) int {
	for i, a := range apps {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func emailTaken(users []localUser, email string) bool {
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *LocalPortalService) Login(ctx context.Context, identifier, password string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	handle := CanonicalHandle(identifier)
	name := strings.TrimSpace(identifier)
	for _, u := range users {
		if !strings.EqualFold(u.Email, handle) && (u.Username == "" || !strings.EqualFold(u.Username, name)) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			break
		}
		user := u.User
		return &user, nil
	}
	return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrAuthentication)
}

func (s *LocalPortalService) Register(ctx context.Context, email, password, displayName string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if emailTaken(users, email) {
		return nil, apperror.ErrDuplicateAccount
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := model.User{
		UID:         "user_" + uuid.NewString(),
		Email:       email,
		DisplayName: displayName,
		Role:        model.RoleApplicant,
	}
	users = append(users, localUser{User: user, PasswordHash: string(hash)})
	if err := saveArray(ctx, s.store, localKeyUsers, users); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *LocalPortalService) GetApplications(ctx context.Context, area string) ([]model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.apps(ctx)
	if err != nil {
		return nil, err
	}
	return filterByArea(apps, area), nil
}

func (s *LocalPortalService) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.apps(ctx)
	if err != nil {
		return nil, err
	}
	i := findApp(apps, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: application %s", apperror.ErrNotFound, id)
	}
	return &apps[i], nil
}

func (s *LocalPortalService) CreateApplication(ctx context.Context, draft model.Application) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.apps(ctx)
	if err != nil {
		return nil, err
	}
	app := newApplication(draft, s.opts)
	apps = append(apps, app)
	if err := saveArray(ctx, s.store, localKeyApps, apps); err != nil {
		return nil, err
	}
	s.opts.logger.Debug("application created", zap.String("id", app.ID), zap.String("ref", app.Ref))
	return &app, nil
}

func (s *LocalPortalService) UpdateApplication(ctx context.Context, id string, updates map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.apps(ctx)
	if err != nil {
		return err
	}
	i := findApp(apps, id)
	if i < 0 {
		return fmt.Errorf("%w: application %s", apperror.ErrNotFound, id)
	}
	doc, err := repository.ToDocument(apps[i])
	if err != nil {
		return err
	}
	merged := repository.Merge(doc, applicationUpdates(doc, updates))
	var app model.Application
	if err := merged.Decode(&app); err != nil {
		return fmt.Errorf("%w: %v", apperror.ErrValidation, err)
	}
	apps[i] = app
	return saveArray(ctx, s.store, localKeyApps, apps)
}

func (s *LocalPortalService) DeleteApplication(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.apps(ctx)
	if err != nil {
		return err
	}
	i := findApp(apps, id)
	if i < 0 {
		return fmt.Errorf("%w: application %s", apperror.ErrNotFound, id)
	}
	apps = append(apps[:i], apps[i+1:]...)
	return saveArray(ctx, s.store, localKeyApps, apps)
}

func (s *LocalPortalService) SaveScore(ctx context.Context, score model.Score) error {
	if err := validateScore(s.opts.criteria, score); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scores, _, err := loadArray[model.Score](ctx, s.store, localKeyScores)
	if err != nil {
		return err
	}
	replaced := false
	for i := range scores {
		if scores[i].AppID == score.AppID && scores[i].ScorerID == score.ScorerID {
			scores[i] = score
			replaced = true
			break
		}
	}
	if !replaced {
		scores = append(scores, score)
	}
	return saveArray(ctx, s.store, localKeyScores, scores)
}

func (s *LocalPortalService) GetScores(ctx context.Context) ([]model.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scores, _, err := loadArray[model.Score](ctx, s.store, localKeyScores)
	if err != nil {
		return nil, err
	}
	if scores == nil {
		scores = []model.Score{}
	}
	return scores, nil
}

func (s *LocalPortalService) ResetUserScores(ctx context.Context, scorerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scores, _, err := loadArray[model.Score](ctx, s.store, localKeyScores)
	if err != nil {
		return err
	}
	kept := scores[:0]
	for _, sc := range scores {
		if sc.ScorerID != scorerID {
			kept = append(kept, sc)
		}
	}
	return saveArray(ctx, s.store, localKeyScores, kept)
}

func (s *LocalPortalService) GetPortalSettings(ctx context.Context) (model.PortalSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, _, err := loadArray[model.PortalSettings](ctx, s.store, localKeySettings)
	if err != nil {
		return model.PortalSettings{}, err
	}
	if len(settings) == 0 {
		return model.DefaultPortalSettings(), nil
	}
	return settings[0], nil
}

func (s *LocalPortalService) UpdatePortalSettings(ctx context.Context, settings model.PortalSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveArray(ctx, s.store, localKeySettings, []model.PortalSettings{settings})
}

func (s *LocalPortalService) GetUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.User)
	}
	return out, nil
}

func (s *LocalPortalService) UpdateUserProfile(ctx context.Context, uid string, updates map[string]any) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	i := findUser(users, uid)
	if i < 0 {
		return nil, fmt.Errorf("%w: user %s", apperror.ErrNotFound, uid)
	}
	doc, err := repository.ToDocument(users[i].User)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := repository.Merge(doc, sanitizeUpdates(updates, "uid", "passwordHash")).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrValidation, err)
	}
	users[i].User = user
	if err := saveArray(ctx, s.store, localKeyUsers, users); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *LocalPortalService) UpdateUser(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return err
	}
	i := findUser(users, user.UID)
	if i < 0 {
		return fmt.Errorf("%w: user %s", apperror.ErrNotFound, user.UID)
	}
	current, err := repository.ToDocument(users[i].User)
	if err != nil {
		return err
	}
	updates, err := repository.ToDocument(user)
	if err != nil {
		return err
	}
	var merged model.User
	if err := repository.Merge(current, updates).Decode(&merged); err != nil {
		return err
	}
	if err := validateUser(merged); err != nil {
		return err
	}
	users[i].User = merged
	return saveArray(ctx, s.store, localKeyUsers, users)
}

func (s *LocalPortalService) DeleteUser(ctx context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return err
	}
	i := findUser(users, uid)
	if i < 0 {
		return fmt.Errorf("%w: user %s", apperror.ErrNotFound, uid)
	}
	users = append(users[:i], users[i+1:]...)
	return saveArray(ctx, s.store, localKeyUsers, users)
}

func (s *LocalPortalService) AdminCreateUser(ctx context.Context, user model.User, password string) (*model.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", apperror.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	if emailTaken(users, user.Email) {
		return nil, apperror.ErrDuplicateAccount
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.UID = "user_" + uuid.NewString()
	users = append(users, localUser{User: user, PasswordHash: string(hash)})
	if err := saveArray(ctx, s.store, localKeyUsers, users); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *LocalPortalService) SeedDatabase(ctx context.Context) error {
	return fmt.Errorf("%w: seeding needs the remote backend", apperror.ErrConfiguration)
}
