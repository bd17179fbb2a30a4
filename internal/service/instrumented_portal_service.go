package service

import (
	"context"

	"github.com/fadilmartias/grant-portal/internal/metrics"
	"github.com/fadilmartias/grant-portal/internal/model"
)

// InstrumentedPortalService counts calls and failures of the wrapped
// backend.
type InstrumentedPortalService struct {
	next    PortalServiceInterface
	backend string
	metrics *metrics.Metrics
}

func NewInstrumentedPortalService(next PortalServiceInterface, backend string, m *metrics.Metrics) *InstrumentedPortalService {
	return &InstrumentedPortalService{next: next, backend: backend, metrics: m}
}

func (s *InstrumentedPortalService) observe(op string, err error) {
	s.metrics.Observe(s.backend, op, err)
}

func (s *InstrumentedPortalService) Login(ctx context.Context, identifier, password string) (*model.User, error) {
	user, err := s.next.Login(ctx, identifier, password)
	s.observe("login", err)
	return user, err
}

func (s *InstrumentedPortalService) Register(ctx context.Context, email, password, displayName string) (*model.User, error) {
	user, err := s.next.Register(ctx, email, password, displayName)
	s.observe("register", err)
	return user, err
}

func (s *InstrumentedPortalService) GetApplications(ctx context.Context, area string) ([]model.Application, error) {
	apps, err := s.next.GetApplications(ctx, area)
	s.observe("get_applications", err)
	return apps, err
}

func (s *InstrumentedPortalService) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	app, err := s.next.GetApplication(ctx, id)
	s.observe("get_application", err)
	return app, err
}

func (s *InstrumentedPortalService) CreateApplication(ctx context.Context, draft model.Application) (*model.Application, error) {
	app, err := s.next.CreateApplication(ctx, draft)
	s.observe("create_application", err)
	return app, err
}

func (s *InstrumentedPortalService) UpdateApplication(ctx context.Context, id string, updates map[string]any) error {
	err := s.next.UpdateApplication(ctx, id, updates)
	s.observe("update_application", err)
	return err
}

func (s *InstrumentedPortalService) DeleteApplication(ctx context.Context, id string) error {
	err := s.next.DeleteApplication(ctx, id)
	s.observe("delete_application", err)
	return err
}

func (s *InstrumentedPortalService) SaveScore(ctx context.Context, score model.Score) error {
	err := s.next.SaveScore(ctx, score)
	s.observe("save_score", err)
	return err
}

func (s *InstrumentedPortalService) GetScores(ctx context.Context) ([]model.Score, error) {
	scores, err := s.next.GetScores(ctx)
	s.observe("get_scores", err)
	return scores, err
}

func (s *InstrumentedPortalService) ResetUserScores(ctx context.Context, scorerID string) error {
	err := s.next.ResetUserScores(ctx, scorerID)
	s.observe("reset_user_scores", err)
	return err
}

func (s *InstrumentedPortalService) GetPortalSettings(ctx context.Context) (model.PortalSettings, error) {
	settings, err := s.next.GetPortalSettings(ctx)
	s.observe("get_portal_settings", err)
	return settings, err
}

func (s *InstrumentedPortalService) UpdatePortalSettings(ctx context.Context, settings model.PortalSettings) error {
	err := s.next.UpdatePortalSettings(ctx, settings)
	s.observe("update_portal_settings", err)
	return err
}

func (s *InstrumentedPortalService) GetUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.next.GetUsers(ctx)
	s.observe("get_users", err)
	return users, err
}

func (s *InstrumentedPortalService) UpdateUserProfile(ctx context.Context, uid string, updates map[string]any) (*model.User, error) {
	user, err := s.next.UpdateUserProfile(ctx, uid, updates)
	s.observe("update_user_profile", err)
	return user, err
}

func (s *InstrumentedPortalService) UpdateUser(ctx context.Context, user model.User) error {
	err := s.next.UpdateUser(ctx, user)
	s.observe("update_user", err)
	return err
}

func (s *InstrumentedPortalService) DeleteUser(ctx context.Context, uid string) error {
	err := s.next.DeleteUser(ctx, uid)
	s.observe("delete_user", err)
	return err
}

func (s *InstrumentedPortalService) AdminCreateUser(ctx context.Context, user model.User, password string) (*model.User, error) {
	created, err := s.next.AdminCreateUser(ctx, user, password)
	s.observe("admin_create_user", err)
	return created, err
}

func (s *InstrumentedPortalService) SeedDatabase(ctx context.Context) error {
	err := s.next.SeedDatabase(ctx)
	s.observe("seed_database", err)
	return err
}
