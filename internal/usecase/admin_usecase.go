package usecase

import (
	"context"
	"fmt"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/service"
	"go.uber.org/zap"
)

// Fields a user may change on their own profile.
var profileFields = map[string]bool{
	"displayName":     true,
	"bio":             true,
	"phone":           true,
	"address":         true,
	"roleDescription": true,
	"photoUrl":        true,
}

type AdminUsecase struct {
	portal service.PortalServiceInterface
	logger *zap.Logger
}

func NewAdminUsecase(portal service.PortalServiceInterface, logger *zap.Logger) *AdminUsecase {
	return &AdminUsecase{portal: portal, logger: logger.Named("admin")}
}

func (uc *AdminUsecase) ListUsers(ctx context.Context) ([]model.User, error) {
	return uc.portal.GetUsers(ctx)
}

func (uc *AdminUsecase) CreateUser(ctx context.Context, user model.User, password string) (*model.User, error) {
	created, err := uc.portal.AdminCreateUser(ctx, user, password)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("user created", zap.String("uid", created.UID), zap.String("role", string(created.Role)))
	return created, nil
}

func (uc *AdminUsecase) UpdateUser(ctx context.Context, uid string, user model.User) error {
	user.UID = uid
	if err := uc.portal.UpdateUser(ctx, user); err != nil {
		return err
	}
	uc.logger.Info("user updated", zap.String("uid", uid))
	return nil
}

// DeleteUser removes a user profile. Admins cannot delete themselves.
func (uc *AdminUsecase) DeleteUser(ctx context.Context, actor model.User, uid string) error {
	if actor.UID == uid {
		return fmt.Errorf("%w: you cannot delete your own account", apperror.ErrValidation)
	}
	if err := uc.portal.DeleteUser(ctx, uid); err != nil {
		return err
	}
	uc.logger.Info("user deleted", zap.String("uid", uid))
	return nil
}

func (uc *AdminUsecase) Profile(ctx context.Context, uid string) (*model.User, error) {
	users, err := uc.portal.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UID == uid {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", apperror.ErrNotFound, uid)
}

// UpdateProfile applies self-service edits. Role, area and email stay under
// admin control.
func (uc *AdminUsecase) UpdateProfile(ctx context.Context, uid string, updates map[string]any) (*model.User, error) {
	clean := make(map[string]any, len(updates))
	for k, v := range updates {
		if !profileFields[k] {
			return nil, fmt.Errorf("%w: field %q cannot be changed here", apperror.ErrValidation, k)
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %q must be text", apperror.ErrValidation, k)
		}
		clean[k] = s
	}
	return uc.portal.UpdateUserProfile(ctx, uid, clean)
}

func (uc *AdminUsecase) Settings(ctx context.Context) (model.PortalSettings, error) {
	return uc.portal.GetPortalSettings(ctx)
}

func (uc *AdminUsecase) UpdateSettings(ctx context.Context, settings model.PortalSettings) error {
	if err := uc.portal.UpdatePortalSettings(ctx, settings); err != nil {
		return err
	}
	uc.logger.Info("portal settings updated",
		zap.Bool("stage1_visible", settings.Stage1Visible),
		zap.Bool("stage2_visible", settings.Stage2Visible),
		zap.Bool("voting_open", settings.VotingOpen),
	)
	return nil
}

func (uc *AdminUsecase) Seed(ctx context.Context) error {
	return uc.portal.SeedDatabase(ctx)
}
