package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/auth"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/service"
	"go.uber.org/zap"
)

const minPasswordLength = 6

type Session struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

type AuthUsecase struct {
	portal service.PortalServiceInterface
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewAuthUsecase(portal service.PortalServiceInterface, tokens *auth.TokenManager, logger *zap.Logger) *AuthUsecase {
	return &AuthUsecase{portal: portal, tokens: tokens, logger: logger.Named("auth")}
}

func (uc *AuthUsecase) Login(ctx context.Context, identifier, password string) (*Session, error) {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", apperror.ErrValidation)
	}
	user, err := uc.portal.Login(ctx, identifier, password)
	if err != nil {
		uc.logger.Info("login failed", zap.String("identifier", identifier), zap.Error(err))
		return nil, err
	}
	return uc.session(user)
}

func (uc *AuthUsecase) Register(ctx context.Context, email, password, displayName string) (*Session, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", apperror.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperror.ErrValidation, minPasswordLength)
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, fmt.Errorf("%w: display name is required", apperror.ErrValidation)
	}
	user, err := uc.portal.Register(ctx, email, password, strings.TrimSpace(displayName))
	if err != nil {
		return nil, err
	}
	uc.logger.Info("applicant registered", zap.String("uid", user.UID))
	return uc.session(user)
}

func (uc *AuthUsecase) session(user *model.User) (*Session, error) {
	token, expires, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: expires}, nil
}
