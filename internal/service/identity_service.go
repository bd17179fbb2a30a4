package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/config"
	"github.com/fadilmartias/grant-portal/internal/repository"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// IdentityServiceInterface authenticates login handles and provisions new
// identities. It returns the identity's external user id.
type IdentityServiceInterface interface {
	Authenticate(ctx context.Context, handle, secret string) (string, error)
	CreateIdentity(ctx context.Context, handle, secret string) (string, error)
}

// NewIdentityService picks the identity provider named in cfg.
func NewIdentityService(cfg *config.IdentityConfig, identities *repository.IdentityRepository, logger *zap.Logger) (IdentityServiceInterface, error) {
	switch cfg.Provider {
	case config.IdentityFirebase:
		return NewFirebaseIdentityService(cfg, logger)
	case config.IdentityDatabase, "":
		return NewDatabaseIdentityService(identities, bcrypt.DefaultCost), nil
	default:
		return nil, fmt.Errorf("unsupported identity provider: %s (supported: firebase, database)", cfg.Provider)
	}
}

// FirebaseIdentityService talks to the Identity Toolkit REST API (or the
// auth emulator) with email/password accounts.
type FirebaseIdentityService struct {
	APIKey string
	client *resty.Client
	logger *zap.Logger
}

func NewFirebaseIdentityService(cfg *config.IdentityConfig, logger *zap.Logger) (*FirebaseIdentityService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("FIREBASE_API_KEY not set")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(15*time.Second).
		SetHeader("Content-Type", "application/json")
	return &FirebaseIdentityService{
		APIKey: cfg.APIKey,
		client: client,
		logger: logger.Named("firebase-identity"),
	}, nil
}

func (s *FirebaseIdentityService) Authenticate(ctx context.Context, handle, secret string) (string, error) {
	return s.call(ctx, "signInWithPassword", handle, secret)
}

func (s *FirebaseIdentityService) CreateIdentity(ctx context.Context, handle, secret string) (string, error) {
	return s.call(ctx, "signUp", handle, secret)
}

func (s *FirebaseIdentityService) call(ctx context.Context, method, handle, secret string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.APIKey).
		SetBody(map[string]any{
			"email":             handle,
			"password":          secret,
			"returnSecureToken": true,
		}).
		Post("/v1/accounts:" + method)
	if err != nil {
		return "", fmt.Errorf("identity request %s failed: %w", method, err)
	}

	body := resp.String()
	if resp.IsError() {
		code := gjson.Get(body, "error.message").String()
		s.logger.Debug("identity request rejected",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode()),
			zap.String("code", code),
		)
		return "", firebaseError(code, resp.StatusCode())
	}

	uid := gjson.Get(body, "localId").String()
	if uid == "" {
		return "", fmt.Errorf("identity response %s has no localId", method)
	}
	return uid, nil
}

// firebaseError maps Identity Toolkit error codes onto the portal errors.
// Codes may carry a detail suffix, e.g. "WEAK_PASSWORD : Password should be
// at least 6 characters".
func firebaseError(code string, status int) error {
	name := strings.TrimSpace(strings.SplitN(code, ":", 2)[0])
	switch name {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return fmt.Errorf("%w: %s", apperror.ErrAuthentication, name)
	case "EMAIL_EXISTS":
		return apperror.ErrDuplicateAccount
	case "WEAK_PASSWORD", "INVALID_EMAIL", "MISSING_PASSWORD", "MISSING_EMAIL":
		return fmt.Errorf("%w: %s", apperror.ErrValidation, code)
	}
	if code == "" {
		code = "unknown error"
	}
	return fmt.Errorf("identity provider error (status %d): %s", status, code)
}

// DatabaseIdentityService keeps bcrypt hashed credentials in the identities
// table next to the documents.
type DatabaseIdentityService struct {
	identities *repository.IdentityRepository
	cost       int
}

func NewDatabaseIdentityService(identities *repository.IdentityRepository, cost int) *DatabaseIdentityService {
	return &DatabaseIdentityService{identities: identities, cost: cost}
}

func (s *DatabaseIdentityService) Authenticate(ctx context.Context, handle, secret string) (string, error) {
	identity, err := s.identities.FindByEmail(ctx, handle)
	if errors.Is(err, apperror.ErrNotFound) {
		return "", apperror.ErrAuthentication
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(secret)); err != nil {
		return "", apperror.ErrAuthentication
	}
	return identity.UID, nil
}

func (s *DatabaseIdentityService) CreateIdentity(ctx context.Context, handle, secret string) (string, error) {
	uid := uuid.NewString()
	if err := s.ProvisionIdentity(ctx, uid, handle, secret); err != nil {
		return "", err
	}
	return uid, nil
}

// ProvisionIdentity stores credentials for a known uid, so seeded profiles
// can sign in under their fixture ids.
func (s *DatabaseIdentityService) ProvisionIdentity(ctx context.Context, uid, handle, secret string) error {
	if secret == "" {
		return fmt.Errorf("%w: password is required", apperror.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.identities.Create(ctx, &repository.Identity{
		UID:          uid,
		Email:        handle,
		PasswordHash: string(hash),
	})
}
