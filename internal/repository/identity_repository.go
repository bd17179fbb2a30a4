package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"gorm.io/gorm"
)

type Identity struct {
	UID          string    `gorm:"primaryKey;type:varchar(191)" json:"uid"`
	Email        string    `gorm:"uniqueIndex;type:varchar(320)" json:"email"`
	PasswordHash string    `gorm:"type:varchar(100)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Identity) TableName() string {
	return "identities"
}

type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db}
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	var identity Identity
	err := r.db.WithContext(ctx).First(&identity, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("identity %s: %w", email, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	return &identity, nil
}

// Create stores a new identity. Emails are unique regardless of case.
func (r *IdentityRepository) Create(ctx context.Context, identity *Identity) error {
	identity.Email = strings.ToLower(identity.Email)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Identity{}).Where("email = ?", identity.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check identity: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%s: %w", identity.Email, apperror.ErrDuplicateAccount)
		}
		err := tx.Create(identity).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%s: %w", identity.Email, apperror.ErrDuplicateAccount)
		}
		if err != nil {
			return fmt.Errorf("failed to create identity: %w", err)
		}
		return nil
	})
}
