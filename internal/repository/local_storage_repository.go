package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LocalStorage is a flat, string keyed, persistent map. The local backend
// keeps one JSON array per key in it.
type LocalStorage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

type LocalItem struct {
	Key       string    `gorm:"primaryKey;type:varchar(191)" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LocalItem) TableName() string {
	return "local_items"
}

type LocalStorageRepository struct {
	db *gorm.DB
}

func NewLocalStorageRepository(db *gorm.DB) *LocalStorageRepository {
	return &LocalStorageRepository{db}
}

func (r *LocalStorageRepository) GetItem(ctx context.Context, key string) (string, bool, error) {
	var item LocalItem
	err := r.db.WithContext(ctx).First(&item, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read local item %q: %w", key, err)
	}
	return item.Value, true, nil
}

func (r *LocalStorageRepository) SetItem(ctx context.Context, key, value string) error {
	item := LocalItem{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to write local item %q: %w", key, err)
	}
	return nil
}

func (r *LocalStorageRepository) RemoveItem(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Delete(&LocalItem{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("failed to remove local item %q: %w", key, err)
	}
	return nil
}
