package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentStore is the persistence contract of the remote backend: a set of
// named collections holding JSON documents keyed by id.
type DocumentStore interface {
	GetDocument(ctx context.Context, collection, id string) (Document, error)
	GetAllDocuments(ctx context.Context, collection string) ([]Snapshot, error)
	QueryDocuments(ctx context.Context, collection, field string, value any) ([]Snapshot, error)
	SetDocument(ctx context.Context, collection, id string, data Document, merge bool) error
	DeleteDocument(ctx context.Context, collection, id string) error
	CommitBatch(ctx context.Context, writes []BatchWrite) error
}

type BatchOp string

const (
	BatchSet    BatchOp = "set"
	BatchDelete BatchOp = "delete"
)

type BatchWrite struct {
	Op         BatchOp
	Collection string
	ID         string
	Data       Document
	Merge      bool
}

type DocumentRecord struct {
	Collection string    `gorm:"primaryKey;type:varchar(64)"`
	ID         string    `gorm:"primaryKey;type:varchar(191)"`
	Data       Document  `gorm:"type:text;serializer:json"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (DocumentRecord) TableName() string {
	return "documents"
}

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db}
}

func (r *DocumentRepository) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	rec, err := findDocument(r.db.WithContext(ctx), collection, id)
	if err != nil {
		return nil, err
	}
	return rec.Data, nil
}

func (r *DocumentRepository) GetAllDocuments(ctx context.Context, collection string) ([]Snapshot, error) {
	var recs []DocumentRecord
	err := r.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	out := make([]Snapshot, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Snapshot{ID: rec.ID, Data: rec.Data})
	}
	return out, nil
}

// QueryDocuments returns the documents whose top level field equals value.
// Filtering happens after loading the collection so the same code runs on
// every SQL dialect; collections here stay small.
func (r *DocumentRepository) QueryDocuments(ctx context.Context, collection, field string, value any) ([]Snapshot, error) {
	all, err := r.GetAllDocuments(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]Snapshot, 0, len(all))
	for _, snap := range all {
		if v, ok := snap.Data[field]; ok && matches(v, value) {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (r *DocumentRepository) SetDocument(ctx context.Context, collection, id string, data Document, merge bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return setDocument(tx, collection, id, data, merge)
	})
}

func (r *DocumentRepository) DeleteDocument(ctx context.Context, collection, id string) error {
	res := r.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&DocumentRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, apperror.ErrNotFound)
	}
	return nil
}

// CommitBatch applies every write inside one transaction. Deleting a missing
// document inside a batch is not an error.
func (r *DocumentRepository) CommitBatch(ctx context.Context, writes []BatchWrite) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, w := range writes {
			switch w.Op {
			case BatchSet:
				if err := setDocument(tx, w.Collection, w.ID, w.Data, w.Merge); err != nil {
					return fmt.Errorf("batch write %d: %w", i, err)
				}
			case BatchDelete:
				err := tx.Where("collection = ? AND id = ?", w.Collection, w.ID).
					Delete(&DocumentRecord{}).Error
				if err != nil {
					return fmt.Errorf("batch write %d: failed to delete %s/%s: %w", i, w.Collection, w.ID, err)
				}
			default:
				return fmt.Errorf("batch write %d: unknown op %q", i, w.Op)
			}
		}
		return nil
	})
}

func findDocument(db *gorm.DB, collection, id string) (*DocumentRecord, error) {
	var rec DocumentRecord
	err := db.First(&rec, "collection = ? AND id = ?", collection, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	if rec.Data == nil {
		rec.Data = Document{}
	}
	return &rec, nil
}

func setDocument(tx *gorm.DB, collection, id string, data Document, merge bool) error {
	if data == nil {
		data = Document{}
	}
	if merge {
		existing, err := findDocument(tx, collection, id)
		switch {
		case err == nil:
			data = Merge(existing.Data, data)
		case !errors.Is(err, apperror.ErrNotFound):
			return err
		}
	}
	rec := DocumentRecord{Collection: collection, ID: id, Data: data}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}
