// Package store keeps JSON records grouped in collections, json-server style, on top of gorm.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"comanda-dashboard-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	List(ctx context.Context, collection string) ([]Record, error)
	Get(ctx context.Context, collection, key string) (Record, error)
	Create(ctx context.Context, collection string, rec Record) (Record, error)
	Patch(ctx context.Context, collection, key string, patch Record) (Record, error)
	Upsert(ctx context.Context, collection string, recs []Record) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// List returns a collection in insertion order.
func (s *gormStore) List(ctx context.Context, collection string) ([]Record, error) {
	var docs []model.Document
	if err := s.db.WithContext(ctx).Where("collection = ?", collection).Order("id").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		rec, err := decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get returns one record.
func (s *gormStore) Get(ctx context.Context, collection, key string) (Record, error) {
	doc, err := find(s.db.WithContext(ctx), collection, key)
	if err != nil {
		return nil, err
	}
	return decode(doc)
}

// Create stores a new record. A record without an id gets the next numeric id of its collection.
func (s *gormStore) Create(ctx context.Context, collection string, rec Record) (Record, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if rec.Key() == "" {
			next, err := nextID(tx, collection)
			if err != nil {
				return err
			}
			rec["id"] = next
		}
		doc, err := encode(collection, rec)
		if err != nil {
			return err
		}
		if err := tx.Create(&doc).Error; err != nil {
			return fmt.Errorf("failed to create %s/%s: %w", collection, doc.RecordKey, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Patch merges the top-level fields of patch into a record. The id never changes.
func (s *gormStore) Patch(ctx context.Context, collection, key string, patch Record) (Record, error) {
	var merged Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err := find(tx, collection, key)
		if err != nil {
			return err
		}
		merged, err = decode(doc)
		if err != nil {
			return err
		}
		for k, v := range patch {
			if k != "id" {
				merged[k] = v
			}
		}
		body, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		if err := tx.Model(&doc).Update("body", string(body)).Error; err != nil {
			return fmt.Errorf("failed to update %s/%s: %w", collection, key, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// Upsert replaces records by id, inserting the missing ones.
func (s *gormStore) Upsert(ctx context.Context, collection string, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	docs := make([]model.Document, 0, len(recs))
	for _, rec := range recs {
		if rec.Key() == "" {
			return fmt.Errorf("record without id in %s", collection)
		}
		doc, err := encode(collection, rec)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&docs).Error
}

func find(db *gorm.DB, collection, key string) (model.Document, error) {
	var doc model.Document
	err := db.Where("collection = ? AND record_key = ?", collection, key).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return doc, ErrNotFound
	}
	if err != nil {
		return doc, fmt.Errorf("failed to load %s/%s: %w", collection, key, err)
	}
	return doc, nil
}

func nextID(tx *gorm.DB, collection string) (int64, error) {
	var keys []string
	if err := tx.Model(&model.Document{}).Where("collection = ?", collection).Pluck("record_key", &keys).Error; err != nil {
		return 0, fmt.Errorf("failed to read %s ids: %w", collection, err)
	}
	var max int64
	for _, k := range keys {
		if n, err := strconv.ParseInt(k, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

func encode(collection string, rec Record) (model.Document, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to encode %s record: %w", collection, err)
	}
	return model.Document{Collection: collection, RecordKey: rec.Key(), Body: string(body)}, nil
}

func decode(doc model.Document) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(doc.Body), &rec); err != nil {
		return nil, fmt.Errorf("corrupt record %s/%s: %w", doc.Collection, doc.RecordKey, err)
	}
	return rec, nil
}
