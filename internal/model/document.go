package model

import "time"

// Document is one JSON record of the development fake of the POS API, stored per collection.
type Document struct {
	ID         uint64    `gorm:"primaryKey"`
	Collection string    `gorm:"not null;uniqueIndex:idx_documents_collection_key"`
	RecordKey  string    `gorm:"column:record_key;not null;uniqueIndex:idx_documents_collection_key"`
	Body       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}
