// Package documentctrl records every ingested source in Postgres so the
// corpus contents can be listed without querying the vector index.
package documentctrl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Document struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Source     string    `gorm:"not null;uniqueIndex" json:"source"` // file name or URL
	MediaType  string    `gorm:"not null;column:media_type" json:"media_type"`
	ChunkCount int       `gorm:"not null;column:chunk_count" json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type DocumentService struct {
	db        *gorm.DB
	snowflake *snowflake.Node
}

func NewDocumentService(db *gorm.DB) (*DocumentService, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %v", err)
	}

	return &DocumentService{
		db:        db,
		snowflake: node,
	}, nil
}

// RecordIngest inserts a catalog entry for the source, or refreshes the
// chunk count when the source was ingested before.
func (s *DocumentService) RecordIngest(ctx context.Context, source, mediaType string, chunkCount int) (*Document, error) {
	var existing Document
	result := s.db.WithContext(ctx).Where("source = ?", source).First(&existing)
	if result.Error == nil {
		existing.MediaType = mediaType
		existing.ChunkCount = chunkCount
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update document record: %v", err)
		}
		return &existing, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up document record: %v", result.Error)
	}

	doc := &Document{
		ID:         s.snowflake.Generate().Int64(),
		Source:     source,
		MediaType:  mediaType,
		ChunkCount: chunkCount,
	}

	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to create document record: %v", err)
	}

	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, limit, offset int) ([]Document, error) {
	var docs []Document
	result := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list documents: %v", result.Error)
	}
	return docs, nil
}

func (s *DocumentService) GetBySource(ctx context.Context, source string) (*Document, error) {
	var doc Document
	result := s.db.WithContext(ctx).Where("source = ?", source).First(&doc)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %v", result.Error)
	}
	return &doc, nil
}

// Migrate creates the documents table.
func (s *DocumentService) Migrate() error {
	return s.db.AutoMigrate(&Document{})
}
