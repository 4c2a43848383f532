package repository

import (
	"fmt"

	"gorm.io/gorm"

	"docquery/internal/model"
)

type IngestEventRepository struct {
	db *gorm.DB
}

func NewIngestEventRepository(db *gorm.DB) *IngestEventRepository {
	return &IngestEventRepository{db: db}
}

func (r *IngestEventRepository) Create(event *model.IngestEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("create ingest event failed: %w", err)
	}
	return nil
}

func (r *IngestEventRepository) ListByDocumentID(documentID uint) ([]model.IngestEvent, error) {
	var events []model.IngestEvent
	if err := r.db.Where("document_id = ?", documentID).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list ingest events failed: %w", err)
	}
	return events, nil
}
