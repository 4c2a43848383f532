package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docquery/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) GetByFilename(filename string) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Where("filename = ?", filename).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document by filename failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) List() ([]model.Document, error) {
	var docs []model.Document
	if err := r.db.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

// UpdateStatus sets the terminal processing state and chunk counts in a
// single write after all chunk attempts finish.
func (r *DocumentRepository) UpdateStatus(id uint, status string, chunksCreated, failedChunks int) error {
	updates := map[string]interface{}{
		"status":         status,
		"chunks_created": chunksCreated,
		"failed_chunks":  failedChunks,
	}
	if err := r.db.Model(&model.Document{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update document status failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Document{}, id).Error; err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&model.Document{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count documents failed: %w", err)
	}
	return n, nil
}

func (r *DocumentRepository) CountByStatus(status string) (int64, error) {
	var n int64
	if err := r.db.Model(&model.Document{}).Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count documents by status failed: %w", err)
	}
	return n, nil
}

// CountByContentType returns the number of documents per content type.
func (r *DocumentRepository) CountByContentType() (map[string]int64, error) {
	type row struct {
		ContentType string
		N           int64
	}
	var rows []row
	if err := r.db.Model(&model.Document{}).
		Select("content_type, COUNT(*) AS n").
		Group("content_type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count documents by content type failed: %w", err)
	}
	dist := make(map[string]int64, len(rows))
	for _, r := range rows {
		dist[r.ContentType] = r.N
	}
	return dist, nil
}
