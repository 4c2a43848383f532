package repository

import (
	"fmt"

	"gorm.io/gorm"

	"docquery/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) Create(chunk *model.Chunk) error {
	if err := r.db.Create(chunk).Error; err != nil {
		return fmt.Errorf("create chunk failed: %w", err)
	}
	return nil
}

// ListAll returns every stored chunk including embeddings. The similarity
// engine does a full scan, so there is no filtering here.
func (r *ChunkRepository) ListAll() ([]model.Chunk, error) {
	var chunks []model.Chunk
	if err := r.db.Order("id ASC").Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list chunks failed: %w", err)
	}
	return chunks, nil
}

// ListByDocumentID returns a page of chunks ordered by ordinal index,
// embeddings excluded to keep responses small.
func (r *ChunkRepository) ListByDocumentID(documentID uint, limit, offset int) ([]model.Chunk, error) {
	var chunks []model.Chunk
	if err := r.db.
		Select("id", "document_id", "chunk_index", "content", "chunk_size", "created_at").
		Where("document_id = ?", documentID).
		Order("chunk_index ASC").
		Limit(limit).
		Offset(offset).
		Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list chunks by document failed: %w", err)
	}
	return chunks, nil
}

func (r *ChunkRepository) CountByDocumentID(documentID uint) (int64, error) {
	var n int64
	if err := r.db.Model(&model.Chunk{}).Where("document_id = ?", documentID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count chunks by document failed: %w", err)
	}
	return n, nil
}

func (r *ChunkRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&model.Chunk{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count chunks failed: %w", err)
	}
	return n, nil
}

// DeleteByDocumentID removes all chunks of a document and reports how many
// were deleted. Used for cascade deletion.
func (r *ChunkRepository) DeleteByDocumentID(documentID uint) (int64, error) {
	res := r.db.Where("document_id = ?", documentID).Delete(&model.Chunk{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete chunks by document failed: %w", res.Error)
	}
	return res.RowsAffected, nil
}
