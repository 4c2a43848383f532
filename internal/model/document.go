package model

import "time"

// Document processing statuses.
const (
	DocumentStatusPending   = "pending"
	DocumentStatusProcessed = "processed"
	DocumentStatusFailed    = "failed"
)

// Document is an uploaded file whose extracted text has been chunked
// and embedded. Filename is the idempotency key for ingestion.
type Document struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Filename      string    `gorm:"size:256;not null;uniqueIndex" json:"filename"`
	ContentType   string    `gorm:"size:64;not null" json:"content_type"`
	Size          int64     `gorm:"not null" json:"size"`
	TextLength    int       `gorm:"not null" json:"text_length"`
	Status        string    `gorm:"size:16;not null;default:pending" json:"status"`
	ChunksCreated int       `json:"chunks_created"`
	FailedChunks  int       `json:"failed_chunks"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
