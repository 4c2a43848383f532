package model

import "time"

// IngestEvent is an audit record of a completed ingestion run. Events are
// published to the message queue by the ingest service and persisted
// asynchronously by the audit worker.
type IngestEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EventID       string    `gorm:"size:36;not null;uniqueIndex" json:"event_id"`
	DocumentID    uint      `gorm:"not null;index" json:"document_id"`
	Filename      string    `gorm:"size:256;not null" json:"filename"`
	Status        string    `gorm:"size:16;not null" json:"status"`
	ChunksCreated int       `json:"chunks_created"`
	FailedChunks  int       `json:"failed_chunks"`
	CreatedAt     time.Time `json:"created_at"`
}
