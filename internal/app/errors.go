package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrFileTooLarge      = errors.New("file too large")
	ErrNoExtractableText = errors.New("could not extract text from file")
	ErrDuplicateDocument = errors.New("document with this filename already exists")
	ErrTooManyChunks     = errors.New("document produces too many chunks")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrQueryEmbedding    = errors.New("failed to embed query")
	ErrInvalidCredential = errors.New("invalid credentials")
)
