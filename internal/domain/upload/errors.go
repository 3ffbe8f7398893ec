package upload

import "errors"

var (
	ErrNoFile        = errors.New("No file provided")
	ErrInvalidType   = errors.New("Invalid file type")
	ErrInvalidFormat = errors.New("Invalid file format. Please upload JPG, PNG, WebP, or PDF.")
	ErrFileTooLarge  = errors.New("File too large")

	ErrDocumentNotFound = errors.New("document not found")
	ErrForbidden        = errors.New("document belongs to another member")
)
