package domain

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMimeType is used when a file's type cannot be inferred.
const DefaultMimeType = "application/octet-stream"

// Validation errors for File.
var (
	ErrEmptyFileID   = fmt.Errorf("%w: file ID cannot be empty", ErrValidation)
	ErrEmptyFileName = fmt.Errorf("%w: file name cannot be empty", ErrValidation)
	ErrNegativeSize  = fmt.Errorf("%w: file size cannot be negative", ErrValidation)
)

// File is the metadata of a simulated upload. Contents are never stored.
type File struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mimeType"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// NewFile creates a File. An empty mimeType is inferred from the extension.
func NewFile(name string, size int64, mimeType string) (*File, error) {
	name = strings.TrimSpace(name)
	if mimeType == "" {
		mimeType = InferMimeType(name)
	}

	file := &File{
		ID:         uuid.New(),
		Name:       name,
		Size:       size,
		MimeType:   mimeType,
		UploadedAt: time.Now().UTC(),
	}

	if err := file.Validate(); err != nil {
		return nil, err
	}

	return file, nil
}

// Validate checks if the File has valid data.
func (f *File) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFileID
	}
	if f.Name == "" {
		return ErrEmptyFileName
	}
	if f.Size < 0 {
		return ErrNegativeSize
	}
	return nil
}

// InferMimeType guesses a media type from a file name's extension.
func InferMimeType(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return DefaultMimeType
}
