package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	TypePDF  = "application/pdf"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeText = "text/plain"
)

// ErrFileType rejects anything outside the PDF/DOCX/TXT allow-list.
type ErrFileType struct {
	Name string
}

func (e *ErrFileType) Error() string {
	return fmt.Sprintf("unsupported file type %q: only PDF, DOCX, or TXT files are allowed", e.Name)
}

// File is a document selected for upload, held fully in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the payload size in bytes.
func (f *File) Size() int64 {
	return int64(len(f.Data))
}

// ContentTypeFor maps a file name to its upload content type. Unknown
// extensions return an empty string.
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return TypePDF
	case ".docx":
		return TypeDOCX
	case ".txt":
		return TypeText
	default:
		return ""
	}
}

// Validate checks the allow-list without touching the file contents, so a
// rejected file never reaches the network.
func Validate(name string) error {
	if ContentTypeFor(name) == "" {
		return &ErrFileType{Name: filepath.Base(name)}
	}
	return nil
}

// Open validates and reads a file from disk.
func Open(path string) (*File, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return &File{
		Name:        filepath.Base(path),
		ContentType: ContentTypeFor(path),
		Data:        data,
	}, nil
}
