// Package upload validates local files before they are sent to the backend.
// Nothing here touches the network: a rejected file never produces a request.
package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tingxin/ai-customer-assistant/internal/cli/form"
	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
)

// MaxFileSize is the exclusive upper bound on upload size (10MB)
const MaxFileSize int64 = 10 * 1024 * 1024

// AllowedExtensions lists the accepted file extensions (lower case)
var AllowedExtensions = []string{".pdf", ".doc", ".docx", ".txt", ".md"}

var (
	// ErrRejected marks any client-side rejection
	ErrRejected = errors.New("upload rejected")
	// ErrUnsupportedType the extension is not in AllowedExtensions
	ErrUnsupportedType = fmt.Errorf("%w: 只支持 PDF、Word、TXT、Markdown 格式文件", ErrRejected)
	// ErrTooLarge the file is 10MB or larger
	ErrTooLarge = fmt.Errorf("%w: 文件大小不能超过 10MB", ErrRejected)
	// ErrNoFile no file was selected
	ErrNoFile = fmt.Errorf("%w: 请选择要上传的文件", ErrRejected)
)

// Validate checks a file name and size against the upload rules
func Validate(name string, size int64) error {
	if strings.TrimSpace(name) == "" {
		return ErrNoFile
	}
	if !IsAllowedType(name) {
		return ErrUnsupportedType
	}
	if size >= MaxFileSize {
		return ErrTooLarge
	}
	return nil
}

// IsAllowedType reports whether the file name carries an accepted extension
func IsAllowedType(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range AllowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// DefaultTitle derives a document title from a file name by dropping the last extension
func DefaultTitle(name string) string {
	base := filepath.Base(name)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		return base[:idx]
	}
	return base
}

// Selection is a validated file ready to be submitted
type Selection struct {
	Path        string
	Name        string
	Size        int64
	Title       string
	Description string

	file *os.File
}

// Prepare opens and validates a local file. The caller must Close the selection.
func Prepare(path string) (*Selection, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoFile
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrRejected, path)
	}

	name := filepath.Base(path)
	if err := Validate(name, info.Size()); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return &Selection{
		Path:  path,
		Name:  name,
		Size:  info.Size(),
		Title: DefaultTitle(name),
		file:  f,
	}, nil
}

// Request validates the form fields and builds the multipart upload request
func (s *Selection) Request() (*types.UploadRequest, error) {
	if err := form.DocumentRules.Validate(map[string]string{
		"title":       s.Title,
		"description": s.Description,
	}); err != nil {
		return nil, err
	}

	return &types.UploadRequest{
		Filename:    s.Name,
		Reader:      s.file,
		Title:       strings.TrimSpace(s.Title),
		Description: strings.TrimSpace(s.Description),
	}, nil
}

// Close releases the underlying file
func (s *Selection) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
