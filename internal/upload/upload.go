// Package upload stores multipart document images on disk, one directory
// per driver.
package upload

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxFileSize caps each document image at 10 MB.
const MaxFileSize = 10 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// Store saves files under a base directory.
type Store struct {
	BaseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{BaseDir: baseDir}
}

// SaveDocuments persists one file per named field for the given driver and
// returns field -> stored path. Fields without a file are simply absent
// from the result; callers decide which fields were required.
func (s *Store) SaveDocuments(c *gin.Context, driverID uint, fields []string) (map[string]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	saved := make(map[string]string)
	for _, field := range fields {
		files := form.File[field]
		if len(files) == 0 {
			continue
		}
		path, err := s.saveOne(c, driverID, field, files[0])
		if err != nil {
			return nil, err
		}
		saved[field] = path
	}
	return saved, nil
}

func (s *Store) saveOne(c *gin.Context, driverID uint, field string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", fmt.Errorf("%s exceeds the 10MB size limit", field)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("invalid file type for %s: only JPEG, PNG, PDF allowed", field)
	}

	dir := filepath.Join(s.BaseDir, fmt.Sprintf("%d", driverID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	dst := filepath.Join(dir, fmt.Sprintf("%s-%s%s", field, uuid.NewString(), ext))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", fmt.Errorf("save %s: %w", field, err)
	}
	return dst, nil
}
