package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/urbanswap/urbanswap-backend/pkg/config"
)

// allowedExtensions lists the image types accepted for listing photos.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// DiskStore persists uploaded listing images on the local filesystem and
// serves them back through a static file route.
type DiskStore struct {
	dir        string
	publicPath string
	maxBytes   int64
}

// NewDiskStore ensures the upload directory exists and returns a store.
func NewDiskStore(cfg config.UploadsConfig) (*DiskStore, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("uploads dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", cfg.Dir, err)
	}
	maxBytes := int64(cfg.MaxUploadMB) * 1024 * 1024
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &DiskStore{
		dir:        cfg.Dir,
		publicPath: strings.TrimSuffix(cfg.PublicPath, "/"),
		maxBytes:   maxBytes,
	}, nil
}

// Dir returns the filesystem directory backing the store.
func (s *DiskStore) Dir() string {
	return s.dir
}

// MaxBytes returns the upload size cap in bytes.
func (s *DiskStore) MaxBytes() int64 {
	return s.maxBytes
}

// Save writes the uploaded file under a generated name and returns the
// public URL path clients use to fetch it.
func (s *DiskStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}

	name := fmt.Sprintf("listing-%s%s", uuid.NewString(), ext)
	fullpath := filepath.Join(s.dir, name)

	f, err := os.OpenFile(fullpath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	// +1 so an exactly-at-limit file passes and an oversized one is detected
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		os.Remove(fullpath)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(fullpath)
		return "", fmt.Errorf("image exceeds the %d byte limit", s.maxBytes)
	}

	return path.Join(s.publicPath, name), nil
}

// Remove deletes a previously stored file referenced by its public URL path.
// Unknown paths are ignored.
func (s *DiskStore) Remove(publicURL string) error {
	if s.publicPath == "" || !strings.HasPrefix(publicURL, s.publicPath+"/") {
		return nil
	}
	name := path.Base(publicURL)
	if name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}
