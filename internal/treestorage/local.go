package treestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/treesimjoin/simjoin/pkg/apperr"
)

// LocalStorage keeps corpus and result blobs on the local filesystem
// under a base directory, keyed by relative path.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath
// ("./storage" when empty), creating the directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./storage"
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, apperr.Wrap(apperr.CodeConfigError, "creating storage directory", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Upload writes reader's contents under key.
func (s *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath := s.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperr.Wrap(apperr.CodeUploadError, "creating directory for "+key, err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return apperr.Wrap(apperr.CodeUploadError, "creating "+key, err)
	}
	defer file.Close()
	if _, err := io.Copy(file, reader); err != nil {
		return apperr.Wrap(apperr.CodeUploadError, "writing "+key, err)
	}
	return nil
}

// UploadFile stores the file at localPath under key.
func (s *LocalStorage) UploadFile(ctx context.Context, key, localPath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return apperr.Wrap(apperr.CodeUploadError, "opening "+localPath, err)
	}
	defer src.Close()
	return s.Upload(ctx, key, src)
}

// Download opens the blob stored under key.
func (s *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.CodeNotFound, fmt.Sprintf("file not found: %s", key), err)
		}
		return nil, apperr.Wrap(apperr.CodeDownloadError, "opening "+key, err)
	}
	return file, nil
}

// DownloadFile copies the blob stored under key to localPath.
func (s *LocalStorage) DownloadFile(ctx context.Context, key, localPath string) error {
	src, err := s.Download(ctx, key)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return apperr.Wrap(apperr.CodeDownloadError, "creating directory for "+localPath, err)
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return apperr.Wrap(apperr.CodeDownloadError, "creating "+localPath, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return apperr.Wrap(apperr.CodeDownloadError, "copying to "+localPath, err)
	}
	return nil
}

// Delete removes the blob under key; deleting a missing key is not an
// error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.fullPath(key)); err != nil && !os.IsNotExist(err) {
		return apperr.Wrap(apperr.CodeUploadError, "deleting "+key, err)
	}
	return nil
}

// Exists reports whether a blob is stored under key.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperr.Wrap(apperr.CodeDownloadError, "checking "+key, err)
	}
	return true, nil
}

// GetURL returns the filesystem path a key resolves to.
func (s *LocalStorage) GetURL(key string) string { return s.fullPath(key) }

// GetBasePath returns the storage root.
func (s *LocalStorage) GetBasePath() string { return s.basePath }

func (s *LocalStorage) fullPath(key string) string {
	return filepath.Join(s.basePath, key)
}
