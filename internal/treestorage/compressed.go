package treestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/treesimjoin/simjoin/pkg/compression"
)

// compressingStorage wraps a Storage backend with zstd compression on
// Upload and the matching decompression on Download, so every backend
// (local disk or COS) stores corpora and join result sets compressed
// without either backend knowing about it.
type compressingStorage struct {
	inner Storage
	comp  compression.Compressor
}

// withCompression wraps inner with comp, or returns inner unchanged if
// comp is nil.
func withCompression(inner Storage, comp compression.Compressor) Storage {
	if comp == nil {
		return inner
	}
	return &compressingStorage{inner: inner, comp: comp}
}

func (s *compressingStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("reading upload data for %q: %w", key, err)
	}
	compressed, err := s.comp.Compress(data)
	if err != nil {
		return fmt.Errorf("compressing %q: %w", key, err)
	}
	return s.inner.Upload(ctx, key, bytes.NewReader(compressed))
}

func (s *compressingStorage) UploadFile(ctx context.Context, key, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("reading %q: %w", localPath, err)
	}
	compressed, err := s.comp.Compress(data)
	if err != nil {
		return fmt.Errorf("compressing %q: %w", key, err)
	}
	return s.inner.Upload(ctx, key, bytes.NewReader(compressed))
}

func (s *compressingStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.inner.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}
	raw, err := s.comp.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompressing %q: %w", key, err)
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (s *compressingStorage) DownloadFile(ctx context.Context, key, localPath string) error {
	rc, err := s.Download(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return fmt.Errorf("writing %q: %w", localPath, err)
	}
	return nil
}

func (s *compressingStorage) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *compressingStorage) Exists(ctx context.Context, key string) (bool, error) {
	return s.inner.Exists(ctx, key)
}

func (s *compressingStorage) GetURL(key string) string {
	return s.inner.GetURL(key)
}
