package treestorage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/tencentyun/cos-go-sdk-v5"

	"github.com/treesimjoin/simjoin/pkg/apperr"
)

// COSConfig configures the Tencent Cloud COS backend.
type COSConfig struct {
	Bucket    string
	Region    string
	SecretID  string
	SecretKey string
	Domain    string // e.g. "myqcloud.com"
	Scheme    string // "https" or "http"
}

// COSStorage stores corpus and result blobs in a COS bucket.
type COSStorage struct {
	client *cos.Client
	bucket string
	region string
	domain string
	scheme string
}

// NewCOSStorage creates a COS-backed Storage.
func NewCOSStorage(cfg *COSConfig) (*COSStorage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, apperr.New(apperr.CodeConfigError, "bucket and region are required for COS storage")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, apperr.New(apperr.CodeConfigError, "credentials are required for COS storage")
	}

	domain := cfg.Domain
	if domain == "" {
		domain = "myqcloud.com"
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	bucketURL, err := url.Parse(fmt.Sprintf("%s://%s.cos.%s.%s", scheme, cfg.Bucket, cfg.Region, domain))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeConfigError, "parsing bucket URL", err)
	}
	serviceURL, err := url.Parse(fmt.Sprintf("%s://cos.%s.%s", scheme, cfg.Region, domain))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeConfigError, "parsing service URL", err)
	}

	client := cos.NewClient(&cos.BaseURL{
		BucketURL:  bucketURL,
		ServiceURL: serviceURL,
	}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	return &COSStorage{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		domain: domain,
		scheme: scheme,
	}, nil
}

// Upload writes reader's contents under key.
func (s *COSStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	if _, err := s.client.Object.Put(ctx, key, reader, nil); err != nil {
		return apperr.Wrap(apperr.CodeUploadError, "uploading "+key, err)
	}
	return nil
}

// UploadFile stores the file at localPath under key.
func (s *COSStorage) UploadFile(ctx context.Context, key, localPath string) error {
	if _, err := s.client.Object.PutFromFile(ctx, key, localPath, nil); err != nil {
		return apperr.Wrap(apperr.CodeUploadError, "uploading "+localPath, err)
	}
	return nil
}

// Download opens the blob stored under key.
func (s *COSStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.Object.Get(ctx, key, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDownloadError, "downloading "+key, err)
	}
	return resp.Body, nil
}

// DownloadFile copies the blob stored under key to localPath.
func (s *COSStorage) DownloadFile(ctx context.Context, key, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return apperr.Wrap(apperr.CodeDownloadError, "creating directory for "+localPath, err)
	}
	if _, err := s.client.Object.GetToFile(ctx, key, localPath, nil); err != nil {
		return apperr.Wrap(apperr.CodeDownloadError, "downloading "+key, err)
	}
	return nil
}

// Delete removes the blob under key.
func (s *COSStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.client.Object.Delete(ctx, key, nil); err != nil {
		return apperr.Wrap(apperr.CodeUploadError, "deleting "+key, err)
	}
	return nil
}

// Exists reports whether a blob is stored under key.
func (s *COSStorage) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.Object.IsExist(ctx, key)
	if err != nil {
		return false, apperr.Wrap(apperr.CodeDownloadError, "checking "+key, err)
	}
	return ok, nil
}

// GetURL returns the public object URL for key.
func (s *COSStorage) GetURL(key string) string {
	return fmt.Sprintf("%s://%s.cos.%s.%s/%s", s.scheme, s.bucket, s.region, s.domain, key)
}
