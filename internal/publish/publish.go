// Package publish ships a generated manifest to where the host runtime
// reads it from.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/afero"
)

// Publisher stores a named document.
type Publisher interface {
	Publish(ctx context.Context, name string, data []byte) error
}

// Remover deletes a previously published document. Removing a document
// that does not exist is not an error.
type Remover interface {
	Remove(ctx context.Context, name string) error
}

// FilePublisher writes documents under Dir.
type FilePublisher struct {
	Fs  afero.Fs
	Dir string
}

// NewFilePublisher returns a FilePublisher over fsys, or the OS filesystem
// when nil.
func NewFilePublisher(fsys afero.Fs, dir string) *FilePublisher {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FilePublisher{Fs: fsys, Dir: dir}
}

func (p *FilePublisher) Publish(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("document name is required")
	}

	path := name
	if p.Dir != "" && !filepath.IsAbs(name) {
		path = filepath.Join(p.Dir, name)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := p.Fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(p.Fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (p *FilePublisher) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := name
	if p.Dir != "" && !filepath.IsAbs(name) {
		path = filepath.Join(p.Dir, name)
	}
	if err := p.Fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// MinioConfig holds the object store connection settings.
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// objectStore is the part of *minio.Client a MinioPublisher uses.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
}

// MinioPublisher uploads documents to a MinIO or S3 bucket.
type MinioPublisher struct {
	store  objectStore
	bucket string
	region string
}

// NewMinioPublisher connects to the configured endpoint. The endpoint may
// be a bare host:port or a URL; an https URL turns SSL on.
func NewMinioPublisher(cfg MinioConfig) (*MinioPublisher, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}

	endpoint, useSSL := cfg.Endpoint, cfg.UseSSL
	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid minio endpoint: %w", err)
		}
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioPublisher{store: client, bucket: cfg.Bucket, region: cfg.Region}, nil
}

func (p *MinioPublisher) Publish(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("object key is required")
	}
	if err := p.ensureBucket(ctx); err != nil {
		return err
	}

	_, err := p.store.PutObject(ctx, p.bucket, filepath.ToSlash(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", name, p.bucket, err)
	}
	return nil
}

func (p *MinioPublisher) Remove(ctx context.Context, name string) error {
	if err := p.store.RemoveObject(ctx, p.bucket, filepath.ToSlash(name), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s from bucket %s: %w", name, p.bucket, err)
	}
	return nil
}

func (p *MinioPublisher) ensureBucket(ctx context.Context) error {
	exists, err := p.store.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", p.bucket, err)
	}
	if exists {
		return nil
	}
	if err := p.store.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
	}
	return nil
}

// Stdout writes documents to w, one after another.
type Stdout struct {
	W io.Writer
}

func (s Stdout) Publish(_ context.Context, _ string, data []byte) error {
	w := s.W
	if w == nil {
		w = os.Stdout
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

var (
	_ Publisher = (*FilePublisher)(nil)
	_ Publisher = (*MinioPublisher)(nil)
	_ Publisher = Stdout{}
	_ Remover   = (*FilePublisher)(nil)
	_ Remover   = (*MinioPublisher)(nil)
)
