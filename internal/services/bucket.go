package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/logger"
)

// BucketService wraps object storage. Clients upload originals directly via
// signed PUT URLs; the server only ever touches bytes while processing.
type BucketService interface {
	SignedUploadURL(ctx context.Context, key, contentType string) (string, error)
	UploadFile(ctx context.Context, key string, data []byte, contentType string) error
	DownloadFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
	DeleteFiles(ctx context.Context, keys []string) error
	GetPublicURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucketName    string
	cdnBaseURL    string
	presignExpiry time.Duration
}

func NewBucketService(cfg config.MediaConfig, log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}
	saPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")
	if saPath == "" {
		serviceLog.Warn("GOOGLE_APPLICATION_CREDENTIALS_JSON not set - relying on ambient ADC")
	}
	ctx := context.Background()
	var stClient *storage.Client
	var err error
	if saPath != "" {
		stClient, err = storage.NewClient(ctx, option.WithCredentialsFile(saPath), option.WithScopes(storage.ScopeReadWrite))
	} else {
		stClient, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
	}
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		bucketName:    cfg.BucketName,
		cdnBaseURL:    strings.TrimRight(cfg.CDNBaseURL, "/"),
		presignExpiry: cfg.PresignExpiry,
	}, nil
}

func (bs *bucketService) SignedUploadURL(ctx context.Context, key, contentType string) (string, error) {
	url, err := bs.storageClient.Bucket(bs.bucketName).SignedURL(key, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		Expires:     time.Now().Add(bs.presignExpiry),
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("sign upload URL for %q: %w", key, err)
	}
	return url, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	w := bs.storageClient.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer for %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	r, err := bs.storageClient.Bucket(bs.bucketName).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open object %q: %w", key, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read object %q: %w", key, err)
	}
	return data, nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(bs.bucketName).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

// DeleteFiles removes every key it can and reports the first failure.
func (bs *bucketService) DeleteFiles(ctx context.Context, keys []string) error {
	var firstErr error
	for _, key := range keys {
		if err := bs.DeleteFile(ctx, key); err != nil {
			bs.log.Warn("Failed to delete object", "key", key, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (bs *bucketService) GetPublicURL(key string) string {
	if bs.cdnBaseURL != "" {
		return bs.cdnBaseURL + "/" + key
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}
