package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/twelled/spv-lifecycle/internal/config"
	"github.com/twelled/spv-lifecycle/internal/domain"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds the configured limit
	ErrFileTooLarge = errors.New("file exceeds maximum size")

	// ErrUnsupportedType is returned when the sniffed content type is not an
	// accepted document format
	ErrUnsupportedType = errors.New("unsupported file type")
)

// allowedTypes are the document formats accepted for deal uploads. The type
// is sniffed from content, never trusted from the client.
var allowedTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
}

// Client uploads deal documents to an object storage service and returns
// publicly resolvable references
type Client struct {
	httpClient *http.Client
	endpoint   string
	bucket     string
	serviceKey string
	maxSize    int64
}

// New creates a blob store client from storage configuration
func New(cfg config.StorageConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		bucket:     cfg.Bucket,
		serviceKey: cfg.ServiceKey,
		maxSize:    cfg.MaxFileSize,
	}
}

// Upload stores data under path in the configured bucket and returns the
// public reference. Existing objects at the same path are overwritten.
// Failures are reported as domain.UploadError; the caller leaves the
// affected field unset and nothing else is rolled back.
func (c *Client) Upload(ctx context.Context, path string, data []byte) (string, error) {
	if c.maxSize > 0 && int64(len(data)) > c.maxSize {
		return "", &domain.UploadError{Path: path, Err: fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(data), c.maxSize)}
	}

	contentType := mimetype.Detect(data)
	if !allowedTypes[contentType.String()] {
		return "", &domain.UploadError{Path: path, Err: fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)}
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.endpoint, c.bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", &domain.UploadError{Path: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType.String())
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.UploadError{Path: path, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &domain.UploadError{
			Path: path,
			Err:  fmt.Errorf("storage returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	return c.PublicRef(path), nil
}

// PublicRef returns the public URL for an object path in the configured bucket
func (c *Client) PublicRef(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.endpoint, c.bucket, path)
}
