// Package objstore is a thin client for the object-storage HTTP API that
// backs menu images. Unlike the menu store there is no local fallback:
// unconfigured storage is a hard error, because silently writing large
// image blobs to an ephemeral filesystem would lose them on redeploy.
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/freshstart/storefront/internal/apperr"
)

// Client uploads and serves bucket objects using the server-only service
// credential. Calls are not retried.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	client     *http.Client
}

// New builds a storage client for one bucket.
func New(baseURL, serviceKey, bucket string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

func (c *Client) objectURL(key string) string {
	return c.baseURL + "/storage/v1/object/" + c.bucket + "/" + escapeKey(key)
}

// PublicURL returns the publicly resolvable URL for a stored object.
func (c *Client) PublicURL(key string) string {
	return c.baseURL + "/storage/v1/object/public/" + c.bucket + "/" + escapeKey(key)
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// Upload stores bytes under key with no-overwrite semantics: a second
// write to the same key fails rather than clobbering the object.
func (c *Client) Upload(ctx context.Context, key, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(key), bytes.NewReader(data))
	if err != nil {
		return apperr.Internal("storage request build failed", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := c.client.Do(req)
	if err != nil {
		return apperr.Unavailable("object storage unreachable", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		return apperr.Conflict("object already exists", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return apperr.Unavailable("object storage rejected credentials", nil)
	default:
		return apperr.Unavailable(fmt.Sprintf("object storage error (%d)", resp.StatusCode), nil)
	}
}

// Download fetches object bytes and their content type.
func (c *Client) Download(ctx context.Context, key string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectURL(key), nil)
	if err != nil {
		return nil, "", apperr.Internal("storage request build failed", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", apperr.Unavailable("object storage unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", apperr.Unavailable("object download interrupted", err)
		}
		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return data, contentType, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", apperr.NotFound("image not found", nil)
	default:
		return nil, "", apperr.Unavailable(fmt.Sprintf("object storage error (%d)", resp.StatusCode), nil)
	}
}
