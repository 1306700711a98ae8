// Package storagerest implements the object store against a
// Supabase-style storage REST API. The API's upload acknowledgement has
// changed shape across backend versions (a JSON object echoing the
// stored key, a bare status with an error body, occasionally neither);
// BuildPutAck normalizes all of them, and the lifecycle service decides
// success from the normalized form alone.
package storagerest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sagarc03/noteshare"
)

// Config holds connection settings for a storage REST backend.
type Config struct {
	BaseURL    string `mapstructure:"base_url" validate:"required,url"`
	ServiceKey string `mapstructure:"service_key" validate:"required"`
	Bucket     string `mapstructure:"bucket" validate:"required"`
}

// Client talks to one bucket of a storage REST API.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	http       *http.Client
}

// New creates a Client. httpClient may be nil, in which case a client
// with a 30s timeout is used.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("new storage client: %w: base URL is required", noteshare.ErrInvalidInput)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    base,
		serviceKey: cfg.ServiceKey,
		bucket:     cfg.Bucket,
		http:       httpClient,
	}, nil
}

func (c *Client) objectURL(parts ...string) string {
	u := c.baseURL + "/object"
	for _, p := range parts {
		u += "/" + url.PathEscape(p)
	}
	return u
}

// Put uploads a blob. The returned error covers transport failures
// only; whether the backend accepted the write is read from the
// acknowledgement.
func (c *Client) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) (noteshare.PutAck, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(c.bucket, key), content)
	if err != nil {
		return noteshare.PutAck{}, fmt.Errorf("put %s: %w", key, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	if size >= 0 {
		req.ContentLength = size
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return noteshare.PutAck{}, fmt.Errorf("put %s: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return noteshare.PutAck{}, fmt.Errorf("put %s: read response: %w", key, err)
	}

	return BuildPutAck(resp.StatusCode, body), nil
}

// BuildPutAck normalizes an upload response into a PutAck. A JSON body
// echoing the stored key wins over the status; a bare status is kept as
// a status acknowledgement; anything else is unknown and therefore a
// failure.
func BuildPutAck(statusCode int, body []byte) noteshare.PutAck {
	var ack struct {
		Key string `json:"Key"`
		ID  string `json:"Id"`
	}
	if err := json.Unmarshal(body, &ack); err == nil && ack.Key != "" {
		return noteshare.AckForKey(ack.Key)
	}

	if statusCode > 0 {
		return noteshare.AckForStatus(statusCode, string(body))
	}

	return noteshare.AckRaw(string(body))
}

type signRequest struct {
	ExpiresIn int `json:"expiresIn"`
}

type signResponse struct {
	SignedURL string `json:"signedURL"`
}

// SignedURL asks the backend for a time-limited read URL.
func (c *Client) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(signRequest{ExpiresIn: int(ttl.Seconds())})
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", key, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL("sign", c.bucket, key), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", key, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("sign %s: status %d", key, resp.StatusCode)
	}

	var signed signResponse
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("sign %s: decode response: %w", key, err)
	}

	if signed.SignedURL == "" {
		return "", fmt.Errorf("sign %s: empty signed URL", key)
	}

	// The backend returns a path relative to the storage root.
	if strings.HasPrefix(signed.SignedURL, "/") {
		return c.baseURL + signed.SignedURL, nil
	}
	return signed.SignedURL, nil
}

func (c *Client) PublicURL(key string) string {
	return c.objectURL("public", c.bucket, key)
}

type deleteRequest struct {
	Prefixes []string `json:"prefixes"`
}

// Delete removes blobs in one batch call. A 404 counts as success so
// retries and reconciliation stay idempotent.
func (c *Client) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	payload, err := json.Marshal(deleteRequest{Prefixes: keys})
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL(c.bucket), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("delete: status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

type listRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type listEntry struct {
	Name string `json:"name"`
}

const listPageSize = 100

// ListKeys enumerates every key in the bucket, paging through the
// backend's list endpoint.
func (c *Client) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string

	for offset := 0; ; offset += listPageSize {
		page, err := c.listPage(ctx, offset)
		if err != nil {
			return nil, err
		}

		keys = append(keys, page...)
		if len(page) < listPageSize {
			return keys, nil
		}
	}
}

func (c *Client) listPage(ctx context.Context, offset int) ([]string, error) {
	payload, err := json.Marshal(listRequest{Limit: listPageSize, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL("list", c.bucket), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("list: status %d", resp.StatusCode)
	}

	var entries []listEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("list: decode response: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return names, nil
}
