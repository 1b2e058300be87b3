// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kb provides the knowledge-base client: folder creation, batched
// file upload, and git repository cloning against the platform API.
package kb

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the knowledge-base API.
const (
	// DefaultTimeout is the per-request timeout. Uploads of large files get
	// UploadTimeout instead.
	DefaultTimeout = 30 * time.Second

	// UploadTimeout bounds a single multipart file upload.
	UploadTimeout = 2 * time.Minute

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 4 * 1024 * 1024 // 4MB limit

	// MaxUploadSize is the largest file accepted for upload.
	MaxUploadSize = 50 * 1024 * 1024 // 50MB limit

	// uploadsPerSecond caps the batch upload rate so a large folder does not
	// hammer the API.
	uploadsPerSecond = 4
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client with connection pooling for all knowledge-base requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: UploadTimeout,
}

// Error variables for common knowledge-base errors.
var (
	// ErrNotConfigured indicates the API token is not set.
	ErrNotConfigured = errors.New("knowledge-base API token not configured")

	// ErrAuthFailed indicates authentication failed (invalid or expired token).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrFileTooLarge indicates a file exceeds the upload size limit.
	ErrFileTooLarge = errors.New("file exceeds upload size limit")
)

// =============================================================================
// TYPES
// =============================================================================

// Folder is a knowledge-base folder as returned by the API.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UploadReport summarizes a batch upload. A failing file never aborts the
// batch; it is recorded here and the batch continues.
type UploadReport struct {
	Succeeded int
	Failed    int
	Failures  map[string]error // keyed by file path
}

// Summary renders the report as a one-line status note.
func (r UploadReport) Summary() string {
	if r.Failed == 0 {
		return fmt.Sprintf("uploaded %d files", r.Succeeded)
	}
	return fmt.Sprintf("uploaded %d files (%d failed)", r.Succeeded, r.Failed)
}

// apiError is the platform's error body. The detail field carries the
// human-readable reason when present.
type apiError struct {
	Detail string `json:"detail"`
}

// Client talks to the knowledge-base endpoints.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a knowledge-base client. baseURL is the platform API
// root, e.g. "https://api.example.com".
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: sharedHTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(uploadsPerSecond), 1),
	}
}

// =============================================================================
// FOLDER OPERATIONS
// =============================================================================

// CreateFolder creates a knowledge-base folder and returns it.
func (c *Client) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	if c.token == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/knowledge-base/folders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var folder Folder
	if err := json.Unmarshal(respBody, &folder); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &folder, nil
}

// CloneGitRepo asks the platform to clone a git repository into the folder.
// branch may be empty for the repository default.
func (c *Client) CloneGitRepo(ctx context.Context, folderID, gitURL, branch string) error {
	if c.token == "" {
		return ErrNotConfigured
	}

	payload := map[string]string{"git_url": gitURL}
	if branch != "" {
		payload["branch"] = branch
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/knowledge-base/folders/%s/clone-git-repo", c.baseURL, folderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req)
	return err
}

// =============================================================================
// FILE UPLOAD
// =============================================================================

// UploadFiles uploads each path as its own multipart request. Per-file
// failures are collected in the report and never abort the batch; there is
// no automatic retry. The returned error is non-nil only when the context
// was canceled mid-batch, in which case every unsent file is marked failed.
func (c *Client) UploadFiles(ctx context.Context, folderID string, paths []string) (UploadReport, error) {
	report := UploadReport{Failures: make(map[string]error)}

	for i, path := range paths {
		if err := c.limiter.Wait(ctx); err != nil {
			for _, rest := range paths[i:] {
				report.Failed++
				report.Failures[rest] = err
			}
			return report, ctx.Err()
		}

		if err := c.uploadOne(ctx, folderID, path); err != nil {
			report.Failed++
			report.Failures[path] = err
			continue
		}
		report.Succeeded++
	}

	return report, nil
}

// uploadOne sends a single file as multipart/form-data.
func (c *Client) uploadOne(ctx context.Context, folderID, path string) error {
	if c.token == "" {
		return ErrNotConfigured
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxUploadSize {
		return fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, filepath.Base(path), info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	url := fmt.Sprintf("%s/knowledge-base/folders/%s/upload", c.baseURL, folderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	_, err = c.do(req)
	return err
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do sends the request with the bearer token and returns the response body.
// Non-2xx responses become errors carrying the server's detail field when
// the body provides one.
func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear Authorization header immediately after request to prevent logging.
	req.Header.Del("Authorization")

	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}
	return body, nil
}

// readResponse reads the response body with a size limit.
// SECURITY: Response size limit prevents memory exhaustion attacks.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to Go errors, preferring
// the server's detail message over a generic one.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail != "" {
		if statusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", ErrAuthFailed, apiErr.Detail)
		}
		return fmt.Errorf("knowledge-base request failed (%d): %s", statusCode, apiErr.Detail)
	}

	if statusCode == http.StatusUnauthorized {
		return ErrAuthFailed
	}
	return fmt.Errorf("knowledge-base request failed with status %d", statusCode)
}
