package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultFetchTimeout     = 30 * time.Second
	defaultMaxDocumentBytes = 50 << 20
	userAgent               = "regmonitor/1.0"
)

// DocumentClient retrieves proposal documents and extracts their text
type DocumentClient struct {
	client   *http.Client
	parser   *Parser
	maxBytes int64
	logger   *slog.Logger
}

// DocumentClientOption configures a DocumentClient
type DocumentClientOption func(*DocumentClient)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) DocumentClientOption {
	return func(c *DocumentClient) {
		c.client = client
	}
}

// WithFetchTimeout sets the per-request timeout
func WithFetchTimeout(timeout time.Duration) DocumentClientOption {
	return func(c *DocumentClient) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithMaxDocumentBytes caps the size of a fetched payload
func WithMaxDocumentBytes(n int64) DocumentClientOption {
	return func(c *DocumentClient) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithLogger sets the logger used for fetch diagnostics
func WithLogger(logger *slog.Logger) DocumentClientOption {
	return func(c *DocumentClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewDocumentClient creates a new document client
func NewDocumentClient(parser *Parser, opts ...DocumentClientOption) *DocumentClient {
	c := &DocumentClient{
		client: &http.Client{
			Timeout: defaultFetchTimeout,
		},
		parser:   parser,
		maxBytes: defaultMaxDocumentBytes,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchText retrieves url and returns its plain text. Every failure is
// reported as *FetchError, *ExtractError or *UnsupportedTypeError; the
// caller truncates the text if needed.
func (c *DocumentClient) FetchText(ctx context.Context, url string) (string, error) {
	c.logger.Info("Fetching document", "url", url)

	body, contentType, err := c.fetch(ctx, url)
	if err != nil {
		c.logger.Error("Failed to fetch document", "url", url, "error", err)
		return "", err
	}

	kind := c.parser.Classify(contentType)
	if kind == ContentUnsupported {
		c.logger.Warn("Unknown content type, cannot extract text", "url", url, "content_type", contentType)
		return "", &UnsupportedTypeError{URL: url, ContentType: contentType}
	}

	text, err := c.parser.Extract(kind, body)
	if err != nil {
		c.logger.Error("Failed to extract document text", "url", url, "error", err)
		return "", &ExtractError{URL: url, Err: err}
	}

	c.logger.Info("Text extraction successful", "url", url, "content_type", contentType, "chars", len(text))
	return text, nil
}

// fetch performs a single HTTP GET; there is no retry
func (c *DocumentClient) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, "", &FetchError{URL: url, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	if int64(len(body)) > c.maxBytes {
		return nil, "", &FetchError{URL: url, Err: fmt.Errorf("document exceeds %d bytes", c.maxBytes)}
	}

	return body, resp.Header.Get("Content-Type"), nil
}
