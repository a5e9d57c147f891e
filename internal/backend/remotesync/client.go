// Package remotesync uploads intake rows to the remote collection endpoint and reads
// a folder's rows back.
package remotesync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jo-hoe/shelfintake/internal/backend/datauri"
	"github.com/jo-hoe/shelfintake/internal/backend/rowstore"
)

const DefaultTimeout = 30 * time.Second

// ErrMalformedResponse is returned when the endpoint answers 2xx with a body
// that is not the expected JSON document.
var ErrMalformedResponse = errors.New("Invalid API response format.")

// StatusError is returned for any non-2xx response
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// UpdateRequest is the JSON body of a single-row upload
type UpdateRequest struct {
	FolderName string `json:"folderName"`
	Row        string `json:"row"`
	Barcode    string `json:"barcode"`
	FrontImage string `json:"frontImage"`
	BackImage  string `json:"backImage"`
}

// NewUpdateRequest builds the upload body for the row at rowIndex. Row numbers
// are 1-based; image fields carry the bare base64 payload.
func NewUpdateRequest(folderName string, rowIndex int, row rowstore.Row) UpdateRequest {
	return UpdateRequest{
		FolderName: folderName,
		Row:        strconv.Itoa(rowIndex + 1),
		Barcode:    row.Barcode,
		FrontImage: datauri.StripPrefix(row.FrontImage),
		BackImage:  datauri.StripPrefix(row.BackImage),
	}
}

// FetchResponse is the body of a folder listing
type FetchResponse struct {
	Headers []string         `json:"headers"`
	Data    []map[string]any `json:"data"`
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout of the default http client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// Client talks to the collection endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for endpoint
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Update posts one row. The decoded JSON acknowledgement is returned; any JSON value is accepted.
func (c *Client) Update(ctx context.Context, request UpdateRequest) (any, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Info("SyncClient: uploading row", "folder", request.FolderName, "row", request.Row)

	var ack any
	if err := c.do(req, &ack); err != nil {
		return nil, err
	}
	return ack, nil
}

// Fetch lists the rows stored for folderName
func (c *Client) Fetch(ctx context.Context, folderName string) (*FetchResponse, error) {
	target, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse endpoint: %w", err)
	}
	query := target.Query()
	query.Set("folderName", folderName)
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var raw struct {
		Headers *[]string         `json:"headers"`
		Data    *[]map[string]any `json:"data"`
	}
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}
	if raw.Headers == nil || raw.Data == nil {
		return nil, ErrMalformedResponse
	}

	slog.Info("SyncClient: fetched rows", "folder", folderName, "rows", len(*raw.Data))
	return &FetchResponse{Headers: *raw.Headers, Data: *raw.Data}, nil
}

func (c *Client) do(req *http.Request, target any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", req.URL.Host, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("SyncClient: failed to close response body", "error", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
