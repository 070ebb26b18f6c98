package graphclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"notegraph/internal/wire"
)

// API is the subset of the graph API the reconciler drives.
type API interface {
	ListNotes(ctx context.Context) ([]wire.Note, error)
	CreateNote(ctx context.Context, req wire.CreateNoteRequest) (*wire.Note, error)
	UpdateNote(ctx context.Context, id string, req wire.UpdateNoteRequest) (*wire.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListEdges(ctx context.Context) ([]wire.Edge, error)
	CreateEdge(ctx context.Context, req wire.CreateEdgeRequest) (*wire.Edge, error)
	DeleteEdge(ctx context.Context, id string) error
}

// APIError is a non-2xx reply from the graph API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph api: status %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client is a JSON client for the graph API.
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient creates a new Client. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

var _ API = (*Client)(nil)

func (c *Client) ListNotes(ctx context.Context) ([]wire.Note, error) {
	var notes []wire.Note
	if err := c.do(ctx, http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) CreateNote(ctx context.Context, req wire.CreateNoteRequest) (*wire.Note, error) {
	var note wire.Note
	if err := c.do(ctx, http.MethodPost, "/notes", req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, req wire.UpdateNoteRequest) (*wire.Note, error) {
	var note wire.Note
	if err := c.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListEdges(ctx context.Context) ([]wire.Edge, error) {
	var edges []wire.Edge
	if err := c.do(ctx, http.MethodGet, "/notes/edges", nil, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

func (c *Client) CreateEdge(ctx context.Context, req wire.CreateEdgeRequest) (*wire.Edge, error) {
	var edge wire.Edge
	if err := c.do(ctx, http.MethodPost, "/notes/edges", req, &edge); err != nil {
		return nil, err
	}
	return &edge, nil
}

func (c *Client) DeleteEdge(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/edges/"+url.PathEscape(id), nil, nil)
}

// do sends payload (if any) as JSON and decodes a 2xx reply into out (if any).
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var errResp wire.ErrorResponse
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
