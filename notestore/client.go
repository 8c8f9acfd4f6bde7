package notestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxResponseBody caps remote response reads. Resource payloads ride along
// with notes, so the cap is generous.
const maxResponseBody int64 = 64 << 20

// Client is the HTTP implementation of Store against a remote note service.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a remote store client. token, when non-empty, is sent
// as a bearer token on every call.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

var _ Store = (*Client)(nil)

func (c *Client) GetNote(ctx context.Context, id string, opts GetOptions) (*Note, error) {
	q := url.Values{}
	if opts.Content {
		q.Set("content", "1")
	}
	if opts.ResourceData {
		q.Set("resources", "1")
	}
	path := "/notes/" + url.PathEscape(id)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var note Note
	if err := c.do(ctx, http.MethodGet, path, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) NoteTagNames(ctx context.Context, id string) ([]string, error) {
	var names []string
	err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id)+"/tags", nil, &names)
	return names, err
}

func (c *Client) CreateNote(ctx context.Context, nc *NoteCreate) (*NoteMeta, error) {
	var meta NoteMeta
	if err := c.do(ctx, http.MethodPost, "/notes", nc, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, u *NoteUpdate) (*NoteMeta, error) {
	var meta NoteMeta
	if err := c.do(ctx, http.MethodPatch, "/notes/"+url.PathEscape(id), u, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Search(ctx context.Context, query, notebookID string, limit int) ([]NoteMeta, error) {
	q := url.Values{}
	q.Set("q", query)
	if notebookID != "" {
		q.Set("notebook", notebookID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var metas []NoteMeta
	err := c.do(ctx, http.MethodGet, "/search?"+q.Encode(), nil, &metas)
	return metas, err
}

func (c *Client) ListNotebooks(ctx context.Context) ([]Notebook, error) {
	var nbs []Notebook
	err := c.do(ctx, http.MethodGet, "/notebooks", nil, &nbs)
	return nbs, err
}

func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	err := c.do(ctx, http.MethodGet, "/tags", nil, &tags)
	return tags, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notestore: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("notestore: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("notestore: remote call", "method", method, "path", path)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("notestore: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("notestore: read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w (%s)", ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeRemoteError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("notestore: decode response: %w", err)
	}
	return nil
}

// decodeRemoteError surfaces the service's structured error verbatim,
// falling back to the raw body when the payload is not the expected shape.
func decodeRemoteError(status int, body []byte) error {
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return newRemoteError(payload.Error.Code, payload.Error.Message)
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return newRemoteError("", fmt.Sprintf("status %d: %s", status, msg))
}
