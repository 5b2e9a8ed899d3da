// Package placeholder implements source.Source over a plain HTTP JSON
// endpoint that returns an array of todo objects.
package placeholder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todoapp/internal/logging"
	"todoapp/internal/source"
	"todoapp/internal/todo"
)

const (
	// DefaultTimeout bounds a fetch when the caller sets none.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBody caps how much of a response is read.
	DefaultMaxBody = 8 << 20

	itemSchemaURL = "todo-item.json"
)

// itemSchema is the minimal shape every kept entry must have.
const itemSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "title", "completed"],
  "properties": {
    "id": {"type": "integer"},
    "title": {"type": "string"},
    "completed": {"type": "boolean"}
  }
}`

// Client fetches items from a JSON endpoint.
type Client struct {
	endpoint string
	limit    int
	timeout  time.Duration
	maxBody  int64
	http     *http.Client
	logger   *log.Logger
	schema   *jsonschema.Schema
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client (for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithLimit sets how many leading entries are kept. Values outside
// 1..source.DefaultLimit fall back to source.DefaultLimit.
func WithLimit(n int) Option {
	return func(cl *Client) { cl.limit = n }
}

// WithTimeout sets the per-fetch timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.timeout = d }
}

// WithMaxBody sets the largest response body accepted, in bytes.
func WithMaxBody(n int64) Option {
	return func(cl *Client) { cl.maxBody = n }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// New creates a client for endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("endpoint required")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(itemSchemaURL, strings.NewReader(itemSchema)); err != nil {
		return nil, fmt.Errorf("add item schema: %w", err)
	}
	schema, err := compiler.Compile(itemSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile item schema: %w", err)
	}

	c := &Client{
		endpoint: endpoint,
		limit:    source.DefaultLimit,
		timeout:  DefaultTimeout,
		maxBody:  DefaultMaxBody,
		http:     http.DefaultClient,
		logger:   logging.Discard(),
		schema:   schema,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.limit = source.ClampLimit(c.limit)
	if c.maxBody <= 0 {
		c.maxBody = DefaultMaxBody
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	return c, nil
}

// FetchInitialItems implements source.Source.
func (c *Client) FetchInitialItems(ctx context.Context) ([]todo.Item, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching items", "endpoint", c.endpoint, "limit", c.limit)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	// One byte past the cap tells an oversized body from one that fits.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, wrapError(err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("response too large: over %d bytes", c.maxBody)
	}

	items, err := c.decode(body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched items", "count", len(items))
	return items, nil
}

// decode keeps the first limit entries, validating only those.
func (c *Client) decode(body []byte) ([]todo.Item, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(raw) > c.limit {
		raw = raw[:c.limit]
	}

	items := make([]todo.Item, 0, len(raw))
	for i, entry := range raw {
		if err := c.validate(entry); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		var it todo.Item
		if err := json.Unmarshal(entry, &it); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (c *Client) validate(entry json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(entry))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}
	if err := c.schema.Validate(v); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}
	return nil
}

// wrapError turns transport errors into short messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", source.ErrTimeout, err)
	}
	return err
}
