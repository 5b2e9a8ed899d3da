// Package googletasks implements source.Source on top of the user's
// default Google Tasks list.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todoapp/internal/config"
	"todoapp/internal/logging"
	"todoapp/internal/source"
	"todoapp/internal/todo"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope the client needs. Read-only is enough to
	// seed the local list.
	Scope = tasks.TasksReadonlyScope

	// StatusCompleted is the API status of a finished task.
	StatusCompleted = "completed"
)

// Client implements source.Source using the Google Tasks API.
type Client struct {
	svc    *tasks.Service
	listID string
	limit  int
	logger *log.Logger
}

// New creates a Google Tasks client from the OAuth files in the config dir.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	token, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	// Token source refreshes the access token as needed.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	c := newClient(svc, cfg.Limit, logger)
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and API
// endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string, limit int) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return newClient(svc, limit, nil), nil
}

func newClient(svc *tasks.Service, limit int, logger *log.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{svc: svc, listID: DefaultListID, limit: source.ClampLimit(limit), logger: logger}
}

// LoadToken reads a stored OAuth token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	return &token, nil
}

// SaveToken writes an OAuth token with mode 0600.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// FetchInitialItems implements source.Source.
// Tasks are read in API order, completed ones included. Google ids are
// opaque strings, so items are numbered by position starting at 1.
func (c *Client) FetchInitialItems(ctx context.Context) ([]todo.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	c.logger.Debug("fetching google tasks", "list", c.listID, "limit", c.limit)
	resp, err := c.svc.Tasks.List(c.listID).
		MaxResults(int64(c.limit)).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapError(err)
	}

	items := make([]todo.Item, 0, len(resp.Items))
	for i, t := range resp.Items {
		items = append(items, todo.Item{
			ID:        i + 1,
			Title:     t.Title,
			Completed: t.Status == StatusCompleted,
		})
	}
	return source.Truncate(items, c.limit), nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", source.ErrTimeout, err)
	}

	errStr := err.Error()

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: todo login)")
	}

	if strings.Contains(errStr, "404") {
		return fmt.Errorf("task list not found")
	}

	return err
}
