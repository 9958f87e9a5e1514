// Package authority talks to the game server that owns the real game state.
// It only speaks the wire contract: GET /state, POST /input and the
// /assets/<name> resource namespace.
package authority

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
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-platformer/internal/game"
)

var (
	// ErrTransport reports an unreachable authority or a non-success response.
	ErrTransport = errors.New("authority: transport failure")

	// ErrNotFound reports a 404. It is also a transport failure.
	ErrNotFound = fmt.Errorf("%w: not found", ErrTransport)
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 4 << 20

// Client is an HTTP client for the authority. It is safe for concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
	logger    *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the authority at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("authority: empty server URL")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("authority: invalid server URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("authority: server URL %q must be http or https", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &Client{
		base:      u,
		http:      &http.Client{Timeout: 10 * time.Second},
		userAgent: "tui-platformer",
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the authority address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// endpoint resolves a path below the base URL.
func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = c.base.Path + path
	return u.String()
}

// FetchState issues GET /state and decodes the snapshot.
// Errors wrap ErrTransport or game.ErrDecode.
func (c *Client) FetchState(ctx context.Context) (game.Snapshot, error) {
	body, err := c.get(ctx, "/state")
	if err != nil {
		return game.Snapshot{}, err
	}
	return game.Decode(body)
}

// SendCommand issues POST /input. The response body is ignored.
func (c *Client) SendCommand(ctx context.Context, cmd game.Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("authority: cannot encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/input"), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("authority: cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST /input: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	//nolint:errcheck // Drain so the connection can be reused
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: POST /input: %s", ErrTransport, resp.Status)
	}
	c.logger.Debug("command sent", "command", cmd.String())
	return nil
}

// FetchAsset issues GET /assets/<name>.yaml and returns the raw resource.
// A 404 yields an error wrapping ErrNotFound.
func (c *Client) FetchAsset(ctx context.Context, name string) ([]byte, error) {
	return c.get(ctx, "/assets/"+url.PathEscape(name)+".yaml")
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return nil, fmt.Errorf("authority: cannot build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrTransport, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: GET %s", ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrTransport, path, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: reading body: %w", ErrTransport, path, err)
	}
	return body, nil
}
