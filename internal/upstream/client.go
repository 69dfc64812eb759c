package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/palworld-go/palmap/pkg/core"
)

// ErrUpstream wraps every failure talking to the dedicated server so callers
// can map it onto a 502 without inspecting the cause.
var ErrUpstream = errors.New("upstream palworld server error")

// Client handles communication with the Palworld dedicated-server REST API.
// The API authenticates every call with HTTP Basic auth as the admin user.
type Client struct {
	baseURL    string
	password   string
	httpClient *http.Client
}

// New creates a new API client for the given host and port.
func New(host string, port int, password string) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("http://%s:%d/v1/api", host, port),
		password:   password,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithBaseURL creates a client against an explicit base URL. Used by tests
// and by deployments that front the server API with a proxy.
func NewWithBaseURL(baseURL, password string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		password:   password,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrUpstream, err)
	}
	req.SetBasicAuth("admin", c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("%w: %s returned %s", ErrUpstream, path, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrUpstream, path, err)
	}
	return nil
}

// playersResponse is the wire envelope of /v1/api/players.
type playersResponse struct {
	Players []core.Player `json:"players"`
}

// Players fetches the currently connected players.
func (c *Client) Players(ctx context.Context) ([]core.Player, error) {
	var out playersResponse
	if err := c.get(ctx, "/players", &out); err != nil {
		return nil, err
	}
	return out.Players, nil
}

// Info fetches server metadata (name, version, description).
func (c *Client) Info(ctx context.Context) (core.ServerInfo, error) {
	var out core.ServerInfo
	if err := c.get(ctx, "/info", &out); err != nil {
		return core.ServerInfo{}, err
	}
	return out, nil
}
