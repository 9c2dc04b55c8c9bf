// Package archive is the HTTP client for an httplock archive store.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pders01/lockview/internal/logging"
	"github.com/pders01/lockview/internal/models"
)

// DefaultURL is the archive store's default API address
const DefaultURL = "http://127.0.0.1:8081"

// maxErrorBody bounds how much of a failed response is kept for the error
const maxErrorBody = 512

// Client talks to the archive store API. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration // 0 disables the timeout
}

// New creates a new client.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultURL
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// BaseURL returns the API address the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListRoots returns the root identifiers known to the archive
func (c *Client) ListRoots(ctx context.Context) ([]string, error) {
	var roots []string
	if err := c.getJSON(ctx, "list roots", c.baseURL+"/api/root", &roots); err != nil {
		return nil, err
	}
	if roots == nil {
		roots = []string{}
	}
	return roots, nil
}

// ListDir returns the entries at path within root, in server order
func (c *Client) ListDir(ctx context.Context, root string, path models.Path) (models.Listing, error) {
	q := url.Values{}
	addPath(q, path)

	var listing models.Listing
	if err := c.getJSON(ctx, "list dir", c.rootURL(root, "dir", q), &listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// ReadHead returns the metadata stored in a *-head artifact
func (c *Client) ReadHead(ctx context.Context, root string, path models.Path, artifact string) (*models.HeadMetadata, error) {
	var meta models.HeadMetadata
	if err := c.getJSON(ctx, "read head", c.FileURL(root, path, artifact, ""), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ReadText returns the raw content of an artifact as text
func (c *Client) ReadText(ctx context.Context, root string, path models.Path, artifact, contentType string) (string, error) {
	const op = "read body"
	u := c.FileURL(root, path, artifact, contentType)

	resp, err := c.get(ctx, op, u)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &DecodeError{Op: op, URL: u, Err: err}
	}
	return string(b), nil
}

// Diff returns the archive's diff between two roots
func (c *Client) Diff(ctx context.Context, root1, root2 string) (*models.DiffReport, error) {
	q := url.Values{}
	q.Set("root2", root2)

	var report models.DiffReport
	if err := c.getJSON(ctx, "diff", c.rootURL(root1, "diff", q), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Info returns the content hash of the entry at path
func (c *Client) Info(ctx context.Context, root string, path models.Path) (string, error) {
	q := url.Values{}
	addPath(q, path)

	var info struct {
		Hash string `json:"hash"`
	}
	if err := c.getJSON(ctx, "info", c.rootURL(root, "info", q), &info); err != nil {
		return "", err
	}
	return info.Hash, nil
}

// Response opens the recorded response of a transaction, status and headers
// included. The caller must close the body.
func (c *Client) Response(ctx context.Context, root string, path models.Path, hash string) (*http.Response, error) {
	return c.get(ctx, "download", c.ResponseURL(root, path, hash))
}

// FileURL returns the URL serving one artifact. A non-empty contentType is
// passed through as the ct parameter.
func (c *Client) FileURL(root string, path models.Path, artifact, contentType string) string {
	q := url.Values{}
	if contentType != "" {
		q.Set("ct", contentType)
	}
	addPath(q, path.Child(artifact))
	return c.rootURL(root, "file", q)
}

// ResponseURL returns the URL serving a transaction's full recorded response
func (c *Client) ResponseURL(root string, path models.Path, hash string) string {
	q := url.Values{}
	q.Set("hash", hash)
	addPath(q, path)
	return c.rootURL(root, "resp", q)
}

func (c *Client) rootURL(root, endpoint string, q url.Values) string {
	u := c.baseURL + "/api/root/" + url.PathEscape(root) + "/" + endpoint
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func addPath(q url.Values, path models.Path) {
	for _, seg := range path {
		q.Add("path", seg)
	}
}

func (c *Client) get(ctx context.Context, op, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Op: op, URL: u, Err: err}
	}

	logging.Debug("archive request", logging.String("op", op), logging.String("url", u))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: u, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{
			Op:         op,
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, op, u string, v any) error {
	resp, err := c.get(ctx, op, u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &DecodeError{Op: op, URL: u, Err: err}
	}
	return nil
}
