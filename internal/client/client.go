// Package client implements the HTTP surface of a Faasten gateway: function
// invocation, identity, privilege delegation, and blob upload.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/faasten/fstn/internal/credentials"
)

const (
	// DefaultServer is used when neither flags, environment, nor the
	// credentials file name a gateway.
	DefaultServer = "https://faasten.princeton.systems"
	// DefaultUser is the user identity assumed when none is given.
	DefaultUser = "default"
)

// Client talks to one Faasten gateway as one user. Tokens are resolved from
// the credential store per request; unauthenticated endpoints (ping, login)
// never touch it.
type Client struct {
	Server string
	User   string

	httpc *http.Client
	creds *credentials.Store
}

// New returns a client for the given gateway and user.
func New(server, user string, creds *credentials.Store) *Client {
	return &Client{
		Server: server,
		User:   user,
		// No client-side timeout; long-running function invocations are
		// bounded by the caller's context instead.
		httpc: &http.Client{},
		creds: creds,
	}
}

// Token returns the stored API token for this client's server and user.
func (c *Client) Token() (string, error) {
	return c.creds.Token(c.Server, c.User)
}

// SaveToken persists a token for the given user at this client's server.
func (c *Client) SaveToken(user, token string) error {
	return c.creds.Save(c.Server, user, token)
}

func (c *Client) endpoint(segments ...string) (string, error) {
	u, err := url.Parse(c.Server)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", c.Server, err)
	}
	return u.JoinPath(segments...).String(), nil
}

// newRequest builds a request carrying a fresh correlation id and, when
// authed is set, the bearer token.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader, authed bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-Id", uuid.New().String())
	if authed {
		token, err := c.Token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// Invoke posts a JSON payload to the named function and returns the raw
// response. The caller owns the response body.
func (c *Client) Invoke(ctx context.Context, function string, payload []byte) (*http.Response, error) {
	endpoint, err := c.endpoint("faasten", "invoke", function)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload), true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpc.Do(req)
}

// Blob names a local file to upload alongside an invocation payload.
type Blob struct {
	// Name is the file name reported in the multipart form. When empty the
	// base name of Path is used.
	Name string
	// Path is the local file to upload.
	Path string
}

// InvokeMultipart posts the payload together with local files to the named
// function. Each blob becomes a "blob" form file part and the payload is
// carried in the "payload" text field, matching what fsutil expects.
func (c *Client) InvokeMultipart(ctx context.Context, function string, payload []byte, blobs []Blob) (*http.Response, error) {
	endpoint, err := c.endpoint("faasten", "invoke", function)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	// The payload field leads the form so a server streaming the parts can
	// dispatch on it before consuming any blobs.
	if err := form.WriteField("payload", string(payload)); err != nil {
		return nil, err
	}
	for _, blob := range blobs {
		name := blob.Name
		if name == "" {
			name = filepath.Base(blob.Path)
		}
		part, err := form.CreateFormFile("blob", name)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(blob.Path)
		if err != nil {
			return nil, err
		}
		_, err = io.Copy(part, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("uploading %s: %w", blob.Path, err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, &body, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.httpc.Do(req)
}

// Whoami fetches the identity record behind the stored token.
func (c *Client) Whoami(ctx context.Context) (*http.Response, error) {
	endpoint, err := c.endpoint("me")
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpc.Do(req)
}

// Delegate asks the gateway to mint a token for a sub-privilege.
func (c *Client) Delegate(ctx context.Context, component string, bootstrap bool, clearance string) (*http.Response, error) {
	endpoint, err := c.endpoint("faasten", "delegate")
	if err != nil {
		return nil, err
	}

	reqBody := struct {
		Component string `json:"component"`
		Bootstrap bool   `json:"bootstrap"`
		Clearance string `json:"clearance,omitempty"`
	}{
		Component: component,
		Bootstrap: bootstrap,
		Clearance: clearance,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload), true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpc.Do(req)
}

// Ping measures the round trip to the gateway's ping endpoint.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	return c.ping(ctx, "faasten", "ping")
}

// PingScheduler measures the round trip through the gateway to its
// scheduler.
func (c *Client) PingScheduler(ctx context.Context) (time.Duration, error) {
	return c.ping(ctx, "faasten", "ping", "scheduler")
}

func (c *Client) ping(ctx context.Context, segments ...string) (time.Duration, error) {
	endpoint, err := c.endpoint(segments...)
	if err != nil {
		return 0, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, false)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return time.Since(start), nil
}
