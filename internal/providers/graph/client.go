package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sandevgo/coworker/internal/config"
	"github.com/sandevgo/coworker/pkg/retry"
)

// ErrNoToken is returned when an operation runs without an authenticated
// session.
var ErrNoToken = errors.New("no access token in session")

// Session carries the bearer token for one authenticated caller. It is passed
// into every operation explicitly; the client holds no token state.
type Session struct {
	Token string
}

// Client is a thin REST client for the Microsoft Graph API.
type Client struct {
	client   *http.Client
	endpoint string
	retrier  *retry.Retrier
}

func NewClient(cfg *config.GraphConfig) *Client {
	return &Client{
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		retrier:  retry.NewDefaultRetrier(),
	}
}

// do issues one Graph request, decoding the JSON response into out when out
// is non-nil. Throttling and server errors are retried with backoff; other
// failures stop immediately.
func (c *Client) do(ctx context.Context, sess Session, method, path string, body, out any) error {
	if sess.Token == "" {
		return ErrNoToken
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
	}

	return c.retrier.Do(ctx, func() error {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.endpoint+"/"+path, bodyReader)
		if err != nil {
			return retry.Stop(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+sess.Token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("graph http %d: %s", resp.StatusCode, string(data))
		case resp.StatusCode >= 400:
			return retry.Stop(fmt.Errorf("graph http %d: %s", resp.StatusCode, string(data)))
		}

		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return retry.Stop(fmt.Errorf("decode: %w", err))
			}
		}
		return nil
	})
}
