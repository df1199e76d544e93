// Package client is a typed HTTP client for the shopfront API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopfront/internal/model"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrUnavailable reports that the API could not be reached or answered with
// something other than an envelope.
var ErrUnavailable = errors.New("api unavailable")

// APIError is a non-2xx envelope returned by the API.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Errors) > 0 {
		msg += ": " + strings.Join(e.Errors, "; ")
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client calls the API on behalf of one storefront process. The bearer token
// is passed per call because it belongs to the visitor's session.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse api base url")
	}
	return &Client{
		base: u,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any

	// raw is sent as is with contentType instead of a JSON body.
	raw         io.Reader
	contentType string
}

// call performs req and decodes the envelope's data into a T.
func call[T any](ctx context.Context, c *Client, req request) (T, string, error) {
	var zero T

	u := *c.base
	u.Path += req.path
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	contentType := req.contentType
	switch {
	case req.raw != nil:
		body = req.raw
	case req.body != nil:
		b, err := json.Marshal(req.body)
		if err != nil {
			return zero, "", errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return zero, "", errors.Wrap(err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return zero, "", errors.Wrapf(ErrUnavailable, "%s %s: %v", req.method, req.path, err)
	}
	defer resp.Body.Close()

	var envelope model.Response[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		if resp.StatusCode >= http.StatusInternalServerError {
			return zero, "", errors.Wrapf(ErrUnavailable, "%s %s: status %d", req.method, req.path, resp.StatusCode)
		}
		if resp.StatusCode < 300 {
			return zero, "", errors.Wrapf(err, "decode %s %s", req.method, req.path)
		}
		return zero, "", &APIError{StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		return zero, "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    envelope.Message,
			Errors:     envelope.Errors,
		}
	}
	return envelope.Data, envelope.Message, nil
}

type none = json.RawMessage
