package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bondfeed/internal/fault"
)

const maxBodyBytes = 4 << 20

// Endpoint joins the base URL, a path and query parameters.
func (c *Client) Endpoint(path string, query url.Values) string {
	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

// Get issues a GET and returns the body of a 200 response. Non-200 responses
// are classified into fault kinds.
func (c *Client) Get(ctx context.Context, endpoint string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fault.Configuration(c.name, "build request: %v", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if ua := strings.TrimSpace(c.cfg.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", defaultUserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fault.Transient(c.name, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fault.Transient(c.name, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, StatusError(c.name, resp.StatusCode, resp.Header, payload, c.Now())
	}
	return payload, nil
}

// GetJSON issues a GET and decodes a JSON body into dst.
func (c *Client) GetJSON(ctx context.Context, endpoint string, header http.Header, dst any) error {
	payload, err := c.Get(ctx, endpoint, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fault.Shape(c.name, "decode response: %v", err)
	}
	return nil
}

type errorResponse struct {
	Message      string `json:"message"`
	Error        string `json:"error"`
	Description  string `json:"description"`
	ErrorMessage string `json:"Error Message"`
}

// StatusError maps an HTTP status to a classified error: 429 is a quota
// signal, 401 and 403 mean a bad credential, 408 and 5xx are transient and
// any other status means the response is unusable. A Retry-After date is
// measured from now.
func StatusError(provider string, status int, header http.Header, payload []byte, now time.Time) error {
	err := describeStatus(provider, status, payload)
	switch {
	case status == http.StatusTooManyRequests:
		return fault.Quota(provider, parseRetryAfter(header.Get("Retry-After"), now), err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &fault.Error{Kind: fault.KindConfiguration, Provider: provider, Err: err}
	case status == http.StatusRequestTimeout || status >= 500:
		return fault.Transient(provider, err)
	default:
		return &fault.Error{Kind: fault.KindShape, Provider: provider, Err: err}
	}
}

func describeStatus(provider string, status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		for _, msg := range []string{apiErr.Description, apiErr.Message, apiErr.ErrorMessage, apiErr.Error} {
			if msg != "" {
				return fmt.Errorf("%s api error (%d): %s", provider, status, msg)
			}
		}
	}
	if body := strings.TrimSpace(string(payload)); body != "" && len(body) < 256 {
		return fmt.Errorf("%s api error (%d): %s", provider, status, body)
	}
	return fmt.Errorf("%s api error (%d)", provider, status)
}

func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// ErrNoValue marks a blank or placeholder numeric field.
var ErrNoValue = errors.New("no numeric value")
