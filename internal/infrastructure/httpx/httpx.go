package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	infraconfig "crypto-report/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Client issues single JSON GETs. It never retries.
type Client struct {
	R      *resty.Client
	Header map[string]string
}

// New wraps hc (or a default client) with the given timeout.
func New(hc *http.Client, timeout time.Duration) *Client {
	var rc *resty.Client
	if hc != nil {
		rc = resty.NewWithClient(hc)
	} else {
		rc = resty.New()
	}
	if timeout <= 0 {
		timeout = infraconfig.DefaultHTTPTimeout
	}
	rc.SetTimeout(timeout)
	rc.SetHeader("Accept", "application/json")
	return &Client{R: rc}
}

func (c *Client) GetJSON(ctx context.Context, url string, query map[string]string, out any) error {
	req := c.R.R().SetContext(ctx).SetQueryParams(query)
	for k, v := range c.Header {
		req.SetHeader(k, v)
	}
	resp, err := req.Get(url)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	if !resp.IsSuccess() {
		body := string(resp.Body())
		if len(body) > 200 {
			body = body[:200]
		}
		return &StatusError{Code: resp.StatusCode(), Body: body}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
