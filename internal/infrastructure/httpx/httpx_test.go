package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func response(r *http.Request, code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Request:    r,
	}
}

func TestGetJSON_OK(t *testing.T) {
	var seen *http.Request
	c := New(&http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return response(r, 200, `{"ok": true}`), nil
	})}, time.Second)
	c.Header = map[string]string{"x-api-key": "k"}

	var out struct {
		OK bool `json:"ok"`
	}
	err := c.GetJSON(context.Background(), "http://example.com/v1", map[string]string{"ids": "a,b"}, &out)
	require.NoError(t, err)
	require.True(t, out.OK)
	require.Equal(t, "a,b", seen.URL.Query().Get("ids"))
	require.Equal(t, "k", seen.Header.Get("x-api-key"))
}

func TestGetJSON_NoRetryOn500(t *testing.T) {
	var calls int
	c := New(&http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return response(r, 500, "oops"), nil
	})}, time.Second)

	var out any
	err := c.GetJSON(context.Background(), "http://example.com", nil, &out)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 500, se.Code)
	require.Equal(t, 1, calls)
}

func TestGetJSON_TransportError(t *testing.T) {
	c := New(&http.Client{Transport: rtFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}, time.Second)

	var out any
	err := c.GetJSON(context.Background(), "http://example.com", nil, &out)
	require.ErrorContains(t, err, "connection refused")
}

func TestGetJSON_DecodeError(t *testing.T) {
	c := New(&http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		return response(r, 200, "{x"), nil
	})}, time.Second)

	var out map[string]any
	err := c.GetJSON(context.Background(), "http://example.com", nil, &out)
	require.ErrorContains(t, err, "decode")
}
