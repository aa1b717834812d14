package inttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/talitamaia0609-debug/siter/internal/handler"
	"github.com/talitamaia0609-debug/siter/internal/server"
	"github.com/talitamaia0609-debug/siter/internal/util"
)

// SetupHTTPServer starts the dashboard engine with the routes registered by f. The returned client
// sends requests to it. The server is closed once the test finishes.
func SetupHTTPServer(t *testing.T, f func(router gin.IRouter)) *HTTPClient {
	t.Helper()

	require.NoError(t, handler.RegisterValidation(), "failed to register validation")
	gin.SetMode(gin.TestMode)

	engine, router := server.GetEngine(slog.Default(), "")
	f(router)

	srv := httptest.NewServer(engine.Handler())
	client := srv.Client()
	t.Cleanup(func() {
		client.CloseIdleConnections()
		srv.Close()
	})

	return &HTTPClient{Client: client, ServerURL: srv.URL}
}

// HTTPClient sends JSON requests to a server started by SetupHTTPServer.
type HTTPClient struct {
	Client    *http.Client
	ServerURL string
}

// RequestOption modifies a request before it is sent.
type RequestOption func(*http.Request)

func WithHeader(key string, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Add(key, value)
	}
}

// WithAuthToken sends the session token as a bearer token.
func WithAuthToken(token string) RequestOption {
	return WithHeader("Authorization", "Bearer "+token)
}

// WithSessionCookie sends the session token the way the browser does after signing in.
func WithSessionCookie(token string) RequestOption {
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: util.SessionCookieName, Value: token})
	}
}

// Do sends a request and returns the response body. The test fails unless the response has
// expectedStatus.
func (hc *HTTPClient) Do(t *testing.T, method, path string, body io.Reader, expectedStatus int, options ...RequestOption) []byte {
	t.Helper()

	what := fmt.Sprintf("%s %q", method, path)
	req, err := http.NewRequest(method, hc.ServerURL+path, body)
	require.NoError(t, err, what+": failed to create request")
	for _, option := range options {
		option(req)
	}

	res, err := hc.Client.Do(req)
	require.NoError(t, err, what+": request failed")
	defer func() {
		require.NoError(t, res.Body.Close(), what+": failed to close response body")
	}()

	content, err := io.ReadAll(res.Body)
	require.NoError(t, err, what+": failed to read response body")
	require.Equal(t, expectedStatus, res.StatusCode, what+": unexpected status, body %s", content)
	return content
}

// GetJSON expects 200 and decodes the response into out.
func (hc *HTTPClient) GetJSON(t *testing.T, path string, out any, options ...RequestOption) {
	t.Helper()
	hc.sendJSON(t, http.MethodGet, path, nil, http.StatusOK, out, options...)
}

// PostJSON expects 201 and decodes the response into out. in is either an [io.Reader] carrying
// JSON or a value to encode.
func (hc *HTTPClient) PostJSON(t *testing.T, path string, in, out any, options ...RequestOption) {
	t.Helper()
	hc.sendJSON(t, http.MethodPost, path, in, http.StatusCreated, out, options...)
}

// PutJSON expects 200 and decodes the response into out. in may be nil.
func (hc *HTTPClient) PutJSON(t *testing.T, path string, in, out any, options ...RequestOption) {
	t.Helper()
	hc.sendJSON(t, http.MethodPut, path, in, http.StatusOK, out, options...)
}

func (hc *HTTPClient) sendJSON(t *testing.T, method, path string, in any, expectedStatus int, out any, options ...RequestOption) {
	t.Helper()

	body := encode(t, in)
	if body != nil {
		options = append(options, WithHeader("Content-Type", "application/json"))
	}

	content := hc.Do(t, method, path, body, expectedStatus, options...)
	require.NoError(t, json.Unmarshal(content, out), "%s %q: failed to decode response body", method, path)
}

func encode(t *testing.T, in any) io.Reader {
	t.Helper()

	switch in := in.(type) {
	case nil:
		return nil
	case io.Reader:
		return in
	default:
		content, err := json.Marshal(in)
		require.NoError(t, err, "failed to encode request body")
		return bytes.NewReader(content)
	}
}
