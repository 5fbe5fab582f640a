package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	merrors "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

const sceneJSON = `{
  "viewport": {"width": 1280, "height": 800},
  "layout": {"container": "#grid", "column_width": 240},
  "elements": [
    {"id": "grid", "tag": "div", "width": 756, "height": 2000},
    {"id": "a", "parent": "grid", "label": "Alpha", "width": 240, "height": 100},
    {"id": "b", "parent": "grid", "width": 240, "height": 150},
    {"id": "c", "parent": "grid", "width": 240, "height": 80},
    {"id": "d", "parent": "grid", "width": 240, "height": 120}
  ]
}`

const sceneTOML = `
[viewport]
width = 1280
height = 800

[layout]
elements = ".card"
column_width = 100
column_gap = 0

[[elements]]
id = "x"
classes = ["card"]
width = 100
height = 40

[[elements]]
id = "y"
classes = ["card"]
width = 100
height = 60
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	runner := pipeline.NewRunner(newMemCache(), nil, log.New(io.Discard))
	return New(runner, log.New(io.Discard))
}

func post(t *testing.T, s *Server, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestLayout(t *testing.T) {
	s := newTestServer(t)
	rec := post(t, s, "/v1/layout", "application/json", sceneJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}

	var resp layoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []masonry.Placement{
		{Index: 0, ID: "a", X: 0, Y: 0, Width: 240, Height: 100},
		{Index: 1, ID: "b", X: 252, Y: 0, Width: 240, Height: 150},
		{Index: 2, ID: "c", X: 504, Y: 0, Width: 240, Height: 80},
		{Index: 3, ID: "d", X: 0, Y: 112, Width: 240, Height: 120, Wrapped: true, Stacked: true},
	}
	if diff := cmp.Diff(want, resp.Layout.Placements); diff != "" {
		t.Errorf("placements mismatch (-want +got):\n%s", diff)
	}
	if resp.SceneHash == "" {
		t.Error("scene hash is empty")
	}

	rec = post(t, s, "/v1/layout", "application/json", sceneJSON)
	if got := rec.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("second request X-Cache = %q, want hit", got)
	}
}

func TestLayout_TOML(t *testing.T) {
	s := newTestServer(t)
	rec := post(t, s, "/v1/layout", "application/toml", sceneTOML)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp layoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var xs []float64
	for _, p := range resp.Layout.Placements {
		xs = append(xs, p.X)
	}
	if diff := cmp.Diff([]float64{0, 100}, xs); diff != "" {
		t.Errorf("x offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout_QueryOverrides(t *testing.T) {
	s := newTestServer(t)
	rec := post(t, s, "/v1/layout?column_gap=0&row_gap=0", "application/json", sceneJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp layoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]float64{0, 240, 480, 720}, resp.Layout.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"json", "application/json", "{"},
		{"dot", "text/vnd.graphviz", "digraph"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := post(t, s, "/v1/render?format="+tt.format, "application/json", sceneJSON)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if got := strings.TrimSpace(rec.Body.String()); !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("body starts with %.20q, want prefix %q", got, tt.prefix)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		wantStatus  int
		wantCode    merrors.Code
	}{
		{"malformed json", "/v1/layout", "application/json", "{", http.StatusBadRequest, merrors.ErrCodeInvalidInput},
		{"unknown field", "/v1/layout", "application/json", `{"bogus": 1}`, http.StatusBadRequest, merrors.ErrCodeInvalidInput},
		{"no source", "/v1/layout", "application/json", `{"layout": {"column_width": 10}}`, http.StatusBadRequest, merrors.ErrCodeInvalidInput},
		{"missing container", "/v1/layout", "application/json", `{"layout": {"container": "#nope", "column_width": 10}}`, http.StatusBadRequest, merrors.ErrCodeInvalidConfiguration},
		{"bad format", "/v1/render?format=gif", "application/json", sceneJSON, http.StatusBadRequest, merrors.ErrCodeInvalidFormat},
		{"bad style", "/v1/render?style=fancy", "application/json", sceneJSON, http.StatusBadRequest, merrors.ErrCodeInvalidStyle},
		{"bad number", "/v1/layout?column_gap=wide", "application/json", sceneJSON, http.StatusBadRequest, merrors.ErrCodeInvalidInput},
		{"bad bool", "/v1/render?guides=maybe", "application/json", sceneJSON, http.StatusBadRequest, merrors.ErrCodeInvalidInput},
		{"negative gap", "/v1/layout?row_gap=-1", "application/json", sceneJSON, http.StatusBadRequest, merrors.ErrCodeInvalidInput},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.target, tt.contentType, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != string(tt.wantCode) {
				t.Errorf("code = %q, want %q (%s)", resp.Code, tt.wantCode, resp.Error)
			}
			if resp.RequestID == "" {
				t.Error("request id is empty")
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	s := New(runner, log.New(io.Discard), WithMaxBodyBytes(16))
	rec := post(t, s, "/v1/layout", "application/json", sceneJSON)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != string(merrors.ErrCodeTooLarge) {
		t.Errorf("code = %q, want %q", resp.Code, merrors.ErrCodeTooLarge)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	rec := post(t, s, "/v1/bricks", "application/json", sceneJSON)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != string(merrors.ErrCodeNotFound) {
		t.Errorf("code = %q, want %q", resp.Code, merrors.ErrCodeNotFound)
	}
	if !strings.Contains(resp.Error, "/v1/bricks") {
		t.Errorf("error = %q, want the path", resp.Error)
	}
}

func TestNewErrorResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/layout", nil)
	tests := []struct {
		name     string
		err      error
		status   int
		wantCode merrors.Code
		wantMsg  string
	}{
		{"coded", merrors.New(merrors.ErrCodeInvalidStyle, "unknown style"), http.StatusBadRequest, merrors.ErrCodeInvalidStyle, "unknown style"},
		{"uncoded server error", errors.New("disk on fire"), http.StatusInternalServerError, merrors.ErrCodeInternal, "internal error"},
		{"uncoded timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "", context.DeadlineExceeded.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := newErrorResponse(req, tt.err, tt.status)
			if resp.Code != string(tt.wantCode) || resp.Error != tt.wantMsg {
				t.Errorf("got (%q, %q), want (%q, %q)", resp.Code, resp.Error, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{merrors.New(merrors.ErrCodeNotFound, "x"), http.StatusNotFound},
		{merrors.New(merrors.ErrCodeTooLarge, "x"), http.StatusRequestEntityTooLarge},
		{merrors.New(merrors.ErrCodeUnsupported, "x"), http.StatusUnprocessableEntity},
		{merrors.New(merrors.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{merrors.New(merrors.ErrCodeHost, "x"), http.StatusBadGateway},
		{fmt.Errorf("layout: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type recordingHTTPHooks struct {
	mu       sync.Mutex
	requests int
	statuses []int
	errors   int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t)
	post(t, s, "/v1/layout", "application/json", sceneJSON)
	post(t, s, "/v1/layout", "application/json", "{")

	if hooks.requests != 2 {
		t.Errorf("requests = %d, want 2", hooks.requests)
	}
	if diff := cmp.Diff([]int{http.StatusOK, http.StatusBadRequest}, hooks.statuses); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
	if hooks.errors != 1 {
		t.Errorf("errors = %d, want 1", hooks.errors)
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// memCache is an in-memory cache.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }
