package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/watertower/pkg/buildinfo"
	"github.com/matzehuels/watertower/pkg/cache"
	"github.com/matzehuels/watertower/pkg/errors"
	"github.com/matzehuels/watertower/pkg/observability"
	"github.com/matzehuels/watertower/pkg/pipeline"
)

type analysisBody struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Volume  int      `json:"volume"`
	Heights []int    `json:"heights"`
	Rows    []string `json:"rows"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(New(pipeline.NewRunner(fc, nil, nil), nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decodeAnalysis(t *testing.T, resp *http.Response) analysisBody {
	t.Helper()
	defer resp.Body.Close()
	var body analysisBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	defer resp.Body.Close()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Error("missing request id header")
	}
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var info buildinfo.Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info != buildinfo.Get() {
		t.Errorf("version = %+v, want %+v", info, buildinfo.Get())
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestAnalyzePost(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/analyze", "application/json",
		strings.NewReader(`{"heights":[2,5,1,2,3,4,7,7,6],"max_height":9}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}
	body := decodeAnalysis(t, resp)
	if body.Volume != 10 || body.Width != 9 || body.Height != 9 {
		t.Errorf("body = %+v", body)
	}

	resp, err = http.Post(srv.URL+"/v1/analyze", "application/json",
		strings.NewReader(`{"heights":[2,5,1,2,3,4,7,7,6],"max_height":9}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
}

func TestAnalyzeGet(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"?heights=2,1,1,2,3,4,7,5,6", 3},
		{"?preset=deep", 15},
		{"?heights=3|0|3&max_height=3", 3},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/v1/analyze" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := decodeAnalysis(t, resp).Volume; got != tt.want {
				t.Errorf("volume = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAnalyzeErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		do     func() (*http.Response, error)
		status int
		code   string
	}{
		{
			name:   "height above ceiling",
			do:     func() (*http.Response, error) { return http.Get(srv.URL + "/v1/analyze?heights=1,10&max_height=9") },
			status: http.StatusBadRequest,
			code:   "INVALID_CONFIGURATION",
		},
		{
			name:   "not a number",
			do:     func() (*http.Response, error) { return http.Get(srv.URL + "/v1/analyze?heights=1,x") },
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name: "malformed body",
			do: func() (*http.Response, error) {
				return http.Post(srv.URL+"/v1/analyze", "application/json", strings.NewReader(`{"heights":`))
			},
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name: "wrong content type",
			do: func() (*http.Response, error) {
				return http.Post(srv.URL+"/v1/analyze", "text/plain", strings.NewReader(`2 5 1`))
			},
			status: http.StatusUnsupportedMediaType,
			code:   "UNSUPPORTED",
		},
		{
			name:   "unknown format",
			do:     func() (*http.Response, error) { return http.Get(srv.URL + "/v1/render/pdf") },
			status: http.StatusBadRequest,
			code:   "INVALID_FORMAT",
		},
		{
			name: "empty heights array",
			do: func() (*http.Response, error) {
				return http.Post(srv.URL+"/v1/analyze", "application/json", strings.NewReader(`{"heights":[]}`))
			},
			status: http.StatusBadRequest,
			code:   "INVALID_CONFIGURATION",
		},
		{
			name:   "empty heights query",
			do:     func() (*http.Response, error) { return http.Get(srv.URL + "/v1/analyze?heights=") },
			status: http.StatusBadRequest,
			code:   "INVALID_CONFIGURATION",
		},
		{
			name:   "empty heights on render",
			do:     func() (*http.Response, error) { return http.Get(srv.URL + "/v1/render/svg?heights=%20") },
			status: http.StatusBadRequest,
			code:   "INVALID_CONFIGURATION",
		},
		{
			name:   "unknown preset",
			do:     func() (*http.Response, error) { return http.Get(srv.URL + "/v1/analyze?preset=lake") },
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.do()
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decodeError(t, resp)
			if string(body.Error.Code) != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
			if body.Error.Message == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestRender(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"txt", "text/plain; charset=utf-8", "........."},
		{"svg", "image/svg+xml", "<svg"},
		{"png", "image/png", "\x89PNG"},
		{"json", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/v1/render/" + tt.format + "?caption=true&cell_size=8")
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			data, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("body starts with %q, want prefix %q", data[:min(len(data), 16)], tt.prefix)
			}
		})
	}
}

func TestRandom(t *testing.T) {
	srv := newTestServer(t)

	get := func() analysisBody {
		resp, err := http.Get(srv.URL + "/v1/random?seed=42&width=12&max_height=6")
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		return decodeAnalysis(t, resp)
	}

	a, b := get(), get()
	if a.Width != 12 || a.Height != 6 {
		t.Errorf("dimensions = %dx%d, want 12x6", a.Width, a.Height)
	}
	for _, h := range a.Heights {
		if h < 1 || h > 6 {
			t.Errorf("height %d outside 1..6", h)
		}
	}
	if strings.Join(a.Rows, "/") != strings.Join(b.Rows, "/") {
		t.Error("same seed should give the same skyline")
	}
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 1 || hooks.lastStatus != http.StatusOK {
		t.Errorf("hooks saw %d requests, last status %d", hooks.requests, hooks.lastStatus)
	}
}

func TestInternalErrorsReachHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	s := New(nil, nil)
	tests := []struct {
		name       string
		err        error
		status     int
		wantErrors int
	}{
		{"internal", stderrors.New("disk on fire"), http.StatusInternalServerError, 1},
		{"validation", errors.New(errors.ErrCodeInvalidInput, "bad"), http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooks.mu.Lock()
			hooks.errors = 0
			hooks.mu.Unlock()

			rec := httptest.NewRecorder()
			s.writeError(rec, httptest.NewRequest(http.MethodGet, "/v1/analyze", nil), tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			hooks.mu.Lock()
			defer hooks.mu.Unlock()
			if hooks.errors != tt.wantErrors {
				t.Errorf("OnError called %d times, want %d", hooks.errors, tt.wantErrors)
			}
		})
	}

	rec := httptest.NewRecorder()
	s.writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), stderrors.New("secret detail"))
	if strings.Contains(rec.Body.String(), "secret detail") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu         sync.Mutex
	requests   int
	lastStatus int
	errors     int
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastStatus = status
}
