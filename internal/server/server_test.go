package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/commitgraph/pkg/cache"
	errs "github.com/matzehuels/commitgraph/pkg/errors"
	"github.com/matzehuels/commitgraph/pkg/pipeline"
)

const graphJSON = `{
  "commits": [
    {"id": "a1", "seq": 0, "message": "init"},
    {"id": "b2", "seq": 1, "parents": ["a1"], "message": "add parser"},
    {"id": "c3", "seq": 2, "parents": ["a1"]},
    {"id": "m4", "seq": 3, "parents": ["b2", "c3"]}
  ],
  "branches": [
    {"name": "main", "head": "m4"},
    {"name": "feature", "head": "c3"}
  ]
}`

const graphTOML = `
[[commits]]
id = "a1"
seq = 0

[[branches]]
name = "main"
head = "a1"
`

func newTestServer(t *testing.T, c cache.Cache, cfg Config) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	cfg.Logger = logger
	s := New(pipeline.NewRunner(c, nil, logger), cfg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, query, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/render"+query, contentType, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("body = %v, want status ok and a version", body)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("%s = %q, want a UUID", RequestIDHeader, resp.Header.Get(RequestIDHeader))
	}
}

func TestRequestIDIsKept(t *testing.T) {
	ts := newTestServer(t, nil, Config{})
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("%s = %q, want %q", RequestIDHeader, got, id)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("invalid request ids should be replaced")
	}
}

func TestRenderSVG(t *testing.T) {
	ts := newTestServer(t, nil, Config{})
	resp := post(t, ts, "", "application/json", graphJSON)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", resp.StatusCode, decodeError(t, resp))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "<svg") || !strings.Contains(string(body), "node-b2") {
		t.Errorf("unexpected svg:\n%s", body)
	}
}

func TestRenderJSONBottomToTop(t *testing.T) {
	ts := newTestServer(t, nil, Config{})
	resp := post(t, ts, "?format=json&direction=BT", "application/json", graphJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", resp.StatusCode, decodeError(t, resp))
	}

	var out struct {
		Direction string `json:"direction"`
		Nodes     []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Direction != "BT" || len(out.Nodes) != 4 {
		t.Errorf("got direction %q with %d nodes, want BT with 4", out.Direction, len(out.Nodes))
	}
}

func TestRenderTOMLBody(t *testing.T) {
	ts := newTestServer(t, nil, Config{})
	resp := post(t, ts, "?format=json", "application/toml; charset=utf-8", graphTOML)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", resp.StatusCode, decodeError(t, resp))
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"bad format", "?format=gif", graphJSON, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad direction", "?direction=TB", graphJSON, http.StatusBadRequest, "INVALID_DIRECTION"},
		{"bad type", "?type=tower", graphJSON, http.StatusBadRequest, "INVALID_VIZ_TYPE"},
		{"bad detailed", "?detailed=maybe", graphJSON, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed body", "", `{"commits": [`, http.StatusBadRequest, "INVALID_GRAPH"},
		{"unknown head", "", `{"commits": [{"id": "a", "seq": 0}], "branches": [{"name": "main", "head": "z"}]}`, http.StatusBadRequest, "INVALID_GRAPH"},
		{"whitespace in branch", "", `{"commits": [{"id": "a", "seq": 0}], "branches": [{"name": "my branch", "head": "a"}]}`, http.StatusBadRequest, "INVALID_GRAPH"},
		{"newline in message", "", `{"commits": [{"id": "a", "seq": 0, "message": "x\ny"}]}`, http.StatusBadRequest, "INVALID_GRAPH"},
	}

	ts := newTestServer(t, nil, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.query, "application/json", tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body := decodeError(t, resp)
			if body.Code != tt.wantCode {
				t.Errorf("code = %q (%s), want %q", body.Code, body.Message, tt.wantCode)
			}
			if body.RequestID == "" {
				t.Error("error body should carry the request id")
			}
		})
	}
}

func TestRenderLimits(t *testing.T) {
	t.Run("body too large", func(t *testing.T) {
		ts := newTestServer(t, nil, Config{MaxBodyBytes: 64})
		resp := post(t, ts, "", "application/json", graphJSON)
		if resp.StatusCode != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", resp.StatusCode)
		}
	})
	t.Run("too many commits", func(t *testing.T) {
		ts := newTestServer(t, nil, Config{MaxCommits: 2})
		resp := post(t, ts, "", "application/json", graphJSON)
		if body := decodeError(t, resp); resp.StatusCode != http.StatusBadRequest || body.Code != "INVALID_INPUT" {
			t.Errorf("got %d %+v, want 400 INVALID_INPUT", resp.StatusCode, body)
		}
	})
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, nil, Config{})
	resp, err := http.Get(ts.URL + "/v1/render")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/render status = %d, want 405", resp.StatusCode)
	}
}

func TestRenderRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := cache.OpenRedis(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	ts := newTestServer(t, c, Config{})

	first := post(t, ts, "", "application/json", graphJSON)
	if got := first.Header.Get(CacheHeader); got != "miss" {
		t.Errorf("first %s = %q, want miss", CacheHeader, got)
	}
	second := post(t, ts, "", "application/json", graphJSON)
	if got := second.Header.Get(CacheHeader); got != "hit" {
		t.Errorf("second %s = %q, want hit", CacheHeader, got)
	}

	a, _ := io.ReadAll(first.Body)
	b, _ := io.ReadAll(second.Body)
	if string(a) != string(b) {
		t.Error("cached response differs from the rendered one")
	}
	if len(mr.Keys()) == 0 {
		t.Error("no keys written to redis")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"INVALID_GRAPH", http.StatusBadRequest},
		{"NOT_FOUND", http.StatusNotFound},
		{"RENDER_FAILED", http.StatusUnprocessableEntity},
		{"TIMEOUT", http.StatusGatewayTimeout},
		{"UNSUPPORTED", http.StatusNotImplemented},
		{"INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(errs.Code(tt.code)); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
