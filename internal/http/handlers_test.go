package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"texforge/internal/cache"
	"texforge/internal/config"
	"texforge/internal/encoder"
	"texforge/internal/generator"
	"texforge/internal/presets"
	"texforge/internal/stats"
	"texforge/internal/texture"
)

func newTestServer(t *testing.T) (*httptest.Server, *stats.Stats) {
	t.Helper()
	log := zaptest.NewLogger(t)

	presetsDir := t.TempDir()
	preset := "texture_type: wall\nwidth: 16\nheight: 16\nseed: 3\n"
	if err := os.WriteFile(filepath.Join(presetsDir, "brick.yaml"), []byte(preset), 0644); err != nil {
		t.Fatal(err)
	}
	scanner := presets.New(presetsDir, log)
	if err := scanner.Scan(); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{CacheType: "memory", MaxBodyBytes: 4096}
	c := cache.NewMemoryCache(16)
	st := stats.New()
	gen := generator.New(c, encoder.Default(), st, log, 2)

	srv := httptest.NewServer(New(cfg, log, gen, scanner, st, c).Routes())
	t.Cleanup(srv.Close)
	return srv, st
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestGenerate_MissThenHit(t *testing.T) {
	srv, st := newTestServer(t)
	body := `{"texture_type":"sprite","width":16,"height":16,"animation_frames":2,"seed":1,"enable_ao":true}`

	first := post(t, srv.URL+"/api/generate", body)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", first.StatusCode)
	}
	if first.Header.Get("X-Cache") != "miss" {
		t.Errorf("X-Cache = %q, want miss", first.Header.Get("X-Cache"))
	}
	etag := first.Header.Get("ETag")
	if len(etag) != 18 {
		t.Errorf("ETag = %q, want 16 quoted hex chars", etag)
	}

	var res texture.Result
	if err := json.NewDecoder(first.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if len(res.Diffuse) != 2 || len(res.AO) != 2 || res.Metadata.Type != "sprite" {
		t.Errorf("result = %d diffuse, %d ao, type %q", len(res.Diffuse), len(res.AO), res.Metadata.Type)
	}

	second := post(t, srv.URL+"/api/generate", body)
	if second.Header.Get("X-Cache") != "hit" || second.Header.Get("ETag") != etag {
		t.Errorf("second request: X-Cache=%q ETag=%q", second.Header.Get("X-Cache"), second.Header.Get("ETag"))
	}

	snap := st.Snapshot()
	if snap.Generated != 1 || snap.Cached != 1 {
		t.Errorf("stats = %+v", snap)
	}
}

func TestGenerate_Rejections(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"missing type", `{"width":16,"height":16}`, http.StatusBadRequest, "texture_type"},
		{"unknown field", `{"texture_type":"wall","width":16,"height":16,"colour":"red"}`, http.StatusBadRequest, "colour"},
		{"negative width", `{"texture_type":"wall","width":-1,"height":16}`, http.StatusBadRequest, "width"},
		{"bad quality", `{"texture_type":"wall","width":8,"height":8,"quality":"EPIC"}`, http.StatusBadRequest, "quality"},
		{"not json", `texture please`, http.StatusBadRequest, ""},
		{"too large", `{"texture_type":"wall","width":8,"height":8,"theme":"` + strings.Repeat("x", 5000) + `"}`, http.StatusRequestEntityTooLarge, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/api/generate", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body map[string]string
			json.NewDecoder(resp.Body).Decode(&body)
			if body["error"] == "" {
				t.Error("missing error message")
			}
			if body["field"] != tt.field {
				t.Errorf("field = %q, want %q", body["field"], tt.field)
			}
		})
	}
}

func TestGenerate_UnsupportedFormatIsServerError(t *testing.T) {
	srv, st := newTestServer(t)
	resp := post(t, srv.URL+"/api/generate", `{"texture_type":"wall","width":8,"height":8,"compression":"webp"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 when no webp encoder is registered", resp.StatusCode)
	}
	if st.Snapshot().Errors != 1 {
		t.Error("error counter not incremented")
	}
}

func TestGenerate_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/generate")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestStatsAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	post(t, srv.URL+"/api/generate", `{"texture_type":"ui","width":8,"height":8}`)

	resp, err := http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Generated int64 `json:"generated"`
		Cached    int64 `json:"cached"`
		Errors    int64 `json:"errors"`
		Cache     struct {
			Type    string `json:"type"`
			Entries int    `json:"entries"`
		} `json:"cache"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Generated != 1 || body.Cache.Type != "memory" || body.Cache.Entries != 1 {
		t.Errorf("stats = %+v", body)
	}

	for _, path := range []string{"/health", "/healthz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		var health map[string]string
		json.NewDecoder(resp.Body).Decode(&health)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || health["status"] != "healthy" {
			t.Errorf("%s = %d %v", path, resp.StatusCode, health)
		}
	}
}

func TestPresets(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/presets")
	if err != nil {
		t.Fatal(err)
	}
	var list []presets.Preset
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list) != 1 || list[0].ID != "brick" {
		t.Fatalf("presets = %+v", list)
	}

	gen := post(t, srv.URL+"/api/presets/brick/generate", "")
	if gen.StatusCode != http.StatusOK {
		t.Fatalf("generate preset status = %d", gen.StatusCode)
	}
	if gen.Header.Get("ETag") != `"`+texture.ETag(list[0].Key)+`"` {
		t.Errorf("ETag = %q, want tag of preset key", gen.Header.Get("ETag"))
	}

	missing := post(t, srv.URL+"/api/presets/nope/generate", "")
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("unknown preset status = %d", missing.StatusCode)
	}
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/generate", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight = %d, origin %q", resp.StatusCode, resp.Header.Get("Access-Control-Allow-Origin"))
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") != "" {
		t.Error("foreign origin should not be allowed")
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("request id header missing")
	}
}
