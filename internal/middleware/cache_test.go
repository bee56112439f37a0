package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-manager/internal/config"
)

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("X-Multi", "a")
	hdr.Add("X-Multi", "b")
	body := []byte(`{"ok":true}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	status, gotHdr, gotBody, ok := decodePayload(bs)
	if !ok {
		t.Fatal("decode reported failure")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if got := gotHdr.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if vals := gotHdr.Values("X-Multi"); len(vals) != 2 {
		t.Errorf("X-Multi values = %v, want 2 entries", vals)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
}

func TestDecodePayloadTruncated(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, make([]byte, 7)} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Errorf("decodePayload(%v) accepted truncated input", bs)
		}
	}
}

func newTestContext(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/libraries/:library_id/dashboard")
	return c
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/libraries/1/dashboard?x=1"))
	b := cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/libraries/1/dashboard?x=1"))
	if a != b {
		t.Errorf("same request produced different keys: %s vs %s", a, b)
	}

	diff := cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/libraries/1/dashboard?x=2"))
	if a == diff {
		t.Error("different query produced identical keys under route_query")
	}

	cfg.KeyStrategy = "route"
	ra := cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/libraries/1/dashboard?x=1"))
	rb := cacheKeyFrom(cfg, newTestContext(http.MethodGet, "/v1/libraries/1/dashboard?x=2"))
	if ra != rb {
		t.Error("route strategy should ignore the query string")
	}
}

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	c := newTestContext(http.MethodGet, "/v1/libraries/1/dashboard")

	key := buildRateKey(cfg, c)
	if key == "" {
		t.Fatal("empty rate key")
	}

	cfg.KeyStrategy = "user"
	userKey := buildRateKey(cfg, c)
	if userKey == key {
		t.Error("user strategy should build a different key than ip_route")
	}
}
