package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio-terminal/internal/catalog"
	"github.com/Zachkp/portfolio-terminal/internal/config"
	"github.com/Zachkp/portfolio-terminal/internal/content"
	"github.com/Zachkp/portfolio-terminal/internal/polar"
	"github.com/Zachkp/portfolio-terminal/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVisits struct {
	mu     sync.Mutex
	visits []store.Visit
}

func (f *fakeVisits) RecordVisit(_ context.Context, v store.Visit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, v)
	return nil
}

func (f *fakeVisits) PruneVisits(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeVisits) all() []store.Visit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Visit(nil), f.visits...)
}

type testEnv struct {
	srv      *Server
	upstream *httptest.Server
	calls    *atomic.Int32
	visits   *fakeVisits
}

func newTestEnv(t *testing.T, token string, upstream http.HandlerFunc, tweak ...func(*config.Config)) *testEnv {
	t.Helper()

	calls := &atomic.Int32{}
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		upstream(w, r)
	}))
	t.Cleanup(up.Close)

	cfg := config.Default()
	cfg.SiteURL = "https://example.com/"
	cfg.RateLimit.PerSecond = 0
	for _, fn := range tweak {
		fn(cfg)
	}

	visits := &fakeVisits{}
	srv, err := New(Options{
		Config: cfg,
		Provider: polar.NewClient(polar.Options{
			BaseURL:      up.URL,
			Token:        token,
			SessionPaths: config.DefaultSessionPaths,
		}),
		Profile: content.Default(),
		Catalog: catalog.Skateboards(),
		Visits:  visits,
	})
	require.NoError(t, err)

	return &testEnv{srv: srv, upstream: up, calls: calls, visits: visits}
}

func (e *testEnv) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCreateCheckout(t *testing.T) {
	env := newTestEnv(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkouts", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{"prod_1"}, body["products"])
		assert.Equal(t, "https://example.com/?checkout=success", body["success_url"])
		assert.Equal(t, "https://example.com/?checkout=cancelled", body["cancel_url"])
		assert.Equal(t, map[string]any{"productName": "Midnight"}, body["metadata"])

		io.WriteString(w, `{"id":"co_1","url":"https://pay/co_1","status":"open","amount":4900}`)
	})

	w := env.do(http.MethodPost, "/api/checkout", `{"productId":"prod_1","quantity":1,"metadata":{"productName":"Midnight"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	out := decode(t, w)
	assert.Equal(t, "co_1", out["checkoutId"])
	assert.Equal(t, "https://pay/co_1", out["checkoutUrl"])
	assert.Equal(t, "open", out["status"])
	assert.Equal(t, float64(4900), out["checkout"].(map[string]any)["amount"])
}

func TestCreateCheckoutBadRequests(t *testing.T) {
	env := newTestEnv(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call %s", r.URL.Path)
	})

	w := env.do(http.MethodPost, "/api/checkout", `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "productId is required", decode(t, w)["error"])

	w = env.do(http.MethodPost, "/api/checkout", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, env.calls.Load())
}

func TestMissingTokenIsServerError(t *testing.T) {
	env := newTestEnv(t, "", func(http.ResponseWriter, *http.Request) {})

	for _, tc := range []struct{ method, target, body string }{
		{http.MethodPost, "/api/checkout", `{"productId":"prod_1"}`},
		{http.MethodGet, "/api/checkout/status?id=co_1", ""},
		{http.MethodGet, "/api/checkout/session?customer_session_token=cst", ""},
	} {
		w := env.do(tc.method, tc.target, tc.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, tc.target)
		assert.Contains(t, decode(t, w)["error"], "POLAR_ACCESS_TOKEN")
	}
	assert.Zero(t, env.calls.Load())
}

func TestCreateCheckoutProviderErrorPassesThrough(t *testing.T) {
	env := newTestEnv(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"detail":"Not permitted"}`)
	})

	w := env.do(http.MethodPost, "/api/checkout", `{"productId":"prod_1"}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	out := decode(t, w)
	assert.Equal(t, "Not permitted", out["error"])
	assert.Equal(t, map[string]any{"detail": "Not permitted"}, out["details"])
	assert.Contains(t, out["troubleshooting"], "403 Forbidden")
}

func TestCreateCheckoutTransportError(t *testing.T) {
	env := newTestEnv(t, "tok", func(http.ResponseWriter, *http.Request) {})
	env.upstream.Close()

	w := env.do(http.MethodPost, "/api/checkout", `{"productId":"prod_1"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, decode(t, w)["error"], "Unexpected error creating checkout")
}

func TestCheckoutStatus(t *testing.T) {
	env := newTestEnv(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/checkouts/co_1":
			io.WriteString(w, `{"id":"co_1","status":"succeeded"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"message":"Checkout not found"}`)
		}
	})

	w := env.do(http.MethodGet, "/api/checkout/status", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id is required", decode(t, w)["error"])

	w = env.do(http.MethodGet, "/api/checkout/status?id=co_1", "")
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, "succeeded", out["status"])
	assert.Equal(t, "co_1", out["checkout"].(map[string]any)["id"])

	w = env.do(http.MethodGet, "/api/checkout/status?id=co_missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Checkout not found", decode(t, w)["error"])
}

func TestCheckoutSessionTriesPathsInOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	env := newTestEnv(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		if r.URL.Path == "/v1/customer_sessions/cst_1" {
			io.WriteString(w, `{"checkout":{"id":"co_9","status":"confirmed"}}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"nope"}`)
	})

	w := env.do(http.MethodGet, "/api/checkout/session?customer_session_token=cst_1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "co_9", decode(t, w)["checkout"].(map[string]any)["id"])
	mu.Lock()
	assert.Equal(t, []string{"/v1/checkouts/session/cst_1", "/v1/customer_sessions/cst_1"}, paths)
	mu.Unlock()

	w = env.do(http.MethodGet, "/api/checkout/session", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutSessionAllCandidatesFail(t *testing.T) {
	env := newTestEnv(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"message":"bad token"}`)
	})

	w := env.do(http.MethodGet, "/api/checkout/session?customer_session_token=cst_1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "bad token", decode(t, w)["error"])
	assert.Equal(t, int32(3), env.calls.Load())
}

func TestPreflightAndCORS(t *testing.T) {
	env := newTestEnv(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":"co_1","status":"open"}`)
	})

	w := env.do(http.MethodOptions, "/api/checkout", "", "Origin", "https://gh.example.io")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "https://gh.example.io", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))

	w = env.do(http.MethodGet, "/api/checkout/status?id=co_1", "")
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardWithoutSiteURL(t *testing.T) {
	env := newTestEnv(t, "tok", func(http.ResponseWriter, *http.Request) {}, func(c *config.Config) {
		c.SiteURL = ""
	})

	w := env.do(http.MethodOptions, "/api/checkout/status", "")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, "", func(http.ResponseWriter, *http.Request) {}, func(c *config.Config) {
		c.RateLimit.PerSecond = 0.001
		c.RateLimit.Burst = 1
	})

	w := env.do(http.MethodGet, "/api/checkout/status?id=co_1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = env.do(http.MethodGet, "/api/checkout/status?id=co_1", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, decode(t, w)["error"], "Too many requests")

	w = env.do(http.MethodOptions, "/api/checkout", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t, "tok", func(http.ResponseWriter, *http.Request) {})

	w := env.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	w = env.do(http.MethodGet, "/healthz", "", requestIDHeader, "abc-123")
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestRobotsAndSitemap(t *testing.T) {
	env := newTestEnv(t, "tok", func(http.ResponseWriter, *http.Request) {})

	w := env.do(http.MethodGet, "/robots.txt", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sitemap: https://example.com/sitemap.xml")
	assert.Contains(t, w.Body.String(), "User-agent: *")

	w = env.do(http.MethodGet, "/sitemap.xml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "<loc>https://example.com/</loc>")
	assert.Contains(t, w.Body.String(), `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
}

func TestHomeTracksHashedVisits(t *testing.T) {
	env := newTestEnv(t, "tok", func(http.ResponseWriter, *http.Request) {})

	w := env.do(http.MethodGet, "/?checkout=success", "", "User-Agent", "test-agent")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), content.Default().Identity.Name)
	assert.Contains(t, w.Body.String(), "checkout completed")

	env.do(http.MethodGet, "/", "", "DNT", "1")
	env.srv.Wait()

	visits := env.visits.all()
	require.Len(t, visits, 1)
	assert.Equal(t, "test-agent", visits[0].UserAgent)
	assert.Len(t, visits[0].HashedIP, 16)
	assert.NotContains(t, visits[0].HashedIP, "192.0.2.1")
}

func TestIPHasherIsStablePerProcess(t *testing.T) {
	h := newIPHasher()
	assert.Equal(t, h.hash("10.0.0.1"), h.hash("10.0.0.1"))
	assert.NotEqual(t, h.hash("10.0.0.1"), h.hash("10.0.0.2"))
	assert.NotEqual(t, h.hash("10.0.0.1"), newIPHasher().hash("10.0.0.1"))
}
