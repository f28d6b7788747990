package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proplens/scout/internal/api/handlers"
	"github.com/proplens/scout/pkg/config"
	"github.com/proplens/scout/pkg/logger"
	"github.com/proplens/scout/pkg/redis"
)

func testConfig() *config.Config {
	return &config.Config{
		Port: "8090",
		Env:  "development",
		Engine: config.EngineConfig{
			TopN:     10,
			CacheTTL: time.Minute,
		},
		API: config.APIConfig{
			RateLimitRPS:   100,
			RateLimitBurst: 100,
		},
		LogLevel:  "error",
		LogFormat: "json",
	}
}

// testRouter wires the router with a disabled Redis client and no
// database. Tests stay on paths that never reach the repositories.
func testRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	log := logger.New(cfg)

	rdb, err := redis.New(cfg)
	require.NoError(t, err)

	scoringHandler := handlers.NewScoringHandler(
		nil,
		nil,
		redis.NewCache(rdb, "scout"),
		redis.NewRateLimiter(rdb, "scout"),
		cfg,
		log,
	)
	healthHandler := handlers.NewHealthHandler(nil, rdb, log)

	return NewRouter(scoringHandler, healthHandler, cfg, log)
}

func TestRouter_Health(t *testing.T) {
	router := testRouter(t, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "scout-api", body["service"])
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := testRouter(t, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ShortlistRequiresPost(t *testing.T) {
	router := testRouter(t, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/shortlist", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_ShortlistRejectsBadRequests(t *testing.T) {
	router := testRouter(t, testConfig())

	cases := []struct {
		name string
		body string
		want string
	}{
		{"MalformedJSON", `{`, "Invalid request body"},
		{"MissingProfile", `{}`, "Missing profile"},
		{"ProfileNotAnObject", `{"profile": 42}`, "Invalid profile"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/shortlist", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestRouter_ListRunsRejectsBadLimit(t *testing.T) {
	router := testRouter(t, testConfig())

	for _, limit := range []string{"abc", "0", "-5"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit="+limit, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestRouter_RateLimitsAPIRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.API.RateLimitRPS = 0.001
	cfg.API.RateLimitBurst = 2
	router := testRouter(t, cfg)

	post := func() int {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/shortlist", strings.NewReader("{")))
		return rec.Code
	}

	assert.Equal(t, http.StatusBadRequest, post())
	assert.Equal(t, http.StatusBadRequest, post())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/shortlist", strings.NewReader("{")))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")
}

func TestRouter_HealthExemptFromRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.API.RateLimitRPS = 0.001
	cfg.API.RateLimitBurst = 1
	router := testRouter(t, cfg)

	// Exhaust the API budget.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/shortlist", strings.NewReader("{")))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	log := logger.New(testConfig())
	handler := recoveryMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
