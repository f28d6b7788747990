package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/proplens/scout/internal/contracts"
	"github.com/proplens/scout/internal/dataset"
	"github.com/proplens/scout/internal/profile"
	"github.com/proplens/scout/internal/scoring"
	"github.com/proplens/scout/pkg/config"
	"github.com/proplens/scout/pkg/logger"
	"github.com/proplens/scout/pkg/redis"
)

// ScoringHandler handles scoring and shortlist API endpoints.
// Every request trains a fresh model bank against the posted profile,
// so results never leak between customers.
type ScoringHandler struct {
	metrics *dataset.Repository
	runs    *scoring.Repository
	cache   *redis.Cache
	limiter *redis.RateLimiter
	config  *config.Config
	logger  *logger.Logger
}

// NewScoringHandler creates a new scoring handler
func NewScoringHandler(
	metrics *dataset.Repository,
	runs *scoring.Repository,
	cache *redis.Cache,
	limiter *redis.RateLimiter,
	cfg *config.Config,
	log *logger.Logger,
) *ScoringHandler {
	return &ScoringHandler{
		metrics: metrics,
		runs:    runs,
		cache:   cache,
		limiter: limiter,
		config:  cfg,
		logger:  log,
	}
}

// ScoreRequest carries the customer profile to score against.
// TopN applies to the shortlist endpoint only; zero or missing falls
// back to the configured default.
type ScoreRequest struct {
	Profile json.RawMessage `json:"profile"`
	TopN    int             `json:"top_n,omitempty"`
}

// ShortlistResponse is the shortlist payload under the data envelope
type ShortlistResponse struct {
	Shortlist *contracts.Shortlist   `json:"shortlist"`
	Training  *contracts.TrainReport `json:"training"`
	Warnings  []string               `json:"warnings,omitempty"`
	Cached    bool                   `json:"cached"`
}

// ScoresResponse is the full scored set payload
type ScoresResponse struct {
	Count    int                      `json:"count"`
	Scores   []contracts.ScoredSuburb `json:"scores"`
	Training *contracts.TrainReport   `json:"training"`
	Warnings []string                 `json:"warnings,omitempty"`
	Cached   bool                     `json:"cached"`
}

// Shortlist scores every suburb for the posted profile and returns the
// ranked top N with the training report
// POST /api/v1/shortlist
func (h *ScoringHandler) Shortlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, p, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	topN := req.TopN
	if topN <= 0 {
		topN = h.config.Engine.TopN
	}

	if !h.allow(ctx, w, redis.ShortlistRateLimit) {
		return
	}

	table, ok := h.loadTable(ctx, w)
	if !ok {
		return
	}

	var resp ShortlistResponse
	key := h.cacheKey(p, func(hash string) string {
		return redis.ShortlistKey(hash, dataset.Fingerprint(table), topN)
	})
	if h.cacheHit(ctx, key, &resp) {
		resp.Cached = true
		respondData(w, resp)
		return
	}

	engine := scoring.NewEngine(scoring.DefaultConfig(), h.logger)

	report, err := engine.Train(ctx, table, p)
	if err != nil {
		h.logger.WithError(err).Error("Training failed")
		respondError(w, http.StatusInternalServerError, "Failed to train scoring models")
		return
	}

	shortlist, err := engine.Shortlist(ctx, table, p, topN)
	if err != nil {
		h.logger.WithError(err).Error("Shortlist generation failed")
		respondError(w, http.StatusInternalServerError, "Failed to build shortlist")
		return
	}

	// Persistence is best-effort: a broken runs table must not block
	// the response the customer is waiting on.
	if err := h.runs.SaveShortlist(ctx, shortlist); err != nil {
		h.logger.WithError(err).WithField("run_id", shortlist.RunID).Warn("Failed to persist scoring run")
	}

	resp = ShortlistResponse{
		Shortlist: shortlist,
		Training:  report,
		Warnings:  warningStrings(p),
	}
	h.cachePut(ctx, key, resp)

	respondData(w, resp)
}

// Scores scores every suburb for the posted profile without screening
// or ranking, for callers that want the full field
// POST /api/v1/scores
func (h *ScoringHandler) Scores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, p, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	if !h.allow(ctx, w, redis.ScoresRateLimit) {
		return
	}

	table, ok := h.loadTable(ctx, w)
	if !ok {
		return
	}

	var resp ScoresResponse
	key := h.cacheKey(p, func(hash string) string {
		return redis.ScoresKey(hash, dataset.Fingerprint(table))
	})
	if h.cacheHit(ctx, key, &resp) {
		resp.Cached = true
		respondData(w, resp)
		return
	}

	engine := scoring.NewEngine(scoring.DefaultConfig(), h.logger)

	report, err := engine.Train(ctx, table, p)
	if err != nil {
		h.logger.WithError(err).Error("Training failed")
		respondError(w, http.StatusInternalServerError, "Failed to train scoring models")
		return
	}

	scored, err := engine.Predict(ctx, table, p)
	if err != nil {
		h.logger.WithError(err).Error("Scoring failed")
		respondError(w, http.StatusInternalServerError, "Failed to score suburbs")
		return
	}

	resp = ScoresResponse{
		Count:    len(scored),
		Scores:   scored,
		Training: report,
		Warnings: warningStrings(p),
	}
	h.cachePut(ctx, key, resp)

	respondData(w, resp)
}

// GetRun returns a persisted scoring run with its shortlist entries
// GET /api/v1/runs/{id}
func (h *ScoringHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := mux.Vars(r)["id"]

	shortlist, err := h.runs.GetShortlist(ctx, runID)
	if errors.Is(err, scoring.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "Scoring run not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get scoring run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve scoring run")
		return
	}

	respondData(w, shortlist)
}

// ListRuns returns recent scoring runs, newest first
// GET /api/v1/runs?limit=20
func (h *ScoringHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.runs.ListRuns(ctx, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list scoring runs")
		respondError(w, http.StatusInternalServerError, "Failed to list scoring runs")
		return
	}

	respondData(w, map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	})
}

// decodeRequest parses the request body and profile, writing the 4xx
// response itself on failure.
func (h *ScoringHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*ScoreRequest, *profile.CustomerProfile, bool) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return nil, nil, false
	}
	if len(req.Profile) == 0 {
		respondError(w, http.StatusBadRequest, "Missing profile")
		return nil, nil, false
	}

	p, err := profile.FromJSON(req.Profile)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid profile: "+err.Error())
		return nil, nil, false
	}

	return &req, p, true
}

// allow applies the shared sliding-window limit on top of the
// per-instance token bucket. Redis failures fail open so scoring stays
// available when the coordination layer is down.
func (h *ScoringHandler) allow(ctx context.Context, w http.ResponseWriter, cfg redis.RateLimitConfig) bool {
	allowed, remaining, err := h.limiter.Allow(ctx, cfg)
	if err != nil {
		h.logger.WithError(err).Warn("Rate limit check failed")
		return true
	}

	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if !allowed {
		respondError(w, http.StatusTooManyRequests, "Too many requests")
		return false
	}
	return true
}

func (h *ScoringHandler) loadTable(ctx context.Context, w http.ResponseWriter) (*dataset.Table, bool) {
	table, err := h.metrics.LoadTable(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load metrics table")
		respondError(w, http.StatusInternalServerError, "Failed to load suburb metrics")
		return nil, false
	}
	return table, true
}

// cacheKey builds the cache key for a profile, or "" when the profile
// cannot be hashed. An empty key disables caching for the request.
func (h *ScoringHandler) cacheKey(p *profile.CustomerProfile, build func(hash string) string) string {
	hash, err := profile.Hash(p)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to hash profile, skipping cache")
		return ""
	}
	return build(hash)
}

func (h *ScoringHandler) cacheHit(ctx context.Context, key string, dest interface{}) bool {
	if key == "" {
		return false
	}
	found, err := h.cache.Get(ctx, key, dest)
	if err != nil {
		h.logger.WithError(err).Warn("Cache read failed")
		return false
	}
	return found
}

func (h *ScoringHandler) cachePut(ctx context.Context, key string, value interface{}) {
	if key == "" {
		return
	}
	if err := h.cache.Set(ctx, key, value, h.config.Engine.CacheTTL); err != nil {
		h.logger.WithError(err).Warn("Cache write failed")
	}
}

func warningStrings(p *profile.CustomerProfile) []string {
	warnings := profile.Warn(p)
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, warning := range warnings {
		out[i] = warning.String()
	}
	return out
}
