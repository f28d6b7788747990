package handlers

import (
	"net/http"

	"github.com/proplens/scout/pkg/database"
	"github.com/proplens/scout/pkg/logger"
	"github.com/proplens/scout/pkg/redis"
)

// HealthHandler reports service health including the backing stores
type HealthHandler struct {
	db     *database.DB
	redis  *redis.Client
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, rdb *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  rdb,
		logger: log,
	}
}

// Health returns server health status. The database must be reachable
// for an ok; Redis is optional and only reported.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]interface{}{
		"status":  "ok",
		"service": "scout-api",
	}
	code := http.StatusOK

	if h.db != nil {
		dbStatus, err := h.db.HealthCheck(ctx)
		status["database"] = dbStatus
		if err != nil {
			h.logger.WithError(err).Error("Database health check failed")
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	if h.redis != nil {
		status["redis"] = map[string]interface{}{
			"enabled": h.redis.Enabled(),
		}
	}

	respondJSON(w, code, status)
}
