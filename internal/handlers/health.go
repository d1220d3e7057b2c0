package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vaughan-dsouza/nerv/internal/utils"
)

type HealthHandler struct {
	db  Pinger
	now func() time.Time
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

type healthResp struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Check reports UP when the database answers a ping, DOWN (503) otherwise.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := healthResp{Status: "UP", Timestamp: h.now().UTC()}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			resp.Status = "DOWN"
			utils.JSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	utils.JSON(w, http.StatusOK, resp)
}
