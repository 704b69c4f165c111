// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/middleware"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

type SatisfactionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSatisfactionHandler(db *sql.DB, cfg cliparse.Config) *SatisfactionHandler {
	return &SatisfactionHandler{db: db, cfg: cfg}
}

// Submit handles POST /api/satisfaction
func (h *SatisfactionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := requireUser(h.db, w, r)
	if user == nil {
		return
	}

	var req models.SubmitSatisfactionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Score < 1 || req.Score > 5 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "score must be between 1 and 5")
		return
	}

	entry := models.SatisfactionEntry{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Score:     req.Score,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	_, err := h.db.Exec(`
		INSERT INTO satisfaction_response (id, user_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.ID, entry.UserID, entry.Score, entry.Comment, entry.CreatedAt)
	if err != nil {
		slog.Error("failed to insert satisfaction response", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record response")
		return
	}

	slog.Info("satisfaction recorded", "score", req.Score, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, entry)
}

// Report handles GET /api/admin/satisfaction/report
func (h *SatisfactionHandler) Report(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	rows, err := h.db.Query(`
		SELECT score, COUNT(*) FROM satisfaction_response GROUP BY score
	`)
	if err != nil {
		slog.Error("failed to aggregate satisfaction responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	resp := models.SatisfactionReportResponse{ByScore: make(map[string]int)}
	sum := 0
	for rows.Next() {
		var score, count int
		if err := rows.Scan(&score, &count); err != nil {
			slog.Error("failed to scan score count", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		resp.ByScore[strconv.Itoa(score)] = count
		resp.Responses += count
		sum += score * count
	}

	if resp.Responses > 0 {
		resp.AverageScore = float64(sum) / float64(resp.Responses)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
