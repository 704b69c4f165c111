// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/middleware"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

type RoadmapHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewRoadmapHandler(db *sql.DB, cfg cliparse.Config) *RoadmapHandler {
	return &RoadmapHandler{db: db, cfg: cfg}
}

// Roadmap handles GET /api/admin/feature-requests/roadmap
// Returns requests grouped into one column per status. Every column is
// present even when empty, so board clients never invent columns.
func (h *RoadmapHandler) Roadmap(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	rows, err := h.db.Query(`
		SELECT fr.id, fr.user_id, fr.category_id, fr.title, fr.description,
		       fr.status, fr.priority, fr.effort_estimate, fr.saved_score,
		       fr.created_at, fr.updated_at,
		       COALESCE(SUM(CASE WHEN v.vote_type = 'upvote' THEN 1 ELSE 0 END), 0) AS votes
		FROM feature_request fr
		LEFT JOIN vote v ON v.feature_request_id = fr.id
		GROUP BY fr.id, fr.user_id, fr.category_id, fr.title, fr.description,
		         fr.status, fr.priority, fr.effort_estimate, fr.saved_score,
		         fr.created_at, fr.updated_at
		ORDER BY votes DESC, fr.created_at
	`)
	if err != nil {
		slog.Error("failed to query roadmap", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	columns := make(map[string][]models.FeatureRequest, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		columns[status] = []models.FeatureRequest{}
	}

	for rows.Next() {
		var fr models.FeatureRequest
		if err := rows.Scan(
			&fr.ID, &fr.UserID, &fr.CategoryID, &fr.Title, &fr.Description,
			&fr.Status, &fr.Priority, &fr.EffortEstimate, &fr.SavedScore,
			&fr.CreatedAt, &fr.UpdatedAt, &fr.Votes,
		); err != nil {
			slog.Error("failed to scan roadmap row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		columns[fr.Status] = append(columns[fr.Status], fr)
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoadmapResponse{Columns: columns})
}

// UpdateStatus handles PUT /api/admin/feature-requests/:id/status
// A move to the current status is acknowledged but writes nothing;
// same-column reorders on the board are presentation-only.
func (h *RoadmapHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	if requestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}

	var req models.UpdateStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !models.ValidStatus(req.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown status: "+req.Status)
		return
	}

	var current string
	err := h.db.QueryRow(`
		SELECT status FROM feature_request WHERE id = $1
	`, requestID).Scan(&current)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Feature request not found")
		return
	}
	if err != nil {
		slog.Error("failed to query feature request", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if current == req.Status {
		middleware.JSONResponse(w, http.StatusOK, models.UpdateStatusResponse{
			RequestID: requestID,
			Status:    current,
			Changed:   false,
		})
		return
	}

	now := time.Now()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE feature_request SET status = $1, updated_at = $2 WHERE id = $3
	`, req.Status, now, requestID)
	if err != nil {
		slog.Error("failed to update status", "error", err, "request_id", requestID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO status_change (id, feature_request_id, from_status, to_status, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), requestID, current, req.Status, admin.ID, now)
	if err != nil {
		slog.Error("failed to record status change", "error", err, "request_id", requestID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit status update", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, admin.Email, "feature_request.status",
		"feature_request/"+requestID, models.SeverityInfo, current+" -> "+req.Status)

	slog.Info("status updated", "request_id", requestID,
		"from", current, "to", req.Status, "actor", admin.ID)

	middleware.JSONResponse(w, http.StatusOK, models.UpdateStatusResponse{
		RequestID: requestID,
		Status:    req.Status,
		Changed:   true,
	})
}

// BulkUpdateStatus handles POST /api/admin/feature-requests/bulk
// Moves every listed request to the target status in one transaction.
// Requests already at the target and unknown IDs are skipped, not errors.
func (h *RoadmapHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}

	var req models.BulkStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.RequestIDs) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "request_ids cannot be empty")
		return
	}
	if !models.ValidStatus(req.Status) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown status: "+req.Status)
		return
	}

	now := time.Now()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	updated := 0
	for _, requestID := range req.RequestIDs {
		var current string
		err := tx.QueryRow(`
			SELECT status FROM feature_request WHERE id = $1
		`, requestID).Scan(&current)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			slog.Error("failed to query feature request", "error", err, "request_id", requestID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if current == req.Status {
			continue
		}

		if _, err := tx.Exec(`
			UPDATE feature_request SET status = $1, updated_at = $2 WHERE id = $3
		`, req.Status, now, requestID); err != nil {
			slog.Error("failed to bulk update status", "error", err, "request_id", requestID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
			return
		}

		if _, err := tx.Exec(`
			INSERT INTO status_change (id, feature_request_id, from_status, to_status, actor_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.NewString(), requestID, current, req.Status, admin.ID, now); err != nil {
			slog.Error("failed to record status change", "error", err, "request_id", requestID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
			return
		}

		updated++
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit bulk update", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, admin.Email, "feature_request.bulk_status",
		"feature_request", models.SeverityInfo, req.Status)

	slog.Info("bulk status update", "updated", updated, "status", req.Status, "actor", admin.ID)

	middleware.JSONResponse(w, http.StatusOK, models.BulkStatusResponse{
		Updated: updated,
		Status:  req.Status,
	})
}
