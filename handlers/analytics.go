// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/middleware"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

type AnalyticsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAnalyticsHandler(db *sql.DB, cfg cliparse.Config) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, cfg: cfg}
}

// Analytics handles GET /api/admin/feature-requests/analytics
// Aggregate view for the admin dashboard: totals, per-status and
// per-category breakdowns, and the top requests by active votes with
// humanized vote counts and ages.
func (h *AnalyticsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	var resp models.AnalyticsResponse

	err := h.db.QueryRow(`SELECT COUNT(*) FROM feature_request`).Scan(&resp.TotalRequests)
	if err != nil {
		slog.Error("failed to count feature requests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM vote WHERE vote_type = 'upvote'
	`).Scan(&resp.TotalVotes)
	if err != nil {
		slog.Error("failed to count votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Per-status counts, in roadmap column order, zeros included
	statusCounts := make(map[string]int)
	rows, err := h.db.Query(`
		SELECT status, COUNT(*) FROM feature_request GROUP BY status
	`)
	if err != nil {
		slog.Error("failed to count by status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			slog.Error("failed to scan status count", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		statusCounts[status] = count
	}
	rows.Close()

	resp.ByStatus = make([]models.StatusCount, 0, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		resp.ByStatus = append(resp.ByStatus, models.StatusCount{
			Status: status,
			Count:  statusCounts[status],
		})
	}

	// Per-category counts; uncategorized requests are grouped under "".
	rows, err = h.db.Query(`
		SELECT COALESCE(c.name, ''), COUNT(*)
		FROM feature_request fr
		LEFT JOIN category c ON c.id = fr.category_id
		GROUP BY c.name
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		slog.Error("failed to count by category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	resp.ByCategory = []models.CategoryCount{}
	for rows.Next() {
		var cc models.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			rows.Close()
			slog.Error("failed to scan category count", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		resp.ByCategory = append(resp.ByCategory, cc)
	}
	rows.Close()

	// Top requests by active votes
	rows, err = h.db.Query(`
		SELECT fr.id, fr.title, fr.created_at,
		       COALESCE(SUM(CASE WHEN v.vote_type = 'upvote' THEN 1 ELSE 0 END), 0) AS votes
		FROM feature_request fr
		LEFT JOIN vote v ON v.feature_request_id = fr.id
		GROUP BY fr.id, fr.title, fr.created_at
		ORDER BY votes DESC, fr.created_at
		LIMIT 10
	`)
	if err != nil {
		slog.Error("failed to query top requests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	resp.TopRequests = []models.TopRequest{}
	for rows.Next() {
		var tr models.TopRequest
		var createdAt time.Time
		if err := rows.Scan(&tr.RequestID, &tr.Title, &createdAt, &tr.Votes); err != nil {
			slog.Error("failed to scan top request", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		tr.VotesText = humanize.Comma(int64(tr.Votes))
		tr.Age = humanize.Time(createdAt)
		resp.TopRequests = append(resp.TopRequests, tr)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// CreateAnnouncement handles POST /api/admin/announcements
func (h *AnalyticsHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}

	var req models.CreateAnnouncementRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" || req.Body == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title and body are required")
		return
	}

	var linkedRequest *string
	if req.FeatureRequestID != "" {
		var exists bool
		err := h.db.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM feature_request WHERE id = $1)
		`, req.FeatureRequestID).Scan(&exists)
		if err != nil {
			slog.Error("failed to check feature request", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusBadRequest, "unknown feature_request_id")
			return
		}
		linkedRequest = &req.FeatureRequestID
	}

	announcement := models.Announcement{
		ID:               uuid.NewString(),
		FeatureRequestID: linkedRequest,
		Title:            req.Title,
		Body:             req.Body,
		CreatedBy:        admin.ID,
		CreatedAt:        time.Now(),
	}

	_, err := h.db.Exec(`
		INSERT INTO announcement (id, feature_request_id, title, body, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, announcement.ID, announcement.FeatureRequestID, announcement.Title,
		announcement.Body, announcement.CreatedBy, announcement.CreatedAt)
	if err != nil {
		slog.Error("failed to insert announcement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create announcement")
		return
	}

	slog.Info("announcement created", "announcement_id", announcement.ID, "actor", admin.ID)

	middleware.JSONResponse(w, http.StatusCreated, announcement)
}

// UpdateAnnouncement handles PUT /api/admin/announcements/{id}
func (h *AnalyticsHandler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcementID := r.PathValue("id")
	if announcementID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}

	var req models.CreateAnnouncementRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" || req.Body == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title and body are required")
		return
	}

	var linkedRequest *string
	if req.FeatureRequestID != "" {
		var exists bool
		err := h.db.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM feature_request WHERE id = $1)
		`, req.FeatureRequestID).Scan(&exists)
		if err != nil {
			slog.Error("failed to check feature request", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusBadRequest, "unknown feature_request_id")
			return
		}
		linkedRequest = &req.FeatureRequestID
	}

	result, err := h.db.Exec(`
		UPDATE announcement
		SET feature_request_id = $1, title = $2, body = $3
		WHERE id = $4
	`, linkedRequest, req.Title, req.Body, announcementID)
	if err != nil {
		slog.Error("failed to update announcement", "error", err, "announcement_id", announcementID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update announcement")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Announcement not found")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, admin.Email, "announcement.update",
		"announcement/"+announcementID, models.SeverityInfo, req.Title)

	var a models.Announcement
	err = h.db.QueryRow(`
		SELECT id, feature_request_id, title, body, created_by, created_at
		FROM announcement WHERE id = $1
	`, announcementID).Scan(&a.ID, &a.FeatureRequestID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		slog.Error("failed to read announcement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("announcement updated", "announcement_id", announcementID, "actor", admin.ID)

	middleware.JSONResponse(w, http.StatusOK, a)
}

// ListAnnouncements handles GET /api/admin/announcements
func (h *AnalyticsHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, feature_request_id, title, body, created_by, created_at
		FROM announcement
		ORDER BY created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query announcements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	announcements := []models.Announcement{}
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.FeatureRequestID, &a.Title, &a.Body, &a.CreatedBy, &a.CreatedAt); err != nil {
			slog.Error("failed to scan announcement", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		announcements = append(announcements, a)
	}

	middleware.JSONResponse(w, http.StatusOK, announcements)
}
