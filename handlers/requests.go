// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/middleware"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

type RequestHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewRequestHandler(db *sql.DB, cfg cliparse.Config) *RequestHandler {
	return &RequestHandler{db: db, cfg: cfg}
}

// List handles GET /api/feature-requests
// Supports ?status=, ?category= and ?sort=votes|newest filters.
// Vote totals always come from the vote table, never a cached column.
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	conditions := []string{}
	args := []interface{}{}

	if status := q.Get("status"); status != "" {
		if !models.ValidStatus(status) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "unknown status: "+status)
			return
		}
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("fr.status = $%d", len(args)))
	}
	if category := q.Get("category"); category != "" {
		args = append(args, category)
		conditions = append(conditions, fmt.Sprintf("fr.category_id = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	order := "votes DESC, fr.created_at DESC"
	if q.Get("sort") == "newest" {
		order = "fr.created_at DESC"
	}

	rows, err := h.db.Query(`
		SELECT fr.id, fr.user_id, fr.category_id, fr.title, fr.description,
		       fr.status, fr.priority, fr.effort_estimate, fr.saved_score,
		       fr.created_at, fr.updated_at,
		       COALESCE(SUM(CASE WHEN v.vote_type = 'upvote' THEN 1 ELSE 0 END), 0) AS votes
		FROM feature_request fr
		LEFT JOIN vote v ON v.feature_request_id = fr.id
		`+where+`
		GROUP BY fr.id, fr.user_id, fr.category_id, fr.title, fr.description,
		         fr.status, fr.priority, fr.effort_estimate, fr.saved_score,
		         fr.created_at, fr.updated_at
		ORDER BY `+order, args...)
	if err != nil {
		slog.Error("failed to query feature requests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	requests := []models.FeatureRequest{}
	for rows.Next() {
		var fr models.FeatureRequest
		if err := rows.Scan(
			&fr.ID, &fr.UserID, &fr.CategoryID, &fr.Title, &fr.Description,
			&fr.Status, &fr.Priority, &fr.EffortEstimate, &fr.SavedScore,
			&fr.CreatedAt, &fr.UpdatedAt, &fr.Votes,
		); err != nil {
			slog.Error("failed to scan feature request", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		requests = append(requests, fr)
	}

	// Annotate the caller's own votes when a session is present.
	// Anonymous listing is allowed; user_vote stays null.
	if user, err := currentUser(h.db, r); err == nil {
		if err := attachUserVotes(h.db, requests, user.ID); err != nil {
			slog.Error("failed to attach user votes", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, requests)
}

// attachUserVotes fills FeatureRequest.UserVote for the given user.
func attachUserVotes(db *sql.DB, requests []models.FeatureRequest, userID string) error {
	rows, err := db.Query(`
		SELECT feature_request_id FROM vote
		WHERE user_id = $1 AND vote_type = 'upvote'
	`, userID)
	if err != nil {
		return err
	}
	defer rows.Close()

	voted := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		voted[id] = true
	}

	for i := range requests {
		if voted[requests[i].ID] {
			v := models.VoteUpvote
			requests[i].UserVote = &v
		}
	}
	return nil
}

// Create handles POST /api/feature-requests
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := requireUser(h.db, w, r)
	if user == nil {
		return
	}

	var req models.CreateFeatureRequestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Title) > 200 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title must be at most 200 characters")
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if priority != models.PriorityLow && priority != models.PriorityMedium &&
		priority != models.PriorityHigh && priority != models.PriorityCritical {
		middleware.ErrorResponse(w, http.StatusBadRequest, "priority must be one of: low, medium, high, critical")
		return
	}

	effort := req.EffortEstimate
	if effort == 0 {
		effort = 50
	}
	if effort < 0 || effort > 100 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "effort_estimate must be between 0 and 100")
		return
	}

	var categoryID *string
	if req.CategoryID != "" {
		var exists bool
		err := h.db.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM category WHERE id = $1)
		`, req.CategoryID).Scan(&exists)
		if err != nil {
			slog.Error("failed to check category", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusBadRequest, "unknown category")
			return
		}
		categoryID = &req.CategoryID
	}

	requestID := uuid.NewString()
	_, err := h.db.Exec(`
		INSERT INTO feature_request (id, user_id, category_id, title, description, status, priority, effort_estimate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, requestID, user.ID, categoryID, req.Title, req.Description,
		models.StatusSubmitted, priority, effort, time.Now())
	if err != nil {
		slog.Error("failed to insert feature request", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create feature request")
		return
	}

	slog.Info("feature request created", "request_id", requestID, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateFeatureRequestResponse{
		RequestID: requestID,
	})
}

// Get handles GET /api/feature-requests/:id
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	if requestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var fr models.FeatureRequest
	err := h.db.QueryRow(`
		SELECT fr.id, fr.user_id, fr.category_id, fr.title, fr.description,
		       fr.status, fr.priority, fr.effort_estimate, fr.saved_score,
		       fr.created_at, fr.updated_at,
		       COALESCE(SUM(CASE WHEN v.vote_type = 'upvote' THEN 1 ELSE 0 END), 0) AS votes
		FROM feature_request fr
		LEFT JOIN vote v ON v.feature_request_id = fr.id
		WHERE fr.id = $1
		GROUP BY fr.id, fr.user_id, fr.category_id, fr.title, fr.description,
		         fr.status, fr.priority, fr.effort_estimate, fr.saved_score,
		         fr.created_at, fr.updated_at
	`, requestID).Scan(
		&fr.ID, &fr.UserID, &fr.CategoryID, &fr.Title, &fr.Description,
		&fr.Status, &fr.Priority, &fr.EffortEstimate, &fr.SavedScore,
		&fr.CreatedAt, &fr.UpdatedAt, &fr.Votes,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Feature request not found")
		return
	}
	if err != nil {
		slog.Error("failed to query feature request", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if user, err := currentUser(h.db, r); err == nil {
		single := []models.FeatureRequest{fr}
		if err := attachUserVotes(h.db, single, user.ID); err != nil {
			slog.Error("failed to attach user vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		fr = single[0]
	}

	middleware.JSONResponse(w, http.StatusOK, fr)
}

// Categories handles GET /api/feature-requests/categories
func (h *RequestHandler) Categories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, slug FROM category ORDER BY name
	`)
	if err != nil {
		slog.Error("failed to query categories", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			slog.Error("failed to scan category", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		categories = append(categories, c)
	}

	middleware.JSONResponse(w, http.StatusOK, categories)
}
