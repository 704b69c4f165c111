// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/middleware"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

// DefaultWeights are the initial slider positions in the admin UI.
// They sum to 100, but nothing enforces that for caller-supplied
// weights: each component is divided by 100 rather than by the weight
// sum, so scores leave the 0-100 scale when the sliders drift. That
// matches the shipped behavior and is deliberate.
var DefaultWeights = models.PriorityWeights{
	Impact:    25,
	Effort:    15,
	Urgency:   20,
	Community: 25,
	Business:  15,
}

// CalculatePriorityScores ranks requests by a weighted sum of five
// derived components:
//
//	impact    = min(100, engagement/10), engagement = 10 per active vote
//	effort    = max(10, 100 - effort_estimate)  (cheaper work scores higher)
//	urgency   = min(100, days_open * 2)
//	community = min(100, votes * 5)
//	business  = priority tier mapped to 25/50/75/100
//
// The result is sorted descending by score; equal scores keep their
// original input order. Input is not mutated.
func CalculatePriorityScores(requests []models.FeatureRequest, weights models.PriorityWeights, now time.Time) []models.RankedRequest {
	ranked := make([]models.RankedRequest, len(requests))
	for i, fr := range requests {
		engagement := float64(fr.Votes * 10)
		impact := min100(engagement / 10)

		effort := 100 - float64(fr.EffortEstimate)
		if effort < 10 {
			effort = 10
		}

		daysOpen := now.Sub(fr.CreatedAt).Hours() / 24
		if daysOpen < 0 {
			daysOpen = 0
		}
		urgency := min100(float64(int(daysOpen)) * 2)

		community := min100(float64(fr.Votes * 5))
		business := tierScore(fr.Priority)

		score := impact*weights.Impact/100 +
			effort*weights.Effort/100 +
			urgency*weights.Urgency/100 +
			community*weights.Community/100 +
			business*weights.Business/100

		ranked[i] = models.RankedRequest{FeatureRequest: fr, PriorityScore: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})

	return ranked
}

func min100(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}

// tierScore maps the priority tier to its business-value component
func tierScore(priority string) float64 {
	switch priority {
	case models.PriorityCritical:
		return 100
	case models.PriorityHigh:
		return 75
	case models.PriorityMedium:
		return 50
	case models.PriorityLow:
		return 25
	default:
		return 50
	}
}

type PriorityHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPriorityHandler(db *sql.DB, cfg cliparse.Config) *PriorityHandler {
	return &PriorityHandler{db: db, cfg: cfg}
}

// Preview handles POST /api/admin/feature-requests/priority/preview
// Computes the ranking for the supplied weights without persisting
// anything. All-zero weights fall back to the defaults so an empty
// body previews the out-of-the-box ranking.
func (h *PriorityHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	var req models.PriorityPreviewRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	weights := req.Weights
	if weights == (models.PriorityWeights{}) {
		weights = DefaultWeights
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
		ORDER BY fr.created_at
	`)
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

	ranked := CalculatePriorityScores(requests, weights, time.Now())

	middleware.JSONResponse(w, http.StatusOK, models.PriorityPreviewResponse{
		Weights: weights,
		Ranked:  ranked,
	})
}

// SavePriority handles PUT /api/admin/feature-requests/:id/priority
// Persisting a score is always an explicit admin action; previews
// never write.
func (h *PriorityHandler) SavePriority(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	if requestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}

	var req models.SavePriorityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PriorityScore < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "priority_score cannot be negative")
		return
	}

	result, err := h.db.Exec(`
		UPDATE feature_request SET saved_score = $1, updated_at = $2 WHERE id = $3
	`, req.PriorityScore, time.Now(), requestID)
	if err != nil {
		slog.Error("failed to save priority score", "error", err, "request_id", requestID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save priority score")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Feature request not found")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, admin.Email, "feature_request.priority",
		"feature_request/"+requestID, models.SeverityInfo, "")

	slog.Info("priority score saved", "request_id", requestID, "score", req.PriorityScore)

	middleware.JSONResponse(w, http.StatusOK, models.SavePriorityRequest{
		PriorityScore: req.PriorityScore,
	})
}
