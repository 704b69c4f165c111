// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/middleware"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

type VoteHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg}
}

// Toggle handles POST /api/feature-requests/:id/vote
// First vote inserts an 'upvote' row; a repeat click flips it to 'none'.
// The row itself is never deleted, so (request, user) stays unique and
// vote history survives toggling.
// The response carries the canonical counts so clients can reconcile
// their optimistic state in one round trip.
func (h *VoteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	if requestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	user := requireUser(h.db, w, r)
	if user == nil {
		return
	}

	// Feature request must exist
	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM feature_request WHERE id = $1)
	`, requestID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check feature request", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Feature request not found")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRow(`
		SELECT vote_type FROM vote
		WHERE feature_request_id = $1 AND user_id = $2
	`, requestID, user.ID).Scan(&current)

	now := time.Now()
	var next string
	var message string

	switch {
	case err == sql.ErrNoRows:
		vote := models.Vote{
			FeatureRequestID: requestID,
			UserID:           user.ID,
			VoteType:         models.VoteUpvote,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		next = vote.VoteType
		message = "Vote recorded"
		_, err = tx.Exec(`
			INSERT INTO vote (feature_request_id, user_id, vote_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, vote.FeatureRequestID, vote.UserID, vote.VoteType, vote.CreatedAt, vote.UpdatedAt)
	case err != nil:
		slog.Error("failed to query vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	case current == models.VoteUpvote:
		next = models.VoteNone
		message = "Vote removed"
		_, err = tx.Exec(`
			UPDATE vote SET vote_type = $1, updated_at = $2
			WHERE feature_request_id = $3 AND user_id = $4
		`, next, now, requestID, user.ID)
	default:
		next = models.VoteUpvote
		message = "Vote recorded"
		_, err = tx.Exec(`
			UPDATE vote SET vote_type = $1, updated_at = $2
			WHERE feature_request_id = $3 AND user_id = $4
		`, next, now, requestID, user.ID)
	}

	if err != nil {
		// Two first-votes can race past the ErrNoRows read; the loser's
		// insert trips the (feature_request_id, user_id) primary key.
		if isDuplicateVote(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Vote already recorded")
			return
		}
		slog.Error("failed to write vote", "error", err, "request_id", requestID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	counts, err := voteCounts(h.db, requestID, user.ID)
	if err != nil {
		slog.Error("failed to compute vote counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("vote toggled", "request_id", requestID, "user_id", user.ID, "vote_type", next)

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		RequestID: requestID,
		Counts:    counts,
		Message:   message,
	})
}

// Counts handles GET /api/feature-requests/:id/votes
// This is the reconciliation fetch: the authoritative aggregate that
// clients overwrite their optimistic guess with.
func (h *VoteHandler) Counts(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("id")
	if requestID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM feature_request WHERE id = $1)
	`, requestID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check feature request", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Feature request not found")
		return
	}

	// Session is optional here; anonymous callers just get user_vote=null
	userID := ""
	if user, err := currentUser(h.db, r); err == nil {
		userID = user.ID
	}

	counts, err := voteCounts(h.db, requestID, userID)
	if err != nil {
		slog.Error("failed to compute vote counts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, counts)
}

// isDuplicateVote reports whether err is a vote insert failing on the
// (feature_request_id, user_id) primary key. Neither driver exposes a
// typed error for this, so match the message text.
func isDuplicateVote(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed: vote.feature_request_id, vote.user_id") ||
		strings.Contains(msg, `duplicate key value violates unique constraint "vote_pkey"`)
}

// voteCounts computes the canonical aggregate for a feature request.
// Downvotes do not exist in this product, so the field is always zero
// and total equals the active upvote count; the invariant clients rely
// on is total = upvotes - downvotes.
func voteCounts(db *sql.DB, requestID, userID string) (models.VoteCounts, error) {
	var counts models.VoteCounts

	err := db.QueryRow(`
		SELECT COALESCE(SUM(CASE WHEN vote_type = 'upvote' THEN 1 ELSE 0 END), 0)
		FROM vote
		WHERE feature_request_id = $1
	`, requestID).Scan(&counts.Upvotes)
	if err != nil {
		return counts, err
	}

	counts.Downvotes = 0
	counts.Total = counts.Upvotes - counts.Downvotes

	if userID != "" {
		var voteType string
		err := db.QueryRow(`
			SELECT vote_type FROM vote
			WHERE feature_request_id = $1 AND user_id = $2
		`, requestID, userID).Scan(&voteType)
		if err != nil && err != sql.ErrNoRows {
			return counts, err
		}
		if err == nil && voteType == models.VoteUpvote {
			counts.UserVote = &voteType
		}
	}

	return counts, nil
}
