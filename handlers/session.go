// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jhar900/EventProsNZ-sub006/middleware"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

var ErrNoSession = errors.New("no session")

// currentUser resolves the X-Session-Token header to a user.
// Returns ErrNoSession when the header is absent or unknown.
func currentUser(db *sql.DB, r *http.Request) (*models.User, error) {
	token := r.Header.Get("X-Session-Token")
	if token == "" {
		return nil, ErrNoSession
	}

	var u models.User
	err := db.QueryRow(`
		SELECT u.id, u.email, u.name, u.role, u.tier, u.created_at
		FROM session s
		JOIN app_user u ON u.id = s.user_id
		WHERE s.token = $1
	`, token).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Tier, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// requireUser resolves the session or writes the error response.
// Returns nil when the caller should stop.
func requireUser(db *sql.DB, w http.ResponseWriter, r *http.Request) *models.User {
	user, err := currentUser(db, r)
	if err == ErrNoSession {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in required")
		return nil
	}
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil
	}
	return user
}

// requireAdmin is requireUser plus an admin role check.
func requireAdmin(db *sql.DB, w http.ResponseWriter, r *http.Request) *models.User {
	user := requireUser(db, w, r)
	if user == nil {
		return nil
	}
	if user.Role != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin role required")
		return nil
	}
	return user
}
