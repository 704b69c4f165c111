// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jhar900/EventProsNZ-sub006/auth"
	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/db"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
// A single connection keeps the :memory: database alive for the whole
// test.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3440,
		DatabaseURL:     ":memory:",
		DatabaseType:    "sqlite",
		AdminKeySalt:    "test-admin-salt",
		ProfileSlugSalt: "test-slug-salt",
	}
}

// CreateTestUser inserts a user plus a session and returns the user ID
// and session token. role is "member" or "admin".
func CreateTestUser(t *testing.T, conn *sql.DB, role, tier string) (userID, token string) {
	t.Helper()

	userID = uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO app_user (id, email, name, role, tier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, userID+"@test.example", "Test User", role, tier, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	token, err = auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate session token: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO session (token, user_id, created_at)
		VALUES ($1, $2, $3)
	`, token, userID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return userID, token
}

// CreateTestCategory inserts a category and returns its ID
func CreateTestCategory(t *testing.T, conn *sql.DB, name, slug string) string {
	t.Helper()

	categoryID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO category (id, name, slug) VALUES ($1, $2, $3)
	`, categoryID, name, slug)
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	return categoryID
}

// CreateTestRequest inserts a feature request and returns its ID
func CreateTestRequest(t *testing.T, conn *sql.DB, userID, title, status string) string {
	t.Helper()

	requestID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO feature_request (id, user_id, title, description, status, priority, effort_estimate, created_at)
		VALUES ($1, $2, $3, '', $4, 'medium', 50, $5)
	`, requestID, userID, title, status, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test feature request: %v", err)
	}

	return requestID
}

// CastTestVote inserts a vote row directly
func CastTestVote(t *testing.T, conn *sql.DB, requestID, userID, voteType string) {
	t.Helper()

	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO vote (feature_request_id, user_id, vote_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, requestID, userID, voteType, now, now)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// CreateTestTemplate inserts an email template and returns its ID
func CreateTestTemplate(t *testing.T, conn *sql.DB, name, subject, body string, variables []string) string {
	t.Helper()

	templateID := uuid.NewString()
	variablesJSON, _ := json.Marshal(variables)
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO email_template (id, name, subject, body, variables, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, templateID, name, subject, body, string(variablesJSON), now, now)
	if err != nil {
		t.Fatalf("Failed to create test template: %v", err)
	}

	return templateID
}

// CountVotes returns the active upvote count for a request
func CountVotes(t *testing.T, conn *sql.DB, requestID string) int {
	t.Helper()

	var count int
	err := conn.QueryRow(`
		SELECT COUNT(*) FROM vote
		WHERE feature_request_id = $1 AND vote_type = $2
	`, requestID, models.VoteUpvote).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return count
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
