// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jhar900/EventProsNZ-sub006/models"
	"github.com/jhar900/EventProsNZ-sub006/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "eventpros API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	// Test that routes respond (handler is invoked)
	// Note: Most routes return auth errors without a session, which is valid handler behavior
	testCases := []struct {
		method string
		path   string
	}{
		// Health and root
		{"GET", "/health"},
		{"GET", "/"},

		// Feature requests
		{"GET", "/api/feature-requests"},
		{"POST", "/api/feature-requests"},
		{"GET", "/api/feature-requests/categories"},
		{"GET", "/api/feature-requests/test-id"},
		{"POST", "/api/feature-requests/test-id/vote"},
		{"GET", "/api/feature-requests/test-id/votes"},

		// Admin surface
		{"GET", "/api/admin/feature-requests/analytics"},
		{"GET", "/api/admin/feature-requests/roadmap"},
		{"PUT", "/api/admin/feature-requests/test-id/status"},
		{"PUT", "/api/admin/feature-requests/test-id/priority"},
		{"POST", "/api/admin/feature-requests/priority/preview"},
		{"POST", "/api/admin/feature-requests/bulk"},
		{"GET", "/api/admin/announcements"},
		{"POST", "/api/admin/announcements"},
		{"PUT", "/api/admin/announcements/test-id"},

		// Email templates
		{"GET", "/api/admin/email-templates"},
		{"POST", "/api/admin/email-templates"},
		{"GET", "/api/admin/email-templates/test-id"},
		{"PUT", "/api/admin/email-templates/test-id"},
		{"DELETE", "/api/admin/email-templates/test-id"},

		// User administration
		{"GET", "/api/admin/users/test-id"},
		{"PUT", "/api/admin/users/test-id"},
		{"GET", "/api/admin/users/test-id/profile"},
		{"GET", "/api/admin/users/test-id/business-profile"},
		{"GET", "/api/admin/users/test-id/settings"},

		// Feature gates, security, satisfaction
		{"GET", "/api/features/analytics"},
		{"GET", "/api/security/status"},
		{"GET", "/api/security/audit"},
		{"POST", "/api/security/audit"},
		{"POST", "/api/security/scan"},
		{"GET", "/api/security/incidents"},
		{"POST", "/api/security/incidents"},
		{"POST", "/api/satisfaction"},
		{"GET", "/api/admin/satisfaction/report"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	// Test that unsupported methods on defined routes return 405
	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"}, // Only GET is defined
		{"DELETE", "/api/admin/users/test-id"}, // Only GET and PUT are defined
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()

	authorID, _ := testutil.CreateTestUser(t, db, models.RoleMember, models.TierEssential)
	requestID := testutil.CreateTestRequest(t, db, authorID, "Routed", models.StatusSubmitted)

	mux := NewRouter(db, cfg)

	// Test that {id} parameter extracts correctly
	t.Run("feature request ID extraction", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/feature-requests/"+requestID, nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for existing request, got %d. Body: %s", w.Code, w.Body.String())
		}
	})
}
