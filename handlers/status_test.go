// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jhar900/EventProsNZ-sub006/models"
	"github.com/jhar900/EventProsNZ-sub006/testutil"
)

func TestUpdateStatus(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewRoadmapHandler(conn, cfg)

	authorID, memberToken := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierEssential)
	_, adminToken := testutil.CreateTestUser(t, conn, models.RoleAdmin, models.TierSpotlight)
	requestID := testutil.CreateTestRequest(t, conn, authorID, "Move me", models.StatusSubmitted)

	update := func(id, status, token string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PUT", "/api/admin/feature-requests/"+id+"/status",
			models.UpdateStatusRequest{Status: status},
			map[string]string{"X-Session-Token": token})
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.UpdateStatus(w, req)
		return w
	}

	t.Run("member forbidden", func(t *testing.T) {
		w := update(requestID, models.StatusPlanned, memberToken)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("invalid status", func(t *testing.T) {
		w := update(requestID, "someday", adminToken)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown request", func(t *testing.T) {
		w := update("missing", models.StatusPlanned, adminToken)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("valid transition", func(t *testing.T) {
		w := update(requestID, models.StatusInDevelopment, adminToken)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.UpdateStatusResponse
		testutil.AssertJSON(t, w, &resp)
		if !resp.Changed || resp.Status != models.StatusInDevelopment {
			t.Errorf("Expected changed transition, got %+v", resp)
		}

		var status string
		if err := conn.QueryRow(`
			SELECT status FROM feature_request WHERE id = $1
		`, requestID).Scan(&status); err != nil {
			t.Fatalf("Failed to query status: %v", err)
		}
		if status != models.StatusInDevelopment {
			t.Errorf("Expected persisted status in_development, got %s", status)
		}

		// Transition history is recorded
		var changes int
		if err := conn.QueryRow(`
			SELECT COUNT(*) FROM status_change WHERE feature_request_id = $1
		`, requestID).Scan(&changes); err != nil {
			t.Fatalf("Failed to count status changes: %v", err)
		}
		if changes != 1 {
			t.Errorf("Expected 1 status_change row, got %d", changes)
		}
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		w := update(requestID, models.StatusInDevelopment, adminToken)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.UpdateStatusResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Changed {
			t.Error("Same-status update must report changed=false")
		}

		// No extra history row for the no-op
		var changes int
		if err := conn.QueryRow(`
			SELECT COUNT(*) FROM status_change WHERE feature_request_id = $1
		`, requestID).Scan(&changes); err != nil {
			t.Fatalf("Failed to count status changes: %v", err)
		}
		if changes != 1 {
			t.Errorf("No-op must not write history, got %d rows", changes)
		}
	})
}

func TestRoadmap(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewRoadmapHandler(conn, cfg)

	authorID, _ := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierEssential)
	_, adminToken := testutil.CreateTestUser(t, conn, models.RoleAdmin, models.TierSpotlight)

	testutil.CreateTestRequest(t, conn, authorID, "One", models.StatusSubmitted)
	testutil.CreateTestRequest(t, conn, authorID, "Two", models.StatusSubmitted)
	testutil.CreateTestRequest(t, conn, authorID, "Three", models.StatusCompleted)

	req := testutil.MakeRequest("GET", "/api/admin/feature-requests/roadmap", nil, map[string]string{
		"X-Session-Token": adminToken,
	})
	w := httptest.NewRecorder()
	handler.Roadmap(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.RoadmapResponse
	testutil.AssertJSON(t, w, &resp)

	// Every status column must be present, empty ones included
	if len(resp.Columns) != len(models.AllStatuses) {
		t.Fatalf("Expected %d columns, got %d", len(models.AllStatuses), len(resp.Columns))
	}
	for _, status := range models.AllStatuses {
		if _, ok := resp.Columns[status]; !ok {
			t.Errorf("Missing column %s", status)
		}
	}

	if len(resp.Columns[models.StatusSubmitted]) != 2 {
		t.Errorf("Expected 2 submitted cards, got %d", len(resp.Columns[models.StatusSubmitted]))
	}
	if len(resp.Columns[models.StatusCompleted]) != 1 {
		t.Errorf("Expected 1 completed card, got %d", len(resp.Columns[models.StatusCompleted]))
	}
	if len(resp.Columns[models.StatusRejected]) != 0 {
		t.Errorf("Expected empty rejected column, got %d", len(resp.Columns[models.StatusRejected]))
	}
}

func TestBulkUpdateStatus(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewRoadmapHandler(conn, cfg)

	authorID, _ := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierEssential)
	_, adminToken := testutil.CreateTestUser(t, conn, models.RoleAdmin, models.TierSpotlight)

	first := testutil.CreateTestRequest(t, conn, authorID, "First", models.StatusSubmitted)
	second := testutil.CreateTestRequest(t, conn, authorID, "Second", models.StatusSubmitted)
	already := testutil.CreateTestRequest(t, conn, authorID, "Already", models.StatusUnderReview)

	req := testutil.MakeRequest("POST", "/api/admin/feature-requests/bulk",
		models.BulkStatusRequest{
			RequestIDs: []string{first, second, already, "missing"},
			Status:     models.StatusUnderReview,
		},
		map[string]string{"X-Session-Token": adminToken})
	w := httptest.NewRecorder()
	handler.BulkUpdateStatus(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.BulkStatusResponse
	testutil.AssertJSON(t, w, &resp)

	// The already-matching and missing IDs are skipped
	if resp.Updated != 2 {
		t.Errorf("Expected 2 updates, got %d", resp.Updated)
	}

	var count int
	if err := conn.QueryRow(`
		SELECT COUNT(*) FROM feature_request WHERE status = $1
	`, models.StatusUnderReview).Scan(&count); err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 under_review requests, got %d", count)
	}
}
