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

// TestFullFeatureRequestWorkflow tests the complete end-to-end workflow:
// 1. Member submits a feature request
// 2. Two members vote it up
// 3. One member removes their vote
// 4. Verify the vote counts
// 5. Admin moves it through the roadmap
// 6. Admin previews and saves a priority score
// 7. Admin announces completion
// 8. Member records satisfaction
func TestFullFeatureRequestWorkflow(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	requestHandler := NewRequestHandler(conn, cfg)
	voteHandler := NewVoteHandler(conn, cfg)
	roadmapHandler := NewRoadmapHandler(conn, cfg)
	priorityHandler := NewPriorityHandler(conn, cfg)
	analyticsHandler := NewAnalyticsHandler(conn, cfg)
	satisfactionHandler := NewSatisfactionHandler(conn, cfg)

	_, authorToken := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierShowcase)
	_, voterToken := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierEssential)
	_, adminToken := testutil.CreateTestUser(t, conn, models.RoleAdmin, models.TierSpotlight)
	categoryID := testutil.CreateTestCategory(t, conn, "Bookings", "bookings")

	// Step 1: Member submits a feature request
	req := testutil.MakeRequest("POST", "/api/feature-requests",
		models.CreateFeatureRequestRequest{
			Title:       "Calendar sync for vendor availability",
			Description: "Sync booked dates to external calendars",
			CategoryID:  categoryID,
			Priority:    models.PriorityHigh,
		},
		map[string]string{"X-Session-Token": authorToken})
	w := httptest.NewRecorder()
	requestHandler.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create request failed: %d - %s", w.Code, w.Body.String())
	}

	var createResp models.CreateFeatureRequestResponse
	testutil.AssertJSON(t, w, &createResp)
	requestID := createResp.RequestID
	if requestID == "" {
		t.Fatal("Step 1 - Missing request_id")
	}
	t.Logf("Step 1 - Created feature request: %s", requestID)

	toggle := func(token string) models.VoteResponse {
		req := testutil.MakeRequest("POST", "/api/feature-requests/"+requestID+"/vote", nil,
			map[string]string{"X-Session-Token": token})
		req.SetPathValue("id", requestID)
		w := httptest.NewRecorder()
		voteHandler.Toggle(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Vote toggle failed: %d - %s", w.Code, w.Body.String())
		}
		var resp models.VoteResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	// Step 2: Two members vote it up
	toggle(authorToken)
	resp := toggle(voterToken)
	if resp.Counts.Total != 2 {
		t.Fatalf("Step 2 - Expected total 2, got %d", resp.Counts.Total)
	}
	t.Logf("Step 2 - 2 votes recorded")

	// Step 3: One member removes their vote
	resp = toggle(voterToken)
	if resp.Counts.Total != 1 || resp.Counts.UserVote != nil {
		t.Fatalf("Step 3 - Expected total 1 with no user vote, got %+v", resp.Counts)
	}
	t.Logf("Step 3 - Vote removed")

	// Step 4: The counts endpoint agrees
	req = testutil.MakeRequest("GET", "/api/feature-requests/"+requestID+"/votes", nil,
		map[string]string{"X-Session-Token": authorToken})
	req.SetPathValue("id", requestID)
	w = httptest.NewRecorder()
	voteHandler.Counts(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 4 - Counts failed: %d - %s", w.Code, w.Body.String())
	}
	var counts models.VoteCounts
	testutil.AssertJSON(t, w, &counts)
	if counts.Upvotes != 1 || counts.Total != 1 {
		t.Fatalf("Step 4 - Expected 1 active vote, got %+v", counts)
	}
	if counts.UserVote == nil || *counts.UserVote != models.VoteUpvote {
		t.Fatalf("Step 4 - Author should still have an active vote: %+v", counts)
	}

	// Step 5: Admin moves it through the roadmap
	for _, status := range []string{models.StatusUnderReview, models.StatusPlanned, models.StatusCompleted} {
		req := testutil.MakeRequest("PUT", "/api/admin/feature-requests/"+requestID+"/status",
			models.UpdateStatusRequest{Status: status},
			map[string]string{"X-Session-Token": adminToken})
		req.SetPathValue("id", requestID)
		w := httptest.NewRecorder()
		roadmapHandler.UpdateStatus(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Step 5 - Move to %s failed: %d - %s", status, w.Code, w.Body.String())
		}
	}

	req = testutil.MakeRequest("GET", "/api/admin/feature-requests/roadmap", nil,
		map[string]string{"X-Session-Token": adminToken})
	w = httptest.NewRecorder()
	roadmapHandler.Roadmap(w, req)
	var roadmap models.RoadmapResponse
	testutil.AssertJSON(t, w, &roadmap)
	if len(roadmap.Columns[models.StatusCompleted]) != 1 {
		t.Fatalf("Step 5 - Request should be in the completed column")
	}

	// Full transition history was kept
	var changes int
	if err := conn.QueryRow(`
		SELECT COUNT(*) FROM status_change WHERE feature_request_id = $1
	`, requestID).Scan(&changes); err != nil {
		t.Fatalf("Step 5 - Failed to count status changes: %v", err)
	}
	if changes != 3 {
		t.Errorf("Step 5 - Expected 3 status changes, got %d", changes)
	}
	t.Logf("Step 5 - Moved through the roadmap")

	// Step 6: Admin previews and saves a priority score
	req = testutil.MakeRequest("POST", "/api/admin/feature-requests/priority/preview",
		models.PriorityPreviewRequest{},
		map[string]string{"X-Session-Token": adminToken})
	w = httptest.NewRecorder()
	priorityHandler.Preview(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Preview failed: %d - %s", w.Code, w.Body.String())
	}
	var preview models.PriorityPreviewResponse
	testutil.AssertJSON(t, w, &preview)
	if len(preview.Ranked) != 1 || preview.Ranked[0].PriorityScore <= 0 {
		t.Fatalf("Step 6 - Expected a positive ranked score, got %+v", preview.Ranked)
	}

	req = testutil.MakeRequest("PUT", "/api/admin/feature-requests/"+requestID+"/priority",
		models.SavePriorityRequest{PriorityScore: preview.Ranked[0].PriorityScore},
		map[string]string{"X-Session-Token": adminToken})
	req.SetPathValue("id", requestID)
	w = httptest.NewRecorder()
	priorityHandler.SavePriority(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Save priority failed: %d - %s", w.Code, w.Body.String())
	}
	t.Logf("Step 6 - Priority score %.1f saved", preview.Ranked[0].PriorityScore)

	// Step 7: Admin announces completion
	req = testutil.MakeRequest("POST", "/api/admin/announcements",
		models.CreateAnnouncementRequest{
			FeatureRequestID: requestID,
			Title:            "Calendar sync is live",
			Body:             "Vendor availability now syncs to external calendars.",
		},
		map[string]string{"X-Session-Token": adminToken})
	w = httptest.NewRecorder()
	analyticsHandler.CreateAnnouncement(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 7 - Announcement failed: %d - %s", w.Code, w.Body.String())
	}
	t.Logf("Step 7 - Announcement published")

	// Step 8: Member records satisfaction
	req = testutil.MakeRequest("POST", "/api/satisfaction",
		models.SubmitSatisfactionRequest{Score: 5, Comment: "Exactly what we asked for"},
		map[string]string{"X-Session-Token": authorToken})
	w = httptest.NewRecorder()
	satisfactionHandler.Submit(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 8 - Satisfaction failed: %d - %s", w.Code, w.Body.String())
	}

	req = testutil.MakeRequest("GET", "/api/admin/satisfaction/report", nil,
		map[string]string{"X-Session-Token": adminToken})
	w = httptest.NewRecorder()
	satisfactionHandler.Report(w, req)
	var report models.SatisfactionReportResponse
	testutil.AssertJSON(t, w, &report)
	if report.Responses != 1 || report.AverageScore != 5 {
		t.Errorf("Step 8 - Unexpected report: %+v", report)
	}

	t.Log("Integration test completed successfully!")
}

// TestAdminSurfaceRequiresAdmin verifies the admin endpoints refuse
// member sessions across the board.
func TestAdminSurfaceRequiresAdmin(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	_, memberToken := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierEssential)

	roadmapHandler := NewRoadmapHandler(conn, cfg)
	analyticsHandler := NewAnalyticsHandler(conn, cfg)
	templateHandler := NewTemplateHandler(conn, cfg)
	securityHandler := NewSecurityHandler(conn, cfg)
	satisfactionHandler := NewSatisfactionHandler(conn, cfg)

	endpoints := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		path    string
	}{
		{"roadmap", roadmapHandler.Roadmap, "GET", "/api/admin/feature-requests/roadmap"},
		{"bulk status", roadmapHandler.BulkUpdateStatus, "POST", "/api/admin/feature-requests/bulk"},
		{"analytics", analyticsHandler.Analytics, "GET", "/api/admin/feature-requests/analytics"},
		{"announcements", analyticsHandler.ListAnnouncements, "GET", "/api/admin/announcements"},
		{"templates", templateHandler.List, "GET", "/api/admin/email-templates"},
		{"security status", securityHandler.Status, "GET", "/api/security/status"},
		{"audit log", securityHandler.ListAudit, "GET", "/api/security/audit"},
		{"satisfaction report", satisfactionHandler.Report, "GET", "/api/admin/satisfaction/report"},
	}

	for _, ep := range endpoints {
		t.Run(ep.name, func(t *testing.T) {
			req := testutil.MakeRequest(ep.method, ep.path, nil,
				map[string]string{"X-Session-Token": memberToken})
			w := httptest.NewRecorder()
			ep.handler(w, req)
			testutil.AssertStatus(t, w, http.StatusForbidden)
		})
	}
}

// TestAnonymousBrowsing verifies the public read surface works with no
// session at all.
func TestAnonymousBrowsing(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	requestHandler := NewRequestHandler(conn, cfg)
	voteHandler := NewVoteHandler(conn, cfg)

	authorID, _ := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierEssential)
	requestID := testutil.CreateTestRequest(t, conn, authorID, "Public idea", models.StatusSubmitted)
	testutil.CastTestVote(t, conn, requestID, authorID, models.VoteUpvote)

	t.Run("list", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/feature-requests", nil, nil)
		w := httptest.NewRecorder()
		requestHandler.List(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var requests []models.FeatureRequest
		testutil.AssertJSON(t, w, &requests)
		if len(requests) != 1 || requests[0].Votes != 1 {
			t.Errorf("Expected 1 request with 1 vote, got %+v", requests)
		}
		if requests[0].UserVote != nil {
			t.Error("Anonymous listing must not carry a user vote")
		}
	})

	t.Run("counts", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/feature-requests/"+requestID+"/votes", nil, nil)
		req.SetPathValue("id", requestID)
		w := httptest.NewRecorder()
		voteHandler.Counts(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var counts models.VoteCounts
		testutil.AssertJSON(t, w, &counts)
		if counts.Upvotes != 1 || counts.UserVote != nil {
			t.Errorf("Expected 1 anonymous-visible vote, got %+v", counts)
		}
	})
}
