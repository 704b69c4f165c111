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

func TestAnalytics(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewAnalyticsHandler(conn, cfg)

	authorID, _ := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierEssential)
	voterID, _ := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierEssential)
	_, memberToken := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierEssential)
	_, adminToken := testutil.CreateTestUser(t, conn, models.RoleAdmin, models.TierSpotlight)

	popular := testutil.CreateTestRequest(t, conn, authorID, "Popular", models.StatusSubmitted)
	testutil.CreateTestRequest(t, conn, authorID, "Quiet", models.StatusCompleted)
	testutil.CastTestVote(t, conn, popular, authorID, models.VoteUpvote)
	testutil.CastTestVote(t, conn, popular, voterID, models.VoteUpvote)

	t.Run("member forbidden", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/admin/feature-requests/analytics", nil,
			map[string]string{"X-Session-Token": memberToken})
		w := httptest.NewRecorder()
		handler.Analytics(w, req)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("aggregates", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/admin/feature-requests/analytics", nil,
			map[string]string{"X-Session-Token": adminToken})
		w := httptest.NewRecorder()
		handler.Analytics(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.AnalyticsResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.TotalRequests != 2 || resp.TotalVotes != 2 {
			t.Errorf("Expected 2 requests / 2 votes, got %d / %d",
				resp.TotalRequests, resp.TotalVotes)
		}

		// Every status appears, in roadmap column order, zeros included
		if len(resp.ByStatus) != len(models.AllStatuses) {
			t.Fatalf("Expected %d status rows, got %d", len(models.AllStatuses), len(resp.ByStatus))
		}
		for i, sc := range resp.ByStatus {
			if sc.Status != models.AllStatuses[i] {
				t.Errorf("Status row %d out of order: %s", i, sc.Status)
			}
		}
		if resp.ByStatus[0].Count != 1 {
			t.Errorf("Expected 1 submitted request, got %d", resp.ByStatus[0].Count)
		}

		if len(resp.TopRequests) != 2 || resp.TopRequests[0].RequestID != popular {
			t.Fatalf("Expected popular request first, got %+v", resp.TopRequests)
		}
		if resp.TopRequests[0].Votes != 2 || resp.TopRequests[0].VotesText != "2" {
			t.Errorf("Unexpected top request votes: %+v", resp.TopRequests[0])
		}
		if resp.TopRequests[0].Age == "" {
			t.Error("Expected a humanized age")
		}
	})
}

func TestAnnouncements(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewAnalyticsHandler(conn, cfg)

	authorID, _ := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierEssential)
	_, adminToken := testutil.CreateTestUser(t, conn, models.RoleAdmin, models.TierSpotlight)
	requestID := testutil.CreateTestRequest(t, conn, authorID, "Dark mode", models.StatusCompleted)

	t.Run("missing fields rejected", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/admin/announcements",
			models.CreateAnnouncementRequest{Title: "No body"},
			map[string]string{"X-Session-Token": adminToken})
		w := httptest.NewRecorder()
		handler.CreateAnnouncement(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown linked request rejected", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/admin/announcements",
			models.CreateAnnouncementRequest{
				Title: "Shipped", Body: "It is out", FeatureRequestID: "missing",
			},
			map[string]string{"X-Session-Token": adminToken})
		w := httptest.NewRecorder()
		handler.CreateAnnouncement(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("create and list", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/admin/announcements",
			models.CreateAnnouncementRequest{
				Title: "Dark mode shipped", Body: "Now in settings", FeatureRequestID: requestID,
			},
			map[string]string{"X-Session-Token": adminToken})
		w := httptest.NewRecorder()
		handler.CreateAnnouncement(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var created models.Announcement
		testutil.AssertJSON(t, w, &created)
		if created.FeatureRequestID == nil || *created.FeatureRequestID != requestID {
			t.Errorf("Expected linked request %s, got %v", requestID, created.FeatureRequestID)
		}

		list := testutil.MakeRequest("GET", "/api/admin/announcements", nil,
			map[string]string{"X-Session-Token": adminToken})
		w = httptest.NewRecorder()
		handler.ListAnnouncements(w, list)
		testutil.AssertStatus(t, w, http.StatusOK)

		var announcements []models.Announcement
		testutil.AssertJSON(t, w, &announcements)
		if len(announcements) != 1 || announcements[0].Title != "Dark mode shipped" {
			t.Errorf("Expected the created announcement, got %+v", announcements)
		}
	})
}

func TestUpdateAnnouncement(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewAnalyticsHandler(conn, cfg)

	authorID, _ := testutil.CreateTestUser(t, conn, models.RoleMember, models.TierEssential)
	_, adminToken := testutil.CreateTestUser(t, conn, models.RoleAdmin, models.TierSpotlight)
	requestID := testutil.CreateTestRequest(t, conn, authorID, "Dark mode", models.StatusCompleted)

	create := testutil.MakeRequest("POST", "/api/admin/announcements",
		models.CreateAnnouncementRequest{Title: "Shipping soon", Body: "Almost there"},
		map[string]string{"X-Session-Token": adminToken})
	w := httptest.NewRecorder()
	handler.CreateAnnouncement(w, create)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.Announcement
	testutil.AssertJSON(t, w, &created)

	update := func(id string, body models.CreateAnnouncementRequest) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PUT", "/api/admin/announcements/"+id, body,
			map[string]string{"X-Session-Token": adminToken})
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.UpdateAnnouncement(w, req)
		return w
	}

	t.Run("missing fields rejected", func(t *testing.T) {
		w := update(created.ID, models.CreateAnnouncementRequest{Title: "No body"})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown announcement", func(t *testing.T) {
		w := update("missing", models.CreateAnnouncementRequest{Title: "T", Body: "B"})
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("edit and link request", func(t *testing.T) {
		w := update(created.ID, models.CreateAnnouncementRequest{
			Title: "Dark mode shipped", Body: "Now in settings", FeatureRequestID: requestID,
		})
		testutil.AssertStatus(t, w, http.StatusOK)

		var updated models.Announcement
		testutil.AssertJSON(t, w, &updated)
		if updated.Title != "Dark mode shipped" {
			t.Errorf("Expected updated title, got %q", updated.Title)
		}
		if updated.FeatureRequestID == nil || *updated.FeatureRequestID != requestID {
			t.Errorf("Expected linked request %s, got %v", requestID, updated.FeatureRequestID)
		}
		if updated.CreatedBy != created.CreatedBy {
			t.Errorf("Update must not change created_by, got %q", updated.CreatedBy)
		}

		var actor string
		err := conn.QueryRow(`
			SELECT actor FROM audit_event WHERE action = 'announcement.update'
		`).Scan(&actor)
		if err != nil {
			t.Fatalf("Expected an audit event for the update: %v", err)
		}
	})

	t.Run("unknown linked request rejected", func(t *testing.T) {
		w := update(created.ID, models.CreateAnnouncementRequest{
			Title: "T", Body: "B", FeatureRequestID: "missing",
		})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
