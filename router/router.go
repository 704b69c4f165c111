// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/handlers"
	"github.com/jhar900/EventProsNZ-sub006/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	requestHandler := handlers.NewRequestHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	roadmapHandler := handlers.NewRoadmapHandler(db, cfg)
	priorityHandler := handlers.NewPriorityHandler(db, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)
	templateHandler := handlers.NewTemplateHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db, cfg)
	featureHandler := handlers.NewFeatureGateHandler(db, cfg)
	securityHandler := handlers.NewSecurityHandler(db, cfg)
	satisfactionHandler := handlers.NewSatisfactionHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Feature requests (public + signed-in)
	mux.HandleFunc("GET /api/feature-requests", middleware.WithLogging(requestHandler.List))
	mux.HandleFunc("POST /api/feature-requests", middleware.WithLogging(requestHandler.Create))
	mux.HandleFunc("GET /api/feature-requests/categories", middleware.WithLogging(requestHandler.Categories))
	mux.HandleFunc("GET /api/feature-requests/{id}", middleware.WithLogging(requestHandler.Get))
	mux.HandleFunc("POST /api/feature-requests/{id}/vote", middleware.WithLogging(voteHandler.Toggle))
	mux.HandleFunc("GET /api/feature-requests/{id}/votes", middleware.WithLogging(voteHandler.Counts))

	// Admin feature-request surface
	mux.HandleFunc("GET /api/admin/feature-requests/analytics", middleware.WithLogging(analyticsHandler.Analytics))
	mux.HandleFunc("GET /api/admin/feature-requests/roadmap", middleware.WithLogging(roadmapHandler.Roadmap))
	mux.HandleFunc("PUT /api/admin/feature-requests/{id}/status", middleware.WithLogging(roadmapHandler.UpdateStatus))
	mux.HandleFunc("PUT /api/admin/feature-requests/{id}/priority", middleware.WithLogging(priorityHandler.SavePriority))
	mux.HandleFunc("POST /api/admin/feature-requests/priority/preview", middleware.WithLogging(priorityHandler.Preview))
	mux.HandleFunc("POST /api/admin/feature-requests/bulk", middleware.WithLogging(roadmapHandler.BulkUpdateStatus))

	// Announcements
	mux.HandleFunc("GET /api/admin/announcements", middleware.WithLogging(analyticsHandler.ListAnnouncements))
	mux.HandleFunc("POST /api/admin/announcements", middleware.WithLogging(analyticsHandler.CreateAnnouncement))
	mux.HandleFunc("PUT /api/admin/announcements/{id}", middleware.WithLogging(analyticsHandler.UpdateAnnouncement))

	// Email templates
	mux.HandleFunc("GET /api/admin/email-templates", middleware.WithLogging(templateHandler.List))
	mux.HandleFunc("POST /api/admin/email-templates", middleware.WithLogging(templateHandler.Create))
	mux.HandleFunc("GET /api/admin/email-templates/{id}", middleware.WithLogging(templateHandler.Get))
	mux.HandleFunc("PUT /api/admin/email-templates/{id}", middleware.WithLogging(templateHandler.Update))
	mux.HandleFunc("DELETE /api/admin/email-templates/{id}", middleware.WithLogging(templateHandler.Delete))

	// User administration
	mux.HandleFunc("GET /api/admin/users/{id}", middleware.WithLogging(userHandler.Get))
	mux.HandleFunc("PUT /api/admin/users/{id}", middleware.WithLogging(userHandler.Update))
	mux.HandleFunc("GET /api/admin/users/{id}/profile", middleware.WithLogging(userHandler.GetProfile))
	mux.HandleFunc("PUT /api/admin/users/{id}/profile", middleware.WithLogging(userHandler.UpdateProfile))
	mux.HandleFunc("GET /api/admin/users/{id}/business-profile", middleware.WithLogging(userHandler.GetBusinessProfile))
	mux.HandleFunc("PUT /api/admin/users/{id}/business-profile", middleware.WithLogging(userHandler.UpdateBusinessProfile))
	mux.HandleFunc("GET /api/admin/users/{id}/settings", middleware.WithLogging(userHandler.GetSettings))
	mux.HandleFunc("PUT /api/admin/users/{id}/settings", middleware.WithLogging(userHandler.UpdateSettings))

	// Tier feature gates
	mux.HandleFunc("GET /api/features/{feature}", middleware.WithLogging(featureHandler.Check))

	// Security surface
	mux.HandleFunc("GET /api/security/status", middleware.WithLogging(securityHandler.Status))
	mux.HandleFunc("GET /api/security/audit", middleware.WithLogging(securityHandler.ListAudit))
	mux.HandleFunc("POST /api/security/audit", middleware.WithLogging(securityHandler.CreateAudit))
	mux.HandleFunc("POST /api/security/scan", middleware.WithLogging(securityHandler.Scan))
	mux.HandleFunc("GET /api/security/incidents", middleware.WithLogging(securityHandler.ListIncidents))
	mux.HandleFunc("POST /api/security/incidents", middleware.WithLogging(securityHandler.CreateIncident))

	// Satisfaction tracking
	mux.HandleFunc("POST /api/satisfaction", middleware.WithLogging(satisfactionHandler.Submit))
	mux.HandleFunc("GET /api/admin/satisfaction/report", middleware.WithLogging(satisfactionHandler.Report))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("eventpros API v1"))
	})

	return mux
}
