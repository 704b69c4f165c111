// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the EventPros NZ API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Feature requests (public reads, session required to write):

	GET  /api/feature-requests              - List with filters and vote counts
	POST /api/feature-requests              - Submit a request
	GET  /api/feature-requests/categories   - List categories
	GET  /api/feature-requests/{id}         - Single request
	POST /api/feature-requests/{id}/vote    - Toggle the caller's vote
	GET  /api/feature-requests/{id}/votes   - Canonical vote counts

Admin feature-request surface (admin session required):

	GET  /api/admin/feature-requests/analytics        - Dashboard aggregates
	GET  /api/admin/feature-requests/roadmap          - Kanban columns
	PUT  /api/admin/feature-requests/{id}/status      - Move on the roadmap
	PUT  /api/admin/feature-requests/{id}/priority    - Persist a score
	POST /api/admin/feature-requests/priority/preview - Rank without saving
	POST /api/admin/feature-requests/bulk             - Bulk status move

Announcements, email templates, users (admin):

	GET/POST        /api/admin/announcements
	PUT             /api/admin/announcements/{id}
	GET/POST        /api/admin/email-templates
	GET/PUT/DELETE  /api/admin/email-templates/{id}
	GET/PUT         /api/admin/users/{id}
	GET/PUT         /api/admin/users/{id}/profile
	GET/PUT         /api/admin/users/{id}/business-profile
	GET/PUT         /api/admin/users/{id}/settings

Feature gates, security, satisfaction:

	GET  /api/features/{feature}           - Tier gate check
	GET  /api/security/status
	GET/POST /api/security/audit
	POST /api/security/scan
	GET/POST /api/security/incidents
	POST /api/satisfaction
	GET  /api/admin/satisfaction/report

# Handler Initialization

The router creates handler instances with dependency injection:

	requestHandler := handlers.NewRequestHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	roadmapHandler := handlers.NewRoadmapHandler(db, cfg)
	// ...

All handlers receive the database connection and configuration.
*/
package router
