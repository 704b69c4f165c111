// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jhar900/EventProsNZ-sub006/auth"
	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/middleware"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

type SecurityHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSecurityHandler(db *sql.DB, cfg cliparse.Config) *SecurityHandler {
	return &SecurityHandler{db: db, cfg: cfg}
}

// The security surface is also called by monitoring and scheduled-scan
// automation that has no user account. Those callers send the ops
// service key in X-Service-Key; the key is the HMAC of this resource
// name under the admin salt, so ops can derive it from config alone.
const (
	securityResource = "security"
	serviceActor     = "ops-automation"
)

// requireSecurityAccess authorizes a security-surface call, accepting
// either an admin session or the ops service key. Returns the actor to
// record in the audit trail, or "" after writing the error response.
func requireSecurityAccess(db *sql.DB, cfg cliparse.Config, w http.ResponseWriter, r *http.Request) string {
	if key := r.Header.Get("X-Service-Key"); key != "" {
		if err := auth.ValidateAdminKey(securityResource, key, cfg.AdminKeySalt); err != nil {
			middleware.ErrorResponse(w, http.StatusForbidden, "Invalid service key")
			return ""
		}
		return serviceActor
	}
	admin := requireAdmin(db, w, r)
	if admin == nil {
		return ""
	}
	return admin.Email
}

// recordAuditEvent appends to the audit log. Shared by the admin
// handlers so mutating actions leave a trail. Failures are logged and
// swallowed; auditing must never fail the action it describes.
func recordAuditEvent(db *sql.DB, cfg cliparse.Config, r *http.Request, actor, action, resource, severity, detail string) {
	clientIP := middleware.GetClientIP(r)
	ipHash := auth.HashIP(clientIP, cfg.AdminKeySalt) // Reuse admin salt for IP hashing

	_, err := db.Exec(`
		INSERT INTO audit_event (id, actor, action, resource, severity, detail, ip_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.NewString(), actor, action, resource, severity, detail, ipHash, time.Now())
	if err != nil {
		slog.Warn("failed to record audit event", "error", err, "action", action)
	}
}

// Status handles GET /api/security/status
// Dashboard summary: open incidents, critical audit events, last scan.
func (h *SecurityHandler) Status(w http.ResponseWriter, r *http.Request) {
	if requireSecurityAccess(h.db, h.cfg, w, r) == "" {
		return
	}

	var resp models.SecurityStatusResponse

	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM incident WHERE status != 'resolved'
	`).Scan(&resp.OpenIncidents)
	if err != nil {
		slog.Error("failed to count incidents", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM audit_event WHERE severity = 'critical'
	`).Scan(&resp.CriticalAudit)
	if err != nil {
		slog.Error("failed to count audit events", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var lastScan time.Time
	err = h.db.QueryRow(`
		SELECT started_at FROM security_scan ORDER BY started_at DESC LIMIT 1
	`).Scan(&lastScan)
	if err != nil && err != sql.ErrNoRows {
		slog.Error("failed to query last scan", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err == nil {
		resp.LastScanAt = &lastScan
	}

	resp.Status = "ok"
	if resp.OpenIncidents > 0 || resp.CriticalAudit > 0 {
		resp.Status = "attention"
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// ListAudit handles GET /api/security/audit
// Most recent events first; ?limit= caps the page (default 50, max 200).
func (h *SecurityHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	if requireSecurityAccess(h.db, h.cfg, w, r) == "" {
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if n > 200 {
			n = 200
		}
		limit = n
	}

	rows, err := h.db.Query(`
		SELECT id, actor, action, resource, severity, detail, created_at
		FROM audit_event
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		slog.Error("failed to query audit events", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	events := []models.AuditEvent{}
	for rows.Next() {
		var e models.AuditEvent
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Resource, &e.Severity, &e.Detail, &e.CreatedAt); err != nil {
			slog.Error("failed to scan audit event", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		events = append(events, e)
	}

	middleware.JSONResponse(w, http.StatusOK, events)
}

// CreateAudit handles POST /api/security/audit
// Manual log entries from the admin console; automated entries come in
// through recordAuditEvent.
func (h *SecurityHandler) CreateAudit(w http.ResponseWriter, r *http.Request) {
	actor := requireSecurityAccess(h.db, h.cfg, w, r)
	if actor == "" {
		return
	}

	var req models.CreateAuditEventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Action == "" || req.Resource == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "action and resource are required")
		return
	}
	if req.Severity != models.SeverityInfo && req.Severity != models.SeverityWarning && req.Severity != models.SeverityCritical {
		middleware.ErrorResponse(w, http.StatusBadRequest, "severity must be one of: info, warning, critical")
		return
	}

	event := models.AuditEvent{
		ID:        uuid.NewString(),
		Actor:     actor,
		Action:    req.Action,
		Resource:  req.Resource,
		Severity:  req.Severity,
		Detail:    req.Detail,
		CreatedAt: time.Now(),
	}
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)

	_, err := h.db.Exec(`
		INSERT INTO audit_event (id, actor, action, resource, severity, detail, ip_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, event.ID, event.Actor, event.Action, event.Resource, event.Severity, event.Detail, ipHash, event.CreatedAt)
	if err != nil {
		slog.Error("failed to insert audit event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record audit event")
		return
	}

	slog.Info("audit event recorded", "event_id", event.ID, "action", event.Action)

	middleware.JSONResponse(w, http.StatusCreated, event)
}

// Scan handles POST /api/security/scan
// Synchronous: records the scan and summarizes the audit log by
// severity. There is no background job; a scan is just an aggregate
// read at a recorded point in time.
func (h *SecurityHandler) Scan(w http.ResponseWriter, r *http.Request) {
	actor := requireSecurityAccess(h.db, h.cfg, w, r)
	if actor == "" {
		return
	}

	scanID := uuid.NewString()
	startedAt := time.Now()

	_, err := h.db.Exec(`
		INSERT INTO security_scan (id, started_at) VALUES ($1, $2)
	`, scanID, startedAt)
	if err != nil {
		slog.Error("failed to record scan", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start scan")
		return
	}

	counts := make(map[string]int)
	rows, err := h.db.Query(`
		SELECT severity, COUNT(*) FROM audit_event GROUP BY severity
	`)
	if err != nil {
		slog.Error("failed to aggregate audit events", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var severity string
		var count int
		if err := rows.Scan(&severity, &count); err != nil {
			slog.Error("failed to scan severity count", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		counts[severity] = count
	}

	findings := []models.ScanFinding{}
	for _, severity := range []string{models.SeverityCritical, models.SeverityWarning, models.SeverityInfo} {
		findings = append(findings, models.ScanFinding{
			Severity: severity,
			Count:    counts[severity],
		})
	}

	slog.Info("security scan completed", "scan_id", scanID, "actor", actor)

	middleware.JSONResponse(w, http.StatusOK, models.ScanResponse{
		ScanID:    scanID,
		StartedAt: startedAt,
		Findings:  findings,
	})
}

// CreateIncident handles POST /api/security/incidents
func (h *SecurityHandler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	actor := requireSecurityAccess(h.db, h.cfg, w, r)
	if actor == "" {
		return
	}

	var req models.CreateIncidentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Severity != models.SeverityInfo && req.Severity != models.SeverityWarning && req.Severity != models.SeverityCritical {
		middleware.ErrorResponse(w, http.StatusBadRequest, "severity must be one of: info, warning, critical")
		return
	}

	incident := models.Incident{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Severity:  req.Severity,
		Status:    models.IncidentOpen,
		CreatedAt: time.Now(),
	}

	_, err := h.db.Exec(`
		INSERT INTO incident (id, title, severity, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, incident.ID, incident.Title, incident.Severity, incident.Status, incident.CreatedAt)
	if err != nil {
		slog.Error("failed to insert incident", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create incident")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, actor, "incident.create",
		"incident/"+incident.ID, req.Severity, incident.Title)

	slog.Info("incident created", "incident_id", incident.ID, "severity", incident.Severity)

	middleware.JSONResponse(w, http.StatusCreated, incident)
}

// ListIncidents handles GET /api/security/incidents
func (h *SecurityHandler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	if requireSecurityAccess(h.db, h.cfg, w, r) == "" {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, title, severity, status, created_at, resolved_at
		FROM incident
		ORDER BY created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query incidents", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	incidents := []models.Incident{}
	for rows.Next() {
		var inc models.Incident
		if err := rows.Scan(&inc.ID, &inc.Title, &inc.Severity, &inc.Status, &inc.CreatedAt, &inc.ResolvedAt); err != nil {
			slog.Error("failed to scan incident", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		incidents = append(incidents, inc)
	}

	middleware.JSONResponse(w, http.StatusOK, incidents)
}
