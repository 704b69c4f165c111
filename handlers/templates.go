// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/middleware"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

type TemplateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewTemplateHandler(db *sql.DB, cfg cliparse.Config) *TemplateHandler {
	return &TemplateHandler{db: db, cfg: cfg}
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// ExtractVariables returns the distinct {{placeholder}} names found in
// the given texts, in first-seen order. Repeats are collapsed.
func ExtractVariables(texts ...string) []string {
	seen := make(map[string]bool)
	variables := []string{}
	for _, text := range texts {
		for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
			name := match[1]
			if !seen[name] {
				seen[name] = true
				variables = append(variables, name)
			}
		}
	}
	return variables
}

// List handles GET /api/admin/email-templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, name, subject, body, variables, created_at, updated_at
		FROM email_template
		ORDER BY name
	`)
	if err != nil {
		slog.Error("failed to query templates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	templates := []models.EmailTemplate{}
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			slog.Error("failed to scan template", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		templates = append(templates, tmpl)
	}

	middleware.JSONResponse(w, http.StatusOK, templates)
}

// Create handles POST /api/admin/email-templates
// Placeholders are extracted from subject and body on every save, so
// the stored variable list never goes stale.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}

	var req models.SaveTemplateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" || req.Subject == "" || req.Body == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name, subject and body are required")
		return
	}

	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM email_template WHERE name = $1)
	`, req.Name).Scan(&exists)
	if err != nil {
		slog.Error("failed to check template name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusConflict, "Template name already in use")
		return
	}

	variables := ExtractVariables(req.Subject, req.Body)
	variablesJSON, err := json.Marshal(variables)
	if err != nil {
		slog.Error("failed to marshal variables", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save template")
		return
	}

	now := time.Now()
	tmpl := models.EmailTemplate{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Subject:   req.Subject,
		Body:      req.Body,
		Variables: variables,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = h.db.Exec(`
		INSERT INTO email_template (id, name, subject, body, variables, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, tmpl.ID, tmpl.Name, tmpl.Subject, tmpl.Body, string(variablesJSON), now, now)
	if err != nil {
		slog.Error("failed to insert template", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save template")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, admin.Email, "email_template.create",
		"email_template/"+tmpl.ID, models.SeverityInfo, tmpl.Name)

	slog.Info("template created", "template_id", tmpl.ID, "name", tmpl.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.TemplateResponse{Template: tmpl})
}

// Get handles GET /api/admin/email-templates/:id
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	templateID := r.PathValue("id")
	if templateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	row := h.db.QueryRow(`
		SELECT id, name, subject, body, variables, created_at, updated_at
		FROM email_template
		WHERE id = $1
	`, templateID)

	tmpl, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Template not found")
		return
	}
	if err != nil {
		slog.Error("failed to query template", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TemplateResponse{Template: tmpl})
}

// Update handles PUT /api/admin/email-templates/:id
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	templateID := r.PathValue("id")
	if templateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}

	var req models.SaveTemplateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" || req.Subject == "" || req.Body == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name, subject and body are required")
		return
	}

	// Name must stay unique across the other templates
	var taken bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM email_template WHERE name = $1 AND id != $2)
	`, req.Name, templateID).Scan(&taken)
	if err != nil {
		slog.Error("failed to check template name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		middleware.ErrorResponse(w, http.StatusConflict, "Template name already in use")
		return
	}

	variables := ExtractVariables(req.Subject, req.Body)
	variablesJSON, err := json.Marshal(variables)
	if err != nil {
		slog.Error("failed to marshal variables", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save template")
		return
	}

	now := time.Now()
	result, err := h.db.Exec(`
		UPDATE email_template
		SET name = $1, subject = $2, body = $3, variables = $4, updated_at = $5
		WHERE id = $6
	`, req.Name, req.Subject, req.Body, string(variablesJSON), now, templateID)
	if err != nil {
		slog.Error("failed to update template", "error", err, "template_id", templateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save template")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Template not found")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, admin.Email, "email_template.update",
		"email_template/"+templateID, models.SeverityInfo, req.Name)

	row := h.db.QueryRow(`
		SELECT id, name, subject, body, variables, created_at, updated_at
		FROM email_template
		WHERE id = $1
	`, templateID)
	tmpl, err := scanTemplate(row)
	if err != nil {
		slog.Error("failed to reload template", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TemplateResponse{Template: tmpl})
}

// Delete handles DELETE /api/admin/email-templates/:id
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	templateID := r.PathValue("id")
	if templateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}

	result, err := h.db.Exec(`DELETE FROM email_template WHERE id = $1`, templateID)
	if err != nil {
		slog.Error("failed to delete template", "error", err, "template_id", templateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Template not found")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, admin.Email, "email_template.delete",
		"email_template/"+templateID, models.SeverityWarning, "")

	slog.Info("template deleted", "template_id", templateID, "actor", admin.ID)

	w.WriteHeader(http.StatusNoContent)
}

// scanTemplate reads one email_template row, decoding the variables JSON.
func scanTemplate(row interface{ Scan(...interface{}) error }) (models.EmailTemplate, error) {
	var tmpl models.EmailTemplate
	var variablesJSON string
	err := row.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Subject, &tmpl.Body,
		&variablesJSON, &tmpl.CreatedAt, &tmpl.UpdatedAt)
	if err != nil {
		return tmpl, err
	}
	if err := json.Unmarshal([]byte(variablesJSON), &tmpl.Variables); err != nil {
		return tmpl, err
	}
	return tmpl, nil
}
