// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/jhar900/EventProsNZ-sub006/auth"
	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/middleware"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, cfg: cfg}
}

// Get handles GET /api/admin/users/:id
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	var u models.User
	err := h.db.QueryRow(`
		SELECT id, email, name, role, tier, created_at FROM app_user WHERE id = $1
	`, userID).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Tier, &u.CreatedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, u)
}

// Update handles PUT /api/admin/users/:id
// Tier changes feed the feature gates; role changes grant or revoke
// the admin surface.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}

	var req models.UpdateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Tier != models.TierEssential && req.Tier != models.TierShowcase && req.Tier != models.TierSpotlight {
		middleware.ErrorResponse(w, http.StatusBadRequest, "tier must be one of: essential, showcase, spotlight")
		return
	}
	if req.Role != models.RoleMember && req.Role != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusBadRequest, "role must be member or admin")
		return
	}

	result, err := h.db.Exec(`
		UPDATE app_user SET name = $1, tier = $2, role = $3 WHERE id = $4
	`, req.Name, req.Tier, req.Role, userID)
	if err != nil {
		slog.Error("failed to update user", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, admin.Email, "user.update",
		"user/"+userID, models.SeverityInfo, "tier="+req.Tier+" role="+req.Role)

	var u models.User
	err = h.db.QueryRow(`
		SELECT id, email, name, role, tier, created_at FROM app_user WHERE id = $1
	`, userID).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Tier, &u.CreatedAt)
	if err != nil {
		slog.Error("failed to reload user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, u)
}

// GetProfile handles GET /api/admin/users/:id/profile
// A user with no saved profile gets an empty one, not a 404.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}
	if !h.userExists(w, userID) {
		return
	}

	var p models.Profile
	err := h.db.QueryRow(`
		SELECT user_id, display_name, bio, location, avatar_url, updated_at
		FROM user_profile WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.DisplayName, &p.Bio, &p.Location, &p.AvatarURL, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		middleware.JSONResponse(w, http.StatusOK, models.Profile{UserID: userID})
		return
	}
	if err != nil {
		slog.Error("failed to query profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}

// UpdateProfile handles PUT /api/admin/users/:id/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}
	if !h.userExists(w, userID) {
		return
	}

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	now := time.Now()
	p := models.Profile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Location:    req.Location,
		AvatarURL:   req.AvatarURL,
		UpdatedAt:   now,
	}

	if err := upsertProfile(h.db, p); err != nil {
		slog.Error("failed to save profile", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, admin.Email, "user.profile",
		"user/"+userID, models.SeverityInfo, "")

	middleware.JSONResponse(w, http.StatusOK, p)
}

func upsertProfile(db *sql.DB, p models.Profile) error {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM user_profile WHERE user_id = $1)
	`, p.UserID).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		_, err = db.Exec(`
			UPDATE user_profile
			SET display_name = $1, bio = $2, location = $3, avatar_url = $4, updated_at = $5
			WHERE user_id = $6
		`, p.DisplayName, p.Bio, p.Location, p.AvatarURL, p.UpdatedAt, p.UserID)
		return err
	}

	_, err = db.Exec(`
		INSERT INTO user_profile (user_id, display_name, bio, location, avatar_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.UserID, p.DisplayName, p.Bio, p.Location, p.AvatarURL, p.UpdatedAt)
	return err
}

// GetBusinessProfile handles GET /api/admin/users/:id/business-profile
func (h *UserHandler) GetBusinessProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}
	if !h.userExists(w, userID) {
		return
	}

	var bp models.BusinessProfile
	var slug sql.NullString
	err := h.db.QueryRow(`
		SELECT user_id, company_name, website, region, custom_slug, updated_at
		FROM business_profile WHERE user_id = $1
	`, userID).Scan(&bp.UserID, &bp.CompanyName, &bp.Website, &bp.Region, &slug, &bp.UpdatedAt)
	if err == sql.ErrNoRows {
		middleware.JSONResponse(w, http.StatusOK, models.BusinessProfile{UserID: userID})
		return
	}
	if err != nil {
		slog.Error("failed to query business profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if slug.Valid {
		bp.CustomSlug = slug.String
	}

	middleware.JSONResponse(w, http.StatusOK, bp)
}

// UpdateBusinessProfile handles PUT /api/admin/users/:id/business-profile
// Users on a paid tier get a deterministic custom profile slug the
// first time their business profile is saved; essential-tier users
// have no slug (the custom-url feature is gated).
func (h *UserHandler) UpdateBusinessProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}

	var tier string
	err := h.db.QueryRow(`SELECT tier FROM app_user WHERE id = $1`, userID).Scan(&tier)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var req models.UpdateBusinessProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var slug *string
	if tier == models.TierShowcase || tier == models.TierSpotlight {
		s := auth.GenerateProfileSlug(userID, h.cfg.ProfileSlugSalt)
		slug = &s
	}

	now := time.Now()

	var exists bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM business_profile WHERE user_id = $1)
	`, userID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check business profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if exists {
		_, err = h.db.Exec(`
			UPDATE business_profile
			SET company_name = $1, website = $2, region = $3, custom_slug = $4, updated_at = $5
			WHERE user_id = $6
		`, req.CompanyName, req.Website, req.Region, slug, now, userID)
	} else {
		_, err = h.db.Exec(`
			INSERT INTO business_profile (user_id, company_name, website, region, custom_slug, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, userID, req.CompanyName, req.Website, req.Region, slug, now)
	}
	if err != nil {
		slog.Error("failed to save business profile", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save business profile")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, admin.Email, "user.business_profile",
		"user/"+userID, models.SeverityInfo, "")

	bp := models.BusinessProfile{
		UserID:      userID,
		CompanyName: req.CompanyName,
		Website:     req.Website,
		Region:      req.Region,
		UpdatedAt:   now,
	}
	if slug != nil {
		bp.CustomSlug = *slug
	}

	middleware.JSONResponse(w, http.StatusOK, bp)
}

// GetSettings handles GET /api/admin/users/:id/settings
// Missing rows come back as the defaults new accounts start with.
func (h *UserHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}
	if !h.userExists(w, userID) {
		return
	}

	settings, err := loadSettings(h.db, userID)
	if err != nil {
		slog.Error("failed to query settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/admin/users/:id/settings
// Partial update: absent fields keep their stored value.
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	admin := requireAdmin(h.db, w, r)
	if admin == nil {
		return
	}
	if !h.userExists(w, userID) {
		return
	}

	var req models.UpdateSettingsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	settings, err := loadSettings(h.db, userID)
	if err != nil {
		slog.Error("failed to query settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if req.EmailOptIn != nil {
		settings.EmailOptIn = *req.EmailOptIn
	}
	if req.Locale != "" {
		settings.Locale = req.Locale
	}
	if req.Timezone != "" {
		settings.Timezone = req.Timezone
	}
	settings.UpdatedAt = time.Now()

	optIn := 0
	if settings.EmailOptIn {
		optIn = 1
	}

	var exists bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM user_settings WHERE user_id = $1)
	`, userID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if exists {
		_, err = h.db.Exec(`
			UPDATE user_settings
			SET email_opt_in = $1, locale = $2, timezone = $3, updated_at = $4
			WHERE user_id = $5
		`, optIn, settings.Locale, settings.Timezone, settings.UpdatedAt, userID)
	} else {
		_, err = h.db.Exec(`
			INSERT INTO user_settings (user_id, email_opt_in, locale, timezone, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, userID, optIn, settings.Locale, settings.Timezone, settings.UpdatedAt)
	}
	if err != nil {
		slog.Error("failed to save settings", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	recordAuditEvent(h.db, h.cfg, r, admin.Email, "user.settings",
		"user/"+userID, models.SeverityInfo, "")

	middleware.JSONResponse(w, http.StatusOK, settings)
}

// loadSettings returns stored settings or the account defaults.
func loadSettings(db *sql.DB, userID string) (models.Settings, error) {
	settings := models.Settings{
		UserID:     userID,
		EmailOptIn: true,
		Locale:     "en-NZ",
		Timezone:   "Pacific/Auckland",
	}

	var optIn int
	err := db.QueryRow(`
		SELECT email_opt_in, locale, timezone, updated_at
		FROM user_settings WHERE user_id = $1
	`, userID).Scan(&optIn, &settings.Locale, &settings.Timezone, &settings.UpdatedAt)
	if err == sql.ErrNoRows {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}

	settings.EmailOptIn = optIn != 0
	return settings, nil
}

// userExists writes a 404/500 and returns false when userID is unknown.
func (h *UserHandler) userExists(w http.ResponseWriter, userID string) bool {
	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM app_user WHERE id = $1)
	`, userID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return false
	}
	return true
}
