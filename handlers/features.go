// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/jhar900/EventProsNZ-sub006/cliparse"
	"github.com/jhar900/EventProsNZ-sub006/middleware"
	"github.com/jhar900/EventProsNZ-sub006/models"
)

type FeatureGateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewFeatureGateHandler(db *sql.DB, cfg cliparse.Config) *FeatureGateHandler {
	return &FeatureGateHandler{db: db, cfg: cfg}
}

// featureTiers maps each gated feature to the minimum tier that
// unlocks it. Tiers are ordered essential < showcase < spotlight.
var featureTiers = map[string]string{
	"analytics":    models.TierShowcase,
	"custom-url":   models.TierShowcase,
	"early-access": models.TierSpotlight,
	"support":      models.TierEssential,
}

func tierRank(tier string) int {
	switch tier {
	case models.TierSpotlight:
		return 2
	case models.TierShowcase:
		return 1
	default:
		return 0
	}
}

// Check handles GET /api/features/:feature
// Answers whether the caller's subscription tier unlocks the feature.
func (h *FeatureGateHandler) Check(w http.ResponseWriter, r *http.Request) {
	feature := r.PathValue("feature")
	if feature == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "feature is required")
		return
	}

	requiredTier, known := featureTiers[feature]
	if !known {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown feature: "+feature)
		return
	}

	user := requireUser(h.db, w, r)
	if user == nil {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.FeatureGateResponse{
		Feature:      feature,
		Tier:         user.Tier,
		Enabled:      tierRank(user.Tier) >= tierRank(requiredTier),
		RequiredTier: requiredTier,
	})
}
