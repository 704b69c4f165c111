// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// Timestamps are always written by the application so the same DDL
// works on both sqlite and postgres.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('member', 'admin')),
    tier TEXT NOT NULL DEFAULT 'essential' CHECK (tier IN ('essential', 'showcase', 'spotlight')),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_app_user_email ON app_user(email);

-- Sessions (token -> user)
CREATE TABLE IF NOT EXISTS session (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_user_id ON session(user_id);

-- Profile sub-resources
CREATE TABLE IF NOT EXISTS user_profile (
    user_id TEXT PRIMARY KEY REFERENCES app_user(id) ON DELETE CASCADE,
    display_name TEXT NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    avatar_url TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS business_profile (
    user_id TEXT PRIMARY KEY REFERENCES app_user(id) ON DELETE CASCADE,
    company_name TEXT NOT NULL DEFAULT '',
    website TEXT NOT NULL DEFAULT '',
    region TEXT NOT NULL DEFAULT '',
    custom_slug TEXT UNIQUE,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS user_settings (
    user_id TEXT PRIMARY KEY REFERENCES app_user(id) ON DELETE CASCADE,
    email_opt_in INTEGER NOT NULL DEFAULT 1,
    locale TEXT NOT NULL DEFAULT 'en-NZ',
    timezone TEXT NOT NULL DEFAULT 'Pacific/Auckland',
    updated_at TIMESTAMP NOT NULL
);

-- Feature request categories
CREATE TABLE IF NOT EXISTS category (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    slug TEXT NOT NULL UNIQUE
);

-- Feature requests
CREATE TABLE IF NOT EXISTS feature_request (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    category_id TEXT REFERENCES category(id) ON DELETE SET NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'submitted' CHECK (status IN ('submitted', 'under_review', 'planned', 'in_development', 'completed', 'rejected')),
    priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high', 'critical')),
    effort_estimate INTEGER NOT NULL DEFAULT 50,
    saved_score REAL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_feature_request_status ON feature_request(status);
CREATE INDEX IF NOT EXISTS idx_feature_request_category ON feature_request(category_id);

-- Votes: one row per (request, user), toggled between 'upvote' and 'none'.
-- Rows are never deleted so vote history survives toggling.
CREATE TABLE IF NOT EXISTS vote (
    feature_request_id TEXT NOT NULL REFERENCES feature_request(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    vote_type TEXT NOT NULL CHECK (vote_type IN ('upvote', 'none')),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (feature_request_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_request ON vote(feature_request_id);

-- Status transition history (explicit admin actions only)
CREATE TABLE IF NOT EXISTS status_change (
    id TEXT PRIMARY KEY,
    feature_request_id TEXT NOT NULL REFERENCES feature_request(id) ON DELETE CASCADE,
    from_status TEXT NOT NULL,
    to_status TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_status_change_request ON status_change(feature_request_id);

-- Roadmap announcements
CREATE TABLE IF NOT EXISTS announcement (
    id TEXT PRIMARY KEY,
    feature_request_id TEXT REFERENCES feature_request(id) ON DELETE SET NULL,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    created_by TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Email templates; variables is a JSON array of {{placeholder}} names
-- extracted from the body on save.
CREATE TABLE IF NOT EXISTS email_template (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    subject TEXT NOT NULL,
    body TEXT NOT NULL,
    variables TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Security audit log (append-only)
CREATE TABLE IF NOT EXISTS audit_event (
    id TEXT PRIMARY KEY,
    actor TEXT NOT NULL,
    action TEXT NOT NULL,
    resource TEXT NOT NULL,
    severity TEXT NOT NULL CHECK (severity IN ('info', 'warning', 'critical')),
    detail TEXT NOT NULL DEFAULT '',
    ip_hash TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_event_severity ON audit_event(severity);

-- Security scans
CREATE TABLE IF NOT EXISTS security_scan (
    id TEXT PRIMARY KEY,
    started_at TIMESTAMP NOT NULL
);

-- Incidents
CREATE TABLE IF NOT EXISTS incident (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    severity TEXT NOT NULL CHECK (severity IN ('info', 'warning', 'critical')),
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'investigating', 'resolved')),
    created_at TIMESTAMP NOT NULL,
    resolved_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_incident_status ON incident(status);

-- Satisfaction survey responses
CREATE TABLE IF NOT EXISTS satisfaction_response (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    score INTEGER NOT NULL CHECK (score >= 1 AND score <= 5),
    comment TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);
`
