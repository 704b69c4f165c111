// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - app_user: Accounts with role and subscription tier
  - session: Session tokens for the X-Session-Token header
  - user_profile: Display profile per user
  - business_profile: Company details plus the paid-tier custom slug
  - user_settings: Locale, timezone, email opt-in
  - category: Feature request categories
  - feature_request: Requests with status, priority, effort, saved score
  - vote: One row per (request, user); removals flip vote_type to "none"
  - status_change: Roadmap transition history
  - announcement: Admin announcements, optionally linked to a request
  - email_template: Templates with extracted {{variable}} names
  - audit_event: Admin action trail with hashed client IPs
  - security_scan: Recorded scan timestamps
  - incident: Security incidents
  - satisfaction_response: 1-5 satisfaction scores

# Relationships

	app_user 1──* session
	app_user 1──1 user_profile
	app_user 1──1 business_profile
	app_user 1──1 user_settings
	category 1──* feature_request
	feature_request 1──* vote
	feature_request 1──* status_change
	feature_request 1──* announcement
	app_user 1──* vote
	app_user 1──* satisfaction_response

All foreign keys use ON DELETE CASCADE.

# Portability

The schema runs unchanged on SQLite and PostgreSQL: timestamps are
written by the application rather than column defaults, booleans are
stored as INTEGER 0/1, and JSON lists (template variables) are stored
as TEXT.
*/
package db
