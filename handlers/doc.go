// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the EventPros NZ API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - RequestHandler: Feature request submission and browsing
  - VoteHandler: Vote toggling and canonical counts
  - RoadmapHandler: Kanban roadmap and status moves (single and bulk)
  - PriorityHandler: Priority scoring (preview and save)
  - AnalyticsHandler: Dashboard aggregates and announcements
  - TemplateHandler: Email template CRUD with variable extraction
  - UserHandler: User administration with profile/settings sub-resources
  - FeatureGateHandler: Subscription tier gates
  - SecurityHandler: Audit log, scans, incidents
  - SatisfactionHandler: Satisfaction scores and reporting

Handlers are created via constructor functions that accept *sql.DB and Config:

	requestHandler := handlers.NewRequestHandler(db, cfg)

# Sessions

Authenticated requests carry the X-Session-Token header. requireUser
resolves it to an account; requireAdmin additionally checks the admin
role. Both write the error response themselves and return nil, so
handlers bail with a single if.

The security surface additionally accepts a derived service key in the
X-Service-Key header (see requireSecurityAccess), so monitoring and
scheduled-scan automation can call it without a user account. Actions
taken with the key are audited under the "ops-automation" actor.

# Voting Model

One vote row per (feature_request_id, user_id). Toggling off sets
vote_type to "none" rather than deleting, so voting history survives.
Counts only consider rows with vote_type "upvote", and every toggle
response carries the canonical counts for client reconciliation.

# Roadmap Moves

Status updates record a status_change row per transition. A move to the
request's current status is acknowledged with changed=false and writes
nothing, which is how same-column drags on the admin board stay
presentation-only.

# Priority Scoring

CalculatePriorityScores is a pure function over vote counts, effort,
age, and priority tier, weighted by five admin-tunable components.
Preview never persists; PUT {id}/priority saves an explicit score.

# Audit Trail

Mutating admin actions call recordAuditEvent, which stores the actor,
action, resource, and a hashed client IP. Audit failures are logged and
swallowed so they never fail the action they describe.
*/
package handlers
