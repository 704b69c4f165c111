// Copyright (c) 2025 EventPros NZ.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateFeatureRequestRequest: title, description, category, priority
  - UpdateStatusRequest / BulkStatusRequest: roadmap moves
  - SavePriorityRequest / PriorityPreviewRequest: priority scoring
  - SaveTemplateRequest: email template name, subject, body
  - UpdateUserRequest / UpdateProfileRequest / UpdateSettingsRequest
  - CreateAnnouncementRequest, CreateAuditEventRequest,
    CreateIncidentRequest, SubmitSatisfactionRequest

# Response Types

Types for JSON responses:

  - VoteCounts / VoteResponse: vote aggregates per request
  - UpdateStatusResponse: status plus a changed flag for no-op moves
  - RoadmapResponse: one column per status
  - AnalyticsResponse: totals, breakdowns, top requests
  - PriorityPreviewResponse: weights plus ranked requests
  - FeatureGateResponse: tier gate answer
  - SecurityStatusResponse, ScanResponse, SatisfactionReportResponse
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User, Profile, BusinessProfile, Settings
  - Category, FeatureRequest, Vote, StatusChange
  - Announcement, EmailTemplate
  - AuditEvent, Incident, SatisfactionEntry

# Constants

Feature request statuses (roadmap column order):

	StatusSubmitted     = "submitted"
	StatusUnderReview   = "under_review"
	StatusPlanned       = "planned"
	StatusInDevelopment = "in_development"
	StatusCompleted     = "completed"
	StatusRejected      = "rejected"

Vote types:

	VoteUpvote = "upvote"
	VoteNone   = "none"

Roles and tiers:

	RoleMember = "member"
	RoleAdmin  = "admin"

	TierEssential = "essential"
	TierShowcase  = "showcase"
	TierSpotlight = "spotlight"

Audit severities and incident statuses:

	SeverityInfo / SeverityWarning / SeverityCritical
	IncidentOpen / IncidentInvestigating / IncidentResolved
*/
package models
