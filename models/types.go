package models

import "time"

// Feature request status constants
const (
	StatusSubmitted     = "submitted"
	StatusUnderReview   = "under_review"
	StatusPlanned       = "planned"
	StatusInDevelopment = "in_development"
	StatusCompleted     = "completed"
	StatusRejected      = "rejected"
)

// AllStatuses lists every feature request status in roadmap column order.
var AllStatuses = []string{
	StatusSubmitted,
	StatusUnderReview,
	StatusPlanned,
	StatusInDevelopment,
	StatusCompleted,
	StatusRejected,
}

// ValidStatus reports whether s is a known feature request status.
func ValidStatus(s string) bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Vote type constants
const (
	VoteUpvote = "upvote"
	VoteNone   = "none"
)

// Priority tier constants
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// User role constants
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Subscription tier constants
const (
	TierEssential = "essential"
	TierShowcase  = "showcase"
	TierSpotlight = "spotlight"
)

// Incident status constants
const (
	IncidentOpen          = "open"
	IncidentInvestigating = "investigating"
	IncidentResolved      = "resolved"
)

// Audit severity constants
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Request types

type CreateFeatureRequestRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	CategoryID     string `json:"category_id,omitempty"`
	Priority       string `json:"priority,omitempty"`
	EffortEstimate int    `json:"effort_estimate,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type BulkStatusRequest struct {
	RequestIDs []string `json:"request_ids"`
	Status     string   `json:"status"`
}

type SavePriorityRequest struct {
	PriorityScore float64 `json:"priority_score"`
}

// PriorityWeights holds the five component weights for priority scoring.
// The sliders in the admin UI are independent 0-100 values; the formula
// divides by 100, not by the weight sum, so scores are only on a 0-100
// scale when the weights themselves sum to 100.
type PriorityWeights struct {
	Impact    float64 `json:"impact"`
	Effort    float64 `json:"effort"`
	Urgency   float64 `json:"urgency"`
	Community float64 `json:"community"`
	Business  float64 `json:"business"`
}

type PriorityPreviewRequest struct {
	Weights PriorityWeights `json:"weights"`
}

type SaveTemplateRequest struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type UpdateUserRequest struct {
	Name string `json:"name"`
	Tier string `json:"tier"`
	Role string `json:"role"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	AvatarURL   string `json:"avatar_url"`
}

type UpdateBusinessProfileRequest struct {
	CompanyName string `json:"company_name"`
	Website     string `json:"website"`
	Region      string `json:"region"`
}

type UpdateSettingsRequest struct {
	EmailOptIn *bool  `json:"email_opt_in,omitempty"`
	Locale     string `json:"locale,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
}

type CreateAnnouncementRequest struct {
	FeatureRequestID string `json:"feature_request_id,omitempty"`
	Title            string `json:"title"`
	Body             string `json:"body"`
}

type CreateAuditEventRequest struct {
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Severity string `json:"severity"`
	Detail   string `json:"detail,omitempty"`
}

type CreateIncidentRequest struct {
	Title    string `json:"title"`
	Severity string `json:"severity"`
}

type SubmitSatisfactionRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment,omitempty"`
}

// Response types

type CreateFeatureRequestResponse struct {
	RequestID string `json:"request_id"`
}

// VoteCounts is the canonical vote aggregate for a feature request.
// UserVote is nil when the requesting user has no active vote.
type VoteCounts struct {
	Upvotes   int     `json:"upvotes"`
	Downvotes int     `json:"downvotes"`
	Total     int     `json:"total"`
	UserVote  *string `json:"user_vote"`
}

type VoteResponse struct {
	RequestID string     `json:"request_id"`
	Counts    VoteCounts `json:"counts"`
	Message   string     `json:"message"`
}

type UpdateStatusResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Changed   bool   `json:"changed"`
}

type BulkStatusResponse struct {
	Updated int    `json:"updated"`
	Status  string `json:"status"`
}

type RoadmapResponse struct {
	Columns map[string][]FeatureRequest `json:"columns"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type TopRequest struct {
	RequestID string `json:"request_id"`
	Title     string `json:"title"`
	Votes     int    `json:"votes"`
	VotesText string `json:"votes_text"`
	Age       string `json:"age"`
}

type AnalyticsResponse struct {
	TotalRequests int             `json:"total_requests"`
	TotalVotes    int             `json:"total_votes"`
	ByStatus      []StatusCount   `json:"by_status"`
	ByCategory    []CategoryCount `json:"by_category"`
	TopRequests   []TopRequest    `json:"top_requests"`
}

// RankedRequest pairs a feature request with its computed priority score.
type RankedRequest struct {
	FeatureRequest
	PriorityScore float64 `json:"priority_score"`
}

type PriorityPreviewResponse struct {
	Weights PriorityWeights `json:"weights"`
	Ranked  []RankedRequest `json:"ranked"`
}

type TemplateResponse struct {
	Template EmailTemplate `json:"template"`
}

type FeatureGateResponse struct {
	Feature      string `json:"feature"`
	Tier         string `json:"tier"`
	Enabled      bool   `json:"enabled"`
	RequiredTier string `json:"required_tier"`
}

type SecurityStatusResponse struct {
	Status        string     `json:"status"`
	OpenIncidents int        `json:"open_incidents"`
	CriticalAudit int        `json:"critical_audit_events"`
	LastScanAt    *time.Time `json:"last_scan_at,omitempty"`
}

type ScanFinding struct {
	Severity string `json:"severity"`
	Count    int    `json:"count"`
}

type ScanResponse struct {
	ScanID    string        `json:"scan_id"`
	StartedAt time.Time     `json:"started_at"`
	Findings  []ScanFinding `json:"findings"`
}

type SatisfactionReportResponse struct {
	Responses    int            `json:"responses"`
	AverageScore float64        `json:"average_score"`
	ByScore      map[string]int `json:"by_score"`
}

// Domain types

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Tier      string    `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	AvatarURL   string    `json:"avatar_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BusinessProfile struct {
	UserID      string    `json:"user_id"`
	CompanyName string    `json:"company_name"`
	Website     string    `json:"website"`
	Region      string    `json:"region"`
	CustomSlug  string    `json:"custom_slug,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Settings struct {
	UserID     string    `json:"user_id"`
	EmailOptIn bool      `json:"email_opt_in"`
	Locale     string    `json:"locale"`
	Timezone   string    `json:"timezone"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type FeatureRequest struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	CategoryID     *string    `json:"category_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	EffortEstimate int        `json:"effort_estimate"`
	SavedScore     *float64   `json:"saved_score,omitempty"`
	Votes          int        `json:"votes"`
	UserVote       *string    `json:"user_vote"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type Vote struct {
	FeatureRequestID string    `json:"feature_request_id"`
	UserID           string    `json:"-"` // Never expose in JSON
	VoteType         string    `json:"vote_type"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type StatusChange struct {
	ID               string    `json:"id"`
	FeatureRequestID string    `json:"feature_request_id"`
	FromStatus       string    `json:"from_status"`
	ToStatus         string    `json:"to_status"`
	ActorID          string    `json:"actor_id"`
	CreatedAt        time.Time `json:"created_at"`
}

type Announcement struct {
	ID               string    `json:"id"`
	FeatureRequestID *string   `json:"feature_request_id,omitempty"`
	Title            string    `json:"title"`
	Body             string    `json:"body"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

type EmailTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Variables []string  `json:"variables"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuditEvent struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	Severity  string    `json:"severity"`
	Detail    string    `json:"detail,omitempty"`
	IPHash    string    `json:"-"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at"`
}

type Incident struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Severity   string     `json:"severity"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

type SatisfactionEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"` // Never expose in JSON
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
