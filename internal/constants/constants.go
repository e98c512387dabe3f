package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyRole    = "user_role"
	ContextKeyClaims  = "token_claims"
	SessionCookieName = "pm_session"
	SessionKeyToken   = "access_token"
)

// Credential limits
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72 // bytes, the bcrypt input limit
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Token defaults
const (
	DefaultTokenTTL = 24 * time.Hour
	DefaultIssuer   = "project-management-api"
	DefaultAudience = "project-management-client"
)

// Text limits
const (
	MaxTitleLength           = 200
	MaxNameLength            = 100
	MaxCommentLength         = 2000
	MinWorkDescriptionLength = 10
)

// Daily report windows
const (
	ReportBackfillDays = 30
	ReportEditWindow   = 7 * 24 * time.Hour
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Dashboard limits
const (
	DashboardPreviewLimit  = 5
	DashboardActivityLimit = 10
)

// AI suggestions
const (
	MaxAIGeneratedTasks = 20
	MaxAIInputLength    = 8000
)
