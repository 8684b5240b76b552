package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Gin context keys set by the auth and request-id middleware.
	ContextKeyUserID    = "user_id"
	ContextKeyUserName  = "user_name"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	// SystemActor is recorded on activity entries written by background triage.
	SystemActor = "system-ai"

	TableComplaints = "complaints"
	TableActivities = "complaint_activities"
	TableCitizens   = "citizens"
)
