package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"
	FieldURL       = "url"

	// Actor (matches pkg/middleware/auth.go keys)
	FieldUserID   = "user_id"
	FieldUsername = "username"

	// Service
	FieldService = "service"

	// Search
	FieldQuery    = "query"
	FieldCategory = "category"
	FieldPage     = "page"
	FieldLimit    = "limit"
	FieldToken    = "request_token"
	FieldResults  = "results"
	FieldPhase    = "phase"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
