package service

// ContextKey is a type for context key values.
type ContextKey int

// Consts for context keys
const (
	ContextError ContextKey = iota
	ContextIPAddr
	ContextUserAgent
)

// Audit groups and actions.
const (
	AuditGroupKiosk = "kiosk"

	AuditActionIdentify       = "identify"
	AuditActionRegisterAccess = "registerAccess"
	AuditActionEndSession     = "endSession"
)
