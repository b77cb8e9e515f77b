// File: utils/constants.go
package utils

// Keys under which middleware stores request scoped values in the gin context.
const (
	ContextLogger    = "logger"
	ContextRequestID = "requestID"
	ContextSessionID = "sessionID"
	ContextAuth      = "authSession"
)

// SessionCookieName is the signed web session cookie.
const SessionCookieName = "gls_session"

// LoginPath is where the browser is sent when a protected call is refused.
const LoginPath = "/login"
