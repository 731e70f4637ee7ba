package domain

// SessionState is the lifecycle state of the session store.
type SessionState string

const (
	SessionUninitialized   SessionState = "uninitialized"
	SessionRestoring       SessionState = "restoring"
	SessionAuthenticated   SessionState = "authenticated"
	SessionUnauthenticated SessionState = "unauthenticated"
)

// OpResult is the uniform outcome value for session and tenant operations.
// These operations never let an error escape to the caller: failures are
// folded into Message (human readable) and Code (machine readable).
type OpResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Ok builds a successful OpResult.
func Ok(message string) OpResult {
	return OpResult{Success: true, Message: message}
}

// Fail builds a failed OpResult.
func Fail(message, code string) OpResult {
	return OpResult{Success: false, Message: message, Code: code}
}
