package utils

import "context"

type contextKey string

const SessionIDKey contextKey = "session_id"

// SetSessionContext stores the session id (called by middleware).
func SetSessionContext(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// GetSessionIDFromContext retrieves the session id safely.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok && id != ""
}

const newSessionKey contextKey = "new_session"

// MarkNewSession flags a session minted for the current request.
func MarkNewSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, newSessionKey, true)
}

// IsNewSession reports whether the request arrived without a valid token.
func IsNewSession(ctx context.Context) bool {
	v, _ := ctx.Value(newSessionKey).(bool)
	return v
}
