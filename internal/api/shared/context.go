package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// SessionKey is the key for the caller's cookie session
	SessionKey ContextKey = "session"

	// TraceIDLength is the length of a trace ID in hex characters
	TraceIDLength = 32
)

// Session value keys.
const (
	SessionIDValue = "id"
	LastTermValue  = "last_term"
	PageTestValue  = "page_test"
)

// SetTraceID adds a new trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithSession stores the request's cookie session in the context.
func WithSession(ctx context.Context, s *sessions.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// GetSession returns the cookie session stored by the session middleware.
func GetSession(ctx context.Context) (*sessions.Session, bool) {
	s, ok := ctx.Value(SessionKey).(*sessions.Session)
	return s, ok && s != nil
}

// SessionString reads a string value from the session in ctx.
func SessionString(ctx context.Context, key string) string {
	s, ok := GetSession(ctx)
	if !ok {
		return ""
	}
	v, _ := s.Values[key].(string)
	return v
}

// GetSessionID returns the ID of the caller's session, or "" outside the
// session middleware.
func GetSessionID(ctx context.Context) string {
	return SessionString(ctx, SessionIDValue)
}
