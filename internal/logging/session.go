package logging

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// sessionField is the logrus field carrying the login session id.
const sessionField = "session"

type sessionIDKey struct{}

// WithSessionID returns a new context carrying the login session id.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// GetSessionID retrieves the login session id from the context.
// Returns empty string if not found.
func GetSessionID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}

// FromContext returns a log entry tagged with the context's login session, if any.
func FromContext(ctx context.Context) *log.Entry {
	entry := log.NewEntry(log.StandardLogger())
	if id := GetSessionID(ctx); id != "" {
		entry = entry.WithField(sessionField, id)
	}
	return entry
}

func shortSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
