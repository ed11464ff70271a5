package auth

import (
	"context"
	"strconv"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventLoginSuccess    ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure    ActivityEventType = "auth.login.failure"
	ActivityEventTokenRefreshed  ActivityEventType = "auth.token.refreshed"
	ActivityEventUserRegistered  ActivityEventType = "auth.user.registered"
	ActivityEventAccountCooldown ActivityEventType = "auth.login.cooldown"
)

// ActivityEvent captures audit-friendly information about an action.
type ActivityEvent struct {
	EventType  ActivityEventType
	UserID     string
	Email      string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
// Sinks run best-effort: errors are logged, never propagated, so a slow or
// broken sink cannot block authentication.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}

func (s *Auther) recordActivity(ctx context.Context, eventType ActivityEventType, identity Identity, meta map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		Metadata:   meta,
		OccurredAt: time.Now().UTC(),
	}

	if identity != nil {
		event.UserID = formatActivityUserID(identity.ID())
		event.Email = identity.Email()
	}

	if err := s.activity.Record(ctx, event); err != nil {
		s.logger.Error("activity sink error: %s", err)
	}
}

func formatActivityUserID(id int64) string {
	return strconv.FormatInt(id, 10)
}
