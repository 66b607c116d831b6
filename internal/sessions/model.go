package sessions

import (
	"time"

	"contract-backend/internal/analysis"
)

// Session is one login of a user. Pending holds the latest analysis that
// has not been evaluated yet.
type Session struct {
	ID        string           `json:"id"`
	Username  string           `json:"username"`
	StartedAt time.Time        `json:"startedAt"`
	EndedAt   *time.Time       `json:"endedAt,omitempty"`
	Pending   *analysis.Result `json:"pending,omitempty"`
}

// Active reports whether the session has not been ended.
func (s Session) Active() bool {
	return s.EndedAt == nil
}

// Length is the time between login and logout, or until now for active sessions.
func (s Session) Length(now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}
