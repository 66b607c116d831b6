package sessions

import (
	"context"
	"time"
)

// Store persists sessions.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Update(ctx context.Context, s Session) error
	End(ctx context.Context, id string, at time.Time) error
	// List returns every known session, oldest login first.
	List(ctx context.Context) ([]Session, error)
}
