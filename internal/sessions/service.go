package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"contract-backend/internal/analysis"
	"contract-backend/internal/shared/auth"
	"contract-backend/internal/shared/telemetry"
)

// Service handles sign-in, sign-out and per-session pending analyses.
// Any non-empty username and password pair is accepted.
type Service struct {
	Store  Store
	Signer *auth.Signer
	Now    func() time.Time
	NewID  func() string
}

// NewService wires a Service with the default clock and ID source.
func NewService(store Store, signer *auth.Signer) *Service {
	return &Service{Store: store, Signer: signer}
}

// Login starts a new session for username and returns its token.
func (s *Service) Login(ctx context.Context, username, password string) (string, Session, error) {
	if username == "" || password == "" {
		return "", Session{}, ErrInvalidCredentials
	}
	sess := Session{
		ID:        s.newID(),
		Username:  username,
		StartedAt: s.now().UTC(),
	}
	if err := s.Store.Create(ctx, sess); err != nil {
		return "", Session{}, fmt.Errorf("create session: %w", err)
	}
	token, err := s.Signer.Sign(sess.Username, sess.ID)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign token: %w", err)
	}
	telemetry.Info("session.start", map[string]any{
		"username":  sess.Username,
		"sessionId": sess.ID,
	})
	return token, sess, nil
}

// Signup registers nothing and behaves like Login.
func (s *Service) Signup(ctx context.Context, username, password string) (string, Session, error) {
	return s.Login(ctx, username, password)
}

// Authenticate resolves a token to its active session.
func (s *Service) Authenticate(ctx context.Context, token string) (Session, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return Session{}, err
	}
	sess, err := s.Store.Get(ctx, claims.SessionID)
	if err != nil {
		return Session{}, err
	}
	if sess.Username != claims.Subject {
		return Session{}, auth.ErrInvalidToken
	}
	if !sess.Active() {
		return Session{}, ErrSessionEnded
	}
	return sess, nil
}

// Logout ends the session. Ending an already ended session is a no-op.
func (s *Service) Logout(ctx context.Context, sess Session) error {
	if err := s.Store.End(ctx, sess.ID, s.now()); err != nil {
		return err
	}
	telemetry.Info("session.end", map[string]any{
		"username":  sess.Username,
		"sessionId": sess.ID,
	})
	return nil
}

// SetPending stores res as the session's latest unevaluated analysis.
func (s *Service) SetPending(ctx context.Context, sess Session, res analysis.Result) (Session, error) {
	sess.Pending = &res
	if err := s.Store.Update(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// ClearPending drops the session's pending analysis.
func (s *Service) ClearPending(ctx context.Context, sess Session) (Session, error) {
	if sess.Pending == nil {
		return sess, nil
	}
	sess.Pending = nil
	if err := s.Store.Update(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// List returns every recorded session.
func (s *Service) List(ctx context.Context) ([]Session, error) {
	return s.Store.List(ctx)
}

// IsAuthError reports whether err means the caller is not signed in.
func IsAuthError(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrSessionEnded)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
