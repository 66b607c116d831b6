package admin

import (
	"context"
	"sort"
	"time"

	"contract-backend/internal/records"
	"contract-backend/internal/sessions"
)

// OwnerRecords lists one owner's saved records, oldest first.
type OwnerRecords struct {
	Owner   string                 `json:"owner"`
	Records []records.StoredRecord `json:"records"`
}

// Summary aggregates every saved record across owners.
type Summary struct {
	TotalRecords int            `json:"totalContracts"`
	TotalOwners  int            `json:"totalUsers"`
	Owners       []OwnerRecords `json:"owners"`
}

// SessionLog is one login as shown to administrators.
type SessionLog struct {
	Username      string     `json:"username"`
	SessionID     string     `json:"sessionId"`
	LoginTime     time.Time  `json:"loginTime"`
	LogoutTime    *time.Time `json:"logoutTime,omitempty"`
	Active        bool       `json:"active"`
	LengthSeconds int64      `json:"sessionLengthSeconds"`
}

// SessionLister lists recorded sessions.
type SessionLister interface {
	List(ctx context.Context) ([]sessions.Session, error)
}

// Service builds read-only administrative views. It holds no state.
type Service struct {
	Records  records.Repo
	Sessions SessionLister
	Now      func() time.Time
}

// NewService constructs a Service.
func NewService(repo records.Repo, sessionLister SessionLister) *Service {
	return &Service{Records: repo, Sessions: sessionLister}
}

// Summary returns record and owner totals with a per-owner enumeration.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	byOwner, err := s.Records.LoadAllOwners(ctx)
	if err != nil {
		return Summary{}, err
	}
	owners := make([]string, 0, len(byOwner))
	for owner := range byOwner {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	out := Summary{TotalOwners: len(owners), Owners: make([]OwnerRecords, 0, len(owners))}
	for _, owner := range owners {
		recs := byOwner[owner]
		out.TotalRecords += len(recs)
		out.Owners = append(out.Owners, OwnerRecords{Owner: owner, Records: recs})
	}
	return out, nil
}

// SessionLogs returns login records, oldest first.
func (s *Service) SessionLogs(ctx context.Context) ([]SessionLog, error) {
	list, err := s.Sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	out := make([]SessionLog, 0, len(list))
	for _, sess := range list {
		out = append(out, SessionLog{
			Username:      sess.Username,
			SessionID:     sess.ID,
			LoginTime:     sess.StartedAt,
			LogoutTime:    sess.EndedAt,
			Active:        sess.Active(),
			LengthSeconds: int64(sess.Length(now) / time.Second),
		})
	}
	return out, nil
}
