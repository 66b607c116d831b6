package records

import (
	"context"
	"sync"
	"time"

	"contract-backend/internal/analysis"
)

// MemoryRepo stores records in memory and is safe for concurrent use.
type MemoryRepo struct {
	Now func() time.Time

	mu   sync.RWMutex
	byID map[string]StoredRecord
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]StoredRecord)}
}

// Save stores the record, replacing one with the same ID.
func (r *MemoryRepo) Save(ctx context.Context, owner string, payload analysis.Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec, err := newRecord(owner, payload, nowFunc(r.Now)())
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rec.ID] = rec
	return rec.ID, nil
}

// ListOwners returns the distinct owners, sorted.
func (r *MemoryRepo) ListOwners(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := make(map[string]struct{})
	for _, rec := range r.byID {
		set[rec.Owner] = struct{}{}
	}
	return sortedOwners(set), nil
}

// LoadAll returns the records of owner in ascending ID order.
func (r *MemoryRepo) LoadAll(ctx context.Context, owner string) ([]StoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateOwner(owner); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]StoredRecord, 0)
	for _, rec := range r.byID {
		if rec.Owner == owner {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()
	sortRecords(out)
	return out, nil
}

// LoadAllOwners returns the records of every owner.
func (r *MemoryRepo) LoadAllOwners(ctx context.Context) (map[string][]StoredRecord, error) {
	return loadAllOwners(ctx, r)
}

var _ Repo = (*MemoryRepo)(nil)
