package records

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"contract-backend/internal/analysis"
	"contract-backend/internal/shared/metrics"
	"contract-backend/internal/shared/telemetry"
)

// Repo defines persistence operations for analysis records.
type Repo interface {
	// Save stores payload under a new ID derived from owner and the current second.
	Save(ctx context.Context, owner string, payload analysis.Result) (string, error)
	// ListOwners returns the distinct owners found among stored record IDs, sorted.
	ListOwners(ctx context.Context) ([]string, error)
	// LoadAll returns the records of owner in ascending ID order.
	LoadAll(ctx context.Context, owner string) ([]StoredRecord, error)
	// LoadAllOwners returns the records of every owner keyed by owner.
	LoadAllOwners(ctx context.Context) (map[string][]StoredRecord, error)
}

// CorruptHandler is invoked for each stored record skipped during a load.
type CorruptHandler func(ctx context.Context, err *CorruptRecordError)

// ReportCorrupt logs the skipped record and counts it.
func ReportCorrupt(_ context.Context, err *CorruptRecordError) {
	metrics.IncCorruptRecords()
	telemetry.L().Error("skipping corrupt record",
		zap.String("key", err.Key),
		zap.Error(err.Err),
	)
}

func reportCorrupt(ctx context.Context, h CorruptHandler, key string, cause error) {
	if h == nil {
		h = ReportCorrupt
	}
	h(ctx, &CorruptRecordError{Key: key, Err: cause})
}

type ownerLister interface {
	ListOwners(ctx context.Context) ([]string, error)
	LoadAll(ctx context.Context, owner string) ([]StoredRecord, error)
}

// loadAllOwners aggregates LoadAll over ListOwners.
func loadAllOwners(ctx context.Context, r ownerLister) (map[string][]StoredRecord, error) {
	owners, err := r.ListOwners(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]StoredRecord, len(owners))
	for _, owner := range owners {
		recs, err := r.LoadAll(ctx, owner)
		if err != nil {
			return nil, err
		}
		out[owner] = recs
	}
	return out, nil
}

func sortRecords(recs []StoredRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
}

func sortedOwners(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for owner := range set {
		out = append(out, owner)
	}
	sort.Strings(out)
	return out
}

func nowFunc(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

// newRecord validates inputs and builds the record Save will persist.
func newRecord(owner string, payload analysis.Result, now time.Time) (StoredRecord, error) {
	if err := ValidateOwner(owner); err != nil {
		return StoredRecord{}, err
	}
	if err := validatePayload(payload); err != nil {
		return StoredRecord{}, err
	}
	createdAt := now.UTC().Truncate(time.Second)
	return StoredRecord{
		ID:        FormatID(owner, createdAt),
		Owner:     owner,
		CreatedAt: createdAt,
		Result:    payload.Normalize(),
	}, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
