package records

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"contract-backend/internal/analysis"
	"contract-backend/internal/shared/storage/object"
)

// ObjectRepo stores one JSON object per record in an ObjectStore, named
// "<owner>_<YYYYMMDD_HHMMSS>.json".
type ObjectRepo struct {
	Store     object.ObjectStore
	Now       func() time.Time
	OnCorrupt CorruptHandler
}

// NewObjectRepo constructs an ObjectRepo over store.
func NewObjectRepo(store object.ObjectStore) *ObjectRepo {
	return &ObjectRepo{Store: store}
}

// Save writes payload under a fresh ID. A record saved by the same owner
// in the same second is overwritten.
func (r *ObjectRepo) Save(ctx context.Context, owner string, payload analysis.Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec, err := newRecord(owner, payload, nowFunc(r.Now)())
	if err != nil {
		return "", err
	}
	body, err := encodeRecord(rec.Result)
	if err != nil {
		return "", err
	}
	if _, err := r.Store.Put(ctx, ObjectKey(rec.ID), "application/json", bytes.NewReader(body)); err != nil {
		if isContextErr(err) {
			return "", err
		}
		return "", unavailable("save record "+rec.ID, err)
	}
	return rec.ID, nil
}

// ListOwners derives owners from the stored keys.
func (r *ObjectRepo) ListOwners(ctx context.Context) ([]string, error) {
	keys, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, k := range keys {
		set[k.owner] = struct{}{}
	}
	return sortedOwners(set), nil
}

// LoadAll reads every record whose owner component equals owner exactly.
func (r *ObjectRepo) LoadAll(ctx context.Context, owner string) ([]StoredRecord, error) {
	if err := ValidateOwner(owner); err != nil {
		return nil, err
	}
	keys, err := r.list(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StoredRecord, 0)
	for _, k := range keys {
		if k.owner != owner {
			continue
		}
		res, err := r.read(ctx, k.key)
		if err != nil {
			if errors.Is(err, object.ErrNotExist) {
				continue
			}
			if errors.Is(err, ErrCorruptRecord) {
				var cre *CorruptRecordError
				if errors.As(err, &cre) {
					reportCorrupt(ctx, r.OnCorrupt, cre.Key, cre.Err)
				}
				continue
			}
			return nil, err
		}
		out = append(out, StoredRecord{
			ID:        k.id,
			Owner:     k.owner,
			CreatedAt: k.createdAt,
			Result:    res,
		})
	}
	sortRecords(out)
	return out, nil
}

// LoadAllOwners loads the records of every listed owner.
func (r *ObjectRepo) LoadAllOwners(ctx context.Context) (map[string][]StoredRecord, error) {
	return loadAllOwners(ctx, r)
}

type recordKey struct {
	key       string
	id        string
	owner     string
	createdAt time.Time
}

// list returns the recognised record keys, ignoring anything else in the store.
func (r *ObjectRepo) list(ctx context.Context) ([]recordKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := r.Store.List(ctx)
	if err != nil {
		if isContextErr(err) {
			return nil, err
		}
		return nil, unavailable("list records", err)
	}
	sort.Strings(names)
	out := make([]recordKey, 0, len(names))
	for _, name := range names {
		id, owner, createdAt, ok := idFromKey(name)
		if !ok {
			continue
		}
		out = append(out, recordKey{key: name, id: id, owner: owner, createdAt: createdAt})
	}
	return out, nil
}

func (r *ObjectRepo) read(ctx context.Context, key string) (analysis.Result, error) {
	rc, err := r.Store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotExist) || isContextErr(err) {
			return analysis.Result{}, err
		}
		return analysis.Result{}, unavailable("open record "+key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return analysis.Result{}, unavailable("read record "+key, err)
	}
	res, err := decodeRecord(data)
	if err != nil {
		return analysis.Result{}, &CorruptRecordError{Key: key, Err: err}
	}
	return res, nil
}

var _ Repo = (*ObjectRepo)(nil)
