package records

import (
	"context"
	"database/sql"
	"time"

	"contract-backend/internal/analysis"
)

// PGRepo implements Repo using Postgres. The (owner, created_at) primary
// key gives the same overwrite-on-collision behavior as the file layout.
type PGRepo struct {
	DB        *sql.DB
	Now       func() time.Time
	OnCorrupt CorruptHandler
}

// Save upserts the record for owner at the current second.
func (r *PGRepo) Save(ctx context.Context, owner string, payload analysis.Result) (string, error) {
	rec, err := newRecord(owner, payload, nowFunc(r.Now)())
	if err != nil {
		return "", err
	}
	const query = `
INSERT INTO contract_records (owner, created_at, word_count, summary, health)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (owner, created_at) DO UPDATE
SET word_count = EXCLUDED.word_count,
	summary = EXCLUDED.summary,
	health = EXCLUDED.health`
	if _, err := r.DB.ExecContext(ctx, query, rec.Owner, rec.CreatedAt, rec.WordCount, rec.Summary, string(rec.Health)); err != nil {
		if isContextErr(err) {
			return "", err
		}
		return "", unavailable("save record "+rec.ID, err)
	}
	return rec.ID, nil
}

// ListOwners returns the distinct owners, sorted.
func (r *PGRepo) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT owner FROM contract_records ORDER BY owner`)
	if err != nil {
		return nil, wrapQueryErr("list owners", err)
	}
	defer rows.Close()

	owners := make([]string, 0)
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("list owners", err)
	}
	return owners, nil
}

// LoadAll returns the records of owner, oldest first.
func (r *PGRepo) LoadAll(ctx context.Context, owner string) ([]StoredRecord, error) {
	if err := ValidateOwner(owner); err != nil {
		return nil, err
	}
	const query = `
SELECT owner, created_at, word_count, summary, health
FROM contract_records
WHERE owner = $1
ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, wrapQueryErr("load records", err)
	}
	defer rows.Close()

	out := make([]StoredRecord, 0)
	for rows.Next() {
		var (
			rec    StoredRecord
			health string
		)
		if err := rows.Scan(&rec.Owner, &rec.CreatedAt, &rec.WordCount, &rec.Summary, &health); err != nil {
			return nil, err
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		rec.ID = FormatID(rec.Owner, rec.CreatedAt)
		rec.Health = analysis.Health(health)
		res, err := checkResult(rec.Result)
		if err != nil {
			reportCorrupt(ctx, r.OnCorrupt, rec.ID, err)
			continue
		}
		rec.Result = res
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("load records", err)
	}
	return out, nil
}

// LoadAllOwners returns the records of every owner.
func (r *PGRepo) LoadAllOwners(ctx context.Context) (map[string][]StoredRecord, error) {
	return loadAllOwners(ctx, r)
}

func wrapQueryErr(op string, err error) error {
	if isContextErr(err) {
		return err
	}
	return unavailable(op, err)
}

var _ Repo = (*PGRepo)(nil)
