package records

import (
	"context"
	"database/sql"
	"time"

	"contract-backend/internal/analysis"
)

// SQLiteRepo implements Repo on an embedded SQLite file. created_at holds
// the record-id timestamp text so ordering by it is chronological.
type SQLiteRepo struct {
	DB        *sql.DB
	Now       func() time.Time
	OnCorrupt CorruptHandler
}

// Save replaces any record with the same owner and second.
func (r *SQLiteRepo) Save(ctx context.Context, owner string, payload analysis.Result) (string, error) {
	rec, err := newRecord(owner, payload, nowFunc(r.Now)())
	if err != nil {
		return "", err
	}
	const query = `
INSERT OR REPLACE INTO contract_records (owner, created_at, word_count, summary, health)
VALUES (?, ?, ?, ?, ?)`
	stamp := rec.CreatedAt.Format(TimestampLayout)
	if _, err := r.DB.ExecContext(ctx, query, rec.Owner, stamp, rec.WordCount, rec.Summary, string(rec.Health)); err != nil {
		if isContextErr(err) {
			return "", err
		}
		return "", unavailable("save record "+rec.ID, err)
	}
	return rec.ID, nil
}

// ListOwners returns the distinct owners, sorted.
func (r *SQLiteRepo) ListOwners(ctx context.Context) ([]string, error) {
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

// LoadAll returns the records of owner, oldest first. Rows whose timestamp
// or health cannot be read are reported and skipped.
func (r *SQLiteRepo) LoadAll(ctx context.Context, owner string) ([]StoredRecord, error) {
	if err := ValidateOwner(owner); err != nil {
		return nil, err
	}
	const query = `
SELECT owner, created_at, word_count, summary, health
FROM contract_records
WHERE owner = ?
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
			stamp  string
			health string
		)
		if err := rows.Scan(&rec.Owner, &stamp, &rec.WordCount, &rec.Summary, &health); err != nil {
			return nil, err
		}
		rec.ID = rec.Owner + idSeparator + stamp
		createdAt, err := time.ParseInLocation(TimestampLayout, stamp, time.UTC)
		if err != nil {
			reportCorrupt(ctx, r.OnCorrupt, rec.ID, err)
			continue
		}
		rec.CreatedAt = createdAt
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
func (r *SQLiteRepo) LoadAllOwners(ctx context.Context) (map[string][]StoredRecord, error) {
	return loadAllOwners(ctx, r)
}

var _ Repo = (*SQLiteRepo)(nil)
