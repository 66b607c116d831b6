package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"contract-backend/internal/analysis"
)

func newPGRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoSaveUpsertsOnOwnerAndSecond(t *testing.T) {
	repo, mock := newPGRepo(t)
	now := time.Date(2024, 7, 5, 9, 0, 0, 500, time.UTC)
	repo.Now = func() time.Time { return now }

	mock.ExpectExec("INSERT INTO contract_records .* ON CONFLICT \\(owner, created_at\\) DO UPDATE").
		WithArgs("alice", now.Truncate(time.Second), 3, "one two three", "Unhealthy").
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Save(context.Background(), "alice", analysis.Analyze("one two three"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id != "alice_20240705_090000" {
		t.Fatalf("unexpected id %q", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveWrapsStorageErrors(t *testing.T) {
	repo, mock := newPGRepo(t)
	mock.ExpectExec("INSERT INTO contract_records").WillReturnError(errors.New("connection refused"))

	_, err := repo.Save(context.Background(), "alice", analysis.Analyze("x"))
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestPGRepoListOwners(t *testing.T) {
	repo, mock := newPGRepo(t)
	mock.ExpectQuery("SELECT DISTINCT owner FROM contract_records ORDER BY owner").
		WillReturnRows(sqlmock.NewRows([]string{"owner"}).AddRow("alice").AddRow("bob"))

	owners, err := repo.ListOwners(context.Background())
	if err != nil {
		t.Fatalf("ListOwners: %v", err)
	}
	if len(owners) != 2 || owners[0] != "alice" || owners[1] != "bob" {
		t.Fatalf("unexpected owners %v", owners)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoLoadAllSkipsInconsistentRows(t *testing.T) {
	repo, mock := newPGRepo(t)
	var skipped []string
	repo.OnCorrupt = func(_ context.Context, err *CorruptRecordError) {
		skipped = append(skipped, err.Key)
	}

	t1 := time.Date(2024, 7, 5, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	rows := sqlmock.NewRows([]string{"owner", "created_at", "word_count", "summary", "health"}).
		AddRow("alice", t1, 250, "long", "Healthy").
		AddRow("alice", t2, 5, "short", "Healthy")
	mock.ExpectQuery("SELECT owner, created_at, word_count, summary, health").
		WithArgs("alice").
		WillReturnRows(rows)

	recs, err := repo.LoadAll(context.Background(), "alice")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "alice_20240705_090000" || recs[0].Health != analysis.Healthy {
		t.Fatalf("unexpected records %+v", recs)
	}
	if len(skipped) != 1 || skipped[0] != "alice_20240705_090100" {
		t.Fatalf("expected one skipped record, got %v", skipped)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoLoadAllOwnersAggregates(t *testing.T) {
	repo, mock := newPGRepo(t)
	ts := time.Date(2024, 7, 5, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT DISTINCT owner").
		WillReturnRows(sqlmock.NewRows([]string{"owner"}).AddRow("alice").AddRow("bob"))
	mock.ExpectQuery("SELECT owner, created_at").WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"owner", "created_at", "word_count", "summary", "health"}).
			AddRow("alice", ts, 1, "a", "Unhealthy"))
	mock.ExpectQuery("SELECT owner, created_at").WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"owner", "created_at", "word_count", "summary", "health"}).
			AddRow("bob", ts, 2, "b c", "Unhealthy").
			AddRow("bob", ts.Add(time.Second), 3, "b c d", "Unhealthy"))

	all, err := repo.LoadAllOwners(context.Background())
	if err != nil {
		t.Fatalf("LoadAllOwners: %v", err)
	}
	if len(all["alice"]) != 1 || len(all["bob"]) != 2 {
		t.Fatalf("unexpected aggregation %+v", all)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
