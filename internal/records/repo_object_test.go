package records

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"contract-backend/internal/analysis"
	"contract-backend/internal/shared/storage/object/local"
)

func newLocalRepo(t *testing.T, now func() time.Time) (*ObjectRepo, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "saved_contracts")
	repo := NewObjectRepo(local.New(dir))
	repo.Now = now
	return repo, dir
}

func TestObjectRepoConformance(t *testing.T) {
	runRepoConformance(t, func(t *testing.T, now func() time.Time) Repo {
		repo, _ := newLocalRepo(t, now)
		return repo
	})
}

func TestObjectRepoWritesIndentedJSONFile(t *testing.T) {
	clk := newClock(time.Date(2024, 7, 5, 9, 30, 15, 0, time.UTC))
	repo, dir := newLocalRepo(t, clk.Now)

	id, err := repo.Save(context.Background(), "alice", analysis.Result{WordCount: 3, Summary: "one two three"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, id+".json"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	want := "{\n    \"word_count\": 3,\n    \"summary\": \"one two three\",\n    \"contract_health\": \"Unhealthy\"\n}"
	if string(data) != want {
		t.Fatalf("unexpected body:\n%s\nwant:\n%s", data, want)
	}
	if filepath.Base(filepath.Join(dir, id+".json")) != "alice_20240705_093015.json" {
		t.Fatalf("unexpected file name for id %q", id)
	}
}

func TestObjectRepoSkipsCorruptAndForeignFiles(t *testing.T) {
	clk := newClock(time.Date(2024, 7, 5, 9, 0, 0, 0, time.UTC))
	repo, dir := newLocalRepo(t, clk.Now)
	ctx := context.Background()

	if _, err := repo.Save(ctx, "alice", analysis.Analyze("good record")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	files := map[string]string{
		"alice_20240706_000000.json": "{not json",
		"alice_20240707_000000.json": `{"word_count": 500, "summary": "x", "contract_health": "Unhealthy"}`,
		"alice_20240708_000000.json": `{"summary": "missing count"}`,
		"notes.txt":                  "ignore me",
		"alice.json":                 "{}",
		"alice_2024_bad.json":        "{}",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	var skipped []string
	repo.OnCorrupt = func(_ context.Context, err *CorruptRecordError) {
		if !errors.Is(err, ErrCorruptRecord) {
			t.Errorf("expected ErrCorruptRecord, got %v", err)
		}
		skipped = append(skipped, err.Key)
	}

	recs, err := repo.LoadAll(ctx, "alice")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(recs) != 1 || recs[0].Summary != "good record" {
		t.Fatalf("expected only the good record, got %+v", recs)
	}
	if len(skipped) != 3 {
		t.Fatalf("expected 3 corrupt records reported, got %v", skipped)
	}

	owners, err := repo.ListOwners(ctx)
	if err != nil {
		t.Fatalf("ListOwners: %v", err)
	}
	if len(owners) != 1 || owners[0] != "alice" {
		t.Fatalf("expected [alice], got %v", owners)
	}
}

func TestObjectRepoDerivesHealthForLegacyRecords(t *testing.T) {
	repo, dir := newLocalRepo(t, nil)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := `{"word_count": 201, "summary": "legacy"}`
	if err := os.WriteFile(filepath.Join(dir, "zoe_20230101_120000.json"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	recs, err := repo.LoadAll(context.Background(), "zoe")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(recs) != 1 || recs[0].Health != analysis.Healthy {
		t.Fatalf("expected derived Healthy, got %+v", recs)
	}
	if !recs[0].CreatedAt.Equal(time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created_at %v", recs[0].CreatedAt)
	}
}

func TestObjectRepoUnwritableStorage(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	repo := NewObjectRepo(local.New(filepath.Join(blocker, "saved_contracts")))

	_, err := repo.Save(context.Background(), "alice", analysis.Analyze("x"))
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "alice_") {
		t.Fatalf("expected record id in error, got %v", err)
	}
}
