package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"ENV", "RECORD_STORE", "RECORDS_DIR", "SESSION_TTL", "ADMIN_USERNAME", "MAX_UPLOAD_BYTES", "PORT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.RecordStore != StoreLocal {
		t.Fatalf("expected local store, got %q", cfg.RecordStore)
	}
	if cfg.RecordsDir != "saved_contracts" {
		t.Fatalf("expected saved_contracts, got %q", cfg.RecordsDir)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %s", cfg.SessionTTL)
	}
	if cfg.AdminUsername != "admin" {
		t.Fatalf("expected admin username, got %q", cfg.AdminUsername)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("unexpected max upload: %d", cfg.MaxUploadBytes)
	}
	if !cfg.IsDevLike() {
		t.Fatal("expected dev-like config")
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("RECORD_STORE", "PG")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	t.Setenv("CORS_ALLOW_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.RecordStore != StorePostgres {
		t.Fatalf("expected postgres, got %q", cfg.RecordStore)
	}
	if cfg.SessionTTL != 90*time.Minute {
		t.Fatalf("expected 90m, got %s", cfg.SessionTTL)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected default upload size on bad input, got %d", cfg.MaxUploadBytes)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ADMIN_USERNAME=root\n# comment\nRECORDS_DIR=\"contracts\"\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	os.Unsetenv("ADMIN_USERNAME")
	os.Unsetenv("RECORDS_DIR")
	t.Cleanup(func() {
		os.Unsetenv("ADMIN_USERNAME")
		os.Unsetenv("RECORDS_DIR")
	})

	cfg := Load()
	if cfg.AdminUsername != "root" {
		t.Fatalf("expected admin from .env, got %q", cfg.AdminUsername)
	}
	if cfg.RecordsDir != "contracts" {
		t.Fatalf("expected records dir from .env, got %q", cfg.RecordsDir)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}
