package database

import (
	"path/filepath"
	"testing"

	"github.com/ecoloop/core/internal/infrastructure/config"
)

func openSQLite(t *testing.T) *DB {
	t.Helper()
	cfg := config.DatabaseConfig{SQLitePath: filepath.Join(t.TempDir(), "eco.db")}
	db, err := New(config.BackendSQLite, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openSQLite(t)

	for i := 0; i < 2; i++ {
		if err := db.Migrate(); err != nil {
			t.Fatalf("migrate pass %d: %v", i, err)
		}
	}

	var n int
	if err := db.DB.Get(&n, "SELECT COUNT(*) FROM documents"); err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty table, got %d rows", n)
	}
}

func TestHealthCheck(t *testing.T) {
	db := openSQLite(t)
	if err := db.HealthCheck(); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	info := db.GetConnectionInfo()
	if info["driver"] != DriverSQLite || info["max_open_connections"] != 1 {
		t.Fatalf("info=%v", info)
	}
}

func TestNewRejectsNonSQLBackend(t *testing.T) {
	if _, err := New(config.BackendJSON, config.DatabaseConfig{}); err == nil {
		t.Fatal("expected error")
	}
}
