package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "ecoloop", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(NewPlasticsCommand())
	root.AddCommand(NewReportCommand())
	root.AddCommand(NewTransactionsCommand())
	root.AddCommand(NewHashPasswordCommand())
	root.AddCommand(NewVersionCommand())
	root.AddCommand(NewMigrateCommand())
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func useJSONStore(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "db.json")
	t.Setenv("STORE_BACKEND", "json")
	t.Setenv("STORE_PATH", path)
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func TestPlasticsAddAndReport(t *testing.T) {
	useJSONStore(t)

	for i, qty := range []string{"5", "2.5"} {
		out, err := run(t, "plastics", "add", "--company", "Acme", "--quantity", qty)
		if err != nil {
			t.Fatalf("plastics add: %v", err)
		}
		if !strings.Contains(out, "ID: "+string(rune('1'+i))) {
			t.Fatalf("output=%q", out)
		}
	}

	out, err := run(t, "report", "Acme")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"QUANTITY", "5", "2.5", "false", "TOTAL", "7.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "transactions", "list")
	if err != nil {
		t.Fatalf("transactions list: %v", err)
	}
	if !strings.HasPrefix(out, "ID") || strings.Count(out, "\n") != 1 {
		t.Fatalf("transactions=%q", out)
	}
}

func TestPlasticsAddValidation(t *testing.T) {
	useJSONStore(t)

	if _, err := run(t, "plastics", "add", "--quantity", "3"); err == nil {
		t.Fatal("expected error without company")
	}
	if _, err := run(t, "plastics", "add", "--company", "Acme", "--quantity", "-1"); err == nil {
		t.Fatal("expected error for negative quantity")
	}
}

func TestMigrateRejectsNonSQLBackend(t *testing.T) {
	useJSONStore(t)

	if _, err := run(t, "migrate", "up"); err == nil {
		t.Fatal("expected error for the json backend")
	}
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "hash-password", "s3cret")
	if err != nil {
		t.Fatalf("hash-password: %v", err)
	}

	hash := strings.TrimSpace(out)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
		t.Fatalf("hash %q does not match: %v", hash, err)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "EcoLoop v"+Version) {
		t.Fatalf("output=%q", out)
	}
}

func TestMigrateSQLite(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(dir, "ecoloop.db"))

	out, err := run(t, "migrate", "version")
	if err != nil || !strings.Contains(out, "No migrations applied") {
		t.Fatalf("version before up: %q %v", out, err)
	}

	if out, err := run(t, "migrate", "up"); err != nil || !strings.Contains(out, "completed successfully") {
		t.Fatalf("up: %q %v", out, err)
	}
	if out, err := run(t, "migrate", "up"); err != nil || !strings.Contains(out, "No migrations to run") {
		t.Fatalf("second up: %q %v", out, err)
	}

	out, err = run(t, "migrate", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "Current migration version: 1") || !strings.Contains(out, "Dirty: false") {
		t.Fatalf("version=%q", out)
	}
}
