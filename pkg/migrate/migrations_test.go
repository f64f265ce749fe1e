package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestInitMigrationCreatesOrderBookTables(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}

	var initFile string
	for _, e := range entries {
		if strings.Contains(e.Name(), "init_order_book") {
			initFile = filepath.Join("migrations", e.Name())
		}
	}
	if initFile == "" {
		t.Fatal("expected init_order_book migration")
	}

	b, err := os.ReadFile(initFile)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	sql := string(b)

	for _, table := range []string{"orders", "order_items", "tokens", "users"} {
		if !strings.Contains(sql, "CREATE TABLE "+table) {
			t.Fatalf("expected migration to create table %s", table)
		}
	}
	if !strings.Contains(sql, "idx_order_items_token") {
		t.Fatal("expected token identity index on order_items")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Taker Index!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_taker_index.sql") {
		t.Fatalf("unexpected filename %q", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration failed validation: %v", err)
	}
}
