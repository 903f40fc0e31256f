package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTempDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return sqlDB
}

func TestApplyMigrationsRunsInLexicalOrder(t *testing.T) {
	sqlDB := openTempDB(t)
	migrationFS := fstest.MapFS{
		"0002_add_column.sql": &fstest.MapFile{
			Data: []byte(`ALTER TABLE items ADD COLUMN label TEXT NOT NULL DEFAULT '';`),
		},
		"0001_create_table.sql": &fstest.MapFile{
			Data: []byte(`CREATE TABLE items (id INTEGER PRIMARY KEY);`),
		},
		"notes.txt": &fstest.MapFile{Data: []byte("not a migration")},
	}

	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	// The ALTER only succeeds if the CREATE ran first.
	if _, err := sqlDB.Exec(`INSERT INTO items (id, label) VALUES (1, 'sword')`); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}

	var applied int
	row := sqlDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`)
	if err := row.Scan(&applied); err != nil {
		t.Fatalf("count applied migrations: %v", err)
	}
	if applied != 2 {
		t.Fatalf("applied migrations = %d, want 2", applied)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	sqlDB := openTempDB(t)
	migrationFS := fstest.MapFS{
		"0001_create_table.sql": &fstest.MapFile{
			Data: []byte(`CREATE TABLE items (id INTEGER PRIMARY KEY);`),
		},
	}

	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
			t.Fatalf("apply migrations pass %d: %v", i+1, err)
		}
	}

	var applied int
	row := sqlDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, "0001_create_table.sql")
	if err := row.Scan(&applied); err != nil {
		t.Fatalf("count applied migrations: %v", err)
	}
	if applied != 1 {
		t.Fatalf("migration recorded %d times, want 1", applied)
	}
}

func TestApplyMigrationsSkipsEmptyFiles(t *testing.T) {
	sqlDB := openTempDB(t)
	migrationFS := fstest.MapFS{
		"0001_placeholder.sql": &fstest.MapFile{Data: []byte("  \n")},
	}

	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
}

func TestApplyMigrationsSurfacesBadSQL(t *testing.T) {
	sqlDB := openTempDB(t)
	migrationFS := fstest.MapFS{
		"0001_broken.sql": &fstest.MapFile{Data: []byte(`CREATE TABEL broken (id INTEGER);`)},
	}

	if err := ApplyMigrations(sqlDB, migrationFS); err == nil {
		t.Fatal("expected error for invalid migration SQL")
	}
}
