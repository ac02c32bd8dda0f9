package auth

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/vparvu/clienthub/internal/infrastructure/database"
	_ "github.com/vparvu/clienthub/migrations"
)

// testDB opens a temporary SQLite database and applies the embedded
// migrations, so tests always run against the real schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "auth-test.db")

	db, err := database.Open(context.Background(), database.Config{
		Path:        dbPath,
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	return db.DB
}

// seedTestAccount inserts a test account and returns it.
func seedTestAccount(t *testing.T, db *sql.DB, username string, superuser bool) *Account {
	t.Helper()

	hash, err := HashPassword("test-password")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	repo := NewAccountRepository(db)
	account := &Account{
		Username:     username,
		FirstName:    username,
		PasswordHash: hash,
		IsSuperuser:  superuser,
		IsActive:     true,
	}
	if err := repo.Create(context.Background(), account); err != nil {
		t.Fatalf("creating test account %s: %v", username, err)
	}
	return account
}
