package device

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

	dbPath := filepath.Join(t.TempDir(), "device-test.db")

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

// seedTestOwner inserts an account row to satisfy the owner foreign key.
func seedTestOwner(t *testing.T, db *sql.DB, id string) {
	t.Helper()

	_, err := db.Exec(
		"INSERT INTO accounts (id, username, password_hash) VALUES (?, ?, 'x')",
		id, "user-"+id)
	if err != nil {
		t.Fatalf("seeding test owner %s: %v", id, err)
	}
}

// seedTestDevice inserts a device via the repository and returns it.
func seedTestDevice(t *testing.T, db *sql.DB, serial, ownerID string, devType DeviceType) *Device {
	t.Helper()

	repo := NewRepository(db)
	dev := &Device{
		SerialNumber: serial,
		Description:  "test device " + serial,
		Type:         devType,
		OwnerID:      ownerID,
	}
	if err := repo.Create(context.Background(), dev); err != nil {
		t.Fatalf("creating test device %s: %v", serial, err)
	}
	return dev
}
