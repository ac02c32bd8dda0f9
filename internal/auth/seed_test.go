package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeedSuperuser_EmptyDatabase(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	password, err := SeedSuperuser(ctx, repo, discardLogger())
	if err != nil {
		t.Fatalf("SeedSuperuser() error = %v", err)
	}
	if password == "" {
		t.Fatal("SeedSuperuser() should return the generated password")
	}

	admin, err := repo.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetByUsername(admin) error = %v", err)
	}
	if !admin.IsSuperuser {
		t.Error("seeded account should be a superuser")
	}
	if !admin.IsActive {
		t.Error("seeded account should be active")
	}

	ok, err := VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !ok {
		t.Error("generated password should verify against stored hash")
	}
}

func TestSeedSuperuser_SkipsWhenAccountsExist(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	seedTestAccount(t, db, "mihai", false)

	password, err := SeedSuperuser(ctx, repo, discardLogger())
	if err != nil {
		t.Fatalf("SeedSuperuser() error = %v", err)
	}
	if password != "" {
		t.Error("SeedSuperuser() should not seed when accounts exist")
	}

	if _, err := repo.GetByUsername(ctx, "admin"); err == nil {
		t.Error("admin account should not exist after skipped seed")
	}
}
