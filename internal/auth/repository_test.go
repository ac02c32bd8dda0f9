package auth

import (
	"context"
	"errors"
	"testing"
)

func TestAccountRepository_CreateAndGetByID(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	hash, _ := HashPassword("password123")
	account := &Account{
		Username:     "mihai",
		Email:        "mihai@example.com",
		FirstName:    "Mihai",
		Phone:        "+40721000000",
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if account.ID == "" {
		t.Fatal("Create() should generate an ID")
	}

	got, err := repo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Username != "mihai" {
		t.Errorf("Username = %q, want %q", got.Username, "mihai")
	}
	if got.Email != "mihai@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "mihai@example.com")
	}
	if got.FirstName != "Mihai" {
		t.Errorf("FirstName = %q, want %q", got.FirstName, "Mihai")
	}
	if got.Phone != "+40721000000" {
		t.Errorf("Phone = %q, want %q", got.Phone, "+40721000000")
	}
	if got.IsSuperuser {
		t.Error("IsSuperuser should default to false")
	}
	if !got.IsActive {
		t.Error("IsActive should be true")
	}
	if got.PasswordHash == "" {
		t.Error("PasswordHash should be populated")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestAccountRepository_GetByUsername(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	seedTestAccount(t, db, "ana", false)

	got, err := repo.GetByUsername(ctx, "ana")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.Username != "ana" {
		t.Errorf("Username = %q, want %q", got.Username, "ana")
	}

	_, err = repo.GetByUsername(ctx, "nobody")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetByUsername(missing) error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountRepository_DuplicateUsername(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	seedTestAccount(t, db, "ana", false)

	hash, _ := HashPassword("other-password")
	dup := &Account{Username: "ana", PasswordHash: hash, IsActive: true}

	err := repo.Create(ctx, dup)
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("Create(duplicate) error = %v, want ErrUsernameExists", err)
	}
}

func TestAccountRepository_List(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	accounts, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("List() on empty db = %d accounts, want 0", len(accounts))
	}

	seedTestAccount(t, db, "ana", false)
	seedTestAccount(t, db, "mihai", true)

	accounts, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("List() = %d accounts, want 2", len(accounts))
	}
}

func TestAccountRepository_Update(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := seedTestAccount(t, db, "ana", false)

	account.Email = "ana@example.com"
	account.FirstName = "Ana"
	account.IsSuperuser = true

	if err := repo.Update(ctx, account); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Email != "ana@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "ana@example.com")
	}
	if got.FirstName != "Ana" {
		t.Errorf("FirstName = %q, want %q", got.FirstName, "Ana")
	}
	if !got.IsSuperuser {
		t.Error("IsSuperuser should be true after update")
	}
}

func TestAccountRepository_Update_NotFound(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)

	err := repo.Update(context.Background(), &Account{ID: "acc-missing"})
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountRepository_UpdatePassword(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := seedTestAccount(t, db, "ana", false)

	newHash, _ := HashPassword("new-password")
	if err := repo.UpdatePassword(ctx, account.ID, newHash); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}

	got, err := repo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	ok, err := VerifyPassword("new-password", got.PasswordHash)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !ok {
		t.Error("new password should verify after UpdatePassword()")
	}
}

func TestAccountRepository_Delete(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := seedTestAccount(t, db, "ana", false)

	if err := repo.Delete(ctx, account.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := repo.GetByID(ctx, account.ID)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrAccountNotFound", err)
	}

	err = repo.Delete(ctx, account.ID)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountRepository_Count(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}

	seedTestAccount(t, db, "ana", false)

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"mihai", true},
		{"ana.popescu", true},
		{"user_42", true},
		{"a-b", true},
		{"", false},
		{"has space", false},
		{"emojié", false},
		{"waytoolong" + string(make([]byte, 64)), false},
	}

	for _, tt := range tests {
		if got := IsValidUsername(tt.username); got != tt.want {
			t.Errorf("IsValidUsername(%q) = %v, want %v", tt.username, got, tt.want)
		}
	}
}
