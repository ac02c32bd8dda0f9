package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vparvu/clienthub/internal/infrastructure/config"
)

func testIssuer(t *testing.T) *Issuer {
	t.Helper()

	issuer, err := NewIssuer(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-characters-long",
		Algorithm:       "HS256",
		AccessTokenTTL:  15,
		RefreshTokenTTL: 10080,
	})
	if err != nil {
		t.Fatalf("NewIssuer() error = %v", err)
	}
	return issuer
}

func TestIssuer_IssueAndVerify(t *testing.T) {
	issuer := testIssuer(t)
	account := &Account{ID: "acc-0001", Username: "mihai", IsActive: true}

	pair, err := issuer.Issue(account)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("Issue() returned empty token in pair")
	}

	claims, err := issuer.Verify(pair.Access, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.Subject != "acc-0001" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "acc-0001")
	}
	if claims.Username != "mihai" {
		t.Errorf("Username = %q, want %q", claims.Username, "mihai")
	}
	if claims.Issuer != IssuerTag {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, IssuerTag)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("TokenType = %q, want %q", claims.TokenType, TokenTypeAccess)
	}
	if claims.ID == "" {
		t.Error("JTI (ID) should not be empty")
	}
}

func TestIssuer_Verify_WrongTokenType(t *testing.T) {
	issuer := testIssuer(t)
	account := &Account{ID: "acc-0001", Username: "mihai", IsActive: true}

	pair, err := issuer.Issue(account)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// A refresh token must never be accepted where an access token is wanted
	_, err = issuer.Verify(pair.Refresh, TokenTypeAccess)
	if !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("Verify(refresh as access) error = %v, want ErrWrongTokenType", err)
	}

	_, err = issuer.Verify(pair.Access, TokenTypeRefresh)
	if !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("Verify(access as refresh) error = %v, want ErrWrongTokenType", err)
	}
}

func TestIssuer_Verify_WrongSecret(t *testing.T) {
	issuer := testIssuer(t)
	account := &Account{ID: "acc-0001", Username: "mihai", IsActive: true}

	pair, err := issuer.Issue(account)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	other, err := NewIssuer(config.JWTConfig{
		Secret:    "a-completely-different-32-char-secret-here",
		Algorithm: "HS256",
	})
	if err != nil {
		t.Fatalf("NewIssuer() error = %v", err)
	}

	_, err = other.Verify(pair.Access, TokenTypeAccess)
	if !errors.Is(err, ErrTokenSignature) {
		t.Errorf("Verify() with wrong secret error = %v, want ErrTokenSignature", err)
	}
}

func TestIssuer_Verify_Expired(t *testing.T) {
	issuer := testIssuer(t)
	// Force an already-expired access token
	issuer.accessTTL = -time.Minute

	account := &Account{ID: "acc-0001", Username: "mihai", IsActive: true}
	pair, err := issuer.Issue(account)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = issuer.Verify(pair.Access, TokenTypeAccess)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() of expired token error = %v, want ErrTokenExpired", err)
	}
}

func TestIssuer_Verify_Malformed(t *testing.T) {
	issuer := testIssuer(t)

	_, err := issuer.Verify("not-a-valid-jwt", TokenTypeAccess)
	if !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify() of garbage error = %v, want ErrTokenMalformed", err)
	}
}

func TestIssuer_Refresh(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	issuer := testIssuer(t)
	ctx := context.Background()

	account := seedTestAccount(t, db, "mihai", false)

	pair, err := issuer.Issue(account)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	access, err := issuer.Refresh(ctx, pair.Refresh, repo)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	claims, err := issuer.Verify(access, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Verify() of refreshed token error = %v", err)
	}
	if claims.Subject != account.ID {
		t.Errorf("Subject = %q, want %q", claims.Subject, account.ID)
	}
}

func TestIssuer_Refresh_AccessTokenRejected(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	issuer := testIssuer(t)

	account := seedTestAccount(t, db, "mihai", false)
	pair, err := issuer.Issue(account)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = issuer.Refresh(context.Background(), pair.Access, repo)
	if !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("Refresh() with access token error = %v, want ErrWrongTokenType", err)
	}
}

func TestIssuer_Refresh_DeletedAccount(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	issuer := testIssuer(t)
	ctx := context.Background()

	account := seedTestAccount(t, db, "mihai", false)
	pair, err := issuer.Issue(account)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := repo.Delete(ctx, account.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err = issuer.Refresh(ctx, pair.Refresh, repo)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Refresh() for deleted account error = %v, want ErrInvalidCredentials", err)
	}
}

func TestIssuer_Refresh_InactiveAccount(t *testing.T) {
	db := testDB(t)
	repo := NewAccountRepository(db)
	issuer := testIssuer(t)
	ctx := context.Background()

	account := seedTestAccount(t, db, "mihai", false)
	pair, err := issuer.Issue(account)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	account.IsActive = false
	if err := repo.Update(ctx, account); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	_, err = issuer.Refresh(ctx, pair.Refresh, repo)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Refresh() for inactive account error = %v, want ErrInvalidCredentials", err)
	}
}

func TestNewIssuer_UnsupportedAlgorithm(t *testing.T) {
	_, err := NewIssuer(config.JWTConfig{
		Secret:    "test-secret-key-at-least-32-characters-long",
		Algorithm: "RS256",
	})
	if err == nil {
		t.Error("NewIssuer() should reject unsupported algorithms")
	}
}
