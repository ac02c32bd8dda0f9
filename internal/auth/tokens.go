package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vparvu/clienthub/internal/infrastructure/config"
)

// IssuerTag is the fixed "iss" claim stamped on every minted token.
//
// The value is a compatibility constant: downstream gateways pin this
// literal when validating tokens from this service. Do not change it even
// though the minting service is no longer the system the name suggests.
const IssuerTag = "django"

// TokenType discriminates access tokens from refresh tokens.
// A refresh token is never accepted for resource access and an access
// token can never be exchanged for new credentials.
type TokenType string

// Token type constants.
const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the JWT payload minted for authenticated accounts.
// Subject carries the account ID, Username the login name.
type Claims struct {
	jwt.RegisteredClaims
	Username  string    `json:"username"`
	TokenType TokenType `json:"token_type"`
}

// TokenPair is an access/refresh credential pair returned at login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Issuer mints and verifies signed tokens.
//
// Tokens are stateless bearer credentials: validity is determined entirely
// by signature and expiry. There is no revocation list, so a compromised
// token remains valid until natural expiry.
//
// Thread Safety: an Issuer is immutable after construction and safe for
// concurrent use.
type Issuer struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// signingMethods maps configured algorithm names to JWT signing methods.
var signingMethods = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// NewIssuer creates a token issuer from JWT configuration.
func NewIssuer(cfg config.JWTConfig) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	method, ok := signingMethods[cfg.Algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %q", cfg.Algorithm)
	}

	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = 15 //nolint:mnd // default 15-minute access token TTL
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = 10080 //nolint:mnd // default 7-day refresh token TTL
	}

	return &Issuer{
		secret:     []byte(cfg.Secret),
		method:     method,
		accessTTL:  time.Duration(accessTTL) * time.Minute,
		refreshTTL: time.Duration(refreshTTL) * time.Minute,
	}, nil
}

// Issue mints an access/refresh token pair for an authenticated account.
func (i *Issuer) Issue(account *Account) (TokenPair, error) {
	access, err := i.mint(account, TokenTypeAccess, i.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := i.mint(account, TokenTypeRefresh, i.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
//
// The account is re-loaded from the repository: a deleted or deactivated
// account can no longer refresh even while its token is unexpired. Both
// cases surface as ErrInvalidCredentials so existence never leaks.
func (i *Issuer) Refresh(ctx context.Context, refreshToken string, repo AccountRepository) (string, error) {
	claims, err := i.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	account, err := repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("loading account for refresh: %w", err)
	}

	if !account.IsActive {
		return "", ErrInvalidCredentials
	}

	return i.mint(account, TokenTypeAccess, i.accessTTL)
}

// Verify validates a token's signature and expiry and checks that it is of
// the wanted type. Each failure mode maps to a distinct sentinel:
// ErrTokenExpired, ErrTokenSignature, ErrTokenMalformed, ErrWrongTokenType,
// or ErrTokenInvalid for anything else.
func (i *Issuer) Verify(tokenString string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{i.method.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %w", ErrTokenSignature, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" || claims.Username == "" {
		return nil, fmt.Errorf("%w: missing subject or username", ErrTokenInvalid)
	}

	if claims.TokenType != want {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrWrongTokenType, claims.TokenType, want)
	}

	return claims, nil
}

// AccessTTL returns the configured access token lifetime.
func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

// mint creates a single signed token of the given type and lifetime.
func (i *Issuer) mint(account *Account, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    IssuerTag,
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Username:  account.Username,
		TokenType: typ,
	}

	token := jwt.NewWithClaims(i.method, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", typ, err)
	}
	return signed, nil
}
