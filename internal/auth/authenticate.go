package auth

import (
	"context"
	"errors"
	"fmt"
)

// Authenticate checks a username/password pair against the account store.
//
// Unknown username, inactive account, and wrong password all return
// ErrInvalidCredentials. The three cases must stay indistinguishable to
// the caller to prevent account enumeration.
func Authenticate(ctx context.Context, repo AccountRepository, username, password string) (*Account, error) {
	account, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// Still run a hash comparison so the timing profile of
			// unknown-user and wrong-password stays close.
			_, _ = VerifyPassword(password, dummyHash) //nolint:errcheck // result intentionally discarded
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if !account.IsActive {
		return nil, ErrInvalidCredentials
	}

	ok, err := VerifyPassword(password, account.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// dummyHash is a valid Argon2id PHC string for an unguessable throwaway
// password, used to equalise timing when the username does not exist.
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=1$AAAAAAAAAAAAAAAAAAAAAA$o3Dkav20qwM7xXr1M9HWGV8Y1hSSGyvKzpCXC9PBvGA"
