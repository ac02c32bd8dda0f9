// Package auth provides authentication and credential issuance for clienthub.
//
// It implements:
//   - Argon2id password hashing (OWASP recommendation)
//   - Stateless JWT access/refresh token pairs with a fixed issuer tag
//   - Uniform "invalid credentials" login failures (no account enumeration)
//   - SQLite-backed account persistence
//
// Authorisation over device records uses a "superuser or owner" model: a
// superuser account bypasses ownership scoping entirely, everyone else
// only ever sees and mutates their own devices. The scoping predicate
// itself lives in the device package next to the queries it restricts.
package auth
