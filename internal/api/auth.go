package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vparvu/clienthub/internal/auth"
)

// tokenRequest is the request body for POST /auth/token.
type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// refreshRequest is the request body for POST /auth/token/refresh.
type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// refreshResponse is the response body for POST /auth/token/refresh.
type refreshResponse struct {
	Access string `json:"access"`
}

// changePasswordRequest is the request body for PUT /auth/password.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// minPasswordLength is the minimum accepted new-password length.
const minPasswordLength = 8

// handleToken authenticates an account and returns an access/refresh
// token pair. All failures surface as the same 401 so callers cannot
// probe which usernames exist.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeBadRequest(w, "username and password are required")
		return
	}

	account, err := auth.Authenticate(r.Context(), s.accounts, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeUnauthorized(w, "invalid credentials")
			return
		}
		s.logger.Error("authentication failed", "error", err)
		writeInternalError(w, "authentication failed")
		return
	}

	pair, err := s.issuer.Issue(account)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err, "account_id", account.ID)
		writeInternalError(w, "failed to issue tokens")
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// handleTokenRefresh exchanges a valid refresh token for a new access
// token. Expired, wrong-type, or forged tokens get a 401, as does a
// token for an account that no longer exists or was deactivated.
func (s *Server) handleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Refresh == "" {
		writeBadRequest(w, "refresh token is required")
		return
	}

	access, err := s.issuer.Refresh(r.Context(), req.Refresh, s.accounts)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired),
			errors.Is(err, auth.ErrTokenSignature),
			errors.Is(err, auth.ErrTokenMalformed),
			errors.Is(err, auth.ErrWrongTokenType),
			errors.Is(err, auth.ErrTokenInvalid),
			errors.Is(err, auth.ErrInvalidCredentials):
			s.logger.Debug("refresh rejected", "error", err)
			writeUnauthorized(w, "invalid or expired refresh token")
		default:
			s.logger.Error("refresh failed", "error", err)
			writeInternalError(w, "failed to refresh token")
		}
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{Access: access})
}

// handleMe returns the authenticated account's own record.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	account, err := s.accounts.GetByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			// Token outlived the account
			writeUnauthorized(w, "account no longer exists")
			return
		}
		s.logger.Error("loading account failed", "error", err)
		writeInternalError(w, "failed to load account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// handleChangePassword updates the authenticated account's password
// after re-verifying the current one.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		writeBadRequest(w, "new password must be at least 8 characters")
		return
	}

	account, err := s.accounts.GetByID(r.Context(), claims.Subject)
	if err != nil {
		writeUnauthorized(w, "account no longer exists")
		return
	}

	ok, err := auth.VerifyPassword(req.CurrentPassword, account.PasswordHash)
	if err != nil || !ok {
		writeUnauthorized(w, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.logger.Error("hashing password failed", "error", err)
		writeInternalError(w, "failed to update password")
		return
	}

	if err := s.accounts.UpdatePassword(r.Context(), account.ID, hash); err != nil {
		s.logger.Error("updating password failed", "error", err)
		writeInternalError(w, "failed to update password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
