package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vparvu/clienthub/internal/auth"
)

// createAccountRequest is the request body for POST /accounts.
type createAccountRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	Phone       string `json:"phone"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// updateAccountRequest is the request body for PATCH /accounts/{id}.
// Absent fields are left unchanged; the username is immutable.
type updateAccountRequest struct {
	Email       *string `json:"email"`
	FirstName   *string `json:"first_name"`
	Phone       *string `json:"phone"`
	IsStaff     *bool   `json:"is_staff"`
	IsSuperuser *bool   `json:"is_superuser"`
	IsActive    *bool   `json:"is_active"`
}

// requireSuperuser loads the caller and rejects non-superusers.
// Account administration is superuser territory, full stop.
func (s *Server) requireSuperuser(w http.ResponseWriter, r *http.Request) (*auth.Account, bool) {
	claims := claimsFromContext(r.Context())

	account, err := s.accounts.GetByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			writeUnauthorized(w, "account no longer exists")
			return nil, false
		}
		s.logger.Error("loading caller account failed", "error", err)
		writeInternalError(w, "failed to resolve caller")
		return nil, false
	}

	if !account.IsSuperuser {
		writeForbidden(w, "superuser access required")
		return nil, false
	}

	return account, true
}

// handleListAccounts returns all accounts.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireSuperuser(w, r); !ok {
		return
	}

	accounts, err := s.accounts.List(r.Context())
	if err != nil {
		s.logger.Error("listing accounts failed", "error", err)
		writeInternalError(w, "failed to list accounts")
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

// handleCreateAccount provisions a new account.
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireSuperuser(w, r); !ok {
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if !auth.IsValidUsername(req.Username) {
		writeBadRequest(w, "username must be 1-64 characters: letters, digits, dots, hyphens, underscores")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeBadRequest(w, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password failed", "error", err)
		writeInternalError(w, "failed to create account")
		return
	}

	account := &auth.Account{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		Phone:        req.Phone,
		PasswordHash: hash,
		IsStaff:      req.IsStaff,
		IsSuperuser:  req.IsSuperuser,
		IsActive:     true,
	}

	if err := s.accounts.Create(r.Context(), account); err != nil {
		if errors.Is(err, auth.ErrUsernameExists) {
			writeConflict(w, "username already exists")
			return
		}
		s.logger.Error("creating account failed", "error", err)
		writeInternalError(w, "failed to create account")
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

// handleGetAccount returns a single account by ID.
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireSuperuser(w, r); !ok {
		return
	}

	account, err := s.accounts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			writeNotFound(w, "account not found")
			return
		}
		s.logger.Error("getting account failed", "error", err)
		writeInternalError(w, "failed to get account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// handleUpdateAccount modifies an account's mutable fields.
// A superuser cannot deactivate or demote their own account; that
// guards against locking the last administrator out.
func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireSuperuser(w, r)
	if !ok {
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	id := chi.URLParam(r, "id")
	if id == caller.ID {
		if req.IsActive != nil && !*req.IsActive {
			writeForbidden(w, "cannot deactivate your own account")
			return
		}
		if req.IsSuperuser != nil && !*req.IsSuperuser {
			writeForbidden(w, "cannot demote your own account")
			return
		}
	}

	account, err := s.accounts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			writeNotFound(w, "account not found")
			return
		}
		s.logger.Error("getting account failed", "error", err)
		writeInternalError(w, "failed to update account")
		return
	}

	if req.Email != nil {
		account.Email = *req.Email
	}
	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}
	if req.IsStaff != nil {
		account.IsStaff = *req.IsStaff
	}
	if req.IsSuperuser != nil {
		account.IsSuperuser = *req.IsSuperuser
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := s.accounts.Update(r.Context(), account); err != nil {
		s.logger.Error("updating account failed", "error", err)
		writeInternalError(w, "failed to update account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// handleDeleteAccount removes an account and, via the cascade, all of
// its devices.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireSuperuser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == caller.ID {
		writeForbidden(w, "cannot delete your own account")
		return
	}

	if err := s.accounts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			writeNotFound(w, "account not found")
			return
		}
		s.logger.Error("deleting account failed", "error", err)
		writeInternalError(w, "failed to delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
