package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vparvu/clienthub/internal/auth"
	"github.com/vparvu/clienthub/internal/device"
)

// deviceResponse is a device record enriched with its resolved topics.
type deviceResponse struct {
	device.Device
	Topics []string `json:"topics"`
}

// toDeviceResponse wraps a device with its computed topic names.
func toDeviceResponse(d device.Device) deviceResponse {
	return deviceResponse{Device: d, Topics: d.Topics()}
}

// toDeviceResponses converts a device slice, preserving order.
func toDeviceResponses(devices []device.Device) []deviceResponse {
	out := make([]deviceResponse, len(devices))
	for i, d := range devices {
		out[i] = toDeviceResponse(d)
	}
	return out
}

// createDeviceRequest is the request body for POST /devices.
type createDeviceRequest struct {
	SerialNumber string `json:"serial_number"`
	Description  string `json:"description"`
	DeviceType   string `json:"device_type"`
	OwnerID      string `json:"owner_id"`
}

// updateDeviceRequest is the request body for PATCH /devices/{id}.
// Absent fields are left unchanged; the serial number is immutable.
type updateDeviceRequest struct {
	Description *string `json:"description"`
	DeviceType  *string `json:"device_type"`
	OwnerID     *string `json:"owner_id"`
}

// callerScope loads the caller's account and resolves their device
// scope. The account is re-read on every request so a revoked superuser
// bit or a deleted account takes effect before token expiry.
func (s *Server) callerScope(w http.ResponseWriter, r *http.Request) (*auth.Account, *device.Scope, bool) {
	claims := claimsFromContext(r.Context())

	account, err := s.accounts.GetByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			writeUnauthorized(w, "account no longer exists")
			return nil, nil, false
		}
		s.logger.Error("loading caller account failed", "error", err)
		writeInternalError(w, "failed to resolve caller")
		return nil, nil, false
	}

	return account, device.ScopeFor(account.ID, account.IsSuperuser), true
}

// handleListDevices returns the devices visible to the caller.
// Anonymous callers get an empty list, not an error; superusers get
// everything; everyone else gets their own devices.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	if claimsFromContext(r.Context()) == nil {
		writeJSON(w, http.StatusOK, []deviceResponse{})
		return
	}

	_, scope, ok := s.callerScope(w, r)
	if !ok {
		return
	}

	devices, err := s.devices.List(r.Context(), scope)
	if err != nil {
		s.logger.Error("listing devices failed", "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}

	writeJSON(w, http.StatusOK, toDeviceResponses(devices))
}

// handleCreateDevice registers a new device. Non-superusers always
// become the owner themselves; a client-supplied owner field is ignored
// for them.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	account, scope, ok := s.callerScope(w, r)
	if !ok {
		return
	}

	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	ownerID := scope.ForceOwner(req.OwnerID)
	if ownerID == "" {
		// Superuser omitted the owner: default to themselves
		ownerID = account.ID
	}

	dev := &device.Device{
		SerialNumber: req.SerialNumber,
		Description:  req.Description,
		Type:         device.DeviceType(req.DeviceType),
		OwnerID:      ownerID,
	}

	if err := s.devices.Create(r.Context(), dev); err != nil {
		switch {
		case errors.Is(err, device.ErrSerialExists):
			writeConflict(w, "serial number already exists")
		case errors.Is(err, device.ErrMissingSerial),
			errors.Is(err, device.ErrOwnerNotFound):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("creating device failed", "error", err)
			writeInternalError(w, "failed to create device")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toDeviceResponse(*dev))
}

// handleGetDevice returns a single device. Another owner's device is
// indistinguishable from a missing one.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := s.callerScope(w, r)
	if !ok {
		return
	}

	dev, err := s.devices.GetByID(r.Context(), chi.URLParam(r, "id"), scope)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("getting device failed", "error", err)
		writeInternalError(w, "failed to get device")
		return
	}

	writeJSON(w, http.StatusOK, toDeviceResponse(*dev))
}

// handleUpdateDevice modifies a device's mutable fields. Only superusers
// may reassign ownership; the serial number is immutable.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	account, scope, ok := s.callerScope(w, r)
	if !ok {
		return
	}

	var req updateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	dev, err := s.devices.GetByID(r.Context(), chi.URLParam(r, "id"), scope)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("getting device failed", "error", err)
		writeInternalError(w, "failed to update device")
		return
	}

	if req.Description != nil {
		dev.Description = *req.Description
	}
	if req.DeviceType != nil {
		dev.Type = device.DeviceType(*req.DeviceType)
	}
	if req.OwnerID != nil && account.IsSuperuser {
		dev.OwnerID = *req.OwnerID
	}

	if err := s.devices.Update(r.Context(), dev, scope); err != nil {
		switch {
		case errors.Is(err, device.ErrDeviceNotFound):
			writeNotFound(w, "device not found")
		case errors.Is(err, device.ErrOwnerNotFound):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("updating device failed", "error", err)
			writeInternalError(w, "failed to update device")
		}
		return
	}

	writeJSON(w, http.StatusOK, toDeviceResponse(*dev))
}

// handleDeleteDevice removes a device within the caller's scope.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := s.callerScope(w, r)
	if !ok {
		return
	}

	if err := s.devices.Delete(r.Context(), chi.URLParam(r, "id"), scope); err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("deleting device failed", "error", err)
		writeInternalError(w, "failed to delete device")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUserDevices returns the device list of a named account.
//
// The existence check runs first: an unknown username is a 404 for
// every caller. A known username that is neither the caller nor
// accessible by a superuser is a 403.
func (s *Server) handleUserDevices(w http.ResponseWriter, r *http.Request) {
	account, _, ok := s.callerScope(w, r)
	if !ok {
		return
	}

	target, err := s.accounts.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("looking up user failed", "error", err)
		writeInternalError(w, "failed to look up user")
		return
	}

	if !account.IsSuperuser && account.ID != target.ID {
		writeForbidden(w, "cannot access another user's devices")
		return
	}

	devices, err := s.devices.ListByOwner(r.Context(), target.ID)
	if err != nil {
		s.logger.Error("listing user devices failed", "error", err)
		writeInternalError(w, "failed to list devices")
		return
	}

	writeJSON(w, http.StatusOK, toDeviceResponses(devices))
}
