package device

import "errors"

// Sentinel errors for device operations.
var (
	// ErrDeviceNotFound is returned when a device does not exist or is
	// outside the caller's scope. The two cases are deliberately
	// indistinguishable so scoped callers cannot probe other owners'
	// serial numbers.
	ErrDeviceNotFound = errors.New("device not found")

	ErrSerialExists  = errors.New("serial number already exists")
	ErrMissingSerial = errors.New("serial number is required")
	ErrMissingOwner  = errors.New("owner is required")

	// ErrOwnerNotFound is returned when a write references an owning
	// account that does not exist.
	ErrOwnerNotFound = errors.New("owner account not found")
)
