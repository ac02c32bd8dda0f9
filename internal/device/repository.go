package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// deviceColumns is the column list shared by every device SELECT.
const deviceColumns = "id, serial_number, description, device_type, owner_id, created_at, updated_at"

// Repository defines the interface for device persistence.
//
// Every read and mutation takes a Scope: a nil scope is unrestricted,
// a non-nil scope transparently narrows the operation to one owner.
// A scoped operation on a device outside the scope reports
// ErrDeviceNotFound, never the other owner's data.
type Repository interface {
	Create(ctx context.Context, dev *Device) error
	GetByID(ctx context.Context, id string, scope *Scope) (*Device, error)
	GetBySerial(ctx context.Context, serial string, scope *Scope) (*Device, error)
	List(ctx context.Context, scope *Scope) ([]Device, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Device, error)
	Update(ctx context.Context, dev *Device, scope *Scope) error
	Delete(ctx context.Context, id string, scope *Scope) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed device repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// validate checks the invariants every persisted device must hold.
// The device-type tag is deliberately not checked: unknown tags are
// stored as data and simply resolve to no topics.
func validate(dev *Device) error {
	if dev.SerialNumber == "" {
		return ErrMissingSerial
	}
	if dev.OwnerID == "" {
		return ErrMissingOwner
	}
	return nil
}

// Create inserts a new device. The ID is generated if empty. Ownership
// forcing happens before this call (see Scope.ForceOwner); Create only
// enforces the structural invariants.
func (r *SQLiteRepository) Create(ctx context.Context, dev *Device) error {
	if err := validate(dev); err != nil {
		return err
	}

	if dev.ID == "" {
		dev.ID = "dev-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Format(time.RFC3339)
	dev.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	dev.UpdatedAt = dev.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (id, serial_number, description, device_type, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		dev.ID, dev.SerialNumber, dev.Description, string(dev.Type), dev.OwnerID, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSerialExists
		}
		if isForeignKeyViolation(err) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("creating device: %w", err)
	}

	return nil
}

// GetByID retrieves a device by ID within the given scope.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string, scope *Scope) (*Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE id = ?"
	args := []any{id}
	if scope != nil {
		query += " AND owner_id = ?"
		args = append(args, scope.OwnerID)
	}
	return r.getDevice(ctx, query, args...)
}

// GetBySerial retrieves a device by serial number within the given scope.
func (r *SQLiteRepository) GetBySerial(ctx context.Context, serial string, scope *Scope) (*Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE serial_number = ?"
	args := []any{serial}
	if scope != nil {
		query += " AND owner_id = ?"
		args = append(args, scope.OwnerID)
	}
	return r.getDevice(ctx, query, args...)
}

// List returns the devices visible within the scope, ordered by serial
// number. A nil scope returns every device.
func (r *SQLiteRepository) List(ctx context.Context, scope *Scope) ([]Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices"
	var args []any
	if scope != nil {
		query += " WHERE owner_id = ?"
		args = append(args, scope.OwnerID)
	}
	query += " ORDER BY serial_number ASC"

	return r.listDevices(ctx, query, args...)
}

// ListByOwner returns all devices owned by a specific account,
// regardless of scope. Callers must have already authorized the access.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]Device, error) {
	return r.listDevices(ctx,
		"SELECT "+deviceColumns+" FROM devices WHERE owner_id = ? ORDER BY serial_number ASC",
		ownerID)
}

// Update modifies a device's mutable fields (description, device_type,
// and, for unrestricted callers, owner_id). Serial number is immutable.
// The scope is part of the WHERE clause: a restricted caller cannot
// update a device they do not own, and gets ErrDeviceNotFound.
func (r *SQLiteRepository) Update(ctx context.Context, dev *Device, scope *Scope) error {
	if err := validate(dev); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	dev.UpdatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	query := "UPDATE devices SET description = ?, device_type = ?, owner_id = ?, updated_at = ? WHERE id = ?"
	args := []any{dev.Description, string(dev.Type), dev.OwnerID, now, dev.ID}
	if scope != nil {
		query += " AND owner_id = ?"
		args = append(args, scope.OwnerID)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("updating device: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// Delete removes a device by ID within the given scope.
func (r *SQLiteRepository) Delete(ctx context.Context, id string, scope *Scope) error {
	query := "DELETE FROM devices WHERE id = ?"
	args := []any{id}
	if scope != nil {
		query += " AND owner_id = ?"
		args = append(args, scope.OwnerID)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// getDevice executes a query and scans a single device result.
func (r *SQLiteRepository) getDevice(ctx context.Context, query string, args ...any) (*Device, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	return scanDeviceFrom(row)
}

// listDevices executes a query and scans all device results.
func (r *SQLiteRepository) listDevices(ctx context.Context, query string, args ...any) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDeviceFrom(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}

	if devices == nil {
		devices = []Device{}
	}
	return devices, nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanDeviceFrom scans a device from any scanner (Row or Rows).
func scanDeviceFrom(s scanner) (*Device, error) {
	var d Device
	var devType string
	var createdAt, updatedAt string

	err := s.Scan(&d.ID, &d.SerialNumber, &d.Description, &devType, &d.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("scanning device: %w", err)
	}

	d.Type = DeviceType(devType)
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &d, nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation checks if a SQLite error is a FOREIGN KEY
// constraint violation. Devices reference their owning account, so this
// fires when a write names an account that does not exist.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
