package device

import "time"

// DeviceType classifies a device and selects its topic templates.
// Tags outside the known set are stored as-is; they resolve to no
// topics until a template row is registered for them.
type DeviceType string

// Known device types.
const (
	TypeShellyEM     DeviceType = "shelly_em"
	TypeNousAT       DeviceType = "nous_at"
	TypeZigbeeSensor DeviceType = "zigbee_sensor"
	TypeAutoDetected DeviceType = "auto_detected"
)

// Device represents a managed endpoint owned by exactly one account.
// The serial number is globally unique and immutable after creation.
type Device struct {
	ID           string     `json:"id"`
	SerialNumber string     `json:"serial_number"`
	Description  string     `json:"description"`
	Type         DeviceType `json:"device_type"`
	OwnerID      string     `json:"owner_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
