package device

import "strings"

// serialPlaceholder is the token substituted with the device's serial
// number in every topic template.
const serialPlaceholder = "{serial}"

// topicTemplates maps each device type to its ordered list of topic
// patterns. The table is a static compiled mapping, not a runtime
// registry; order is significant and preserved by ResolveTopics.
var topicTemplates = map[DeviceType][]string{
	TypeShellyEM: {
		"shellies/{serial}/emeter/0/energy",
		"shellies/{serial}/emeter/0/voltage",
		"shellies/{serial}/emeter/0/power",
		"shellies/{serial}/emeter/0/total",
	},
	TypeNousAT: {
		"tele/{serial}/STATE",
		"tele/{serial}/SENSOR",
	},
	TypeZigbeeSensor: {
		"zigbee2mqtt/{serial}",
	},
	TypeAutoDetected: {
		"{serial}",
	},
}

// ResolveTopics returns the ordered topic names for a device type with
// every placeholder replaced by the serial number. An unknown device
// type yields an empty list, not an error.
//
// Pure function of its inputs: no side effects, deterministic, and the
// returned slice is freshly allocated on every call.
func ResolveTopics(deviceType DeviceType, serial string) []string {
	templates, ok := topicTemplates[deviceType]
	if !ok {
		return []string{}
	}

	topics := make([]string, len(templates))
	for i, tmpl := range templates {
		topics[i] = strings.ReplaceAll(tmpl, serialPlaceholder, serial)
	}
	return topics
}

// Topics returns the resolved topic names for this device.
func (d *Device) Topics() []string {
	return ResolveTopics(d.Type, d.SerialNumber)
}
