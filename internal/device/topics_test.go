package device

import (
	"reflect"
	"strings"
	"testing"
)

func TestResolveTopics_ShellyEM(t *testing.T) {
	topics := ResolveTopics(TypeShellyEM, "shellyem-A1B2C3")

	want := []string{
		"shellies/shellyem-A1B2C3/emeter/0/energy",
		"shellies/shellyem-A1B2C3/emeter/0/voltage",
		"shellies/shellyem-A1B2C3/emeter/0/power",
		"shellies/shellyem-A1B2C3/emeter/0/total",
	}
	if !reflect.DeepEqual(topics, want) {
		t.Errorf("ResolveTopics() = %v, want %v", topics, want)
	}
}

func TestResolveTopics_NousAT(t *testing.T) {
	topics := ResolveTopics(TypeNousAT, "nous-42")

	want := []string{
		"tele/nous-42/STATE",
		"tele/nous-42/SENSOR",
	}
	if !reflect.DeepEqual(topics, want) {
		t.Errorf("ResolveTopics() = %v, want %v", topics, want)
	}
}

func TestResolveTopics_ZigbeeSensor(t *testing.T) {
	topics := ResolveTopics(TypeZigbeeSensor, "0x00158d0001")

	want := []string{"zigbee2mqtt/0x00158d0001"}
	if !reflect.DeepEqual(topics, want) {
		t.Errorf("ResolveTopics() = %v, want %v", topics, want)
	}
}

func TestResolveTopics_AutoDetected(t *testing.T) {
	topics := ResolveTopics(TypeAutoDetected, "raw-serial-99")

	want := []string{"raw-serial-99"}
	if !reflect.DeepEqual(topics, want) {
		t.Errorf("ResolveTopics() = %v, want %v", topics, want)
	}
}

func TestResolveTopics_UnknownType(t *testing.T) {
	topics := ResolveTopics(DeviceType("mystery_widget"), "serial-1")

	if topics == nil {
		t.Fatal("ResolveTopics() should return an empty slice, not nil")
	}
	if len(topics) != 0 {
		t.Errorf("ResolveTopics(unknown) = %v, want empty", topics)
	}
}

func TestResolveTopics_PlaceholderFullySubstituted(t *testing.T) {
	for devType := range topicTemplates {
		for _, topic := range ResolveTopics(devType, "SER-001") {
			if strings.Contains(topic, serialPlaceholder) {
				t.Errorf("topic %q for type %q still contains placeholder", topic, devType)
			}
		}
	}
}

func TestResolveTopics_Idempotent(t *testing.T) {
	// Resolving twice for the same inputs yields identical ordered lists
	for devType := range topicTemplates {
		first := ResolveTopics(devType, "SER-001")
		second := ResolveTopics(devType, "SER-001")
		if !reflect.DeepEqual(first, second) {
			t.Errorf("ResolveTopics(%q) not deterministic: %v vs %v", devType, first, second)
		}
	}
}

func TestResolveTopics_ReturnsFreshSlice(t *testing.T) {
	first := ResolveTopics(TypeNousAT, "nous-1")
	first[0] = "mutated"

	second := ResolveTopics(TypeNousAT, "nous-1")
	if second[0] == "mutated" {
		t.Error("ResolveTopics() must not share backing storage between calls")
	}
}

func TestDevice_Topics(t *testing.T) {
	dev := &Device{SerialNumber: "nous-7", Type: TypeNousAT}

	topics := dev.Topics()
	if len(topics) != 2 {
		t.Fatalf("Topics() returned %d topics, want 2", len(topics))
	}
	if topics[0] != "tele/nous-7/STATE" {
		t.Errorf("Topics()[0] = %q, want %q", topics[0], "tele/nous-7/STATE")
	}
}
