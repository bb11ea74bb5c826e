// Package mqtt provides MQTT publishing with abstraction for testing.
// Topics and payloads follow the Home Assistant MQTT discovery convention.
package mqtt

import (
	"encoding/json"
	"math"
	"time"

	"github.com/sweeney/noise-meter/internal/logic"
)

// deviceName keys every Home Assistant topic for this sensor.
const deviceName = "noise_meter"

// TopicState receives the per-window peak noise level.
const TopicState = "homeassistant/sensor/" + deviceName + "/realtime_noise_levels/state"

// TopicConfig receives the retained Home Assistant discovery config.
const TopicConfig = "homeassistant/sensor/" + deviceName + "/noise_level/config"

// TopicAvailability receives retained online/offline markers.
const TopicAvailability = "homeassistant/sensor/" + deviceName + "/availability"

// TopicSystem receives daemon lifecycle events.
const TopicSystem = "homeassistant/sensor/" + deviceName + "/system"

// Publisher publishes noise data to MQTT.
type Publisher interface {
	// PublishPeak sends a window peak to the state topic.
	// Returns error if publishing fails (should not crash the process).
	PublishPeak(peak logic.Peak) error

	// PublishSystem sends a daemon lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a daemon lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// StatePayload is the state topic message body. Home Assistant extracts
// the level via the discovery config's value_template.
type StatePayload struct {
	NoiseLevel float64 `json:"noise_level"`
}

// FormatStatePayload creates the JSON state body for a window peak.
// Levels are rounded to one decimal, matching what integrations chart.
func FormatStatePayload(peak logic.Peak) ([]byte, error) {
	return json.Marshal(StatePayload{
		NoiseLevel: math.Round(peak.Decibels*10) / 10,
	})
}

// DiscoveryConfig is the Home Assistant MQTT discovery document for the
// noise level sensor.
type DiscoveryConfig struct {
	DeviceClass       string          `json:"device_class"`
	Name              string          `json:"name"`
	StateTopic        string          `json:"state_topic"`
	UnitOfMeasurement string          `json:"unit_of_measurement"`
	ValueTemplate     string          `json:"value_template"`
	UniqueID          string          `json:"unique_id"`
	AvailabilityTopic string          `json:"availability_topic"`
	Device            DiscoveryDevice `json:"device"`
}

// DiscoveryDevice identifies the physical sensor in Home Assistant.
type DiscoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
}

// FormatDiscoveryConfig creates the retained discovery payload.
func FormatDiscoveryConfig() ([]byte, error) {
	return json.Marshal(DiscoveryConfig{
		DeviceClass:       "sound_pressure",
		Name:              "Noise Meter Noise Level",
		StateTopic:        TopicState,
		UnitOfMeasurement: "dB",
		ValueTemplate:     "{{ value_json.noise_level }}",
		UniqueID:          deviceName + "_noise_level_sensor",
		AvailabilityTopic: TopicAvailability,
		Device: DiscoveryDevice{
			Identifiers:  []string{deviceName + "_sensor"},
			Name:         "Noise Meter Sensor",
			Model:        "PWM duty-cycle sound meter",
			Manufacturer: "sweeney",
		},
	})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
