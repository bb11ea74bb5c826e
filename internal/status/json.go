package status

import (
	"encoding/json"
	"math"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event            string     `json:"event,omitempty"`
	Reason           string     `json:"reason,omitempty"`
	LevelDB          float64    `json:"level_db"`
	DutyCyclePercent float64    `json:"duty_cycle_percent"`
	PeakDB           float64    `json:"peak_db"`
	WindowPeakDB     float64    `json:"window_peak_db"`
	Ready            bool       `json:"ready"`
	LastReading      string     `json:"last_reading,omitempty"`
	UptimeSeconds    int64      `json:"uptime_seconds"`
	StartTime        string     `json:"start_time"`
	Timestamp        string     `json:"timestamp"`
	MQTT             MQTTStatus `json:"mqtt"`
	Counts           CountsJSON `json:"counts"`
	Config           ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of pipeline counters.
type CountsJSON struct {
	Edges        uint64 `json:"edges"`
	Readings     uint64 `json:"readings"`
	Suppressed   uint64 `json:"suppressed"`
	Windows      uint64 `json:"windows"`
	StoredEvents uint64 `json:"stored_events"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Pin         int     `json:"pin"`
	CadenceMs   int64   `json:"cadence_ms"`
	WindowMs    int64   `json:"window_ms"`
	HeartbeatMs int64   `json:"heartbeat_ms"`
	Scale       float64 `json:"scale"`
	MinLevelDB  float64 `json:"min_level_db"`
	Broker      string  `json:"broker"`
	SerialPort  string  `json:"serial_port,omitempty"`
	Baud        int     `json:"baud"`
	DBPath      string  `json:"db_path,omitempty"`
	HTTPAddr    string  `json:"http_addr"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		LevelDB:          round1(snap.Level),
		DutyCyclePercent: round1(snap.DutyCyclePercent),
		PeakDB:           round1(snap.PeakLevel),
		WindowPeakDB:     round1(snap.WindowPeak),
		Ready:            snap.Ready,
		UptimeSeconds:    int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:        snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:        snap.Now.UTC().Format(time.RFC3339),
		MQTT:             MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Edges:        snap.Counts.Edges,
			Readings:     snap.Counts.Readings,
			Suppressed:   snap.Counts.Suppressed,
			Windows:      snap.Counts.Windows,
			StoredEvents: snap.StoredEvents,
		},
		Config: ConfigJSON{
			Pin:         snap.Config.Pin,
			CadenceMs:   snap.Config.CadenceMs,
			WindowMs:    snap.Config.WindowMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Scale:       snap.Config.Scale,
			MinLevelDB:  snap.Config.MinLevel,
			Broker:      snap.Config.Broker,
			SerialPort:  snap.Config.SerialPort,
			Baud:        snap.Config.Baud,
			DBPath:      snap.Config.DBPath,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
	if !snap.LastReadingAt.IsZero() {
		inner.LastReading = snap.LastReadingAt.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
