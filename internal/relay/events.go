// Package relay defines the typed messages exchanged with the real-time
// relay the device is reachable through, and the WebSocket client that
// carries them. The relay is multi-tenant: every message names the device it
// concerns, and consumers filter on that identity.
package relay

import "time"

// CommandType identifies an outbound command to the relay.
type CommandType string

const (
	CmdWatchDevice    CommandType = "watch_device"
	CmdRequestStatus  CommandType = "request_status"
	CmdStartRecording CommandType = "start_recording"
	CmdStopRecording  CommandType = "stop_recording"
	CmdListRecordings CommandType = "list_recordings"
)

// Command is the outbound envelope. ID is a correlation id for diagnostics
// only; the relay never replies to a command directly — outcomes arrive later
// as independent DeviceEvents.
type Command struct {
	ID       string      `json:"id"`
	Type     CommandType `json:"type"`
	DeviceID string      `json:"device_id"`
	Minutes  int         `json:"minutes,omitempty"`
	Profile  string      `json:"profile,omitempty"`
	TS       string      `json:"ts"`
}

// EventType identifies an inbound event from the relay.
type EventType string

const (
	EventStatusUpdate   EventType = "status_update"
	EventDeviceOffline  EventType = "device_offline"
	EventDeviceOnline   EventType = "device_online"
	EventRecordingsList EventType = "recordings_list"
)

// Recording is one file in a device recordings listing.
type Recording struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

// DeviceEvent is the inbound envelope shared by every event type. Fields
// beyond Type and DeviceID are populated per type: Status for status_update,
// Files for recordings_list.
type DeviceEvent struct {
	Type     EventType   `json:"type"`
	DeviceID string      `json:"device_id"`
	Status   string      `json:"status,omitempty"`
	Files    []Recording `json:"files,omitempty"`
	TS       string      `json:"ts,omitempty"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching the
// timestamp format used on every relay message.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
