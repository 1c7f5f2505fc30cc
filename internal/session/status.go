// Package session implements the device session core: the belief the console
// holds about one camera's connectivity and operating state, the gateway that
// vets outbound commands against that belief, the short-lived operator
// notices tied to state changes, the recordings cache, and the controller
// that drives all of them from the relay event stream.
package session

// OperatingStatus is the device-reported operating state. It is only ever
// set from an authoritative status_update event; the console never assumes
// a value on its own.
type OperatingStatus string

const (
	StatusUnknown   OperatingStatus = "UNKNOWN"
	StatusOff       OperatingStatus = "OFF"
	StatusStandby   OperatingStatus = "STANDBY"
	StatusRecording OperatingStatus = "RECORDING"
	StatusUploading OperatingStatus = "UPLOADING"
)

// IsValid reports whether s is a status the device can legitimately report.
func (s OperatingStatus) IsValid() bool {
	switch s {
	case StatusUnknown, StatusOff, StatusStandby, StatusRecording, StatusUploading:
		return true
	}
	return false
}

// Connectivity is the console's belief about device reachability. It is
// mutated only by connectivity events, never by status updates directly.
type Connectivity string

const (
	ConnOnline  Connectivity = "ONLINE"
	ConnOffline Connectivity = "OFFLINE"
)

// UIStatus is the single status value shown to the operator. It folds
// connectivity and operating status together: an unreachable device is
// OFFLINE no matter what it last reported, and a reachable device with no
// report yet is UNKNOWN rather than optimistically assumed idle.
type UIStatus string

const (
	UIOffline   UIStatus = "OFFLINE"
	UIUnknown   UIStatus = "UNKNOWN"
	UIOff       UIStatus = "OFF"
	UIStandby   UIStatus = "STANDBY"
	UIRecording UIStatus = "RECORDING"
	UIUploading UIStatus = "UPLOADING"
)

// DeriveUIStatus computes the operator-facing status from the two beliefs.
// This is the only place the fold happens; nothing caches its result.
func DeriveUIStatus(conn Connectivity, status OperatingStatus) UIStatus {
	if conn == ConnOffline {
		return UIOffline
	}
	return UIStatus(status)
}
