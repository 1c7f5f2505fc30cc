package session

import (
	"time"

	"github.com/courtside-labs/courtcam/internal/relay"
)

// Controls tells the presentation layer which operator actions are currently
// sensible. The flags are computed from the same predicates the Gateway
// enforces, so a control is enabled exactly when the command would be
// accepted.
type Controls struct {
	CanStart   bool `json:"can_start"`
	CanStop    bool `json:"can_stop"`
	CanRefresh bool `json:"can_refresh"`
}

// Snapshot is the read-only view of the session published after every core
// mutation. Presentation consumes snapshots and nothing else.
type Snapshot struct {
	DeviceID     string            `json:"device_id"`
	Status       UIStatus          `json:"status"`
	StartPending bool              `json:"start_pending"`
	Notice       *Notice           `json:"notice,omitempty"`
	Recordings   []relay.Recording `json:"recordings"`
	Controls     Controls          `json:"controls"`
	TS           time.Time         `json:"ts"`
}

// snapshot assembles the current view from the controller's components.
func (c *Controller) snapshot() Snapshot {
	ui := c.beliefs.DerivedUIStatus()
	return Snapshot{
		DeviceID:     c.deviceID,
		Status:       ui,
		StartPending: c.beliefs.StartPending(),
		Notice:       c.notes.Current(),
		Recordings:   c.cache.Current(),
		Controls: Controls{
			CanStart:   ui == UIStandby && !c.beliefs.StartPending(),
			CanStop:    ui == UIRecording,
			CanRefresh: c.beliefs.Connectivity() == ConnOnline,
		},
		TS: time.Now().UTC(),
	}
}
