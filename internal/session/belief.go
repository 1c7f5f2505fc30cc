package session

// Transition classifies one authoritative status change for callers that
// drive notifications off it.
type Transition struct {
	From OperatingStatus
	To   OperatingStatus
}

// Entered reports whether the transition newly arrived at s.
func (t Transition) Entered(s OperatingStatus) bool {
	return t.To == s && t.From != s
}

// Beliefs holds the console's local belief about one device: connectivity,
// the last authoritative operating status, and whether a start command is
// in flight awaiting confirmation.
//
// Beliefs is not safe for concurrent use; the session Controller is its
// single writer and reader.
type Beliefs struct {
	conn         Connectivity
	status       OperatingStatus
	startPending bool
}

// NewBeliefs starts with the device presumed OFFLINE until the first
// connectivity signal arrives.
func NewBeliefs() *Beliefs {
	return &Beliefs{
		conn:   ConnOffline,
		status: StatusUnknown,
	}
}

// ApplyStatusUpdate records an authoritative status report. Receiving one
// implies the device is reachable, so connectivity flips ONLINE as well.
// Any pending optimistic start is cleared unconditionally: the device's own
// report always wins over local optimism, whether or not it confirms it.
func (b *Beliefs) ApplyStatusUpdate(status OperatingStatus) Transition {
	t := Transition{From: b.status, To: status}
	b.conn = ConnOnline
	b.status = status
	b.startPending = false
	return t
}

// ApplyOffline records a connectivity loss. A disconnected device cannot be
// trusted to still be in its last reported state, so the operating status is
// forced back to UNKNOWN — offline is stronger evidence than any cached
// status, regardless of arrival order.
func (b *Beliefs) ApplyOffline() {
	b.conn = ConnOffline
	b.status = StatusUnknown
	b.startPending = false
}

// ApplyOnline records a connectivity recovery. It deliberately leaves the
// operating status UNKNOWN: reachability says nothing about what the device
// is doing, and the caller is expected to re-request authoritative status.
func (b *Beliefs) ApplyOnline() {
	b.conn = ConnOnline
}

// BeginOptimisticStart marks a dispatched start command as awaiting
// confirmation. The caller is responsible for having validated the command
// first; only an authoritative status update clears the mark.
func (b *Beliefs) BeginOptimisticStart() {
	b.startPending = true
}

// Connectivity returns the current reachability belief.
func (b *Beliefs) Connectivity() Connectivity { return b.conn }

// Operating returns the last authoritative operating status.
func (b *Beliefs) Operating() OperatingStatus { return b.status }

// StartPending reports whether a start command is awaiting confirmation.
func (b *Beliefs) StartPending() bool { return b.startPending }

// DerivedUIStatus returns the operator-facing status for the current belief.
func (b *Beliefs) DerivedUIStatus() UIStatus {
	return DeriveUIStatus(b.conn, b.status)
}
