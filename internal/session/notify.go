package session

import "time"

// NoticeKind classifies an operator notice for presentation.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a short-lived operator message tied to a state transition.
type Notice struct {
	Text      string     `json:"text"`
	Kind      NoticeKind `json:"kind"`
	CreatedAt time.Time  `json:"created_at"`
}

// Notices holds at most one live notice and the single expiry timer that
// clears it. Publishing a new notice supersedes the pending timer, so an
// expiry scheduled for an old notice can never blank a newer one.
//
// Notices is not safe for concurrent use; the session Controller is its
// single writer and consumes expiries through Expired in its event loop.
type Notices struct {
	ttl     time.Duration
	current *Notice
	timer   *time.Timer
}

// NewNotices creates a center whose notices live for ttl.
func NewNotices(ttl time.Duration) *Notices {
	return &Notices{ttl: ttl}
}

// Publish replaces the current notice and restarts the expiry timer.
func (n *Notices) Publish(text string, kind NoticeKind) {
	n.stopTimer()
	n.current = &Notice{Text: text, Kind: kind, CreatedAt: time.Now().UTC()}
	n.timer = time.NewTimer(n.ttl)
}

// Clear dismisses the current notice and cancels its expiry.
func (n *Notices) Clear() {
	n.stopTimer()
	n.current = nil
}

// Expired returns the channel the pending expiry fires on, or nil when no
// notice is live. A nil channel blocks forever in a select, which is exactly
// what the controller loop wants.
func (n *Notices) Expired() <-chan time.Time {
	if n.timer == nil {
		return nil
	}
	return n.timer.C
}

// Expire clears the notice after its timer fired. The caller must have
// consumed the tick from Expired.
func (n *Notices) Expire() {
	n.current = nil
	n.timer = nil
}

// Current returns the live notice, or nil.
func (n *Notices) Current() *Notice { return n.current }

// Stop cancels any pending expiry. Used at session teardown so no timer
// outlives the controller.
func (n *Notices) Stop() {
	n.stopTimer()
}

// stopTimer stops and drains the pending timer so a tick that already fired
// for a superseded notice cannot be mistaken for the new one's expiry.
func (n *Notices) stopTimer() {
	if n.timer == nil {
		return
	}
	if !n.timer.Stop() {
		select {
		case <-n.timer.C:
		default:
		}
	}
	n.timer = nil
}
