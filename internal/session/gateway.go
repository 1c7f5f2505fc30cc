package session

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Transport is the outbound half of the relay, bound to one device identity.
// Commands are fire-and-forget: a nil error means the command was handed to
// the transport, not that the device acted on it — outcomes arrive later as
// independent events.
type Transport interface {
	Watch() error
	RequestStatus() error
	Start(minutes int, profile string) error
	Stop() error
	ListRecordings() error
}

// Decision is the outcome of vetting a command against the current belief.
// Rejection is an expected outcome, not a fault, so it travels as a value
// rather than an error.
type Decision struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func accepted() Decision              { return Decision{OK: true} }
func rejected(reason string) Decision { return Decision{Reason: reason} }

// Gateway validates operator commands against the current belief before
// anything reaches the transport. The same predicates that gate acceptance
// drive the Controls flags in the snapshot, so disabled buttons and
// rejections can never disagree.
//
// Gateway is not safe for concurrent use; the session Controller is its
// single caller.
type Gateway struct {
	log      zerolog.Logger
	beliefs  *Beliefs
	notes    *Notices
	tr       Transport
	minutes  map[int]bool
	profiles map[string]bool
}

// GatewayOptions holds everything the Gateway needs from the caller.
type GatewayOptions struct {
	Log       zerolog.Logger
	Beliefs   *Beliefs
	Notices   *Notices
	Transport Transport
	Minutes   []int    // allowed recording durations
	Profiles  []string // allowed quality profile keys
}

// NewGateway builds a gateway with the given allow-lists.
func NewGateway(opts GatewayOptions) *Gateway {
	minutes := make(map[int]bool, len(opts.Minutes))
	for _, m := range opts.Minutes {
		minutes[m] = true
	}
	profiles := make(map[string]bool, len(opts.Profiles))
	for _, p := range opts.Profiles {
		profiles[p] = true
	}
	return &Gateway{
		log:      opts.Log.With().Str("component", "gateway").Logger(),
		beliefs:  opts.Beliefs,
		notes:    opts.Notices,
		tr:       opts.Transport,
		minutes:  minutes,
		profiles: profiles,
	}
}

// RequestStart vets and dispatches a start command. Argument validation
// happens before any belief check: a duration or profile outside the
// allow-list is a caller defect and never reaches the transport.
func (g *Gateway) RequestStart(minutes int, profile string) Decision {
	if !g.minutes[minutes] {
		return rejected(fmt.Sprintf("duration %d minutes is not allowed", minutes))
	}
	if !g.profiles[profile] {
		return rejected(fmt.Sprintf("unknown quality profile %q", profile))
	}
	if ui := g.beliefs.DerivedUIStatus(); ui != UIStandby {
		return rejected(fmt.Sprintf("device is %s, start requires STANDBY", ui))
	}
	if g.beliefs.StartPending() {
		return rejected("a start is already awaiting confirmation")
	}

	if err := g.tr.Start(minutes, profile); err != nil {
		g.log.Warn().Err(err).Msg("start command not sent")
		return rejected("relay unavailable, try again")
	}
	g.beliefs.BeginOptimisticStart()
	g.notes.Publish("Starting recording…", NoticeInfo)
	g.log.Info().Int("minutes", minutes).Str("profile", profile).Msg("start dispatched")
	return accepted()
}

// RequestStop vets and dispatches a stop command. It does not touch the
// operating status locally; the authoritative update does that when it
// arrives.
func (g *Gateway) RequestStop() Decision {
	if ui := g.beliefs.DerivedUIStatus(); ui != UIRecording {
		return rejected(fmt.Sprintf("device is %s, stop requires RECORDING", ui))
	}

	if err := g.tr.Stop(); err != nil {
		g.log.Warn().Err(err).Msg("stop command not sent")
		return rejected("relay unavailable, try again")
	}
	g.notes.Publish("Stop requested", NoticeInfo)
	g.log.Info().Msg("stop dispatched")
	return accepted()
}

// RequestRefresh dispatches a recordings listing request. Idempotent; it
// never mutates belief state.
func (g *Gateway) RequestRefresh() Decision {
	if g.beliefs.Connectivity() != ConnOnline {
		return rejected("device is offline")
	}

	if err := g.tr.ListRecordings(); err != nil {
		g.log.Warn().Err(err).Msg("listing request not sent")
		return rejected("relay unavailable, try again")
	}
	return accepted()
}
