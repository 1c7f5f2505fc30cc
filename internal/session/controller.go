package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtside-labs/courtcam/internal/metrics"
	"github.com/courtside-labs/courtcam/internal/relay"
)

// intentKind names an operator intent routed through the controller loop.
type intentKind string

const (
	intentStart   intentKind = "start"
	intentStop    intentKind = "stop"
	intentRefresh intentKind = "refresh"
	intentDismiss intentKind = "dismiss"
)

// intent carries one operator request into the event loop. Reply receives
// exactly one Decision.
type intent struct {
	kind    intentKind
	minutes int
	profile string
	reply   chan<- Decision
}

// ControllerOptions holds everything the Controller needs from the caller.
type ControllerOptions struct {
	Log       zerolog.Logger
	DeviceID  string
	Transport Transport
	Events    <-chan relay.DeviceEvent
	Minutes   []int
	Profiles  []string
	NoticeTTL time.Duration
	// Publish receives a fresh snapshot after every mutation. Called from
	// the controller goroutine; implementations must not block.
	Publish func(Snapshot)
}

// Controller owns one device session. It is the single writer for the
// belief store, notification center, and recordings cache: every mutation
// happens inside Run's loop as an atomic reaction to exactly one event,
// intent, or timer tick, so no ordering can be lost and no locks are needed.
type Controller struct {
	log      zerolog.Logger
	deviceID string
	tr       Transport
	events   <-chan relay.DeviceEvent
	intents  chan intent
	publish  func(Snapshot)

	beliefs *Beliefs
	notes   *Notices
	cache   *Cache
	gw      *Gateway
}

// NewController wires the session components for one device identity.
func NewController(opts ControllerOptions) *Controller {
	c := &Controller{
		log:      opts.Log.With().Str("component", "session").Str("device", opts.DeviceID).Logger(),
		deviceID: opts.DeviceID,
		tr:       opts.Transport,
		events:   opts.Events,
		intents:  make(chan intent),
		publish:  opts.Publish,
		beliefs:  NewBeliefs(),
		notes:    NewNotices(opts.NoticeTTL),
		cache:    NewCache(opts.DeviceID),
	}
	c.gw = NewGateway(GatewayOptions{
		Log:       opts.Log,
		Beliefs:   c.beliefs,
		Notices:   c.notes,
		Transport: opts.Transport,
		Minutes:   opts.Minutes,
		Profiles:  opts.Profiles,
	})
	return c
}

// Run subscribes to the device and processes events, operator intents, and
// notice expiries until ctx is cancelled. Teardown is the cancel itself:
// the loop stops, the pending notice timer is cancelled, and nothing can
// mutate session state afterwards.
func (c *Controller) Run(ctx context.Context) {
	if err := c.tr.Watch(); err != nil {
		c.log.Warn().Err(err).Msg("initial watch not sent")
	}
	if err := c.tr.RequestStatus(); err != nil {
		c.log.Warn().Err(err).Msg("initial status request not sent")
	}
	c.emit()

	for {
		select {
		case <-ctx.Done():
			c.notes.Stop()
			c.log.Info().Msg("session closed")
			return

		case ev, ok := <-c.events:
			if !ok {
				c.notes.Stop()
				c.log.Info().Msg("event stream ended, session closed")
				return
			}
			c.handleEvent(ev)

		case in := <-c.intents:
			in.reply <- c.handleIntent(in)

		case <-c.notes.Expired():
			c.notes.Expire()
		}

		c.emit()
	}
}

// handleEvent applies one inbound relay event. Events for foreign device
// identities are discarded; no handler assumes any ordering relative to
// another — the belief store's precedence rules make arrival order
// irrelevant.
func (c *Controller) handleEvent(ev relay.DeviceEvent) {
	if ev.DeviceID != c.deviceID {
		c.log.Debug().Str("device", ev.DeviceID).Str("type", string(ev.Type)).Msg("ignoring event for foreign device")
		metrics.EventsDiscarded.WithLabelValues("foreign").Inc()
		return
	}

	switch ev.Type {
	case relay.EventStatusUpdate:
		status := OperatingStatus(ev.Status)
		if !status.IsValid() {
			c.log.Debug().Str("status", ev.Status).Msg("ignoring unrecognized status")
			metrics.EventsDiscarded.WithLabelValues("malformed").Inc()
			return
		}
		t := c.beliefs.ApplyStatusUpdate(status)
		c.log.Debug().Str("from", string(t.From)).Str("to", string(t.To)).Msg("status update")
		if status == StatusRecording {
			c.notes.Publish("Recording started", NoticeSuccess)
		}
		if t.Entered(StatusStandby) {
			c.notes.Publish("Recording stopped", NoticeInfo)
			if err := c.tr.ListRecordings(); err != nil {
				c.log.Warn().Err(err).Msg("post-stop listing request not sent")
			}
		}

	case relay.EventDeviceOffline:
		c.beliefs.ApplyOffline()
		c.notes.Publish("Device offline", NoticeError)
		c.log.Warn().Msg("device offline")

	case relay.EventDeviceOnline:
		c.beliefs.ApplyOnline()
		// Reachability alone says nothing about device state: re-subscribe
		// and re-request the authoritative status and listing.
		if err := c.tr.Watch(); err != nil {
			c.log.Warn().Err(err).Msg("re-watch not sent")
		}
		if err := c.tr.RequestStatus(); err != nil {
			c.log.Warn().Err(err).Msg("status re-request not sent")
		}
		if err := c.tr.ListRecordings(); err != nil {
			c.log.Warn().Err(err).Msg("listing re-request not sent")
		}
		c.notes.Publish("Device online", NoticeInfo)
		c.log.Info().Msg("device online")

	case relay.EventRecordingsList:
		if c.cache.Replace(ev.DeviceID, ev.Files) {
			c.log.Debug().Int("files", len(ev.Files)).Msg("recordings listing replaced")
		}

	default:
		c.log.Debug().Str("type", string(ev.Type)).Msg("ignoring unrecognized event")
		metrics.EventsDiscarded.WithLabelValues("malformed").Inc()
		return
	}

	metrics.EventsTotal.WithLabelValues(string(ev.Type)).Inc()
}

func (c *Controller) handleIntent(in intent) Decision {
	var d Decision
	switch in.kind {
	case intentStart:
		d = c.gw.RequestStart(in.minutes, in.profile)
	case intentStop:
		d = c.gw.RequestStop()
	case intentRefresh:
		d = c.gw.RequestRefresh()
	case intentDismiss:
		c.notes.Clear()
		d = accepted()
	default:
		d = rejected("unknown intent")
	}

	outcome := "accepted"
	if !d.OK {
		outcome = "rejected"
		c.log.Info().Str("command", string(in.kind)).Str("reason", d.Reason).Msg("command rejected")
	}
	metrics.CommandsTotal.WithLabelValues(string(in.kind), outcome).Inc()
	return d
}

func (c *Controller) emit() {
	if c.publish != nil {
		c.publish(c.snapshot())
	}
}

// Start asks the session to dispatch a start command for the given duration
// and profile. Safe to call from any goroutine; the request is serialized
// through the controller loop.
func (c *Controller) Start(ctx context.Context, minutes int, profile string) (Decision, error) {
	return c.ask(ctx, intent{kind: intentStart, minutes: minutes, profile: profile})
}

// Stop asks the session to dispatch a stop command.
func (c *Controller) Stop(ctx context.Context) (Decision, error) {
	return c.ask(ctx, intent{kind: intentStop})
}

// Refresh asks the session to request a fresh recordings listing.
func (c *Controller) Refresh(ctx context.Context) (Decision, error) {
	return c.ask(ctx, intent{kind: intentRefresh})
}

// Dismiss clears the current notice without waiting for its expiry.
func (c *Controller) Dismiss(ctx context.Context) (Decision, error) {
	return c.ask(ctx, intent{kind: intentDismiss})
}

func (c *Controller) ask(ctx context.Context, in intent) (Decision, error) {
	reply := make(chan Decision, 1)
	in.reply = reply

	select {
	case c.intents <- in:
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}

	select {
	case d := <-reply:
		return d, nil
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}
}
