package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/courtside-labs/courtcam/internal/metrics"
)

const (
	sendQueueSize  = 16
	eventQueueSize = 64
	dialTimeout    = 10 * time.Second
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
	writeDeadline  = 5 * time.Second
)

// ClientOptions holds everything the Client needs from the caller.
type ClientOptions struct {
	Log      zerolog.Logger
	URL      string // ws:// or wss:// relay endpoint
	Token    string // opaque credential presented at dial time
	DeviceID string
}

// Client maintains one WebSocket connection to the relay for one device
// identity. Outbound commands are fire-and-forget: they are queued and
// written in order, and outcomes arrive later as independent DeviceEvents.
//
// The client reconnects with capped exponential backoff. A lost link is
// surfaced as a synthetic device_offline event and a re-established one as a
// synthetic device_online event, so consumers handle transport outages and
// device outages through the same path.
type Client struct {
	log      zerolog.Logger
	url      string
	token    string
	deviceID string

	events chan DeviceEvent
	out    chan Command
}

// NewClient allocates a client. Call Run in a goroutine to start it;
// commands queued before the first dial completes are sent once it does.
func NewClient(opts ClientOptions) *Client {
	return &Client{
		log:      opts.Log.With().Str("component", "relay").Logger(),
		url:      opts.URL,
		token:    opts.Token,
		deviceID: opts.DeviceID,
		events:   make(chan DeviceEvent, eventQueueSize),
		out:      make(chan Command, sendQueueSize),
	}
}

// Events returns the inbound event stream. It carries relay events plus the
// synthetic offline/online events around link loss.
func (c *Client) Events() <-chan DeviceEvent { return c.events }

// Watch subscribes to events for the configured device.
func (c *Client) Watch() error { return c.send(Command{Type: CmdWatchDevice}) }

// RequestStatus asks the device to report its authoritative status.
func (c *Client) RequestStatus() error { return c.send(Command{Type: CmdRequestStatus}) }

// Start asks the device to begin a recording.
func (c *Client) Start(minutes int, profile string) error {
	return c.send(Command{Type: CmdStartRecording, Minutes: minutes, Profile: profile})
}

// Stop asks the device to end the current recording.
func (c *Client) Stop() error { return c.send(Command{Type: CmdStopRecording}) }

// ListRecordings asks the device for its current recordings listing.
func (c *Client) ListRecordings() error { return c.send(Command{Type: CmdListRecordings}) }

// send stamps and queues a command. It never blocks: if the queue is full
// the command is rejected so the caller can surface the failure.
func (c *Client) send(cmd Command) error {
	cmd.ID = uuid.NewString()
	cmd.DeviceID = c.deviceID
	cmd.TS = NowTS()

	select {
	case c.out <- cmd:
		c.log.Debug().Str("command", string(cmd.Type)).Str("id", cmd.ID).Msg("command queued")
		return nil
	default:
		return fmt.Errorf("relay send queue full, dropped %s", cmd.Type)
	}
}

// Run dials the relay and keeps the link alive until ctx is cancelled,
// redialing with capped exponential backoff after any failure.
func (c *Client) Run(ctx context.Context) {
	backoff := initialBackoff
	connectedBefore := false

	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := c.dial(ctx)
		if err != nil {
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("relay dial failed")
			if !sleepOrCancel(ctx, backoff) {
				return
			}
			if backoff *= 2; backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = initialBackoff

		c.log.Info().Str("url", c.url).Msg("relay connected")
		metrics.Connected.Set(1)
		if connectedBefore {
			metrics.Reconnects.Inc()
			// Let the session re-sync exactly as it would after a
			// device-reported recovery.
			c.deliver(ctx, DeviceEvent{Type: EventDeviceOnline, DeviceID: c.deviceID, TS: NowTS()})
		}
		connectedBefore = true

		c.serve(ctx, conn)
		metrics.Connected.Set(0)
		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}

		// A device we can no longer hear from is indistinguishable from an
		// offline device.
		c.log.Warn().Msg("relay link lost")
		c.deliver(ctx, DeviceEvent{Type: EventDeviceOffline, DeviceID: c.deviceID, TS: NowTS()})
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}

	hdr := http.Header{}
	if c.token != "" {
		hdr.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := dialer.DialContext(ctx, c.url, hdr)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// serve pumps the connection in both directions until the link drops or ctx
// is cancelled.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) {
	readerDone := make(chan struct{})

	go func() {
		defer close(readerDone)
		c.readLoop(ctx, conn)
	}()

	c.writeLoop(ctx, conn, readerDone)
	_ = conn.Close() // unblocks the reader if the writer gave up first
	<-readerDone
}

// readLoop decodes inbound frames and delivers recognized events. Malformed
// frames are logged and dropped; only a transport error ends the loop.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var ev DeviceEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			c.log.Debug().Err(err).Msg("dropping malformed relay frame")
			metrics.EventsDiscarded.WithLabelValues("malformed").Inc()
			continue
		}

		switch ev.Type {
		case EventStatusUpdate, EventDeviceOffline, EventDeviceOnline, EventRecordingsList:
			c.deliver(ctx, ev)
		default:
			c.log.Debug().Str("type", string(ev.Type)).Msg("dropping unrecognized relay event")
			metrics.EventsDiscarded.WithLabelValues("malformed").Inc()
		}
	}
}

// writeLoop serializes queued commands onto the connection. It returns when
// the reader ends, a write fails, or ctx is cancelled.
func (c *Client) writeLoop(ctx context.Context, conn *websocket.Conn, readerDone <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-readerDone:
			return
		case cmd := <-c.out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteJSON(cmd); err != nil {
				c.log.Warn().Err(err).Str("command", string(cmd.Type)).Msg("relay write failed")
				return
			}
		}
	}
}

func (c *Client) deliver(ctx context.Context, ev DeviceEvent) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}

// sleepOrCancel blocks for duration d or until the context is cancelled.
// Returns true if the sleep completed, false if interrupted.
func sleepOrCancel(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
