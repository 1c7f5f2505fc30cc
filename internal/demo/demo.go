// Package demo simulates the camera and the relay in one process so the
// console, CLI, and dashboard can be exercised end-to-end without hardware.
// The simulated device answers status and listing requests, walks through
// STANDBY -> RECORDING -> UPLOADING -> STANDBY on start/stop, and can
// periodically drop offline so the reconnection path gets exercised too.
package demo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/courtside-labs/courtcam/internal/relay"
)

// Options holds everything the Simulator needs from the caller.
type Options struct {
	Log      zerolog.Logger
	DeviceID string

	// BootDelay is how long the device stays silent after startup.
	BootDelay time.Duration
	// Timescale compresses one requested minute of recording into this much
	// wall time, so a 15 minute recording finishes in seconds.
	Timescale time.Duration
	// OfflineEvery triggers a brief simulated outage on this interval.
	// Zero disables outages.
	OfflineEvery time.Duration
}

// Simulator stands in for the relay transport and the device behind it.
// Commands sent through the transport methods are handled by Run's loop the
// way a real device would, and replies come back as ordinary DeviceEvents.
type Simulator struct {
	log      zerolog.Logger
	deviceID string

	bootDelay    time.Duration
	timescale    time.Duration
	offlineEvery time.Duration

	events chan relay.DeviceEvent
	cmds   chan relay.Command

	// Device-side truth, touched only by Run's goroutine.
	status  string
	files   []relay.Recording
	seq     int
	stopC   <-chan time.Time // fires when a recording reaches its duration
	uploadC <-chan time.Time // fires when the post-recording upload ends
}

// New creates a simulator with sensible defaults for unset options.
func New(opts Options) *Simulator {
	if opts.BootDelay <= 0 {
		opts.BootDelay = 2 * time.Second
	}
	if opts.Timescale <= 0 {
		opts.Timescale = time.Second
	}
	return &Simulator{
		log:          opts.Log.With().Str("component", "demo").Logger(),
		deviceID:     opts.DeviceID,
		bootDelay:    opts.BootDelay,
		timescale:    opts.Timescale,
		offlineEvery: opts.OfflineEvery,
		events:       make(chan relay.DeviceEvent, 64),
		cmds:         make(chan relay.Command, 16),
		status:       "STANDBY",
	}
}

// Events returns the simulated inbound event stream.
func (s *Simulator) Events() <-chan relay.DeviceEvent { return s.events }

// Watch implements the session transport.
func (s *Simulator) Watch() error { return s.send(relay.CmdWatchDevice, 0, "") }

// RequestStatus implements the session transport.
func (s *Simulator) RequestStatus() error { return s.send(relay.CmdRequestStatus, 0, "") }

// Start implements the session transport.
func (s *Simulator) Start(minutes int, profile string) error {
	return s.send(relay.CmdStartRecording, minutes, profile)
}

// Stop implements the session transport.
func (s *Simulator) Stop() error { return s.send(relay.CmdStopRecording, 0, "") }

// ListRecordings implements the session transport.
func (s *Simulator) ListRecordings() error { return s.send(relay.CmdListRecordings, 0, "") }

func (s *Simulator) send(t relay.CommandType, minutes int, profile string) error {
	cmd := relay.Command{
		ID:       uuid.NewString(),
		Type:     t,
		DeviceID: s.deviceID,
		Minutes:  minutes,
		Profile:  profile,
		TS:       relay.NowTS(),
	}
	select {
	case s.cmds <- cmd:
		return nil
	default:
		return fmt.Errorf("demo command queue full, dropped %s", t)
	}
}

// Run boots the simulated device and serves commands until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	s.log.Info().Dur("boot_delay", s.bootDelay).Msg("demo mode active — simulating the camera")

	if !sleepOrCancel(ctx, s.bootDelay) {
		return
	}
	s.emit(relay.DeviceEvent{Type: relay.EventDeviceOnline})

	var outageC <-chan time.Time
	if s.offlineEvery > 0 {
		t := time.NewTicker(s.offlineEvery)
		defer t.Stop()
		outageC = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case cmd := <-s.cmds:
			s.handle(cmd)

		case <-s.stopC:
			s.stopC = nil
			s.beginUpload()

		case <-s.uploadC:
			s.uploadC = nil
			s.finishUpload()

		case <-outageC:
			s.outage(ctx)
		}
	}
}

// handle reacts to one console command the way the device firmware would.
func (s *Simulator) handle(cmd relay.Command) {
	switch cmd.Type {
	case relay.CmdWatchDevice:
		// Subscription bookkeeping lives in the real relay; nothing to do.

	case relay.CmdRequestStatus:
		s.emitStatus()

	case relay.CmdListRecordings:
		s.emit(relay.DeviceEvent{Type: relay.EventRecordingsList, Files: s.files})

	case relay.CmdStartRecording:
		if s.status != "STANDBY" {
			// Refused; re-report so the console converges on the truth.
			s.emitStatus()
			return
		}
		s.status = "RECORDING"
		s.emitStatus()
		dur := time.Duration(cmd.Minutes) * s.timescale
		s.stopC = time.After(dur)
		s.log.Info().Int("minutes", cmd.Minutes).Str("profile", cmd.Profile).Dur("sim_duration", dur).Msg("recording started")

	case relay.CmdStopRecording:
		if s.status == "RECORDING" {
			s.stopC = nil
			s.beginUpload()
		}
	}
}

func (s *Simulator) beginUpload() {
	s.status = "UPLOADING"
	s.emitStatus()
	s.uploadC = time.After(2 * s.timescale)
}

func (s *Simulator) finishUpload() {
	s.seq++
	s.files = append(s.files, relay.Recording{
		Name:      fmt.Sprintf("court_%03d.mp4", s.seq),
		SizeBytes: int64(40+rand.IntN(200)) * 1 << 20, // 40–240 MB
	})
	s.status = "STANDBY"
	s.emitStatus()
	s.log.Info().Int("recordings", len(s.files)).Msg("upload finished")
}

// outage takes the simulated device offline briefly, then back online.
func (s *Simulator) outage(ctx context.Context) {
	s.log.Info().Msg("simulating outage")
	s.emit(relay.DeviceEvent{Type: relay.EventDeviceOffline})
	if !sleepOrCancel(ctx, 3*s.timescale) {
		return
	}
	s.emit(relay.DeviceEvent{Type: relay.EventDeviceOnline})
}

func (s *Simulator) emitStatus() {
	s.emit(relay.DeviceEvent{Type: relay.EventStatusUpdate, Status: s.status})
}

func (s *Simulator) emit(ev relay.DeviceEvent) {
	ev.DeviceID = s.deviceID
	ev.TS = relay.NowTS()
	select {
	case s.events <- ev:
	default:
		// The console consumes faster than the device produces; dropping
		// here only happens if nobody is listening.
	}
}

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
