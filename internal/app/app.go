// Package app wires together the HTTP server, the UI WebSocket hub, the
// relay link (or the demo simulator), and the device session controller.
// It owns the daemon's lifecycle and holds the latest published snapshot.
package app

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/courtside-labs/courtcam/internal/config"
	"github.com/courtside-labs/courtcam/internal/demo"
	"github.com/courtside-labs/courtcam/internal/relay"
	"github.com/courtside-labs/courtcam/internal/session"
	"github.com/courtside-labs/courtcam/internal/ws"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Log  zerolog.Logger
	Cfg  config.Config
	Bind string
}

// App is the console daemon. It serves the read-only snapshot and the
// command endpoints over HTTP, streams snapshots to UI clients over
// WebSocket, and keeps exactly one device session alive.
type App struct {
	log       zerolog.Logger
	cfg       config.Config
	bind      string
	server    *http.Server
	startedAt time.Time

	hub  *ws.Hub
	ctrl *session.Controller

	// Exactly one of these is set, depending on demo mode.
	relayClient *relay.Client
	sim         *demo.Simulator

	snapshot atomic.Value // session.Snapshot
}

// New assembles the daemon. Call Run to start serving.
func New(opts Options) *App {
	a := &App{
		log:       opts.Log,
		cfg:       opts.Cfg,
		bind:      opts.Bind,
		startedAt: time.Now(),
		hub:       ws.NewHub(),
	}

	var (
		tr     session.Transport
		events <-chan relay.DeviceEvent
	)
	if a.cfg.Demo.Enabled {
		a.sim = demo.New(demo.Options{
			Log:          opts.Log,
			DeviceID:     a.cfg.Relay.DeviceID,
			OfflineEvery: time.Duration(a.cfg.Demo.OfflineEvery) * time.Second,
		})
		tr, events = a.sim, a.sim.Events()
	} else {
		a.relayClient = relay.NewClient(relay.ClientOptions{
			Log:      opts.Log,
			URL:      a.cfg.Relay.URL,
			Token:    a.cfg.Relay.Token,
			DeviceID: a.cfg.Relay.DeviceID,
		})
		tr, events = a.relayClient, a.relayClient.Events()
	}

	a.ctrl = session.NewController(session.ControllerOptions{
		Log:       opts.Log,
		DeviceID:  a.cfg.Relay.DeviceID,
		Transport: tr,
		Events:    events,
		Minutes:   a.cfg.Recording.Minutes,
		Profiles:  a.cfg.Recording.Profiles,
		NoticeTTL: a.cfg.NoticeTTL(),
		Publish:   a.publishSnapshot,
	})

	// Seed the snapshot so reads before the first publish see something
	// coherent rather than a panic.
	a.snapshot.Store(session.Snapshot{
		DeviceID:   a.cfg.Relay.DeviceID,
		Status:     session.UIOffline,
		Recordings: []relay.Recording{},
		TS:         time.Now().UTC(),
	})

	return a
}

// Run starts the HTTP server, the hub, the relay link (or simulator), and
// the session controller. It blocks until the context is cancelled or the
// server returns an error. Cancelling the context is the single teardown:
// it revokes the relay subscription and stops the session's pending timer.
func (a *App) Run(ctx context.Context) error {
	bind := a.bind
	if bind == "" && a.cfg.Server.Bind != "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "127.0.0.1:8090"
	}

	a.server = &http.Server{
		Addr:              bind,
		Handler:           a.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Info().Str("bind", bind).Str("device", a.cfg.Relay.DeviceID).Bool("demo", a.cfg.Demo.Enabled).Msg("console listening")

	go a.hub.Run(ctx)
	if a.sim != nil {
		go a.sim.Run(ctx)
	} else {
		go a.relayClient.Run(ctx)
	}
	go a.ctrl.Run(ctx)

	go func() {
		<-ctx.Done()
		a.log.Info().Msg("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

// publishSnapshot stores the latest snapshot for HTTP reads and fans it out
// to UI WebSocket clients. Called from the controller goroutine; both sinks
// are non-blocking.
func (a *App) publishSnapshot(s session.Snapshot) {
	a.snapshot.Store(s)
	a.hub.BroadcastJSON(s)
}

func (a *App) currentSnapshot() session.Snapshot {
	return a.snapshot.Load().(session.Snapshot)
}
