// Courtcamd is the console daemon for a single court camera reachable
// through a real-time relay.
//
// It loads configuration, connects to the relay (or starts the built-in
// device simulator), runs the device session, and serves the snapshot,
// command, and WebSocket endpoints for the CLI and dashboard. Shutdown is
// handled gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/courtside-labs/courtcam/internal/app"
	"github.com/courtside-labs/courtcam/internal/config"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "/etc/courtcam/courtcam.toml", "Path to config TOML")
		bind       = pflag.String("bind", "", "HTTP bind address (overrides config)")
		demoMode   = pflag.Bool("demo", false, "Run against the built-in device simulator")
	)
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// No logger yet; config is a prerequisite for one.
		os.Stderr.WriteString("config load failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *demoMode {
		cfg.Demo.Enabled = true
	}

	level, lvlErr := zerolog.ParseLevel(cfg.Logging.Level)
	if lvlErr != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().
		Timestamp().
		Str("service", "courtcamd").
		Logger()

	a := app.New(app.Options{
		Log:  logger,
		Cfg:  cfg,
		Bind: *bind,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("courtcamd failed")
	}

	// Brief pause so in-flight log writes can flush before exit.
	time.Sleep(50 * time.Millisecond)
}
