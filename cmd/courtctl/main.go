// Courtctl is the command-line client for a running courtcamd console.
// It connects over HTTP and WebSocket to show device status, list and play
// recordings, issue start/stop commands, and stream live snapshots.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/courtside-labs/courtcam/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8090", "Console daemon URL")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --minutes are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// ── Query commands ────────────────────────────────────────────
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "recordings":
		err = ctl.Recordings(*host, *jsonOut)

	case "play":
		if len(subArgs) < 1 {
			err = fmt.Errorf("play requires a recording name")
			break
		}
		err = ctl.Play(*host, subArgs[0], *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	// ── Control commands ──────────────────────────────────────────
	case "start":
		opts := ctl.StartOptions{Minutes: 15, Profile: "720p30", JSON: *jsonOut}
		startFlags := pflag.NewFlagSet("start", pflag.ContinueOnError)
		startFlags.IntVar(&opts.Minutes, "minutes", opts.Minutes, "Recording duration in minutes (15, 30, 60)")
		startFlags.StringVar(&opts.Profile, "profile", opts.Profile, "Quality profile (720p30, 720p60, 1080p30)")
		_ = startFlags.Parse(subArgs)
		err = ctl.Start(*host, opts)

	case "stop":
		err = ctl.Stop(*host, *jsonOut)

	case "refresh":
		err = ctl.Refresh(*host, *jsonOut)

	// ── Live streaming ────────────────────────────────────────────
	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{JSON: *jsonOut})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  courtctl — court camera console CLI

  USAGE
    courtctl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show device status as the console believes it
    recordings      List recordings with sizes and playback URLs
    play NAME       Print the playback URL for one recording
    version         Show CLI and daemon version information

  COMMANDS (control)
    start           Start a recording (rejected unless device is STANDBY)
    stop            Stop the current recording
    refresh         Re-request the recordings listing from the device

  COMMANDS (live)
    watch           Stream live session snapshots (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8090)
        --json          Output raw JSON instead of formatted text

  COMMAND FLAGS
    start:
        --minutes N         Recording duration in minutes (default: 15)
        --profile NAME      Quality profile (default: 720p30)

  EXAMPLES
    courtctl status
    courtctl --json status
    courtctl --host http://192.168.8.1:8090 watch
    courtctl start --minutes 30 --profile 1080p30
    courtctl stop
    courtctl refresh
    courtctl recordings
    courtctl play court_001.mp4

`)
}
