package ctl

import (
	"fmt"
	"runtime"

	"github.com/courtside-labs/courtcam/internal/app"
)

// VersionInfo prints client and daemon version information. The daemon half
// is best-effort: an unreachable daemon still yields the client version.
func VersionInfo(baseURL string, jsonOut bool) error {
	type versionJSON struct {
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
		BuiltAt   string `json:"built_at"`
	}

	client := versionJSON{Version: app.Version, GoVersion: runtime.Version(), BuiltAt: app.BuiltAt}

	var daemon versionJSON
	daemonErr := getJSON(baseURL, "/api/version", &daemon)

	if jsonOut {
		out := map[string]any{"client": client}
		if daemonErr == nil {
			out["daemon"] = daemon
		}
		return printJSON(out)
	}

	fmt.Println()
	fmt.Println(header("  VERSION"))
	fmt.Printf("  %-10s %s (%s)\n", colorize(dim, "Client:"), client.Version, client.GoVersion)
	if daemonErr == nil {
		fmt.Printf("  %-10s %s (%s)\n", colorize(dim, "Daemon:"), daemon.Version, daemon.GoVersion)
	} else {
		fmt.Printf("  %-10s %s\n", colorize(dim, "Daemon:"), colorize(red, "unreachable"))
	}
	fmt.Println()
	return nil
}
