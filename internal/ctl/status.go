package ctl

import (
	"fmt"
	"strings"
	"time"
)

// StatusResponse mirrors the JSON returned by GET /api/status.
type StatusResponse struct {
	Name          string `json:"name"`
	DeviceID      string `json:"device_id"`
	Status        string `json:"status"`
	StartPending  bool   `json:"start_pending"`
	Recordings    int    `json:"recordings"`
	Mode          string `json:"mode"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Status fetches the console status and prints a formatted summary.
func Status(baseURL string, jsonOut bool) error {
	var s StatusResponse
	if err := getJSON(baseURL, "/api/status", &s); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(s)
	}

	statusStr := colorize(statusColor(s.Status), s.Status)
	if s.StartPending {
		statusStr += colorize(dim, " (start pending)")
	}

	fmt.Println()
	fmt.Println(header("  COURTCAM CONSOLE STATUS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	fmt.Printf("  %-12s %s\n", colorize(dim, "Device:"), s.DeviceID)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Status:"), statusStr)
	fmt.Printf("  %-12s %d\n", colorize(dim, "Recordings:"), s.Recordings)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Mode:"), s.Mode)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Uptime:"), formatDuration(time.Duration(s.UptimeSeconds)*time.Second))
	fmt.Printf("  %-12s %s\n", colorize(dim, "Host:"), strings.TrimRight(baseURL, "/"))
	fmt.Println()

	return nil
}
