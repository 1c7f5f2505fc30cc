package ctl

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// WatchOptions controls the watch command behavior.
type WatchOptions struct {
	JSON bool // output raw JSON per snapshot
}

// snapshotView mirrors the snapshot JSON the daemon streams over /ws.
type snapshotView struct {
	DeviceID     string `json:"device_id"`
	Status       string `json:"status"`
	StartPending bool   `json:"start_pending"`
	Notice       *struct {
		Text string `json:"text"`
		Kind string `json:"kind"`
	} `json:"notice"`
	Recordings []struct {
		Name      string `json:"name"`
		SizeBytes int64  `json:"size_bytes"`
	} `json:"recordings"`
	Controls struct {
		CanStart   bool `json:"can_start"`
		CanStop    bool `json:"can_stop"`
		CanRefresh bool `json:"can_refresh"`
	} `json:"controls"`
	TS time.Time `json:"ts"`
}

// Watch connects to the console's WebSocket endpoint and streams live
// snapshots to the terminal until interrupted.
func Watch(baseURL string, opts WatchOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil {
		return err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	u.Path = "/ws"
	u.RawQuery = ""

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if !opts.JSON {
		fmt.Println()
		fmt.Printf("  %s %s\n", colorize(green, "connected"), colorize(dim, u.String()))
		fmt.Println(colorize(dim, "  "+strings.Repeat("─", 50)))
		fmt.Println()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}

			if opts.JSON {
				fmt.Println(string(msg))
			} else {
				renderSnapshot(msg)
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
		if !opts.JSON {
			fmt.Println()
			fmt.Println(colorize(dim, "  disconnecting..."))
		}
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(1*time.Second),
		)
		return nil
	case <-done:
		return nil
	}
}

// renderSnapshot prints one snapshot as a single line. Falls back to raw
// JSON when the payload doesn't parse.
func renderSnapshot(raw []byte) {
	var s snapshotView
	if err := json.Unmarshal(raw, &s); err != nil {
		fmt.Printf("  %s\n", string(raw))
		return
	}

	ts := s.TS.Local().Format("15:04:05")

	status := colorize(statusColor(s.Status), padRight(s.Status, 9))

	pending := ""
	if s.StartPending {
		pending = colorize(dim, " starting…")
	}

	notice := ""
	if s.Notice != nil {
		notice = "  " + colorize(noticeColor(s.Notice.Kind), s.Notice.Text)
	}

	fmt.Printf("  %s %s%s  %s%s\n",
		colorize(dim, ts),
		status,
		pending,
		colorize(dim, fmt.Sprintf("%d recordings", len(s.Recordings))),
		notice,
	)
}

// noticeColor maps a notice kind to its terminal color.
func noticeColor(kind string) string {
	switch kind {
	case "success":
		return green
	case "error":
		return red
	default:
		return cyan
	}
}
