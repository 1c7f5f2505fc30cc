package ctl

import (
	"fmt"
)

// recordingsResponse mirrors the JSON returned by GET /api/recordings.
type recordingsResponse struct {
	Recordings []struct {
		Name      string `json:"name"`
		SizeBytes int64  `json:"size_bytes"`
		URL       string `json:"url"`
	} `json:"recordings"`
}

// Recordings lists the device's recordings as last reported to the console.
func Recordings(baseURL string, jsonOut bool) error {
	var resp recordingsResponse
	if err := getJSON(baseURL, "/api/recordings", &resp); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  RECORDINGS"))

	if len(resp.Recordings) == 0 {
		fmt.Println(colorize(dim, "  ────────────────────────"))
		fmt.Println("  No recordings reported yet. Try `courtctl refresh`.")
	} else {
		t := newTable("  ", "Name", "Size", "Playback URL")
		t.alignRight(1)
		for _, r := range resp.Recordings {
			t.row(r.Name, formatBytes(r.SizeBytes), colorize(dim, r.URL))
		}
		t.flush()
	}
	fmt.Println()
	return nil
}

// Play prints the playback URL for one recording by name.
func Play(baseURL, name string, jsonOut bool) error {
	var resp recordingsResponse
	if err := getJSON(baseURL, "/api/recordings", &resp); err != nil {
		return err
	}

	for _, r := range resp.Recordings {
		if r.Name == name {
			if jsonOut {
				return printJSON(r)
			}
			fmt.Println(r.URL)
			return nil
		}
	}
	return fmt.Errorf("no recording named %q in the current listing", name)
}
