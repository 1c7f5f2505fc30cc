package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside-labs/courtcam/internal/config"
)

// startDemoApp wires a full daemon against the simulated device and serves
// its routes from an in-process test server.
func startDemoApp(t *testing.T) (*App, *httptest.Server) {
	t.Helper()

	cfg := config.Default()
	cfg.Demo.Enabled = true
	cfg.Relay.DeviceID = "demo-cam"
	cfg.Playback.BaseURL = "http://cam.local:8091/"
	require.NoError(t, config.Validate(cfg))

	a := New(Options{Log: zerolog.Nop(), Cfg: cfg})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go a.hub.Run(ctx)
	go a.sim.Run(ctx)
	go a.ctrl.Run(ctx)

	srv := httptest.NewServer(a.routes())
	t.Cleanup(srv.Close)

	return a, srv
}

func getMap(t *testing.T, srv *httptest.Server, path string) map[string]any {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

func postMap(t *testing.T, srv *httptest.Server, path string, body any) map[string]any {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := srv.Client().Post(srv.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

// fetchStatus reads the snapshot status without failing the test; the
// Eventually polls below run it from a non-test goroutine.
func fetchStatus(srv *httptest.Server, out *string) bool {
	resp, err := srv.Client().Get(srv.URL + "/api/snapshot")
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return false
	}
	s, ok := m["status"].(string)
	*out = s
	return ok
}

func waitForStatus(t *testing.T, srv *httptest.Server, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		var status string
		return fetchStatus(srv, &status) && status == want
	}, 10*time.Second, 50*time.Millisecond, "device never reached %s", want)
}

func TestAPI_Healthz(t *testing.T) {
	_, srv := startDemoApp(t)

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))
}

func TestAPI_StatusBeforeDeviceBoots(t *testing.T) {
	_, srv := startDemoApp(t)

	m := getMap(t, srv, "/api/status")
	assert.Equal(t, "courtcam", m["name"])
	assert.Equal(t, "demo-cam", m["device_id"])
	assert.Equal(t, "OFFLINE", m["status"])
	assert.Equal(t, "demo", m["mode"])
}

func TestAPI_CommandsRejectedWhileOffline(t *testing.T) {
	_, srv := startDemoApp(t)

	d := postMap(t, srv, "/api/start", map[string]any{"minutes": 15, "profile": "720p30"})
	assert.Equal(t, false, d["ok"])
	assert.Contains(t, d["reason"], "OFFLINE")

	d = postMap(t, srv, "/api/stop", nil)
	assert.Equal(t, false, d["ok"])

	d = postMap(t, srv, "/api/refresh", nil)
	assert.Equal(t, false, d["ok"])
}

func TestAPI_StartRejectsBadArguments(t *testing.T) {
	_, srv := startDemoApp(t)
	waitForStatus(t, srv, "STANDBY")

	d := postMap(t, srv, "/api/start", map[string]any{"minutes": 45, "profile": "720p30"})
	assert.Equal(t, false, d["ok"])

	d = postMap(t, srv, "/api/start", map[string]any{"minutes": 15, "profile": "8k"})
	assert.Equal(t, false, d["ok"])
}

func TestAPI_StartInvalidJSON(t *testing.T) {
	_, srv := startDemoApp(t)

	resp, err := srv.Client().Post(srv.URL+"/api/start", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_RecordingRoundTrip(t *testing.T) {
	_, srv := startDemoApp(t)
	waitForStatus(t, srv, "STANDBY")

	d := postMap(t, srv, "/api/start", map[string]any{"minutes": 15, "profile": "720p30"})
	require.Equal(t, true, d["ok"], "start from STANDBY must be accepted: %v", d["reason"])

	// Double-start loses to the pending flag or, once the device confirmed,
	// to the RECORDING status.
	d = postMap(t, srv, "/api/start", map[string]any{"minutes": 15, "profile": "720p30"})
	assert.Equal(t, false, d["ok"])

	waitForStatus(t, srv, "RECORDING")

	d = postMap(t, srv, "/api/stop", nil)
	require.Equal(t, true, d["ok"])

	// Upload runs its course and the listing refreshes by itself.
	waitForStatus(t, srv, "STANDBY")
	require.Eventually(t, func() bool {
		resp, err := srv.Client().Get(srv.URL + "/api/snapshot")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var snap map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			return false
		}
		recs, ok := snap["recordings"].([]any)
		return ok && len(recs) == 1
	}, 10*time.Second, 50*time.Millisecond, "the finished recording never appeared")

	m := getMap(t, srv, "/api/recordings")
	recs := m["recordings"].([]any)
	require.Len(t, recs, 1)
	entry := recs[0].(map[string]any)
	assert.Equal(t, "court_001.mp4", entry["name"])
	assert.Equal(t, "http://cam.local:8091/court_001.mp4", entry["url"])
	assert.Positive(t, entry["size_bytes"])
}

func TestAPI_DismissClearsNotice(t *testing.T) {
	_, srv := startDemoApp(t)
	waitForStatus(t, srv, "STANDBY")

	// Dismiss must succeed whether or not a notice is currently showing, and
	// afterwards the snapshot carries none.
	d := postMap(t, srv, "/api/dismiss", nil)
	require.Equal(t, true, d["ok"])

	snap := getMap(t, srv, "/api/snapshot")
	_, hasNotice := snap["notice"]
	assert.False(t, hasNotice, "dismiss must remove the notice from the snapshot")
}

func TestAPI_SnapshotShape(t *testing.T) {
	_, srv := startDemoApp(t)

	snap := getMap(t, srv, "/api/snapshot")
	assert.Equal(t, "demo-cam", snap["device_id"])
	assert.Contains(t, snap, "controls")
	assert.Contains(t, snap, "recordings")
	assert.Contains(t, snap, "ts")
}

func TestAPI_Version(t *testing.T) {
	_, srv := startDemoApp(t)

	m := getMap(t, srv, "/api/version")
	assert.Contains(t, m, "version")
	assert.Contains(t, m, "go_version")
	assert.Contains(t, m, "built_at")
}
