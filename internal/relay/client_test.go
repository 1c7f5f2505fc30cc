package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRelay is a minimal in-process relay endpoint: it accepts WebSocket
// connections, captures the Authorization header, and decodes inbound
// commands.
type stubRelay struct {
	srv   *httptest.Server
	conns chan *websocket.Conn
	cmds  chan Command
	auth  chan string
}

func newStubRelay(t *testing.T) *stubRelay {
	t.Helper()

	s := &stubRelay{
		conns: make(chan *websocket.Conn, 4),
		cmds:  make(chan Command, 16),
		auth:  make(chan string, 4),
	}
	upgrader := websocket.Upgrader{}

	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.auth <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.conns <- conn
		for {
			var cmd Command
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			s.cmds <- cmd
		}
	}))
	t.Cleanup(s.srv.Close)

	return s
}

func (s *stubRelay) wsURL() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

func (s *stubRelay) waitConn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-s.conns:
		return conn
	case <-time.After(3 * time.Second):
		t.Fatal("client never connected")
		return nil
	}
}

func (s *stubRelay) waitCommand(t *testing.T) Command {
	t.Helper()
	select {
	case cmd := <-s.cmds:
		return cmd
	case <-time.After(3 * time.Second):
		t.Fatal("no command received")
		return Command{}
	}
}

func startClient(t *testing.T, relayURL, token string) *Client {
	t.Helper()

	c := NewClient(ClientOptions{
		Log:      zerolog.Nop(),
		URL:      relayURL,
		Token:    token,
		DeviceID: "cam-1",
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return c
}

func waitEvent(t *testing.T, c *Client) DeviceEvent {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("no event delivered")
		return DeviceEvent{}
	}
}

func TestClient_CommandsCarryIdentityAndCredential(t *testing.T) {
	stub := newStubRelay(t)
	c := startClient(t, stub.wsURL(), "s3cret")
	stub.waitConn(t)

	assert.Equal(t, "Bearer s3cret", <-stub.auth)

	require.NoError(t, c.Watch())
	cmd := stub.waitCommand(t)
	assert.Equal(t, CmdWatchDevice, cmd.Type)
	assert.Equal(t, "cam-1", cmd.DeviceID)
	assert.NotEmpty(t, cmd.ID)
	assert.NotEmpty(t, cmd.TS)

	require.NoError(t, c.Start(30, "720p60"))
	cmd = stub.waitCommand(t)
	assert.Equal(t, CmdStartRecording, cmd.Type)
	assert.Equal(t, 30, cmd.Minutes)
	assert.Equal(t, "720p60", cmd.Profile)
}

func TestClient_DeliversRelayEvents(t *testing.T) {
	stub := newStubRelay(t)
	c := startClient(t, stub.wsURL(), "")
	conn := stub.waitConn(t)

	require.NoError(t, conn.WriteJSON(DeviceEvent{
		Type: EventStatusUpdate, DeviceID: "cam-1", Status: "STANDBY", TS: NowTS(),
	}))

	ev := waitEvent(t, c)
	assert.Equal(t, EventStatusUpdate, ev.Type)
	assert.Equal(t, "STANDBY", ev.Status)
}

func TestClient_MalformedFramesDropped(t *testing.T) {
	stub := newStubRelay(t)
	c := startClient(t, stub.wsURL(), "")
	conn := stub.waitConn(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "unheard_of"}))
	require.NoError(t, conn.WriteJSON(DeviceEvent{
		Type: EventDeviceOnline, DeviceID: "cam-1", TS: NowTS(),
	}))

	// Only the recognized event makes it through, and in order.
	ev := waitEvent(t, c)
	assert.Equal(t, EventDeviceOnline, ev.Type)
}

func TestClient_LinkLossBecomesDeviceOutage(t *testing.T) {
	stub := newStubRelay(t)
	c := startClient(t, stub.wsURL(), "")
	conn := stub.waitConn(t)

	// Kill the link: the session must see the device go away even though the
	// device itself said nothing.
	require.NoError(t, conn.Close())

	ev := waitEvent(t, c)
	assert.Equal(t, EventDeviceOffline, ev.Type)
	assert.Equal(t, "cam-1", ev.DeviceID)

	// The client redials on its own; recovery rides the same synthetic path.
	stub.waitConn(t)
	ev = waitEvent(t, c)
	assert.Equal(t, EventDeviceOnline, ev.Type)
}

func TestClient_SendQueueIsBounded(t *testing.T) {
	// Never started, so nothing drains the queue.
	c := NewClient(ClientOptions{Log: zerolog.Nop(), URL: "ws://unused", DeviceID: "cam-1"})

	for i := 0; i < sendQueueSize; i++ {
		require.NoError(t, c.RequestStatus())
	}

	err := c.RequestStatus()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue full")
}
