package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solagire-dashboard/internal/data"
)

func newTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case b, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var m struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(b, &m))
		return Message{Type: m.Type, Payload: m.Payload}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	h, _ := newTestHub(t)
	a := NewClient(h, nil)
	b := NewClient(h, nil)
	require.True(t, h.RegisterClient(a))
	require.True(t, h.RegisterClient(b))

	h.BroadcastAlert(data.Alert{Code: "battery_low"})
	require.Equal(t, TypeAlert, receive(t, a).Type)
	require.Equal(t, TypeAlert, receive(t, b).Type)

	h.BroadcastSnapshot(&data.Snapshot{ID: "s1"})
	m := receive(t, a)
	require.Equal(t, TypeSnapshot, m.Type)
	require.Contains(t, string(m.Payload.(json.RawMessage)), `"id":"s1"`)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	h, _ := newTestHub(t)
	c := NewClient(h, nil)
	require.True(t, h.RegisterClient(c))
	h.unregisterClient(c)

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-c.Send
	require.False(t, ok)
}

func TestHubStopClosesClientsAndRejectsNew(t *testing.T) {
	h, cancel := newTestHub(t)
	c := NewClient(h, nil)
	require.True(t, h.RegisterClient(c))
	cancel()

	_, ok := <-c.Send
	require.False(t, ok)
	require.False(t, h.RegisterClient(NewClient(h, nil)))

	// Broadcasting after stop must not block.
	h.BroadcastAlert(data.Alert{Code: "x"})
}

func TestHubDropsSlowClient(t *testing.T) {
	h, _ := newTestHub(t)
	slow := &Client{Hub: h, Send: make(chan []byte)} // unbuffered, never read
	require.True(t, h.RegisterClient(slow))

	h.BroadcastAlert(data.Alert{Code: "x"})
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
