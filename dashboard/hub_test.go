package dashboard

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(hub)
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, "ws"+ts.URL[len("http"):], nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber count %d, want %d", hub.SubscriberCount(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastsToSubscriber(t *testing.T) {
	hub := NewHub(16, nil)
	conn := dialHub(t, hub)
	waitForSubscribers(t, hub, 1)

	event := map[string]any{"type": "metrics", "total_tourists": 2}
	require.NoError(t, hub.Notify(context.Background(), event))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	kind, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, kind)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "metrics", got["type"])
	assert.EqualValues(t, 2, got["total_tourists"])
}

func TestHub_MultipleSubscribers(t *testing.T) {
	hub := NewHub(16, nil)
	connA := dialHub(t, hub)
	connB := dialHub(t, hub)
	waitForSubscribers(t, hub, 2)

	require.NoError(t, hub.Notify(context.Background(), map[string]string{"type": "GuideOffer"}))

	for _, conn := range []*websocket.Conn{connA, connB} {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_, data, err := conn.Read(ctx)
		cancel()
		require.NoError(t, err)
		assert.Contains(t, string(data), "GuideOffer")
	}
}

func TestHub_NotifyWithoutSubscribers(t *testing.T) {
	hub := NewHub(16, nil)
	assert.NoError(t, hub.Notify(context.Background(), map[string]string{"type": "metrics"}))
	assert.Zero(t, hub.SubscriberCount())
}

func TestHub_UnmarshalableEvent(t *testing.T) {
	hub := NewHub(16, nil)
	assert.Error(t, hub.Notify(context.Background(), make(chan int)))
}

func TestHub_SubscriberRemovedOnDisconnect(t *testing.T) {
	hub := NewHub(16, nil)
	conn := dialHub(t, hub)
	waitForSubscribers(t, hub, 1)

	conn.Close(websocket.StatusNormalClosure, "")
	waitForSubscribers(t, hub, 0)
}
