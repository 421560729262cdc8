package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSink struct {
	calls atomic.Int32
	err   error
}

func (s *stubSink) Notify(_ context.Context, _ any) error {
	s.calls.Add(1)
	return s.err
}

func TestHTTPNotifier_Notify(t *testing.T) {
	type received struct {
		method      string
		contentType string
		body        map[string]any
	}
	var got atomic.Pointer[received]

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		got.Store(&received{
			method:      r.Method,
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)

	n := NewHTTPNotifier(ts.URL, 2*time.Second, nil)
	err := n.Notify(context.Background(), map[string]any{"type": "metrics", "total_tourists": 3})
	require.NoError(t, err)

	r := got.Load()
	require.NotNil(t, r)
	assert.Equal(t, http.MethodPost, r.method)
	assert.Equal(t, "application/json", r.contentType)
	assert.Equal(t, "metrics", r.body["type"])
	assert.EqualValues(t, 3, r.body["total_tourists"])
}

func TestHTTPNotifier_Non2xxIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	n := NewHTTPNotifier(ts.URL, 2*time.Second, nil)
	err := n.Notify(context.Background(), map[string]string{"type": "metrics"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPNotifier_UnreachableSink(t *testing.T) {
	n := NewHTTPNotifier("http://127.0.0.1:1/events", 200*time.Millisecond, nil)
	err := n.Notify(context.Background(), map[string]string{"type": "metrics"})
	assert.Error(t, err)
}

func TestHTTPNotifier_UnmarshalableEvent(t *testing.T) {
	n := NewHTTPNotifier("http://localhost:9", time.Second, nil)
	err := n.Notify(context.Background(), make(chan int))
	assert.Error(t, err)
}

func TestFanout_DeliversToAllSinks(t *testing.T) {
	a := &stubSink{}
	b := &stubSink{}
	f := NewFanout(nil, a, b)

	require.NoError(t, f.Notify(context.Background(), "event"))
	assert.Equal(t, int32(1), a.calls.Load())
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestFanout_FailingSinkDoesNotStopOthers(t *testing.T) {
	failing := &stubSink{err: errors.New("sink down")}
	healthy := &stubSink{}
	f := NewFanout(nil, failing, healthy)

	err := f.Notify(context.Background(), "event")
	assert.Error(t, err, "the joined error reports the failing sink")
	assert.Equal(t, int32(1), healthy.calls.Load(), "healthy sink still receives the event")
}

func TestFanout_NoSinks(t *testing.T) {
	f := NewFanout(nil)
	assert.NoError(t, f.Notify(context.Background(), "event"))
}
