// Package dashboard delivers scheduler state-change events to the live
// dashboard collaborator. Delivery is best-effort by contract: a failed or
// slow sink never blocks the coordinator's response path.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Notifier is a sink accepting scheduler events (raw entities, proposals,
// acknowledgments, metrics snapshots) as JSON-marshalable values.
type Notifier interface {
	Notify(ctx context.Context, event any) error
}

// HTTPNotifier POSTs each event as JSON to a fixed dashboard URL.
type HTTPNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPNotifier creates a notifier for the given URL. timeout bounds each
// delivery attempt; zero falls back to 3 seconds.
func NewHTTPNotifier(url string, timeout time.Duration, logger *zap.Logger) *HTTPNotifier {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger.With(zap.String("component", "dashboard_http")),
	}
}

// Notify delivers one event. A non-2xx response counts as a failure.
func (n *HTTPNotifier) Notify(ctx context.Context, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal dashboard event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create dashboard request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post dashboard event: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("dashboard returned status %d", resp.StatusCode)
	}
	return nil
}

// Fanout forwards each event to every sink concurrently. One failing sink
// does not stop delivery to the others; the joined errors are returned so
// the caller can log them.
type Fanout struct {
	sinks  []Notifier
	logger *zap.Logger
}

// NewFanout creates a fanout over the given sinks.
func NewFanout(logger *zap.Logger, sinks ...Notifier) *Fanout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fanout{
		sinks:  sinks,
		logger: logger.With(zap.String("component", "dashboard_fanout")),
	}
}

// Notify delivers the event to all sinks.
func (f *Fanout) Notify(ctx context.Context, event any) error {
	if len(f.sinks) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, sink := range f.sinks {
		sink := sink // per-iteration copy; required while building with Go < 1.22
		g.Go(func() error {
			if err := sink.Notify(gctx, event); err != nil {
				f.logger.Warn("dashboard sink failed", zap.Error(err))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			// Collect all results instead of cancelling the group early.
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
