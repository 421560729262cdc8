package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/agntcy/tourist-scheduler/schedule"
)

// ClientConfig holds configuration for the A2A client.
type ClientConfig struct {
	// Timeout is the default timeout for HTTP requests.
	Timeout time.Duration
	// RetryCount is the number of retries for failed requests.
	RetryCount int
	// RetryDelay is the delay between retries.
	RetryDelay time.Duration
	// Headers are additional headers to include in requests.
	Headers map[string]string
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:    30 * time.Second,
		RetryCount: 3,
		RetryDelay: 1 * time.Second,
		Headers:    make(map[string]string),
	}
}

// Client talks to a remote scheduler over the A2A HTTP convention. It is
// used by demo traffic generators and integration tests.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client

	// cardCache caches discovered agent cards
	cardCache map[string]*cachedCard
	cacheMu   sync.RWMutex
}

type cachedCard struct {
	card      *AgentCard
	expiresAt time.Time
}

// NewClient creates a new Client with the given configuration.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		cardCache:  make(map[string]*cachedCard),
	}
}

// Discover retrieves and validates the AgentCard of the scheduler at the
// given base URL. Cards are cached for five minutes.
func (c *Client) Discover(ctx context.Context, url string) (*AgentCard, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty url", ErrRemoteUnavailable)
	}

	c.cacheMu.RLock()
	if cached, ok := c.cardCache[url]; ok && time.Now().Before(cached.expiresAt) {
		c.cacheMu.RUnlock()
		return cached.card, nil
	}
	c.cacheMu.RUnlock()

	body, _, err := c.do(ctx, http.MethodGet, url+"/.well-known/agent.json", nil)
	if err != nil {
		return nil, err
	}

	var card AgentCard
	if err := json.Unmarshal(body, &card); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.cardCache[url] = &cachedCard{card: &card, expiresAt: time.Now().Add(5 * time.Minute)}
	c.cacheMu.Unlock()

	return &card, nil
}

// SendTouristRequest delivers a tourist request and returns the schedule
// proposal the coordinator produced for it.
func (c *Client) SendTouristRequest(ctx context.Context, url string, req *schedule.TouristRequest) (*schedule.ScheduleProposal, error) {
	payload := struct {
		Type schedule.MessageType `json:"type"`
		*schedule.TouristRequest
	}{schedule.MessageTypeTouristRequest, req}

	body, err := c.send(ctx, url, payload)
	if err != nil {
		return nil, err
	}

	var proposal schedule.ScheduleProposal
	if err := json.Unmarshal(body, &proposal); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if proposal.Type != schedule.MessageTypeScheduleProposal {
		return nil, fmt.Errorf("%w: unexpected type %q", ErrInvalidResponse, proposal.Type)
	}
	return &proposal, nil
}

// SendGuideOffer delivers a guide offer and returns the acknowledgment.
func (c *Client) SendGuideOffer(ctx context.Context, url string, offer *schedule.GuideOffer) (*schedule.Acknowledgment, error) {
	payload := struct {
		Type schedule.MessageType `json:"type"`
		*schedule.GuideOffer
	}{schedule.MessageTypeGuideOffer, offer}

	body, err := c.send(ctx, url, payload)
	if err != nil {
		return nil, err
	}

	var ack schedule.Acknowledgment
	if err := json.Unmarshal(body, &ack); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if ack.Type != schedule.MessageTypeAcknowledgment {
		return nil, fmt.Errorf("%w: unexpected type %q", ErrInvalidResponse, ack.Type)
	}
	return &ack, nil
}

// send POSTs one message payload to the scheduler's message endpoint.
func (c *Client) send(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %w", err)
	}
	body, status, err := c.do(ctx, http.MethodPost, url+"/a2a/messages", data)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrRemoteUnavailable, status, string(body))
	}
	return body, nil
}

// do executes one HTTP request with the configured retry loop.
func (c *Client) do(ctx context.Context, method, url string, body []byte) ([]byte, int, error) {
	var resp *http.Response
	var lastErr error
	for i := 0; i <= c.config.RetryCount; i++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range c.config.Headers {
			req.Header.Set(k, v)
		}

		resp, lastErr = c.httpClient.Do(req)
		if lastErr == nil && resp.StatusCode < http.StatusInternalServerError {
			break
		}
		if resp != nil {
			resp.Body.Close()
			resp = nil
		}
		if i < c.config.RetryCount {
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}
	}

	if lastErr != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRemoteUnavailable, lastErr)
	}
	if resp == nil {
		return nil, 0, fmt.Errorf("%w: no response after retries", ErrRemoteUnavailable)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}
