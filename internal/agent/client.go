package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/venturely/venturely/internal/config"
	"github.com/venturely/venturely/internal/log"
)

// Chat endpoint paths, relative to the configured base URL.
const (
	chatPath   = "/api/ai/chat"
	streamPath = "/api/ai/chat/stream"
)

// SessionProvider supplies the conversation session identifier sent
// with every request.
type SessionProvider interface {
	GetOrCreate() string
}

// Options customizes a single SendMessage call.
type Options struct {
	// UserType overrides the configured role for this request.
	UserType string

	// Streaming requests incremental delivery over SSE.
	Streaming bool

	// OnChunk receives each incremental text fragment in arrival order
	// when streaming. Fragments concatenate to the full message.
	OnChunk func(text string)

	// Context carries opaque extra fields forwarded verbatim to the
	// backend.
	Context map[string]any
}

// Client talks to the agent backend.
//
// Design: one logical request per SendMessage call. The client keeps
// observable in-flight and last-error state for UI layers; the state is
// mutated only under the mutex and the in-flight flag is reset in a
// deferred guard regardless of outcome.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	sessions   SessionProvider
	userID     string
	userType   string
	logger     log.Logger
	tracer     trace.Tracer

	mu       sync.Mutex
	inFlight bool
	lastErr  string
}

// NewClient builds a transport client from configuration. The session
// provider must not be nil.
func NewClient(cfg *config.Config, sessions SessionProvider, logger log.Logger) (*Client, error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}
	if sessions == nil {
		return nil, fmt.Errorf("session provider is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}

	perSecond := rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)

	return &Client{
		baseURL:    strings.TrimRight(cfg.AgentBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    rate.NewLimiter(perSecond, cfg.RequestsPerMinute),
		sessions:   sessions,
		userID:     cfg.UserID,
		userType:   cfg.UserType,
		logger:     logger.With("component", "agent"),
		tracer:     otel.Tracer("venturely/agent"),
	}, nil
}

// InFlight reports whether a request is currently being processed.
func (c *Client) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Err returns the human-readable message of the most recent failure,
// or an empty string. Cleared at the start of each SendMessage call.
func (c *Client) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SendMessage issues one logical request to the agent backend and
// returns the normalized response.
//
// An authenticated user must be configured; without one the call fails
// before any network activity. Failures are returned as errors and
// mirrored into the client's observable error state.
func (c *Client) SendMessage(ctx context.Context, message string, opts *Options) (*Response, error) {
	if opts == nil {
		opts = &Options{}
	}
	if strings.TrimSpace(message) == "" {
		return nil, c.fail(ErrEmptyMessage)
	}
	if c.userID == "" {
		return nil, c.fail(ErrNoUser)
	}

	c.mu.Lock()
	c.inFlight = true
	c.lastErr = ""
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	userType := c.userType
	if opts.UserType != "" {
		userType = opts.UserType
	}

	ctx, span := c.tracer.Start(ctx, "agent.SendMessage",
		trace.WithAttributes(
			attribute.String("agent.user_type", userType),
			attribute.Bool("agent.streaming", opts.Streaming),
		))
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, c.fail(fmt.Errorf("rate limit wait: %w", err))
	}

	payload := request{
		UserID:    c.userID,
		UserType:  userType,
		Message:   message,
		SessionID: c.sessions.GetOrCreate(),
		Streaming: opts.Streaming,
		Context:   opts.Context,
	}

	var (
		resp *Response
		err  error
	)
	if opts.Streaming {
		resp, err = c.sendStreaming(ctx, payload, opts.OnChunk)
	} else {
		resp, err = c.send(ctx, payload)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, c.fail(err)
	}

	return resp, nil
}

// send performs the non-streaming JSON exchange.
func (c *Client) send(ctx context.Context, payload request) (*Response, error) {
	body, err := c.post(ctx, c.baseURL+chatPath, payload)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var wire wireResponse
	if err := json.NewDecoder(body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("malformed agent response: %w", err)
	}

	c.logger.Debug("agent response received", "id", wire.ID, "contentLen", len(wire.Content))
	return wire.normalize(), nil
}

// sendStreaming performs the SSE exchange, surfacing each chunk to
// onChunk before settling into the final response.
func (c *Client) sendStreaming(ctx context.Context, payload request, onChunk func(string)) (*Response, error) {
	body, err := c.post(ctx, c.baseURL+streamPath, payload)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	resp, err := readStream(body, onChunk)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("agent stream settled", "id", resp.ID, "contentLen", len(resp.Content))
	return resp, nil
}

// post issues the HTTP request and returns the response body on a 2xx
// status. The caller owns closing the returned body.
func (c *Client) post(ctx context.Context, url string, payload request) (io.ReadCloser, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return resp.Body, nil
}

// fail records the failure in the observable error state and logs it,
// then hands the error back for the normal Go return path.
func (c *Client) fail(err error) error {
	c.mu.Lock()
	c.lastErr = err.Error()
	c.mu.Unlock()

	c.logger.Warn("send failed", "error", err)
	return err
}
