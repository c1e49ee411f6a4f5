package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/starfall/bossai/internal/decision"
)

// State is the client lifecycle: one probe at init decides whether the
// remote decision service participates in this fight at all.
type State int

const (
	StateUninitialized State = iota
	StateProbing
	StateAvailable
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateProbing:
		return "probing"
	case StateAvailable:
		return "available"
	case StateUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// ErrNotAvailable is returned by RequestDecision when the client is not
// in the Available state. It is the only failure this package asks
// callers to handle; everything else degrades internally.
var ErrNotAvailable = errors.New("decision service not available")

// RequestError reports a non-success status from the decision service.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("decision request failed: status %d: %s", e.Status, e.Message)
}

// errBadShape covers replies missing the expected fields. Treated the
// same as a connectivity failure by callers.
var errBadShape = errors.New("decision service reply missing choices")

// Config holds the client's injected settings. APIKey is the single
// credential source: resolution order (explicit value over environment)
// happens in the config package, never here.
type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	Spacing     time.Duration // minimum gap between requests
	MaxHistory  int           // conversation window pairs
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client talks to an OpenAI-compatible chat completion endpoint and
// turns replies into sanitized Decisions. At most one caller uses it at
// a time (the controller's single request goroutine); the mutex only
// guards the spacing bookkeeping and the window.
type Client struct {
	cfg   Config
	http  *http.Client
	log   *zap.Logger
	state State

	mu       sync.Mutex
	window   *Window
	lastSent time.Time

	// Injected for timing tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient builds a client in the Uninitialized state.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		log:    log,
		window: NewWindow(cfg.MaxHistory),
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// State returns the current lifecycle state.
func (c *Client) State() State { return c.state }

// Available reports whether RequestDecision may be called.
func (c *Client) Available() bool { return c.state == StateAvailable }

// WindowLen exposes the conversation window size for diagnostics.
func (c *Client) WindowLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.window.Len()
}

// Init performs the one-shot connectivity probe. Every failure mode
// (missing credential, network error, malformed reply) lands in
// Unavailable and is logged, never returned: an absent decision service
// is a normal configuration, not a fault.
func (c *Client) Init(ctx context.Context) {
	if c.cfg.APIKey == "" {
		c.state = StateUnavailable
		c.log.Info("decision service disabled: no credential")
		return
	}
	c.state = StateProbing
	_, err := c.complete(ctx, []Message{
		{Role: "user", Content: "ping"},
	}, 1)
	if err != nil {
		c.state = StateUnavailable
		c.log.Warn("decision service probe failed", zap.Error(err))
		return
	}
	c.state = StateAvailable
	c.log.Info("decision service available",
		zap.String("model", c.cfg.Model),
		zap.Duration("spacing", c.cfg.Spacing))
}

// RequestDecision renders the situation prompt, enforces the minimum
// inter-request spacing by suspending the calling goroutine (never the
// game tick - the controller calls this off-loop), performs the
// exchange, and returns a sanitized Decision. Parse trouble degrades to
// keyword extraction inside ParseDecision; only transport-level
// problems surface as errors.
func (c *Client) RequestDecision(ctx context.Context, dctx decision.Context) (decision.Decision, error) {
	if c.state != StateAvailable {
		return decision.Decision{}, ErrNotAvailable
	}
	if err := c.waitSpacing(ctx); err != nil {
		return decision.Decision{}, err
	}

	prompt := renderPrompt(dctx)

	c.mu.Lock()
	msgs := append([]Message{{Role: "system", Content: systemInstruction}}, c.window.Messages()...)
	c.mu.Unlock()
	msgs = append(msgs, Message{Role: "user", Content: prompt})

	content, err := c.complete(ctx, msgs, c.cfg.MaxTokens)
	if err != nil {
		return decision.Decision{}, err
	}

	d := ParseDecision(content, dctx.AvailablePatterns)

	c.mu.Lock()
	c.window.Append(prompt, content)
	c.mu.Unlock()

	return d, nil
}

// waitSpacing suspends until at least cfg.Spacing has elapsed since the
// previous send, then claims the send slot.
func (c *Client) waitSpacing(ctx context.Context) error {
	for {
		c.mu.Lock()
		now := c.now()
		wait := c.cfg.Spacing - now.Sub(c.lastSent)
		if wait <= 0 || c.lastSent.IsZero() {
			c.lastSent = now
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Request/response wire shapes for the chat completion endpoint.

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// complete performs one chat completion round trip and returns the raw
// assistant text.
func (c *Client) complete(ctx context.Context, msgs []Message, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RequestError{Status: resp.StatusCode, Message: truncate(string(raw), 200)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode reply: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errBadShape
	}
	c.log.Debug("decision exchange complete",
		zap.Int("prompt_tokens", parsed.Usage.PromptTokens),
		zap.Int("completion_tokens", parsed.Usage.CompletionTokens))
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
