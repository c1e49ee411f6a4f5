package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/starfall/bossai/internal/decision"
)

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.Fatalf("encode reply: %v", err)
	}
}

func testContext() decision.Context {
	return decision.Context{
		HealthRatio:       0.8,
		Phase:             1,
		Personality:       "aggressive",
		PlayerDistance:    200,
		MovementClass:     "horizontal",
		Accuracy:          0.5,
		Aggressiveness:    0.5,
		AvailablePatterns: []decision.PatternID{"straight", "spread", "spiral"},
	}
}

func newTestClient(url string) *Client {
	return NewClient(Config{
		BaseURL:    url,
		Model:      "test-model",
		APIKey:     "test-key",
		MaxHistory: 3,
	}, zap.NewNop())
}

func TestInitWithoutCredential(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused"}, zap.NewNop())
	c.Init(context.Background())
	if c.State() != StateUnavailable {
		t.Fatalf("state = %v, want unavailable with no key", c.State())
	}

	_, err := c.RequestDecision(context.Background(), testContext())
	if !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("err = %v, want ErrNotAvailable", err)
	}
}

func TestInitProbe(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		chatReply(t, w, "pong")
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.Init(context.Background())
	if !c.Available() {
		t.Fatalf("state = %v, want available after probe", c.State())
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
}

func TestInitProbeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"nope"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.Init(context.Background())
	if c.State() != StateUnavailable {
		t.Fatalf("state = %v, want unavailable after 401 probe", c.State())
	}
}

func TestRequestDecision(t *testing.T) {
	var lastReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&lastReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		chatReply(t, w, `{"attackPattern":"spiral","movement":{"target":"left","speed":1.0}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.Init(context.Background())

	d, err := c.RequestDecision(context.Background(), testContext())
	if err != nil {
		t.Fatalf("RequestDecision: %v", err)
	}
	if d.AttackPattern != "spiral" {
		t.Fatalf("pattern = %q, want spiral", d.AttackPattern)
	}
	if len(lastReq.Messages) < 2 || lastReq.Messages[0].Role != "system" {
		t.Fatalf("request missing system message: %+v", lastReq.Messages)
	}
	if lastReq.Model != "test-model" {
		t.Fatalf("model = %q", lastReq.Model)
	}
	if c.WindowLen() != 2 {
		t.Fatalf("window length = %d, want one exchange recorded", c.WindowLen())
	}
}

func TestRequestDecisionHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			t.Error("missing auth header")
		}
		chatReply(t, w, "pong")
	}))
	c := newTestClient(srv.URL)
	c.Init(context.Background())
	srv.Close()

	// Point at a server that now answers 500.
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv2.Close()
	c.cfg.BaseURL = srv2.URL

	_, err := c.RequestDecision(context.Background(), testContext())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %v, want RequestError", err)
	}
	if reqErr.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d", reqErr.Status)
	}
}

func TestRequestDecisionEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[],"usage":{}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.state = StateAvailable

	_, err := c.RequestDecision(context.Background(), testContext())
	if !errors.Is(err, errBadShape) {
		t.Fatalf("err = %v, want errBadShape", err)
	}
}

func TestRequestSpacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `{"attackPattern":"straight"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.cfg.Spacing = 2 * time.Second
	c.state = StateAvailable

	// Simulated clock: now advances only when sleep is called.
	clock := time.Unix(1000, 0)
	var slept time.Duration
	c.now = func() time.Time { return clock }
	c.sleep = func(ctx context.Context, d time.Duration) error {
		slept += d
		clock = clock.Add(d)
		return nil
	}

	for i := 0; i < 5; i++ {
		if _, err := c.RequestDecision(context.Background(), testContext()); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}

	// First send is immediate; the four that follow each wait the full gap.
	if want := 4 * c.cfg.Spacing; slept != want {
		t.Fatalf("total sleep = %v, want %v", slept, want)
	}
}

func TestRequestSpacingHonorsContext(t *testing.T) {
	c := newTestClient("http://unused")
	c.cfg.Spacing = time.Minute
	c.state = StateAvailable
	c.lastSent = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.RequestDecision(ctx, testContext())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestWindowCap(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 10; i++ {
		w.Append(fmt.Sprintf("prompt %d", i), fmt.Sprintf("reply %d", i))
	}
	if w.Len() != 6 {
		t.Fatalf("window length = %d, want 6 (three pairs)", w.Len())
	}
	msgs := w.Messages()
	if msgs[0].Content != "prompt 7" {
		t.Fatalf("oldest entry = %q, want prompt 7", msgs[0].Content)
	}
	if msgs[5].Content != "reply 9" {
		t.Fatalf("newest entry = %q, want reply 9", msgs[5].Content)
	}
}
