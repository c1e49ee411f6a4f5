package llm

// Message is one role-tagged entry in the conversation window.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Window is the bounded recent-message context replayed to the decision
// service for continuity. It holds at most 2*maxHistory entries (one
// user/assistant pair per exchange) and evicts the oldest pair first.
// It lives only in memory; nothing here survives a restart.
type Window struct {
	maxHistory int
	messages   []Message
}

// NewWindow returns a window capped at 2*maxHistory entries.
func NewWindow(maxHistory int) *Window {
	if maxHistory < 1 {
		maxHistory = 1
	}
	return &Window{maxHistory: maxHistory}
}

// Append records one completed exchange and trims from the front once
// the window exceeds its cap.
func (w *Window) Append(prompt, reply string) {
	w.messages = append(w.messages,
		Message{Role: "user", Content: prompt},
		Message{Role: "assistant", Content: reply},
	)
	for len(w.messages) > 2*w.maxHistory {
		w.messages = w.messages[2:]
	}
}

// Messages returns a copy of the current window contents.
func (w *Window) Messages() []Message {
	out := make([]Message, len(w.messages))
	copy(out, w.messages)
	return out
}

// Len returns the number of entries currently held.
func (w *Window) Len() int { return len(w.messages) }
