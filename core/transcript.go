package core

import (
	"fmt"
	"sync"
)

// Transcript is the ordered, append-only log of all messages produced during a
// session. It is shared by reference across the scheduler and every agent and
// is safe for concurrent access, although writers are already serialized by
// turn order. No entry is ever removed or reordered; sequence numbers are
// strictly increasing starting at 1.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
}

// NewTranscript constructs an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append validates and appends a message, assigning the next sequence number.
// A message with an empty recipient set violates the addressing invariant and
// is rejected with ErrInvalidAddressing.
func (t *Transcript) Append(msg Message) (int, error) {
	if len(msg.Recipients) == 0 {
		return 0, fmt.Errorf("message from %q: %w", msg.Sender, ErrInvalidAddressing)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	msg.Sequence = len(t.messages) + 1
	t.messages = append(t.messages, msg)
	return msg.Sequence, nil
}

// Messages returns a defensive copy of the full log in sequence order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	msgs := make([]Message, len(t.messages))
	copy(msgs, t.messages)
	return msgs
}

// Len returns the number of appended messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// VisibleTo returns, in sequence order, the messages addressed to the given
// agent. This is the delivery guarantee: a message is observable by an agent
// iff the agent's identifier appears in its recipient set. Self-originated
// messages are never re-delivered to their sender because a speaker addresses
// only its opponents.
func (t *Transcript) VisibleTo(agentID string) []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var visible []Message
	for _, msg := range t.messages {
		if msg.Addressed(agentID) {
			visible = append(visible, msg)
		}
	}
	return visible
}

// HistoryFor returns the agent's local view of the debate: messages addressed
// to it plus its own prior outputs, in sequence order. This is the context an
// agent reconstructs before speaking.
func (t *Transcript) HistoryFor(agentID string) []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var history []Message
	for _, msg := range t.messages {
		if msg.Addressed(agentID) || msg.Sender == agentID {
			history = append(history, msg)
		}
	}
	return history
}
