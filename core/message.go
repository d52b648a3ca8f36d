package core

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ActionKind tags a message with the behavior that produced it.
type ActionKind string

const (
	// CauseSeed marks the opening message that carries the debate topic.
	CauseSeed ActionKind = "seed"
	// CauseSpeak marks a debater's turn in the rotation.
	CauseSpeak ActionKind = "speak"
	// CauseResearch marks evidence gathered during the research phase.
	CauseResearch ActionKind = "research"
	// CauseEvaluate marks the evaluator's post-debate summary.
	CauseEvaluate ActionKind = "evaluate"
	// CauseAdvise marks the advisor's compromise proposals.
	CauseAdvise ActionKind = "advise"
)

// Message is the unit of communication between debate participants. After it
// is appended to the Transcript it must be treated as immutable. Delivery is
// addressed: only the identifiers listed in Recipients may observe a message,
// there is no broadcast default.
//
// Sequence is zero until the Transcript assigns it at append time.
type Message struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	Sender     string     `json:"sender"`
	Recipients []string   `json:"recipients"`
	Cause      ActionKind `json:"cause"`
	Sequence   int        `json:"sequence"`
	Timestamp  time.Time  `json:"timestamp"`
}

// NewMessage constructs a message from sender to the given recipients. The
// recipient list is copied so callers cannot mutate it after construction.
func NewMessage(sender, content string, cause ActionKind, recipients ...string) Message {
	return Message{
		ID:         uuid.NewString(),
		Content:    content,
		Sender:     sender,
		Recipients: slices.Clone(recipients),
		Cause:      cause,
		Timestamp:  time.Now().UTC(),
	}
}

// Addressed reports whether id is in the recipient set. Membership is the sole
// delivery rule; a singleton recipient set is not special-cased.
func (m Message) Addressed(id string) bool {
	return slices.Contains(m.Recipients, id)
}
