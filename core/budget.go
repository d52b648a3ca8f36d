package core

import "sync"

// CallBudget enforces a maximum number of calls to an external capability.
// Once spent it refuses further calls; it is never replenished for the
// lifetime of a session.
type CallBudget struct {
	max  int
	used int
	mu   sync.Mutex
}

// NewCallBudget creates a budget allowing max calls. If max == 0, unlimited
// calls are allowed.
func NewCallBudget(max int) *CallBudget {
	return &CallBudget{max: max}
}

// Spend consumes one call from the budget. It returns
// ErrEvidenceBudgetExhausted, without consuming anything, once the cap is
// reached.
func (b *CallBudget) Spend() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		return ErrEvidenceBudgetExhausted
	}
	b.used++
	return nil
}

// Used returns the number of calls consumed so far.
func (b *CallBudget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Remaining returns how many calls are left, or -1 when unlimited.
func (b *CallBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.max == 0 {
		return -1
	}
	return b.max - b.used
}
