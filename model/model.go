package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Request captures the normalized generator input produced by debate actions.
type Request struct {
	// Instructions is an optional system-level preamble.
	Instructions string `json:"instructions,omitempty"`
	// Prompt is the fully assembled user prompt.
	Prompt string `json:"prompt"`
}

// Response carries the generated text of a completed call.
type Response struct {
	Text string `json:"text"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Model is the minimal interface required to drive generation. Implementations
// must treat an empty completion as an error so callers never have to
// distinguish "failed" from "returned nothing usable".
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests and examples.
// Responses are resolved in order of precedence: an exact prompt match, the
// FIFO queue, then a synthesized echo. A scripted failure takes priority over
// all of them.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	queue     []string
	requests  []Request
	failOn    int // 1-based call index that fails; 0 disables
	failErr   error
}

// NewMockModel constructs an empty MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an exact prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Enqueue appends completions served in FIFO order to prompts without an
// exact match.
func (m *MockModel) Enqueue(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, responses...)
}

// FailOn makes the n-th Generate call (1-based) return err.
func (m *MockModel) FailOn(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn = n
	m.failErr = err
}

// Requests returns a copy of every request seen so far, in call order.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := make([]Request, len(m.requests))
	copy(reqs, m.requests)
	return reqs
}

// CallCount returns the number of Generate calls made.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if m.failOn > 0 && len(m.requests) == m.failOn {
		err := m.failErr
		if err == nil {
			err = fmt.Errorf("mock model: scripted failure on call %d", m.failOn)
		}
		return nil, err
	}

	if resp, ok := m.responses[req.Prompt]; ok {
		return &Response{Text: resp}, nil
	}
	if len(m.queue) > 0 {
		resp := m.queue[0]
		m.queue = m.queue[1:]
		return &Response{Text: resp}, nil
	}

	head := req.Prompt
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	return &Response{Text: fmt.Sprintf("Mock response to: %s", head)}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
