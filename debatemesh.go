// Package debatemesh provides a high-level façade over the runner and its
// collaborators for orchestrating a three-party debate. Most applications
// interact with this package by:
//  1. Constructing a content generator (model/openai, model/anthropic or a mock)
//  2. Optionally constructing an evidence provider (research.NewResearcher)
//  3. Calling Debate() with a topic
//
// The façade wires the default panel (Principal/John/Mom — the school, student
// and parent perspectives) and delegates scheduling to runner.Runner. All
// defaults are safe for local development and testing.
package debatemesh

import (
	"context"

	"github.com/hupe1980/debatemesh/agent"
	"github.com/hupe1980/debatemesh/model"
	"github.com/hupe1980/debatemesh/runner"
)

// DefaultPanel returns the standard three-debater roster wired so each
// participant addresses exactly the other two.
func DefaultPanel(llm model.Model, optFns ...func(o *agent.Options)) [3]*agent.Debater {
	return [3]*agent.Debater{
		agent.New("Principal", "School", "John", "Mom", llm, optFns...),
		agent.New("John", "Student", "Mom", "Principal", llm, optFns...),
		agent.New("Mom", "Parent", "Principal", "John", llm, optFns...),
	}
}

// Debate runs one session over the default panel and returns its outcome.
// Overrides (rounds, evidence provider, logger) go through runner options.
func Debate(ctx context.Context, llm model.Model, topic string, optFns ...func(o *runner.Options)) (*runner.Outcome, error) {
	r := runner.New(DefaultPanel(llm), llm, optFns...)
	return r.Run(ctx, topic)
}
