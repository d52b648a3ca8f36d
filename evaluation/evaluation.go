// Package evaluation implements the post-debate aggregation pipeline: a
// neutral Evaluator that reduces the full transcript into a bounded summary,
// and an Advisor that turns the evaluation into three compromise proposals.
// Both stages are pure reducers over their inputs and retain no state.
package evaluation

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/debatemesh/core"
	"github.com/hupe1980/debatemesh/internal/util"
	"github.com/hupe1980/debatemesh/model"
)

const evaluateTemplate = `## ROLE
You are a neutral evaluator analyzing a debate to provide clear, actionable recommendations.

## DEBATE TOPIC
{{.Topic}}

## DEBATE CONTENT
{{.Content}}

## TASK
Write a concise evaluation (200-300 words) that:
1. Summarizes key arguments from all participants
2. Identifies core trade-offs and considerations
3. Provides balanced, practical recommendations for decision-makers
4. Focuses on actionable solutions

Your response should be structured and help stakeholders make informed decisions.`

const adviseTemplate = `## ROLE
You are a neutral advisor analyzing a debate to provide compromise solutions.

## DEBATE TOPIC
{{.Topic}}

## EVALUATION
{{.Evaluation}}

## TASK
Based on the evaluation, provide 3 compromise solutions that balance all perspectives.
For each solution:
1. **Solution**: Brief description
2. **Benefits**: How it addresses each party's concerns
3. **Consequences**: Potential negative outcomes for each party
4. **Implementation**: Practical steps

Focus on realistic compromises that all parties could accept.`

// Evaluator reduces a completed transcript into a neutral evaluation.
type Evaluator struct {
	llm model.Model
}

// NewEvaluator creates an Evaluator backed by the given model.
func NewEvaluator(llm model.Model) *Evaluator {
	return &Evaluator{llm: llm}
}

// Evaluate concatenates every message as "speaker: content" lines in sequence
// order and asks for a bounded neutral summary. A generation failure is fatal
// to the aggregation stage.
func (e *Evaluator) Evaluate(ctx context.Context, topic string, messages []core.Message) (string, error) {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Sender, msg.Content))
	}

	prompt, err := util.RenderTemplate(evaluateTemplate, map[string]any{
		"Topic":   topic,
		"Content": strings.Join(lines, "\n\n"),
	})
	if err != nil {
		return "", fmt.Errorf("assemble evaluation prompt: %w", err)
	}

	resp, err := e.llm.Generate(ctx, model.Request{Prompt: prompt})
	if err != nil {
		return "", core.NewGenerationError("evaluate", err)
	}
	return resp.Text, nil
}

// Advisor turns a topic and its evaluation into compromise proposals.
type Advisor struct {
	llm model.Model
}

// NewAdvisor creates an Advisor backed by the given model.
func NewAdvisor(llm model.Model) *Advisor {
	return &Advisor{llm: llm}
}

// Advise asks for exactly three compromise proposals, each with benefits,
// consequences per party and implementation steps.
func (a *Advisor) Advise(ctx context.Context, topic, evaluation string) (string, error) {
	prompt, err := util.RenderTemplate(adviseTemplate, map[string]any{
		"Topic":      topic,
		"Evaluation": evaluation,
	})
	if err != nil {
		return "", fmt.Errorf("assemble advice prompt: %w", err)
	}

	resp, err := a.llm.Generate(ctx, model.Request{Prompt: prompt})
	if err != nil {
		return "", core.NewGenerationError("advise", err)
	}
	return resp.Text, nil
}
