package agent

import (
	"fmt"

	"github.com/hupe1980/debatemesh/internal/util"
)

// openingRounds is the number of opening turns per agent before rebuttals are
// allowed. This phase boundary is a fixed policy of the debate format, not a
// per-agent setting.
const openingRounds = 3

const speakTemplate = `## BACKGROUND
Suppose you are {{.Name}}, you are in a debate with {{.Opponent1}} and {{.Opponent2}}. You are debating the topic:
{{.Topic}}
## DEBATE HISTORY
Previous rounds:
{{.Context}}
## RESEARCH INFORMATION
{{.Evidence}}
## YOUR TURN
{{.Instruction}}`

const evidenceQueryTemplate = `## BACKGROUND
You are {{.Name}}, a {{.Viewpoint}} preparing for a debate on: {{.Topic}}

## TASK
What specific aspect of this topic would you like to research to strengthen your position?
Provide ONE specific research query (1-2 sentences) that would help you in this debate.
Focus on facts, statistics, examples, or evidence that would support your {{.Viewpoint}} perspective.`

// phaseInstruction selects the behavior instruction for the given turn
// number. Turns 1..openingRounds state a position without engaging opponents;
// later turns restate the position and directly rebut the latest opposing
// arguments.
func phaseInstruction(turn int, name, viewpoint string) string {
	if turn <= openingRounds {
		return fmt.Sprintf("This is round %d of %d opening rounds. You should ONLY state your view on the topic, "+
			"give your arguments and how you logically and rigorously arrived at your views. Do NOT rebut or respond "+
			"to any of your opponents' arguments. Your viewpoint should be clear, concise, and stereotypical of a %s. "+
			"MANDATORY: Use specific facts, statistics, and evidence from your research information to support your "+
			"arguments. Include proper citations in your response using [Source: URL or description] format.",
			turn, openingRounds, viewpoint)
	}
	return fmt.Sprintf("This is round %d. You should first restate your view, then closely respond to your opponents' "+
		"latest arguments, defend your arguments, and attack your opponents' arguments if they differ from yours. "+
		"Craft a strong, logically rigorous response in %s's rhetoric and viewpoints. MANDATORY: Support your "+
		"arguments with specific evidence from your research and include citations using [Source: URL or description] format.",
		turn, name)
}

// speakPrompt assembles the full generation prompt for one speaking turn.
func speakPrompt(name, opponent1, opponent2, topic, context, evidence, instruction string) (string, error) {
	return util.RenderTemplate(speakTemplate, map[string]any{
		"Name":        name,
		"Opponent1":   opponent1,
		"Opponent2":   opponent2,
		"Topic":       topic,
		"Context":     context,
		"Evidence":    evidence,
		"Instruction": instruction,
	})
}

// evidenceQueryPrompt assembles the prompt that turns an agent's stance into
// a single research query.
func evidenceQueryPrompt(name, viewpoint, topic string) (string, error) {
	return util.RenderTemplate(evidenceQueryTemplate, map[string]any{
		"Name":      name,
		"Viewpoint": viewpoint,
		"Topic":     topic,
	})
}
