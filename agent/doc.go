// Package agent implements the debate participant: a Debater with a fixed
// identity and viewpoint, a private evidence ledger, a bounded evidence
// request budget and an explicit observe/act cycle driven by the runner.
//
// Design principles:
//   - No hidden dispatch: the runner calls Observe/Act directly instead of
//     agents subscribing to message kinds
//   - Addressed output: every spoken message targets exactly the two opponents
//   - Phase by counter: the turn number driving opening vs. rebuttal behavior
//     comes from a per-agent counter, never recomputed from filtered history
package agent
