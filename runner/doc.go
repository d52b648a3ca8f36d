// Package runner coordinates a debate session end to end: the one-shot
// research phase, the fixed round-robin turn rotation over exactly three
// debaters, and the terminal aggregation pipeline. Execution is strictly
// sequential; only one agent acts at a time and every external call resolves
// before the next scheduled operation begins. A generation failure at any
// point aborts the session.
package runner
