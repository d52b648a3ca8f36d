// Package core provides the foundational domain types used by DebateMesh. It
// defines the core abstractions for:
//
//   - Messages (immutable, addressed units of communication)
//   - The Transcript (ordered, append-only log shared by all participants)
//   - Call budgets (bounded access to external capabilities)
//   - The error taxonomy separating fatal failures from expected refusals
//
// The package intentionally keeps implementation concerns (model providers,
// scheduling, research pipelines) out of scope, exposing small types that the
// agent, runner and evaluation packages build on.
package core
