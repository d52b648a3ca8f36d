// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. Domain helpers cover the recurring events of a debate
// session: model calls, research calls and completed rounds.
package logging
