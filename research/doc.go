// Package research implements the evidence provider consumed by debaters: a
// bounded pipeline that decomposes a topic into search queries, collects a
// capped number of links, summarizes the fetched pages and synthesizes a
// single report. Every stage degrades to a shorter or empty report instead of
// failing the caller; only the caller decides whether missing evidence
// matters.
package research
