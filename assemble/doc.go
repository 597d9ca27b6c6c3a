// Package assemble turns routed tool results into final user-facing
// answers. It builds a per-category prompt from the tool context, recent
// conversation turns, and the query, makes a single completion call
// under a timeout, and falls back to a fixed apology when the model is
// unavailable. Tool context is truncated to a token budget before
// prompting.
package assemble
