// Package session keeps short-lived per-session conversation history so
// follow-up questions can be routed with the previous turns in view.
// Histories are bounded, expire after a TTL of inactivity, and live only
// in process memory.
package session
