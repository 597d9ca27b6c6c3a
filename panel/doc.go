// Package panel answers panelists' questions about their own survey
// activity: earnings, completed surveys, time spent, and last
// participation, plus a small set of static account FAQs.
//
// Lookups run against the panel database through the Store interface;
// PostgresStore is the production implementation. Queries carry a
// natural-language time scope ("last month", "2024", "all time") that
// ParseDateRange turns into a concrete date range.
package panel
