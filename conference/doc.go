// Package conference answers questions about major medical congresses
// from a curated static list: dates, locations, and official sites,
// matched on congress abbreviations, names, specialties, and disease
// keywords.
package conference
