// Package classify maps raw query text to a category and confidence.
//
// Classification is layered: high-precision keyword and pattern rules run
// first, then a weighted-vocabulary scorer over the closed category set.
// When no category scores decisively the result is ambiguous, which is a
// valid terminal outcome, not an error. The classifier is a pure function
// of the query text and an optional short session history used only for
// follow-up detection.
package classify
