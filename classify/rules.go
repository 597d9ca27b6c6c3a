package classify

import (
	"regexp"
	"strings"

	"github.com/shanxter/Agastya/core"
)

// followUpPrefixes mark queries that continue the previous turn's topic.
// A follow-up keeps the previous category rather than being re-scored.
var followUpPrefixes = []string{
	"tell me more",
	"what about",
	"how about",
	"can you elaborate",
	"and ",
	"what else",
}

// conferenceNames are widely known medical congress abbreviations.
// Matched as whole words so "acc" does not fire inside "vaccine".
var conferenceNames = []string{
	"asco", "esmo", "acc", "ash", "aan", "aha", "aacr", "aua", "easl",
}

var (
	yearRe       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	personalRe   = regexp.MustCompile(`\b(my|i|me)\b`)
	earningsRe   = regexp.MustCompile(`\b(earn|earned|earnings|money|payment|payments|income|paid|honoraria)\b`)
	timeScopeRe  = regexp.MustCompile(`\b(last|past|previous|recent|month|year|week|day|history|january|february|march|april|may|june|july|august|september|october|november|december|q1|q2|q3|q4)\b`)
	surveyDoneRe = regexp.MustCompile(`\b(complete|completed|took|taken|did|finished|submitted)\b`)
)

// isFollowUp reports whether the query continues the previous turn.
func isFollowUp(q string) bool {
	for _, prefix := range followUpPrefixes {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return false
}

// matchRules runs the high-precision keyword rules.
// Returns the matched category and true, or "" and false when no rule fires.
func matchRules(q string) (core.Category, bool) {
	// Personal earnings with a time scope or explicit year
	if earningsRe.MatchString(q) &&
		(personalRe.MatchString(q) || strings.Contains(q, "how much") ||
			strings.Contains(q, "show") || strings.Contains(q, "check")) &&
		(timeScopeRe.MatchString(q) || yearRe.MatchString(q) ||
			strings.Contains(q, "so far") || strings.Contains(q, "to date")) {
		return core.CategoryPanelSupport, true
	}

	// Panel activity queries
	if strings.Contains(q, "panel") {
		return core.CategoryPanelSupport, true
	}
	if (strings.Contains(q, "survey") || strings.Contains(q, "participation")) &&
		(personalRe.MatchString(q) || surveyDoneRe.MatchString(q)) {
		return core.CategoryPanelSupport, true
	}

	// Conference queries
	if strings.Contains(q, "conference") || strings.Contains(q, "congress") {
		return core.CategoryConferenceInfo, true
	}
	for _, name := range conferenceNames {
		if containsWord(q, name) {
			return core.CategoryConferenceInfo, true
		}
	}

	return "", false
}

// containsWord reports whether q contains w as a whole word.
func containsWord(q, w string) bool {
	idx := 0
	for {
		i := strings.Index(q[idx:], w)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(w)
		leftOK := start == 0 || !isWordChar(q[start-1])
		rightOK := end == len(q) || !isWordChar(q[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
