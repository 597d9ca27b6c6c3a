package classify

import (
	"strings"

	"github.com/shanxter/Agastya/core"
)

// vocabulary holds weighted terms per category for the statistical scoring
// step. Multi-word terms are matched as substrings, single words as whole
// words. Weights reflect how strongly a term signals its category.
var vocabulary = map[core.Category][]weightedTerm{
	core.CategoryPanelSupport: {
		{"earnings", 1.0},
		{"earned", 1.0},
		{"earn", 0.8},
		{"payment", 1.0},
		{"payments", 1.0},
		{"income", 0.9},
		{"honoraria", 1.0},
		{"survey", 0.7},
		{"surveys", 0.7},
		{"participation", 0.8},
		{"how much", 0.6},
		{"time spent", 0.8},
		{"account", 0.4},
		{"balance", 0.6},
	},
	core.CategoryConferenceInfo: {
		{"conference", 1.2},
		{"congress", 1.0},
		{"symposium", 1.0},
		{"annual meeting", 1.0},
		{"abstract deadline", 1.0},
		{"session", 0.5},
		{"venue", 0.6},
		{"registration", 0.5},
		{"attend", 0.5},
		{"attending", 0.5},
	},
	core.CategoryResearchLookup: {
		{"study", 0.8},
		{"studies", 0.8},
		{"trial", 0.9},
		{"trials", 0.9},
		{"research", 0.8},
		{"findings", 0.7},
		{"literature", 0.8},
		{"publication", 0.7},
		{"evidence", 0.7},
		{"treatment", 0.7},
		{"therapy", 0.7},
		{"drug", 0.6},
		{"efficacy", 0.8},
		{"guidelines", 0.7},
		{"approval", 0.5},
		{"fda", 0.6},
		{"outcomes", 0.6},
		{"latest", 0.3},
		{"news", 0.4},
		{"recent developments", 0.8},
	},
}

type weightedTerm struct {
	term   string
	weight float64
}

// scoreCategories computes a normalized score per category.
// Scores sum to 1 when any term matches; all zeros otherwise.
func scoreCategories(q string) map[core.Category]float64 {
	raw := make(map[core.Category]float64, len(vocabulary))
	var total float64

	for category, terms := range vocabulary {
		var score float64
		for _, wt := range terms {
			if strings.ContainsRune(wt.term, ' ') {
				if strings.Contains(q, wt.term) {
					score += wt.weight
				}
			} else if containsWord(q, wt.term) {
				score += wt.weight
			}
		}
		raw[category] = score
		total += score
	}

	if total == 0 {
		return raw
	}
	for category := range raw {
		raw[category] /= total
	}
	return raw
}

// topTwo returns the best and second-best scored categories.
func topTwo(scores map[core.Category]float64) (best core.Category, bestScore, secondScore float64) {
	for category, score := range scores {
		switch {
		case score > bestScore || (score == bestScore && category < best):
			if bestScore > secondScore {
				secondScore = bestScore
			}
			best, bestScore = category, score
		case score > secondScore:
			secondScore = score
		}
	}
	return best, bestScore, secondScore
}
