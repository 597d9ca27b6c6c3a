// Copyright 2025 ZoomRx, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package classify

import (
	"strings"

	"github.com/shanxter/Agastya/core"
)

const (
	// DefaultAmbiguityMargin is the minimum lead the best category must
	// hold over the runner-up before the classification counts.
	DefaultAmbiguityMargin = 0.15

	// DefaultScoreFloor is the minimum best score below which the result
	// is ambiguous regardless of the margin.
	DefaultScoreFloor = 0.30

	// DefaultRuleConfidence is the confidence assigned to rule matches.
	DefaultRuleConfidence = 0.95

	// DefaultFollowUpConfidence is the confidence assigned when a
	// follow-up query inherits the previous turn's category.
	DefaultFollowUpConfidence = 0.80
)

// Classifier maps query text to a Category with a confidence in [0,1].
// The zero-value configuration is not usable; construct with NewClassifier.
type Classifier struct {
	ambiguityMargin    float64
	scoreFloor         float64
	ruleConfidence     float64
	followUpConfidence float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithAmbiguityMargin overrides the best/second-best margin.
func WithAmbiguityMargin(margin float64) Option {
	return func(c *Classifier) {
		c.ambiguityMargin = margin
	}
}

// WithScoreFloor overrides the minimum best score.
func WithScoreFloor(floor float64) Option {
	return func(c *Classifier) {
		c.scoreFloor = floor
	}
}

// WithRuleConfidence overrides the confidence reported for rule matches.
func WithRuleConfidence(confidence float64) Option {
	return func(c *Classifier) {
		c.ruleConfidence = confidence
	}
}

// NewClassifier creates a Classifier with the default thresholds,
// then applies the provided options.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		ambiguityMargin:    DefaultAmbiguityMargin,
		scoreFloor:         DefaultScoreFloor,
		ruleConfidence:     DefaultRuleConfidence,
		followUpConfidence: DefaultFollowUpConfidence,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify maps query text to a category and confidence.
//
// The strategy is layered: follow-up detection against the session
// history, then exact keyword/pattern rules, then the weighted-vocabulary
// scorer. Empty or unscorable text yields (ambiguous, 0); Classify never
// fails. The history is read-only and used only to carry the previous
// category across follow-up turns.
func (c *Classifier) Classify(query string, history []core.Event) (core.Category, float64) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return core.CategoryAmbiguous, 0
	}

	// Follow-ups keep the previous turn's category. With no usable
	// history a bare follow-up has nothing to continue, so it falls
	// through to scoring (and typically lands on ambiguous).
	if isFollowUp(q) {
		if prev, ok := lastRoutedCategory(history); ok {
			return prev, c.followUpConfidence
		}
	}

	if category, ok := matchRules(q); ok {
		return category, c.ruleConfidence
	}

	scores := scoreCategories(q)
	best, bestScore, secondScore := topTwo(scores)
	if best == "" || bestScore < c.scoreFloor || bestScore-secondScore < c.ambiguityMargin {
		return core.CategoryAmbiguous, bestScore
	}
	return best, bestScore
}

// lastRoutedCategory finds the most recent non-ambiguous category in the
// session history.
func lastRoutedCategory(history []core.Event) (core.Category, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if cat := history[i].Category; cat.Valid() && cat != core.CategoryAmbiguous {
			return cat, true
		}
	}
	return "", false
}
