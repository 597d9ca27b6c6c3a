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


package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shanxter/Agastya/core"
)

const dateDisplayFormat = "January 2, 2006"

var (
	earningsIntentRe  = regexp.MustCompile(`\b(earn|earned|earnings|money|payment|payments|income|paid|honoraria|balance)\b`)
	timeIntentRe      = regexp.MustCompile(`\b(time|long|minutes|hours)\b`)
	lastSeenIntentRe  = regexp.MustCompile(`\b(last|latest|recent)\b.*\b(participat\w*|active|activity|take|taken|took|completed?)\b`)
	completedIntentRe = regexp.MustCompile(`\b(surveys?|studies)\b.*\b(complete\w*|took|taken|did|finished|list|many)\b|\b(complete\w*|list|many)\b.*\bsurveys?\b`)
)

// Handler answers panel-support queries from the panelist's own activity
// records. FAQ questions are answered statically; everything else is
// resolved against the Store scoped to the requesting panelist.
type Handler struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler creates a panel Handler over the given store.
func NewHandler(store Store, logger *slog.Logger) (*Handler, error) {
	if store == nil {
		return nil, errors.New("panel: store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  store,
		logger: logger.With("tool", Name),
		now:    time.Now,
	}, nil
}

// Name identifies this tool in routing decisions and session events.
const Name = "panel"

// Fetch resolves a panel-support query for the given panelist.
func (h *Handler) Fetch(ctx context.Context, query string, userID int64, _ []core.Event) (*core.ToolResult, error) {
	if answer, ok := StaticAnswer(query); ok {
		h.logger.DebugContext(ctx, "answered from faq")
		return &core.ToolResult{
			Category:    core.CategoryPanelSupport,
			ContextText: answer,
			Confidence:  1.0,
		}, nil
	}

	if userID <= 0 {
		return &core.ToolResult{
			Category: core.CategoryPanelSupport,
			ContextText: "I could not identify your panel account for this " +
				"request. Please sign in and try again.",
			Confidence: 1.0,
		}, nil
	}

	dateRange := DateRangeOrDefault(query, h.now())
	if dateRange.Start.After(truncateDay(h.now())) {
		return &core.ToolResult{
			Category: core.CategoryPanelSupport,
			ContextText: fmt.Sprintf("The period starting %s is in the future, "+
				"so there is no activity to report yet.",
				dateRange.Start.Format(dateDisplayFormat)),
			Confidence: 1.0,
		}, nil
	}

	text, err := h.resolve(ctx, strings.ToLower(query), userID, dateRange)
	if err != nil {
		h.logger.ErrorContext(ctx, "panel lookup failed", "error", err, "user_id", userID)
		return nil, core.NewFailure(core.FailureUpstreamUnavailable,
			fmt.Errorf("panel lookup: %w", err))
	}

	return &core.ToolResult{
		Category:    core.CategoryPanelSupport,
		ContextText: text,
		Confidence:  1.0,
	}, nil
}

func (h *Handler) resolve(ctx context.Context, q string, userID int64, r DateRange) (string, error) {
	switch {
	case timeIntentRe.MatchString(q) && !lastSeenIntentRe.MatchString(q):
		stats, err := h.store.TimeStats(ctx, userID, r)
		if err != nil {
			return "", err
		}
		return formatTimeStats(stats, r), nil

	case lastSeenIntentRe.MatchString(q) && !earningsIntentRe.MatchString(q):
		last, err := h.store.LastParticipation(ctx, userID)
		if errors.Is(err, ErrNoParticipation) {
			return "You have not completed any surveys yet.", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Your last survey participation was on %s.",
			last.Format(dateDisplayFormat)), nil

	case completedIntentRe.MatchString(q) && !earningsIntentRe.MatchString(q):
		titles, err := h.store.CompletedSurveys(ctx, userID, r)
		if err != nil {
			return "", err
		}
		return formatCompletedSurveys(titles, r), nil

	default:
		total, err := h.store.EarningsTotal(ctx, userID, r)
		if err != nil {
			return "", err
		}
		return formatEarnings(total, r), nil
	}
}

func formatEarnings(total float64, r DateRange) string {
	if r.AllTime() {
		return fmt.Sprintf("Your total earnings for all time were: $%.2f.", total)
	}
	return fmt.Sprintf("Your total earnings from %s to %s were: $%.2f.",
		r.Start.Format(dateDisplayFormat), r.End.Format(dateDisplayFormat), total)
}

func formatCompletedSurveys(titles []string, r DateRange) string {
	scope := rangePhrase(r)
	if len(titles) == 0 {
		return fmt.Sprintf("You did not complete any surveys %s.", scope)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You completed %d survey", len(titles))
	if len(titles) > 1 {
		b.WriteByte('s')
	}
	fmt.Fprintf(&b, " %s:\n", scope)
	for _, title := range titles {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTimeStats(stats TimeStats, r DateRange) string {
	scope := rangePhrase(r)
	if stats.SurveysCompleted == 0 {
		return fmt.Sprintf("You did not complete any surveys %s.", scope)
	}
	return fmt.Sprintf("%s you completed %d surveys, spending %.0f minutes in "+
		"total (about %.0f minutes per survey).",
		capitalize(scope), stats.SurveysCompleted, stats.TotalMinutes, stats.AverageMinutes)
}

func rangePhrase(r DateRange) string {
	if r.AllTime() {
		return "across all time"
	}
	return fmt.Sprintf("between %s and %s",
		r.Start.Format(dateDisplayFormat), r.End.Format(dateDisplayFormat))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
