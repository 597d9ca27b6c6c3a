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
	"time"
)

// ErrNoParticipation is returned when a panelist has no completed
// survey activity on record.
var ErrNoParticipation = errors.New("panel: no participation on record")

// TimeStats summarizes survey effort over a date range.
type TimeStats struct {
	TotalMinutes     float64
	AverageMinutes   float64
	SurveysCompleted int
}

// Store provides read access to a panelist's activity records.
// All queries are scoped to a single panelist id.
type Store interface {
	// EarningsTotal sums completed-survey payouts inside the range.
	// A panelist with no earnings in the range gets 0, not an error.
	EarningsTotal(ctx context.Context, userID int64, r DateRange) (float64, error)

	// CompletedSurveys lists the distinct titles of surveys the panelist
	// completed inside the range.
	CompletedSurveys(ctx context.Context, userID int64, r DateRange) ([]string, error)

	// LastParticipation returns the most recent survey completion date.
	// Returns ErrNoParticipation when the panelist has never completed one.
	LastParticipation(ctx context.Context, userID int64) (time.Time, error)

	// TimeStats aggregates time spent on completed surveys inside the
	// range. Paired common surveys are excluded so shared screeners do
	// not double-count effort.
	TimeStats(ctx context.Context, userID int64, r DateRange) (TimeStats, error)

	// Close releases the underlying connections.
	Close()
}
