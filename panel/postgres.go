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
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	earningsQuery = `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM users_waves uw
		LEFT JOIN earnings e ON uw.id = e.users_wave_id
		JOIN transactions t ON t.id = e.transaction_id
		WHERE uw.user_id = $1
		  AND uw.completed_date BETWEEN $2 AND $3`

	completedSurveysQuery = `
		SELECT DISTINCT s.surveyls_display_title
		FROM users_waves uw
		JOIN waves w ON uw.wave_id = w.id
		JOIN surveys s ON w.survey_id = s.id
		WHERE uw.user_id = $1
		  AND uw.status = 1
		  AND uw.completed_date BETWEEN $2 AND $3
		ORDER BY s.surveyls_display_title`

	lastParticipationQuery = `
		SELECT MAX(uw.completed_date)
		FROM users_waves uw
		WHERE uw.user_id = $1
		  AND uw.status = 1`

	// Paired common surveys share one sitting across waves; counting them
	// per wave would inflate the totals.
	timeStatsQuery = `
		SELECT COALESCE(SUM(uw.time_taken) / 60.0, 0),
		       COALESCE(AVG(uw.time_taken) / 60.0, 0),
		       COUNT(DISTINCT uw.id)
		FROM users_waves uw
		JOIN waves w ON uw.wave_id = w.id
		WHERE uw.user_id = $1
		  AND uw.status = 1
		  AND uw.completed_date BETWEEN $2 AND $3
		  AND w.survey_id NOT IN (
		      SELECT sa.survey_id FROM survey_attributes sa
		      WHERE sa.attribute = 'paired_common_survey_id')`

	timeStatsAllTimeQuery = `
		SELECT COALESCE(SUM(uw.time_taken) / 60.0, 0),
		       COALESCE(AVG(uw.time_taken) / 60.0, 0),
		       COUNT(DISTINCT uw.id)
		FROM users_waves uw
		JOIN waves w ON uw.wave_id = w.id
		WHERE uw.user_id = $1
		  AND uw.status = 1
		  AND w.survey_id NOT IN (
		      SELECT sa.survey_id FROM survey_attributes sa
		      WHERE sa.attribute = 'paired_common_survey_id')`
)

// PostgresStore is the production Store backed by the panel database.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to the panel database at dsn and verifies the
// connection before returning.
func NewPostgresStore(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to panel database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging panel database: %w", err)
	}
	return &PostgresStore{pool: pool, logger: logger.With("component", "panel_store")}, nil
}

func (s *PostgresStore) EarningsTotal(ctx context.Context, userID int64, r DateRange) (float64, error) {
	var total float64
	err := s.pool.QueryRow(ctx, earningsQuery, userID, r.Start, r.End).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("querying earnings for user %d: %w", userID, err)
	}
	return total, nil
}

func (s *PostgresStore) CompletedSurveys(ctx context.Context, userID int64, r DateRange) ([]string, error) {
	rows, err := s.pool.Query(ctx, completedSurveysQuery, userID, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("querying completed surveys for user %d: %w", userID, err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning survey title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading completed surveys: %w", err)
	}
	return titles, nil
}

func (s *PostgresStore) LastParticipation(ctx context.Context, userID int64) (time.Time, error) {
	var last *time.Time
	err := s.pool.QueryRow(ctx, lastParticipationQuery, userID).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && last == nil) {
		return time.Time{}, ErrNoParticipation
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying last participation for user %d: %w", userID, err)
	}
	return *last, nil
}

func (s *PostgresStore) TimeStats(ctx context.Context, userID int64, r DateRange) (TimeStats, error) {
	var stats TimeStats
	var err error
	if r.AllTime() {
		err = s.pool.QueryRow(ctx, timeStatsAllTimeQuery, userID).
			Scan(&stats.TotalMinutes, &stats.AverageMinutes, &stats.SurveysCompleted)
	} else {
		err = s.pool.QueryRow(ctx, timeStatsQuery, userID, r.Start, r.End).
			Scan(&stats.TotalMinutes, &stats.AverageMinutes, &stats.SurveysCompleted)
	}
	if err != nil {
		return TimeStats{}, fmt.Errorf("querying time stats for user %d: %w", userID, err)
	}
	return stats, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
