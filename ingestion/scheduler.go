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


package ingestion

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs one ingestion cycle every hour.
const DefaultSchedule = "@hourly"

// Scheduler runs pipeline cycles on a cron schedule. A cycle that is
// still running when the next tick fires makes that tick a no-op, so
// cycles never overlap.
type Scheduler struct {
	pipeline *Pipeline
	cron     *cron.Cron
	running  atomic.Bool
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs the pipeline on the given
// cron spec. An empty spec means DefaultSchedule.
func NewScheduler(pipeline *Pipeline, spec string, logger *slog.Logger) (*Scheduler, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if spec == "" {
		spec = DefaultSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		pipeline: pipeline,
		cron:     cron.New(),
		logger:   logger.With("component", "ingestion_scheduler"),
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins scheduling cycles. It returns immediately.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tick() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous ingestion cycle still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	report, err := s.pipeline.RunCycle(context.Background())
	if err != nil {
		s.logger.Error("scheduled ingestion cycle failed", "err", err)
		return
	}
	s.logger.Info("scheduled ingestion cycle finished",
		"fetched", report.Fetched,
		"newly_indexed", report.NewlyIndexed,
		"skipped_duplicate", report.SkippedDuplicate,
		"failed_sources", len(report.Failed))
}
