// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs background maintenance jobs, currently event log
// pruning.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jellymag/jelly/internal/store"
)

// Scheduler handles periodic maintenance tasks.
type Scheduler struct {
	store         store.Store
	cron          *cron.Cron
	logger        *slog.Logger
	retentionDays int
}

// New creates a new scheduler instance. Events older than retentionDays are
// pruned nightly; a non-positive value disables pruning.
func New(s store.Store, logger *slog.Logger, retentionDays int) *Scheduler {
	return &Scheduler{
		store:         s,
		cron:          cron.New(),
		logger:        logger,
		retentionDays: retentionDays,
	}
}

// Start begins the scheduler.
func (s *Scheduler) Start() error {
	if s.retentionDays > 0 {
		// Nightly, shortly after midnight
		_, err := s.cron.AddFunc("10 0 * * *", func() {
			if err := s.PruneEvents(context.Background()); err != nil {
				s.logger.Error("failed to prune event log", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PruneEvents deletes events older than the retention window.
func (s *Scheduler) PruneEvents(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	removed, err := s.store.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info("pruned event log", "removed", removed, "cutoff", cutoff)
	}
	return nil
}
