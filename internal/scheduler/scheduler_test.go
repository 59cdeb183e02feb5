// Copyright (c) 2025-2026 Jelly Magazine
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jellymag/jelly/internal/model"
	"github.com/jellymag/jelly/internal/store"
	"github.com/jellymag/jelly/internal/store/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartStop(t *testing.T) {
	s := New(memory.New(), testLogger(), 90)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(s.cron.Entries()) != 1 {
		t.Errorf("expected 1 cron job, got %d", len(s.cron.Entries()))
	}
	s.Stop()
}

func TestStart_PruningDisabled(t *testing.T) {
	s := New(memory.New(), testLogger(), 0)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(s.cron.Entries()) != 0 {
		t.Errorf("expected no cron jobs with retention disabled, got %d", len(s.cron.Entries()))
	}
	s.Stop()
}

func TestPruneEvents(t *testing.T) {
	m := memory.New()
	ctx := context.Background()

	_, err := m.CreateEvent(ctx, store.CreateEventParams{
		Level:    model.EventLevelInfo,
		Category: model.EventCategorySystem,
		Message:  "old entry",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	s := New(m, testLogger(), 0)
	if err := s.PruneEvents(ctx); err != nil {
		t.Fatalf("PruneEvents: %v", err)
	}

	events, err := m.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected events pruned, got %d", len(events))
	}
}
