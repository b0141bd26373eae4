package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tsubasa-dev/feed-deliver/app/continuity"
	"github.com/tsubasa-dev/feed-deliver/app/feed"
	"github.com/tsubasa-dev/feed-deliver/app/history"
	"github.com/tsubasa-dev/feed-deliver/app/output"
	"github.com/tsubasa-dev/feed-deliver/app/sources"
)

// CollectSourceTask runs one source's full pipeline: collect, reconcile
// publish dates against the previous snapshot and the deletion history, emit
// the feed document, and hand detected deletions to the accumulator.
type CollectSourceTask struct {
	Task
	Config      *feed.Config
	source      sources.Source
	snapshots   *continuity.SnapshotFetcher
	prevHistory *history.History
	filterer    *feed.Filterer
	generator   *feed.Generator
	writer      *output.Writer
	accumulator *Accumulator
	now         func() time.Time
}

func NewCollectSourceTask(source sources.Source, config *feed.Config,
	snapshots *continuity.SnapshotFetcher, prevHistory *history.History,
	filterer *feed.Filterer, generator *feed.Generator, writer *output.Writer,
	accumulator *Accumulator) *CollectSourceTask {
	return &CollectSourceTask{
		Task:        NewTask(TaskTypeCollectSource, source.Name()),
		Config:      config,
		source:      source,
		snapshots:   snapshots,
		prevHistory: prevHistory,
		filterer:    filterer,
		generator:   generator,
		writer:      writer,
		accumulator: accumulator,
		now:         time.Now,
	}
}

func (t *CollectSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Config.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	result, err := t.source.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect: %w", err)
	}
	if !result.Status {
		return fmt.Errorf("collection reported failure")
	}

	// The full collected set is what deletion detection compares against;
	// an item pushed past the max_items cap is still present at the source.
	collected := result.Items

	items := collected
	if max := t.Config.Settings.MaxItems; max > 0 && len(items) > max {
		items = items[:max]
	}
	items = t.filterer.Run(items, t.Config)

	// Snapshot fetch must complete before reconciliation, reconciliation
	// before emission and before deletion detection.
	previousItems := t.snapshots.Fetch(ctx, t.SourceName)
	items = continuity.ReconcileDates(items, previousItems, t.prevHistory)

	now := t.now()

	rss, err := t.generator.Run(t.SourceName, t.source.Info(), items, now)
	if err != nil {
		return fmt.Errorf("failed to generate feed: %w", err)
	}

	if err := t.writer.WriteFeed(t.SourceName, rss); err != nil {
		// A write failure loses this run's file but must not abort the
		// pipeline; the deletion bookkeeping is still valid.
		slog.Error("Failed to write feed file", "source", t.SourceName, "error", err)
	}

	deleted := continuity.DetectDeleted(previousItems, collected, t.SourceName, now)
	t.accumulator.AddDeleted(deleted)

	visible := 0
	for _, item := range items {
		if !item.IsFiltered {
			visible++
		}
	}

	info := t.source.Info()
	t.accumulator.AddEntry(output.IndexEntry{
		SourceName:  t.SourceName,
		Title:       info.Title,
		Description: info.Description,
		ItemCount:   visible,
		BuiltAt:     now,
	})

	slog.Info("Task completed",
		"type", string(t.Type),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"items", visible,
		"previous", len(previousItems),
		"deleted", len(deleted))

	return nil
}
