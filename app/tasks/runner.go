package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tsubasa-dev/feed-deliver/app/cfg"
	"github.com/tsubasa-dev/feed-deliver/app/continuity"
	"github.com/tsubasa-dev/feed-deliver/app/feed"
	"github.com/tsubasa-dev/feed-deliver/app/history"
	"github.com/tsubasa-dev/feed-deliver/app/output"
	"github.com/tsubasa-dev/feed-deliver/app/sources"
)

// Runner executes a single generation run: every enabled source once through
// a worker pool, then the aggregation phase (history merge + persist, index
// page) after all tasks have settled. A failed source is logged and skipped;
// there are no retries within a run.
type Runner struct {
	sourceList   []sources.Source
	configCache  *feed.ConfigCache
	snapshots    *continuity.SnapshotFetcher
	historyStore *history.Store
	filterer     *feed.Filterer
	generator    *feed.Generator
	writer       *output.Writer
	workerCount  int
	taskTimeout  time.Duration
}

func NewRunner(sourceList []sources.Source, configCache *feed.ConfigCache,
	snapshots *continuity.SnapshotFetcher, historyStore *history.Store,
	writer *output.Writer) *Runner {
	c := cfg.Get()

	return &Runner{
		sourceList:   sourceList,
		configCache:  configCache,
		snapshots:    snapshots,
		historyStore: historyStore,
		filterer:     feed.NewFilterer(),
		generator:    feed.NewGenerator(),
		writer:       writer,
		workerCount:  c.WorkerCount,
		taskTimeout:  time.Duration(c.SourceTimeout) * time.Second,
	}
}

// Run processes all sources and returns the number of failed source tasks.
func (r *Runner) Run(ctx context.Context) int {
	prevHistory := r.historyStore.Fetch(ctx)
	accumulator := NewAccumulator()

	taskQueue := make(chan TaskInterface, len(r.sourceList))
	for _, source := range r.sourceList {
		config := r.configCache.GetConfig(source.Name())
		taskQueue <- NewCollectSourceTask(source, config, r.snapshots, prevHistory,
			r.filterer, r.generator, r.writer, accumulator)
	}
	close(taskQueue)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)

	for i := 0; i < r.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for task := range taskQueue {
				if err := r.executeTask(ctx, workerID, task); err != nil {
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}
		}(i)
	}

	wg.Wait()

	// Aggregation phase: all tasks have settled.
	merged := r.historyStore.Merge(prevHistory, accumulator.Deleted())
	r.historyStore.Persist(merged)

	index := output.GenerateIndex(accumulator.Entries(), cfg.Get().PublicBase, cfg.Get().Version, time.Now())
	if err := r.writer.WriteIndex(index); err != nil {
		slog.Error("Failed to write index page", "error", err)
	}

	slog.Info("Run completed",
		"sources", len(r.sourceList),
		"failed", failed,
		"deleted_total", len(merged.Articles))

	return failed
}

func (r *Runner) executeTask(ctx context.Context, workerID int, task TaskInterface) error {
	task.Start()

	taskCtx, cancel := context.WithTimeout(ctx, r.taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err != nil {
		// Isolated partial failure: the source produces no feed file this
		// run and sibling tasks continue untouched.
		slog.Error("Source task failed", "worker_id", workerID, "type", string(task.GetType()),
			"source", task.GetSourceName(), "duration", task.GetDuration(), "error", err)
	}

	return err
}
