package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/wikitree/internal/config"
	"github.com/dgallion1/wikitree/internal/convert"
	"github.com/dgallion1/wikitree/internal/outline"
	"github.com/dgallion1/wikitree/internal/parser"
	"github.com/dgallion1/wikitree/internal/store"
)

// Orchestrator manages the document conversion pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	conv     *convert.Converter
	store    *store.Client
	stats    *ConvertStats
	log      *slog.Logger
	cfg      config.Config
	chunkCfg outline.Config

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, conv *convert.Converter, st *store.Client, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		conv:  conv,
		store: st,
		stats: NewConvertStats(time.Hour),
		log:   log,
		cfg:   cfg,
		chunkCfg: outline.Config{
			ChunkSize:    cfg.OutlineChunkSize,
			ChunkOverlap: cfg.OutlineChunkOverlap,
			MinChunk:     100,
		},
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := o.NewWorker()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		if o.cancel != nil {
			o.cancel()
		}
		close(o.queue)
		o.wg.Wait()
	})
}

// NewWorker returns a worker sharing the orchestrator's converter, store and
// stats.
func (o *Orchestrator) NewWorker() *Worker {
	return NewWorker(o.conv, o.store, o.stats, o.log,
		parser.Options{FallbackPdftotext: o.cfg.PDFFallbackPdftotext},
		o.chunkCfg, o.cfg.ConvertTimeout)
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Converter returns the shared converter for synchronous conversions.
func (o *Orchestrator) Converter() *convert.Converter {
	return o.conv
}

// Stats returns the conversion latency tracker.
func (o *Orchestrator) Stats() *ConvertStats {
	return o.stats
}

// Store returns the page store client for direct use by API handlers.
func (o *Orchestrator) Store() *store.Client {
	return o.store
}

// Config returns the configuration the pipeline was built with.
func (o *Orchestrator) Config() config.Config {
	return o.cfg
}
