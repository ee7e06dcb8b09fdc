package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/wikitree/internal/convert"
	"github.com/dgallion1/wikitree/internal/outline"
	"github.com/dgallion1/wikitree/internal/pagetree"
	"github.com/dgallion1/wikitree/internal/parser"
	"github.com/dgallion1/wikitree/internal/store"
)

// Worker processes a single document job.
type Worker struct {
	conv       *convert.Converter
	store      *store.Client
	stats      *ConvertStats
	log        *slog.Logger
	parserOpts parser.Options
	chunkCfg   outline.Config
	timeout    time.Duration
}

func NewWorker(conv *convert.Converter, st *store.Client, stats *ConvertStats, log *slog.Logger, parserOpts parser.Options, chunkCfg outline.Config, timeout time.Duration) *Worker {
	return &Worker{
		conv:       conv,
		store:      st,
		stats:      stats,
		log:        log,
		parserOpts: parserOpts,
		chunkCfg:   chunkCfg,
		timeout:    timeout,
	}
}

// Process runs the full conversion pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	defer job.SetFileData(nil)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	} else {
		job.SetTitle(doc.Title)
	}

	// Phase 2: Convert
	job.SetStatus(StatusConverting, "converting")
	convCtx, cancel := context.WithTimeout(ctx, w.timeout)
	start := time.Now()
	page, err := Convert(convCtx, w.conv, doc)
	cancel()
	if err != nil {
		var cerr *convert.ConversionError
		if errors.As(err, &cerr) {
			log.Error("conversion failed", "error", err, "diagnostic", cerr.Diagnostic())
		} else {
			log.Error("conversion failed", "error", err)
		}
		job.AddError(fmt.Sprintf("convert: %s", err))
		job.SetStatus(StatusFailed, "converting")
		return
	}
	w.stats.Record(time.Since(start).Milliseconds())

	tree := outline.Build(page, doc.Title)
	chunks := outline.Chunks(tree, w.chunkCfg)
	job.SetResult(page, tree, len(chunks))
	for _, d := range page.Skipped {
		job.AddError(fmt.Sprintf("skipped %s: %s", d.NodeKind, d.Error))
	}
	log.Info("converted page",
		"elements", page.LastID(),
		"sections", len(page.Sections),
		"skipped", len(page.Skipped),
		"chunks", len(chunks),
	)

	if !w.store.Enabled() {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	data, err := json.Marshal(page)
	if err != nil {
		log.Error("marshal page failed", "error", err)
		job.AddError(fmt.Sprintf("marshal: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	job.SetContentHash(ContentHashHex(data))

	// Phase 2.5: Dedup check
	existing, found, err := w.store.FindByHash(ctx, job.ContentHash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if found {
		log.Info("duplicate page, skipping", "existing", existing)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 3: Store page, link edges and hash index.
	job.SetStatus(StatusStoring, "storing")
	rec := store.PageRecord{
		Title:       doc.Title,
		ContentHash: job.ContentHash,
		Sections:    len(page.Sections),
		Links:       len(page.InternalLinks) + len(page.ExternalLinks),
		StoredAt:    time.Now().UTC().Format(time.RFC3339),
		Page:        data,
	}
	if target, ok := page.RedirectTarget(); ok {
		rec.Redirect = target
	}
	err = withRetry(ctx, log, "put page", func() error {
		return w.store.PutPage(ctx, rec)
	})
	if err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	hadErrors := false
	for _, target := range linkTargets(page, doc.Title) {
		err := withRetry(ctx, log, "link page", func() error {
			return w.store.LinkPages(ctx, doc.Title, target)
		})
		if err != nil {
			log.Error("link failed", "to", target, "error", err)
			job.AddError(fmt.Sprintf("link %s: %s", target, err))
			hadErrors = true
			continue
		}
		job.IncrLinksStored()
	}

	if err := w.store.PutHash(ctx, job.ContentHash, doc.Title); err != nil {
		log.Error("hash index write failed", "error", err)
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// linkTargets returns the distinct internal link targets of page in order of
// first appearance, leaving out self links.
func linkTargets(page *pagetree.Page, self string) []string {
	seen := map[string]bool{store.Slug(self): true}
	var targets []string
	for _, ptr := range page.InternalLinks {
		if ptr.Ref == nil || ptr.Ref.Target == "" {
			continue
		}
		slug := store.Slug(ptr.Ref.Target)
		if seen[slug] {
			continue
		}
		seen[slug] = true
		targets = append(targets, ptr.Ref.Target)
	}
	return targets
}
