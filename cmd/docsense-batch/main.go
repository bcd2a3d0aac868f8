package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/joseph-ayodele/docsense/internal/async"
	"github.com/joseph-ayodele/docsense/internal/common"
	"github.com/joseph-ayodele/docsense/internal/core"
	coreasync "github.com/joseph-ayodele/docsense/internal/core/async"
	"github.com/joseph-ayodele/docsense/internal/core/pipeline"
	"github.com/joseph-ayodele/docsense/internal/entity"
	"github.com/joseph-ayodele/docsense/internal/export"
	"github.com/joseph-ayodele/docsense/internal/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// resultSink collects finished jobs and appends each one to a JSON lines file.
type resultSink struct {
	mu   sync.Mutex
	enc  *json.Encoder
	jobs []entity.ProcessJob
	log  *slog.Logger
}

func (s *resultSink) deliver(job entity.ProcessJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	if s.enc != nil {
		if err := s.enc.Encode(job); err != nil {
			s.log.Error("batch.jsonl.write.failed", "job_id", job.ID, "err", err)
		}
	}
}

func (s *resultSink) sorted() []entity.ProcessJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]entity.ProcessJob(nil), s.jobs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SourcePath < out[j].SourcePath })
	return out
}

func main() {
	os.Exit(run())
}

// run executes the batch and returns the process exit code. Deferred closes run
// before main exits.
func run() int {
	cfg := common.LoadConfig()

	var (
		dir        = flag.String("dir", "", "directory of OCR outputs (.txt/.md/.mmd) to process (required)")
		watch      = flag.Bool("watch", false, "keep running and process new or changed files under --dir")
		out        = flag.String("out", "", "output XLSX file path (defaults to DOCSENSE_OUTPUT_DIR/docsense.xlsx)")
		jsonl      = flag.String("jsonl", "", "JSON lines result file (defaults to DOCSENSE_OUTPUT_DIR/results.jsonl)")
		schema     = flag.String("schema", "", "force a schema or document type (e.g. bill) instead of routing by the classified type")
		schemaFile = flag.String("schema-file", cfg.Extract.SchemaFile, "YAML/JSON file of custom schemas")
		workers    = flag.Int("workers", cfg.Batch.Workers, "concurrent workers")
		timeout    = flag.Duration("timeout", cfg.Batch.ProcessTimeout, "per-document processing timeout")
		hidden     = flag.Bool("hidden", false, "include hidden files and directories")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		return 1
	}
	cfg.Extract.SchemaFile = *schemaFile
	cfg.Batch.Workers = *workers
	cfg.Batch.ProcessTimeout = *timeout
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		return 2
	}

	if *out == "" {
		*out = filepath.Join(cfg.Batch.OutputDir, "docsense.xlsx")
	}
	if *jsonl == "" {
		*jsonl = filepath.Join(cfg.Batch.OutputDir, "results.jsonl")
	}
	for _, p := range []string{*out, *jsonl} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			printError("Error: create output dir: %v\n", err)
			return 1
		}
	}

	logger := common.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = common.WithRequestID(ctx, fmt.Sprintf("batch-%d", time.Now().Unix()))

	proc, _, err := core.NewProcessorFromConfig(cfg.Extract, logger, core.WithSchema(*schema))
	if err != nil {
		logger.Error("failed to build processor", "error", err)
		return 1
	}

	jf, err := os.Create(*jsonl)
	if err != nil {
		logger.Error("failed to create jsonl output", "path", *jsonl, "error", err)
		return 1
	}
	defer func() {
		if cerr := jf.Close(); cerr != nil {
			logger.Error("close jsonl output", "error", cerr)
		}
	}()

	sink := &resultSink{enc: json.NewEncoder(jf), log: logger}
	queue := coreasync.NewProcessorQueue(pipeline.NewProcessor(logger, proc), logger,
		coreasync.WithWorkers(cfg.Batch.Workers),
		coreasync.WithQueueSize(cfg.Batch.QueueSize),
		coreasync.WithProcessTimeout(cfg.Batch.ProcessTimeout),
		coreasync.WithSink(sink.deliver),
	)
	ingestor := ingest.NewFSIngestor(ingest.NewMemoryStore(), logger)

	enqueue := func(r ingest.IngestionResult) {
		if r.Err != "" || r.Document == nil {
			return
		}
		if r.Deduplicated {
			logger.Info("skipping duplicate document", "path", r.SourcePath, "hash", r.HashHex)
			return
		}
		if err := queue.Enqueue(ctx, async.NewJob(r.Document)); err != nil {
			logger.Error("failed to enqueue document", "path", r.SourcePath, "error", err)
		}
	}

	logger.Info("starting ingestion", "dir", *dir, "watch", *watch, "request_id", common.RequestIDFromContext(ctx))
	if *watch {
		runWatch(ctx, cfg, *dir, !*hidden, ingestor, enqueue, logger)
	} else {
		results, stats, err := ingestor.IngestDirectory(ctx, *dir, !*hidden)
		if err != nil {
			logger.Error("failed to ingest directory", "error", err)
			return 1
		}
		for _, r := range results {
			if r.Err != "" {
				logger.Warn("ingest failed", "path", r.SourcePath, "error", r.Err)
			}
			enqueue(r)
		}
		logger.Info("ingestion complete",
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"succeeded", stats.Succeeded,
			"failed", stats.Failed,
			"deduplicated", stats.Deduplicated)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Batch.ProcessTimeout+10*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)

	jobs := sink.sorted()
	logger.Info("exporting to XLSX", "output", *out)
	if err := export.NewService(logger).WriteJobsXLSX(shutdownCtx, *out, jobs); err != nil {
		logger.Error("failed to export results", "error", err)
		return 1
	}

	processed, failures := queue.Stats()
	logger.Info("batch processing complete",
		"documents", len(jobs),
		"processed", processed,
		"failures", failures,
		"output_file", *out,
		"jsonl_file", *jsonl)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents: %d\n", len(jobs))
	fmt.Printf("- Processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", *out)
	fmt.Printf("- Results: %s\n", *jsonl)
	return 0
}

// runWatch ingests every file the watcher reports until ctx is cancelled.
func runWatch(ctx context.Context, cfg *common.Config, root string, skipHidden bool, ingestor *ingest.FSIngestor, enqueue func(ingest.IngestionResult), logger *slog.Logger) {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    cfg.Batch.Debounce,
		SkipHidden:  skipHidden,
	}, logger)
	if err != nil {
		logger.Error("failed to start watcher", "error", err)
		return
	}

	for {
		select {
		case path, ok := <-events:
			if !ok {
				return
			}
			r, err := ingestor.IngestPath(ctx, path)
			if err != nil {
				logger.Warn("ingest failed", "path", path, "error", err)
				continue
			}
			enqueue(r)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watcher reported error", "error", err)
		}
	}
}
