// Package engine drives a comparison run end to end: alignment,
// dispatch over a worker pool, ordered result emission, and report
// assembly.
package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sdejongh/difflex/pkg/align"
	"github.com/sdejongh/difflex/pkg/classify"
	"github.com/sdejongh/difflex/pkg/compare"
	"github.com/sdejongh/difflex/pkg/logging"
	"github.com/sdejongh/difflex/pkg/models"
)

// State represents the lifecycle stage of an engine run
type State string

const (
	// StateIdle indicates the engine has not started
	StateIdle State = "idle"
	// StateScanning indicates the roots are being walked and aligned
	StateScanning State = "scanning"
	// StateComparing indicates aligned entries are being compared
	StateComparing State = "comparing"
	// StateDone indicates the run finished
	StateDone State = "done"
	// StateCancelled indicates the run was stopped before finishing
	StateCancelled State = "cancelled"
)

// Events receives run notifications. The engine serializes all calls:
// implementations never see concurrent invocations, and results arrive
// strictly in aligned order regardless of worker count.
type Events interface {
	// Progress reports that entry current of total is being emitted
	Progress(current, total int, path string)

	// Result delivers one completed entry
	Result(result *models.EntryResult)
}

// Engine orchestrates one comparison run. An Engine is single-use:
// create a new one per run.
type Engine struct {
	request    *models.Request
	aligner    *align.Aligner
	dispatcher *compare.Dispatcher
	events     Events
	logger     logging.Logger

	state   atomic.Value
	stopped atomic.Bool
}

// New creates an engine for the given request. A nil events sink is
// valid and disables notifications.
func New(request *models.Request, events Events, logger logging.Logger) (*Engine, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	classifier := classify.New(request.TextExtensions, request.ImageExtensions)

	e := &Engine{
		request: request,
		aligner: align.NewAligner(request.Exclude),
		dispatcher: compare.NewDispatcher(
			classifier,
			request.TextThreshold,
			request.ImageThreshold,
			request.BinaryThreshold,
		),
		events: events,
		logger: logger,
	}
	e.state.Store(StateIdle)
	return e, nil
}

// State returns the current lifecycle stage, safe for concurrent read
func (e *Engine) State() State {
	return e.state.Load().(State)
}

// Stop requests a cooperative stop. In-flight comparisons finish and
// the run returns a report with status cancelled.
func (e *Engine) Stop() {
	e.stopped.Store(true)
}

// Run executes the comparison and returns the final report. The only
// fatal errors are alignment failures: comparator errors surface as
// per-pair outcomes, and cancellation yields a cancelled report with a
// nil error.
func (e *Engine) Run(ctx context.Context) (*models.Report, error) {
	report := &models.Report{
		RunID:         e.request.ID,
		Roots:         e.request.Roots,
		DirectoryMode: e.request.DirectoryMode,
		StartTime:     time.Now(),
	}

	if e.logger != nil {
		e.logger.Info(ctx, "Starting comparison run", logging.Fields{
			"run_id":  e.request.ID,
			"roots":   strings.Join(e.request.Roots, ", "),
			"workers": e.request.MaxWorkers,
		})
	}

	var err error
	if e.request.DirectoryMode {
		err = e.runDirectories(ctx, report)
	} else {
		err = e.runFiles(ctx, report)
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	switch {
	case err != nil && errors.Is(err, context.Canceled):
		report.Status = models.StatusCancelled
		e.setState(StateCancelled)
		err = nil
	case err != nil:
		report.Status = models.StatusFailed
		e.setState(StateDone)
	case e.interrupted(ctx):
		report.Status = models.StatusCancelled
		e.setState(StateCancelled)
	case report.Stats.Different > 0:
		report.Status = models.StatusDifferences
		e.setState(StateDone)
	default:
		report.Status = models.StatusClean
		e.setState(StateDone)
	}

	if e.logger != nil {
		e.logger.Info(ctx, "Comparison run completed", logging.Fields{
			"run_id":         e.request.ID,
			"status":         string(report.Status),
			"duration":       report.Duration.String(),
			"files_compared": report.Stats.FilesCompared,
			"identical":      report.Stats.Identical,
			"similar":        report.Stats.Similar,
			"similar_meta":   report.Stats.SimilarMeta,
			"different":      report.Stats.Different,
		})
	}

	return report, err
}

func (e *Engine) setState(s State) {
	e.state.Store(s)
}

// interrupted reports whether a cooperative stop was requested
func (e *Engine) interrupted(ctx context.Context) bool {
	return e.stopped.Load() || ctx.Err() != nil
}

// runDirectories aligns the root trees and compares every entry
func (e *Engine) runDirectories(ctx context.Context, report *models.Report) error {
	e.setState(StateScanning)

	entries, err := e.aligner.Align(ctx, e.request.Roots)
	if err != nil {
		return err
	}

	report.Stats.EntriesAligned = len(entries)
	for _, entry := range entries {
		if entry.IsDir {
			report.Stats.DirsAligned++
		}
	}

	if e.logger != nil {
		e.logger.Info(ctx, "Alignment complete", logging.Fields{
			"entries": len(entries),
			"dirs":    report.Stats.DirsAligned,
		})
	}

	e.setState(StateComparing)
	e.compareEntries(ctx, entries, report)
	return nil
}

// runFiles compares explicit file paths as one synthetic entry
func (e *Engine) runFiles(ctx context.Context, report *models.Report) error {
	e.setState(StateComparing)

	if e.interrupted(ctx) {
		return nil
	}

	entry := syntheticEntry(e.request.Roots)
	result := &models.EntryResult{
		Entry:    entry,
		Outcomes: e.dispatcher.ComparePaths(ctx, e.request.Roots),
	}

	report.Stats.EntriesAligned = 1
	e.emit(result, 0, 1, report)
	return nil
}

// indexedResult carries one completed entry back from the pool
type indexedResult struct {
	index  int
	result *models.EntryResult
}

// compareEntries fans entries out to MaxWorkers goroutines and emits
// the results strictly in aligned order through an index barrier.
// Cancellation is honored between entries: the producer stops feeding,
// in-flight comparisons complete, and everything emitted so far stays
// valid.
func (e *Engine) compareEntries(ctx context.Context, entries []*models.AlignedEntry, report *models.Report) {
	workerCount := e.request.MaxWorkers
	if workerCount < 1 {
		workerCount = 1
	}

	tasks := make(chan int)
	results := make(chan indexedResult)

	var workersWg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		workersWg.Add(1)
		go func() {
			defer workersWg.Done()
			for index := range tasks {
				entry := entries[index]
				results <- indexedResult{
					index: index,
					result: &models.EntryResult{
						Entry:    entry,
						Outcomes: e.dispatcher.CompareEntry(ctx, entry),
					},
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for index := range entries {
			if e.interrupted(ctx) {
				return
			}
			tasks <- index
		}
	}()

	go func() {
		workersWg.Wait()
		close(results)
	}()

	// Emission barrier: hold completed entries until every lower index
	// has been emitted. Entries stranded behind a gap after a stop are
	// dropped rather than emitted out of order.
	pending := make(map[int]*models.EntryResult)
	next := 0
	total := len(entries)

	for r := range results {
		pending[r.index] = r.result
		for {
			result, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			e.emit(result, next, total, report)
			next++
		}
	}
}

// emit delivers one entry to the event sink and folds it into the
// report statistics. Called from a single goroutine only.
func (e *Engine) emit(result *models.EntryResult, index, total int, report *models.Report) {
	if e.events != nil {
		e.events.Progress(index+1, total, result.Entry.RelPath)
	}

	compared := make(map[int]bool)
	for i, o := range result.Outcomes {
		if o == nil {
			report.Stats.PairsSkipped++
			continue
		}
		compared[i] = true
		compared[i+1] = true

		report.Stats.PairsCompared++
		switch o.Status {
		case models.StatusIdentical:
			report.Stats.Identical++
		case models.StatusSimilar:
			report.Stats.Similar++
		case models.StatusSimilarMeta:
			report.Stats.SimilarMeta++
		case models.StatusDifferent:
			report.Stats.Different++
		}
	}

	if len(compared) > 0 {
		report.Stats.FilesCompared++
	}
	for i := range compared {
		if loc := result.Entry.Locations[i]; loc != nil && !loc.IsDir {
			report.Stats.BytesScanned += loc.Size
		}
	}

	if e.events != nil {
		e.events.Result(result)
	}
}

// syntheticEntry renders explicit file paths as a single aligned entry
// so file mode flows through the same emission path as directory mode.
func syntheticEntry(paths []string) *models.AlignedEntry {
	entry := &models.AlignedEntry{
		RelPath:   filepath.Base(paths[0]),
		Locations: make([]*models.Location, len(paths)),
	}
	for i, p := range paths {
		loc := &models.Location{Path: p}
		if info, err := os.Stat(p); err == nil {
			loc.Size = info.Size()
			loc.ModTime = info.ModTime()
			loc.IsDir = info.IsDir()
		}
		entry.Locations[i] = loc
	}
	return entry
}
