package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/difflex/pkg/models"
)

// Recorder forwards events to an inner formatter while keeping the
// notable entries, so a report file can be written once the run ends.
type Recorder struct {
	inner   Formatter
	results []*models.EntryResult
}

// NewRecorder wraps inner and records every notable entry it sees
func NewRecorder(inner Formatter) *Recorder {
	return &Recorder{inner: inner}
}

// Start forwards to the inner formatter
func (r *Recorder) Start(request *models.Request) error {
	return r.inner.Start(request)
}

// Progress forwards to the inner formatter
func (r *Recorder) Progress(current, total int, path string) {
	r.inner.Progress(current, total, path)
}

// Result records the entry when it is notable and forwards it
func (r *Recorder) Result(result *models.EntryResult) {
	if notable(result) {
		r.results = append(r.results, result)
	}
	r.inner.Result(result)
}

// Complete forwards to the inner formatter
func (r *Recorder) Complete(report *models.Report) error {
	return r.inner.Complete(report)
}

// Name returns the inner formatter's identifier
func (r *Recorder) Name() string {
	return r.inner.Name()
}

// Results returns the recorded entries in aligned order
func (r *Recorder) Results() []*models.EntryResult {
	return r.results
}

// WriteReportFile writes the run report with every recorded entry,
// grouped by what was found, to path. Format can be "human" or "json".
// Nothing is written when there are no entries to report.
func WriteReportFile(report *models.Report, results []*models.EntryResult, path string, format string) error {
	if len(results) == 0 {
		// No findings - don't create an empty file
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	switch format {
	case "json":
		return writeReportJSON(report, results, file)
	default: // "human"
		return writeReportHuman(report, results, file)
	}
}

// reportGroup buckets entries for the human report, worst first
type reportGroup string

const (
	groupDifferent reportGroup = "Different"
	groupMissing   reportGroup = "Missing"
	groupMixed     reportGroup = "File/directory mismatch"
	groupSimilar   reportGroup = "Similar"
	groupMeta      reportGroup = "Metadata only"
	groupIdentical reportGroup = "Identical"
)

// classifyResult picks the single group an entry is reported under
func classifyResult(result *models.EntryResult) reportGroup {
	if result.HasDifference() {
		return groupDifferent
	}
	if hasMissing(result.Entry) {
		return groupMissing
	}
	if result.Entry.IsDir && mixedKind(result.Entry) {
		return groupMixed
	}
	worst := groupIdentical
	for _, o := range result.Outcomes {
		if o == nil {
			continue
		}
		switch o.Status {
		case models.StatusSimilar:
			worst = groupSimilar
		case models.StatusSimilarMeta:
			if worst == groupIdentical {
				worst = groupMeta
			}
		}
	}
	return worst
}

func writeReportHuman(report *models.Report, results []*models.EntryResult, w io.Writer) error {
	fmt.Fprintf(w, "Comparison Report\n")
	fmt.Fprintf(w, "=================\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Run ID: %s\n", report.RunID)
	for i, root := range report.Roots {
		fmt.Fprintf(w, "Root [%d]: %s\n", i+1, root)
	}
	fmt.Fprintf(w, "Status: %s\n\n", report.Status)

	fmt.Fprintf(w, "Total Entries: %d\n\n", len(results))

	byGroup := make(map[reportGroup][]*models.EntryResult)
	for _, result := range results {
		group := classifyResult(result)
		byGroup[group] = append(byGroup[group], result)
	}

	groupOrder := []reportGroup{
		groupDifferent,
		groupMissing,
		groupMixed,
		groupSimilar,
		groupMeta,
		groupIdentical,
	}

	for _, group := range groupOrder {
		entries, exists := byGroup[group]
		if !exists || len(entries) == 0 {
			continue
		}

		label := fmt.Sprintf("%s (%d entries)", group, len(entries))
		fmt.Fprintf(w, "%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))

		for _, result := range entries {
			writeReportEntry(w, result)
		}

		fmt.Fprintf(w, "\n")
	}

	return nil
}

func writeReportEntry(w io.Writer, result *models.EntryResult) {
	entry := result.Entry
	name := entry.RelPath
	if entry.IsDir {
		name += "/"
	}
	fmt.Fprintf(w, "  %s\n", name)

	for i, o := range result.Outcomes {
		if o == nil {
			continue
		}
		fmt.Fprintf(w, "    Pair %d-%d: %s", i+1, i+2, o.String())
		if o.Details != "" {
			fmt.Fprintf(w, "  %s", o.Details)
		}
		fmt.Fprintf(w, "\n")
	}

	for i, loc := range entry.Locations {
		if loc == nil {
			fmt.Fprintf(w, "    [%d] absent\n", i+1)
			continue
		}
		if loc.IsDir {
			fmt.Fprintf(w, "    [%d] directory  %s\n", i+1, loc.Path)
			continue
		}
		fmt.Fprintf(w, "    [%d] %s  %s\n", i+1, formatBytes(loc.Size), loc.Path)
	}

	fmt.Fprintf(w, "\n")
}

func writeReportJSON(report *models.Report, results []*models.EntryResult, w io.Writer) error {
	output := struct {
		Generated  string                `json:"generated"`
		Report     *models.Report        `json:"report"`
		TotalCount int                   `json:"total_count"`
		Entries    []*models.EntryResult `json:"entries"`
	}{
		Generated:  time.Now().Format(time.RFC3339),
		Report:     report,
		TotalCount: len(results),
		Entries:    results,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
