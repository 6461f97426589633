package output

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/sdejongh/difflex/pkg/models"
)

// statusCellWidth keeps entry names aligned behind the widest single
// cell, "≒EX (100.0%)"
const statusCellWidth = 13

// HumanFormatter renders a run as readable text: a header listing the
// compared roots, one line per entry, and a summary block. Directories
// present under every root say nothing. In quiet mode only notable
// entries and the final result line are written.
type HumanFormatter struct {
	writer  io.Writer
	colored bool
	quiet   bool
}

// NewHumanFormatter returns a human-readable formatter writing to w
func NewHumanFormatter(w io.Writer, colored, quiet bool) *HumanFormatter {
	return &HumanFormatter{writer: w, colored: colored, quiet: quiet}
}

// Start prints the roots being compared, numbered the way entry
// annotations refer to them
func (f *HumanFormatter) Start(request *models.Request) error {
	if f.quiet {
		return nil
	}
	fmt.Fprintf(f.writer, "Comparing %d paths:\n", len(request.Roots))
	for i, root := range request.Roots {
		fmt.Fprintf(f.writer, "  [%d] %s\n", i+1, root)
	}
	fmt.Fprintln(f.writer)
	return nil
}

// Progress is a no-op; live progress belongs to ProgressFormatter
func (f *HumanFormatter) Progress(current, total int, path string) {}

// Result prints one line for the entry: its status cells, its relative
// path, and an annotation when there is more to say
func (f *HumanFormatter) Result(result *models.EntryResult) {
	entry := result.Entry
	isNotable := notable(result)
	if !isNotable && (f.quiet || entry.IsDir) {
		return
	}

	name := entry.RelPath
	if entry.IsDir {
		name += "/"
	}

	var plain, cell, note string
	switch {
	case hasMissing(entry):
		plain = "missing"
		cell = f.paint(color.FgMagenta, plain)
		note = "absent from " + strings.Join(missingRoots(entry), ", ")
	case entry.IsDir && mixedKind(entry):
		plain = "mixed"
		cell = f.paint(color.FgRed, plain)
		note = "file and directory across roots"
	default:
		plain, cell, note = f.renderOutcomes(result.Outcomes)
	}

	pad := ""
	if n := statusCellWidth - utf8.RuneCountInString(plain); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	line := "  " + cell + pad + "  " + name
	if note != "" {
		line += "  (" + note + ")"
	}
	fmt.Fprintln(f.writer, line)
}

// Complete prints the summary block, or just the result line in quiet
// mode
func (f *HumanFormatter) Complete(report *models.Report) error {
	if f.quiet {
		fmt.Fprintf(f.writer, "Result: %s\n", f.paintRunStatus(report.Status))
		return nil
	}
	s := report.Stats
	fmt.Fprintln(f.writer)
	fmt.Fprintln(f.writer, "Summary")
	fmt.Fprintf(f.writer, "  Entries aligned:  %d (%d directories)\n", s.EntriesAligned, s.DirsAligned)
	fmt.Fprintf(f.writer, "  Files compared:   %d\n", s.FilesCompared)
	fmt.Fprintf(f.writer, "  Pairs compared:   %d (%d skipped)\n", s.PairsCompared, s.PairsSkipped)
	fmt.Fprintf(f.writer, "  Identical:        %d\n", s.Identical)
	fmt.Fprintf(f.writer, "  Similar:          %d\n", s.Similar)
	fmt.Fprintf(f.writer, "  Metadata only:    %d\n", s.SimilarMeta)
	fmt.Fprintf(f.writer, "  Different:        %d\n", s.Different)
	fmt.Fprintf(f.writer, "  Data scanned:     %s\n", formatBytes(s.BytesScanned))
	fmt.Fprintf(f.writer, "  Duration:         %s\n", formatDuration(report.Duration))
	fmt.Fprintf(f.writer, "\nResult: %s\n", f.paintRunStatus(report.Status))
	return nil
}

// Name returns the formatter identifier
func (f *HumanFormatter) Name() string {
	return "human"
}

// renderOutcomes builds the status cells for a file entry. Three-root
// entries produce one cell per adjacent pair, joined in root order.
func (f *HumanFormatter) renderOutcomes(outcomes []*models.Outcome) (plain, painted, note string) {
	plainCells := make([]string, 0, len(outcomes))
	paintedCells := make([]string, 0, len(outcomes))
	seen := make(map[string]bool)
	var details []string
	for _, o := range outcomes {
		if o == nil {
			continue
		}
		plainCells = append(plainCells, o.String())
		paintedCells = append(paintedCells, f.paint(statusAttr(o.Status), o.String()))
		if o.Details != "" && !seen[o.Details] {
			seen[o.Details] = true
			details = append(details, o.Details)
		}
	}
	return strings.Join(plainCells, ", "), strings.Join(paintedCells, ", "), strings.Join(details, "; ")
}

func (f *HumanFormatter) paint(attr color.Attribute, s string) string {
	if !f.colored {
		return s
	}
	return color.New(attr).Sprint(s)
}

func (f *HumanFormatter) paintRunStatus(status models.RunStatus) string {
	attr := color.FgRed
	switch status {
	case models.StatusClean:
		attr = color.FgGreen
	case models.StatusDifferences:
		attr = color.FgYellow
	case models.StatusCancelled:
		attr = color.FgMagenta
	}
	return f.paint(attr, string(status))
}

func statusAttr(s models.Status) color.Attribute {
	switch s {
	case models.StatusIdentical:
		return color.FgGreen
	case models.StatusSimilar:
		return color.FgYellow
	case models.StatusSimilarMeta:
		return color.FgCyan
	case models.StatusDifferent:
		return color.FgRed
	}
	return color.FgWhite
}

func hasMissing(entry *models.AlignedEntry) bool {
	for _, loc := range entry.Locations {
		if loc == nil {
			return true
		}
	}
	return false
}

func missingRoots(entry *models.AlignedEntry) []string {
	var roots []string
	for i, loc := range entry.Locations {
		if loc == nil {
			roots = append(roots, fmt.Sprintf("[%d]", i+1))
		}
	}
	return roots
}

// mixedKind reports whether a directory entry is a plain file under
// some root. Callers have already checked that every side exists.
func mixedKind(entry *models.AlignedEntry) bool {
	for _, loc := range entry.Locations {
		if !loc.IsDir {
			return true
		}
	}
	return false
}

// formatBytes formats a byte count in human-readable form
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatDuration rounds a duration to a precision worth reading
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}
