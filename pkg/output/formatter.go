// Package output renders comparison runs for people and machines.
package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/difflex/pkg/models"
)

// Formatter receives the lifecycle of a comparison run. Progress and
// Result carry no error returns so a formatter can serve directly as
// the engine's event sink; both are invoked from a single goroutine,
// results in aligned order.
type Formatter interface {
	// Start is called once, before alignment begins
	Start(request *models.Request) error

	// Progress is called before each entry's result with the 1-based
	// position within the total
	Progress(current, total int, path string)

	// Result is called once per aligned entry
	Result(result *models.EntryResult)

	// Complete is called once with the final report
	Complete(report *models.Report) error

	// Name returns the formatter identifier
	Name() string
}

// New returns the formatter for the configured format name
func New(format string, writer io.Writer, colored, quiet bool) (Formatter, error) {
	switch format {
	case "human":
		return NewHumanFormatter(writer, colored, quiet), nil
	case "json":
		return NewJSONFormatter(writer), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// notable reports whether an entry deserves attention: a side is
// missing, the path is a file under one root and a directory under
// another, or a compared pair came back anything but identical.
func notable(result *models.EntryResult) bool {
	entry := result.Entry
	for _, loc := range entry.Locations {
		if loc == nil {
			return true
		}
	}
	if entry.IsDir {
		for _, loc := range entry.Locations {
			if !loc.IsDir {
				return true
			}
		}
		return false
	}
	for _, outcome := range result.Outcomes {
		if outcome != nil && outcome.Status != models.StatusIdentical {
			return true
		}
	}
	return false
}
