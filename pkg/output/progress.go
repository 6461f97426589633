package output

import (
	"io"

	"github.com/cheggaaa/pb/v3"

	"github.com/sdejongh/difflex/pkg/models"
)

// progressTemplate appends the entry under comparison to the stock bar
const progressTemplate = `{{counters . }} {{bar . }} {{percent . }} {{string . "entry"}}`

// ProgressFormatter decorates another formatter with a terminal
// progress bar during the comparison phase. The bar writes to its own
// writer, normally stderr, so the inner formatter's output stays
// clean when redirected.
type ProgressFormatter struct {
	inner Formatter
	out   io.Writer
	bar   *pb.ProgressBar
}

// NewProgressFormatter wraps inner with a progress bar rendered to out
func NewProgressFormatter(inner Formatter, out io.Writer) *ProgressFormatter {
	return &ProgressFormatter{inner: inner, out: out}
}

// Start forwards to the inner formatter
func (f *ProgressFormatter) Start(request *models.Request) error {
	return f.inner.Start(request)
}

// Progress advances the bar. The entry total is unknown until
// alignment finishes, so the bar is created on the first call.
func (f *ProgressFormatter) Progress(current, total int, path string) {
	if f.bar == nil {
		f.bar = pb.ProgressBarTemplate(progressTemplate).New(total)
		f.bar.SetWriter(f.out)
		f.bar.SetMaxWidth(120)
		f.bar.Start()
	}
	f.bar.Set("entry", path)
	f.bar.SetCurrent(int64(current))
	f.inner.Progress(current, total, path)
}

// Result forwards to the inner formatter
func (f *ProgressFormatter) Result(result *models.EntryResult) {
	f.inner.Result(result)
}

// Complete stops the bar before the inner formatter writes its summary
func (f *ProgressFormatter) Complete(report *models.Report) error {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	return f.inner.Complete(report)
}

// Name returns the formatter identifier
func (f *ProgressFormatter) Name() string {
	return "progress"
}
