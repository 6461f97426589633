package output

import (
	"encoding/json"
	"io"

	"github.com/sdejongh/difflex/pkg/models"
)

// jsonEvent is one line of machine-readable output. Exactly one of the
// payload fields is set, matching the event name.
type jsonEvent struct {
	Event   string              `json:"event"`
	Request *models.Request     `json:"request,omitempty"`
	Result  *models.EntryResult `json:"result,omitempty"`
	Report  *models.Report      `json:"report,omitempty"`
}

// JSONFormatter emits one JSON object per line: a start event with the
// request, an entry event per aligned entry, and a complete event with
// the final report. Progress is not emitted. The first write error
// sticks and is returned from Complete.
type JSONFormatter struct {
	enc *json.Encoder
	err error
}

// NewJSONFormatter returns a line-oriented JSON formatter writing to w
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{enc: json.NewEncoder(w)}
}

// Start emits the start event with the validated request
func (f *JSONFormatter) Start(request *models.Request) error {
	return f.encode(jsonEvent{Event: "start", Request: request})
}

// Progress is a no-op; consumers track position from entry events
func (f *JSONFormatter) Progress(current, total int, path string) {}

// Result emits an entry event
func (f *JSONFormatter) Result(result *models.EntryResult) {
	f.encode(jsonEvent{Event: "entry", Result: result})
}

// Complete emits the complete event and surfaces any earlier write
// error
func (f *JSONFormatter) Complete(report *models.Report) error {
	return f.encode(jsonEvent{Event: "complete", Report: report})
}

// Name returns the formatter identifier
func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) encode(event jsonEvent) error {
	if f.err != nil {
		return f.err
	}
	f.err = f.enc.Encode(event)
	return f.err
}
