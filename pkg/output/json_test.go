package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sdejongh/difflex/pkg/models"
)

func TestJSONFormatterEvents(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewJSONFormatter(buf)

	if err := f.Start(testRequest()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	f.Progress(1, 2, "a.txt")
	f.Result(fileResult("a.txt", testOutcome(models.StatusIdentical, 100, "")))
	f.Result(fileResult("b.txt", testOutcome(models.StatusDifferent, 10.0, "Content differs significantly")))
	if err := f.Complete(testReport(models.StatusDifferences)); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4 (start, 2 entries, complete):\n%s", len(lines), buf.String())
	}
	for i, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Errorf("line %d is not valid JSON: %s", i, line)
		}
	}

	var start struct {
		Event   string          `json:"event"`
		Request *models.Request `json:"request"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &start); err != nil {
		t.Fatalf("failed to parse start event: %v", err)
	}
	if start.Event != "start" {
		t.Errorf("first event = %q, want start", start.Event)
	}
	if start.Request == nil || len(start.Request.Roots) != 2 {
		t.Errorf("start event request = %+v, want 2 roots", start.Request)
	}

	var entry struct {
		Event  string              `json:"event"`
		Result *models.EntryResult `json:"result"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &entry); err != nil {
		t.Fatalf("failed to parse entry event: %v", err)
	}
	if entry.Event != "entry" {
		t.Errorf("third event = %q, want entry", entry.Event)
	}
	if entry.Result.Entry.RelPath != "b.txt" {
		t.Errorf("entry rel_path = %q, want b.txt", entry.Result.Entry.RelPath)
	}
	if entry.Result.Outcomes[0].Status != models.StatusDifferent {
		t.Errorf("entry outcome status = %q, want different", entry.Result.Outcomes[0].Status)
	}

	var complete struct {
		Event  string         `json:"event"`
		Report *models.Report `json:"report"`
	}
	if err := json.Unmarshal([]byte(lines[3]), &complete); err != nil {
		t.Fatalf("failed to parse complete event: %v", err)
	}
	if complete.Event != "complete" {
		t.Errorf("last event = %q, want complete", complete.Event)
	}
	if complete.Report.Status != models.StatusDifferences {
		t.Errorf("report status = %q, want differences", complete.Report.Status)
	}
}

func TestJSONFormatterProgressIsSilent(t *testing.T) {
	buf := &bytes.Buffer{}
	f := NewJSONFormatter(buf)

	f.Progress(1, 10, "a.txt")
	f.Progress(2, 10, "b.txt")

	if buf.Len() != 0 {
		t.Errorf("progress should not emit events, got:\n%s", buf.String())
	}
}

func TestJSONFormatterSurfacesWriteError(t *testing.T) {
	f := NewJSONFormatter(&failingWriter{})

	if err := f.Start(testRequest()); err == nil {
		t.Fatal("Start() on a failing writer should return an error")
	}
	f.Result(fileResult("a.txt", testOutcome(models.StatusIdentical, 100, "")))
	if err := f.Complete(testReport(models.StatusClean)); err == nil {
		t.Error("Complete() should surface the sticky write error")
	}
}

type failingWriter struct{}

func (w *failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write refused")
}
