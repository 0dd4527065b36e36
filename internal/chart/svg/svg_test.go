package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/chart"
	"github.com/claude/liftlog/internal/history"
)

// TestEncodeWellFormed verifies the output parses as XML and carries one
// circle per marker with its workout back-reference.
func TestEncodeWellFormed(t *testing.T) {
	series := []history.Point{
		{Timestamp: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), TopWeight: 60, RepsAtTop: 5, WorkoutID: "w<1>"},
		{Timestamp: time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC), TopWeight: 65, RepsAtTop: 5, WorkoutID: "w2"},
	}
	plan := chart.Render(series, "Curl & Press", chart.DefaultViewport())

	var buf bytes.Buffer
	if err := Encode(&buf, plan); err != nil {
		t.Fatalf("encode error: %v", err)
	}

	dec := xml.NewDecoder(bytes.NewReader(buf.Bytes()))
	for {
		if _, err := dec.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("invalid xml: %v\n%s", err, buf.String())
		}
	}

	out := buf.String()
	if got := strings.Count(out, "<circle"); got != 2 {
		t.Errorf("circles = %d, want 2", got)
	}
	if !strings.Contains(out, `data-workout-id="w&lt;1&gt;"`) {
		t.Error("workout id not escaped into data attribute")
	}
	if !strings.Contains(out, "Curl &amp; Press") {
		t.Error("title not escaped")
	}
}

// TestEncodeEmptyPlan verifies a message-only plan renders its text.
func TestEncodeEmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, chart.Render(nil, "Squat", chart.DefaultViewport())); err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if !strings.Contains(buf.String(), "No data yet for Squat.") {
		t.Errorf("output missing message:\n%s", buf.String())
	}
}
