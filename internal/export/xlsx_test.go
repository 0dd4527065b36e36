package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
	"github.com/xuri/excelize/v2"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 18, 30, 0, 0, time.UTC)
}

func testHistory() models.History {
	return models.History{
		{ID: "w1", Timestamp: day(1), TrainingType: "Push", Exercises: []models.Exercise{
			{ID: "e1", Name: "Bench Press", Equipment: "Barbell", Sets: []models.Set{
				{Index: 1, Weight: 80, Reps: 5},
				{Index: 2, Weight: 85, Reps: 3},
			}},
		}},
		{ID: "w2", Timestamp: day(8), TrainingType: "Push", Mode: models.ModeRecord, Exercises: []models.Exercise{
			{ID: "e2", Name: "bench press", Sets: []models.Set{{Index: 1, Weight: 90, Reps: 2}}},
		}},
	}
}

func readBack(t *testing.T, h models.History) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, h, history.Index{}, time.UTC); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// TestWorkoutsSheet verifies one row per set, newest workout first.
func TestWorkoutsSheet(t *testing.T) {
	f := readBack(t, testHistory())

	rows, err := f.GetRows(SheetWorkouts)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4 (header + 3 sets)", len(rows))
	}
	if rows[0][0] != "Date" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "2024-03-08 18:30" || rows[1][4] != "bench press" || rows[1][3] != "record" {
		t.Errorf("first row = %v, want the newest workout", rows[1])
	}
	if rows[3][6] != "2" || rows[3][7] != "85" || rows[3][8] != "3" {
		t.Errorf("last row = %v, want set 2 of 85 × 3", rows[3])
	}
}

// TestProgressionSheet verifies case variants of a name share one block.
func TestProgressionSheet(t *testing.T) {
	f := readBack(t, testHistory())

	rows, err := f.GetRows(SheetProgression)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3 (header + 2 workouts)", len(rows))
	}
	if rows[1][2] != "85" || rows[1][3] != "3" || rows[1][5] != "655" {
		t.Errorf("first point = %v, want top 85 × 3, volume 655", rows[1])
	}
	if rows[2][1] != "2024-03-08 18:30" || rows[2][2] != "90" {
		t.Errorf("second point = %v", rows[2])
	}
}

// TestEmptyHistory verifies an empty history still yields both sheets.
func TestEmptyHistory(t *testing.T) {
	f := readBack(t, nil)

	if got := f.GetSheetList(); len(got) != 2 || got[0] != SheetWorkouts || got[1] != SheetProgression {
		t.Errorf("sheets = %v", got)
	}
	rows, err := f.GetRows(SheetWorkouts)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}
