// Package export writes workout history as a spreadsheet.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetWorkouts    = "Workouts"
	SheetProgression = "Progression"
)

const timeLayout = "2006-01-02 15:04"

var (
	workoutHeader     = []any{"Date", "Training type", "Location", "Mode", "Exercise", "Equipment", "Set", "Weight (kg)", "Reps"}
	progressionHeader = []any{"Exercise", "Date", "Top weight (kg)", "Reps at top", "Sets", "Volume (kg)"}
)

// WriteWorkbook writes h as an xlsx workbook: one row per set on the
// Workouts sheet, newest workout first, and one row per workout and exercise
// on the Progression sheet. Times are shown in loc.
func WriteWorkbook(w io.Writer, h models.History, ix history.Index, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetWorkouts); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetProgression); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeWorkouts(f, h, loc, header); err != nil {
		return fmt.Errorf("writing workouts sheet: %w", err)
	}
	if err := writeProgression(f, h, ix, loc, header); err != nil {
		return fmt.Errorf("writing progression sheet: %w", err)
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeWorkouts(f *excelize.File, h models.History, loc *time.Location, header int) error {
	sheet := SheetWorkouts
	if err := writeHeader(f, sheet, workoutHeader, header); err != nil {
		return err
	}

	row := 2
	for _, wo := range history.Recent(h) {
		when := ""
		if !wo.Timestamp.IsZero() {
			when = wo.Timestamp.In(loc).Format(timeLayout)
		}
		for _, ex := range wo.Exercises {
			for _, s := range ex.Sets {
				cell, _ := excelize.CoordinatesToCellName(1, row)
				values := []any{when, wo.TrainingType, wo.Location.String(), wo.Mode.String(), ex.Name, ex.Equipment, s.Index, s.Weight, s.Reps}
				if err := f.SetSheetRow(sheet, cell, &values); err != nil {
					return err
				}
				row++
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "F", 16)
}

func writeProgression(f *excelize.File, h models.History, ix history.Index, loc *time.Location, header int) error {
	sheet := SheetProgression
	if err := writeHeader(f, sheet, progressionHeader, header); err != nil {
		return err
	}

	// The catalog keeps case variants apart but lookups fold case, so
	// each variant after the first would repeat the same rows.
	var done []string
	row := 2
	for _, name := range ix.Catalog(h) {
		if containsExercise(done, name) {
			continue
		}
		done = append(done, name)

		volume := history.Volume(h, name)
		for i, p := range history.Series(h, name) {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			values := []any{name, p.Timestamp.In(loc).Format(timeLayout), p.TopWeight, p.RepsAtTop, volume[i].Sets, volume[i].Tonnage}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}

	return f.SetColWidth(sheet, "A", "B", 20)
}

func writeHeader(f *excelize.File, sheet string, cols []any, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &cols); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func containsExercise(names []string, name string) bool {
	for _, n := range names {
		if models.SameExercise(n, name) {
			return true
		}
	}
	return false
}
