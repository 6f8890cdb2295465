// Package excel exports a filtered participant table as an xlsx workbook
// for offline analysis by the dashboard's users.
package excel

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/juun0-h/korean-english-oral-test-data-analysis/domain/participant"
)

const sheetName = "participants"

var headerRow = []string{
	"participant_id", "age", "gender", "location", "english_level",
	"english_level_numeric", "self_grade", "age_group", "is_metropolitan",
	"english_speaking_experience", "file_date", "year", "combo_scores",
}

// WriteTable streams the table as an xlsx workbook. Row order follows the
// table; combo scores are flattened into one cell in key order.
func WriteTable(w io.Writer, table *participant.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, h := range headerRow {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for i, r := range table.Rows {
		values := []any{
			r.ID, r.Age, r.Gender, r.Location, string(r.Level),
			r.LevelNumeric, r.SelfGrade, r.AgeGroup, r.Metropolitan,
			r.HasExperience, r.FileDate, r.Year, flattenScores(r.ComboScores),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func flattenScores(scores map[string]float64) string {
	if len(scores) == 0 {
		return ""
	}
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += "; "
		}
		out += fmt.Sprintf("%s=%g", k, scores[k])
	}
	return out
}
