// Package participant holds the flat analysis schema derived from raw
// assessment records, plus the immutable table snapshot served to queries.
package participant

import (
	"time"
)

// EnglishLevel is the final categorical level assigned by the assessment.
type EnglishLevel string

const (
	LevelIG EnglishLevel = "IG" // Intermediate General
	LevelTL EnglishLevel = "TL" // Talented Low
	LevelTM EnglishLevel = "TM" // Talented Middle
	LevelTH EnglishLevel = "TH" // Talented High
	LevelNA EnglishLevel = "NA" // Native-like
)

// AllLevels lists the valid level codes in ascending numeric-rank order.
var AllLevels = []EnglishLevel{LevelIG, LevelTL, LevelTM, LevelTH, LevelNA}

// Row is one participant in the analysis table. A Row exists only if age,
// location, and english level were all present in the source record.
type Row struct {
	ID        string       `json:"participant_id"`
	Age       int          `json:"age"`
	Gender    string       `json:"gender"`
	Location  string       `json:"location"`
	Level     EnglishLevel `json:"english_level"`
	SelfGrade string       `json:"self_grade"`

	// Derived fields, pure functions of the columns above.
	LevelNumeric  int    `json:"english_level_numeric"`
	AgeGroup      string `json:"age_group"`
	Metropolitan  bool   `json:"is_metropolitan"`
	HasExperience bool   `json:"english_speaking_experience"`

	ComboScores map[string]float64 `json:"combo_scores,omitempty"`
	FileDate    string             `json:"file_date"`
	Year        string             `json:"year"`
}

// Table is a value snapshot of the full analysis dataset. Once built it is
// never mutated; filters return derived Tables sharing row values.
type Table struct {
	SnapshotID string
	BuiltAt    time.Time
	Rows       []Row

	// FailedObjects counts per-object fetch/parse failures absorbed during
	// the build that produced this snapshot.
	FailedObjects int
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Ages returns the age column as float64 for the statistical battery.
func (t *Table) Ages() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = float64(r.Age)
	}
	return out
}

// LevelNumerics returns the numeric level column as float64.
func (t *Table) LevelNumerics() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = float64(r.LevelNumeric)
	}
	return out
}

// SplitBy partitions the numeric level column by a boolean predicate on
// each row, returning the true-group scores first.
func (t *Table) SplitBy(pred func(Row) bool) (in, out []float64) {
	for _, r := range t.Rows {
		if pred(r) {
			in = append(in, float64(r.LevelNumeric))
		} else {
			out = append(out, float64(r.LevelNumeric))
		}
	}
	return in, out
}
