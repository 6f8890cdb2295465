// Package extract turns one raw assessment JSON record into a flat
// participant row. Extraction is tolerant: missing fields resolve to empty
// sentinels and never fail; only structurally invalid input (a record whose
// root is not a JSON object) is an extraction error. A single completeness
// gate runs after extraction and drops records missing age, location, or
// english level.
package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/juun0-h/korean-english-oral-test-data-analysis/domain/participant"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/errors"
)

// ComboScorePrefix selects the numeric sub-score entries inside the level
// block. Anything else in that block is not a score.
const ComboScorePrefix = "Combo"

// FromJSON extracts a participant row from one raw record.
//
// Returns (nil, nil) when the record is structurally valid but fails the
// completeness gate; such records are dropped, never partially included.
// Returns an EXTRACTION_ERROR when the record is not a JSON object.
func FromJSON(data []byte) (*participant.Row, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.ExtractionError("record is not a JSON object", err)
	}
	return FromDocument(doc)
}

// FromDocument extracts a participant row from a decoded record.
func FromDocument(doc map[string]any) (*participant.Row, error) {
	if doc == nil {
		return nil, errors.ExtractionError("record is empty", nil)
	}

	speaker := asMap(doc["speaker"])
	level := asMap(speaker["level"])
	metadata := asMap(doc["metadata"])

	row := &participant.Row{
		ID:          asString(speaker["id"]),
		Age:         asAge(speaker["age"]),
		Gender:      asString(speaker["gender"]),
		Location:    asString(speaker["location"]),
		Level:       participant.EnglishLevel(asString(level["final"])),
		SelfGrade:   asString(speaker["self_grade"]),
		ComboScores: comboScores(level),
		FileDate:    asString(metadata["date"]),
		Year:        asString(metadata["year"]),
	}

	// Completeness gate: age, location, and level must all be present.
	if row.Age <= 0 || row.Location == "" || row.Level == "" {
		return nil, nil
	}

	row.LevelNumeric = participant.LevelRank(row.Level)
	row.AgeGroup = participant.AgeGroup(row.Age)
	row.Metropolitan = participant.IsMetropolitan(row.Location)
	row.HasExperience = participant.HasEnglishExperience(asMap(speaker["interview"]))

	return row, nil
}

// comboScores keeps level-block entries whose key carries the combo prefix
// and whose value parses as a number. Non-numeric and empty values are
// dropped silently; they are data noise, not errors.
func comboScores(level map[string]any) map[string]float64 {
	var scores map[string]float64
	for k, v := range level {
		if !strings.HasPrefix(k, ComboScorePrefix) {
			continue
		}
		f, ok := asFloat(v)
		if !ok {
			continue
		}
		if scores == nil {
			scores = make(map[string]float64)
		}
		scores[k] = f
	}
	return scores
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// asAge coerces a JSON number or numeric string to an integer age.
// Anything else resolves to 0, the absent sentinel.
func asAge(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return 0, false
		}
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
