package extract

import (
	"testing"

	"github.com/juun0-h/korean-english-oral-test-data-analysis/domain/participant"
	apperrors "github.com/juun0-h/korean-english-oral-test-data-analysis/internal/errors"
)

func validRecord() []byte {
	return []byte(`{
		"speaker": {
			"id": "spk_0001",
			"age": 26,
			"gender": "여",
			"location": "서울특별시 마포구",
			"self_grade": "중",
			"level": {
				"final": "TM",
				"Combo1": 3.5,
				"Combo2": "4.0",
				"Combo3": "n/a",
				"rubric": "ignored"
			},
			"interview": {"영어권_거주_여부": "있음"}
		},
		"metadata": {"date": "20240115", "year": "2024"}
	}`)
}

func TestFromJSONExtractsFullRow(t *testing.T) {
	row, err := FromJSON(validRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row == nil {
		t.Fatal("expected a row, got nil")
	}

	if row.ID != "spk_0001" || row.Age != 26 || row.Location != "서울특별시 마포구" {
		t.Errorf("identity fields wrong: %+v", row)
	}
	if row.Level != participant.LevelTM || row.LevelNumeric != 3 {
		t.Errorf("level fields wrong: %s/%d", row.Level, row.LevelNumeric)
	}
	if row.AgeGroup != participant.AgeGroupLate20s {
		t.Errorf("age group = %q", row.AgeGroup)
	}
	if !row.Metropolitan {
		t.Error("expected metropolitan for Seoul location")
	}
	if !row.HasExperience {
		t.Error("expected english experience flag set")
	}
	if row.FileDate != "20240115" || row.Year != "2024" {
		t.Errorf("metadata fields wrong: %s/%s", row.FileDate, row.Year)
	}
}

func TestComboScoresKeepNumericEntriesOnly(t *testing.T) {
	row, err := FromJSON(validRecord())
	if err != nil || row == nil {
		t.Fatalf("extraction failed: row=%v err=%v", row, err)
	}

	if len(row.ComboScores) != 2 {
		t.Fatalf("combo scores = %v, want Combo1 and Combo2 only", row.ComboScores)
	}
	if row.ComboScores["Combo1"] != 3.5 {
		t.Errorf("Combo1 = %v", row.ComboScores["Combo1"])
	}
	if row.ComboScores["Combo2"] != 4.0 {
		t.Errorf("Combo2 (string form) = %v", row.ComboScores["Combo2"])
	}
	if _, present := row.ComboScores["Combo3"]; present {
		t.Error("non-numeric Combo3 should be dropped")
	}
}

func TestCompletenessGateDropsIncompleteRecords(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"missing age", `{"speaker":{"location":"서울","level":{"final":"IG"}}}`},
		{"missing location", `{"speaker":{"age":30,"level":{"final":"IG"}}}`},
		{"missing level", `{"speaker":{"age":30,"location":"서울","level":{}}}`},
		{"zero age", `{"speaker":{"age":0,"location":"서울","level":{"final":"IG"}}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row, err := FromJSON([]byte(tc.data))
			if err != nil {
				t.Fatalf("gate must drop, not error: %v", err)
			}
			if row != nil {
				t.Fatalf("expected dropped record, got %+v", row)
			}
		})
	}
}

func TestAgeAcceptsNumericString(t *testing.T) {
	row, err := FromJSON([]byte(`{"speaker":{"age":" 31 ","location":"부산","level":{"final":"TL"}}}`))
	if err != nil || row == nil {
		t.Fatalf("extraction failed: row=%v err=%v", row, err)
	}
	if row.Age != 31 {
		t.Errorf("age = %d, want 31", row.Age)
	}
	if row.AgeGroup != participant.AgeGroupEarly30s {
		t.Errorf("age group = %q", row.AgeGroup)
	}
}

func TestNonObjectRootIsExtractionError(t *testing.T) {
	for _, data := range []string{`[]`, `"text"`, `not json`} {
		_, err := FromJSON([]byte(data))
		if !apperrors.Is(err, apperrors.CodeExtractionError) {
			t.Errorf("input %q: expected EXTRACTION_ERROR, got %v", data, err)
		}
	}
}

func TestUnknownLevelCodeYieldsRankZero(t *testing.T) {
	row, err := FromJSON([]byte(`{"speaker":{"age":28,"location":"대구","level":{"final":"ZZ"}}}`))
	if err != nil || row == nil {
		t.Fatalf("extraction failed: row=%v err=%v", row, err)
	}
	if row.LevelNumeric != 0 {
		t.Errorf("unknown level rank = %d, want 0", row.LevelNumeric)
	}
}
