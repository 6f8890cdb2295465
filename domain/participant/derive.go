package participant

import "strings"

// levelRanks maps the categorical level to its numeric rank. The scale is
// inverted: 1 is the lowest rank but reads as the highest proficiency code
// ordering used by the assessment, so comparison directions downstream must
// treat a lower mean as more proficient.
var levelRanks = map[EnglishLevel]int{
	LevelIG: 1,
	LevelTL: 2,
	LevelTM: 3,
	LevelTH: 4,
	LevelNA: 5,
}

// LevelNames spells out the level codes for reporting surfaces.
var LevelNames = map[EnglishLevel]string{
	LevelIG: "Intermediate General",
	LevelTL: "Talented Low",
	LevelTM: "Talented Middle",
	LevelTH: "Talented High",
	LevelNA: "Native-like",
}

// LevelRank returns the numeric rank for a level code, or 0 when the code
// is not one of the five known levels. Rank 0 rows are removed by the
// builder's missing-data filter.
func LevelRank(level EnglishLevel) int {
	return levelRanks[level]
}

// Age bucket names. AgeGroupUnknown is only reachable for a malformed age
// that slipped past the completeness gate; it never panics.
const (
	AgeGroupEarly20s = "20대 초반"
	AgeGroupLate20s  = "20대 후반"
	AgeGroupEarly30s = "30대 초반"
	AgeGroupLate30s  = "30대 후반"
	AgeGroup40Plus   = "40대 이상"
	AgeGroupUnknown  = "미상"
)

// AgeGroups lists the buckets in ascending age order.
var AgeGroups = []string{AgeGroupEarly20s, AgeGroupLate20s, AgeGroupEarly30s, AgeGroupLate30s, AgeGroup40Plus}

// AgeGroup buckets an age into one of five contiguous ranges covering
// [0, inf).
func AgeGroup(age int) string {
	switch {
	case age < 0:
		return AgeGroupUnknown
	case age < 25:
		return AgeGroupEarly20s
	case age < 30:
		return AgeGroupLate20s
	case age < 35:
		return AgeGroupEarly30s
	case age < 40:
		return AgeGroupLate30s
	default:
		return AgeGroup40Plus
	}
}

// metropolitanMarkers are the capital-region substrings. A location is
// metropolitan iff it contains any of them.
var metropolitanMarkers = []string{"서울", "경기"}

// IsMetropolitan reports whether a location string names a capital-region
// place. Empty or non-place strings are non-metropolitan.
func IsMetropolitan(location string) bool {
	for _, marker := range metropolitanMarkers {
		if strings.Contains(location, marker) {
			return true
		}
	}
	return false
}

// Interview field carrying the prior English-speaking-region residence
// answer, and the exact affirmative sentinel.
const (
	InterviewExperienceKey = "영어권_거주_여부"
	InterviewExperienceYes = "있음"
)

// HasEnglishExperience reads the residence flag out of an interview block.
// Any shape other than the exact affirmative string yields false.
func HasEnglishExperience(interview map[string]any) bool {
	if interview == nil {
		return false
	}
	v, ok := interview[InterviewExperienceKey].(string)
	return ok && v == InterviewExperienceYes
}
