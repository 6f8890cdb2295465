package participant

// Filter narrows a table for a single query. Every field is optional; an
// unset field places no constraint. Set fields combine with logical AND.
type Filter struct {
	AgeMin    *int           `json:"age_min,omitempty"`
	AgeMax    *int           `json:"age_max,omitempty"`
	Locations []string       `json:"locations,omitempty"`
	Levels    []EnglishLevel `json:"levels,omitempty"`
}

// IsZero reports whether the filter places no constraint at all.
func (f Filter) IsZero() bool {
	return f.AgeMin == nil && f.AgeMax == nil && len(f.Locations) == 0 && len(f.Levels) == 0
}

// Matches reports whether a row satisfies every set clause.
func (f Filter) Matches(r Row) bool {
	if f.AgeMin != nil && r.Age < *f.AgeMin {
		return false
	}
	if f.AgeMax != nil && r.Age > *f.AgeMax {
		return false
	}
	if len(f.Locations) > 0 && !containsString(f.Locations, r.Location) {
		return false
	}
	if len(f.Levels) > 0 && !containsLevel(f.Levels, r.Level) {
		return false
	}
	return true
}

// Apply returns a new table holding the subset of rows matching the
// filter, preserving the original row order. The input table is never
// mutated; the derived table keeps the source snapshot identity so verdicts
// can be traced back to the build they were computed against.
func (f Filter) Apply(t *Table) *Table {
	out := &Table{
		SnapshotID:    t.SnapshotID,
		BuiltAt:       t.BuiltAt,
		FailedObjects: t.FailedObjects,
	}
	if f.IsZero() {
		out.Rows = append([]Row(nil), t.Rows...)
		return out
	}
	for _, r := range t.Rows {
		if f.Matches(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsLevel(list []EnglishLevel, v EnglishLevel) bool {
	for _, l := range list {
		if l == v {
			return true
		}
	}
	return false
}
