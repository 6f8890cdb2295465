// Package app wires the dataset builder, filter engine, and hypothesis
// evaluators into the operations the query surface exposes.
package app

import (
	"context"
	"sort"

	"github.com/juun0-h/korean-english-oral-test-data-analysis/domain/hypothesis"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/domain/participant"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/analysis"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/dataset"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/errors"
)

// topLocations caps the location distribution in summaries.
const topLocations = 5

// AnalysisService answers every dashboard query against the cached
// snapshot, rebuilding lazily after invalidation.
type AnalysisService struct {
	builder *dataset.Builder
}

// NewAnalysisService creates the query service.
func NewAnalysisService(builder *dataset.Builder) *AnalysisService {
	return &AnalysisService{builder: builder}
}

// Reload invalidates the cache and eagerly rebuilds, returning the new
// record count.
func (s *AnalysisService) Reload(ctx context.Context) (int, error) {
	table, err := s.builder.Reload(ctx)
	if err != nil {
		return 0, err
	}
	return table.Len(), nil
}

// Invalidate clears the cache without rebuilding; the next query pays for
// the build.
func (s *AnalysisService) Invalidate() {
	s.builder.Invalidate()
}

// HealthReport describes cache state for the health surface.
type HealthReport struct {
	Status      string `json:"status"`
	DataLoaded  bool   `json:"data_loaded"`
	RecordCount int    `json:"record_count"`
	Error       string `json:"error,omitempty"`
}

// Health reports whether a snapshot holds data. A failed on-demand build
// is reported as unhealthy, not propagated as a hard failure.
func (s *AnalysisService) Health(ctx context.Context) HealthReport {
	table, err := s.builder.GetOrBuild(ctx)
	if err != nil {
		return HealthReport{Status: "unhealthy", Error: err.Error()}
	}
	return HealthReport{Status: "healthy", DataLoaded: true, RecordCount: table.Len()}
}

// Filtered returns the cached snapshot narrowed by the filter. The empty
// check is the caller's concern; summary-style queries reject empty views,
// hypothesis evaluators apply their own sample-size gates.
func (s *AnalysisService) Filtered(ctx context.Context, filter participant.Filter) (*participant.Table, error) {
	table, err := s.builder.GetOrBuild(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(table), nil
}

// AgeRange carries the inclusive observed bounds.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Summary is the aggregate view of a filtered table.
type Summary struct {
	TotalParticipants    int            `json:"total_participants"`
	AgeRange             AgeRange       `json:"age_range"`
	AverageAge           float64        `json:"average_age"`
	LocationDistribution map[string]int `json:"location_distribution"`
	LevelDistribution    map[string]int `json:"level_distribution"`
	MetropolitanRatio    float64        `json:"metropolitan_ratio"`
	ExperienceRatio      float64        `json:"experience_ratio"`
}

// Summarize computes the summary over the filtered view. Zero matching
// rows is an error, not an empty summary.
func (s *AnalysisService) Summarize(ctx context.Context, filter participant.Filter) (*Summary, error) {
	view, err := s.Filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	if view.Len() == 0 {
		return nil, errors.FilterEmpty("필터 조건에 맞는 데이터가 없습니다.")
	}

	minAge, maxAge := view.Rows[0].Age, view.Rows[0].Age
	ageSum := 0
	metro := 0
	experienced := 0
	locations := make(map[string]int)
	levels := make(map[string]int)
	for _, r := range view.Rows {
		if r.Age < minAge {
			minAge = r.Age
		}
		if r.Age > maxAge {
			maxAge = r.Age
		}
		ageSum += r.Age
		if r.Metropolitan {
			metro++
		}
		if r.HasExperience {
			experienced++
		}
		locations[r.Location]++
		levels[string(r.Level)]++
	}

	n := float64(view.Len())
	return &Summary{
		TotalParticipants:    view.Len(),
		AgeRange:             AgeRange{Min: minAge, Max: maxAge},
		AverageAge:           float64(ageSum) / n,
		LocationDistribution: topNCounts(locations, topLocations),
		LevelDistribution:    levels,
		MetropolitanRatio:    float64(metro) / n,
		ExperienceRatio:      float64(experienced) / n,
	}, nil
}

// Locations returns the sorted distinct non-empty location strings across
// the whole snapshot.
func (s *AnalysisService) Locations(ctx context.Context) ([]string, error) {
	table, err := s.builder.GetOrBuild(ctx)
	if err != nil {
		return nil, err
	}
	return distinctSorted(table, func(r participant.Row) string { return r.Location }), nil
}

// Levels returns the sorted distinct non-empty level codes across the
// whole snapshot.
func (s *AnalysisService) Levels(ctx context.Context) ([]string, error) {
	table, err := s.builder.GetOrBuild(ctx)
	if err != nil {
		return nil, err
	}
	return distinctSorted(table, func(r participant.Row) string { return string(r.Level) }), nil
}

// Hypothesis evaluates one of H1/H2/H3 against the filtered view.
func (s *AnalysisService) Hypothesis(ctx context.Context, id hypothesis.ID, filter participant.Filter) (*hypothesis.Verdict, error) {
	view, err := s.Filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analysis.Evaluate(id, view)
}

// ChartData assembles the raw arrays and groupings the dashboard plots.
// Same empty-view policy as Summarize.
func (s *AnalysisService) ChartData(ctx context.Context, filter participant.Filter) (map[string]any, error) {
	view, err := s.Filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	if view.Len() == 0 {
		return nil, errors.FilterEmpty("필터 조건에 맞는 데이터가 없습니다.")
	}

	ages := make([]int, view.Len())
	scores := make([]int, view.Len())
	levels := make([]string, view.Len())
	for i, r := range view.Rows {
		ages[i] = r.Age
		scores[i] = r.LevelNumeric
		levels[i] = string(r.Level)
	}

	metroScores, nonMetroScores := view.SplitBy(func(r participant.Row) bool { return r.Metropolitan })
	expScores, noExpScores := view.SplitBy(func(r participant.Row) bool { return r.HasExperience })

	levelDist := make(map[string]int)
	locationAgg := make(map[string]*locationStat)
	for _, r := range view.Rows {
		levelDist[string(r.Level)]++
		ls := locationAgg[r.Location]
		if ls == nil {
			ls = &locationStat{}
			locationAgg[r.Location] = ls
		}
		ls.count++
		ls.sum += float64(r.LevelNumeric)
	}
	locationStats := make(map[string]map[string]any, len(locationAgg))
	for loc, ls := range locationAgg {
		locationStats[loc] = map[string]any{
			"count": ls.count,
			"mean":  ls.sum / float64(ls.count),
		}
	}

	_, ageGroupStats := analysis.AgeGroupStats(view)

	return map[string]any{
		"age_vs_score": map[string]any{
			"ages":   ages,
			"scores": scores,
			"levels": levels,
		},
		"age_group_stats": ageGroupStats,
		"metro_comparison": map[string]any{
			"metro_scores":     metroScores,
			"non_metro_scores": nonMetroScores,
		},
		"experience_comparison": map[string]any{
			"exp_scores":    expScores,
			"no_exp_scores": noExpScores,
		},
		"level_distribution": levelDist,
		"location_stats":     locationStats,
	}, nil
}

type locationStat struct {
	count int
	sum   float64
}

// topNCounts keeps the n highest counts, breaking count ties by name so
// the result is deterministic.
func topNCounts(counts map[string]int, n int) map[string]int {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[e.name] = e.count
	}
	return out
}

func distinctSorted(table *participant.Table, field func(participant.Row) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, r := range table.Rows {
		v := field(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
