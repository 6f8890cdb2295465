package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/juun0-h/korean-english-oral-test-data-analysis/domain/hypothesis"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/domain/participant"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/errors"
)

// Evaluate runs one of the three fixed hypotheses against a filtered
// table. Sample-size violations surface as INSUFFICIENT_DATA errors, never
// as degraded verdicts.
func Evaluate(id hypothesis.ID, table *participant.Table) (*hypothesis.Verdict, error) {
	def, ok := hypothesis.Registry[id]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown hypothesis %q", id))
	}

	switch id {
	case hypothesis.H1:
		return evaluateAgeCorrelation(def, table)
	case hypothesis.H2:
		return evaluateGroupComparison(def, table, groupSpec{
			split:      func(r participant.Row) bool { return r.Metropolitan },
			inKey:      "metro",
			outKey:     "non_metro",
			accepted:   "가설 채택: 수도권이 비수도권보다 영어 실력이 높습니다.",
			rejected:   "가설 기각: 비수도권이 수도권보다 영어 실력이 높습니다.",
			noDecision: "가설 판단 불가: 수도권과 비수도권 간 유의한 차이가 없습니다.",
		})
	case hypothesis.H3:
		return evaluateGroupComparison(def, table, groupSpec{
			split:      func(r participant.Row) bool { return r.HasExperience },
			inKey:      "experience",
			outKey:     "no_experience",
			accepted:   "가설 채택: 영어권 거주 경험이 있는 사람들의 영어 실력이 더 높습니다.",
			rejected:   "가설 기각: 영어권 거주 경험이 없는 사람들의 영어 실력이 더 높습니다.",
			noDecision: "가설 판단 불가: 영어권 거주 경험에 따른 유의한 차이가 없습니다.",
		})
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown hypothesis %q", id))
	}
}

// evaluateAgeCorrelation runs H1: Pearson and Spearman correlation between
// age and numeric level across all rows, plus a one-way ANOVA over the
// age-group partition.
func evaluateAgeCorrelation(def hypothesis.Definition, table *participant.Table) (*hypothesis.Verdict, error) {
	if table.Len() < def.MinSampleSize {
		return nil, errors.InsufficientData("분석에 충분한 데이터가 없습니다.")
	}

	ages := table.Ages()
	levels := table.LevelNumerics()

	pearsonR, pearsonP := Pearson(ages, levels)
	spearmanR, spearmanP := Spearman(ages, levels)

	groups, groupStats := AgeGroupStats(table)
	fStat, anovaP, anovaApplicable := OneWayANOVA(groups)

	// Verdict keys off the Pearson p-value alone; the direction constant
	// fixes which correlation sign supports the hypothesis (lower numeric
	// rank = higher proficiency, so older-scores-worse shows up as r > 0).
	status := hypothesis.StatusInconclusive
	conclusion := "가설 판단 불가: 연령과 영어 실력 간 유의한 관계가 없습니다."
	if pearsonP < hypothesis.SignificanceLevel {
		supported := pearsonR > 0
		if def.Direction != hypothesis.DirectionPositiveCorr {
			supported = pearsonR < 0
		}
		if supported {
			status = hypothesis.StatusAccepted
			conclusion = "가설 채택: 연령대가 낮을수록 영어 실력이 더 좋습니다."
		} else {
			status = hypothesis.StatusRejected
			conclusion = "가설 기각: 연령대가 높을수록 영어 실력이 더 좋습니다."
		}
	}

	r := pearsonR
	return &hypothesis.Verdict{
		Hypothesis:  def.ID,
		Title:       def.Title,
		Status:      status,
		PValue:      pearsonP,
		Correlation: &r,
		SampleSize:  table.Len(),
		Statistics: map[string]any{
			"pearson_correlation":  pearsonR,
			"pearson_p_value":      pearsonP,
			"spearman_correlation": spearmanR,
			"spearman_p_value":     spearmanP,
			"anova_f_stat":         fStat,
			"anova_p_value":        anovaP,
			"anova_applicable":     anovaApplicable,
			"age_group_stats":      groupStats,
		},
		Conclusion: conclusion,
	}, nil
}

// groupSpec parameterizes the shared H2/H3 battery.
type groupSpec struct {
	split      func(participant.Row) bool
	inKey      string
	outKey     string
	accepted   string
	rejected   string
	noDecision string
}

// evaluateGroupComparison runs the shared H2/H3 battery: Student's t-test,
// Cohen's d, Mann-Whitney U, and a chi-square independence test between the
// group flag and the categorical level.
func evaluateGroupComparison(def hypothesis.Definition, table *participant.Table, spec groupSpec) (*hypothesis.Verdict, error) {
	inGroup, outGroup := table.SplitBy(spec.split)
	if len(inGroup) < def.MinSampleSize || len(outGroup) < def.MinSampleSize {
		return nil, errors.InsufficientData("각 그룹에 충분한 데이터가 없습니다.")
	}

	tStat, tP := TTest(inGroup, outGroup)
	effectSize := CohenD(inGroup, outGroup)
	uStat, uP := MannWhitneyU(inGroup, outGroup)

	flags := make([]bool, table.Len())
	levels := make([]string, table.Len())
	for i, r := range table.Rows {
		flags[i] = spec.split(r)
		levels[i] = string(r.Level)
	}
	chiSq, chiP, _ := ChiSquare(BuildContingency(flags, levels))

	inMean, _ := stats.Mean(inGroup)
	outMean, _ := stats.Mean(outGroup)

	// Lower mean numeric rank = more proficient group, per the direction
	// constant. Flipping this comparison silently inverts the verdict.
	status := hypothesis.StatusInconclusive
	conclusion := spec.noDecision
	if tP < hypothesis.SignificanceLevel {
		supported := inMean < outMean
		if def.Direction != hypothesis.DirectionGroupLower {
			supported = inMean > outMean
		}
		if supported {
			status = hypothesis.StatusAccepted
			conclusion = spec.accepted
		} else {
			status = hypothesis.StatusRejected
			conclusion = spec.rejected
		}
	}

	d := effectSize
	return &hypothesis.Verdict{
		Hypothesis: def.ID,
		Title:      def.Title,
		Status:     status,
		PValue:     tP,
		EffectSize: &d,
		SampleSize: table.Len(),
		Statistics: map[string]any{
			spec.inKey + "_mean":    inMean,
			spec.outKey + "_mean":   outMean,
			spec.inKey + "_count":   len(inGroup),
			spec.outKey + "_count":  len(outGroup),
			"t_statistic":           tStat,
			"t_p_value":             tP,
			"effect_size":           effectSize,
			"effect_interpretation": InterpretEffectSize(effectSize),
			"mannwhitney_u":         uStat,
			"mannwhitney_p":         uP,
			"chi_square":            chiSq,
			"chi_square_p":          chiP,
		},
		Conclusion: conclusion,
	}, nil
}

// GroupStat summarizes one age bucket for the H1 statistics bag and the
// chart surface.
type GroupStat struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}

// AgeGroupStats splits the numeric level column by age bucket,
// returning the groups in fixed bucket order alongside per-bucket
// summaries.
func AgeGroupStats(table *participant.Table) ([][]float64, map[string]GroupStat) {
	byGroup := make(map[string][]float64)
	for _, r := range table.Rows {
		byGroup[r.AgeGroup] = append(byGroup[r.AgeGroup], float64(r.LevelNumeric))
	}

	var groups [][]float64
	summary := make(map[string]GroupStat, len(byGroup))
	for _, name := range participant.AgeGroups {
		g, ok := byGroup[name]
		if !ok {
			continue
		}
		groups = append(groups, g)

		mean, _ := stats.Mean(g)
		std := 0.0
		if len(g) > 1 {
			std, _ = stats.StandardDeviationSample(g)
		}
		summary[name] = GroupStat{Count: len(g), Mean: mean, Std: std}
	}
	return groups, summary
}
