// Package analysis implements the statistical battery and the three fixed
// hypothesis evaluators. Descriptive statistics come from montanaflynn/stats
// and p-values from gonum's distuv distributions; every function here is
// pure, so repeated evaluation of the same rows reproduces bit-identical
// results.
package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Pearson computes the Pearson correlation coefficient and its two-sided
// p-value from the t-distribution with n-2 degrees of freedom.
func Pearson(x, y []float64) (r, p float64) {
	if len(x) != len(y) || len(x) < 3 {
		return 0, 1.0
	}
	r, err := stats.Pearson(x, y)
	if err != nil || math.IsNaN(r) {
		return 0, 1.0
	}
	return r, correlationPValue(r, len(x))
}

// Spearman computes the rank correlation coefficient: Pearson over
// tie-averaged ranks, with the same t-based two-sided p-value.
func Spearman(x, y []float64) (rho, p float64) {
	if len(x) != len(y) || len(x) < 3 {
		return 0, 1.0
	}
	return Pearson(rankTransform(x), rankTransform(y))
}

// correlationPValue converts a correlation coefficient into a two-sided
// p-value via t = r * sqrt((n-2)/(1-r^2)).
func correlationPValue(r float64, n int) float64 {
	if n < 3 {
		return 1.0
	}
	denom := 1 - r*r
	if denom <= 0 {
		return 0.0
	}
	t := r * math.Sqrt(float64(n-2)/denom)
	return tTestPValue(t, float64(n-2))
}

// rankTransform converts values to ranks, averaging within tie groups.
func rankTransform(data []float64) []float64 {
	n := len(data)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return data[idx[a]] < data[idx[b]]
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && data[idx[j]] == data[idx[i]] {
			j++
		}
		avgRank := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[idx[k]] = avgRank
		}
		i = j
	}
	return ranks
}

// TTest runs a two-sample Student's t-test with pooled variance and
// returns the statistic and its two-sided p-value.
func TTest(group1, group2 []float64) (t, p float64) {
	n1 := float64(len(group1))
	n2 := float64(len(group2))
	if n1 < 2 || n2 < 2 {
		return 0, 1.0
	}

	mean1, _ := stats.Mean(group1)
	mean2, _ := stats.Mean(group2)
	var1, _ := stats.SampleVariance(group1)
	var2, _ := stats.SampleVariance(group2)

	pooledVar := ((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2)
	se := math.Sqrt(pooledVar * (1/n1 + 1/n2))
	if se == 0 {
		return 0, 1.0
	}

	t = (mean1 - mean2) / se
	return t, tTestPValue(t, n1+n2-2)
}

// CohenD computes the pooled-standard-deviation effect size between two
// groups, with degrees-of-freedom-adjusted pooling.
func CohenD(group1, group2 []float64) float64 {
	n1 := float64(len(group1))
	n2 := float64(len(group2))
	if n1 < 2 || n2 < 2 {
		return 0
	}

	mean1, _ := stats.Mean(group1)
	mean2, _ := stats.Mean(group2)
	var1, _ := stats.SampleVariance(group1)
	var2, _ := stats.SampleVariance(group2)

	pooledSD := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	if pooledSD == 0 {
		return 0
	}
	return (mean1 - mean2) / pooledSD
}

// Effect-size interpretation labels, |d| banded at 0.2 / 0.5 / 0.8.
const (
	EffectSmall     = "작은 효과"
	EffectMedium    = "중간 효과"
	EffectLarge     = "큰 효과"
	EffectVeryLarge = "매우 큰 효과"
)

// InterpretEffectSize maps |d| onto the fixed four-tier banding.
func InterpretEffectSize(d float64) string {
	absD := math.Abs(d)
	switch {
	case absD < 0.2:
		return EffectSmall
	case absD < 0.5:
		return EffectMedium
	case absD < 0.8:
		return EffectLarge
	default:
		return EffectVeryLarge
	}
}

// MannWhitneyU runs a two-sided Mann-Whitney U test using the normal
// approximation with tie correction and continuity correction. The returned
// statistic is U of the first group.
func MannWhitneyU(group1, group2 []float64) (u, p float64) {
	n1 := float64(len(group1))
	n2 := float64(len(group2))
	if n1 < 1 || n2 < 1 {
		return 0, 1.0
	}

	combined := make([]float64, 0, len(group1)+len(group2))
	combined = append(combined, group1...)
	combined = append(combined, group2...)
	ranks := rankTransform(combined)

	r1 := 0.0
	for i := range group1 {
		r1 += ranks[i]
	}
	u = r1 - n1*(n1+1)/2

	n := n1 + n2
	mu := n1 * n2 / 2

	// Tie correction to the variance of U.
	tieSum := 0.0
	counts := make(map[float64]float64, len(combined))
	for _, v := range combined {
		counts[v]++
	}
	for _, c := range counts {
		tieSum += c*c*c - c
	}
	sigmaSq := n1 * n2 / 12 * ((n + 1) - tieSum/(n*(n-1)))
	if sigmaSq <= 0 {
		return u, 1.0
	}

	// Continuity correction toward the mean.
	numerator := math.Abs(u-mu) - 0.5
	if numerator < 0 {
		numerator = 0
	}
	z := numerator / math.Sqrt(sigmaSq)
	p = 2 * (1 - distuv.UnitNormal.CDF(z))
	return u, clampP(p)
}

// BuildContingency cross-tabulates a boolean flag against level codes,
// keeping only columns that occur. Rows: [false, true].
func BuildContingency(flags []bool, levels []string) [][]int {
	seen := make(map[string]bool)
	var cols []string
	for _, lv := range levels {
		if !seen[lv] {
			seen[lv] = true
			cols = append(cols, lv)
		}
	}
	sort.Strings(cols)

	colIdx := make(map[string]int, len(cols))
	for i, c := range cols {
		colIdx[c] = i
	}

	table := [][]int{make([]int, len(cols)), make([]int, len(cols))}
	for i, flag := range flags {
		row := 0
		if flag {
			row = 1
		}
		table[row][colIdx[levels[i]]]++
	}
	return table
}

// ChiSquare runs a chi-square test of independence over a contingency
// table, returning the statistic, p-value, and degrees of freedom.
func ChiSquare(table [][]int) (chiSq, p float64, dof int) {
	rows := len(table)
	if rows < 2 {
		return 0, 1.0, 0
	}
	cols := len(table[0])
	if cols < 2 {
		return 0, 1.0, 0
	}

	total := 0
	rowTotals := make([]int, rows)
	colTotals := make([]int, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rowTotals[i] += table[i][j]
			colTotals[j] += table[i][j]
			total += table[i][j]
		}
	}
	if total == 0 {
		return 0, 1.0, 0
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := float64(rowTotals[i]*colTotals[j]) / float64(total)
			if expected > 0 {
				observed := float64(table[i][j])
				chiSq += (observed - expected) * (observed - expected) / expected
			}
		}
	}

	dof = (rows - 1) * (cols - 1)
	return chiSq, chiSquarePValue(chiSq, float64(dof)), dof
}

// OneWayANOVA computes the F statistic and p-value across groups. With
// fewer than two groups, or a degenerate zero within-group variance, the
// test is not applicable: the conventional neutral values F=0, p=1 are
// returned with applicable=false so callers can tell "not significant"
// from "not a test result".
func OneWayANOVA(groups [][]float64) (f, p float64, applicable bool) {
	k := 0
	n := 0
	grandSum := 0.0
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		k++
		n += len(g)
		for _, v := range g {
			grandSum += v
		}
	}
	if k < 2 || n <= k {
		return 0, 1.0, false
	}
	grandMean := grandSum / float64(n)

	ssBetween := 0.0
	ssWithin := 0.0
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		mean, _ := stats.Mean(g)
		diff := mean - grandMean
		ssBetween += float64(len(g)) * diff * diff
		for _, v := range g {
			ssWithin += (v - mean) * (v - mean)
		}
	}

	msBetween := ssBetween / float64(k-1)
	msWithin := ssWithin / float64(n-k)
	if msWithin == 0 {
		return 0, 1.0, false
	}

	f = msBetween / msWithin
	return f, fTestPValue(f, float64(k-1), float64(n-k)), true
}

// Distribution-backed p-value helpers.

func tTestPValue(t, df float64) float64 {
	if df <= 0 {
		return 1.0
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return clampP(2 * (1 - tDist.CDF(math.Abs(t))))
}

func fTestPValue(f, df1, df2 float64) float64 {
	if f <= 0 || df1 <= 0 || df2 <= 0 {
		return 1.0
	}
	fDist := distuv.F{D1: df1, D2: df2}
	return clampP(1 - fDist.CDF(f))
}

func chiSquarePValue(chiSq, df float64) float64 {
	if chiSq <= 0 || df <= 0 {
		return 1.0
	}
	chiDist := distuv.ChiSquared{K: df}
	return clampP(1 - chiDist.CDF(chiSq))
}

func clampP(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
