package analysis

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}

	r, p := Pearson(x, y)
	if !almostEqual(r, 1.0, tolerance) {
		t.Errorf("r = %v, want 1.0", r)
	}
	if p > 1e-6 {
		t.Errorf("p = %v, want near zero", p)
	}

	r, _ = Pearson(x, []float64{10, 8, 6, 4, 2})
	if !almostEqual(r, -1.0, tolerance) {
		t.Errorf("inverse r = %v, want -1.0", r)
	}
}

func TestPearsonDegenerateInputs(t *testing.T) {
	// Too few points, mismatched lengths, and constant series all yield the
	// neutral result.
	cases := [][2][]float64{
		{{1, 2}, {3, 4}},
		{{1, 2, 3}, {1, 2}},
		{{1, 1, 1, 1}, {1, 2, 3, 4}},
	}
	for i, c := range cases {
		r, p := Pearson(c[0], c[1])
		if r != 0 || p != 1.0 {
			t.Errorf("case %d: got (%v, %v), want (0, 1)", i, r, p)
		}
	}
}

func TestSpearmanMonotoneNonlinear(t *testing.T) {
	// Rank correlation sees through a monotone nonlinear relationship.
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{1, 8, 27, 64, 125, 216}

	rho, p := Spearman(x, y)
	if !almostEqual(rho, 1.0, tolerance) {
		t.Errorf("rho = %v, want 1.0", rho)
	}
	if p > 1e-6 {
		t.Errorf("p = %v, want near zero", p)
	}
}

func TestRankTransformAveragesTies(t *testing.T) {
	ranks := rankTransform([]float64{10, 20, 20, 30})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if !almostEqual(ranks[i], want[i], tolerance) {
			t.Fatalf("ranks = %v, want %v", ranks, want)
		}
	}
}

func TestTTestIdenticalGroups(t *testing.T) {
	g := []float64{1, 2, 3, 4, 5}
	tStat, p := TTest(g, g)
	if tStat != 0 {
		t.Errorf("t = %v, want 0", tStat)
	}
	if !almostEqual(p, 1.0, tolerance) {
		t.Errorf("p = %v, want 1", p)
	}
}

func TestTTestSeparatedGroups(t *testing.T) {
	low := []float64{1, 1, 2, 1, 2, 1}
	high := []float64{5, 4, 5, 5, 4, 5}

	tStat, p := TTest(low, high)
	if tStat >= 0 {
		t.Errorf("t = %v, want negative (first mean lower)", tStat)
	}
	if p >= 0.01 {
		t.Errorf("p = %v, want clearly significant", p)
	}

	// Symmetry: swapping the groups flips the sign, not the p-value.
	tSwap, pSwap := TTest(high, low)
	if !almostEqual(tStat, -tSwap, 1e-12) {
		t.Errorf("t not antisymmetric: %v vs %v", tStat, tSwap)
	}
	if !almostEqual(p, pSwap, 1e-12) {
		t.Errorf("p not symmetric: %v vs %v", p, pSwap)
	}
}

func TestCohenDKnownValue(t *testing.T) {
	// Means 2 and 4, both variances 1: pooled SD 1, so d = -2.
	g1 := []float64{1, 2, 3}
	g2 := []float64{3, 4, 5}
	d := CohenD(g1, g2)
	if !almostEqual(d, -2.0, tolerance) {
		t.Errorf("d = %v, want -2", d)
	}
}

func TestInterpretEffectSizeBands(t *testing.T) {
	cases := []struct {
		d    float64
		want string
	}{
		{0.0, EffectSmall},
		{0.19, EffectSmall},
		{0.2, EffectMedium},
		{-0.35, EffectMedium},
		{0.5, EffectLarge},
		{-0.79, EffectLarge},
		{0.8, EffectVeryLarge},
		{-2.1, EffectVeryLarge},
	}
	for _, tc := range cases {
		if got := InterpretEffectSize(tc.d); got != tc.want {
			t.Errorf("InterpretEffectSize(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestMannWhitneyUIdenticalDistributions(t *testing.T) {
	g := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	u, p := MannWhitneyU(g, g)
	// U of the first group equals n1*n2/2 when the groups mirror each other.
	if !almostEqual(u, 32, tolerance) {
		t.Errorf("u = %v, want 32", u)
	}
	if p < 0.9 {
		t.Errorf("p = %v, want near 1 for identical groups", p)
	}
}

func TestMannWhitneyUSeparatedGroups(t *testing.T) {
	low := []float64{1, 1, 2, 2, 1, 2, 1, 2}
	high := []float64{4, 5, 4, 5, 5, 4, 5, 4}
	u, p := MannWhitneyU(low, high)
	if u != 0 {
		t.Errorf("u = %v, want 0 for fully separated groups", u)
	}
	if p >= 0.01 {
		t.Errorf("p = %v, want clearly significant", p)
	}
}

func TestBuildContingencyShape(t *testing.T) {
	flags := []bool{false, true, true, false, true}
	levels := []string{"TL", "IG", "TL", "IG", "TL"}

	table := BuildContingency(flags, levels)
	if len(table) != 2 || len(table[0]) != 2 {
		t.Fatalf("table shape = %dx%d, want 2x2", len(table), len(table[0]))
	}
	// Columns sorted: IG then TL. Row 0 is false, row 1 is true.
	if table[0][0] != 2 || table[0][1] != 1 {
		t.Errorf("false row = %v", table[0])
	}
	if table[1][0] != 1 || table[1][1] != 2 {
		t.Errorf("true row = %v", table[1])
	}
}

func TestChiSquareIndependentTable(t *testing.T) {
	// Perfectly proportional rows: statistic 0, p 1.
	chiSq, p, dof := ChiSquare([][]int{{10, 20}, {20, 40}})
	if !almostEqual(chiSq, 0, tolerance) {
		t.Errorf("chiSq = %v, want 0", chiSq)
	}
	if !almostEqual(p, 1.0, tolerance) {
		t.Errorf("p = %v, want 1", p)
	}
	if dof != 1 {
		t.Errorf("dof = %d, want 1", dof)
	}
}

func TestChiSquareDegenerateTables(t *testing.T) {
	for _, table := range [][][]int{
		{},
		{{1, 2}},
		{{1}, {2}},
		{{0, 0}, {0, 0}},
	} {
		chiSq, p, _ := ChiSquare(table)
		if chiSq != 0 || p != 1.0 {
			t.Errorf("table %v: got (%v, %v), want (0, 1)", table, chiSq, p)
		}
	}
}

func TestOneWayANOVASeparatedGroups(t *testing.T) {
	groups := [][]float64{
		{1, 2, 1, 2},
		{5, 6, 5, 6},
		{9, 10, 9, 10},
	}
	f, p, applicable := OneWayANOVA(groups)
	if !applicable {
		t.Fatal("expected applicable ANOVA")
	}
	if f <= 1 {
		t.Errorf("f = %v, want large", f)
	}
	if p >= 0.001 {
		t.Errorf("p = %v, want clearly significant", p)
	}
}

func TestOneWayANOVANotApplicable(t *testing.T) {
	cases := []struct {
		name   string
		groups [][]float64
	}{
		{"single group", [][]float64{{1, 2, 3}}},
		{"zero within variance", [][]float64{{2, 2, 2}, {5, 5, 5}}},
		{"one point per group", [][]float64{{1}, {2}}},
		{"empty groups only", [][]float64{{}, {}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, p, applicable := OneWayANOVA(tc.groups)
			if applicable {
				t.Fatal("expected not-applicable ANOVA")
			}
			if f != 0 || p != 1.0 {
				t.Errorf("neutral values violated: f=%v p=%v", f, p)
			}
		})
	}
}
