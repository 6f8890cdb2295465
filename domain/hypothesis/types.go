// Package hypothesis defines the three fixed research hypotheses and the
// verdict type their evaluators produce.
package hypothesis

// ID names one of the three fixed hypotheses.
type ID string

const (
	H1 ID = "H1" // younger participants score higher (correlation)
	H2 ID = "H2" // metropolitan participants score higher (group comparison)
	H3 ID = "H3" // prior English-region residence scores higher (group comparison)
)

// Status is the categorical outcome of an evaluation.
type Status string

const (
	StatusAccepted     Status = "accepted"
	StatusRejected     Status = "rejected"
	StatusInconclusive Status = "inconclusive"
)

// Direction encodes which sign of the observed effect supports a
// hypothesis. The numeric level scale is inverted (rank 1 is the lowest,
// rank 5 the highest), so the comparison direction is fixed here once per
// hypothesis instead of inline at each comparison.
type Direction string

const (
	// DirectionPositiveCorr: H1 is supported when the Pearson r between
	// age and numeric level is positive.
	DirectionPositiveCorr Direction = "positive_correlation"
	// DirectionGroupLower: H2/H3 are supported when the in-group mean
	// numeric level is lower than the out-group mean.
	DirectionGroupLower Direction = "group_mean_lower"
)

// Kind distinguishes the two evaluation procedures.
type Kind string

const (
	KindCorrelation     Kind = "correlation"
	KindGroupComparison Kind = "group_comparison"
)

// Definition is one entry in the fixed hypothesis registry.
type Definition struct {
	ID        ID
	Title     string
	Kind      Kind
	Direction Direction

	// MinSampleSize is the total-row gate for correlation hypotheses and
	// the per-group gate for group comparisons.
	MinSampleSize int
}

// Registry holds the three hypotheses in evaluation order.
var Registry = map[ID]Definition{
	H1: {
		ID:            H1,
		Title:         "연령대가 낮을수록 점수가 높을 것이다",
		Kind:          KindCorrelation,
		Direction:     DirectionPositiveCorr,
		MinSampleSize: 10,
	},
	H2: {
		ID:            H2,
		Title:         "수도권(서울/경기)일수록 점수가 높을 것이다",
		Kind:          KindGroupComparison,
		Direction:     DirectionGroupLower,
		MinSampleSize: 5,
	},
	H3: {
		ID:            H3,
		Title:         "영어권 거주 경험이 있을수록 점수가 높을 것이다",
		Kind:          KindGroupComparison,
		Direction:     DirectionGroupLower,
		MinSampleSize: 5,
	},
}

// SignificanceLevel is the fixed two-sided alpha every verdict keys off.
const SignificanceLevel = 0.05

// Verdict is the outcome of evaluating one hypothesis against a filtered
// table. It is a pure function of that table: re-evaluating the same rows
// reproduces bit-identical values.
type Verdict struct {
	Hypothesis  ID             `json:"hypothesis"`
	Title       string         `json:"title"`
	Status      Status         `json:"result"`
	PValue      float64        `json:"p_value"`
	EffectSize  *float64       `json:"effect_size,omitempty"`
	Correlation *float64       `json:"correlation,omitempty"`
	SampleSize  int            `json:"sample_size"`
	Statistics  map[string]any `json:"statistics"`
	Conclusion  string         `json:"conclusion"`
}
