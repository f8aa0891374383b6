package runstats

import (
	"math"
	"testing"
)

func TestRatiosZeroWhenUndefined(t *testing.T) {
	// No actual positives and no predicted positives.
	m := MatrixAt(nil, 1.0)

	for name, got := range map[string]float64{
		"sensitivity": m.Sensitivity(),
		"fallout":     m.Fallout(),
		"accuracy":    m.Accuracy(),
		"precision":   m.Precision(),
		"f1":          m.F1(),
		"mcc":         m.MCC(),
	} {
		if got != 0 {
			t.Errorf("%s over empty matrix = %v, want exactly 0", name, got)
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("%s over empty matrix is not finite", name)
		}
	}

	// All pairs below cutoff: sensitivity denominator is zero.
	m = MatrixAt([]Pair{{0.1, 0.2}, {0.3, 0.1}}, 1.0)
	if got := m.Sensitivity(); got != 0 {
		t.Errorf("sensitivity with no positives = %v, want 0", got)
	}
	if got := m.Accuracy(); got != 1.0 {
		t.Errorf("accuracy with all true negatives = %v, want 1", got)
	}
}

func TestMatrixCounts(t *testing.T) {
	pairs := []Pair{
		{Prediction: 2.0, Production: 2.5}, // TP
		{Prediction: 2.0, Production: 0.5}, // FP
		{Prediction: 0.5, Production: 2.5}, // FN
		{Prediction: 0.5, Production: 0.5}, // TN
	}

	m := MatrixAt(pairs, 1.0)
	if m.TP != 1 || m.FP != 1 || m.FN != 1 || m.TN != 1 {
		t.Fatalf("matrix = %+v", m)
	}
	if got := m.Sensitivity(); got != 0.5 {
		t.Errorf("sensitivity = %v, want 0.5", got)
	}
	if got := m.Fallout(); got != 0.5 {
		t.Errorf("fallout = %v, want 0.5", got)
	}
	if got := m.Accuracy(); got != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", got)
	}
	if got := m.MCC(); got != 0 {
		t.Errorf("mcc = %v, want 0", got)
	}
}

func TestAUCOfUnitDiagonal(t *testing.T) {
	points := []ROCPoint{
		{Fallout: 0, Sensitivity: 0},
		{Fallout: 1, Sensitivity: 1},
	}

	if got := AUC(points); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("AUC of the unit diagonal = %v, want 0.5", got)
	}
}

func TestROCPerfectModel(t *testing.T) {
	// Predictions order exactly with productions around the cutoff.
	pairs := []Pair{
		{Prediction: 0.9, Production: 3.0},
		{Prediction: 0.8, Production: 2.5},
		{Prediction: 0.2, Production: 0.5},
		{Prediction: 0.1, Production: 0.2},
	}

	points := ROC(pairs, 1.0)
	auc := AUC(points)
	if math.Abs(auc-1.0) > 1e-12 {
		t.Errorf("AUC of a perfect ranking = %v, want 1.0", auc)
	}

	// Curve starts anchored at the origin and ends at (1,1).
	if points[0].Fallout != 0 || points[0].Sensitivity != 0 {
		t.Errorf("curve not anchored at origin: %+v", points[0])
	}
	last := points[len(points)-1]
	if last.Fallout != 1 || last.Sensitivity != 1 {
		t.Errorf("curve does not end at (1,1): %+v", last)
	}
}

func TestROCLevelsAreDistinctAndDescending(t *testing.T) {
	pairs := []Pair{
		{Prediction: 0.5, Production: 2.0},
		{Prediction: 0.5, Production: 0.1},
		{Prediction: 0.9, Production: 2.0},
	}

	levels := PredictionLevels(pairs)
	if len(levels) != 2 || levels[0] != 0.9 || levels[1] != 0.5 {
		t.Errorf("levels = %v, want [0.9 0.5]", levels)
	}
}

func TestSortPairs(t *testing.T) {
	pairs := []Pair{
		{Prediction: 0.1, Production: 5},
		{Prediction: 0.9, Production: 1},
		{Prediction: 0.9, Production: 4},
	}

	SortPairs(pairs)
	if pairs[0].Production != 4 || pairs[1].Production != 1 || pairs[2].Production != 5 {
		t.Errorf("sorted pairs = %v", pairs)
	}
}

func TestPearson(t *testing.T) {
	c := &Correlator{}
	if got := c.Pearson(); got != 0 {
		t.Errorf("pearson of empty correlator = %v, want 0", got)
	}

	for i := 0; i < 5; i++ {
		c.Add(float64(i), 2*float64(i)+1)
	}
	if got := c.Pearson(); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("pearson of a perfect linear relation = %v, want 1", got)
	}

	// Constant observations have no variance.
	c = &Correlator{}
	c.Add(1, 5)
	c.Add(2, 5)
	if got := c.Pearson(); got != 0 {
		t.Errorf("pearson with zero variance = %v, want 0", got)
	}
}

func TestStrainAggregate(t *testing.T) {
	agg := NewStrainAggregate()
	for _, v := range []float64{1, 2, 3} {
		agg.Push(v)
	}

	if got := agg.Mean(); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("mean = %v, want 2", got)
	}
	if agg.Min != 1 || agg.Max != 3 {
		t.Errorf("min/max = %v/%v", agg.Min, agg.Max)
	}
}
