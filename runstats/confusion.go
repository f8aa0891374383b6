package runstats

import "math"

// ConfusionMatrix counts classification outcomes for a set of pairs. A value
// is "positive" when it exceeds its cutoff; predictions and productions are
// thresholded independently.
type ConfusionMatrix struct {
	PredictionCutoff float64
	ProductionCutoff float64

	TP, FP, TN, FN int
}

// MatrixAt builds the single-cutoff matrix used in the per-cutoff report
// sheets: both the prediction and the production are compared to c.
func MatrixAt(pairs []Pair, c float64) ConfusionMatrix {
	return Matrix(pairs, c, c)
}

// Matrix thresholds predictions at predCut and productions at prodCut.
func Matrix(pairs []Pair, predCut, prodCut float64) ConfusionMatrix {
	m := ConfusionMatrix{PredictionCutoff: predCut, ProductionCutoff: prodCut}
	for _, p := range pairs {
		predicted := p.Prediction > predCut
		actual := p.Production > prodCut

		switch {
		case predicted && actual:
			m.TP++
		case predicted && !actual:
			m.FP++
		case !predicted && actual:
			m.FN++
		default:
			m.TN++
		}
	}

	return m
}

// Total is the number of classified pairs.
func (m ConfusionMatrix) Total() int {
	return m.TP + m.FP + m.TN + m.FN
}

// Every ratio below is defined as 0 when its denominator is 0, so reports
// never carry NaN or Inf.

// Sensitivity is TP/(TP+FN), the true positive rate.
func (m ConfusionMatrix) Sensitivity() float64 {
	return ratio(m.TP, m.TP+m.FN)
}

// Fallout is FP/(FP+TN), the false positive rate.
func (m ConfusionMatrix) Fallout() float64 {
	return ratio(m.FP, m.FP+m.TN)
}

// Accuracy is (TP+TN)/total.
func (m ConfusionMatrix) Accuracy() float64 {
	return ratio(m.TP+m.TN, m.Total())
}

// Precision is TP/(TP+FP).
func (m ConfusionMatrix) Precision() float64 {
	return ratio(m.TP, m.TP+m.FP)
}

// F1 is the harmonic mean of precision and sensitivity.
func (m ConfusionMatrix) F1() float64 {
	p, s := m.Precision(), m.Sensitivity()
	if p+s == 0 {
		return 0
	}

	return 2 * p * s / (p + s)
}

// MCC is the Matthews correlation coefficient.
func (m ConfusionMatrix) MCC() float64 {
	num := float64(m.TP*m.TN - m.FP*m.FN)
	den := math.Sqrt(float64(m.TP+m.FP) * float64(m.TP+m.FN) * float64(m.TN+m.FP) * float64(m.TN+m.FN))
	if den == 0 {
		return 0
	}

	return num / den
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}

	return float64(num) / float64(den)
}
