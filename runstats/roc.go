package runstats

// ROCPoint is one acceptance level on the curve, with the classification
// quality of the model when everything predicted at or above that level is
// accepted.
type ROCPoint struct {
	Level       float64
	Fallout     float64
	Sensitivity float64
	Matrix      ConfusionMatrix
}

// ROC walks the distinct prediction levels in descending order and, at each
// level, scores acceptance (prediction >= level) against the FIXED production
// cutoff. This is deliberately not the textbook ROC sweep: the curve shows
// how a fixed model's accept-list quality changes as the acceptance bar is
// lowered, and downstream consumers rely on exactly these values. The curve
// is anchored at (0,0).
func ROC(pairs []Pair, productionCutoff float64) []ROCPoint {
	levels := PredictionLevels(pairs)

	points := make([]ROCPoint, 0, len(levels)+1)
	points = append(points, ROCPoint{Level: 0})

	for _, level := range levels {
		m := ConfusionMatrix{PredictionCutoff: level, ProductionCutoff: productionCutoff}
		for _, p := range pairs {
			predicted := p.Prediction >= level
			actual := p.Production > productionCutoff

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

		points = append(points, ROCPoint{
			Level:       level,
			Fallout:     m.Fallout(),
			Sensitivity: m.Sensitivity(),
			Matrix:      m,
		})
	}

	return points
}

// AUC accumulates trapezoidal area between consecutive points in the order
// given. Points are expected sorted by fallout ascending, which descending
// acceptance levels produce naturally.
func AUC(points []ROCPoint) float64 {
	area := 0.0
	for i := 1; i < len(points); i++ {
		dx := points[i].Fallout - points[i-1].Fallout
		area += dx * (points[i].Sensitivity + points[i-1].Sensitivity) / 2
	}

	return area
}
