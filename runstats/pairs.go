// Package runstats builds the prediction-vs-observation statistics reported
// for each experimental run: confusion matrices at configurable cutoffs, the
// derived classification ratios, ROC curves with trapezoidal AUC, Pearson
// correlation, and per-strain running aggregates.
package runstats

import "sort"

// Pair is one (model prediction, observed production) tuple.
type Pair struct {
	Prediction float64
	Production float64
}

// SortPairs orders pairs by prediction descending, tie-broken by production
// descending, preserving insertion order for full ties. This is the order ROC
// acceptance levels are taken in.
func SortPairs(pairs []Pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Prediction != pairs[j].Prediction {
			return pairs[i].Prediction > pairs[j].Prediction
		}

		return pairs[i].Production > pairs[j].Production
	})
}

// PredictionLevels returns the distinct prediction values in descending
// order.
func PredictionLevels(pairs []Pair) []float64 {
	seen := make(map[float64]struct{}, len(pairs))
	levels := make([]float64, 0, len(pairs))
	for _, p := range pairs {
		if _, ok := seen[p.Prediction]; ok {
			continue
		}
		seen[p.Prediction] = struct{}{}
		levels = append(levels, p.Prediction)
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(levels)))

	return levels
}
