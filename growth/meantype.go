package growth

import (
	"math"
	"strings"

	"github.com/montanaflynn/stats"
)

// MeanStrategy is one of the closed set of robust-mean reducers used to
// collapse repeated observations of a sample into a single value.
type MeanStrategy struct {
	Name    string
	Compute func(values []float64) float64
}

// MeanStrategies maps the command-line strategy names to their reducers.
var MeanStrategies = map[string]MeanStrategy{
	"mean": {
		Name:    "mean",
		Compute: func(v []float64) float64 { return orZero(stats.Mean(v)) },
	},
	// middle takes the median, which tolerates one wild replicate without
	// shifting the reported value.
	"middle": {
		Name:    "middle",
		Compute: func(v []float64) float64 { return orZero(stats.Median(v)) },
	},
	// trimmed discards values more than two standard deviations from the
	// plain mean before averaging the rest.
	"trimmed": {
		Name:    "trimmed",
		Compute: sigmaClippedMean,
	},
	"max": {
		Name:    "max",
		Compute: func(v []float64) float64 { return orZero(stats.Max(v)) },
	},
}

// StrategyNames lists the legal strategy names for usage messages.
func StrategyNames() string {
	b := strings.Builder{}
	i := 0
	for m := range MeanStrategies {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(m)
		i++
	}

	return b.String()
}

func sigmaClippedMean(values []float64) float64 {
	if len(values) < 3 {
		return orZero(stats.Mean(values))
	}

	m := orZero(stats.Mean(values))
	sd := orZero(stats.StandardDeviation(values))

	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if math.Abs(v-m) <= 2*sd {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return m
	}

	return orZero(stats.Mean(kept))
}

// orZero collapses the stats package's empty-input errors to 0; callers never
// reduce an empty list in practice, and a 0 is safer in a report than a NaN.
func orZero(v float64, err error) float64 {
	if err != nil || math.IsNaN(v) {
		return 0
	}

	return v
}
