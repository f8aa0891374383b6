// Package growth accumulates repeated raw observations of one sample
// identity and reduces them to robust production and density values, flagging
// samples whose replicates disagree beyond tolerance.
package growth

import (
	"github.com/montanaflynn/stats"
)

// Data is the mutable accumulator for one sample identity. Production and
// density observations are always paired, so the two raw lists stay the same
// length; the origin list records which plate:well each pair came from.
type Data struct {
	RawProductions []float64
	RawDensities   []float64

	Suspicious bool
	FixCount   int

	Prediction    float64
	HasPrediction bool

	mean    MeanStrategy
	origins []string
	seen    map[string]struct{}
}

// New returns an empty accumulator reducing with the given strategy.
func New(mean MeanStrategy) *Data {
	return &Data{
		mean: mean,
		seen: make(map[string]struct{}),
	}
}

// Merge appends one raw observation. Origins are deduplicated but keep first
// insertion order for stable report output.
func (d *Data) Merge(production, density float64, origin string) {
	d.RawProductions = append(d.RawProductions, production)
	d.RawDensities = append(d.RawDensities, density)

	if _, ok := d.seen[origin]; !ok {
		d.seen[origin] = struct{}{}
		d.origins = append(d.origins, origin)
	}
}

// Origins returns the distinct plate:well labels in first-seen order.
func (d *Data) Origins() []string {
	return d.origins
}

// Count is the number of raw observation pairs currently held.
func (d *Data) Count() int {
	return len(d.RawProductions)
}

// Production reduces the raw production values with the configured strategy.
// Recomputed on every call; the lists are small.
func (d *Data) Production() float64 {
	return d.mean.Compute(d.RawProductions)
}

// Density reduces the raw density values with the configured strategy.
func (d *Data) Density() float64 {
	return d.mean.Compute(d.RawDensities)
}

// Spread is max minus min of the raw production values, 0 when empty.
func (d *Data) Spread() float64 {
	if len(d.RawProductions) == 0 {
		return 0
	}

	max := orZero(stats.Max(d.RawProductions))
	min := orZero(stats.Min(d.RawProductions))

	return max - min
}

// RemoveBadZeroes drops zero production values that sit among a majority of
// non-zero values large enough that keeping the zero would trip the alert
// spread. A zero in that position is a reaction that failed to take, not
// biology, and counting it would condemn an otherwise consistent sample. The
// paired density values are dropped with them. Returns the number removed.
func (d *Data) RemoveBadZeroes(alertRange float64) int {
	zeros := 0
	max := 0.0
	for _, v := range d.RawProductions {
		if v == 0 {
			zeros++
		} else if v > max {
			max = v
		}
	}

	// Zeros must be the minority, and the largest non-zero value must sit
	// far enough from zero that keeping the zero would trip the alert.
	if zeros == 0 || zeros*2 >= len(d.RawProductions) || max <= alertRange {
		return 0
	}

	prods := make([]float64, 0, len(d.RawProductions)-zeros)
	dens := make([]float64, 0, len(d.RawDensities)-zeros)
	for i, v := range d.RawProductions {
		if v == 0 {
			continue
		}
		prods = append(prods, v)
		dens = append(dens, d.RawDensities[i])
	}

	d.RawProductions = prods
	d.RawDensities = dens
	d.FixCount += zeros

	return zeros
}

// RemoveOutlier reports whether the sample passes the alert check: false iff
// the spread of raw production values exceeds alertRange. Callers mark
// failing samples suspicious.
func (d *Data) RemoveOutlier(alertRange float64) bool {
	return d.Spread() <= alertRange
}

// SetPrediction attaches an externally supplied model prediction.
func (d *Data) SetPrediction(p float64) {
	d.Prediction = p
	d.HasPrediction = true
}
