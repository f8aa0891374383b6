package runstats

import (
	"math"

	"github.com/carbocation/runningvariance"
	"gonum.org/v1/gonum/stat"
)

// Correlator collects (prediction, observation) pairs for the Pearson
// summary. Only samples whose earliest observing run is the run under
// evaluation belong here: a sample the model was already trained against
// would flatter the reported correlation.
type Correlator struct {
	predicted []float64
	observed  []float64
}

// Add records one first-run sample.
func (c *Correlator) Add(predicted, observed float64) {
	c.predicted = append(c.predicted, predicted)
	c.observed = append(c.observed, observed)
}

// N is the number of collected pairs.
func (c *Correlator) N() int {
	return len(c.predicted)
}

// Pearson is the sample correlation of the collected pairs, 0 when fewer
// than two pairs exist or either side has no variance.
func (c *Correlator) Pearson() float64 {
	if len(c.predicted) < 2 {
		return 0
	}

	r := stat.Correlation(c.predicted, c.observed, nil)
	if math.IsNaN(r) {
		return 0
	}

	return r
}

// StrainAggregate tracks a running mean and spread of observed production for
// one strain within a run.
type StrainAggregate struct {
	runningvariance.RunningStat

	Min float64
	Max float64
}

// NewStrainAggregate returns an empty aggregate.
func NewStrainAggregate() *StrainAggregate {
	return &StrainAggregate{
		RunningStat: *runningvariance.NewRunningStat(),
		Min:         math.MaxFloat64,
		Max:         -math.MaxFloat64,
	}
}

// Push adds one observed production value.
func (s *StrainAggregate) Push(x float64) {
	s.RunningStat.Push(x)
	if x < s.Min {
		s.Min = x
	}
	if x > s.Max {
		s.Max = x
	}
}
