package reconcile

import (
	"fmt"

	"github.com/strainkit/thrdata/growth"
)

// Options configures one reconciliation pass. Validate before use: all
// configuration errors surface before any row is read.
type Options struct {
	// AlertRange is the maximum tolerated spread (max-min) among a sample's
	// raw production replicates.
	AlertRange float64

	// TriggerThreshold is the margin by which a strain's single best sample
	// may exceed its runner-up before the best sample is presumed to be a
	// single-run artifact.
	TriggerThreshold float64

	// MeanStrategy names the reducer from growth.MeanStrategies.
	MeanStrategy string

	// IncludeRuns restricts processing to the named runs when non-empty.
	IncludeRuns []string

	// TimePoint restricts to one time point when HasTimePoint is set.
	TimePoint    float64
	HasTimePoint bool

	// IPTGOnly and NoIPTG filter on the induction flag. At most one may be
	// set.
	IPTGOnly bool
	NoIPTG   bool

	// FixedOnly keeps only rows marked as having been fixed upstream.
	FixedOnly bool

	// SuppressBad omits questionable rows from the output table.
	SuppressBad bool
}

// Validate reports the first configuration problem, or nil.
func (o *Options) Validate() error {
	if o.AlertRange <= 0 {
		return fmt.Errorf("alert range must be positive, got %v", o.AlertRange)
	}
	if o.TriggerThreshold <= 0 {
		return fmt.Errorf("trigger threshold must be positive, got %v", o.TriggerThreshold)
	}
	if _, ok := growth.MeanStrategies[o.MeanStrategy]; !ok {
		return fmt.Errorf("unknown mean strategy %q (choose from: %s)", o.MeanStrategy, growth.StrategyNames())
	}
	if o.IPTGOnly && o.NoIPTG {
		return fmt.Errorf("cannot filter to both iptg-only and no-iptg")
	}

	return nil
}

// Mean resolves the configured strategy. Call only after Validate.
func (o *Options) Mean() growth.MeanStrategy {
	return growth.MeanStrategies[o.MeanStrategy]
}

func (o *Options) includesRun(name string) bool {
	if len(o.IncludeRuns) == 0 {
		return true
	}
	for _, r := range o.IncludeRuns {
		if r == name {
			return true
		}
	}

	return false
}
