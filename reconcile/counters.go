package reconcile

import "log"

// Counters tallies every disposition a production-table row or reconciled
// sample can reach. Nothing is discarded without incrementing one of these,
// so the final summary accounts for every input row.
type Counters struct {
	MissingNumeric    int // rows lacking a numeric production or density
	UnparseableStrain int // rows whose strain label the codec rejected
	Filtered          int // rows dropped by a time/iptg/fixed option filter
	ExcludedByRun     int // rows dropped by the explicit run inclusion list
	Good              int // samples that passed every check
	Suspect           int // samples flagged as questionable or marked suspect on input
	FailedAlert       int // samples whose replicate spread exceeded the alert range
	ZeroFixes         int // zero production values dropped among good samples
}

// LogSummary writes the per-counter accounting to the process log.
func (c Counters) LogSummary() {
	log.Printf("rows discarded for missing numeric fields: %d", c.MissingNumeric)
	log.Printf("rows discarded for unparseable strain labels: %d", c.UnparseableStrain)
	log.Printf("rows dropped by option filters: %d", c.Filtered)
	log.Printf("rows excluded by the run inclusion list: %d", c.ExcludedByRun)
	log.Printf("good samples: %d", c.Good)
	log.Printf("suspect samples: %d", c.Suspect)
	log.Printf("samples failing the alert check: %d", c.FailedAlert)
	log.Printf("bad zero production values dropped: %d", c.ZeroFixes)
}
