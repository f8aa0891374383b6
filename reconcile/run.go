// Package reconcile merges redundant observations from multi-run growth
// experiments into one reconciled production table, attributing every row to
// its originating run and flagging samples whose replicates disagree.
package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/strainkit/thrdata"
	"github.com/strainkit/thrdata/runstats"
	"github.com/strainkit/thrdata/sampleid"
)

// RunControlRow is one line of the tab-delimited run-control file. Row order
// in the file defines temporal precedence: a lower row is an earlier run.
type RunControlRow struct {
	Name           string `csv:"run"`
	Pattern        string `csv:"pattern"`
	PredictionFile string `csv:"prediction_file,omitempty"`
}

// Run describes one experimental run: the plate/well naming convention that
// attributes samples to it, the model predictions made before it (if any),
// and the statistics accumulated while scanning the production table.
type Run struct {
	Name           string
	Index          int
	Pattern        *regexp.Regexp
	PredictionFile string

	// Size counts the production-table rows attributed to this run.
	Size int

	// Statistics populated by the bigrun report.
	Pairs      []runstats.Pair
	Correlator runstats.Correlator
	Strains    map[sampleid.Strain]*runstats.StrainAggregate
}

// LoadRunControl reads and validates the run-control file. Bad regular
// expressions are configuration errors and fail eagerly, before any
// production row is scanned.
func LoadRunControl(path string) ([]*Run, error) {
	rc, err := thrdata.OpenTable(path)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("run-control file: %v", err))
	}
	defer rc.Close()

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = '\t'
		r.LazyQuotes = true
		return r
	})

	rows := []*RunControlRow{}
	if err := gocsv.Unmarshal(rc, &rows); err != nil {
		return nil, pfx.Err(fmt.Errorf("run-control file %s: %v", path, err))
	}
	if len(rows) < 1 {
		return nil, pfx.Err(fmt.Errorf("run-control file %s defines no runs", path))
	}

	runs := make([]*Run, 0, len(rows))
	for i, row := range rows {
		re, err := regexp.Compile(row.Pattern)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("run %q: bad plate/well pattern %q: %v", row.Name, row.Pattern, err))
		}

		runs = append(runs, &Run{
			Name:           row.Name,
			Index:          i,
			Pattern:        re,
			PredictionFile: row.PredictionFile,
			Strains:        make(map[sampleid.Strain]*runstats.StrainAggregate),
		})
	}

	return runs, nil
}

// MatchRun returns the earliest run whose pattern matches the origin label,
// or nil when none does. Earliest wins so that re-tested plates stay
// attributed to the run that tested them first.
func MatchRun(runs []*Run, origin string) *Run {
	for _, r := range runs {
		if r.Pattern.MatchString(origin) {
			return r
		}
	}

	return nil
}
