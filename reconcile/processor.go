package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/strainkit/thrdata"
	"github.com/strainkit/thrdata/growth"
	"github.com/strainkit/thrdata/sampleid"
)

// Column names expected in the raw production table. Columns are located by
// name, so reordering is tolerated but renaming is not.
const (
	ColStrain     = "strain"
	ColTime       = "time"
	ColIPTG       = "iptg"
	ColMedium     = "medium"
	ColProduction = "production"
	ColDensity    = "density"
	ColOrigin     = "origin"
	ColSuspect    = "suspect"
	ColFixed      = "fixed"
)

// Processor reconciles one raw production table against a run-control file.
// Use Scan, then Finalize, then WriteTable / WriteChoices.
type Processor struct {
	Good     map[sampleid.SampleId]*growth.Data
	Bad      map[sampleid.SampleId]*growth.Data
	FirstRun map[sampleid.SampleId]*Run
	Choices  *Choices
	Counters Counters

	opts *Options
	runs []*Run

	// Distinct bad labels already logged, so a million copies of one broken
	// label don't flood the log.
	loggedBadLabels map[string]struct{}
}

// NewProcessor assumes opts has already passed Validate.
func NewProcessor(opts *Options, runs []*Run) *Processor {
	return &Processor{
		Good:            make(map[sampleid.SampleId]*growth.Data),
		Bad:             make(map[sampleid.SampleId]*growth.Data),
		FirstRun:        make(map[sampleid.SampleId]*Run),
		Choices:         NewChoices(),
		opts:            opts,
		runs:            runs,
		loggedBadLabels: make(map[string]struct{}),
	}
}

// Scan consumes every row of the raw production table, routing each into the
// good or suspect accumulator map. A row whose origin matches no configured
// run is fatal: run-based statistics computed over a partially attributed
// table would be silently wrong.
func (p *Processor) Scan(t *thrdata.Table) error {
	cols := make(map[string]int)
	for _, name := range []string{ColStrain, ColTime, ColIPTG, ColMedium, ColProduction, ColDensity, ColOrigin, ColSuspect} {
		col, err := t.FindField(name)
		if err != nil {
			return err
		}
		cols[name] = col
	}

	fixedCol := -1
	if p.opts.FixedOnly {
		col, err := t.FindField(ColFixed)
		if err != nil {
			return err
		}
		fixedCol = col
	}

	for i, row := range t.Rows {
		production, perr := strconv.ParseFloat(t.Field(row, cols[ColProduction]), 64)
		density, derr := strconv.ParseFloat(t.Field(row, cols[ColDensity]), 64)
		timePoint, terr := strconv.ParseFloat(t.Field(row, cols[ColTime]), 64)
		if perr != nil || derr != nil || terr != nil {
			p.Counters.MissingNumeric++
			continue
		}

		iptg := parseFlag(t.Field(row, cols[ColIPTG]))
		label := t.Field(row, cols[ColStrain])
		id, ok := parseSample(label, timePoint, iptg, t.Field(row, cols[ColMedium]))
		if !ok {
			p.Counters.UnparseableStrain++
			if _, logged := p.loggedBadLabels[label]; !logged {
				p.loggedBadLabels[label] = struct{}{}
				log.Printf("skipping unparseable strain label %q", label)
			}
			continue
		}

		if p.filteredOut(id, row, fixedCol, t) {
			p.Counters.Filtered++
			continue
		}

		origin := t.Field(row, cols[ColOrigin])
		run := MatchRun(p.runs, origin)
		if run == nil {
			return pfx.Err(fmt.Errorf("row %d of %s: origin %q matches no run in the run-control file", i+2, t.Path, origin))
		}
		if !p.opts.includesRun(run.Name) {
			p.Counters.ExcludedByRun++
			continue
		}
		run.Size++

		if prev, seen := p.FirstRun[id]; !seen || run.Index < prev.Index {
			p.FirstRun[id] = run
		}

		p.Choices.Observe(id)

		target := p.Good
		if parseFlag(t.Field(row, cols[ColSuspect])) {
			target = p.Bad
		}

		data, exists := target[id]
		if !exists {
			data = growth.New(p.opts.Mean())
			target[id] = data
		}
		data.Merge(production, density, origin)
	}

	return nil
}

func (p *Processor) filteredOut(id sampleid.SampleId, row []string, fixedCol int, t *thrdata.Table) bool {
	if p.opts.HasTimePoint && id.TimePoint() != p.opts.TimePoint {
		return true
	}
	if p.opts.IPTGOnly && !id.IsIPTG() {
		return true
	}
	if p.opts.NoIPTG && id.IsIPTG() {
		return true
	}
	if p.opts.FixedOnly && !parseFlag(t.Field(row, fixedCol)) {
		return true
	}

	return false
}

// Finalize applies the replicate-spread and cross-sample threshold checks to
// the good map and settles the good/suspect counts. Call once, after Scan.
func (p *Processor) Finalize() {
	for _, data := range p.Good {
		p.Counters.ZeroFixes += data.RemoveBadZeroes(p.opts.AlertRange)
		if !data.RemoveOutlier(p.opts.AlertRange) {
			data.Suspicious = true
			p.Counters.FailedAlert++
		}
	}

	p.checkThresholds()

	for _, data := range p.Good {
		if data.Suspicious {
			p.Counters.Suspect++
		} else {
			p.Counters.Good++
		}
	}
	p.Counters.Suspect += len(p.Bad)
}

// checkThresholds looks across the time replicates of each strain. When one
// sample's production towers over every sibling by more than the trigger
// threshold, that single high reading is more likely a run artifact than a
// real burst of production, so the top sample is flagged.
func (p *Processor) checkThresholds() {
	byStrain := make(map[sampleid.Strain][]sampleid.SampleId)
	for id := range p.Good {
		s := id.Strain()
		byStrain[s] = append(byStrain[s], id)
	}

	for _, ids := range byStrain {
		if len(ids) < 3 {
			continue
		}

		var top sampleid.SampleId
		best, second := -1.0, -1.0
		for _, id := range ids {
			v := p.Good[id].Production()
			if v > best {
				second = best
				best, top = v, id
			} else if v > second {
				second = v
			}
		}

		if best-second > p.opts.TriggerThreshold {
			data := p.Good[top]
			if !data.Suspicious {
				data.Suspicious = true
				p.Counters.FailedAlert++
			}
		}
	}
}

// OutputHeader is the column layout of the reconciled production table.
var OutputHeader = []string{
	"sample_id", "first_run", "production", "density",
	"normalized_production", "production_rate", "origins",
	"raw_productions", "raw_densities", "n_observations", "fix_count", "status",
}

// WriteTable emits the reconciled table: good samples in identifier order,
// then, unless suppressed, suspect samples whose identifier also appears among
// the good ones.
func (p *Processor) WriteTable(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(OutputHeader); err != nil {
		return pfx.Err(err)
	}

	goodIDs := make([]sampleid.SampleId, 0, len(p.Good))
	for id := range p.Good {
		goodIDs = append(goodIDs, id)
	}
	sort.Slice(goodIDs, func(i, j int) bool { return sampleid.Less(goodIDs[i], goodIDs[j]) })

	for _, id := range goodIDs {
		if err := cw.Write(p.outputRow(id, p.Good[id], "")); err != nil {
			return pfx.Err(err)
		}
	}

	if !p.opts.SuppressBad {
		badIDs := make([]sampleid.SampleId, 0, len(p.Bad))
		for id := range p.Bad {
			if _, alsoGood := p.Good[id]; alsoGood {
				badIDs = append(badIDs, id)
			}
		}
		sort.Slice(badIDs, func(i, j int) bool { return sampleid.Less(badIDs[i], badIDs[j]) })

		for _, id := range badIDs {
			if err := cw.Write(p.outputRow(id, p.Bad[id], "bad")); err != nil {
				return pfx.Err(err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

func (p *Processor) outputRow(id sampleid.SampleId, data *growth.Data, status string) []string {
	if status == "" {
		status = "good"
		if data.Suspicious {
			status = "suspicious"
		}
	}

	production := data.Production()
	density := data.Density()

	normalized := 0.0
	if density != 0 {
		normalized = production / density
	}
	rate := 0.0
	if tp := id.TimePoint(); tp != 0 {
		rate = production / tp
	}

	firstRun := ""
	if run, ok := p.FirstRun[id]; ok {
		firstRun = run.Name
	}

	return []string{
		id.String(),
		firstRun,
		formatFloat(production),
		formatFloat(density),
		formatFloat(normalized),
		formatFloat(rate),
		strings.Join(data.Origins(), ","),
		joinFloats(data.RawProductions),
		joinFloats(data.RawDensities),
		strconv.Itoa(data.Count()),
		strconv.Itoa(data.FixCount),
		status,
	}
}

// WriteChoices emits the per-field value enumeration consumed by the
// training-set builders.
func (p *Processor) WriteChoices(w io.Writer) error {
	return p.Choices.Write(w)
}

// parseSample accepts either an already-structured identifier or a legacy
// free-text strain label.
func parseSample(label string, timePoint float64, iptg bool, medium string) (sampleid.SampleId, bool) {
	if strings.Count(label, "_") >= sampleid.MinFields-1 {
		id, err := sampleid.Parse(label)
		if err != nil {
			return sampleid.SampleId{}, false
		}
		return id, true
	}

	return sampleid.Translate(label, timePoint, iptg, medium)
}

// parseFlag decodes the loose boolean encodings that appear in lab exports.
func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "iptg":
		return true
	}

	return false
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func joinFloats(vs []float64) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, formatFloat(v))
	}

	return strings.Join(parts, ",")
}
