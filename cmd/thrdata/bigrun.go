package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/strainkit/thrdata"
	"github.com/strainkit/thrdata/reconcile"
	"github.com/strainkit/thrdata/runstats"
	"github.com/strainkit/thrdata/sampleid"
)

// observation is the skeleton record built for each reconciled sample during
// the first pass over the production table.
type observation struct {
	Production float64
	FirstRun   string
}

// predictionRow is one line of a per-run prediction file.
type predictionRow struct {
	SampleID   string  `csv:"sample_id"`
	Prediction float64 `csv:"prediction"`
}

func runBigRun(args []string) error {
	var (
		input      string
		runControl string
		cutoffsArg string
		rocCutoff  float64
		xlsxOut    string
		rocPrefix  string
	)

	fs := flag.NewFlagSet("bigrun", flag.ExitOnError)
	fs.StringVar(&input, "input", "", "Reconciled production table (thrfix output).")
	fs.StringVar(&runControl, "runs", "", "Run-control file; runs with a prediction file are scored.")
	fs.StringVar(&cutoffsArg, "cutoffs", "1.0,2.0,4.0", "Comma-separated production cutoffs, strictly increasing.")
	fs.Float64Var(&rocCutoff, "roc-cutoff", 0, "Production cutoff for the ROC curve. Defaults to the first cutoff.")
	fs.StringVar(&xlsxOut, "xlsx", "", "Output spreadsheet workbook path.")
	fs.StringVar(&rocPrefix, "roc-png", "", "Optional path prefix for per-run ROC curve PNGs.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if input == "" || runControl == "" || xlsxOut == "" {
		fs.PrintDefaults()
		return fmt.Errorf("bigrun requires --input, --runs, and --xlsx")
	}

	cutoffs, err := parseCutoffs(cutoffsArg)
	if err != nil {
		return err
	}
	rocCutoff = resolveROCCutoff(fs, rocCutoff, cutoffs)

	runs, err := reconcile.LoadRunControl(runControl)
	if err != nil {
		return err
	}

	// Pass 1: skeleton sample map from the reconciled table.
	observations, err := readObservations(input)
	if err != nil {
		return err
	}
	log.Printf("read %d reconciled samples from %s", len(observations), input)

	// Pass 2: populate predictions run by run.
	scored := make([]*reconcile.Run, 0, len(runs))
	for _, run := range runs {
		if run.PredictionFile == "" {
			continue
		}
		if err := scoreRun(run, observations); err != nil {
			return err
		}
		scored = append(scored, run)

		roc := runstats.ROC(run.Pairs, rocCutoff)
		log.Printf("run %s: %d scored pairs, AUC %.4f, first-run Pearson %.4f (n=%d)",
			run.Name, len(run.Pairs), runstats.AUC(roc), run.Correlator.Pearson(), run.Correlator.N())
	}

	if len(scored) == 0 {
		return fmt.Errorf("no run in %s names a prediction file; nothing to score", runControl)
	}

	if err := writeWorkbook(xlsxOut, scored, cutoffs, rocCutoff); err != nil {
		return err
	}
	log.Printf("wrote %s", xlsxOut)

	if rocPrefix != "" {
		for _, run := range scored {
			path := rocPrefix + run.Name + ".png"
			if err := writeROCChart(path, run, rocCutoff); err != nil {
				return err
			}
			log.Printf("wrote %s", path)
		}
	}

	return nil
}

// resolveROCCutoff falls back to the first production cutoff only when the
// flag was never set, so an explicit --roc-cutoff 0 is honored.
func resolveROCCutoff(fs *flag.FlagSet, rocCutoff float64, cutoffs []float64) float64 {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "roc-cutoff" {
			set = true
		}
	})
	if !set {
		return cutoffs[0]
	}
	return rocCutoff
}

func parseCutoffs(arg string) ([]float64, error) {
	parts := strings.Split(arg, ",")
	cutoffs := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad cutoff %q: %v", p, err)
		}
		cutoffs = append(cutoffs, v)
	}

	if len(cutoffs) == 0 {
		return nil, fmt.Errorf("at least one cutoff is required")
	}
	if !sort.Float64sAreSorted(cutoffs) {
		return nil, fmt.Errorf("cutoffs must be strictly increasing, got %v", cutoffs)
	}
	for i := 1; i < len(cutoffs); i++ {
		if cutoffs[i] == cutoffs[i-1] {
			return nil, fmt.Errorf("duplicate cutoff %v", cutoffs[i])
		}
	}

	return cutoffs, nil
}

func readObservations(path string) (map[sampleid.SampleId]observation, error) {
	table, err := thrdata.OpenTableFile(path)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("reconciled table: %v", err))
	}

	idCol, err := table.FindField("sample_id")
	if err != nil {
		return nil, err
	}
	runCol, err := table.FindField("first_run")
	if err != nil {
		return nil, err
	}
	prodCol, err := table.FindField("production")
	if err != nil {
		return nil, err
	}

	out := make(map[sampleid.SampleId]observation, len(table.Rows))
	badIDs := 0
	for _, row := range table.Rows {
		id, err := sampleid.Parse(table.Field(row, idCol))
		if err != nil {
			badIDs++
			continue
		}
		production, err := strconv.ParseFloat(table.Field(row, prodCol), 64)
		if err != nil {
			badIDs++
			continue
		}

		out[id] = observation{
			Production: production,
			FirstRun:   table.Field(row, runCol),
		}
	}
	if badIDs > 0 {
		log.Printf("skipped %d reconciled rows with malformed identifiers or values", badIDs)
	}

	return out, nil
}

// scoreRun merges one run's prediction file into the observation map,
// building the run's pair list, first-run correlator, and per-strain
// aggregates.
func scoreRun(run *reconcile.Run, observations map[sampleid.SampleId]observation) error {
	rc, err := thrdata.OpenTable(run.PredictionFile)
	if err != nil {
		return pfx.Err(fmt.Errorf("prediction file for run %s: %v", run.Name, err))
	}
	defer rc.Close()

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = '\t'
		r.LazyQuotes = true
		return r
	})

	rows := []*predictionRow{}
	if err := gocsv.Unmarshal(rc, &rows); err != nil {
		return pfx.Err(fmt.Errorf("prediction file %s: %v", run.PredictionFile, err))
	}

	unmatched, malformed := 0, 0
	for _, row := range rows {
		id, err := sampleid.Parse(row.SampleID)
		if err != nil {
			malformed++
			continue
		}

		obs, ok := observations[id]
		if !ok {
			unmatched++
			continue
		}

		run.Pairs = append(run.Pairs, runstats.Pair{
			Prediction: row.Prediction,
			Production: obs.Production,
		})

		// Only samples first observed in this run feed the correlation:
		// repeated samples the model may have been trained against would
		// flatter the reported accuracy.
		if obs.FirstRun == run.Name {
			run.Correlator.Add(row.Prediction, obs.Production)
		}

		strain := id.Strain()
		agg, ok := run.Strains[strain]
		if !ok {
			agg = runstats.NewStrainAggregate()
			run.Strains[strain] = agg
		}
		agg.Push(obs.Production)
	}

	if malformed > 0 || unmatched > 0 {
		log.Printf("run %s: skipped %d malformed and %d unmatched prediction rows",
			run.Name, malformed, unmatched)
	}

	runstats.SortPairs(run.Pairs)

	return nil
}
