package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/strainkit/thrdata"
	"github.com/strainkit/thrdata/growth"
	"github.com/strainkit/thrdata/reconcile"
)

func runThrFix(args []string) error {
	var (
		input       string
		runControl  string
		output      string
		choicesPath string
		includeRuns string
		opts        reconcile.Options
	)

	fs := flag.NewFlagSet("thrfix", flag.ExitOnError)
	fs.StringVar(&input, "input", "", "Raw production table (tab-delimited, gzip accepted).")
	fs.StringVar(&runControl, "runs", "", "Run-control file mapping plate/well patterns to runs.")
	fs.StringVar(&output, "out", "", "Output path for the reconciled table. Defaults to stdout.")
	fs.StringVar(&choicesPath, "choices", "", "Optional output path for the per-field choices file.")
	fs.Float64Var(&opts.AlertRange, "alert", 1.0, "Maximum tolerated spread among a sample's production replicates.")
	fs.Float64Var(&opts.TriggerThreshold, "trigger", 5.0, "Margin by which a strain's best sample may exceed its runner-up.")
	fs.StringVar(&opts.MeanStrategy, "mean", "mean", "Replicate reducer: one of "+growth.StrategyNames()+".")
	fs.StringVar(&includeRuns, "include", "", "Comma-separated run names to restrict processing to.")
	fs.Float64Var(&opts.TimePoint, "time", -1, "Keep only this time point, in hours. Negative means no filter.")
	fs.BoolVar(&opts.IPTGOnly, "iptg-only", false, "Keep only induced samples.")
	fs.BoolVar(&opts.NoIPTG, "no-iptg", false, "Keep only uninduced samples.")
	fs.BoolVar(&opts.FixedOnly, "fixed-only", false, "Keep only rows marked as fixed upstream.")
	fs.BoolVar(&opts.SuppressBad, "suppress-bad", false, "Omit questionable samples from the output table.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if input == "" || runControl == "" {
		fs.PrintDefaults()
		return fmt.Errorf("thrfix requires --input and --runs")
	}

	opts.HasTimePoint = opts.TimePoint >= 0
	if includeRuns != "" {
		opts.IncludeRuns = strings.Split(includeRuns, ",")
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	runs, err := reconcile.LoadRunControl(runControl)
	if err != nil {
		return err
	}

	table, err := thrdata.OpenTableFile(input)
	if err != nil {
		return pfx.Err(fmt.Errorf("production table: %v", err))
	}
	log.Printf("read %d rows from %s", len(table.Rows), input)

	proc := reconcile.NewProcessor(&opts, runs)
	if err := proc.Scan(table); err != nil {
		return err
	}
	proc.Finalize()

	out := os.Stdout
	if output != "" {
		out, err = os.Create(thrdata.ExpandHome(output))
		if err != nil {
			return pfx.Err(fmt.Errorf("output table: %v", err))
		}
		defer out.Close()
	}
	if err := proc.WriteTable(out); err != nil {
		return err
	}

	if choicesPath != "" {
		cf, err := os.Create(thrdata.ExpandHome(choicesPath))
		if err != nil {
			return pfx.Err(fmt.Errorf("choices file: %v", err))
		}
		defer cf.Close()

		if err := proc.WriteChoices(cf); err != nil {
			return err
		}
	}

	for _, run := range runs {
		log.Printf("run %s: %d rows attributed", run.Name, run.Size)
	}
	proc.Counters.LogSummary()

	return nil
}
