package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/xuri/excelize/v2"

	"github.com/strainkit/thrdata"
	"github.com/strainkit/thrdata/reconcile"
	"github.com/strainkit/thrdata/runstats"
	"github.com/strainkit/thrdata/sampleid"
)

// writeWorkbook emits the multi-sheet report: a summary sheet with one row
// per scored run, then one sheet per run with its confusion matrices at each
// cutoff, its ROC points, and its per-strain aggregates.
func writeWorkbook(path string, runs []*reconcile.Run, cutoffs []float64, rocCutoff float64) error {
	f := excelize.NewFile()

	summary := "Summary"
	f.SetSheetName(f.GetSheetName(0), summary)

	setRow(f, summary, 1, "run", "scored_pairs", "first_run_pairs", "pearson", "auc")
	for i, run := range runs {
		roc := runstats.ROC(run.Pairs, rocCutoff)
		setRow(f, summary, i+2,
			run.Name,
			len(run.Pairs),
			run.Correlator.N(),
			run.Correlator.Pearson(),
			runstats.AUC(roc),
		)
	}

	used := map[string]bool{strings.ToLower(summary): true}
	for _, run := range runs {
		if err := writeRunSheet(f, sheetName(run.Name, used), run, cutoffs, rocCutoff); err != nil {
			return err
		}
	}

	if err := f.SaveAs(thrdata.ExpandHome(path)); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// sheetName makes a run name safe as a workbook sheet name: the characters
// Excel rejects become underscores, the 31-character limit is enforced, and
// collisions with already-used names (sheet names compare case-insensitively)
// get a numeric suffix.
func sheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if clean == "" {
		clean = "run"
	}
	if len(clean) > 31 {
		clean = clean[:31]
	}

	candidate := clean
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		base := clean
		if len(base)+len(suffix) > 31 {
			base = base[:31-len(suffix)]
		}
		candidate = base + suffix
	}
	used[strings.ToLower(candidate)] = true

	return candidate
}

func writeRunSheet(f *excelize.File, sheet string, run *reconcile.Run, cutoffs []float64, rocCutoff float64) error {
	f.NewSheet(sheet)

	row := 1
	setRow(f, sheet, row, "cutoff", "tp", "fp", "tn", "fn", "sensitivity", "fallout", "accuracy", "precision", "f1", "mcc")
	row++
	for _, cutoff := range cutoffs {
		m := runstats.MatrixAt(run.Pairs, cutoff)
		setRow(f, sheet, row, cutoff, m.TP, m.FP, m.TN, m.FN,
			m.Sensitivity(), m.Fallout(), m.Accuracy(), m.Precision(), m.F1(), m.MCC())
		row++
	}

	row++
	points := runstats.ROC(run.Pairs, rocCutoff)
	setRow(f, sheet, row, "roc_level", "fallout", "sensitivity")
	row++
	for _, p := range points {
		setRow(f, sheet, row, p.Level, p.Fallout, p.Sensitivity)
		row++
	}
	setRow(f, sheet, row, "auc", runstats.AUC(points))
	row += 2

	setRow(f, sheet, row, "strain", "n", "mean_production", "stddev", "min", "max")
	row++
	for _, strain := range sortedStrains(run.Strains) {
		agg := run.Strains[strain]
		setRow(f, sheet, row, strainLabel(strain), int(agg.N),
			agg.Mean(), agg.StandardDeviation(), agg.Min, agg.Max)
		row++
	}

	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		f.SetCellValue(sheet, cell, v)
	}
}

func sortedStrains(m map[sampleid.Strain]*runstats.StrainAggregate) []sampleid.Strain {
	strains := make([]sampleid.Strain, 0, len(m))
	for s := range m {
		strains = append(strains, s)
	}
	sort.Slice(strains, func(i, j int) bool {
		return strainLabel(strains[i]) < strainLabel(strains[j])
	})

	return strains
}

func strainLabel(s sampleid.Strain) string {
	return fmt.Sprintf("%s_%s_%s_%s_%s_%s_%s_%s",
		s.Host, s.Plasmid, s.Promoter, s.Asd, s.Cost, s.Insertions, s.Deletions, s.Medium)
}

// writeROCChart renders one run's ROC curve as a PNG alongside the unit
// diagonal for reference.
func writeROCChart(path string, run *reconcile.Run, rocCutoff float64) error {
	points := runstats.ROC(run.Pairs, rocCutoff)

	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		xs = append(xs, p.Fallout)
		ys = append(ys, p.Sensitivity)
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("%s (AUC %.3f)", run.Name, runstats.AUC(points)),
		XAxis: chart.XAxis{Name: "Fallout"},
		YAxis: chart.YAxis{Name: "Sensitivity"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: run.Name, XValues: xs, YValues: ys},
			chart.ContinuousSeries{
				Name:    "chance",
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style:   chart.Style{StrokeDashArray: []float64{3, 3}},
			},
		},
	}

	out, err := os.Create(thrdata.ExpandHome(path))
	if err != nil {
		return pfx.Err(err)
	}
	defer out.Close()

	if err := graph.Render(chart.PNG, out); err != nil {
		return pfx.Err(err)
	}

	return nil
}
