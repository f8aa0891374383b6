package reconcile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRunControl(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "runs.tsv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadRunControl(t *testing.T) {
	path := writeRunControl(t, "run\tpattern\tprediction_file\n"+
		"pilot\t^plate[12]:\t\n"+
		"scaleup\t^plate[34]:\tpreds_scaleup.tsv\n")

	runs, err := LoadRunControl(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(runs) != 2 {
		t.Fatalf("loaded %d runs, want 2", len(runs))
	}
	if runs[0].Name != "pilot" || runs[0].Index != 0 {
		t.Errorf("first run = %q index %d", runs[0].Name, runs[0].Index)
	}
	if runs[1].PredictionFile != "preds_scaleup.tsv" {
		t.Errorf("second run prediction file = %q", runs[1].PredictionFile)
	}

	if got := MatchRun(runs, "plate3:B7"); got == nil || got.Name != "scaleup" {
		t.Errorf("plate3:B7 attributed to %v, want scaleup", got)
	}
	if got := MatchRun(runs, "plate9:A1"); got != nil {
		t.Errorf("plate9:A1 attributed to %q, want no run", got.Name)
	}
}

func TestLoadRunControlRejectsBadPattern(t *testing.T) {
	path := writeRunControl(t, "run\tpattern\tprediction_file\n"+
		"broken\t^plate[:\t\n")

	if _, err := LoadRunControl(path); err == nil {
		t.Fatal("a run-control row with an invalid regexp should fail eagerly")
	}
}

func TestMatchRunPrefersEarlierRun(t *testing.T) {
	path := writeRunControl(t, "run\tpattern\tprediction_file\n"+
		"early\t^plate1:\t\n"+
		"late\t^plate\t\n")

	// Both patterns match plate1 origins; the earlier row must win.
	runs, err := LoadRunControl(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := MatchRun(runs, "plate1:A1"); got.Name != "early" {
		t.Errorf("plate1:A1 attributed to %q, want early", got.Name)
	}
}
