package main

import (
	"flag"
	"io"
	"strings"
	"testing"
)

func TestParseCutoffs(t *testing.T) {
	cutoffs, err := parseCutoffs("1.0, 2.0,4")
	if err != nil {
		t.Fatal(err)
	}
	if len(cutoffs) != 3 || cutoffs[0] != 1 || cutoffs[2] != 4 {
		t.Errorf("cutoffs = %v", cutoffs)
	}

	for _, bad := range []string{"2,1", "1,1", "1,x", ""} {
		if _, err := parseCutoffs(bad); err == nil {
			t.Errorf("parseCutoffs(%q) unexpectedly succeeded", bad)
		}
	}
}

func TestResolveROCCutoff(t *testing.T) {
	cutoffs := []float64{1.0, 2.0, 4.0}

	cases := []struct {
		args []string
		want float64
	}{
		{nil, 1.0},                          // unset: first cutoff
		{[]string{"-roc-cutoff", "0"}, 0.0}, // explicit zero is honored
		{[]string{"-roc-cutoff", "3.5"}, 3.5},
	}
	for _, c := range cases {
		fs := flag.NewFlagSet("bigrun", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		var rocCutoff float64
		fs.Float64Var(&rocCutoff, "roc-cutoff", 0, "")
		if err := fs.Parse(c.args); err != nil {
			t.Fatal(err)
		}

		if got := resolveROCCutoff(fs, rocCutoff, cutoffs); got != c.want {
			t.Errorf("resolveROCCutoff with args %v = %v, want %v", c.args, got, c.want)
		}
	}
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{"summary": true}

	if got := sheetName("runA", used); got != "runA" {
		t.Errorf("plain name = %q, want %q", got, "runA")
	}
	if got := sheetName("runA", used); got != "runA_2" {
		t.Errorf("duplicate name = %q, want %q", got, "runA_2")
	}
	if got := sheetName("Summary", used); got != "Summary_2" {
		t.Errorf("reserved name = %q, want %q", got, "Summary_2")
	}
	if got := sheetName("plate:2024/07?*[]", used); strings.ContainsAny(got, `:\/?*[]`) {
		t.Errorf("sanitized name %q still contains forbidden characters", got)
	}

	long := strings.Repeat("x", 40)
	got := sheetName(long, used)
	if len(got) > 31 {
		t.Errorf("long name truncated to %d characters, want <= 31", len(got))
	}
	again := sheetName(long, used)
	if len(again) > 31 || again == got {
		t.Errorf("second long name = %q, collides with %q or exceeds the limit", again, got)
	}
}

func TestCommandLookup(t *testing.T) {
	for _, name := range []string{"thrfix", "bigrun", "sampleids"} {
		if _, ok := commands[name]; !ok {
			t.Errorf("command %q is not registered", name)
		}
	}

	if _, ok := commands["frobnicate"]; ok {
		t.Error("unknown command token should not resolve")
	}
}
