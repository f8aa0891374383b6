// thrdata is the dispatch shell for the strain-engineering data utilities:
// reconciling multi-run growth/production tables, formatting them for model
// training, and reporting model-vs-observation statistics per run.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/carbocation/pfx"
)

type command struct {
	help string
	run  func(args []string) error
}

var commands = map[string]command{
	"thrfix": {
		help: "reconcile a raw production table against a run-control file",
		run:  runThrFix,
	},
	"bigrun": {
		help: "score per-run model predictions against reconciled production",
		run:  runBigRun,
	},
	"sampleids": {
		help: "validate and sort a list of sample identifiers",
		run:  runSampleIds,
	},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <command> [flags]\n\ncommands:\n", os.Args[0])

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", name, commands[name].help)
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	token := os.Args[1]
	if token == "help" || token == "-h" || token == "--help" {
		usage()
		return
	}

	cmd, ok := commands[token]
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n\n", os.Args[0], token)
		usage()
		os.Exit(1)
	}

	if err := cmd.run(os.Args[2:]); err != nil {
		log.Fatalln(pfx.Err(err))
	}
}
