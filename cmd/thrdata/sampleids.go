package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/strainkit/thrdata"
	"github.com/strainkit/thrdata/sampleid"
)

// sampleids validates a list of sample identifiers (one per line) and writes
// the valid ones back out in canonical order. Model-training row order is
// defined by this ordering, so a stable sort here keeps training sets
// reproducible across exports.
func runSampleIds(args []string) error {
	var (
		input     string
		checkOnly bool
		unique    bool
		strains   bool
	)

	fs := flag.NewFlagSet("sampleids", flag.ExitOnError)
	fs.StringVar(&input, "input", "", "File of sample identifiers, one per line. Defaults to stdin.")
	fs.BoolVar(&checkOnly, "check", false, "Only validate; write nothing, exit nonzero on any bad identifier.")
	fs.BoolVar(&unique, "unique", false, "Drop duplicate identifiers.")
	fs.BoolVar(&strains, "strains", false, "Report the number of distinct strains.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if input != "" {
		rc, err := thrdata.OpenTable(input)
		if err != nil {
			return pfx.Err(err)
		}
		defer rc.Close()
		r = rc
	}

	ids := make([]sampleid.SampleId, 0)
	seen := make(map[sampleid.SampleId]struct{})
	bad := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		id, err := sampleid.Parse(line)
		if err != nil {
			bad++
			log.Println(err)
			continue
		}

		if unique {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return pfx.Err(err)
	}

	if strains {
		distinct := make(map[sampleid.Strain]struct{})
		for _, id := range ids {
			distinct[id.Strain()] = struct{}{}
		}
		log.Printf("%d identifiers over %d distinct strains", len(ids), len(distinct))
	}

	if bad > 0 {
		if checkOnly {
			return fmt.Errorf("%d invalid identifiers", bad)
		}
		log.Printf("skipped %d invalid identifiers", bad)
	}
	if checkOnly {
		log.Printf("%d identifiers are valid", len(ids))
		return nil
	}

	sort.Slice(ids, func(i, j int) bool { return sampleid.Less(ids[i], ids[j]) })

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, id := range ids {
		fmt.Fprintln(w, id.String())
	}

	return nil
}
