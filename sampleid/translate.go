package sampleid

import (
	"regexp"
	"sort"
	"strings"
)

// Legacy tables carry free-text strain labels of the form
//
//	"<host number>[D<deletion block>] [asd<mode>] [p<plasmid>] [+<gene>]...
//
// e.g. "123Dthrmet asdX pTHR3 +geneY". The deletion block after the D marker
// is a run of fixed three-character gene codes with no separators.
var legacyStrainRe = regexp.MustCompile(`^(\d+)(?:D([A-Za-z]*))?((?:\s+\S+)*)\s*$`)

// geneCodeFixes corrects misspelled three-character gene codes that a handful
// of hand-entered legacy tables are known to contain.
var geneCodeFixes = map[string]string{
	"trh": "thr",
	"mte": "met",
	"lsy": "lys",
}

// redundantDeletions are gene codes whose deletion is already expressed by a
// dedicated identifier field (the asd mode and the induction machinery), so
// carrying them in the deletion set would double-count the construct.
var redundantDeletions = map[string]bool{
	"asd": true,
	"lac": true,
}

// Defaults filled in for identifier fields the legacy labels never encode.
const (
	defaultPromoter = "ptrc"
	defaultAsd      = "wt"
	defaultCost     = "std"
	defaultPlasmid  = NoGenes
)

// Translate synthesizes a structured identifier from a legacy free-text
// strain label plus the condition columns that legacy tables keep separately.
// The second return value is false when the label does not follow the legacy
// pattern; callers are expected to log the label once and skip the row.
func Translate(legacy string, timePoint float64, iptg bool, medium string) (SampleId, bool) {
	m := legacyStrainRe.FindStringSubmatch(strings.TrimSpace(legacy))
	if m == nil {
		return SampleId{}, false
	}

	host := m[1]

	deletions, ok := decodeDeletionBlock(m[2])
	if !ok {
		return SampleId{}, false
	}

	plasmid := defaultPlasmid
	asd := defaultAsd
	var insertions []string

	for _, tok := range strings.Fields(m[3]) {
		switch {
		case strings.HasPrefix(tok, "asd"):
			asd = strings.TrimPrefix(tok, "asd")
		case strings.HasPrefix(tok, "+"):
			insertions = append(insertions, strings.TrimPrefix(tok, "+"))
		case strings.HasPrefix(tok, "p"):
			plasmid = tok
		default:
			return SampleId{}, false
		}
	}

	return New(host, plasmid, defaultPromoter, asd, defaultCost,
		encodeGeneSet(insertions, ""), encodeGeneSet(deletions, deletionMark),
		iptg, timePoint, medium), true
}

// decodeDeletionBlock walks the block in three-character chunks, correcting
// known misspellings and dropping codes redundant with other fields. A block
// whose length is not a multiple of three is unparseable.
func decodeDeletionBlock(block string) ([]string, bool) {
	if block == "" {
		return nil, true
	}
	if len(block)%3 != 0 {
		return nil, false
	}

	var genes []string
	for i := 0; i+3 <= len(block); i += 3 {
		code := strings.ToLower(block[i : i+3])
		if fixed, ok := geneCodeFixes[code]; ok {
			code = fixed
		}
		if redundantDeletions[code] {
			continue
		}
		genes = append(genes, code)
	}

	return genes, true
}

// encodeGeneSet renders a gene list as the comma-joined encoded field, sorted
// for a canonical representation, with mark prefixed per gene.
func encodeGeneSet(genes []string, mark string) string {
	if len(genes) == 0 {
		return NoGenes
	}

	sorted := make([]string, len(genes))
	copy(sorted, genes)
	sort.Strings(sorted)

	for i, g := range sorted {
		sorted[i] = mark + g
	}

	return strings.Join(sorted, ",")
}
