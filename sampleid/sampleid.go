// Package sampleid implements the underscore-delimited sample identifier
// encoding used across all of the strain-engineering tables. Every observed
// condition combination (strain x induction x time x medium) is keyed by one
// of these identifiers, so the encoding must round-trip exactly against
// previously stored tables.
package sampleid

import (
	"fmt"
	"strconv"
	"strings"
)

// The encoding has ten fixed fields joined by underscores, plus an optional
// eleventh replicate suffix:
//
//	host_plasmid_promoter_asd_cost_insertions_deletions_iptg_time_medium[_rep]
//
// The time field substitutes 'p' for the decimal point so that the identifier
// stays filesystem- and column-name-safe, e.g. 4.5 hours encodes as "4p5".
const (
	fieldHost = iota
	fieldPlasmid
	fieldPromoter
	fieldAsd
	fieldCost
	fieldInsertions
	fieldDeletions
	fieldIPTG
	fieldTime
	fieldMedium
	fieldRep

	// MinFields is the count of mandatory underscore-separated fields.
	MinFields = 10
	// NumFields includes the optional replicate suffix.
	NumFields = 11
)

const (
	// NoGenes is the placeholder for an empty insertion or deletion set.
	NoGenes = "none"
	// IPTGPresent and IPTGAbsent are the two legal induction-flag tokens.
	IPTGPresent = "iptg"
	IPTGAbsent  = "noiptg"

	timePointChar = "p"
	deletionMark  = "d"
)

// FieldNames lists the structured fields in encoding order. The choices file
// written during reconciliation has exactly one line per entry here.
var FieldNames = []string{
	"host", "plasmid", "promoter", "asd", "cost",
	"insertions", "deletions", "iptg", "time", "medium", "rep",
}

// FormatError reports an identifier string that does not follow the encoding.
type FormatError struct {
	Raw    string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed sample id %q: %s", e.Raw, e.Reason)
}

// SampleId is an immutable value representing one experimental condition
// combination. Construct with Parse or Translate; the zero value is not a
// valid identifier.
type SampleId struct {
	Host       string
	Plasmid    string
	Promoter   string
	Asd        string
	Cost       string
	Insertions string
	Deletions  string
	IPTG       string
	Time       string
	Medium     string
	Rep        string

	timePoint float64
}

// Parse decodes an underscore-delimited identifier. Fewer than MinFields
// fields, or a non-numeric time field, yield a *FormatError.
func Parse(raw string) (SampleId, error) {
	fields := strings.Split(raw, "_")
	if len(fields) < MinFields {
		return SampleId{}, &FormatError{Raw: raw, Reason: fmt.Sprintf("expected at least %d fields, found %d", MinFields, len(fields))}
	}
	if len(fields) > NumFields {
		return SampleId{}, &FormatError{Raw: raw, Reason: fmt.Sprintf("expected at most %d fields, found %d", NumFields, len(fields))}
	}

	tp, err := decodeTime(fields[fieldTime])
	if err != nil {
		return SampleId{}, &FormatError{Raw: raw, Reason: fmt.Sprintf("bad time field %q", fields[fieldTime])}
	}

	id := SampleId{
		Host:       fields[fieldHost],
		Plasmid:    fields[fieldPlasmid],
		Promoter:   fields[fieldPromoter],
		Asd:        fields[fieldAsd],
		Cost:       fields[fieldCost],
		Insertions: fields[fieldInsertions],
		Deletions:  fields[fieldDeletions],
		IPTG:       fields[fieldIPTG],
		Time:       fields[fieldTime],
		Medium:     fields[fieldMedium],
		timePoint:  tp,
	}
	if len(fields) == NumFields {
		id.Rep = fields[fieldRep]
	}

	return id, nil
}

// New assembles an identifier from decoded parts, encoding the time point.
func New(host, plasmid, promoter, asd, cost, insertions, deletions string, iptg bool, timePoint float64, medium string) SampleId {
	flag := IPTGAbsent
	if iptg {
		flag = IPTGPresent
	}

	return SampleId{
		Host:       host,
		Plasmid:    plasmid,
		Promoter:   promoter,
		Asd:        asd,
		Cost:       cost,
		Insertions: insertions,
		Deletions:  deletions,
		IPTG:       flag,
		Time:       EncodeTime(timePoint),
		Medium:     medium,
		timePoint:  timePoint,
	}
}

// String re-encodes the identifier. For any id produced by Parse,
// Parse(id.String()) returns an equal value.
func (s SampleId) String() string {
	fields := s.fields()
	if s.Rep == "" {
		fields = fields[:MinFields]
	}

	return strings.Join(fields, "_")
}

func (s SampleId) fields() []string {
	return []string{
		s.Host, s.Plasmid, s.Promoter, s.Asd, s.Cost,
		s.Insertions, s.Deletions, s.IPTG, s.Time, s.Medium, s.Rep,
	}
}

// Fields returns the structured field values in encoding order, including the
// (possibly empty) replicate. The slice is a copy.
func (s SampleId) Fields() []string {
	return s.fields()
}

// TimePoint is the decoded time field, in hours.
func (s SampleId) TimePoint() float64 {
	return s.timePoint
}

// IsIPTG reports whether the inducer was present.
func (s SampleId) IsIPTG() bool {
	return s.IPTG == IPTGPresent
}

// IsConstructed reports whether the sample carries at least one engineered
// insertion or deletion relative to the base host.
func (s SampleId) IsConstructed() bool {
	return s.Insertions != NoGenes || s.Deletions != NoGenes
}

// InsertionGenes decodes the comma-joined insertion set. Empty for NoGenes.
func (s SampleId) InsertionGenes() []string {
	if s.Insertions == NoGenes || s.Insertions == "" {
		return nil
	}

	return strings.Split(s.Insertions, ",")
}

// DeletionGenes decodes the comma-joined deletion set, stripping the per-gene
// deletion mark. Empty for NoGenes.
func (s SampleId) DeletionGenes() []string {
	if s.Deletions == NoGenes || s.Deletions == "" {
		return nil
	}

	parts := strings.Split(s.Deletions, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimPrefix(p, deletionMark))
	}

	return out
}

// Compare orders identifiers field by field in encoding order. Every field
// compares lexically except time, which compares numerically; the replicate
// compares last with absence treated as the empty string. The result is a
// strict total order consistent with equality.
func Compare(a, b SampleId) int {
	af, bf := a.fields(), b.fields()
	for i := range af {
		if i == fieldTime {
			if a.timePoint < b.timePoint {
				return -1
			}
			if a.timePoint > b.timePoint {
				return 1
			}
			// Numerically equal times in distinct encodings, such as
			// "24" and "24p0", still compare lexically so that only
			// identical identifiers compare equal.
			if c := strings.Compare(af[i], bf[i]); c != 0 {
				return c
			}
			continue
		}
		if c := strings.Compare(af[i], bf[i]); c != 0 {
			return c
		}
	}

	return 0
}

// Less reports whether a sorts before b under Compare.
func Less(a, b SampleId) bool {
	return Compare(a, b) < 0
}

// Strain is a sample identity with the time point and induction flag
// projected away. Two samples of the same strain are repeated observations of
// one engineered organism under possibly different induction and timing.
type Strain struct {
	Host       string
	Plasmid    string
	Promoter   string
	Asd        string
	Cost       string
	Insertions string
	Deletions  string
	Medium     string
	Rep        string
}

// Strain projects away the time point and induction flag.
func (s SampleId) Strain() Strain {
	return Strain{
		Host:       s.Host,
		Plasmid:    s.Plasmid,
		Promoter:   s.Promoter,
		Asd:        s.Asd,
		Cost:       s.Cost,
		Insertions: s.Insertions,
		Deletions:  s.Deletions,
		Medium:     s.Medium,
		Rep:        s.Rep,
	}
}

// SameStrain reports whether a and b differ at most in time point and
// induction flag.
func SameStrain(a, b SampleId) bool {
	return a.Strain() == b.Strain()
}

// EncodeTime renders a time point in hours with the decimal point replaced by
// the placeholder letter and no trailing ".0".
func EncodeTime(t float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(t, 'f', -1, 64), ".", timePointChar)
}

func decodeTime(enc string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(enc, timePointChar, "."), 64)
}
