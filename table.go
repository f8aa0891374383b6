package thrdata

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/csimplestring/go-csv/detector"
)

// MissingColumnError indicates that a required named column was absent from a
// table's header row. Column reordering is tolerated everywhere in this tool
// suite; renaming is not.
type MissingColumnError struct {
	Column string
	Path   string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s has no column named %q", e.Path, e.Column)
}

// Table is a fully-read delimited table with its header indexed by name.
type Table struct {
	Path   string
	Rows   [][]string
	fields map[string]int
}

// ReadTable consumes r as a delimited table with a header row. If delim is 0,
// the delimiter is guessed from the content (lab exports are inconsistent
// about tabs vs commas). The header row is indexed and excluded from Rows.
func ReadTable(r io.Reader, path string, delim rune) (*Table, error) {
	const peekSize = 32 * 1024
	br := bufio.NewReaderSize(r, peekSize)

	if delim == 0 {
		peek, err := br.Peek(peekSize)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return nil, pfx.Err(err)
		}
		delim = determineDelimiter(bytes.NewReader(peek))
	}

	fileCSV := csv.NewReader(br)
	fileCSV.Comma = delim
	fileCSV.LazyQuotes = true
	fileCSV.FieldsPerRecord = -1

	recs, err := fileCSV.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(recs) < 1 {
		return nil, pfx.Err(fmt.Errorf("table %s is empty (no header row)", path))
	}

	t := &Table{
		Path:   path,
		Rows:   recs[1:],
		fields: make(map[string]int),
	}
	for i, name := range recs[0] {
		if _, seen := t.fields[name]; !seen {
			t.fields[name] = i
		}
	}

	return t, nil
}

// OpenTableFile opens path (decompressing if needed) and reads it as a
// tab-delimited table.
func OpenTableFile(path string) (*Table, error) {
	rc, err := OpenTable(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	return ReadTable(rc, path, '\t')
}

// FindField returns the column index for name, or a MissingColumnError.
func (t *Table) FindField(name string) (int, error) {
	col, ok := t.fields[name]
	if !ok {
		return 0, &MissingColumnError{Column: name, Path: t.Path}
	}

	return col, nil
}

// Field returns row[col] for the named column, or "" when the row is ragged
// and too short to contain it.
func (t *Table) Field(row []string, col int) string {
	if col >= len(row) {
		return ""
	}

	return row[col]
}

// determineDelimiter returns the single most likely delimiter rune for a
// CSV-like stream, defaulting to tab.
func determineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return '\t'
}
