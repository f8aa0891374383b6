package thrdata

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadTableFindsColumnsByName(t *testing.T) {
	content := "strain\tproduction\tdensity\n123D\t2.5\t1.1\n"

	table, err := ReadTable(strings.NewReader(content), "t.tsv", '\t')
	if err != nil {
		t.Fatal(err)
	}

	col, err := table.FindField("density")
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Field(table.Rows[0], col); got != "1.1" {
		t.Errorf("density = %q, want 1.1", got)
	}

	_, err = table.FindField("absent")
	if err == nil {
		t.Fatal("lookup of a missing column should fail")
	}
	mce, ok := err.(*MissingColumnError)
	if !ok {
		t.Fatalf("error type %T, want *MissingColumnError", err)
	}
	if mce.Column != "absent" || mce.Path != "t.tsv" {
		t.Errorf("error does not name the column and file: %v", mce)
	}
}

func TestReadTableDetectsCommaDelimiter(t *testing.T) {
	content := "strain,production,density\n123D,2.5,1.1\n124D,1.5,0.9\n"

	table, err := ReadTable(strings.NewReader(content), "t.csv", 0)
	if err != nil {
		t.Fatal(err)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(table.Rows))
	}
	col, err := table.FindField("production")
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Field(table.Rows[0], col); got != "2.5" {
		t.Errorf("production = %q, want 2.5", got)
	}
}

func TestReadTableRejectsEmptyInput(t *testing.T) {
	if _, err := ReadTable(strings.NewReader(""), "empty.tsv", '\t'); err == nil {
		t.Fatal("an empty table should be rejected")
	}
}

func TestFieldToleratesRaggedRows(t *testing.T) {
	table, err := ReadTable(strings.NewReader("a\tb\tc\n1\t2\n"), "r.tsv", '\t')
	if err != nil {
		t.Fatal(err)
	}

	col, err := table.FindField("c")
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Field(table.Rows[0], col); got != "" {
		t.Errorf("short row field = %q, want empty", got)
	}
}

func TestOpenTableDecompressesGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.tsv.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte("strain\tproduction\n123D\t2.5\n")); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	table, err := OpenTableFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("parsed %d rows, want 1", len(table.Rows))
	}

	col, err := table.FindField("production")
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Field(table.Rows[0], col); got != "2.5" {
		t.Errorf("production = %q, want 2.5", got)
	}
}

func TestDetectCompression(t *testing.T) {
	gzHeader := []byte{0x1f, 0x8b, 0x08, 0, 0, 0}
	c, err := DetectCompression(strings.NewReader(string(gzHeader)))
	if err != nil {
		t.Fatal(err)
	}
	if c != CompressionGzip {
		t.Errorf("gzip header detected as %v", c)
	}

	c, err = DetectCompression(strings.NewReader("strain\tp"))
	if err != nil {
		t.Fatal(err)
	}
	if c != CompressionNone {
		t.Errorf("plain text detected as %v", c)
	}
}
