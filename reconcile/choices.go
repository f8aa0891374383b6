package reconcile

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/strainkit/thrdata/sampleid"
)

// Choices tracks the distinct values observed for each structured sample
// field. The downstream model-training builders turn each line of the
// written file into one categorical input column, so the file must have
// exactly one line per field, in field order.
type Choices struct {
	seen []map[string]struct{}
}

// NewChoices returns an empty tracker covering every sample field.
func NewChoices() *Choices {
	c := &Choices{seen: make([]map[string]struct{}, len(sampleid.FieldNames))}
	for i := range c.seen {
		c.seen[i] = make(map[string]struct{})
	}

	return c
}

// Observe records the field values of one identifier.
func (c *Choices) Observe(id sampleid.SampleId) {
	for i, v := range id.Fields() {
		c.seen[i][v] = struct{}{}
	}
}

// Values returns the sorted distinct values for field index i.
func (c *Choices) Values(i int) []string {
	out := make([]string, 0, len(c.seen[i]))
	for v := range c.seen[i] {
		out = append(out, v)
	}
	sort.Strings(out)

	return out
}

// Write emits the choices file: one comma-space-joined line per field.
func (c *Choices) Write(w io.Writer) error {
	for i := range c.seen {
		if _, err := fmt.Fprintln(w, strings.Join(c.Values(i), ", ")); err != nil {
			return err
		}
	}

	return nil
}
