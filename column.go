package swiftcsv

import "fmt"

// ColumnIndex maps header names to field positions. Built once from a header
// row or explicit Dialect.ColumnNames, then shared read-only across every
// Row that follows.
type ColumnIndex struct {
	names []string
	index map[string]int
}

// newColumnIndex builds a ColumnIndex from names, first-occurrence-wins on
// duplicates. Each duplicate produces a Diagnostic instead of silently
// overwriting the earlier position.
func newColumnIndex(names []string) (*ColumnIndex, []Diagnostic) {
	ci := &ColumnIndex{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	var diags []Diagnostic
	for i, name := range names {
		if _, exists := ci.index[name]; exists {
			diags = append(diags, Diagnostic{
				Kind:    DiagnosticDuplicateColumn,
				Message: fmt.Sprintf("duplicate column name %q at position %d ignored, first occurrence wins", name, i),
			})
			continue
		}
		ci.index[name] = i
	}
	return ci, diags
}

// Lookup returns the field position for name, or (0, false) when it is
// absent. A nil receiver reports not found, so callers may call Lookup on a
// Row's possibly-unset column index without a separate nil check.
func (c *ColumnIndex) Lookup(name string) (int, bool) {
	if c == nil {
		return 0, false
	}
	pos, ok := c.index[name]
	return pos, ok
}

// Names returns the column names in header order.
func (c *ColumnIndex) Names() []string {
	if c == nil {
		return nil
	}
	return c.names
}
