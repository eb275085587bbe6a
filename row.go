package swiftcsv

import (
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Row is a read-only, zero-copy view over one record's fields inside a
// RowArena. Rows remain valid for as long as their arena is reachable, even
// after the Reader that produced them has moved on to a later arena.
type Row struct {
	arena       *RowArena
	fieldsStart int
	fieldCount  int
	columns     *ColumnIndex
	diagnostics []Diagnostic
}

// Len returns the number of fields in the row.
func (r *Row) Len() int { return r.fieldCount }

// Get returns the field at position i, or ErrIndexOutOfRange.
func (r *Row) Get(i int) (Field, error) {
	if i < 0 || i >= r.fieldCount {
		return Field{}, ErrIndexOutOfRange
	}
	return Field{arena: r.arena, index: r.fieldsStart + i}, nil
}

// GetByName resolves name against the row's ColumnIndex, or ErrUnknownColumn
// when no index is attached or the name is absent.
func (r *Row) GetByName(name string) (Field, error) {
	pos, ok := r.columns.Lookup(name)
	if !ok {
		return Field{}, ErrUnknownColumn
	}
	return r.Get(pos)
}

// ForEach visits fields from first to last, stopping early if fn returns false.
func (r *Row) ForEach(fn func(i int, f Field) bool) {
	for i := 0; i < r.fieldCount; i++ {
		f, _ := r.Get(i)
		if !fn(i, f) {
			return
		}
	}
}

// ForEachReverse visits fields from last to first, stopping early if fn returns false.
func (r *Row) ForEachReverse(fn func(i int, f Field) bool) {
	for i := r.fieldCount - 1; i >= 0; i-- {
		f, _ := r.Get(i)
		if !fn(i, f) {
			return
		}
	}
}

// Columns returns the ColumnIndex attached to this row, or nil if none was built.
func (r *Row) Columns() *ColumnIndex { return r.columns }

// Diagnostics returns the anomalies recorded while this specific row was parsed.
func (r *Row) Diagnostics() []Diagnostic { return r.diagnostics }

// ToStrings materializes every field of the row as a plain string slice.
func (r *Row) ToStrings() []string {
	out := make([]string, r.fieldCount)
	for i := 0; i < r.fieldCount; i++ {
		f, _ := r.Get(i)
		out[i] = f.AsString()
	}
	return out
}

// ToJSON encodes the row as a JSON object keyed by column name. When subset
// is non-empty only those columns are included; otherwise every column in
// the attached ColumnIndex is used. With no ColumnIndex at all it falls back
// to ToJSONArray.
func (r *Row) ToJSON(subset ...string) ([]byte, error) {
	names := subset
	if len(names) == 0 {
		if r.columns == nil {
			return r.ToJSONArray()
		}
		names = r.columns.Names()
	}
	obj := make(map[string]string, len(names))
	for _, name := range names {
		f, err := r.GetByName(name)
		if err != nil {
			continue
		}
		obj[name] = f.AsString()
	}
	return gojson.Marshal(obj)
}

// ToJSONArray encodes the row as a plain JSON array of field strings,
// independent of any column index.
func (r *Row) ToJSONArray() ([]byte, error) {
	return gojson.Marshal(r.ToStrings())
}

// Field is a lightweight, copyable handle to one raw field inside a RowArena.
type Field struct {
	arena *RowArena
	index int
}

// RawView returns the field's already-unescaped bytes (the reader collapses
// doubled quotes as it parses, so there is nothing left to unescape here).
// The returned slice must not be retained past the arena's lifetime and must
// not be mutated.
func (f Field) RawView() []byte {
	rf := f.arena.fields[f.index]
	if rf.HasDoubleQuote {
		return []byte(f.arena.materialize(f.index))
	}
	return f.arena.fieldBytes(f.index)
}

// AsString returns the field as a string. Fields with HasDoubleQuote set are
// cached in the arena on first access; other fields are converted on every
// call.
func (f Field) AsString() string {
	rf := f.arena.fields[f.index]
	if rf.HasDoubleQuote {
		return f.arena.materialize(f.index)
	}
	return string(f.arena.fieldBytes(f.index))
}

// Classify runs the scalar type inference against the field's raw bytes
// using the default decimal separator set.
func (f Field) Classify() (DataType, float64) {
	return Classify(f.RawView(), nil)
}

// AsInt returns the field's integer value, failing with ErrTypeCoercionFailed
// unless the field classifies as one of TypeInt8..TypeInt64.
func (f Field) AsInt() (int64, error) {
	t, _ := f.Classify()
	if !t.IsNumeric() || t == TypeDouble {
		return 0, ErrTypeCoercionFailed
	}
	n, err := strconv.ParseInt(strings.Trim(f.AsString(), " "), 10, 64)
	if err != nil {
		return 0, ErrTypeCoercionFailed
	}
	return n, nil
}

// AsDouble returns the field's numeric value as a float64, failing with
// ErrTypeCoercionFailed unless the field classifies as numeric.
func (f Field) AsDouble() (float64, error) {
	t, v := f.Classify()
	if !t.IsNumeric() {
		return 0, ErrTypeCoercionFailed
	}
	return v, nil
}

// AsBool parses common boolean spellings case-insensitively: true/false,
// t/f, 1/0, yes/no. Anything else fails with ErrTypeCoercionFailed.
func (f Field) AsBool() (bool, error) {
	s := strings.ToLower(strings.TrimSpace(f.AsString()))
	switch s {
	case "true", "t", "1", "yes":
		return true, nil
	case "false", "f", "0", "no":
		return false, nil
	}
	return false, ErrTypeCoercionFailed
}

// NumericEquals reports whether the field's classified numeric value is
// within 0.000001 of v. Non-numeric fields always compare unequal.
func (f Field) NumericEquals(v float64) bool {
	t, val := f.Classify()
	if !t.IsNumeric() {
		return false
	}
	diff := val - v
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.000001
}

// FormatFloat is a small helper for callers that want the canonical string
// form of a classified double without re-parsing the field.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
