package swiftcsv

import (
	"context"
	"errors"
	"io"
	"testing"
)

// FuzzReaderChunkInvariance checks that a Reader produces identical rows (or
// an equivalent error) regardless of whether its ByteSource delivers the
// input as one chunk or split across two chunks at an arbitrary offset.
func FuzzReaderChunkInvariance(f *testing.F) {
	seeds := []string{
		"",
		"a,b,c\n",
		"a,\"b,b\",c\n",
		"a,\"b\nc\",d\n",
		"\"unterminated\n",
		"a\"b,c\n",
		"one\r\ntwo\r\n",
		"trailing,newline\n",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 1<<12 {
			t.Skip()
		}

		whole, errWhole := readRecordsFromSource(NewSliceByteSource([]byte(input)))

		splitAt := len(input) / 2
		if splitAt == 0 {
			splitAt = len(input)
		}
		split, errSplit := readRecordsFromSource(&fixedSplitSource{data: []byte(input), splitAt: splitAt})

		if !sameReaderError(errWhole, errSplit) {
			t.Fatalf("chunking changed the error: whole=%v split=%v input=%q", errWhole, errSplit, truncateForMessage(input))
		}
		if errWhole == nil && !recordsEqual(whole, split) {
			t.Fatalf("chunking changed the rows:\nwhole=%v\nsplit=%v\ninput=%q", whole, split, truncateForMessage(input))
		}
	})
}

func readRecordsFromSource(src ByteSource) ([][]string, error) {
	d := DefaultDialect()
	d.HeaderRow = NoHeader
	r, err := NewReader(src, d)
	if err != nil {
		return nil, err
	}
	var out [][]string
	ctx := context.Background()
	for {
		row, err := r.NextRow(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, row.ToStrings())
	}
}

func sameReaderError(a, b error) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	sigA, lineA, colA := readerErrorSignature(a)
	sigB, lineB, colB := readerErrorSignature(b)
	return sigA == sigB && lineA == lineB && colA == colB
}

func readerErrorSignature(err error) (sig string, line int64, column int) {
	var perr *ParseError
	if errors.As(err, &perr) {
		switch {
		case errors.Is(perr.Err, ErrBareQuote):
			return "bare_quote", perr.Line, perr.Column
		case errors.Is(perr.Err, ErrUnterminatedQuote):
			return "unterminated_quote", perr.Line, perr.Column
		case errors.Is(perr.Err, ErrorFieldCount):
			return "field_count", perr.Line, perr.Column
		default:
			return perr.Err.Error(), perr.Line, perr.Column
		}
	}
	return err.Error(), 0, 0
}

func recordsEqual(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func truncateForMessage(s string) string {
	const max = 256
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
