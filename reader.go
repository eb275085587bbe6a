package swiftcsv

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

type parserState int

const (
	stateFieldStart parserState = iota
	stateInUnquoted
	stateInQuoted
	stateQuoteInQuoted
)

// Reader pulls rows from a ByteSource one at a time, appending field bytes
// into a RowArena as it goes. It is a single-threaded, pull-based coroutine:
// NextRow only ever suspends at chunk boundaries, and every row it returns
// is strictly ordered with respect to the input.
type Reader struct {
	// Logger receives non-hot-path diagnostic events. Defaults to a no-op
	// logger; safe to leave nil, in which case logging is skipped entirely.
	Logger *zap.Logger

	src     ByteSource
	dialect Dialect
	flags   parseFlagTable

	arena       *RowArena
	columns     *ColumnIndex
	diagnostics *diagnosticRing

	chunk    []byte
	chunkPos int
	chunkErr error

	line          int64
	offset        int64
	rowIndex      int64
	expectedWidth int

	bomChecked bool
	finished   bool
}

// NewReader constructs a Reader over src using the given Dialect. Returns a
// *DialectError if the dialect's delimiter, quote, and trim bytes conflict.
func NewReader(src ByteSource, dialect Dialect) (*Reader, error) {
	if src == nil {
		panic("swiftcsv: byte source cannot be nil")
	}
	flags, err := newParseFlagTable(dialect.comma(), dialect.quote(), dialect.Trim)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		Logger:        zap.NewNop(),
		src:           src,
		dialect:       dialect,
		flags:         flags,
		arena:         newRowArena(0, 0),
		diagnostics:   newDiagnosticRing(dialect.diagnosticCap()),
		line:          1,
		expectedWidth: -1,
	}

	if len(dialect.ColumnNames) > 0 {
		ci, diags := newColumnIndex(dialect.ColumnNames)
		r.columns = ci
		for _, d := range diags {
			r.diagnose(d)
		}
	}

	return r, nil
}

// Diagnostics returns every retained anomaly observed so far, oldest first.
func (r *Reader) Diagnostics() []Diagnostic { return r.diagnostics.items() }

// Seal detaches the current RowArena from the Reader and starts a fresh one.
// Rows already handed to the caller keep the detached arena alive; useful
// for callers that want to release memory for rows they no longer need
// without waiting for the automatic threshold-based rotation.
func (r *Reader) Seal() *RowArena {
	old := r.arena
	r.arena = newRowArena(0, 0)
	return old
}

func (r *Reader) sealIfNeeded() {
	if len(r.arena.fields) > 0 && r.arena.size() >= r.dialect.arenaThreshold() {
		if r.Logger != nil {
			r.Logger.Debug("rotating row arena", zap.Int("bytes", r.arena.size()), zap.Int("fields", len(r.arena.fields)))
		}
		r.arena = newRowArena(0, 0)
	}
}

// ReadAll drains every remaining row from the Reader.
func (r *Reader) ReadAll(ctx context.Context) ([]*Row, error) {
	var rows []*Row
	for {
		row, err := r.NextRow(ctx)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}

// NextRow parses and returns the next row, or io.EOF once the byte source is
// exhausted. A trailing terminator with nothing following it produces no
// final empty row. ctx is checked for cancellation at the start of the call
// and again before each chunk pull of the parse loop; the byte order mark
// check and the one-byte lookahead after '\r' pull chunks without a check.
// A nil ctx behaves like context.Background.
func (r *Reader) NextRow(ctx context.Context) (*Row, error) {
	if r.finished {
		return nil, io.EOF
	}
	if ctx != nil {
		select {
		case <-ctx.Done():
			r.finished = true
			return nil, ctx.Err()
		default:
		}
	}

	if !r.bomChecked {
		r.consumeBOM()
		r.bomChecked = true
	}

	r.sealIfNeeded()

	fieldsStart := len(r.arena.fields)
	fieldStart := len(r.arena.bytes)
	hasQuote := false
	trailingWS := 0
	fieldCount := 0
	state := stateFieldStart
	column := 1
	var rowDiags []Diagnostic

	emitField := func() {
		length := len(r.arena.bytes) - fieldStart - trailingWS
		if trailingWS > 0 {
			r.arena.bytes = r.arena.bytes[:len(r.arena.bytes)-trailingWS]
		}
		r.arena.appendField(RawField{Start: fieldStart, Length: length, HasDoubleQuote: hasQuote})
		fieldCount++
		fieldStart = len(r.arena.bytes)
		hasQuote = false
		trailingWS = 0
	}

	finalizeRow := func() (*Row, error) {
		if r.expectedWidth < 0 {
			r.expectedWidth = fieldCount
		} else if fieldCount != r.expectedWidth {
			msg := fmt.Sprintf("row has %d fields, expected %d", fieldCount, r.expectedWidth)
			if r.dialect.Strict {
				r.finished = true
				return nil, &ParseError{Offset: r.offset, Line: r.line, Column: column, Reason: msg, Err: ErrorFieldCount}
			}
			d := Diagnostic{Kind: DiagnosticUnequalRowLength, Message: msg}
			r.diagnose(d)
			rowDiags = append(rowDiags, d)
		}

		row := &Row{
			arena:       r.arena,
			fieldsStart: fieldsStart,
			fieldCount:  fieldCount,
			columns:     r.columns,
			diagnostics: rowDiags,
		}

		isHeaderRow := r.dialect.HeaderRow != NoHeader &&
			r.rowIndex == int64(r.dialect.HeaderRow) &&
			len(r.dialect.ColumnNames) == 0
		r.rowIndex++

		if isHeaderRow {
			ci, diags := newColumnIndex(row.ToStrings())
			r.columns = ci
			row.columns = ci
			for _, d := range diags {
				r.diagnose(d)
				row.diagnostics = append(row.diagnostics, d)
			}
		}

		return row, nil
	}

	for {
		if r.chunkPos >= len(r.chunk) {
			if r.chunkErr != nil {
				err := r.chunkErr
				r.chunkErr = nil
				if err != io.EOF {
					r.finished = true
					return nil, fmt.Errorf("swiftcsv: read: %w", err)
				}
				return r.handleEOF(state, fieldCount, fieldStart, column, emitField, finalizeRow, &rowDiags)
			}

			if ctx != nil {
				select {
				case <-ctx.Done():
					r.finished = true
					return nil, ctx.Err()
				default:
				}
			}

			chunk, cerr := r.src.NextChunk()
			if len(chunk) == 0 {
				if cerr != nil {
					r.chunkErr = cerr
					continue
				}
				continue
			}
			r.chunk = chunk
			r.chunkPos = 0
			r.chunkErr = cerr
			continue
		}

		b := r.chunk[r.chunkPos]
		c := r.flags[b]

		switch state {
		case stateFieldStart:
			switch c {
			case flagDelimiter:
				r.chunkPos++
				r.offset++
				emitField()
				column++
			case flagQuote:
				r.chunkPos++
				r.offset++
				state = stateInQuoted
				column++
			case flagNewline:
				r.chunkPos++
				r.offset++
				r.consumeLF(b)
				emitField()
				r.line++
				return finalizeRow()
			case flagWhitespace:
				r.chunkPos++
				r.offset++
				column++
			default:
				r.chunkPos++
				r.offset++
				r.arena.appendByte(b)
				state = stateInUnquoted
				column++
			}

		case stateInUnquoted:
			switch c {
			case flagDelimiter:
				r.chunkPos++
				r.offset++
				emitField()
				state = stateFieldStart
				column++
			case flagQuote:
				r.chunkPos++
				r.offset++
				if r.dialect.Strict {
					r.finished = true
					return nil, &ParseError{Offset: r.offset, Line: r.line, Column: column, Err: ErrBareQuote}
				}
				r.arena.appendByte(b)
				hasQuote = true
				trailingWS = 0
				d := Diagnostic{Kind: DiagnosticBareQuoteAccepted, Message: "bare quote accepted inside unquoted field"}
				r.diagnose(d)
				rowDiags = append(rowDiags, d)
				column++
			case flagNewline:
				r.chunkPos++
				r.offset++
				r.consumeLF(b)
				emitField()
				r.line++
				return finalizeRow()
			case flagWhitespace:
				r.chunkPos++
				r.offset++
				r.arena.appendByte(b)
				trailingWS++
				column++
			default:
				start := r.chunkPos
				j := r.chunkPos + 1
				for j < len(r.chunk) && r.flags[r.chunk[j]] == flagNotSpecial {
					j++
				}
				run := j - start
				r.arena.appendBytes(r.chunk[start:j])
				r.chunkPos = j
				r.offset += int64(run)
				column += run
				trailingWS = 0
			}

		case stateInQuoted:
			switch c {
			case flagQuote:
				r.chunkPos++
				r.offset++
				state = stateQuoteInQuoted
				column++
			case flagNewline:
				r.chunkPos++
				r.offset++
				r.arena.appendByte(b)
				if b == '\n' {
					r.line++
				}
				column = 1
			default:
				start := r.chunkPos
				j := r.chunkPos + 1
				for j < len(r.chunk) {
					fc := r.flags[r.chunk[j]]
					if fc == flagQuote || fc == flagNewline {
						break
					}
					j++
				}
				run := j - start
				r.arena.appendBytes(r.chunk[start:j])
				r.chunkPos = j
				r.offset += int64(run)
				column += run
			}

		case stateQuoteInQuoted:
			switch c {
			case flagDelimiter:
				r.chunkPos++
				r.offset++
				emitField()
				state = stateFieldStart
				column++
			case flagQuote:
				r.chunkPos++
				r.offset++
				r.arena.appendByte(b)
				hasQuote = true
				state = stateInQuoted
				column++
			case flagNewline:
				r.chunkPos++
				r.offset++
				r.consumeLF(b)
				emitField()
				r.line++
				return finalizeRow()
			case flagWhitespace:
				r.chunkPos++
				r.offset++
				column++
			default:
				r.chunkPos++
				r.offset++
				if r.dialect.Strict {
					r.finished = true
					return nil, &ParseError{Offset: r.offset, Line: r.line, Column: column, Err: ErrQuoteMalformed}
				}
				state = stateInUnquoted
				r.arena.appendByte(b)
				trailingWS = 0
				d := Diagnostic{Kind: DiagnosticQuoteMalformed, Message: "bytes following closing quote treated as literal field content"}
				r.diagnose(d)
				rowDiags = append(rowDiags, d)
				column++
			}
		}
	}
}

// handleEOF finishes the current row (or reports io.EOF) once the byte
// source is exhausted mid-parse.
func (r *Reader) handleEOF(
	state parserState,
	fieldCount int,
	fieldStart int,
	column int,
	emitField func(),
	finalizeRow func() (*Row, error),
	rowDiags *[]Diagnostic,
) (*Row, error) {
	switch state {
	case stateInQuoted:
		if r.dialect.Strict {
			r.finished = true
			return nil, &ParseError{Offset: r.offset, Line: r.line, Column: column, Err: ErrUnterminatedQuote}
		}
		emitField()
		d := Diagnostic{Kind: DiagnosticUnexpectedEOF, Message: "quoted field unterminated at end of input"}
		r.diagnose(d)
		*rowDiags = append(*rowDiags, d)
		r.finished = true
		return finalizeRow()
	default:
		pendingRow := fieldCount > 0 || len(r.arena.bytes) > fieldStart
		r.finished = true
		if !pendingRow {
			return nil, io.EOF
		}
		emitField()
		return finalizeRow()
	}
}

// consumeLF absorbs a following '\n' after a bare '\r', collapsing CRLF into
// a single row terminator.
func (r *Reader) consumeLF(first byte) {
	if first != '\r' {
		return
	}
	if pb, err := r.peekByte(); err == nil && pb == '\n' {
		r.chunkPos++
		r.offset++
	}
}

// peekByte returns the next unconsumed byte without advancing chunkPos,
// refilling from the source if the current chunk is exhausted.
func (r *Reader) peekByte() (byte, error) {
	if r.chunkPos < len(r.chunk) {
		return r.chunk[r.chunkPos], nil
	}
	if r.chunkErr != nil {
		return 0, r.chunkErr
	}
	for {
		chunk, err := r.src.NextChunk()
		if len(chunk) > 0 {
			r.chunk = chunk
			r.chunkPos = 0
			r.chunkErr = err
			return r.chunk[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// peekN ensures at least n unconsumed bytes are available starting at
// chunkPos, stitching chunks together if necessary. Only used for the
// one-time byte order mark check at the start of a stream.
func (r *Reader) peekN(n int) ([]byte, error) {
	for len(r.chunk)-r.chunkPos < n {
		if r.chunkErr != nil {
			return r.chunk[r.chunkPos:], r.chunkErr
		}
		chunk, err := r.src.NextChunk()
		if len(chunk) == 0 {
			if err != nil {
				return r.chunk[r.chunkPos:], err
			}
			continue
		}
		combined := make([]byte, 0, len(r.chunk)-r.chunkPos+len(chunk))
		combined = append(combined, r.chunk[r.chunkPos:]...)
		combined = append(combined, chunk...)
		r.chunk = combined
		r.chunkPos = 0
		r.chunkErr = err
	}
	return r.chunk[r.chunkPos : r.chunkPos+n], nil
}

func (r *Reader) consumeBOM() {
	if !r.dialect.DetectBOM {
		return
	}
	b, err := r.peekN(3)
	if err != nil {
		return
	}
	if b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		r.chunkPos += 3
		r.offset += 3
	}
}
