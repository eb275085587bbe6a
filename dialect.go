package swiftcsv

// NoHeader tells a Reader that no row should be treated as a header and no
// ColumnIndex should be auto-built from the data.
const NoHeader = -1

// Dialect is the closed set of options that govern how a Reader tokenizes
// and interprets a byte stream, mirroring the fields CSVFormat exposes in
// the reference implementation this package's type inference is grounded on.
type Dialect struct {
	// Comma is the field delimiter. Defaults to ',' when zero.
	Comma byte
	// Quote is the quoting character. Defaults to '"' when zero.
	Quote byte
	// Trim is the set of bytes stripped from the edges of unquoted fields.
	Trim map[byte]bool
	// HeaderRow is the zero-based row index treated as column names, or
	// NoHeader to disable header detection.
	HeaderRow int
	// ColumnNames overrides HeaderRow with an explicit set of names.
	ColumnNames []string
	// Strict turns recoverable anomalies into terminal errors.
	Strict bool
	// DetectBOM strips a leading UTF-8 byte order mark before parsing.
	DetectBOM bool
	// ArenaThreshold is the byte count after which the parser rotates to a
	// fresh RowArena at the next row boundary. Defaults to 1 MiB when zero.
	ArenaThreshold int
	// DiagnosticCap bounds the number of retained Diagnostic entries.
	// Defaults to 1024 when zero.
	DiagnosticCap int
}

// DefaultDialect returns the permissive, comma-delimited, header-in-row-zero
// configuration used unless the caller overrides it.
func DefaultDialect() Dialect {
	return Dialect{
		Comma:     ',',
		Quote:     '"',
		HeaderRow: 0,
		Strict:    false,
		DetectBOM: true,
	}
}

// RFC4180Dialect returns a strict, comma-delimited dialect with no leading
// or trailing field whitespace tolerance.
func RFC4180Dialect() Dialect {
	d := DefaultDialect()
	d.Strict = true
	return d
}

func (d Dialect) comma() byte {
	if d.Comma == 0 {
		return ','
	}
	return d.Comma
}

func (d Dialect) quote() byte {
	if d.Quote == 0 {
		return '"'
	}
	return d.Quote
}

func (d Dialect) arenaThreshold() int {
	if d.ArenaThreshold <= 0 {
		return 1 << 20
	}
	return d.ArenaThreshold
}

func (d Dialect) diagnosticCap() int {
	if d.DiagnosticCap <= 0 {
		return 1024
	}
	return d.DiagnosticCap
}
