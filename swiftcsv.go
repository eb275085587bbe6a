// # SwiftCSV: A High-Throughput Streaming CSV Library for Go
//
// SwiftCSV is a high-throughput Go library for streaming CSV parsing and
// writing. It keeps allocations low for large inputs, infers scalar types
// as it reads, and exposes precise error and diagnostic information for
// malformed data.
//
// # Features
//
// - Streaming, arena-backed Reader driven by a per-byte ParseFlags table,
// with zero-copy field access; doubled quotes are unescaped once, while
// parsing.
// - Delimiter and header-row guessing via GuessDialect for CSV-like inputs
// with an unknown dialect.
// - Scalar type inference (Classify) unifying integer width selection and
// scientific-notation parsing into a single zero-allocation routine.
// - Buffered Writer with configurable delimiters, newline policy, and
// forced quoting, sharing the same Dialect as the Reader.
// - Structured error reporting via ParseError, DialectError,
// ErrBareQuote, ErrUnterminatedQuote, and ErrorFieldCount, plus a
// bounded ring of non-fatal Diagnostic entries for lenient-mode recovery.
//
// # Getting Started
//
// The module path is `github.com/oleg578/swiftcsv`. Import it directly when
// working inside this repository or adjust the module path to match your
// fork or remote.
package swiftcsv
