package swiftcsv

import "go.uber.org/zap"

// logDiagnostic mirrors a Diagnostic into the Reader's logger at a severity
// matching how alarming the anomaly is. Logging never gates on the ring
// buffer accepting the entry; both always happen together via diagnose.
func (r *Reader) logDiagnostic(d Diagnostic) {
	if r.Logger == nil {
		return
	}
	fields := []zap.Field{zap.Int64("row", d.Row), zap.String("message", d.Message)}
	switch d.Kind {
	case DiagnosticDuplicateColumn:
		r.Logger.Warn("duplicate column name in header", fields...)
	case DiagnosticUnequalRowLength:
		r.Logger.Debug("row field count differs from first row's width", fields...)
	case DiagnosticUnexpectedEOF:
		r.Logger.Warn("byte source ended mid-field", fields...)
	case DiagnosticBareQuoteAccepted:
		r.Logger.Debug("bare quote accepted in unquoted field", fields...)
	case DiagnosticQuoteMalformed:
		r.Logger.Warn("trailing bytes after closing quote recovered", fields...)
	}
}

// diagnose records d in the ring buffer and mirrors it to the logger.
func (r *Reader) diagnose(d Diagnostic) {
	d.Row = r.rowIndex
	r.diagnostics.push(d)
	r.logDiagnostic(d)
}
