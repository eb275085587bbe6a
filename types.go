package swiftcsv

import "math"

// DataType is the scalar type inferred for a field's raw bytes. Numeric
// members are ordered by widening potential (TypeInt8 < TypeInt16 <
// TypeInt32 < TypeInt64 < TypeDouble); TypeNull and TypeString are not part
// of that ordering.
type DataType uint8

const (
	TypeNull DataType = iota
	TypeString
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeDouble
)

func (d DataType) String() string {
	switch d {
	case TypeNull:
		return "null"
	case TypeString:
		return "string"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeDouble:
		return "double"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether d is one of the Int8..Double widening types.
func (d DataType) IsNumeric() bool { return d >= TypeInt8 && d <= TypeDouble }

// Less reports whether d is a narrower numeric type than other. Comparisons
// involving TypeNull or TypeString are always false; they are unordered.
func (d DataType) Less(other DataType) bool {
	return d.IsNumeric() && other.IsNumeric() && d < other
}

// Widen returns the wider of two numeric types, useful when a caller is
// folding per-field classifications into a column-wide inferred type. A
// non-numeric operand is ignored in favor of the other.
func (d DataType) Widen(other DataType) DataType {
	if !d.IsNumeric() {
		return other
	}
	if !other.IsNumeric() {
		return d
	}
	if d > other {
		return d
	}
	return other
}

var defaultDecimalSeparators = []byte{'.'}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func isSepByte(b byte, seps []byte) bool {
	for _, s := range seps {
		if b == s {
			return true
		}
	}
	return false
}

// Classify performs zero-allocation, bounds-safe scalar type inference over
// raw field bytes. decimalSeparators defaults to {'.'} when empty. The
// returned float64 always carries the numeric value regardless of which
// integer width was selected; callers needing an exact integer should use
// Field.AsInt, which parses the field's digits exactly once it classifies as
// an integer.
//
// Leading spaces are skipped; trailing spaces are tolerated once a complete
// numeric token has been read. Any other stray byte, or a token with zero
// digits, yields TypeString. Scientific notation is handled by recursively
// classifying the exponent substring: a non-numeric result there makes the
// whole field a TypeString.
func Classify(b []byte, decimalSeparators []byte) (DataType, float64) {
	if len(decimalSeparators) == 0 {
		decimalSeparators = defaultDecimalSeparators
	}

	i, n := 0, len(b)
	for i < n && b[i] == ' ' {
		i++
	}
	if i == n {
		return TypeNull, 0
	}

	neg := false
	switch b[i] {
	case '+':
		i++
	case '-':
		neg = true
		i++
	}

	var mantissa uint64
	var mantissaOverflow bool
	var floatIntPart float64
	intDigits := 0
	for i < n && isDigitByte(b[i]) {
		d := uint64(b[i] - '0')
		if !mantissaOverflow {
			if mantissa > (math.MaxUint64-d)/10 {
				mantissaOverflow = true
			} else {
				mantissa = mantissa*10 + d
			}
		}
		floatIntPart = floatIntPart*10 + float64(d)
		intDigits++
		i++
	}

	isFloat := false
	fracDigits := 0
	var fracValue float64
	if i < n && isSepByte(b[i], decimalSeparators) {
		isFloat = true
		i++
		scale := 1.0
		for i < n && isDigitByte(b[i]) {
			scale /= 10
			fracValue += float64(b[i]-'0') * scale
			fracDigits++
			i++
		}
	}

	if intDigits == 0 && fracDigits == 0 {
		return TypeString, 0
	}

	value := floatIntPart + fracValue

	if i < n && (b[i] == 'e' || b[i] == 'E') {
		expType, expVal := Classify(b[i+1:], decimalSeparators)
		if !expType.IsNumeric() {
			return TypeString, 0
		}
		isFloat = true
		value *= math.Pow(10, expVal)
	} else {
		for i < n && b[i] == ' ' {
			i++
		}
		if i != n {
			return TypeString, 0
		}
	}

	if neg {
		value = -value
	}

	if isFloat {
		return TypeDouble, value
	}
	if mantissaOverflow {
		return TypeDouble, value
	}
	return intWidth(mantissa, neg), value
}

const maxNegMagnitude = uint64(1) << 63

func intWidth(mantissa uint64, neg bool) DataType {
	var v int64
	if neg {
		if mantissa > maxNegMagnitude {
			return TypeDouble
		}
		if mantissa == maxNegMagnitude {
			v = math.MinInt64
		} else {
			v = -int64(mantissa)
		}
	} else {
		if mantissa > math.MaxInt64 {
			return TypeDouble
		}
		v = int64(mantissa)
	}
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return TypeInt8
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return TypeInt16
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return TypeInt32
	default:
		return TypeInt64
	}
}
