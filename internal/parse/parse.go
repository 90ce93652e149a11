// Package parse turns typed decimal strings into engine input, deriving each
// value's tolerance from the digits the user actually wrote.
package parse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/convergent/internal/approx"
)

var (
	ErrNotANumber = errors.New("parse: not a decimal number")
	ErrNegative   = errors.New("parse: value must not be negative")
	ErrLength     = errors.New("parse: values and mask differ in length")
)

// float64 carries roughly this many significant decimal digits.
const significantDigits = 15

// ParseValue parses a plain decimal string.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || !isDecimal(s) {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNegative, s)
	}
	return v, nil
}

// PrecisionFromString returns half a unit in the last typed place, so
// "3.14159" gives 5e-6 and "200" gives 50. A trailing zero after the decimal
// point marks the value as exact, limited only by float64 resolution.
func PrecisionFromString(s string) (float64, error) {
	if _, err := ParseValue(s); err != nil {
		return 0, err
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")

	var exponent int
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		// dot is also the number of digits before the point
		lead := dot
		trail := len(s) - dot - 1
		if strings.HasSuffix(s, "0") {
			exponent = lead - significantDigits
		} else {
			exponent = max(lead-significantDigits, -trail)
		}
	} else {
		lead := len(s) - 1
		zeros := len(s) - len(strings.TrimRight(s, "0"))
		exponent = max(lead-significantDigits, zeros)
	}

	return math.Pow10(exponent) / 2, nil
}

// ParseInput builds engine input from value strings and a pivot mask.
func ParseInput(values []string, mask []bool) (approx.Input, error) {
	if len(values) != len(mask) {
		return approx.Input{}, fmt.Errorf("%w: %d values, %d mask entries", ErrLength, len(values), len(mask))
	}

	in := approx.Input{
		Ratio:     make([]float64, len(values)),
		Mask:      make([]bool, len(mask)),
		Precision: make([]float64, len(values)),
	}
	copy(in.Mask, mask)

	for i, s := range values {
		v, err := ParseValue(s)
		if err != nil {
			return approx.Input{}, fmt.Errorf("value %d: %w", i, err)
		}
		p, err := PrecisionFromString(s)
		if err != nil {
			return approx.Input{}, fmt.Errorf("value %d: %w", i, err)
		}
		in.Ratio[i] = v
		in.Precision[i] = p
	}
	return in, nil
}

// isDecimal accepts digits with at most one decimal point and an optional
// leading sign, rejecting exponents, hex and the "inf"/"nan" spellings that
// strconv would otherwise allow.
func isDecimal(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	digits, dots := 0, 0
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
