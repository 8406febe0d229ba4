package codec

import (
	"strconv"
	"strings"

	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// Real is a fixed-point value: a mantissa scaled by a magnitude hint.
type Real struct {
	scalarBase
	mantissa int64
	hint     format.MagnitudeType
}

var _ scalar = (*Real)(nil)

// DataType returns format.Real.
func (v *Real) DataType() format.DataType { return format.Real }

// Mantissa returns the unscaled mantissa.
func (v *Real) Mantissa() int64 { return v.mantissa }

// MagnitudeType returns the magnitude hint.
func (v *Real) MagnitudeType() format.MagnitudeType { return v.hint }

// AsDouble returns the scaled value. Special hints convert to ±Inf and NaN.
func (v *Real) AsDouble() float64 {
	return realToDouble(v.mantissa, v.hint)
}

// Set assigns a mantissa and magnitude hint.
//
// Returns errs.ErrInvalidValue, leaving the value untouched, when hint is not a
// defined magnitude type.
func (v *Real) Set(mantissa int64, hint format.MagnitudeType) error {
	if err := checkMagnitude("Real.Set", hint); err != nil {
		return err
	}
	if hint.IsSpecial() {
		mantissa = 0
	}
	v.mantissa, v.hint = mantissa, hint
	v.assigned(false)

	return nil
}

// SetFromDouble converts f to a mantissa under an exponent or divisor hint.
// NaN and infinities are stored with their special hints.
//
// Parameters:
//   - f: value to convert
//   - hint: exponent (ExponentNeg14..ExponentPos7) or divisor (Divisor1..Divisor256)
//
// Returns:
//   - error: errs.ErrInvalidValue for any other hint or a mantissa overflow;
//     the value is left untouched
func (v *Real) SetFromDouble(f float64, hint format.MagnitudeType) error {
	mantissa, h, err := realFromDouble("Real.SetFromDouble", f, hint)
	if err != nil {
		return err
	}
	v.mantissa, v.hint = mantissa, h
	v.assigned(false)

	return nil
}

// SetBlank makes the value blank.
func (v *Real) SetBlank() {
	v.mantissa, v.hint = 0, 0
	v.assigned(true)
}

// EncodedData returns the wire form of the value.
func (v *Real) EncodedData() []byte { return v.encoded(v.appendWire) }

func (v *Real) String() string {
	if v.blank {
		return blankText
	}

	return formatReal(v.mantissa, v.hint)
}

func (v *Real) decode(data []byte) rwf.Status {
	mantissa, hint, st := rwf.DecodeReal(data)
	v.mantissa, v.hint = mantissa, hint

	return v.decoded(data, st)
}

func (v *Real) appendWire(dst []byte) []byte {
	if v.blank {
		return dst
	}
	out, _ := rwf.AppendReal(dst, v.mantissa, v.hint)

	return out
}

func (v *Real) reset() {
	v.mantissa, v.hint = 0, 0
	v.resetBase()
}

// formatReal renders exponent hints exactly, keeping trailing zeros of the
// mantissa ("11.00" for 1100 at ExponentNeg2).
func formatReal(mantissa int64, hint format.MagnitudeType) string {
	switch {
	case hint == format.Infinity:
		return "Inf"
	case hint == format.NegInfinity:
		return "-Inf"
	case hint == format.NotANumber:
		return "NaN"
	case hint.IsDivisor():
		return strconv.FormatFloat(realToDouble(mantissa, hint), 'f', -1, 64)
	}

	s := strconv.FormatInt(mantissa, 10)
	exp := hint.Exponent()
	if exp >= 0 {
		if mantissa == 0 {
			return s
		}

		return s + strings.Repeat("0", exp)
	}

	sign := ""
	if mantissa < 0 {
		sign, s = "-", s[1:]
	}
	scale := -exp
	if len(s) <= scale {
		s = strings.Repeat("0", scale-len(s)+1) + s
	}

	return sign + s[:len(s)-scale] + "." + s[len(s)-scale:]
}
