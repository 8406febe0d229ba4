package format

import "math"

// MagnitudeType is the hint of a Real value. Exponent hints scale the mantissa by a
// power of ten, divisor hints by a negative power of two.
type MagnitudeType uint8

const (
	ExponentNeg14 MagnitudeType = 0  // mantissa * 10^-14
	ExponentNeg13 MagnitudeType = 1  // mantissa * 10^-13
	ExponentNeg12 MagnitudeType = 2  // mantissa * 10^-12
	ExponentNeg11 MagnitudeType = 3  // mantissa * 10^-11
	ExponentNeg10 MagnitudeType = 4  // mantissa * 10^-10
	ExponentNeg9  MagnitudeType = 5  // mantissa * 10^-9
	ExponentNeg8  MagnitudeType = 6  // mantissa * 10^-8
	ExponentNeg7  MagnitudeType = 7  // mantissa * 10^-7
	ExponentNeg6  MagnitudeType = 8  // mantissa * 10^-6
	ExponentNeg5  MagnitudeType = 9  // mantissa * 10^-5
	ExponentNeg4  MagnitudeType = 10 // mantissa * 10^-4
	ExponentNeg3  MagnitudeType = 11 // mantissa * 10^-3
	ExponentNeg2  MagnitudeType = 12 // mantissa * 10^-2
	ExponentNeg1  MagnitudeType = 13 // mantissa * 10^-1
	Exponent0     MagnitudeType = 14 // mantissa
	ExponentPos1  MagnitudeType = 15 // mantissa * 10
	ExponentPos2  MagnitudeType = 16 // mantissa * 10^2
	ExponentPos3  MagnitudeType = 17 // mantissa * 10^3
	ExponentPos4  MagnitudeType = 18 // mantissa * 10^4
	ExponentPos5  MagnitudeType = 19 // mantissa * 10^5
	ExponentPos6  MagnitudeType = 20 // mantissa * 10^6
	ExponentPos7  MagnitudeType = 21 // mantissa * 10^7
	Divisor1      MagnitudeType = 22 // mantissa
	Divisor2      MagnitudeType = 23 // mantissa / 2
	Divisor4      MagnitudeType = 24 // mantissa / 4
	Divisor8      MagnitudeType = 25 // mantissa / 8
	Divisor16     MagnitudeType = 26 // mantissa / 16
	Divisor32     MagnitudeType = 27 // mantissa / 32
	Divisor64     MagnitudeType = 28 // mantissa / 64
	Divisor128    MagnitudeType = 29 // mantissa / 128
	Divisor256    MagnitudeType = 30 // mantissa / 256
	Infinity      MagnitudeType = 33 // positive infinity, no mantissa
	NegInfinity   MagnitudeType = 34 // negative infinity, no mantissa
	NotANumber    MagnitudeType = 35 // NaN, no mantissa
)

// IsValid reports whether the hint is one of the defined magnitude types.
// Hints 31 and 32 are reserved.
func (m MagnitudeType) IsValid() bool {
	return m <= Divisor256 || (m >= Infinity && m <= NotANumber)
}

// IsExponent reports whether the hint is a power-of-ten exponent.
func (m MagnitudeType) IsExponent() bool {
	return m <= ExponentPos7
}

// IsDivisor reports whether the hint is a power-of-two divisor.
func (m MagnitudeType) IsDivisor() bool {
	return m >= Divisor1 && m <= Divisor256
}

// IsSpecial reports whether the hint encodes infinity or NaN and carries no mantissa.
func (m MagnitudeType) IsSpecial() bool {
	return m >= Infinity && m <= NotANumber
}

// Exponent returns the power of ten for exponent hints (Exponent0 returns 0).
func (m MagnitudeType) Exponent() int {
	return int(m) - int(Exponent0)
}

// DivisorShift returns log2 of the divisor for divisor hints.
func (m MagnitudeType) DivisorShift() int {
	return int(m) - int(Divisor1)
}

// Scale returns the factor applied to the mantissa for exponent and divisor hints.
func (m MagnitudeType) Scale() float64 {
	switch {
	case m.IsExponent():
		return math.Pow10(m.Exponent())
	case m.IsDivisor():
		return 1 / float64(uint64(1)<<uint(m.DivisorShift())) //nolint:gosec
	default:
		return math.NaN()
	}
}

func (m MagnitudeType) String() string {
	switch {
	case m.IsExponent():
		if m == Exponent0 {
			return "Exponent0"
		}
		if m < Exponent0 {
			return "ExponentNeg" + itoa(-m.Exponent())
		}

		return "ExponentPos" + itoa(m.Exponent())
	case m.IsDivisor():
		return "Divisor" + itoa(1<<m.DivisorShift())
	case m == Infinity:
		return "Infinity"
	case m == NegInfinity:
		return "NegInfinity"
	case m == NotANumber:
		return "NotANumber"
	default:
		return "Unknown"
	}
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}

	var buf [8]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}

	return string(buf[i:])
}
