// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package ubjson

import (
	"fmt"
	"math/big"
	"strings"
)

// decForm distinguishes the finite/infinite/not-a-number forms a Decimal
// can take; high-precision transport has no dedicated markers for the
// latter two, they are just the literal text "inf", "-inf" and "nan".
type decForm int

const (
	decFinite decForm = iota
	decPosInf
	decNegInf
	decNaN
)

// Decimal is an arbitrary-precision decimal number, the Go representation
// of a UBJSON HighPrecision value. Finite values are held exactly as a
// rational; equality compares by value, never by the original literal text.
type Decimal struct {
	form decForm
	rat  *big.Rat // non-nil iff form == decFinite
}

// DecimalNaN, DecimalInf and DecimalNegInf build the three non-finite forms.
func DecimalNaN() Decimal    { return Decimal{form: decNaN} }
func DecimalInf() Decimal    { return Decimal{form: decPosInf} }
func DecimalNegInf() Decimal { return Decimal{form: decNegInf} }

// DecimalFromBigInt wraps an arbitrary-precision integer that escaped the
// signed 64-bit range as a Decimal (the form an oversized Int is encoded in).
func DecimalFromBigInt(i *big.Int) Decimal {
	return Decimal{form: decFinite, rat: new(big.Rat).SetInt(i)}
}

// ParseDecimal parses a high-precision literal exactly as it appears on the
// wire: "nan", "inf", "-inf", or a decimal number optionally signed, with an
// optional fractional part and an optional exponent ("1E+308", "10e15",
// "-1.5"). It never rounds; the result is exact.
func ParseDecimal(s string) (Decimal, error) {
	switch s {
	case "nan":
		return DecimalNaN(), nil
	case "inf", "+inf":
		return DecimalInf(), nil
	case "-inf":
		return DecimalNegInf(), nil
	}
	r, err := parseDecimalRat(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("ubjson: invalid high-precision literal %q: %w", s, err)
	}
	return Decimal{form: decFinite, rat: r}, nil
}

func parseDecimalRat(s string) (*big.Rat, error) {
	if s == "" {
		return nil, fmt.Errorf("empty literal")
	}
	neg := false
	i := 0
	switch s[0] {
	case '-':
		neg = true
		i++
	case '+':
		i++
	}
	mantissaStart := i
	sawDigit := false
	fracDigits := 0
	sawPoint := false
	for i < len(s) && (isDigit(s[i]) || (s[i] == '.' && !sawPoint)) {
		if s[i] == '.' {
			sawPoint = true
			i++
			continue
		}
		sawDigit = true
		if sawPoint {
			fracDigits++
		}
		i++
	}
	if !sawDigit {
		return nil, fmt.Errorf("no digits")
	}
	digits := strings.Replace(s[mantissaStart:i], ".", "", 1)
	exp := 0
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		expStr := s[i:]
		if expStr == "" {
			return nil, fmt.Errorf("empty exponent")
		}
		n, err := parseSignedInt(expStr)
		if err != nil {
			return nil, fmt.Errorf("bad exponent: %w", err)
		}
		exp = n
		i = len(s)
	}
	if i != len(s) {
		return nil, fmt.Errorf("trailing garbage %q", s[i:])
	}
	num := new(big.Int)
	if _, ok := num.SetString(digits, 10); !ok {
		return nil, fmt.Errorf("malformed digits %q", digits)
	}
	if neg {
		num.Neg(num)
	}
	scale := exp - fracDigits // value = num * 10^scale
	r := new(big.Rat).SetInt(num)
	if scale > 0 {
		r.Mul(r, new(big.Rat).SetInt(pow10(scale)))
	} else if scale < 0 {
		r.Quo(r, new(big.Rat).SetInt(pow10(-scale)))
	}
	return r, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func parseSignedInt(s string) (int, error) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return 0, fmt.Errorf("no digits")
	}
	n := 0
	for _, c := range []byte(s) {
		if !isDigit(c) {
			return 0, fmt.Errorf("not a digit: %q", c)
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func (d Decimal) clone() Decimal {
	if d.form != decFinite {
		return d
	}
	return Decimal{form: decFinite, rat: new(big.Rat).Set(d.rat)}
}

// Equal reports whether d and o are the same decimal value. NaN equals
// another NaN by predicate, the same rule Equal applies to Float, and equals
// nothing else.
func (d Decimal) Equal(o Decimal) bool {
	if d.form == decNaN || o.form == decNaN {
		return d.form == decNaN && o.form == decNaN
	}
	if d.form != o.form {
		return false
	}
	if d.form != decFinite {
		return true
	}
	return d.rat.Cmp(o.rat) == 0
}

func (d Decimal) IsNaN() bool { return d.form == decNaN }
func (d Decimal) IsInf() bool { return d.form == decPosInf || d.form == decNegInf }

// bigInt returns d's exact integer value and true, iff d is finite and
// represents a whole number (used to bridge HighPrecision/Int equality for
// integers that escaped the signed 64-bit range on encode).
func (d Decimal) bigInt() (*big.Int, bool) {
	if d.form != decFinite || !d.rat.IsInt() {
		return nil, false
	}
	return new(big.Int).Set(d.rat.Num()), true
}

// String renders the canonical decimal literal transported on the wire.
func (d Decimal) String() string {
	switch d.form {
	case decNaN:
		return "nan"
	case decPosInf:
		return "inf"
	case decNegInf:
		return "-inf"
	}
	return ratToDecimalString(d.rat)
}

// ratToDecimalString formats r as an exact decimal literal. Every Decimal
// this package ever constructs is built from decimal text or a plain
// integer, so r's denominator (once reduced) always divides a power of ten
// and this terminates; should that invariant ever not hold, the result
// falls back to r.FloatString(40).
func ratToDecimalString(r *big.Rat) string {
	if r.Sign() == 0 {
		return "0"
	}
	num := new(big.Int).Set(r.Num())
	den := new(big.Int).Set(r.Denom())
	neg := num.Sign() < 0
	if neg {
		num.Neg(num)
	}
	two, five, one := big.NewInt(2), big.NewInt(5), big.NewInt(1)
	exp := 0
	mod := new(big.Int)
	for den.Cmp(one) != 0 {
		if mod.Mod(den, five); mod.Sign() == 0 {
			den.Div(den, five)
			num.Mul(num, two)
			exp++
			continue
		}
		if mod.Mod(den, two); mod.Sign() == 0 {
			den.Div(den, two)
			num.Mul(num, five)
			exp++
			continue
		}
		return r.FloatString(40) // defensive fallback, see comment above
	}
	digits := num.String()
	if exp == 0 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	if len(digits) <= exp {
		digits = strings.Repeat("0", exp-len(digits)+1) + digits
	}
	intPart := digits[:len(digits)-exp]
	fracPart := strings.TrimRight(digits[len(digits)-exp:], "0")
	s := intPart
	if fracPart != "" {
		s += "." + fracPart
	}
	if neg {
		s = "-" + s
	}
	return s
}
