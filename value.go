// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package ubjson

import (
	"bytes"
	"fmt"
	"math"
	"math/big"

	"golang.org/x/exp/slices"
)

// Value is any UBJSON-encodable value. It is one of the named types below
// (Null, Bool, Char, Int, Float, Decimal, String, Bytes, Array, Object), or
// one of the coercible native Go types documented in doc.go.
type Value = interface{}

// Kind identifies which UBJSON variant a Value belongs to.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindChar
	KindInt
	KindFloat
	KindHighPrecision
	KindString
	KindBytes
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindHighPrecision:
		return "highprecision"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "invalid"
}

// Null is the UBJSON null value.
type Null struct{}

// Bool is the UBJSON true/false value.
type Bool bool

// Char is a single ASCII (U+0000..U+007F) scalar.
type Char rune

// Int is an arbitrary-range signed integer. The zero value is not usable;
// construct with Int64, Uint64 or BigInt.
type Int struct {
	v *big.Int
}

// Int64 wraps i as an Int.
func Int64(i int64) Int { return Int{v: big.NewInt(i)} }

// Uint64 wraps u as an Int.
func Uint64(u uint64) Int { return Int{v: new(big.Int).SetUint64(u)} }

// BigInt wraps i as an Int. i is not copied; callers must not mutate it
// afterwards.
func BigInt(i *big.Int) Int { return Int{v: i} }

// Big returns the arbitrary-precision value underlying n.
func (n Int) Big() *big.Int { return n.v }

// Int64 returns n as an int64 and true, or 0 and false if n does not fit in
// an int64.
func (n Int) Int64() (int64, bool) {
	if !n.v.IsInt64() {
		return 0, false
	}
	return n.v.Int64(), true
}

func (n Int) String() string { return n.v.String() }

// Float is a 64-bit IEEE 754 floating-point value. Non-finite floats
// (+Inf, -Inf, NaN) are legal and always travel on the wire as HighPrecision.
type Float float64

// String is UTF-8 text.
type String string

// Bytes is an opaque byte sequence, transported as a typed integer array.
type Bytes []byte

// Array is an ordered sequence of Values.
type Array []Value

// Pair is one key/value entry of an Object.
type Pair struct {
	Key string
	Val Value
}

// Object is a string-keyed mapping that preserves insertion/wire order.
// Key uniqueness is not enforced, matching the decoder's tolerance of
// duplicate keys on the wire.
type Object []Pair

// Get returns the value of the first pair with the given key.
func (o Object) Get(key string) (Value, bool) {
	for _, p := range o {
		if p.Key == key {
			return p.Val, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch vt := v.(type) {
	case Bytes:
		return Bytes(slices.Clone([]byte(vt)))
	case Array:
		out := make(Array, len(vt))
		for i, e := range vt {
			out[i] = Clone(e)
		}
		return out
	case Object:
		out := make(Object, len(vt))
		for i, p := range vt {
			out[i] = Pair{Key: p.Key, Val: Clone(p.Val)}
		}
		return out
	case Int:
		return Int{v: new(big.Int).Set(vt.v)}
	case Decimal:
		return vt.clone()
	default:
		return v
	}
}

// kindOf classifies src, coercing native Go types the same way Encode does.
func kindOf(src Value) (Kind, error) {
	switch src.(type) {
	case nil, Null:
		return KindNull, nil
	case Bool, bool:
		return KindBool, nil
	case Char:
		return KindChar, nil
	case Int, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt, nil
	case Float, float32, float64:
		return KindFloat, nil
	case Decimal:
		return KindHighPrecision, nil
	case String, string:
		return KindString, nil
	case Bytes, []byte:
		return KindBytes, nil
	case Array:
		return KindArray, nil
	case Object:
		return KindObject, nil
	}
	return 0, fmt.Errorf("cannot encode %T", src)
}

// Equal reports whether a and b are semantically equivalent UBJSON values.
// Floats compare within a relative delta of 1e-4*|a|; NaN compares equal to
// NaN by predicate. HighPrecision decimals compare by decimal value.
func Equal(a, b Value) bool {
	ak, err := kindOf(a)
	if err != nil {
		return false
	}
	bk, err := kindOf(b)
	if err != nil {
		return false
	}
	if ak == KindHighPrecision && bk == KindFloat {
		return Equal(b, a)
	}
	switch ak {
	case KindNull:
		return bk == KindNull
	case KindBool:
		return bk == KindBool && asBool(a) == asBool(b)
	case KindChar:
		if bk == KindChar {
			return a.(Char) == b.(Char)
		}
		return false
	case KindInt:
		switch bk {
		case KindInt:
			return asInt(a).v.Cmp(asInt(b).v) == 0
		case KindFloat:
			f := float64(asFloat(b))
			i := asInt(a).v
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return false
			}
			bi, acc := big.NewFloat(f).Int(nil)
			return acc == big.Exact && bi.Cmp(i) == 0
		case KindHighPrecision:
			if bi, ok := asDecimal(b).bigInt(); ok {
				return asInt(a).v.Cmp(bi) == 0
			}
			return false
		}
		return false
	case KindFloat:
		if bk == KindHighPrecision {
			return floatEqualsDecimal(asFloat(a), asDecimal(b))
		}
		if bk == KindInt {
			return Equal(b, a)
		}
		if bk != KindFloat {
			return false
		}
		af, bf := float64(asFloat(a)), float64(asFloat(b))
		if math.IsNaN(af) || math.IsNaN(bf) {
			return math.IsNaN(af) && math.IsNaN(bf)
		}
		if math.IsInf(af, 0) || math.IsInf(bf, 0) {
			return af == bf
		}
		delta := math.Abs(af) * 1e-4
		if delta == 0 {
			delta = 1e-9
		}
		return math.Abs(af-bf) <= delta
	case KindHighPrecision:
		if bk == KindInt {
			return Equal(b, a)
		}
		if bk != KindHighPrecision {
			return false
		}
		return asDecimal(a).Equal(asDecimal(b))
	case KindString:
		return bk == KindString && asString(a) == asString(b)
	case KindBytes:
		return bk == KindBytes && bytes.Equal(asBytes(a), asBytes(b))
	case KindArray:
		if bk != KindArray {
			return false
		}
		av, bv := a.(Array), b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if bk != KindObject {
			return false
		}
		av, bv := a.(Object), b.(Object)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(av[i].Val, bv[i].Val) {
				return false
			}
		}
		return true
	}
	return false
}

func asBool(v Value) bool {
	if b, ok := v.(Bool); ok {
		return bool(b)
	}
	return v.(bool)
}

func asInt(v Value) Int {
	switch vt := v.(type) {
	case Int:
		return vt
	case int:
		return Int64(int64(vt))
	case int8:
		return Int64(int64(vt))
	case int16:
		return Int64(int64(vt))
	case int32:
		return Int64(int64(vt))
	case int64:
		return Int64(vt)
	case uint:
		return Uint64(uint64(vt))
	case uint8:
		return Uint64(uint64(vt))
	case uint16:
		return Uint64(uint64(vt))
	case uint32:
		return Uint64(uint64(vt))
	case uint64:
		return Uint64(vt)
	}
	panic("asInt: not an integer")
}

func asFloat(v Value) Float {
	switch vt := v.(type) {
	case Float:
		return vt
	case float32:
		return Float(vt)
	case float64:
		return Float(vt)
	}
	panic("asFloat: not a float")
}

func asString(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return v.(string)
}

func asBytes(v Value) []byte {
	if b, ok := v.(Bytes); ok {
		return []byte(b)
	}
	return v.([]byte)
}

func asDecimal(v Value) Decimal {
	return v.(Decimal)
}

// floatEqualsDecimal compares a Float against a HighPrecision value: the
// only case these two kinds can ever agree is a non-finite Float against
// the matching non-finite Decimal form, since the wire format has no
// distinct marker for a "non-finite Float" versus a "non-finite Decimal" --
// both travel as the literal text "nan"/"inf"/"-inf" under "H".
func floatEqualsDecimal(f Float, d Decimal) bool {
	switch {
	case math.IsNaN(float64(f)):
		return d.form == decNaN
	case math.IsInf(float64(f), 1):
		return d.form == decPosInf
	case math.IsInf(float64(f), -1):
		return d.form == decNegInf
	default:
		return false
	}
}

// print renders v for debugging. It is not used by the codec itself.
func print(v Value) string {
	switch vt := v.(type) {
	case nil, Null:
		return "Null()"
	case Bool:
		return fmt.Sprintf("Bool(%v)", bool(vt))
	case bool:
		return fmt.Sprintf("Bool(%v)", vt)
	case Char:
		return fmt.Sprintf("Char(%c)", rune(vt))
	case Int:
		return fmt.Sprintf("Int(%v)", vt.v)
	case Float:
		return fmt.Sprintf("Float(%v)", float64(vt))
	case Decimal:
		return fmt.Sprintf("Decimal(%v)", vt.String())
	case String:
		return fmt.Sprintf("String(%v)", string(vt))
	case Bytes:
		return fmt.Sprintf("Bytes(%v)", []byte(vt))
	case Array:
		buf := bytes.NewBuffer(nil)
		fmt.Fprint(buf, "Array([")
		for i, e := range vt {
			fmt.Fprint(buf, print(e))
			if i != len(vt)-1 {
				fmt.Fprint(buf, " ")
			}
		}
		fmt.Fprint(buf, "])")
		return buf.String()
	case Object:
		buf := bytes.NewBuffer(nil)
		fmt.Fprint(buf, "Object[")
		for i, p := range vt {
			fmt.Fprintf(buf, "%v: %v", p.Key, print(p.Val))
			if i != len(vt)-1 {
				fmt.Fprint(buf, " ")
			}
		}
		fmt.Fprint(buf, "]")
		return buf.String()
	}
	return fmt.Sprint(v)
}
