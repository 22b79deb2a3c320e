// Copyright 2013 Seth Bunce. All rights reserved. Use of this source code is
// governed by a BSD-style license that can be found in the LICENSE file.

package ubjson

import (
	"math"
	"math/big"
	"testing"
)

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{KindNull, "null"},
		{KindBool, "bool"},
		{KindChar, "char"},
		{KindInt, "int"},
		{KindFloat, "float"},
		{KindHighPrecision, "highprecision"},
		{KindString, "string"},
		{KindBytes, "bytes"},
		{KindArray, "array"},
		{KindObject, "object"},
		{Kind(99), "invalid"},
	}
	for _, c := range cases {
		if got := c.k.String(); got != c.want {
			t.Errorf("Kind(%d).String() = %q, want %q", c.k, got, c.want)
		}
	}
}

func TestObjectGet(t *testing.T) {
	o := Object{{Key: "a", Val: Int64(1)}, {Key: "b", Val: Int64(2)}}
	v, ok := o.Get("b")
	if !ok || !Equal(v, Int64(2)) {
		t.Fatalf("Get(b) = %v, %v", v, ok)
	}
	if _, ok := o.Get("missing"); ok {
		t.Fatal("Get(missing) reported found")
	}
}

func TestEqualFloatApprox(t *testing.T) {
	if !Equal(Float(1.0), Float(1.00005)) {
		t.Fatal("expected values within relative delta to be equal")
	}
	if Equal(Float(1.0), Float(1.01)) {
		t.Fatal("expected values outside relative delta to differ")
	}
}

func TestEqualNaN(t *testing.T) {
	nan := Float(math.NaN())
	if !Equal(nan, nan) {
		t.Fatal("NaN should compare equal to NaN by predicate")
	}
}

func TestEqualIntFloatCross(t *testing.T) {
	if !Equal(Int64(4), Float(4.0)) {
		t.Fatal("exact integer/float cross-comparison should be equal")
	}
	if !Equal(Float(4.0), Int64(4)) {
		t.Fatal("exact integer/float cross-comparison should be symmetric")
	}
	if Equal(Int64(4), Float(4.5)) {
		t.Fatal("non-integer float should not equal an Int")
	}
}

func TestEqualIntHighPrecisionCross(t *testing.T) {
	huge := Uint64(math.MaxUint64) // escapes int64, encodes/decodes as HighPrecision
	dec, err := ParseDecimal(huge.String())
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(huge, dec) {
		t.Fatal("Int should equal its exact HighPrecision decimal form")
	}
	if !Equal(dec, huge) {
		t.Fatal("Int/HighPrecision cross-comparison should be symmetric")
	}
	if Equal(Int64(4), DecimalNaN()) {
		t.Fatal("Int should never equal a non-finite Decimal")
	}
	frac, err := ParseDecimal("4.5")
	if err != nil {
		t.Fatal(err)
	}
	if Equal(Int64(4), frac) {
		t.Fatal("Int should not equal a non-integer Decimal")
	}
}

func TestEqualArrayObject(t *testing.T) {
	a := Array{Int64(1), String("x"), Array{Bool(true)}}
	b := Array{Int64(1), String("x"), Array{Bool(true)}}
	if !Equal(a, b) {
		t.Fatal("structurally identical arrays should be equal")
	}
	o1 := Object{{Key: "k", Val: Int64(1)}}
	o2 := Object{{Key: "k", Val: Int64(1)}}
	if !Equal(o1, o2) {
		t.Fatal("structurally identical objects should be equal")
	}
}

func TestCloneIndependence(t *testing.T) {
	src := Array{Bytes{1, 2, 3}}
	dst := Clone(src).(Array)
	dst[0].(Bytes)[0] = 0xff
	if src[0].(Bytes)[0] == 0xff {
		t.Fatal("Clone should deep-copy Bytes")
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	cases := []string{"-1.5", "0", "1E+308", "10e15", "123", "-0.001"}
	for _, s := range cases {
		d, err := ParseDecimal(s)
		if err != nil {
			t.Fatalf("ParseDecimal(%q): %v", s, err)
		}
		d2, err := ParseDecimal(d.String())
		if err != nil {
			t.Fatalf("re-parse %q: %v", d.String(), err)
		}
		if !d.Equal(d2) {
			t.Fatalf("%q round-tripped to %q, not decimal-equal", s, d.String())
		}
	}
}

func TestDecimalNonFinite(t *testing.T) {
	nan, _ := ParseDecimal("nan")
	if !nan.IsNaN() {
		t.Fatal("expected IsNaN")
	}
	if !nan.Equal(nan) {
		t.Fatal("NaN decimal should equal itself by predicate")
	}
	inf, _ := ParseDecimal("inf")
	neg, _ := ParseDecimal("-inf")
	if !inf.IsInf() || !neg.IsInf() {
		t.Fatal("expected IsInf")
	}
	if inf.Equal(neg) {
		t.Fatal("+inf should not equal -inf")
	}
}

func TestIntConversions(t *testing.T) {
	n := Uint64(math.MaxUint64)
	if _, ok := n.Int64(); ok {
		t.Fatal("MaxUint64 should not convert exactly to int64")
	}
	bi := BigInt(new(big.Int).SetInt64(42))
	if v, ok := bi.Int64(); !ok || v != 42 {
		t.Fatalf("BigInt round trip = %v, %v", v, ok)
	}
}
