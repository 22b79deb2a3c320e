// Copyright 2013 Seth Bunce. All rights reserved. Use of this source code is
// governed by a BSD-style license that can be found in the LICENSE file.

package ubjson

import (
	"math"
	"testing"
)

func roundtripValues(t *testing.T) []Value {
	d1, err := ParseDecimal("-1.5")
	if err != nil {
		t.Fatal(err)
	}
	return []Value{
		nil,
		Null{},
		Bool(true),
		Bool(false),
		Char('x'),
		Int64(0),
		Int64(-1),
		Int64(255),
		Int64(256),
		Int64(math.MaxInt32),
		Int64(math.MinInt32 - 1),
		Int64(math.MaxInt64),
		Uint64(math.MaxUint64),
		Float(0),
		Float(1.5),
		Float(1.0 / 3.0),
		Float(math.Inf(1)),
		Float(math.Inf(-1)),
		Float(math.NaN()),
		d1,
		DecimalNaN(),
		DecimalInf(),
		DecimalNegInf(),
		String(""),
		String("hello, 世界"),
		Bytes{},
		Bytes{0x00, 0x01, 0xff},
		Array{},
		Array{Int64(1), String("two"), Array{Bool(true), Null{}}},
		Object{},
		Object{{Key: "a", Val: Int64(1)}, {Key: "b", Val: Array{Int64(2), Int64(3)}}},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range roundtripValues(t) {
		b, err := EncodeToBytes(v)
		if err != nil {
			t.Fatalf("encode %#v: %v", v, err)
		}
		got, err := DecodeFromBytes(b)
		if err != nil {
			t.Fatalf("decode %#v (% X): %v", v, b, err)
		}
		if !Equal(v, got) {
			t.Fatalf("round trip mismatch: sent %#v, got %#v (wire % X)", v, got, b)
		}
	}
}

func TestRoundTripAllEncodeOptions(t *testing.T) {
	opts := [][]EncodeOption{
		{WithContainerCount(true)},
		{WithSortKeys(true)},
		{WithNoFloat32(true)},
		{WithUint8Bytes(true)},
		{WithContainerCount(true), WithSortKeys(true), WithNoFloat32(true), WithUint8Bytes(true)},
	}
	for _, opt := range opts {
		for _, v := range roundtripValues(t) {
			b, err := EncodeToBytes(v, opt...)
			if err != nil {
				t.Fatalf("encode %#v: %v", v, err)
			}
			got, err := DecodeFromBytes(b)
			if err != nil {
				t.Fatalf("decode %#v (% X): %v", v, b, err)
			}
			if !Equal(v, got) {
				t.Fatalf("round trip mismatch under %v: sent %#v, got %#v", opt, v, got)
			}
		}
	}
}

func TestCountedDelimitedEquivalence(t *testing.T) {
	containers := []Value{
		Array{},
		Array{Int64(1), Int64(2), Int64(3)},
		Object{{Key: "x", Val: Int64(1)}, {Key: "y", Val: String("z")}},
		Array{Object{{Key: "nested", Val: Array{Int64(1)}}}},
	}
	for _, c := range containers {
		counted, err := EncodeToBytes(c, WithContainerCount(true))
		if err != nil {
			t.Fatal(err)
		}
		delimited, err := EncodeToBytes(c, WithContainerCount(false))
		if err != nil {
			t.Fatal(err)
		}
		dc, err := DecodeFromBytes(counted)
		if err != nil {
			t.Fatal(err)
		}
		dd, err := DecodeFromBytes(delimited)
		if err != nil {
			t.Fatal(err)
		}
		if !Equal(dc, dd) {
			t.Fatalf("counted/delimited mismatch for %#v: %#v vs %#v", c, dc, dd)
		}
	}
}

func TestSortKeysStableAcrossInsertionOrder(t *testing.T) {
	a := Object{{Key: "z", Val: Int64(1)}, {Key: "a", Val: Int64(2)}, {Key: "m", Val: Int64(3)}}
	b := Object{{Key: "a", Val: Int64(2)}, {Key: "m", Val: Int64(3)}, {Key: "z", Val: Int64(1)}}
	ea, err := EncodeToBytes(a, WithSortKeys(true))
	if err != nil {
		t.Fatal(err)
	}
	eb, err := EncodeToBytes(b, WithSortKeys(true))
	if err != nil {
		t.Fatal(err)
	}
	if string(ea) != string(eb) {
		t.Fatalf("sort_keys should make key order irrelevant: % X vs % X", ea, eb)
	}
}
