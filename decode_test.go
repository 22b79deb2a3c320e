// Copyright 2013 Seth Bunce. All rights reserved. Use of this source code is
// governed by a BSD-style license that can be found in the LICENSE file.

package ubjson

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeScalars(t *testing.T) {
	v, err := DecodeFromBytes([]byte{0x54})
	if err != nil || v != Bool(true) {
		t.Fatalf("true: %v, %v", v, err)
	}
	v, err = DecodeFromBytes([]byte{0x46})
	if err != nil || v != Bool(false) {
		t.Fatalf("false: %v, %v", v, err)
	}
	v, err = DecodeFromBytes([]byte{0x5A})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(Null); !ok {
		t.Fatalf("null: got %T", v)
	}
}

func TestDecodeTypedNullArray(t *testing.T) {
	b := []byte{0x5B, 0x24, 0x5A, 0x23, 0x55, 0x05}
	v, err := DecodeFromBytes(b)
	if err != nil {
		t.Fatal(err)
	}
	a, ok := v.(Array)
	if !ok || len(a) != 5 {
		t.Fatalf("got %#v", v)
	}
	for _, e := range a {
		if _, ok := e.(Null); !ok {
			t.Fatalf("element %#v is not Null", e)
		}
	}
}

func TestDecodeTypedObject(t *testing.T) {
	b := []byte{
		0x7B, 0x24, 0x69, 0x23, 0x55, 0x03,
		0x55, 0x02, 'a', 'a', 0x01,
		0x55, 0x02, 'b', 'b', 0x02,
		0x55, 0x02, 'c', 'c', 0x03,
	}
	v, err := DecodeFromBytes(b)
	if err != nil {
		t.Fatal(err)
	}
	o, ok := v.(Object)
	if !ok || len(o) != 3 {
		t.Fatalf("got %#v", v)
	}
	want := Object{
		{Key: "aa", Val: Int64(1)},
		{Key: "bb", Val: Int64(2)},
		{Key: "cc", Val: Int64(3)},
	}
	if !Equal(o, want) {
		t.Fatalf("got %#v, want %#v", o, want)
	}
}

func TestDecodeInvalidFixedTypeMarker(t *testing.T) {
	_, err := DecodeFromBytes([]byte{0x5B, 0x24, 0x01})
	if err == nil {
		t.Fatal("expected DecoderError")
	}
	var derr *DecoderError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DecoderError, got %T", err)
	}
}

func TestDecodeTrailingInputTolerated(t *testing.T) {
	b := bytesRepeat(0x54, 10)
	v, err := DecodeFromBytes(b)
	if err != nil {
		t.Fatal(err)
	}
	if v != Bool(true) {
		t.Fatalf("got %#v", v)
	}
}

func TestDecodeStrictRejectsTrailingInput(t *testing.T) {
	b := bytesRepeat(0x54, 10)
	_, err := DecodeFromBytes(b, WithStrict(true))
	if !errors.Is(err, ErrTrailingData) {
		t.Fatalf("expected ErrTrailingData, got %v", err)
	}
}

func TestDecodeNoOpTolerance(t *testing.T) {
	b := []byte{'N', 'N', 0x54}
	v, err := DecodeFromBytes(b)
	if err != nil {
		t.Fatal(err)
	}
	if v != Bool(true) {
		t.Fatalf("got %#v", v)
	}
}

func TestDecodeFailureCases(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
	}{
		{"empty", []byte{}},
		{"unknown marker", []byte{0x01}},
		{"truncated int", []byte{'l', 0x00, 0x01}},
		{"truncated string length", []byte{'S', 'U'}},
		{"invalid utf8", []byte{'S', 'U', 0x01, 0xff}},
		{"bad decimal", []byte{'H', 'U', 0x03, 'x', 'x', 'x'}},
		{"typed missing count", []byte{'[', '$', 'Z', 'Z'}},
		{"non-ascii char", []byte{'C', 0x80}},
		{"negative length", []byte{'S', 'i', 0xff}},
	}
	for _, c := range cases {
		_, err := DecodeFromBytes(c.in)
		if err == nil {
			t.Errorf("%s: expected error", c.name)
			continue
		}
		var derr *DecoderError
		if !errors.As(err, &derr) {
			t.Errorf("%s: expected *DecoderError, got %T (%v)", c.name, err, err)
		}
	}
}

func TestDecodeFuzzSafetyShortInputs(t *testing.T) {
	check := func(b []byte) {
		_, err := DecodeFromBytes(b)
		if err == nil {
			return
		}
		var derr *DecoderError
		if !errors.As(err, &derr) {
			t.Fatalf("input % X: got non-DecoderError %T: %v", b, err, err)
		}
	}
	check(nil)
	for a := 0; a <= 255; a++ {
		check([]byte{byte(a)})
	}
	for a := 0; a <= 255; a++ {
		for b := 0; b <= 255; b++ {
			check([]byte{byte(a), byte(b)})
		}
	}
}

func TestDecodeNoBytesOption(t *testing.T) {
	b, err := EncodeToBytes(Bytes{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	v, err := DecodeFromBytes(b, WithNoBytes(true))
	if err != nil {
		t.Fatal(err)
	}
	a, ok := v.(Array)
	if !ok || len(a) != 3 {
		t.Fatalf("WithNoBytes should decode a plain Array, got %#v", v)
	}
}

func TestDecodeObjectPairsHook(t *testing.T) {
	b, err := EncodeToBytes(Object{{Key: "a", Val: Int64(1)}})
	if err != nil {
		t.Fatal(err)
	}
	v, err := DecodeFromBytes(b, WithObjectPairsHook(func(o Object) (Value, error) {
		return String("replaced"), nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if v != String("replaced") {
		t.Fatalf("got %#v", v)
	}
}

func TestDecodeFromSourceStreaming(t *testing.T) {
	enc, err := EncodeToBytes(Array{Int64(1), Int64(2)})
	if err != nil {
		t.Fatal(err)
	}
	v, err := DecodeFromSource(bytes.NewReader(enc))
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(v, Array{Int64(1), Int64(2)}) {
		t.Fatalf("got %#v", v)
	}
}

func bytesRepeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
