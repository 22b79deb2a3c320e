// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package ubjson

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
)

// selectIntWidth picks the narrowest marker/width pair from §4.2's ordered
// list (U, i, I, l, L) that can hold n, or reports ok=false if n escapes
// int64 range and must be transported as HighPrecision instead.
func selectIntWidth(n *big.Int) (marker Marker, width int, ok bool) {
	if !n.IsInt64() {
		return 0, 0, false
	}
	v := n.Int64()
	switch {
	case v >= 0 && v <= math.MaxUint8:
		return mUint8, 1, true
	case v >= -128 && v < 0:
		return mInt8, 1, true
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return mInt16, 2, true
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return mInt32, 4, true
	default:
		return mInt64, 8, true
	}
}

// putIntBytes writes n's two's-complement big-endian representation for the
// given marker into dst, which must have length equal to the marker's width.
func putIntBytes(dst []byte, marker Marker, n int64) {
	switch marker {
	case mUint8, mInt8:
		dst[0] = byte(n)
	case mInt16:
		binary.BigEndian.PutUint16(dst, uint16(int16(n)))
	case mInt32:
		binary.BigEndian.PutUint32(dst, uint32(int32(n)))
	case mInt64:
		binary.BigEndian.PutUint64(dst, uint64(n))
	}
}

// widthOfMarker returns the number of payload bytes following an integer
// marker, or 0 if m is not one of the five integer markers.
func widthOfMarker(m Marker) int {
	switch m {
	case mUint8, mInt8:
		return 1
	case mInt16:
		return 2
	case mInt32:
		return 4
	case mInt64:
		return 8
	}
	return 0
}

// decodeIntBytes interprets raw (already validated to be widthOfMarker(m)
// bytes long) as the signed/unsigned integer described by marker m.
func decodeIntBytes(m Marker, raw []byte) int64 {
	switch m {
	case mUint8:
		return int64(raw[0])
	case mInt8:
		return int64(int8(raw[0]))
	case mInt16:
		return int64(int16(binary.BigEndian.Uint16(raw)))
	case mInt32:
		return int64(int32(binary.BigEndian.Uint32(raw)))
	case mInt64:
		return int64(binary.BigEndian.Uint64(raw))
	}
	panic("decodeIntBytes: not an integer marker")
}

// float32FitsExactly reports whether f can be represented as a float32
// without any change in value (including sign of zero).
func float32FitsExactly(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return float64(float32(f)) == f
}

func putFloat32(dst []byte, f float32) {
	binary.BigEndian.PutUint32(dst, math.Float32bits(f))
}

func putFloat64(dst []byte, f float64) {
	binary.BigEndian.PutUint64(dst, math.Float64bits(f))
}

func getFloat32(raw []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(raw))
}

func getFloat64(raw []byte) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(raw))
}

// nonFiniteText renders f (already known to be NaN or +/-Inf) as the literal
// high-precision text it travels as on the wire.
func nonFiniteText(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	default:
		return "-inf"
	}
}

func errUnencodable(v interface{}) error {
	return fmt.Errorf("cannot encode %T", v)
}

func errCharRange(c Char) error {
	return fmt.Errorf("char %U out of ASCII range", rune(c))
}
