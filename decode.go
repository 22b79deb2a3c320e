// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ubjson

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// maxContainerDepth bounds recursive container nesting. Exceeding it is a
// DecoderError, never a stack overflow.
const maxContainerDepth = 10000

// maxPrealloc caps the capacity hint taken from an attacker-controlled count
// prefix before any element has actually been read.
const maxPrealloc = 1 << 16

// DecodeFromBytes decodes a single top-level value from a complete buffer.
// With the default options, bytes remaining after the value are ignored;
// see WithStrict.
func DecodeFromBytes(b []byte, opts ...DecodeOption) (Value, error) {
	var cfg decConfig
	for _, o := range opts {
		o(&cfg)
	}
	d := newDecoder(bufio.NewReader(bytes.NewReader(b)), int64(len(b)), cfg)
	v, err := d.readValue()
	if err != nil {
		return nil, err
	}
	if cfg.strict {
		if _, err := d.rd.ReadByte(); err != io.EOF {
			if err != nil {
				return nil, decErr(d.pos, err)
			}
			return nil, decErr(d.pos, ErrTrailingData)
		}
	}
	return v, nil
}

// DecodeFromSource reads a single top-level value from src, consuming only
// what the value requires. Strict has no effect here: a source is read
// incrementally and trailing bytes are simply never touched.
func DecodeFromSource(src Source, opts ...DecodeOption) (Value, error) {
	var cfg decConfig
	for _, o := range opts {
		o(&cfg)
	}
	d := newDecoder(bufio.NewReader(src), -1, cfg)
	return d.readValue()
}

// decoder reads one UBJSON document from rd. known is the total input
// length when it is known up front (DecodeFromBytes), or -1 for a streamed
// source, in which case length prefixes cannot be pre-validated against
// remaining input and truncation is instead detected by a short read.
type decoder struct {
	rd    *bufio.Reader
	pos   int64
	known int64
	cfg   decConfig
	depth int
}

func newDecoder(rd *bufio.Reader, known int64, cfg decConfig) *decoder {
	return &decoder{rd: rd, known: known, cfg: cfg}
}

func (d *decoder) errf(err error) error {
	return decErr(d.pos, err)
}

// wrapTruncated turns an io.EOF/io.ErrUnexpectedEOF from a short read into
// ErrTruncated; any other error (e.g. from a caller's Source) passes through
// wrapped in a DecoderError.
func (d *decoder) wrapTruncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return d.errf(ErrTruncated)
	}
	return d.errf(err)
}

// readRawMarker reads exactly one byte as a marker, with no no-op
// tolerance: used at positions where the grammar requires a specific
// literal byte ("#" after a fixed element type, the type byte itself).
func (d *decoder) readRawMarker() (Marker, error) {
	b, err := d.rd.ReadByte()
	if err != nil {
		return 0, d.wrapTruncated(err)
	}
	d.pos++
	return Marker(b), nil
}

// readMarker reads one marker at a position where a value (or, for
// containers, a closing delimiter) is expected, silently skipping any
// number of "N" no-op fillers first.
func (d *decoder) readMarker() (Marker, error) {
	for {
		b, err := d.rd.ReadByte()
		if err != nil {
			if d.pos == 0 {
				return 0, d.errf(ErrEmptyInput)
			}
			return 0, d.wrapTruncated(err)
		}
		d.pos++
		if Marker(b) == mNoOp {
			continue
		}
		return Marker(b), nil
	}
}

// checkLength reports a DecoderError if n is known to exceed the bytes
// remaining in the input; it is a no-op when the total input length isn't
// known up front (streaming decode), where a short read surfaces the same
// failure once it's reached.
func (d *decoder) checkLength(n int64) error {
	if d.known >= 0 && n > d.known-d.pos {
		return d.errf(ErrTruncated)
	}
	return nil
}

func clampCap(n int64) int {
	if n < 0 || n > maxPrealloc {
		return 0
	}
	return int(n)
}

func (d *decoder) enterContainer() error {
	d.depth++
	if d.depth > maxContainerDepth {
		return d.errf(ErrDepthExceeded)
	}
	return nil
}

func (d *decoder) exitContainer() { d.depth-- }

// readIntForMarker reads widthOfMarker(m) big-endian bytes and interprets
// them per m. m must be one of the five integer markers.
func (d *decoder) readIntForMarker(m Marker) (int64, error) {
	w := widthOfMarker(m)
	var tmp [8]byte
	if _, err := io.ReadFull(d.rd, tmp[:w]); err != nil {
		return 0, d.wrapTruncated(err)
	}
	d.pos += int64(w)
	return decodeIntBytes(m, tmp[:w]), nil
}

// readLength reads a fresh length/count prefix: a marker introducing one of
// the five integer widths, non-negative. Width minimality is not checked. The
// value is not compared with the remaining input, since a count of "$Z",
// "$T" or "$F" elements has no payload bytes behind it; callers that go on
// to read n payload bytes check that themselves.
func (d *decoder) readLength() (int64, error) {
	m, err := d.readMarker()
	if err != nil {
		return 0, err
	}
	if !isIntegerMarker(m) {
		return 0, d.errf(fmt.Errorf("ubjson: expected length marker, got %q", byte(m)))
	}
	n, err := d.readIntForMarker(m)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, d.errf(ErrNegativeLength)
	}
	return n, nil
}

// readLengthPrefixedBytes reads a length prefix followed by exactly that
// many raw payload bytes (string, high-precision, or object key payloads).
func (d *decoder) readLengthPrefixedBytes() ([]byte, error) {
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	if err := d.checkLength(n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.rd, buf); err != nil {
		return nil, d.wrapTruncated(err)
	}
	d.pos += n
	return buf, nil
}

func (d *decoder) readLengthPrefixedString() (string, error) {
	b, err := d.readLengthPrefixedBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", d.errf(ErrInvalidUTF8)
	}
	return string(b), nil
}

// readKeyAfterMarker reads an object key whose length-prefix marker m has
// already been consumed (keys have no leading type tag of their own: the
// length marker starts the entry directly).
func (d *decoder) readKeyAfterMarker(m Marker) (string, error) {
	n, err := d.readIntForMarker(m)
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", d.errf(ErrNegativeLength)
	}
	if err := d.checkLength(n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.rd, buf); err != nil {
		return "", d.wrapTruncated(err)
	}
	d.pos += n
	if !utf8.Valid(buf) {
		return "", d.errf(ErrInvalidUTF8)
	}
	key := string(buf)
	if d.cfg.internObjectKeys {
		key = keyTable.Intern(key)
	}
	return key, nil
}

func (d *decoder) readCharBody() (Value, error) {
	b, err := d.rd.ReadByte()
	if err != nil {
		return nil, d.wrapTruncated(err)
	}
	d.pos++
	if b >= 0x80 {
		return nil, d.errf(ErrNonASCIIChar)
	}
	return Char(rune(b)), nil
}

func (d *decoder) readFloatForMarker(m Marker) (Value, error) {
	switch m {
	case mFloat32:
		var tmp [4]byte
		if _, err := io.ReadFull(d.rd, tmp[:]); err != nil {
			return nil, d.wrapTruncated(err)
		}
		d.pos += 4
		return Float(getFloat32(tmp[:])), nil
	case mFloat64:
		var tmp [8]byte
		if _, err := io.ReadFull(d.rd, tmp[:]); err != nil {
			return nil, d.wrapTruncated(err)
		}
		d.pos += 8
		return Float(getFloat64(tmp[:])), nil
	}
	panic("ubjson: readFloatForMarker: not a float marker")
}

// parseHighPrecision parses an "H" payload. "nan"/"inf"/"-inf" decode as
// Float (they are the wire encoding this codec uses for non-finite binary
// floats, matching the source library's float type for these three
// literals); any other valid decimal literal decodes as HighPrecision.
func (d *decoder) parseHighPrecision(s string) (Value, error) {
	switch s {
	case "nan":
		return Float(math.NaN()), nil
	case "inf", "+inf":
		return Float(math.Inf(1)), nil
	case "-inf":
		return Float(math.Inf(-1)), nil
	}
	dec, err := ParseDecimal(s)
	if err != nil {
		return nil, d.errf(fmt.Errorf("%w: %v", ErrBadHighPrecision, err))
	}
	return dec, nil
}

// readValue reads one marker and the value it introduces: the single entry
// point used for every value-shaped position (top level, array/object
// elements in counted or delimited form).
func (d *decoder) readValue() (Value, error) {
	m, err := d.readMarker()
	if err != nil {
		return nil, err
	}
	return d.readValueForMarker(m)
}

func (d *decoder) readValueForMarker(m Marker) (Value, error) {
	switch m {
	case mNull:
		return Null{}, nil
	case mTrue:
		return Bool(true), nil
	case mFalse:
		return Bool(false), nil
	case mUint8, mInt8, mInt16, mInt32, mInt64:
		n, err := d.readIntForMarker(m)
		if err != nil {
			return nil, err
		}
		return Int64(n), nil
	case mFloat32, mFloat64:
		return d.readFloatForMarker(m)
	case mHighPrec:
		s, err := d.readLengthPrefixedString()
		if err != nil {
			return nil, err
		}
		return d.parseHighPrecision(s)
	case mChar:
		return d.readCharBody()
	case mString:
		s, err := d.readLengthPrefixedString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case mArrayStart:
		return d.readArrayBody()
	case mObjectStart:
		return d.readObjectBody()
	default:
		return nil, d.errf(fmt.Errorf("ubjson: unknown marker %q", byte(m)))
	}
}

// readTypedElement reads one element of a "$"-typed container whose element
// kind has already been resolved. Container-kind elements recurse straight
// into the body reader: the fixed type elides only the per-element marker
// byte, never the element's own internal framing.
func (d *decoder) readTypedElement(et Marker, kind Kind) (Value, error) {
	switch kind {
	case KindNull:
		return Null{}, nil
	case KindBool:
		return Bool(et == mTrue), nil
	case KindInt:
		n, err := d.readIntForMarker(et)
		if err != nil {
			return nil, err
		}
		return Int64(n), nil
	case KindFloat:
		return d.readFloatForMarker(et)
	case KindHighPrecision:
		s, err := d.readLengthPrefixedString()
		if err != nil {
			return nil, err
		}
		return d.parseHighPrecision(s)
	case KindChar:
		return d.readCharBody()
	case KindString:
		s, err := d.readLengthPrefixedString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case KindArray:
		return d.readArrayBody()
	case KindObject:
		return d.readObjectBody()
	}
	panic("ubjson: readTypedElement: invalid kind")
}

// isByteTyped reports whether a "$"-typed element kind/marker pair is the
// byte-sequence convention (typed int8, or typed uint8 for encoders that
// used WithUint8Bytes).
func isByteTyped(kind Kind, et Marker) bool {
	return kind == KindInt && (et == mInt8 || et == mUint8)
}

func (d *decoder) readArrayBody() (Value, error) {
	if err := d.enterContainer(); err != nil {
		return nil, err
	}
	defer d.exitContainer()

	m, err := d.readMarker()
	if err != nil {
		return nil, err
	}
	switch m {
	case mFixedType:
		return d.readTypedArrayBody()
	case mCount:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		return d.readCountedArrayBody(n)
	default:
		return d.readDelimitedArrayBody(m)
	}
}

func (d *decoder) readTypedArrayBody() (Value, error) {
	et, err := d.readRawMarker()
	if err != nil {
		return nil, err
	}
	kind, ok := typeMarkerKind(et)
	if !ok {
		return nil, d.errf(fmt.Errorf("ubjson: invalid fixed-type marker %q", byte(et)))
	}
	hm, err := d.readRawMarker()
	if err != nil {
		return nil, err
	}
	if hm != mCount {
		return nil, d.errf(ErrMissingCount)
	}
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	if isByteTyped(kind, et) && !d.cfg.noBytes {
		if err := d.checkLength(n); err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.rd, buf); err != nil {
			return nil, d.wrapTruncated(err)
		}
		d.pos += n
		return Bytes(buf), nil
	}
	out := make(Array, 0, clampCap(n))
	for i := int64(0); i < n; i++ {
		v, err := d.readTypedElement(et, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *decoder) readCountedArrayBody(n int64) (Value, error) {
	out := make(Array, 0, clampCap(n))
	for i := int64(0); i < n; i++ {
		v, err := d.readValue()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *decoder) readDelimitedArrayBody(first Marker) (Value, error) {
	var out Array
	m := first
	for {
		if m == mArrayEnd {
			return out, nil
		}
		v, err := d.readValueForMarker(m)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		m, err = d.readMarker()
		if err != nil {
			return nil, err
		}
	}
}

func (d *decoder) readObjectBody() (Value, error) {
	if err := d.enterContainer(); err != nil {
		return nil, err
	}
	defer d.exitContainer()

	m, err := d.readMarker()
	if err != nil {
		return nil, err
	}
	var v Value
	switch m {
	case mFixedType:
		v, err = d.readTypedObjectBody()
	case mCount:
		var n int64
		n, err = d.readLength()
		if err == nil {
			v, err = d.readCountedObjectBody(n)
		}
	default:
		v, err = d.readDelimitedObjectBody(m)
	}
	if err != nil {
		return nil, err
	}
	if d.cfg.objectPairsHook != nil {
		obj, _ := v.(Object)
		hv, herr := d.cfg.objectPairsHook(obj)
		if herr != nil {
			return nil, d.errf(herr)
		}
		return hv, nil
	}
	return v, nil
}

func (d *decoder) readTypedObjectBody() (Value, error) {
	et, err := d.readRawMarker()
	if err != nil {
		return nil, err
	}
	kind, ok := typeMarkerKind(et)
	if !ok {
		return nil, d.errf(fmt.Errorf("ubjson: invalid fixed-type marker %q", byte(et)))
	}
	hm, err := d.readRawMarker()
	if err != nil {
		return nil, err
	}
	if hm != mCount {
		return nil, d.errf(ErrMissingCount)
	}
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	out := make(Object, 0, clampCap(n))
	for i := int64(0); i < n; i++ {
		km, err := d.readMarker()
		if err != nil {
			return nil, err
		}
		if !isIntegerMarker(km) {
			return nil, d.errf(fmt.Errorf("ubjson: expected object key, got marker %q", byte(km)))
		}
		key, err := d.readKeyAfterMarker(km)
		if err != nil {
			return nil, err
		}
		val, err := d.readTypedElement(et, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, Pair{Key: key, Val: val})
	}
	return out, nil
}

func (d *decoder) readCountedObjectBody(n int64) (Value, error) {
	out := make(Object, 0, clampCap(n))
	for i := int64(0); i < n; i++ {
		km, err := d.readMarker()
		if err != nil {
			return nil, err
		}
		if !isIntegerMarker(km) {
			return nil, d.errf(fmt.Errorf("ubjson: expected object key, got marker %q", byte(km)))
		}
		key, err := d.readKeyAfterMarker(km)
		if err != nil {
			return nil, err
		}
		val, err := d.readValue()
		if err != nil {
			return nil, err
		}
		out = append(out, Pair{Key: key, Val: val})
	}
	return out, nil
}

func (d *decoder) readDelimitedObjectBody(first Marker) (Value, error) {
	var out Object
	m := first
	for {
		if m == mObjectEnd {
			return out, nil
		}
		if !isIntegerMarker(m) {
			return nil, d.errf(fmt.Errorf("ubjson: expected object key, got marker %q", byte(m)))
		}
		key, err := d.readKeyAfterMarker(m)
		if err != nil {
			return nil, err
		}
		val, err := d.readValue()
		if err != nil {
			return nil, err
		}
		out = append(out, Pair{Key: key, Val: val})
		m, err = d.readMarker()
		if err != nil {
			return nil, err
		}
	}
}
