// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ubjson

import (
	"bytes"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"

	"github.com/OpenJData/go-ubjson/internal/keytab"
)

var keyTable = keytab.New()

// EncodeToBytes encodes v as a complete UBJSON document.
func EncodeToBytes(v Value, opts ...EncodeOption) ([]byte, error) {
	e := newEncoder(opts)
	if err := e.encodeVal("", v); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// EncodeToSink encodes v and writes the result to sink in one call. The
// codec makes no assumption about how sink buffers or flushes its writes.
func EncodeToSink(sink Sink, v Value, opts ...EncodeOption) error {
	b, err := EncodeToBytes(v, opts...)
	if err != nil {
		return err
	}
	_, err = sink.Write(b)
	return err
}

type encoder struct {
	cfg  encConfig
	buf  bytes.Buffer
	seen map[uintptr]bool
}

func newEncoder(opts []EncodeOption) *encoder {
	e := &encoder{seen: make(map[uintptr]bool)}
	for _, o := range opts {
		o(&e.cfg)
	}
	return e
}

// encodeVal encodes one value. path is threaded through for error reporting,
// matching catpath's dotted-path convention.
func (e *encoder) encodeVal(path string, src Value) error {
	if src == nil {
		return e.buf.WriteByte(byte(mNull))
	}
	switch srct := src.(type) {
	case Null:
		return e.buf.WriteByte(byte(mNull))
	case Bool:
		return e.encodeBool(bool(srct))
	case bool:
		return e.encodeBool(srct)
	case Char:
		return e.encodeChar(path, srct)
	case Int:
		return e.encodeInt(srct.v)
	case int:
		return e.encodeInt(big.NewInt(int64(srct)))
	case int8:
		return e.encodeInt(big.NewInt(int64(srct)))
	case int16:
		return e.encodeInt(big.NewInt(int64(srct)))
	case int32:
		return e.encodeInt(big.NewInt(int64(srct)))
	case int64:
		return e.encodeInt(big.NewInt(srct))
	case uint:
		return e.encodeInt(new(big.Int).SetUint64(uint64(srct)))
	case uint8:
		return e.encodeInt(big.NewInt(int64(srct)))
	case uint16:
		return e.encodeInt(big.NewInt(int64(srct)))
	case uint32:
		return e.encodeInt(big.NewInt(int64(srct)))
	case uint64:
		return e.encodeInt(new(big.Int).SetUint64(srct))
	case Float:
		return e.encodeFloat(float64(srct))
	case float32:
		return e.encodeFloat(float64(srct))
	case float64:
		return e.encodeFloat(srct)
	case Decimal:
		return e.writeHighPrecisionText(srct.String())
	case String:
		if err := e.buf.WriteByte(byte(mString)); err != nil {
			return err
		}
		return e.writeLengthPrefixed([]byte(srct))
	case string:
		if err := e.buf.WriteByte(byte(mString)); err != nil {
			return err
		}
		return e.writeLengthPrefixed([]byte(srct))
	case Bytes:
		return e.encodeBytes([]byte(srct))
	case []byte:
		return e.encodeBytes(srct)
	case Array:
		return e.encodeArray(path, srct)
	case Object:
		return e.encodeObject(path, srct)
	default:
		return encErr(path, errUnencodable(src))
	}
}

func (e *encoder) encodeBool(v bool) error {
	if v {
		return e.buf.WriteByte(byte(mTrue))
	}
	return e.buf.WriteByte(byte(mFalse))
}

func (e *encoder) encodeChar(path string, c Char) error {
	if c < 0 || c > 0x7f {
		return encErr(path, errCharRange(c))
	}
	if err := e.buf.WriteByte(byte(mChar)); err != nil {
		return err
	}
	return e.buf.WriteByte(byte(c))
}

func (e *encoder) encodeInt(n *big.Int) error {
	if marker, width, ok := selectIntWidth(n); ok {
		if err := e.buf.WriteByte(byte(marker)); err != nil {
			return err
		}
		var tmp [8]byte
		putIntBytes(tmp[:width], marker, n.Int64())
		_, err := e.buf.Write(tmp[:width])
		return err
	}
	return e.writeHighPrecisionText(n.String())
}

func (e *encoder) encodeFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return e.writeHighPrecisionText(nonFiniteText(f))
	}
	if !e.cfg.noFloat32 && float32FitsExactly(f) {
		if err := e.buf.WriteByte(byte(mFloat32)); err != nil {
			return err
		}
		var tmp [4]byte
		putFloat32(tmp[:], float32(f))
		_, err := e.buf.Write(tmp[:])
		return err
	}
	if err := e.buf.WriteByte(byte(mFloat64)); err != nil {
		return err
	}
	var tmp [8]byte
	putFloat64(tmp[:], f)
	_, err := e.buf.Write(tmp[:])
	return err
}

func (e *encoder) writeHighPrecisionText(s string) error {
	if err := e.buf.WriteByte(byte(mHighPrec)); err != nil {
		return err
	}
	return e.writeLengthPrefixed([]byte(s))
}

// writeLengthPrefixed writes the length-prefix form shared by string
// payloads and object keys: a width-minimal integer length followed by the
// raw bytes.
func (e *encoder) writeLengthPrefixed(b []byte) error {
	if err := e.encodeInt(big.NewInt(int64(len(b)))); err != nil {
		return err
	}
	_, err := e.buf.Write(b)
	return err
}

func (e *encoder) encodeBytes(b []byte) error {
	if err := e.buf.WriteByte(byte(mArrayStart)); err != nil {
		return err
	}
	if err := e.buf.WriteByte(byte(mFixedType)); err != nil {
		return err
	}
	elemMarker := Marker('i')
	if e.cfg.uint8Bytes {
		elemMarker = mUint8
	}
	if err := e.buf.WriteByte(byte(elemMarker)); err != nil {
		return err
	}
	if err := e.buf.WriteByte(byte(mCount)); err != nil {
		return err
	}
	if err := e.encodeInt(big.NewInt(int64(len(b)))); err != nil {
		return err
	}
	_, err := e.buf.Write(b)
	return err
}

func (e *encoder) encodeArray(path string, a Array) error {
	pop, err := e.enterContainer(path, a)
	if err != nil {
		return err
	}
	if pop != nil {
		defer pop()
	}
	if err := e.buf.WriteByte(byte(mArrayStart)); err != nil {
		return err
	}
	if e.cfg.containerCount {
		if err := e.buf.WriteByte(byte(mCount)); err != nil {
			return err
		}
		if err := e.encodeInt(big.NewInt(int64(len(a)))); err != nil {
			return err
		}
		for i, elem := range a {
			if err := e.encodeVal(catpath(path, strconv.Itoa(i)), elem); err != nil {
				return err
			}
		}
		return nil
	}
	for i, elem := range a {
		if err := e.encodeVal(catpath(path, strconv.Itoa(i)), elem); err != nil {
			return err
		}
	}
	return e.buf.WriteByte(byte(mArrayEnd))
}

func (e *encoder) encodeObject(path string, o Object) error {
	pop, err := e.enterContainer(path, o)
	if err != nil {
		return err
	}
	if pop != nil {
		defer pop()
	}
	pairs := o
	if e.cfg.sortKeys {
		pairs = make(Object, len(o))
		copy(pairs, o)
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	}
	if err := e.buf.WriteByte(byte(mObjectStart)); err != nil {
		return err
	}
	if e.cfg.containerCount {
		if err := e.buf.WriteByte(byte(mCount)); err != nil {
			return err
		}
		if err := e.encodeInt(big.NewInt(int64(len(pairs)))); err != nil {
			return err
		}
		for _, p := range pairs {
			if err := e.encodeObjectEntry(path, p); err != nil {
				return err
			}
		}
		return nil
	}
	for _, p := range pairs {
		if err := e.encodeObjectEntry(path, p); err != nil {
			return err
		}
	}
	return e.buf.WriteByte(byte(mObjectEnd))
}

func (e *encoder) encodeObjectEntry(path string, p Pair) error {
	key := p.Key
	if e.cfg.internKeys {
		key = keyTable.Intern(key)
	}
	if err := e.writeLengthPrefixed([]byte(key)); err != nil {
		return err
	}
	return e.encodeVal(catpath(path, key), p.Val)
}

// enterContainer records a, detecting cycles via the slice header's backing
// pointer (the identity of the in-progress container, not its path). It
// returns a function that pops the identity again once the container has
// finished encoding, or an error if a is already a currently-open container.
func (e *encoder) enterContainer(path string, a Value) (func(), error) {
	ptr, ok := containerIdentity(a)
	if !ok {
		return nil, nil
	}
	if e.seen[ptr] {
		return nil, encErr(path, ErrCycle)
	}
	e.seen[ptr] = true
	return func() { delete(e.seen, ptr) }, nil
}

func containerIdentity(v Value) (uintptr, bool) {
	switch vt := v.(type) {
	case Array:
		if len(vt) == 0 {
			return 0, false
		}
		return reflect.ValueOf(vt).Pointer(), true
	case Object:
		if len(vt) == 0 {
			return 0, false
		}
		return reflect.ValueOf(vt).Pointer(), true
	}
	return 0, false
}
