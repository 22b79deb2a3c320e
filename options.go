// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package ubjson

// EncodeOption configures EncodeToBytes/EncodeToSink. Options are applied in
// the order given; later options override earlier ones on conflict.
type EncodeOption func(*encConfig)

type encConfig struct {
	containerCount bool
	sortKeys       bool
	noFloat32      bool
	uint8Bytes     bool
	internKeys     bool
}

// WithContainerCount makes the encoder emit the "#"-counted container form
// (no closing delimiter) instead of the default delimited form.
func WithContainerCount(on bool) EncodeOption {
	return func(c *encConfig) { c.containerCount = on }
}

// WithSortKeys sorts Object keys into code-point order before encoding.
// Without it, keys are emitted in the Object's existing (wire/insertion)
// order.
func WithSortKeys(on bool) EncodeOption {
	return func(c *encConfig) { c.sortKeys = on }
}

// WithNoFloat32 always emits Float values as "D" (float64), never narrowing
// to "d" (float32) even when the value survives the round trip exactly.
func WithNoFloat32(on bool) EncodeOption {
	return func(c *encConfig) { c.noFloat32 = on }
}

// WithUint8Bytes transports Bytes values as a typed "U" (uint8) array
// instead of the default typed "i" (int8) array.
func WithUint8Bytes(on bool) EncodeOption {
	return func(c *encConfig) { c.uint8Bytes = on }
}

// WithInternKeys interns Object keys through the shared key table (see
// internal/keytab) while encoding, so that repeated keys across many
// encoded documents share one backing string.
func WithInternKeys(on bool) EncodeOption {
	return func(c *encConfig) { c.internKeys = on }
}

// DecodeOption configures DecodeFromBytes/DecodeFromSource.
type DecodeOption func(*decConfig)

type decConfig struct {
	noBytes          bool
	internObjectKeys bool
	strict           bool
	objectPairsHook  func(Object) (Value, error)
}

// WithNoBytes disables the typed-int8/uint8-array-is-Bytes recognition rule;
// such arrays decode as a plain Array of Int instead.
func WithNoBytes(on bool) DecodeOption {
	return func(c *decConfig) { c.noBytes = on }
}

// WithInternObjectKeys interns decoded Object keys through the shared key
// table (see internal/keytab), reducing allocations when many documents
// share the same key vocabulary.
func WithInternObjectKeys(on bool) DecodeOption {
	return func(c *decConfig) { c.internObjectKeys = on }
}

// WithStrict makes DecodeFromBytes report ErrTrailingData if bytes remain
// after a complete value has been read. It has no effect on
// DecodeFromSource, which never reads past the value. The default is
// tolerant of trailing bytes, matching streaming use where a decoded value
// is one of several back-to-back values in the source.
func WithStrict(on bool) DecodeOption {
	return func(c *decConfig) { c.strict = on }
}

// WithObjectPairsHook, when set, is called with every decoded Object in
// place of returning it directly; its return value replaces the Object in
// the decoded tree. This mirrors json.Decoder-style transform hooks and lets
// callers fold Objects into their own map/struct representation as they are
// produced, innermost first.
func WithObjectPairsHook(fn func(Object) (Value, error)) DecodeOption {
	return func(c *decConfig) { c.objectPairsHook = fn }
}
