// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package ubjson

import (
	"github.com/OpenJData/go-ubjson/internal/transport"
)

// EncodeToZstdBytes encodes v exactly as EncodeToBytes does, then compresses
// the result with zstd. The wire bytes the decoder sees after decompression
// are bit-identical to EncodeToBytes's output; compression only affects how
// the document is stored or shipped, never the UBJSON encoding itself.
func EncodeToZstdBytes(v Value, opts ...EncodeOption) ([]byte, error) {
	plain, err := EncodeToBytes(v, opts...)
	if err != nil {
		return nil, err
	}
	return transport.CompressBytes(plain)
}

// DecodeFromZstdBytes reverses EncodeToZstdBytes: it decompresses compressed
// with zstd, then decodes the result exactly as DecodeFromBytes does.
func DecodeFromZstdBytes(compressed []byte, opts ...DecodeOption) (Value, error) {
	plain, err := transport.DecompressBytes(compressed)
	if err != nil {
		return nil, decErr(0, err)
	}
	return DecodeFromBytes(plain, opts...)
}

// EncodeToZstdSink encodes v and writes the zstd-compressed result to sink in
// one call, streaming the compression rather than buffering the compressed
// form in memory first.
func EncodeToZstdSink(sink Sink, v Value, opts ...EncodeOption) error {
	plain, err := EncodeToBytes(v, opts...)
	if err != nil {
		return err
	}
	w, err := transport.NewZstdSink(sink)
	if err != nil {
		return err
	}
	if _, err := w.Write(plain); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// DecodeFromZstdSource reads a zstd-compressed UBJSON document from src and
// decodes a single top-level value from the decompressed stream.
func DecodeFromZstdSource(src Source, opts ...DecodeOption) (Value, error) {
	r, err := transport.NewZstdSource(src)
	if err != nil {
		return nil, decErr(0, err)
	}
	return DecodeFromSource(r, opts...)
}
