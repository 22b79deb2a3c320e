// Package transport provides optional compressed sinks/sources for UBJSON
// documents. Compression happens entirely outside the wire format: the bytes
// a Sink receives or a Source produces are always a plain UBJSON document,
// identical to the uncompressed path.
//
// Grounded on the Compressor/Decompressor wrapping in sneller's compr
// package (zstd.Encoder/zstd.Decoder usage), scaled down to the one codec
// this module needs.
package transport

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
)

// NewZstdSink wraps w so that bytes written to the returned Writer are
// zstd-compressed before reaching w. Callers must Close the returned writer
// to flush the final zstd frame.
func NewZstdSink(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// NewZstdSource wraps r so that reads from the returned Reader yield the
// decompressed document bytes.
func NewZstdSource(r io.Reader) (io.Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &zstdSource{dec: dec}, nil
}

type zstdSource struct {
	dec *zstd.Decoder
}

func (z *zstdSource) Read(p []byte) (int, error) {
	return z.dec.Read(p)
}

// CompressBytes and DecompressBytes are the non-streaming convenience forms,
// used when an already-encoded document is held entirely in memory.
func CompressBytes(plain []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := NewZstdSink(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(plain); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecompressBytes(compressed []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}
