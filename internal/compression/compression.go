// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package compression decodes the compressed manifest payloads served by the
// bundle sources. Brotli and Zstandard are supported.
package compression

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

const (
	// Identity is the name of an uncompressed payload.
	Identity = "identity"
	// Brotli is the name of the Brotli algorithm.
	// Reference: https://www.iana.org/assignments/http-parameters/http-parameters.xml#content-coding
	Brotli = "br"
	// Zstd is the name of the Zstandard algorithm.
	Zstd = "zstd"
)

// maxDecoderMemory bounds the memory a single zstd frame may claim.
const maxDecoderMemory = 64 << 20

var brotliReaderPool = sync.Pool{
	New: func() any {
		return brotli.NewReader(nil)
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxDecoderMemory),
		)
		if err != nil {
			return nil
		}
		return dec
	},
}

// Supported reports whether the given encoding can be decoded.
func Supported(encoding string) bool {
	switch normalize(encoding) {
	case "", Identity, Brotli, Zstd:
		return true
	default:
		return false
	}
}

// FromExtension maps a file extension (".br", ".zst") to an encoding.
// It returns Identity for anything else.
func FromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".br":
		return Brotli
	case ".zst", ".zstd":
		return Zstd
	default:
		return Identity
	}
}

// NewReader wraps r with a decoder for encoding. Closing the returned reader
// releases the pooled decoder; it does not close r.
func NewReader(encoding string, r io.Reader) (io.ReadCloser, error) {
	switch normalize(encoding) {
	case "", Identity:
		return io.NopCloser(r), nil
	case Brotli:
		reader := brotliReaderPool.Get().(*brotli.Reader)
		if err := reader.Reset(r); err != nil {
			return nil, err
		}
		return &brotliReadCloser{Reader: reader}, nil
	case Zstd:
		dec, ok := zstdDecoderPool.Get().(*zstd.Decoder)
		if !ok || dec == nil {
			return nil, fmt.Errorf("failed to create the zstd decoder")
		}
		if err := dec.Reset(r); err != nil {
			zstdDecoderPool.Put(dec)
			return nil, err
		}
		return &zstdReadCloser{decoder: dec}, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

// Decode decompresses payload according to encoding.
func Decode(encoding string, payload []byte) ([]byte, error) {
	reader, err := NewReader(encoding, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// Encode compresses payload. It is used by tooling that publishes manifests.
func Encode(encoding string, payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	switch normalize(encoding) {
	case "", Identity:
		return payload, nil
	case Brotli:
		writer := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
		if _, err := writer.Write(payload); err != nil {
			return nil, err
		}
		if err := writer.Close(); err != nil {
			return nil, err
		}
	case Zstd:
		encoder, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, err
		}
		if _, err := encoder.Write(payload); err != nil {
			_ = encoder.Close()
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
	return buf.Bytes(), nil
}

func normalize(encoding string) string {
	return strings.ToLower(strings.TrimSpace(encoding))
}

type brotliReadCloser struct {
	*brotli.Reader
	once sync.Once
}

func (b *brotliReadCloser) Close() error {
	b.once.Do(func() {
		_ = b.Reader.Reset(nil)
		brotliReaderPool.Put(b.Reader)
	})
	return nil
}

type zstdReadCloser struct {
	decoder *zstd.Decoder
	once    sync.Once
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.decoder.Read(p)
}

func (z *zstdReadCloser) Close() error {
	z.once.Do(func() {
		// a decoder stays reusable as long as Close is not called on it
		_ = z.decoder.Reset(nil)
		zstdDecoderPool.Put(z.decoder)
	})
	return nil
}
