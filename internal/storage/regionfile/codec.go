package regionfile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec selects how region streams are encoded on disk.
type Codec string

const (
	CodecNone Codec = "none"
	CodecZstd Codec = "zstd"
	CodecLZ4  Codec = "lz4"
)

// ParseCodec accepts "", "none", "zstd" and "lz4".
func ParseCodec(s string) (Codec, error) {
	switch Codec(s) {
	case "", CodecNone:
		return CodecNone, nil
	case CodecZstd, CodecLZ4:
		return Codec(s), nil
	}
	return "", fmt.Errorf("regionfile: unknown codec %q", s)
}

// Ext is appended to Region-x-y-z.bin so each encoding has its own file.
func (c Codec) Ext() string {
	switch c {
	case CodecZstd:
		return ".zst"
	case CodecLZ4:
		return ".lz4"
	}
	return ""
}

type codec interface {
	encode(data []byte) ([]byte, error)
	decode(data []byte) ([]byte, error)
	close()
}

func newCodec(c Codec) (codec, error) {
	switch c {
	case CodecNone:
		return rawCodec{}, nil
	case CodecZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			_ = enc.Close()
			return nil, err
		}
		return &zstdCodec{enc: enc, dec: dec}, nil
	case CodecLZ4:
		return lz4Codec{}, nil
	}
	return nil, fmt.Errorf("regionfile: unknown codec %q", c)
}

type rawCodec struct{}

func (rawCodec) encode(data []byte) ([]byte, error) { return data, nil }
func (rawCodec) decode(data []byte) ([]byte, error) { return data, nil }
func (rawCodec) close()                             {}

type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func (z *zstdCodec) encode(data []byte) ([]byte, error) { return z.enc.EncodeAll(data, nil), nil }
func (z *zstdCodec) decode(data []byte) ([]byte, error) { return z.dec.DecodeAll(data, nil) }

func (z *zstdCodec) close() {
	_ = z.enc.Close()
	z.dec.Close()
}

// lz4Codec uses the lz4 frame format, which carries its own checksums.
type lz4Codec struct{}

func (lz4Codec) encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lz4Codec) decode(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}

func (lz4Codec) close() {}
