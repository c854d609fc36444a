// Package segwire frames fixed-width element views for storage or transport.
//
// Frame layout (little endian):
//
//	magic    2B  "SG"
//	type     1B  TypeData
//	length   4B  total frame size including the CRC
//	flags    1B  FlagCompressed
//	kind     1B  reflect.Kind of the element type
//	count    varint element count
//	pad      1B  number of zero bytes that follow
//	padding  aligns the payload to 8 bytes from the frame start
//	payload  elements, or a zstd block of them when compressed
//	crc      4B  CRC32 (IEEE) of everything after the magic
package segwire

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/klauspost/compress/zstd"
)

const (
	Magic0 = 'S'
	Magic1 = 'G'

	TypeData byte = 0x01

	FlagCompressed byte = 0x01

	headerSize   = 9
	crcSize      = 4
	payloadAlign = 8
)

var (
	ErrNotFrame       = errors.New("segwire: not a data frame")
	ErrLengthMismatch = errors.New("segwire: length mismatch")
	ErrChecksum       = errors.New("segwire: crc mismatch")
	ErrKindMismatch   = errors.New("segwire: element kind mismatch")
	ErrTruncated      = errors.New("segwire: truncated frame")
	ErrTooLarge       = errors.New("segwire: decoded payload too large")
)

// DefaultMaxDecodedSize caps the decompressed payload when Options leaves it unset.
const DefaultMaxDecodedSize = 256 << 20

// Fixed lists the element types a frame can carry.
type Fixed interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// Options controls encoding and decoding.
type Options struct {
	// Compress zstd-compresses the payload on encode.
	Compress bool
	// Level is the zstd encoder level; zero means zstd.SpeedDefault.
	Level zstd.EncoderLevel
	// UnsafePrimitives lets Decode return views aliasing the frame (or the
	// decompressed block) instead of copying elements out. The frame must then
	// outlive the view and must not be modified.
	UnsafePrimitives bool
	// CheckAlignment falls back to copying when the payload is not aligned
	// for the element type.
	CheckAlignment bool
	// MaxDecodedSize bounds the payload size Decode accepts, in bytes. Zero
	// means DefaultMaxDecodedSize.
	MaxDecodedSize int
}

// Codec encodes and decodes frames. A Codec is safe for concurrent use.
type Codec struct {
	Opts Options
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// NewCodec builds a Codec. zstd state is only allocated when needed.
func NewCodec(opts Options) (*Codec, error) {
	c := &Codec{Opts: opts}
	if opts.Compress {
		level := opts.Level
		if level == 0 {
			level = zstd.SpeedDefault
		}
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
		if err != nil {
			return nil, fmt.Errorf("segwire: zstd writer: %w", err)
		}
		c.enc = enc
	}
	if c.Opts.MaxDecodedSize <= 0 {
		c.Opts.MaxDecodedSize = DefaultMaxDecodedSize
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(uint64(c.Opts.MaxDecodedSize)))
	if err != nil {
		return nil, fmt.Errorf("segwire: zstd reader: %w", err)
	}
	c.dec = dec
	return c, nil
}

// Close releases the zstd state.
func (c *Codec) Close() error {
	if c.dec != nil {
		c.dec.Close()
	}
	if c.enc != nil {
		return c.enc.Close()
	}
	return nil
}

// Header is the decoded fixed part of a frame.
type Header struct {
	Type   byte
	Length uint32
	Flags  byte
	Kind   reflect.Kind
	Count  uint64
}
