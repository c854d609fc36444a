package segwire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"reflect"

	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/segment"
	"github.com/rawbytedev/segment/internal/common"
)

// ParseHeader validates the frame envelope and returns its header together
// with the payload bytes (still compressed if the frame says so).
func ParseHeader(frame []byte) (Header, []byte, error) {
	var h Header
	if len(frame) < headerSize+crcSize {
		return h, nil, ErrTruncated
	}
	if frame[0] != Magic0 || frame[1] != Magic1 || frame[2] != TypeData {
		return h, nil, ErrNotFrame
	}
	h.Type = frame[2]
	h.Length = binary.LittleEndian.Uint32(frame[3:])
	if int(h.Length) != len(frame) {
		return h, nil, fmt.Errorf("%w: header says %d, got %d", ErrLengthMismatch, h.Length, len(frame))
	}
	end := len(frame) - crcSize
	want := binary.LittleEndian.Uint32(frame[end:])
	if crc32.ChecksumIEEE(frame[2:end]) != want {
		return h, nil, ErrChecksum
	}
	h.Flags = frame[7]
	h.Kind = reflect.Kind(frame[8])
	if !common.IsFixedKind(h.Kind) {
		return h, nil, fmt.Errorf("%w: %s is not a fixed-width kind", ErrKindMismatch, h.Kind)
	}

	pos := headerSize
	count, n := common.ReadVarUint(frame[pos:end])
	if n == 0 {
		return h, nil, ErrTruncated
	}
	h.Count = count
	pos += n
	if pos >= end {
		return h, nil, ErrTruncated
	}
	pos += 1 + int(frame[pos])
	if pos > end {
		return h, nil, ErrTruncated
	}
	return h, frame[pos:end], nil
}

// Decode returns a view over the elements carried by frame.
func Decode[T Fixed](c *Codec, frame []byte) (segment.Segment[T], error) {
	h, payload, err := ParseHeader(frame)
	if err != nil {
		return segment.Segment[T]{}, err
	}
	kind := common.KindOf[T]()
	if h.Kind != kind {
		return segment.Segment[T]{}, fmt.Errorf("%w: frame holds %s, want %s", ErrKindMismatch, h.Kind, kind)
	}
	width := common.FixedSize(kind)
	if h.Count > uint64(c.Opts.MaxDecodedSize/width) {
		return segment.Segment[T]{}, fmt.Errorf("%w: %d elements of %d bytes", ErrTooLarge, h.Count, width)
	}
	if h.Flags&FlagCompressed != 0 {
		payload, err = c.decompress(payload, int(h.Count)*width)
		if err != nil {
			return segment.Segment[T]{}, err
		}
	}
	if h.Count > uint64(len(payload)/width) || len(payload) != int(h.Count)*width {
		return segment.Segment[T]{}, fmt.Errorf("%w: %d elements of %d bytes in %d byte payload", ErrTruncated, h.Count, width, len(payload))
	}
	n := int(h.Count)

	if c.canAlias(kind, payload, width) {
		return segment.FromSlice(common.AliasFixed[T](payload, n)), nil
	}
	out := make([]T, n)
	if _, err := binary.Decode(payload, binary.LittleEndian, out); err != nil {
		return segment.Segment[T]{}, fmt.Errorf("segwire: decode %s: %w", kind, err)
	}
	return segment.FromSlice(out), nil
}

// decompress inflates a zstd payload that must hold exactly want bytes. The
// declared content size is checked before any output is allocated.
func (c *Codec) decompress(payload []byte, want int) ([]byte, error) {
	// zstd writes nothing for empty input
	if len(payload) == 0 {
		return payload, nil
	}
	var zh zstd.Header
	if err := zh.Decode(payload); err != nil {
		return nil, fmt.Errorf("%w: zstd header: %v", ErrTruncated, err)
	}
	if zh.HasFCS && zh.FrameContentSize != uint64(want) {
		return nil, fmt.Errorf("%w: zstd frame holds %d bytes, header counts %d", ErrTooLarge, zh.FrameContentSize, want)
	}
	out, err := c.dec.DecodeAll(payload, make([]byte, 0, want))
	if err != nil {
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrTooLarge, err)
		}
		return nil, fmt.Errorf("segwire: zstd: %w", err)
	}
	return out, nil
}

func (c *Codec) canAlias(kind reflect.Kind, payload []byte, width int) bool {
	if !c.Opts.UnsafePrimitives || kind == reflect.Bool || !common.LittleEndianHost() {
		return false
	}
	if c.Opts.CheckAlignment && !common.Aligned(payload, width) {
		return false
	}
	return true
}
