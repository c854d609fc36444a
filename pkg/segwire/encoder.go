package segwire

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/rawbytedev/segment"
	"github.com/rawbytedev/segment/internal/common"
)

// Encode serializes the elements of v into a frame.
func Encode[T Fixed](c *Codec, v segment.Segment[T]) ([]byte, error) {
	kind := common.KindOf[T]()
	width := common.FixedSize(kind)

	elems := contiguous(v)
	raw := make([]byte, 0, len(elems)*width)
	raw, err := binary.Append(raw, binary.LittleEndian, elems)
	if err != nil {
		return nil, fmt.Errorf("segwire: encode %s: %w", kind, err)
	}

	var flags byte
	payload := raw
	if c.Opts.Compress {
		if c.enc == nil {
			return nil, fmt.Errorf("segwire: codec built without compression")
		}
		payload = c.enc.EncodeAll(raw, make([]byte, 0, len(raw)/2+16))
		flags |= FlagCompressed
	}

	out := make([]byte, 0, headerSize+10+1+payloadAlign+len(payload)+crcSize)
	out = append(out, Magic0, Magic1, TypeData)
	// length placeholder
	out = binary.LittleEndian.AppendUint32(out, 0)
	out = append(out, flags, byte(kind))
	out = common.WriteVarUintTo(out, uint64(len(elems)))

	pad := common.Align(len(out)+1, payloadAlign) - (len(out) + 1)
	out = append(out, byte(pad))
	out = append(out, make([]byte, pad)...)
	out = append(out, payload...)

	total := uint32(len(out) + crcSize)
	binary.LittleEndian.PutUint32(out[3:], total)
	out = binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(out[2:]))
	return out, nil
}

// contiguous returns the view's elements as one slice, borrowing the
// backing array when the source is a plain slice.
func contiguous[T any](v segment.Segment[T]) []T {
	if src, ok := v.Source().(segment.Slice[T]); ok {
		return src.Slice()[v.Offset() : v.Offset()+v.Len()]
	}
	out := make([]T, v.Len())
	v.CopyTo(out)
	return out
}
