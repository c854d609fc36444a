// Package mmapsrc exposes a memory-mapped file as a segment source, so views
// over file contents are taken without reading the file into memory.
package mmapsrc

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/rawbytedev/segment"
	"github.com/rawbytedev/segment/internal/util"
)

var ErrClosed = errors.New("mmapsrc: file closed")

// File is a read-only mapping of a file. Views taken from it must not be
// used after Close.
type File struct {
	name   string
	file   *os.File
	mapped mmap.MMap
	closed bool
}

var _ segment.Source[byte] = (*File)(nil)

// Open maps the named file read-only.
func Open(name string) (*File, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	m := &File{name: name, file: file}
	// zero-length files cannot be mapped
	if info.Size() == 0 {
		return m, nil
	}
	mapped, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		util.Log.Printf("event!mmapsrc.failed to mmap err=%v filename=%s", err, name)
		file.Close()
		return nil, fmt.Errorf("mmapsrc: map %s: %w", name, err)
	}
	m.mapped = mapped
	return m, nil
}

// Name returns the path the file was opened with.
func (m *File) Name() string { return m.name }

func (m *File) Len() int { return len(m.mapped) }

func (m *File) At(i int) byte { return m.mapped[i] }

// Bytes returns the mapped region. It is invalid after Close.
func (m *File) Bytes() []byte { return m.mapped }

// Segment returns a view over the whole file.
func (m *File) Segment() segment.Segment[byte] {
	s, err := segment.Of[byte](m)
	util.Assert(err == nil, "mmapsrc: non-nil file rejected as source")
	return s
}

// Close unmaps the file and closes it.
func (m *File) Close() error {
	if m.closed {
		return ErrClosed
	}
	m.closed = true
	var err error
	if m.mapped != nil {
		if uerr := m.mapped.Unmap(); uerr != nil {
			util.Log.Printf("event!mmapsrc.failed to unmap err=%v filename=%s", uerr, m.name)
			err = uerr
		}
		m.mapped = nil
	}
	if cerr := m.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Lines splits v on '\n' and yields each line, without its terminator, as a
// view over the same source. A trailing newline does not produce an empty
// final line.
func Lines(v segment.Segment[byte]) iter.Seq[segment.Segment[byte]] {
	return func(yield func(segment.Segment[byte]) bool) {
		rest := v
		for rest.Len() > 0 {
			i := indexNewline(rest)
			if i < 0 {
				yield(rest)
				return
			}
			line, _ := rest.Take(i)
			if !yield(line) {
				return
			}
			rest, _ = rest.Skip(i + 1)
		}
	}
}

func indexNewline(v segment.Segment[byte]) int {
	switch src := v.Source().(type) {
	case *File:
		return bytes.IndexByte(src.mapped[v.Offset():v.Offset()+v.Len()], '\n')
	case segment.Slice[byte]:
		return bytes.IndexByte(src.Slice()[v.Offset():v.Offset()+v.Len()], '\n')
	}
	return v.IndexFunc(func(b byte) bool { return b == '\n' })
}
