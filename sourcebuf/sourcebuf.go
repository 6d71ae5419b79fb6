// Package sourcebuf buffers source text line-by-line so diagnostics can
// render snippet excerpts around a span. Adapted from openllb/hlb's
// pkg/filebuffer, stripped of its BuildKit SourceMap caching (no build-graph
// backend exists downstream of this interpreter).
package sourcebuf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/ape-lang/ape/token"
)

type buffersKey struct{}

// WithBuffers attaches a Lookup to ctx.
func WithBuffers(ctx context.Context, buffers *Lookup) context.Context {
	return context.WithValue(ctx, buffersKey{}, buffers)
}

// Buffers retrieves the Lookup attached to ctx, or a fresh empty one.
func Buffers(ctx context.Context) *Lookup {
	buffers, ok := ctx.Value(buffersKey{}).(*Lookup)
	if !ok {
		return NewLookup()
	}
	return buffers
}

// Lookup maps filenames to their Buffer, shared across a parse/eval run so
// diagnostics from any subsystem can render a snippet for any source file.
type Lookup struct {
	bufs map[string]*Buffer
	mu   sync.Mutex
}

func NewLookup() *Lookup {
	return &Lookup{bufs: make(map[string]*Buffer)}
}

func (l *Lookup) Get(filename string) *Buffer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bufs[filename]
}

func (l *Lookup) Set(filename string, b *Buffer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bufs[filename] = b
}

func (l *Lookup) All() []*Buffer {
	var names []string
	for name := range l.bufs {
		names = append(names, name)
	}
	sort.Strings(names)
	var bs []*Buffer
	for _, name := range names {
		bs = append(bs, l.Get(name))
	}
	return bs
}

// Buffer accumulates one file's bytes and indexes the offset of every
// newline so that Line and Position can find a line's start by index.
type Buffer struct {
	filename string
	buf      bytes.Buffer
	offset   int
	offsets  []int
	mu       sync.Mutex
}

func New(filename string) *Buffer {
	return &Buffer{filename: filename}
}

func (b *Buffer) Filename() string { return b.filename }

func (b *Buffer) Len() int { return len(b.offsets) }

func (b *Buffer) Bytes() []byte { return b.buf.Bytes() }

func (b *Buffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, err = b.buf.Write(p)

	start := 0
	index := bytes.IndexByte(p[:n], byte('\n'))
	for index >= 0 {
		b.offsets = append(b.offsets, b.offset+start+index)
		start += index + 1
		index = bytes.IndexByte(p[start:n], byte('\n'))
	}
	b.offset += n

	return n, err
}

// Position converts a (line, column) pair into a full token.Position,
// resolving the byte offset from the newline index.
func (b *Buffer) Position(line, column int) token.Position {
	var offset int
	if line-2 < 0 {
		offset = column - 1
	} else {
		offset = b.offsets[line-2] + column - 1
	}
	return token.Position{
		Filename: b.filename,
		Offset:   offset,
		Line:     line,
		StartCol: column,
		EndCol:   column,
	}
}

// Line returns the 1-indexed line ln, excluding its trailing newline.
func (b *Buffer) Line(ln int) ([]byte, error) {
	if ln < 1 || ln > len(b.offsets)+1 {
		return nil, fmt.Errorf("line %d outside of offsets", ln)
	}

	start := 0
	if ln > 1 {
		start = b.offsets[ln-2] + 1
	}

	end := b.buf.Len()
	if ln <= len(b.offsets) {
		end = b.offsets[ln-1]
	}

	return b.read(start, end)
}

func (b *Buffer) read(start, end int) ([]byte, error) {
	r := bytes.NewReader(b.buf.Bytes())

	_, err := r.Seek(int64(start), io.SeekStart)
	if err != nil {
		return nil, err
	}

	line := make([]byte, end-start)
	n, err := r.Read(line)
	if err != nil && err != io.EOF {
		return nil, err
	}

	return line[:n], nil
}
