package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Compression selects how the input stream is decoded.
type Compression string

const (
	Auto Compression = "auto"
	Zstd Compression = "zstd"
	None Compression = "none"
)

// maxLineSize bounds a single record.
const maxLineSize = 1 << 20

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ParseCompression validates a configured compression name. Empty means Auto.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case "":
		return Auto, nil
	case Auto, Zstd, None:
		return c, nil
	}
	return "", fmt.Errorf("unknown compression %q", s)
}

// Line is one non-blank input line. Number is the 1-based physical line
// within Source.
type Line struct {
	Source string
	Number int
	Text   string
}

// Option configures a Reader.
type Option func(*options)

type options struct {
	compression Compression
	skipHeader  bool
}

// WithCompression forces the decoding mode.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithSkipHeader controls whether the first line is dropped. Default true.
func WithSkipHeader(skip bool) Option {
	return func(o *options) { o.skipHeader = skip }
}

// Reader yields trimmed, non-blank lines from a possibly compressed stream.
type Reader struct {
	name    string
	file    *os.File
	dec     *zstd.Decoder
	scanner *bufio.Scanner

	skipHeader bool
	lineNo     int
	err        error
}

// Open opens path for reading. With Auto compression a ".zst" or ".zstd"
// extension selects zstd; otherwise the stream is sniffed.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	o := buildOptions(opts)
	if o.compression == Auto && (strings.HasSuffix(path, ".zst") || strings.HasSuffix(path, ".zstd")) {
		opts = append(opts, WithCompression(Zstd))
	}

	r, err := NewReader(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	r.name = path
	return r, nil
}

// NewReader wraps an already open stream. The caller keeps ownership of r.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	o := buildOptions(opts)

	br := bufio.NewReader(r)
	compression := o.compression
	if compression == Auto {
		compression = None
		if magic, err := br.Peek(len(zstdMagic)); err == nil && bytes.Equal(magic, zstdMagic) {
			compression = Zstd
		}
	}

	rd := &Reader{skipHeader: o.skipHeader}
	var in io.Reader = br
	if compression == Zstd {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		rd.dec = dec
		in = dec
	}

	rd.scanner = bufio.NewScanner(in)
	rd.scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return rd, nil
}

func buildOptions(opts []Option) options {
	o := options{compression: Auto, skipHeader: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Next returns the next non-blank line. It returns false at end of input or
// on error; check Err afterwards.
func (r *Reader) Next() (Line, bool) {
	if r.err != nil {
		return Line{}, false
	}
	for r.scanner.Scan() {
		r.lineNo++
		if r.lineNo == 1 && r.skipHeader {
			continue
		}
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}
		return Line{Source: r.name, Number: r.lineNo, Text: text}, true
	}
	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("read line %d: %w", r.lineNo+1, err)
	}
	return Line{}, false
}

// Err returns the first read or decode error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the decoder and, for readers created by Open, the file.
func (r *Reader) Close() error {
	if r.dec != nil {
		r.dec.Close()
		r.dec = nil
	}
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("close input: %w", err)
	}
	return nil
}

