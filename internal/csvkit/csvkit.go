// Package csvkit reads delimited snapshot exports: delimiter sniffing,
// header-indexed streaming, and the filter and unique-values passes
// behind the matching subcommands.
package csvkit

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/retailops/stockparity/pkg/errors"
)

// Reader streams one delimited file with its header parsed up front.
// Fields are addressed by column name; short records read as empty.
type Reader struct {
	f      *os.File
	cr     *csv.Reader
	header []string
	index  map[string]int
}

type readerOptions struct {
	delimiter rune
	noHeader  bool
}

// ReaderOption configures Open.
type ReaderOption func(*readerOptions)

// WithDelimiter forces the field delimiter instead of sniffing it.
func WithDelimiter(d rune) ReaderOption {
	return func(o *readerOptions) {
		o.delimiter = d
	}
}

// WithoutHeader treats the first line as data.
func WithoutHeader() ReaderOption {
	return func(o *readerOptions) {
		o.noHeader = true
	}
}

// Open opens a delimited file, sniffing the delimiter unless one is
// forced, and reads the header line.
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	var options readerOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.delimiter == 0 {
		options.delimiter = DetectDelimiter(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}

	cr := csv.NewReader(f)
	cr.Comma = options.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	r := &Reader{f: f, cr: cr}
	if options.noHeader {
		return r, nil
	}

	header, err := cr.Read()
	if err == io.EOF {
		_ = f.Close()
		return nil, errors.NewParseError("csv", path, "file is empty", nil)
	}
	if err != nil {
		_ = f.Close()
		return nil, errors.WrapParse("csv", path, err)
	}
	r.header = header
	r.index = make(map[string]int, len(header))
	for i, name := range header {
		r.index[strings.TrimSpace(name)] = i
	}
	return r, nil
}

// Header returns the header row, nil when opened WithoutHeader.
func (r *Reader) Header() []string {
	return r.header
}

// Column returns the position of a named column.
func (r *Reader) Column(name string) (int, bool) {
	i, ok := r.index[strings.TrimSpace(name)]
	return i, ok
}

// Read returns the next record, io.EOF at end of file.
func (r *Reader) Read() ([]string, error) {
	return r.cr.Read()
}

// Field returns the named column of a record, empty when the record is
// short or the column unknown.
func (r *Reader) Field(record []string, name string) string {
	i, ok := r.index[strings.TrimSpace(name)]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
