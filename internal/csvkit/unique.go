package csvkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/retailops/stockparity/pkg/errors"
)

// ValueCount is one distinct value with its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// UniqueJob extracts the distinct values of one column.
type UniqueJob struct {
	Input string

	// Column names the column to read. Empty means the first column.
	Column string

	// NoHeader treats the first line as data and reads the first
	// field.
	NoHeader bool

	// Where keeps only rows whose named columns equal the given
	// values. Needs a header.
	Where map[string]string

	// IgnoreCase folds values for uniqueness; the first-seen spelling
	// is reported.
	IgnoreCase bool

	// Sort orders values alphabetically instead of first-seen.
	Sort bool

	// Once keeps only values that occur exactly once.
	Once bool

	// Delimiter forces the input delimiter instead of sniffing it.
	Delimiter rune
}

// Unique scans the input and returns its distinct values in first-seen
// order (or sorted), with occurrence counts.
func Unique(job UniqueJob) ([]ValueCount, error) {
	if job.NoHeader && len(job.Where) > 0 {
		return nil, errors.NewConfigError("unique", "where filters need a header", nil)
	}

	var opts []ReaderOption
	if job.Delimiter != 0 {
		opts = append(opts, WithDelimiter(job.Delimiter))
	}
	if job.NoHeader {
		opts = append(opts, WithoutHeader())
	}
	in, err := Open(job.Input, opts...)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	column := job.Column
	if !job.NoHeader {
		if column == "" {
			header := in.Header()
			if len(header) == 0 {
				return nil, errors.NewParseError("csv", job.Input, "header is empty", nil)
			}
			column = strings.TrimSpace(header[0])
		}
		if _, ok := in.Column(column); !ok {
			return nil, errors.NewValidationError(column, nil, fmt.Sprintf("column not found in %s", job.Input))
		}
		for name := range job.Where {
			if _, ok := in.Column(name); !ok {
				return nil, errors.NewValidationError(name, nil, fmt.Sprintf("column not found in %s", job.Input))
			}
		}
	}

	fold := func(s string) string {
		if job.IgnoreCase {
			return strings.ToLower(s)
		}
		return s
	}

	counts := make(map[string]*ValueCount)
	var order []*ValueCount
	for {
		record, err := in.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("csv", job.Input, err)
		}

		if !matchesWhere(in, record, job.Where, fold) {
			continue
		}

		var value string
		if job.NoHeader {
			if len(record) == 0 {
				continue
			}
			value = record[0]
		} else {
			value = in.Field(record, column)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		key := fold(value)
		vc, ok := counts[key]
		if !ok {
			vc = &ValueCount{Value: value}
			counts[key] = vc
			order = append(order, vc)
		}
		vc.Count++
	}

	out := make([]ValueCount, 0, len(order))
	for _, vc := range order {
		if job.Once && vc.Count != 1 {
			continue
		}
		out = append(out, *vc)
	}
	if job.Sort {
		sort.SliceStable(out, func(i, k int) bool {
			return fold(out[i].Value) < fold(out[k].Value)
		})
	}
	return out, nil
}

func matchesWhere(in *Reader, record []string, where map[string]string, fold func(string) string) bool {
	for name, want := range where {
		got := strings.TrimSpace(in.Field(record, name))
		if fold(got) != fold(strings.TrimSpace(want)) {
			return false
		}
	}
	return true
}

// WriteCounts renders values as CSV rows of value,count under the
// given header name.
func WriteCounts(w io.Writer, header string, values []ValueCount) error {
	if header == "" {
		header = "value"
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{header, "count"}); err != nil {
		return err
	}
	for _, vc := range values {
		if err := cw.Write([]string{vc.Value, strconv.Itoa(vc.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteValues renders one value per line.
func WriteValues(w io.Writer, values []ValueCount) error {
	for _, vc := range values {
		if _, err := fmt.Fprintln(w, vc.Value); err != nil {
			return err
		}
	}
	return nil
}
