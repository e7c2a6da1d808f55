package csvkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retailops/stockparity/pkg/constants"
	"github.com/retailops/stockparity/pkg/errors"
)

// FilterJob filters one delimited file by key-column values.
type FilterJob struct {
	Input  string
	Output string

	// SKUColumn and LocationColumn name the key columns in the input.
	// They default to sku and location_id.
	SKUColumn      string
	LocationColumn string

	// SKUs is the match set and must be non-empty. An empty Locations
	// set disables the location filter.
	SKUs      *ValueSet
	Locations *ValueSet

	// Columns projects the output. Empty or ["*"] keeps every column;
	// projected columns missing from the input read as empty.
	Columns []string

	// Invert keeps the rows that do not match.
	Invert bool

	// Delimiter forces the input delimiter instead of sniffing it.
	// The output is always comma-separated.
	Delimiter rune
}

// Filter streams the input, keeping rows whose SKU (and, when a
// location set is given, location) match, and writes them as CSV with
// a header. It returns the number of data rows written.
func Filter(job FilterJob) (int, error) {
	if job.SKUs == nil || job.SKUs.Len() == 0 {
		return 0, errors.NewConfigError("filter", "no sku values provided", nil)
	}

	var opts []ReaderOption
	if job.Delimiter != 0 {
		opts = append(opts, WithDelimiter(job.Delimiter))
	}
	in, err := Open(job.Input, opts...)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	skuCol := job.SKUColumn
	if skuCol == "" {
		skuCol = "sku"
	}
	if _, ok := in.Column(skuCol); !ok {
		return 0, errors.NewValidationError(skuCol, nil, fmt.Sprintf("column not found in %s", job.Input))
	}

	locCol := job.LocationColumn
	if locCol == "" {
		locCol = "location_id"
	}
	filterLocation := job.Locations != nil && job.Locations.Len() > 0
	if filterLocation {
		if _, ok := in.Column(locCol); !ok {
			return 0, errors.NewValidationError(locCol, nil, fmt.Sprintf("column not found in %s", job.Input))
		}
	}

	outFields := job.Columns
	if len(outFields) == 0 || (len(outFields) == 1 && outFields[0] == "*") {
		outFields = in.Header()
	}

	if dir := filepath.Dir(job.Output); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return 0, errors.WrapIO("create output directory", dir, err)
		}
	}
	out, err := os.OpenFile(job.Output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return 0, errors.WrapIO("create", job.Output, err)
	}

	cw := csv.NewWriter(out)
	written, werr := filterRows(in, cw, job, outFields, skuCol, locCol, filterLocation)
	if werr == nil {
		cw.Flush()
		werr = cw.Error()
	}
	if cerr := out.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return 0, werr
	}
	return written, nil
}

func filterRows(in *Reader, cw *csv.Writer, job FilterJob, outFields []string, skuCol, locCol string, filterLocation bool) (int, error) {
	if err := cw.Write(outFields); err != nil {
		return 0, err
	}

	written := 0
	outRow := make([]string, len(outFields))
	for {
		record, err := in.Read()
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, errors.WrapParse("csv", job.Input, err)
		}

		match := job.SKUs.Contains(in.Field(record, skuCol))
		if match && filterLocation {
			match = job.Locations.Contains(in.Field(record, locCol))
		}
		if match == job.Invert {
			continue
		}

		for i, name := range outFields {
			outRow[i] = in.Field(record, name)
		}
		if err := cw.Write(outRow); err != nil {
			return written, err
		}
		written++
	}
}
