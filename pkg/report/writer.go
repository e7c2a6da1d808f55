package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/retailops/stockparity/pkg/constants"
	"github.com/retailops/stockparity/pkg/errors"
)

// Format identifies an artifact file format.
type Format string

const (
	// FormatCSV is the canonical byte-stable artifact format.
	FormatCSV Format = "csv"
	// FormatXLSX renders the artifact as a single-sheet workbook.
	FormatXLSX Format = "xlsx"
	// FormatJSONL renders one JSON object per row.
	FormatJSONL Format = "jsonl"
)

// Formats returns all supported artifact formats.
func Formats() []Format {
	return []Format{FormatCSV, FormatXLSX, FormatJSONL}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a supported value.
func (f Format) IsValid() bool {
	return slices.Contains(Formats(), f)
}

// Ext returns the file extension for the format, dot included.
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormat converts a string into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.IsValid() {
		return "", errors.NewConfigError("output", fmt.Sprintf("unknown artifact format %q", s), nil)
	}
	return f, nil
}

// WriteFile renders rows to path in the given format, creating parent
// directories as needed. An existing file is truncated.
func WriteFile(path string, format Format, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create output directory", filepath.Dir(path), err)
	}

	if format == FormatXLSX {
		return writeExcelFile(path, rows)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create artifact", path, err)
	}

	buf := bufio.NewWriterSize(f, constants.WriteBufferSize)
	werr := writeRows(buf, format, rows)
	if werr == nil {
		werr = buf.Flush()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return errors.WrapIO("write artifact", path, werr)
	}
	return nil
}

func writeRows(w io.Writer, format Format, rows []Row) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSONL:
		return WriteJSONL(w, rows)
	default:
		return errors.NewConfigError("output", fmt.Sprintf("unknown artifact format %q", string(format)), nil)
	}
}

// WriteCSV writes the header and rows as RFC 4180 CSV with LF line
// endings.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSONL writes one JSON object per row, no header line.
func WriteJSONL(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
