package filter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retailops/stockparity/internal/cmd/application"
	"github.com/retailops/stockparity/pkg/errors"
)

const exportCSV = `sku,location_id,on_hand
SKU-1,L1,5
SKU-2,L1,3
SKU-1,L2,7
`

// runFilter executes the filter command against a fresh temp workspace
// and returns the output file content and the terminal output.
func runFilter(t *testing.T, input string, extraArgs ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	inPath := filepath.Join(dir, "export.csv")
	outPath := filepath.Join(dir, "subset.csv")
	if err := os.WriteFile(inPath, []byte(input), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	cmd := NewCommand(&application.Mock{})
	console := &bytes.Buffer{}
	cmd.SetOut(console)
	cmd.SetErr(console)
	cmd.SetArgs(append([]string{inPath, outPath}, extraArgs...))

	err := cmd.Execute()

	var written string
	if data, readErr := os.ReadFile(outPath); readErr == nil {
		written = string(data)
	}
	return written, console.String(), err
}

// TestFilter_BySKU verifies the basic SKU match path.
func TestFilter_BySKU(t *testing.T) {
	written, console, err := runFilter(t, exportCSV, "--sku", "SKU-1")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	want := "sku,location_id,on_hand\nSKU-1,L1,5\nSKU-1,L2,7\n"
	if written != want {
		t.Errorf("output file = %q, want %q", written, want)
	}
	if !strings.Contains(console, "Wrote 2 rows") {
		t.Errorf("console output = %q, want row count", console)
	}
}

// TestFilter_SKUAndLocation verifies both key filters combine.
func TestFilter_SKUAndLocation(t *testing.T) {
	written, _, err := runFilter(t, exportCSV, "--sku", "SKU-1", "--location", "L2")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	want := "sku,location_id,on_hand\nSKU-1,L2,7\n"
	if written != want {
		t.Errorf("output file = %q, want %q", written, want)
	}
}

// TestFilter_Invert verifies --invert keeps the non-matching rows.
func TestFilter_Invert(t *testing.T) {
	written, _, err := runFilter(t, exportCSV, "--sku", "SKU-1", "--invert")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	want := "sku,location_id,on_hand\nSKU-2,L1,3\n"
	if written != want {
		t.Errorf("output file = %q, want %q", written, want)
	}
}

// TestFilter_Columns verifies output projection.
func TestFilter_Columns(t *testing.T) {
	written, _, err := runFilter(t, exportCSV, "--sku", "SKU-1", "--columns", "sku,on_hand")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	want := "sku,on_hand\nSKU-1,5\nSKU-1,7\n"
	if written != want {
		t.Errorf("output file = %q, want %q", written, want)
	}
}

// TestFilter_SKUFile verifies plain-list value files with comments.
func TestFilter_SKUFile(t *testing.T) {
	dir := t.TempDir()
	skuFile := filepath.Join(dir, "recall.txt")
	list := "# recalled units\nSKU-2\n\n"
	if err := os.WriteFile(skuFile, []byte(list), 0o644); err != nil {
		t.Fatalf("write sku file: %v", err)
	}

	written, _, err := runFilter(t, exportCSV, "--sku-file", skuFile)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	want := "sku,location_id,on_hand\nSKU-2,L1,3\n"
	if written != want {
		t.Errorf("output file = %q, want %q", written, want)
	}
}

// TestFilter_IgnoreCase verifies case folding on match values.
func TestFilter_IgnoreCase(t *testing.T) {
	written, _, err := runFilter(t, exportCSV, "--sku", "sku-2", "--ignore-case")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	want := "sku,location_id,on_hand\nSKU-2,L1,3\n"
	if written != want {
		t.Errorf("output file = %q, want %q", written, want)
	}
}

// TestFilter_ForcedDelimiter verifies --delimiter overrides sniffing.
func TestFilter_ForcedDelimiter(t *testing.T) {
	input := "sku;location_id;on_hand\nSKU-1;L1;5\nSKU-2;L1;3\n"
	written, _, err := runFilter(t, input, "--sku", "SKU-1", "--delimiter", ";")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	want := "sku,location_id,on_hand\nSKU-1,L1,5\n"
	if written != want {
		t.Errorf("output file = %q, want %q", written, want)
	}
}

// TestFilter_NoValues verifies an empty match set is rejected up front.
func TestFilter_NoValues(t *testing.T) {
	_, _, err := runFilter(t, exportCSV)
	if err == nil {
		t.Fatal("Execute() succeeded, want config error")
	}
	if !errors.IsConfigError(err) {
		t.Errorf("error = %v, want config error", err)
	}
}

// TestFilter_MissingColumn verifies unknown key columns are reported.
func TestFilter_MissingColumn(t *testing.T) {
	_, _, err := runFilter(t, exportCSV, "--sku", "SKU-1", "--sku-column", "item")
	if err == nil {
		t.Fatal("Execute() succeeded, want validation error")
	}
	if !errors.IsValidationError(err) {
		t.Errorf("error = %v, want validation error", err)
	}
}

// TestParseDelimiter covers the delimiter flag parsing.
func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    rune
		wantErr bool
	}{
		{name: "empty means sniff", in: "", want: 0},
		{name: "comma", in: ",", want: ','},
		{name: "semicolon", in: ";", want: ';'},
		{name: "tab escape", in: `\t`, want: '\t'},
		{name: "pipe", in: "|", want: '|'},
		{name: "multi character", in: "ab", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDelimiter(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDelimiter(%q) succeeded, want error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDelimiter(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseDelimiter(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
