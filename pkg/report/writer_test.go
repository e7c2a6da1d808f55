package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const goldenCSV = `sku,location_id,metric,oms_value,dwh_value,delta,pct_delta,status
X1,L1,available,8,7,-1,-0.125,mismatch
X2,L2,,,,,,oms_only
X3,L1,,,,,,dwh_only
X4,L1,on_hand,0,5,5,PCT_UNDEFINED,mismatch
X4,L1,reserved,2,,,,missing_metric
`

func TestWriteCSV(t *testing.T) {
	rows := report.Build(fixtureResult(t))

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, rows))
	assert.Equal(t, goldenCSV, buf.String())
}

func TestWriteCSVEmptyRunKeepsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, nil))
	assert.Equal(t, "sku,location_id,metric,oms_value,dwh_value,delta,pct_delta,status\n", buf.String())
}

func TestWriteJSONL(t *testing.T) {
	rows := report.Build(fixtureResult(t))

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSONL(&buf, rows[:1]))
	assert.Equal(t,
		`{"sku":"X1","location_id":"L1","metric":"available","oms_value":"8","dwh_value":"7","delta":"-1","pct_delta":"-0.125","status":"mismatch"}`+"\n",
		buf.String())
}

func TestWriteFileCSVIsByteStable(t *testing.T) {
	rows := report.Build(fixtureResult(t))
	dir := t.TempDir()

	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	require.NoError(t, report.WriteFile(first, report.FormatCSV, rows))
	require.NoError(t, report.WriteFile(second, report.FormatCSV, rows))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, goldenCSV, string(a))
	assert.Equal(t, a, b)
}

func TestWriteFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run", "diff.csv")
	require.NoError(t, report.WriteFile(path, report.FormatCSV, nil))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteFileXLSX(t *testing.T) {
	rows := report.Build(fixtureResult(t))
	path := filepath.Join(t.TempDir(), "diff.xlsx")
	require.NoError(t, report.WriteFile(path, report.FormatXLSX, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	check := func(cell, want string) {
		got, err := f.GetCellValue("Sheet1", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
	check("A1", "sku")
	check("H1", "status")
	check("C2", "available")
	check("G2", "-0.125")
	check("H3", "oms_only")
	check("G5", "PCT_UNDEFINED")
	check("H6", "missing_metric")
}

func TestParseFormat(t *testing.T) {
	for _, format := range report.Formats() {
		parsed, err := report.ParseFormat(format.String())
		require.NoError(t, err)
		assert.Equal(t, format, parsed)
	}

	_, err := report.ParseFormat("parquet")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, err.Error(), "parquet")
}

func TestFormatExt(t *testing.T) {
	assert.Equal(t, ".csv", report.FormatCSV.Ext())
	assert.Equal(t, ".xlsx", report.FormatXLSX.Ext())
	assert.Equal(t, ".jsonl", report.FormatJSONL.Ext())
}
