package stockparity

import (
	"context"
	stderrors "errors"
	"os"
	"testing"

	"github.com/retailops/stockparity/internal/config"
	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/retailops/stockparity/pkg/normalize"
	"github.com/retailops/stockparity/pkg/sources"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned raw rows in place of a live adapter.
type fakeSource struct {
	id       sources.ID
	rows     []normalize.Raw
	fetchErr error
	cleaned  bool
}

func (f *fakeSource) ID() sources.ID { return f.id }

func (f *fakeSource) Fetch(_ context.Context, _ inventory.Window) ([]normalize.Raw, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.rows, nil
}

func (f *fakeSource) Mapping() normalize.Mapping {
	return normalize.Mapping{
		Source: f.id.String(),
		Fields: []normalize.FieldMapping{
			{From: "sku", To: "sku"},
			{From: "location_id", To: "location_id"},
			{From: "as_of", To: "as_of"},
			{From: "on_hand", To: "on_hand"},
			{From: "reserved", To: "reserved"},
			{From: "available", To: "available", Optional: true},
			{From: "damaged", To: "damaged", Optional: true},
		},
	}
}

func (f *fakeSource) Cleanup() error {
	f.cleaned = true
	return nil
}

func rawRow(sku, onHand, reserved string) normalize.Raw {
	return normalize.Raw{
		"sku":         sku,
		"location_id": "L1",
		"as_of":       "2025-03-15T12:00:00Z",
		"on_hand":     onHand,
		"reserved":    reserved,
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Date = "2025-03-15"
	cfg.Output.Path = t.TempDir()
	return cfg
}

func newTestRunner(t *testing.T, cfg *config.Config, a, b *fakeSource) Stockparity {
	t.Helper()
	sp, err := New(
		WithConfig(cfg),
		WithSource(a),
		WithSource(b),
		WithRunID("testrun"),
		WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	return sp
}

func TestRunCleanSources(t *testing.T) {
	a := &fakeSource{id: sources.OMSID, rows: []normalize.Raw{rawRow("SKU-1", "10", "2")}}
	b := &fakeSource{id: sources.DWHID, rows: []normalize.Raw{rawRow("SKU-1", "10", "2")}}
	sp := newTestRunner(t, testConfig(t), a, b)

	result, err := sp.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	s := result.Summary
	assert.Equal(t, "testrun", s.RunID)
	assert.Equal(t, 1, s.TotalKeys)
	assert.Equal(t, 1, s.MatchedWithin)
	assert.Zero(t, s.Mismatched)
	assert.False(t, s.Findings)
	assert.Empty(t, result.Rows)

	require.Len(t, s.Sources, 2)
	assert.Equal(t, "oms", s.Sources[0].Source)
	assert.Equal(t, 1, s.Sources[0].Fetched)
	assert.Equal(t, "dwh", s.Sources[1].Source)

	// A clean run still leaves a header-only artifact behind.
	data, err := os.ReadFile(s.Artifact)
	require.NoError(t, err)
	assert.Equal(t, "sku,location_id,metric,oms_value,dwh_value,delta,pct_delta,status\n", string(data))
}

func TestRunFindings(t *testing.T) {
	a := &fakeSource{id: sources.OMSID, rows: []normalize.Raw{rawRow("SKU-1", "10", "2")}}
	b := &fakeSource{id: sources.DWHID, rows: []normalize.Raw{rawRow("SKU-1", "8", "2")}}
	sp := newTestRunner(t, testConfig(t), a, b)

	result, err := sp.Run(context.Background())
	require.Error(t, err)
	require.True(t, errors.IsFindings(err))
	require.NotNil(t, result, "findings still produce a full result")

	var findings *errors.FindingsError
	require.True(t, stderrors.As(err, &findings))
	assert.Equal(t, 1, findings.Mismatched)

	s := result.Summary
	assert.Equal(t, 1, s.Mismatched)
	assert.True(t, s.Findings)
	// on_hand differs directly and available differs through derivation.
	assert.Equal(t, 2, s.DiffRows)

	data, err := os.ReadFile(s.Artifact)
	require.NoError(t, err)
	assert.Contains(t, string(data), "SKU-1,L1,on_hand,10,8,-2,-0.2,mismatch")
	assert.Contains(t, string(data), "available")
}

func TestRunSourceOnlyKey(t *testing.T) {
	a := &fakeSource{id: sources.OMSID, rows: []normalize.Raw{
		rawRow("SKU-1", "10", "2"),
		rawRow("SKU-2", "5", "0"),
	}}
	b := &fakeSource{id: sources.DWHID, rows: []normalize.Raw{rawRow("SKU-1", "10", "2")}}
	sp := newTestRunner(t, testConfig(t), a, b)

	result, err := sp.Run(context.Background())
	require.True(t, errors.IsFindings(err))

	assert.Equal(t, 1, result.Summary.OMSOnly)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "SKU-2", result.Rows[0].SKU)
	assert.Equal(t, "oms_only", result.Rows[0].Status.String())
}

func TestRunFetchFailure(t *testing.T) {
	a := &fakeSource{id: sources.OMSID, fetchErr: assert.AnError}
	b := &fakeSource{id: sources.DWHID, rows: []normalize.Raw{rawRow("SKU-1", "10", "2")}}
	sp := newTestRunner(t, testConfig(t), a, b)

	result, err := sp.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	require.True(t, errors.IsFetchError(err))

	var fetchErr *errors.FetchError
	require.True(t, stderrors.As(err, &fetchErr))
	assert.Equal(t, "oms", fetchErr.Source)
}

func TestRunSkipsBadRecords(t *testing.T) {
	bad := normalize.Raw{
		"location_id": "L1",
		"as_of":       "2025-03-15T12:00:00Z",
		"on_hand":     "3",
		"reserved":    "0",
	}
	a := &fakeSource{id: sources.OMSID, rows: []normalize.Raw{rawRow("SKU-1", "10", "2"), bad}}
	b := &fakeSource{id: sources.DWHID, rows: []normalize.Raw{rawRow("SKU-1", "10", "2")}}

	t.Run("lenient counts the skip", func(t *testing.T) {
		sp := newTestRunner(t, testConfig(t), a, b)
		result, err := sp.Run(context.Background())
		require.NoError(t, err)

		require.Len(t, result.Summary.Sources, 2)
		assert.Equal(t, 2, result.Summary.Sources[0].Fetched)
		assert.Equal(t, 1, result.Summary.Sources[0].Normalized)
		assert.Equal(t, 1, result.Summary.Sources[0].Skipped)
		assert.Equal(t, 1, result.Summary.TotalSkipped())
	})

	t.Run("strict aborts", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Strict = true
		sp := newTestRunner(t, cfg, a, b)
		result, err := sp.Run(context.Background())
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestRunNoSourcesConfigured(t *testing.T) {
	sp, err := New(WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	result, err := sp.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.IsConfigError(err))
}

func TestRunArtifactIsByteStable(t *testing.T) {
	run := func(t *testing.T) []byte {
		t.Helper()
		a := &fakeSource{id: sources.OMSID, rows: []normalize.Raw{
			rawRow("SKU-2", "5", "1"),
			rawRow("SKU-1", "10", "2"),
		}}
		b := &fakeSource{id: sources.DWHID, rows: []normalize.Raw{
			rawRow("SKU-1", "9", "2"),
		}}
		sp := newTestRunner(t, testConfig(t), a, b)
		result, err := sp.Run(context.Background())
		require.True(t, errors.IsFindings(err))
		data, err := os.ReadFile(result.Summary.Artifact)
		require.NoError(t, err)
		return data
	}

	first := run(t)
	second := run(t)
	assert.Equal(t, first, second)
}

func TestRunLeavesRegisteredSourcesOpen(t *testing.T) {
	a := &fakeSource{id: sources.OMSID, rows: []normalize.Raw{rawRow("SKU-1", "10", "2")}}
	b := &fakeSource{id: sources.DWHID, rows: []normalize.Raw{rawRow("SKU-1", "10", "2")}}
	sp := newTestRunner(t, testConfig(t), a, b)

	_, err := sp.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, a.cleaned, "runs own only the adapters they build")
	assert.False(t, b.cleaned)

	require.NoError(t, sp.Close())
	assert.True(t, a.cleaned)
	assert.True(t, b.cleaned)
}

func TestNewOptionValidation(t *testing.T) {
	cases := []struct {
		name string
		opt  Option
	}{
		{"nil config", WithConfig(nil)},
		{"nil source", WithSource(nil)},
		{"empty run id", WithRunID("")},
		{"nil clock", WithNow(nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opt)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}

	t.Run("missing config file", func(t *testing.T) {
		_, err := New(WithConfigFile("does-not-exist.yaml"))
		require.Error(t, err)
	})
}
