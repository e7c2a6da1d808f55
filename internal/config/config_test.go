package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/retailops/stockparity/internal/config"
	"github.com/retailops/stockparity/pkg/constants"
	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/retailops/stockparity/pkg/normalize"
	"github.com/retailops/stockparity/pkg/reconcile"
	"github.com/retailops/stockparity/pkg/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSources = `
sources:
  oms:
    base_url: https://oms.example.com
    token: ${OMS_TOKEN}
  dwh:
    dsn: stockparity:${DWH_PASSWORD}@tcp(dwh.example.com:3306)/analytics
    table: inventory_snapshots
`

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "UTC", cfg.ReferenceTimezone)
	assert.True(t, cfg.KeyCaseSensitive)
	assert.Equal(t, reconcile.MissingFlagMismatch, cfg.MissingPolicy())
	assert.Equal(t, normalize.DeriveWhenMissing, cfg.DerivePolicy())
	assert.Equal(t, int32(0), cfg.Precision)
	assert.False(t, cfg.Strict)
	assert.Equal(t, 2*time.Minute, cfg.FetchTimeout.Std())
	assert.Equal(t, "./out", cfg.Output.Path)

	format, err := cfg.Output.ArtifactFormat()
	require.NoError(t, err)
	assert.Equal(t, report.FormatCSV, format)

	tol := cfg.Tolerance.Tolerance()
	assert.True(t, tol.Default.Abs.IsZero())
	assert.True(t, tol.Default.Pct.IsZero())
}

func TestParse(t *testing.T) {
	t.Run("fills unset keys from defaults", func(t *testing.T) {
		cfg, err := config.Parse([]byte("version: 1\n"+validSources), "inline")
		require.NoError(t, err)

		assert.True(t, cfg.KeyCaseSensitive)
		assert.Equal(t, 2*time.Minute, cfg.FetchTimeout.Std())
		assert.Equal(t, filepath.Join("./out", "diff.csv"), cfg.Output.ArtifactPath(""))
	})

	t.Run("explicit values override defaults", func(t *testing.T) {
		cfg, err := config.Parse([]byte(`
version: 1
reference_timezone: America/New_York
key_case_sensitive: false
missing_metric_policy: ignore
derive_available: always
precision: 2
strict: true
fetch_timeout: 45s
output:
  path: /tmp/recon
  format: jsonl
`+validSources), "inline")
		require.NoError(t, err)

		assert.False(t, cfg.KeyCaseSensitive)
		assert.Equal(t, reconcile.MissingIgnore, cfg.MissingPolicy())
		assert.Equal(t, normalize.DeriveAlways, cfg.DerivePolicy())
		assert.Equal(t, int32(2), cfg.Precision)
		assert.True(t, cfg.Strict)
		assert.Equal(t, 45*time.Second, cfg.FetchTimeout.Std())
		assert.Equal(t, filepath.Join("/tmp/recon", "diff_a1b2.jsonl"), cfg.Output.ArtifactPath("a1b2"))

		loc, err := cfg.Location()
		require.NoError(t, err)
		assert.Equal(t, "America/New_York", loc.String())
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		_, err := config.Parse([]byte("version: 1\ntolerancee: 0.05\n"+validSources), "inline")
		require.Error(t, err)

		var perr *errors.ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "yaml", perr.Format)
		assert.Equal(t, "inline", perr.File)
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := config.Parse([]byte("version: 2\n"+validSources), "inline")
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "version")
	})

	t.Run("sources are required", func(t *testing.T) {
		_, err := config.Parse([]byte("version: 1\n"), "inline")
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "sources")
	})

	t.Run("oms requires a base url", func(t *testing.T) {
		_, err := config.Parse([]byte(`
version: 1
sources:
  oms:
    token: t
  dwh:
    dsn: user:pass@tcp(h:3306)/db
`), "inline")
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "sources.oms.base_url")
	})

	t.Run("snapshot excludes live sources", func(t *testing.T) {
		_, err := config.Parse([]byte(`
version: 1
sources:
  snapshot:
    oms_path: a.csv
    dwh_path: b.csv
  oms:
    base_url: https://oms.example.com
`), "inline")
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "snapshot runs cannot also configure oms or dwh")
	})

	t.Run("dwh table and query are mutually exclusive", func(t *testing.T) {
		_, err := config.Parse([]byte(`
version: 1
sources:
  oms:
    base_url: https://oms.example.com
  dwh:
    dsn: user:pass@tcp(h:3306)/db
    table: inventory_snapshots
    query: SELECT 1
`), "inline")
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("mapping override is validated", func(t *testing.T) {
		_, err := config.Parse([]byte(`
version: 1
sources:
  oms:
    base_url: https://oms.example.com
    mapping:
      source: oms
      fields:
        - {from: sku_code, to: sku}
        - {from: site, to: location_id}
        - {from: captured_at, to: as_of}
        - {from: qty, to: velocity}
  dwh:
    dsn: user:pass@tcp(h:3306)/db
`), "inline")
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "velocity")
	})

	t.Run("negative fetch timeout", func(t *testing.T) {
		_, err := config.Parse([]byte("version: 1\nfetch_timeout: -5s\n"+validSources), "inline")
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "fetch_timeout")
	})
}

func TestParseTolerance(t *testing.T) {
	t.Run("scalar means relative on every metric", func(t *testing.T) {
		cfg, err := config.Parse([]byte("version: 1\ntolerance: 0.05\n"+validSources), "inline")
		require.NoError(t, err)

		tol := cfg.Tolerance.Tolerance()
		assert.True(t, tol.Default.Pct.Equal(dec(t, "0.05")), tol.Default.Pct.String())
		assert.True(t, tol.Default.Abs.IsZero())
		assert.Equal(t, reconcile.ModePct, tol.Default.Mode)
	})

	t.Run("quoted scalar parses exactly", func(t *testing.T) {
		cfg, err := config.Parse([]byte("version: 1\ntolerance: \"0.1\"\n"+validSources), "inline")
		require.NoError(t, err)

		tol := cfg.Tolerance.Tolerance()
		assert.True(t, tol.Default.Pct.Equal(dec(t, "0.1")), tol.Default.Pct.String())
	})

	t.Run("structured form with per-metric overrides", func(t *testing.T) {
		cfg, err := config.Parse([]byte(`
version: 1
tolerance:
  default:
    abs: 2
    pct: 0.01
    mode: abs_or_pct
  metrics:
    damaged:
      abs: 5
      mode: abs
`+validSources), "inline")
		require.NoError(t, err)

		tol := cfg.Tolerance.Tolerance()
		assert.True(t, tol.Default.Abs.Equal(dec(t, "2")))
		assert.True(t, tol.Default.Pct.Equal(dec(t, "0.01")))
		assert.Equal(t, reconcile.ModeAbsOrPct, tol.Default.Mode)

		damaged := tol.For(inventory.MetricDamaged)
		assert.True(t, damaged.Abs.Equal(dec(t, "5")))
		assert.Equal(t, reconcile.ModeAbs, damaged.Mode)

		reserved := tol.For(inventory.MetricReserved)
		assert.True(t, reserved.Abs.Equal(dec(t, "2")))
	})

	t.Run("unknown mode is rejected", func(t *testing.T) {
		_, err := config.Parse([]byte(`
version: 1
tolerance:
  default:
    abs: 1
    mode: approximately
`+validSources), "inline")
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "approximately")
	})

	t.Run("unknown metric override is rejected", func(t *testing.T) {
		_, err := config.Parse([]byte(`
version: 1
tolerance:
  metrics:
    velocity:
      abs: 1
`+validSources), "inline")
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "velocity")
	})
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2025, 3, 7, 15, 30, 0, 0, time.UTC)

	t.Run("defaults to the day containing now", func(t *testing.T) {
		cfg, err := config.Parse([]byte("version: 1\n"+validSources), "inline")
		require.NoError(t, err)

		win, err := cfg.ResolveWindow(now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), win.Start)
		assert.True(t, win.Contains(now))
		assert.False(t, win.Contains(now.Add(24*time.Hour)))
	})

	t.Run("date picks a calendar day", func(t *testing.T) {
		cfg, err := config.Parse([]byte("version: 1\ndate: 2025-03-01\n"+validSources), "inline")
		require.NoError(t, err)

		win, err := cfg.ResolveWindow(now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), win.Start)
		assert.Equal(t, time.Date(2025, 3, 1, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), win.End)
	})

	t.Run("explicit window overrides date", func(t *testing.T) {
		cfg, err := config.Parse([]byte(`
version: 1
date: 2025-03-01
window:
  start: 2025-03-02T06:00:00Z
  end: 2025-03-02T18:00:00Z
`+validSources), "inline")
		require.NoError(t, err)

		win, err := cfg.ResolveWindow(now)
		require.NoError(t, err)
		assert.True(t, win.Start.Equal(time.Date(2025, 3, 2, 6, 0, 0, 0, time.UTC)))
		assert.True(t, win.End.Equal(time.Date(2025, 3, 2, 18, 0, 0, 0, time.UTC)))
	})

	t.Run("date-only window runs to end of day", func(t *testing.T) {
		cfg, err := config.Parse([]byte(`
version: 1
window:
  start: 2025-03-01
  end: 2025-03-02
`+validSources), "inline")
		require.NoError(t, err)

		win, err := cfg.ResolveWindow(now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), win.Start)
		assert.Equal(t, time.Date(2025, 3, 2, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), win.End)
	})

	t.Run("reference timezone shifts the day", func(t *testing.T) {
		cfg, err := config.Parse([]byte(`
version: 1
reference_timezone: America/New_York
date: 2025-03-01
`+validSources), "inline")
		require.NoError(t, err)

		win, err := cfg.ResolveWindow(now)
		require.NoError(t, err)
		assert.True(t, win.Start.Equal(time.Date(2025, 3, 1, 5, 0, 0, 0, time.UTC)))
	})

	t.Run("inverted bounds are rejected", func(t *testing.T) {
		_, err := config.Parse([]byte(`
version: 1
window:
  start: 2025-03-02T18:00:00Z
  end: 2025-03-02T06:00:00Z
`+validSources), "inline")
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "precedes")
	})

	t.Run("one-sided window is rejected", func(t *testing.T) {
		_, err := config.Parse([]byte(`
version: 1
window:
  start: 2025-03-02T06:00:00Z
`+validSources), "inline")
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "set together")
	})
}

func TestCredentialExpansion(t *testing.T) {
	t.Setenv("STOCKPARITY_TEST_TOKEN", "s3cr3t")
	t.Setenv("STOCKPARITY_TEST_DB_PASSWORD", "hunter2")

	cfg, err := config.Parse([]byte(`
version: 1
sources:
  oms:
    base_url: https://oms.example.com
    token: ${STOCKPARITY_TEST_TOKEN}
  dwh:
    dsn: stockparity:${STOCKPARITY_TEST_DB_PASSWORD}@tcp(dwh:3306)/analytics
`), "inline")
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.Sources.OMS.ResolveToken())
	assert.Equal(t, "stockparity:hunter2@tcp(dwh:3306)/analytics", cfg.Sources.DWH.ResolveDSN())
	assert.Equal(t, "plain-token", config.ExpandEnv("plain-token"))
}

func TestLoad(t *testing.T) {
	t.Run("reads a config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: 1\n"+validSources), 0o644))

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Version)
		require.NotNil(t, cfg.Sources.OMS)
		assert.Equal(t, "https://oms.example.com", cfg.Sources.OMS.BaseURL)
	})

	t.Run("missing file surfaces the path", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "absent.yaml")
	})
}

func TestSnapshotConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
version: 1
sources:
  snapshot:
    oms_path: exports/oms_2025-03-01.csv
    dwh_path: exports/dwh_2025-03-01.tsv
    delimiter: "|"
`), "inline")
	require.NoError(t, err)

	require.NotNil(t, cfg.Sources.Snapshot)
	assert.Equal(t, "exports/oms_2025-03-01.csv", cfg.Sources.Snapshot.OMSPath)
	assert.Equal(t, "|", cfg.Sources.Snapshot.Delimiter)
}

func TestArtifactPath(t *testing.T) {
	explicit := config.OutputConfig{Path: "reports/march.xlsx", Format: "csv"}
	assert.Equal(t, "reports/march.xlsx", explicit.ArtifactPath("a1b2"))

	dir := config.OutputConfig{Path: "reports/2025.03", Format: "csv"}
	assert.Equal(t, filepath.Join("reports/2025.03", "diff_a1b2.csv"), dir.ArtifactPath("a1b2"))

	empty := config.OutputConfig{Format: "csv"}
	assert.Equal(t, filepath.Join(constants.DefaultOutputDir, "diff_a1b2.csv"), empty.ArtifactPath("a1b2"))
}
