// Package config loads the versioned run configuration that drives a
// reconciliation: snapshot window, tolerances, normalization policies,
// source connections, and artifact output. Configs are YAML, decoded
// strictly over embedded defaults and validated before the run starts.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/retailops/stockparity/pkg/constants"
	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/retailops/stockparity/pkg/normalize"
	"github.com/retailops/stockparity/pkg/reconcile"
	"github.com/retailops/stockparity/pkg/report"
	"github.com/shopspring/decimal"
)

// Version is the config schema version this build understands.
const Version = 1

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report yaml key paths, not Go field names, in validation errors.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
}

// Config is one reconciliation run, fully specified.
type Config struct {
	// Version pins the config schema. Unknown versions fail validation
	// rather than being reinterpreted.
	Version int `yaml:"version" validate:"required,eq=1"`

	// Date selects a single calendar day as the snapshot window.
	// Ignored when Window is set explicitly.
	Date string `yaml:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	// Window bounds the comparison explicitly. Overrides Date.
	Window WindowConfig `yaml:"window,omitempty"`

	// ReferenceTimezone is the IANA zone all timestamps are normalized
	// to before windowing and joining.
	ReferenceTimezone string `yaml:"reference_timezone,omitempty" validate:"omitempty,timezone"`

	// Tolerance is the allowed deviation before a metric difference
	// becomes a finding. A bare fraction means relative tolerance.
	Tolerance ToleranceConfig `yaml:"tolerance,omitempty"`

	// KeyCaseSensitive keeps sku and location_id matching exact.
	// Disabling it trims and case-folds keys on both sides before the
	// join.
	KeyCaseSensitive bool `yaml:"key_case_sensitive"`

	// MissingMetricPolicy decides whether a metric supplied by only
	// one side flags the key as mismatched or is ignored.
	MissingMetricPolicy string `yaml:"missing_metric_policy,omitempty" validate:"omitempty,oneof=flag_mismatch ignore"`

	// DeriveAvailable controls when available is recomputed from
	// on_hand - reserved - damaged.
	DeriveAvailable string `yaml:"derive_available,omitempty" validate:"omitempty,oneof=when_missing always never"`

	// Precision is the decimal rounding applied to every quantity on
	// both sides. -1 disables rounding.
	Precision int32 `yaml:"precision" validate:"gte=-1,lte=12"`

	// Strict aborts the run on the first bad record instead of
	// skipping and counting it.
	Strict bool `yaml:"strict,omitempty"`

	// FetchTimeout bounds each source fetch independently.
	FetchTimeout Duration `yaml:"fetch_timeout,omitempty" validate:"gte=0"`

	// Output selects the artifact directory and format.
	Output OutputConfig `yaml:"output,omitempty"`

	// Sources configures the two sides of the comparison.
	Sources SourcesConfig `yaml:"sources,omitempty"`
}

// Load reads and validates a run configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, path)
}

// Parse decodes YAML over the embedded defaults and validates the
// result. Unknown keys are rejected. name identifies the input in
// parse errors.
func Parse(data []byte, name string) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults: schema version 1, UTC, exact
// tolerance, CSV artifact under ./out. Sources are unset.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return &cfg
}

// Validate checks struct tags and cross-field rules, returning a
// ConfigError naming the offending key.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields validator.ValidationErrors
		if stderrors.As(err, &fields) && len(fields) > 0 {
			first := fields[0]
			return errors.NewConfigError("run",
				fmt.Sprintf("%s fails %q validation", keyPath(first), first.Tag()), err)
		}
		return errors.NewConfigError("run", err.Error(), err)
	}
	if err := c.Tolerance.Tolerance().Validate(); err != nil {
		return err
	}
	if err := c.Sources.validate(); err != nil {
		return err
	}
	if _, err := c.ResolveWindow(time.Now()); err != nil {
		return err
	}
	return nil
}

// keyPath renders a validator namespace as a yaml key path, without
// the root struct segment.
func keyPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Location resolves the reference time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.ReferenceTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.ReferenceTimezone)
	if err != nil {
		return nil, errors.NewConfigError("run",
			fmt.Sprintf("unknown reference_timezone %q", c.ReferenceTimezone), err)
	}
	return loc, nil
}

// ResolveWindow produces the snapshot window: the explicit window if
// set, else the configured date, else the day containing now, all in
// the reference time zone.
func (c *Config) ResolveWindow(now time.Time) (inventory.Window, error) {
	loc, err := c.Location()
	if err != nil {
		return inventory.Window{}, err
	}
	if c.Window.isSet() {
		return c.Window.resolve(loc)
	}
	if c.Date != "" {
		day, err := time.ParseInLocation(constants.TimeFormatDate, c.Date, loc)
		if err != nil {
			return inventory.Window{}, errors.NewConfigError("run",
				fmt.Sprintf("invalid date %q", c.Date), err)
		}
		return inventory.Day(day, loc), nil
	}
	return inventory.Day(now, loc), nil
}

// MissingPolicy returns the configured missing-metric policy.
func (c *Config) MissingPolicy() reconcile.MissingPolicy {
	if c.MissingMetricPolicy == "" {
		return reconcile.MissingFlagMismatch
	}
	return reconcile.MissingPolicy(c.MissingMetricPolicy)
}

// DerivePolicy returns the configured available-derivation policy.
func (c *Config) DerivePolicy() normalize.DerivePolicy {
	if c.DeriveAvailable == "" {
		return normalize.DeriveWhenMissing
	}
	return normalize.DerivePolicy(c.DeriveAvailable)
}

// WindowConfig is an explicit snapshot window. Bounds accept RFC 3339
// timestamps, local timestamps, or bare dates; both are inclusive and
// must be set together.
type WindowConfig struct {
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`
}

func (w WindowConfig) isSet() bool {
	return w.Start != "" || w.End != ""
}

func (w WindowConfig) resolve(loc *time.Location) (inventory.Window, error) {
	if w.Start == "" || w.End == "" {
		return inventory.Window{}, errors.NewConfigError("run",
			"window.start and window.end must be set together", nil)
	}
	start, _, err := parseBound(w.Start, loc)
	if err != nil {
		return inventory.Window{}, errors.NewConfigError("run",
			fmt.Sprintf("invalid window.start %q", w.Start), err)
	}
	end, dateOnly, err := parseBound(w.End, loc)
	if err != nil {
		return inventory.Window{}, errors.NewConfigError("run",
			fmt.Sprintf("invalid window.end %q", w.End), err)
	}
	if dateOnly {
		end = inventory.Day(end, loc).End
	}
	win := inventory.Window{Start: start, End: end}
	if err := win.Validate(); err != nil {
		return inventory.Window{}, errors.NewConfigError("run", err.Error(), err)
	}
	return win, nil
}

// parseBound accepts RFC 3339 timestamps, space-separated local
// timestamps, and bare dates. dateOnly lets callers expand an end
// bound to the end of its day.
func parseBound(value string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	if t, err = time.ParseInLocation("2006-01-02 15:04:05", value, loc); err == nil {
		return t, false, nil
	}
	if t, err = time.ParseInLocation(constants.TimeFormatDate, value, loc); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, err
}

// Duration accepts Go duration strings such as "90s" or "2m" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.InterfaceUnmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String renders the duration in Go's duration syntax.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// ToleranceConfig is either a bare fraction, meaning relative
// tolerance on every metric, or the structured form with a default
// rule and per-metric overrides.
type ToleranceConfig struct {
	// Default applies to every metric without an override.
	Default MetricToleranceConfig `yaml:"default,omitempty"`

	// Metrics overrides the default per metric name.
	Metrics map[string]MetricToleranceConfig `yaml:"metrics,omitempty"`

	scalar *decimal.Decimal
}

// MetricToleranceConfig is one tolerance rule: absolute units,
// relative fraction, and the mode combining them.
type MetricToleranceConfig struct {
	Abs  float64 `yaml:"abs,omitempty"`
	Pct  float64 `yaml:"pct,omitempty"`
	Mode string  `yaml:"mode,omitempty"`
}

// UnmarshalYAML implements yaml.InterfaceUnmarshaler, accepting both
// the scalar and the structured form.
func (t *ToleranceConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var fraction float64
	if err := unmarshal(&fraction); err == nil {
		pct := decimal.NewFromFloat(fraction)
		*t = ToleranceConfig{scalar: &pct}
		return nil
	}
	var quoted string
	if err := unmarshal(&quoted); err == nil {
		pct, derr := decimal.NewFromString(quoted)
		if derr != nil {
			return fmt.Errorf("invalid tolerance %q: %w", quoted, derr)
		}
		*t = ToleranceConfig{scalar: &pct}
		return nil
	}
	type plain ToleranceConfig
	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}
	*t = ToleranceConfig(p)
	return nil
}

// Tolerance converts the config form into the comparator's tolerance.
func (t ToleranceConfig) Tolerance() reconcile.Tolerance {
	if t.scalar != nil {
		return reconcile.Relative(*t.scalar)
	}
	tol := reconcile.Tolerance{Default: t.Default.metricTolerance()}
	if len(t.Metrics) > 0 {
		tol.Metrics = make(map[inventory.Metric]reconcile.MetricTolerance, len(t.Metrics))
		for name, mt := range t.Metrics {
			tol.Metrics[inventory.Metric(name)] = mt.metricTolerance()
		}
	}
	return tol
}

func (mt MetricToleranceConfig) metricTolerance() reconcile.MetricTolerance {
	return reconcile.MetricTolerance{
		Abs:  decimal.NewFromFloat(mt.Abs),
		Pct:  decimal.NewFromFloat(mt.Pct),
		Mode: reconcile.Mode(mt.Mode),
	}
}

// OutputConfig is the artifact destination.
type OutputConfig struct {
	// Path is the directory the diff artifact is written into.
	Path string `yaml:"path,omitempty"`

	// Format is the artifact encoding: csv, xlsx, or jsonl.
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=csv xlsx jsonl"`
}

// ArtifactFormat returns the parsed artifact format, CSV when unset.
func (o OutputConfig) ArtifactFormat() (report.Format, error) {
	if o.Format == "" {
		return report.FormatCSV, nil
	}
	return report.ParseFormat(o.Format)
}

// ArtifactPath returns the artifact file path for a run. A path with a
// recognized artifact extension is used as-is; anything else is treated
// as a directory receiving diff_<runID>.<ext>, or diff.<ext> when the
// run ID is empty.
func (o OutputConfig) ArtifactPath(runID string) string {
	if ext := strings.TrimPrefix(filepath.Ext(o.Path), "."); report.Format(ext).IsValid() {
		return o.Path
	}
	format, err := o.ArtifactFormat()
	if err != nil {
		format = report.FormatCSV
	}
	name := "diff" + format.Ext()
	if runID != "" {
		name = "diff_" + runID + format.Ext()
	}
	dir := o.Path
	if dir == "" {
		dir = constants.DefaultOutputDir
	}
	return filepath.Join(dir, name)
}

// SourcesConfig selects the two sides of a run: live oms and dwh
// connections, or a pair of exported snapshot files.
type SourcesConfig struct {
	OMS      *OMSConfig      `yaml:"oms,omitempty"`
	DWH      *DWHConfig      `yaml:"dwh,omitempty"`
	Snapshot *SnapshotConfig `yaml:"snapshot,omitempty"`
}

func (s SourcesConfig) validate() error {
	if s.Snapshot != nil {
		if s.OMS != nil || s.DWH != nil {
			return errors.NewConfigError("sources",
				"snapshot runs cannot also configure oms or dwh", nil)
		}
		return s.Snapshot.validate()
	}
	if s.OMS == nil || s.DWH == nil {
		return errors.NewConfigError("sources",
			"configure sources.oms and sources.dwh together, or sources.snapshot", nil)
	}
	if err := s.OMS.validate(); err != nil {
		return err
	}
	return s.DWH.validate()
}

// OMSConfig connects the operational system's inventory API.
type OMSConfig struct {
	// BaseURL is the API root, e.g. https://oms.internal:8443.
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// Path overrides the adapter's standard snapshot endpoint.
	Path string `yaml:"path,omitempty"`

	// Token authenticates requests. ${VAR} references are expanded
	// from the environment so config files stay shareable.
	Token string `yaml:"token,omitempty"`

	// PageSize caps records per request. 0 uses the adapter default.
	PageSize int `yaml:"page_size,omitempty" validate:"gte=0"`

	// Metrics restricts which metrics this source supplies.
	Metrics []string `yaml:"metrics,omitempty" validate:"dive,oneof=on_hand reserved available damaged"`

	// Mapping overrides the adapter's default field mapping.
	Mapping *normalize.Mapping `yaml:"mapping,omitempty"`
}

// ResolveToken expands environment references in the configured token.
func (o OMSConfig) ResolveToken() string {
	return ExpandEnv(o.Token)
}

func (o *OMSConfig) validate() error {
	if o.Mapping != nil {
		return o.Mapping.Validate()
	}
	return nil
}

// DWHConfig connects the warehouse's MySQL-compatible endpoint.
type DWHConfig struct {
	// DSN is the database connection string. ${VAR} references are
	// expanded from the environment.
	DSN string `yaml:"dsn" validate:"required"`

	// Table is read with the adapter's standard snapshot query.
	Table string `yaml:"table,omitempty"`

	// Query replaces the standard query entirely. Mutually exclusive
	// with Table.
	Query string `yaml:"query,omitempty"`

	// Metrics restricts which metrics this source supplies.
	Metrics []string `yaml:"metrics,omitempty" validate:"dive,oneof=on_hand reserved available damaged"`

	// Mapping overrides the adapter's default field mapping.
	Mapping *normalize.Mapping `yaml:"mapping,omitempty"`
}

// ResolveDSN expands environment references in the configured DSN.
func (d DWHConfig) ResolveDSN() string {
	return ExpandEnv(d.DSN)
}

func (d *DWHConfig) validate() error {
	if d.Table != "" && d.Query != "" {
		return errors.NewConfigError("sources.dwh",
			"table and query are mutually exclusive", nil)
	}
	if d.Mapping != nil {
		return d.Mapping.Validate()
	}
	return nil
}

// SnapshotConfig compares two exported snapshot files instead of live
// sources.
type SnapshotConfig struct {
	// OMSPath and DWHPath are delimited snapshot exports. The field
	// delimiter is sniffed per file unless forced here.
	OMSPath string `yaml:"oms_path" validate:"required"`
	DWHPath string `yaml:"dwh_path" validate:"required"`

	// Delimiter forces the field delimiter for both files.
	Delimiter string `yaml:"delimiter,omitempty" validate:"omitempty,len=1"`

	// Metrics restricts which metrics the snapshots supply.
	Metrics []string `yaml:"metrics,omitempty" validate:"dive,oneof=on_hand reserved available damaged"`

	// Mapping overrides the default snapshot field mapping.
	Mapping *normalize.Mapping `yaml:"mapping,omitempty"`
}

func (s *SnapshotConfig) validate() error {
	if s.Mapping != nil {
		return s.Mapping.Validate()
	}
	return nil
}
