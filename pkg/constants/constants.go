// Package constants centralizes the timeouts, limits, permissions, and
// defaults shared across stockparity packages.
package constants

import "time"

// Timeouts.
const (
	// DefaultHTTPTimeout bounds individual HTTP requests to source APIs.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout bounds short one-off operations.
	DefaultTimeout = 10 * time.Second

	// SourceFetchTimeout bounds a full fetch from one source, across
	// all of its pages.
	SourceFetchTimeout = 2 * time.Minute

	// CommandTimeout bounds a whole CLI run.
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout is how long cleanup may run after a run ends.
	ShutdownTimeout = 5 * time.Second
)

// Unix permissions for artifacts and the directories holding them.
const (
	DirPermissions  = 0755 // rwxr-xr-x
	FilePermissions = 0644 // rw-r--r--
)

// Sizes and limits.
const (
	// WriteBufferSize is the bufio size for artifact writers.
	WriteBufferSize = 4096

	// SniffSampleSize is how many bytes the CSV sniffer reads when
	// guessing a delimiter.
	SniffSampleSize = 4096

	// MaxSkipLogged caps skipped-record warnings per source. Skips
	// beyond the cap are counted but not logged individually.
	MaxSkipLogged = 20

	// DefaultPageSize is the page size requested from paginated
	// source APIs.
	DefaultPageSize = 500
)

// Defaults.
const (
	// DefaultOutputDir receives diff artifacts when output.path is
	// not configured.
	DefaultOutputDir = "./out"

	// DefaultTimezone anchors window comparisons.
	DefaultTimezone = "UTC"

	// DefaultConfigName is searched in the working directory, then
	// the home directory.
	DefaultConfigName = "stockparity.yaml"
)

// Time formats.
const (
	// TimeFormatISO8601 renders instants in logs and summaries.
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatFilename stamps timestamps into generated filenames,
	// where colons are unwelcome.
	TimeFormatFilename = "20060102-150405"

	// TimeFormatDate parses date-only configuration values.
	TimeFormatDate = "2006-01-02"
)
