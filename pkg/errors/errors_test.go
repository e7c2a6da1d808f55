package errors_test

import (
	"errors"
	"testing"

	pkgerrors "github.com/retailops/stockparity/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "source",
			ID:       "dwh",
		}
		assert.Equal(t, "source with ID dwh not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("metric", "on_hand")
		assert.Equal(t, "metric with ID on_hand not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("source", "oms")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with record key and field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Source:  "oms",
			Key:     "X1/L1",
			Field:   "on_hand",
			Value:   "abc",
			Message: "not a number",
		}
		assert.Equal(t, "validation failed for record X1/L1, field on_hand: not a number", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("with field only", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "as_of",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field as_of: cannot be empty", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("tolerance", -0.1, "must not be negative")
		assert.Contains(t, err.Error(), "tolerance")
		assert.Contains(t, err.Error(), "must not be negative")
	})
}

func TestFetchError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &pkgerrors.FetchError{
			Source:     "oms",
			StatusCode: 503,
			Endpoint:   "https://oms.internal/v1/stock",
			Message:    "service unavailable",
		}
		assert.Contains(t, err.Error(), "oms")
		assert.Contains(t, err.Error(), "503")
		assert.Contains(t, err.Error(), "service unavailable")
		assert.True(t, errors.Is(err, pkgerrors.ErrSourceFetch))
	})

	t.Run("with wrapped error", func(t *testing.T) {
		baseErr := errors.New("connection refused")
		err := pkgerrors.NewFetchError("dwh", baseErr)
		assert.Contains(t, err.Error(), "dwh")
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, baseErr, err.Unwrap())
		assert.True(t, pkgerrors.IsFetchError(err))
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapFetch("snapshot", errors.New("no such file"))
		fetchErr, ok := err.(*pkgerrors.FetchError)
		require.True(t, ok)
		assert.Equal(t, "snapshot", fetchErr.Source)

		assert.Nil(t, pkgerrors.WrapFetch("oms", nil))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.ConfigError{
			Component: "tolerance",
			Message:   "mode must be one of abs, pct, abs_or_pct, abs_and_pct",
		}
		assert.Contains(t, err.Error(), "tolerance")
		assert.Contains(t, err.Error(), "abs_or_pct")
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidConfig))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewConfigError("sources.dwh", "dsn cannot be empty", nil)
		assert.Contains(t, err.Error(), "sources.dwh")
		assert.Contains(t, err.Error(), "dsn cannot be empty")
		assert.True(t, pkgerrors.IsConfigError(err))
	})
}

func TestFindingsError(t *testing.T) {
	t.Run("counts and message", func(t *testing.T) {
		err := pkgerrors.NewFindingsError(3, 1, 2)
		assert.Contains(t, err.Error(), "3 mismatched")
		assert.Contains(t, err.Error(), "1 only in source A")
		assert.Contains(t, err.Error(), "2 only in source B")
		assert.Equal(t, 6, err.Total())
	})

	t.Run("is findings, not a failure class", func(t *testing.T) {
		err := pkgerrors.NewFindingsError(1, 0, 0)
		assert.True(t, pkgerrors.IsFindings(err))
		assert.False(t, pkgerrors.IsFetchError(err))
		assert.False(t, pkgerrors.IsConfigError(err))
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and position", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "yaml",
			File:    "stockparity.yaml",
			Line:    12,
			Column:  3,
			Message: "unexpected token",
		}
		assert.Contains(t, err.Error(), "yaml")
		assert.Contains(t, err.Error(), "stockparity.yaml")
		assert.Contains(t, err.Error(), "12:3")
	})

	t.Run("with file only", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "csv",
			File:    "snapshot.csv",
			Message: "wrong field count",
		}
		assert.Contains(t, err.Error(), "csv")
		assert.Contains(t, err.Error(), "snapshot.csv")
		assert.Contains(t, err.Error(), "wrong field count")
	})

	t.Run("constructor and wrap", func(t *testing.T) {
		baseErr := errors.New("EOF")
		err := pkgerrors.NewParseError("csv", "oms.csv", "unexpected end", baseErr)
		assert.Contains(t, err.Error(), "csv")
		assert.Equal(t, baseErr, err.Unwrap())

		wrapped := pkgerrors.WrapParse("yaml", "config.yaml", baseErr)
		parseErr, ok := wrapped.(*pkgerrors.ParseError)
		require.True(t, ok)
		assert.Equal(t, "yaml", parseErr.Format)
		assert.Equal(t, "config.yaml", parseErr.File)
	})
}

func TestIOError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IOError{
			Operation: "write",
			Path:      "/tmp/out/diff.csv",
			Message:   "permission denied",
			Err:       errors.New("permission denied"),
		}
		assert.Contains(t, err.Error(), "write")
		assert.Contains(t, err.Error(), "/tmp/out/diff.csv")
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/diff.csv", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("wrap helper", func(t *testing.T) {
		baseErr := errors.New("no such directory")
		err := pkgerrors.WrapIO("create", "./out", baseErr)
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "create", ioErr.Operation)
		assert.Equal(t, "./out", ioErr.Path)

		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})
}

func TestTimeoutError(t *testing.T) {
	t.Run("with duration", func(t *testing.T) {
		err := &pkgerrors.TimeoutError{
			Operation: "fetch oms",
			Duration:  "2m0s",
			Message:   "source not responding",
		}
		assert.Contains(t, err.Error(), "fetch oms")
		assert.Contains(t, err.Error(), "2m0s")
		assert.True(t, errors.Is(err, pkgerrors.ErrTimeout))
	})

	t.Run("without duration", func(t *testing.T) {
		err := pkgerrors.NewTimeoutError("fetch dwh", "", "connection lost")
		assert.Contains(t, err.Error(), "fetch dwh")
		assert.NotContains(t, err.Error(), "after")
		assert.True(t, pkgerrors.IsTimeout(err))
	})
}

func TestWrapHelpers(t *testing.T) {
	t.Run("WrapValidation", func(t *testing.T) {
		err := pkgerrors.WrapValidation("sku", errors.New("cannot be empty"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "sku")
		assert.Contains(t, err.Error(), "cannot be empty")

		assert.Nil(t, pkgerrors.WrapValidation("field", nil))
	})

	t.Run("WrapIO nil passthrough", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapIO("write", "out.csv", nil))
	})
}

func TestErrorChaining(t *testing.T) {
	t.Run("fetch wrapping io", func(t *testing.T) {
		baseErr := errors.New("connection refused")
		ioErr := pkgerrors.WrapIO("connect", "dwh.internal:3306", baseErr)
		fetchErr := pkgerrors.NewFetchError("dwh", ioErr)

		assert.Equal(t, ioErr, fetchErr.Unwrap())
		assert.True(t, errors.Is(fetchErr, pkgerrors.ErrSourceFetch))

		var target *pkgerrors.IOError
		assert.True(t, errors.As(fetchErr, &target))
		assert.Equal(t, "connect", target.Operation)
	})
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", pkgerrors.ErrNotFound},
		{"ErrAlreadyExists", pkgerrors.ErrAlreadyExists},
		{"ErrInvalidInput", pkgerrors.ErrInvalidInput},
		{"ErrInvalidConfig", pkgerrors.ErrInvalidConfig},
		{"ErrSourceFetch", pkgerrors.ErrSourceFetch},
		{"ErrFindings", pkgerrors.ErrFindings},
		{"ErrTimeout", pkgerrors.ErrTimeout},
		{"ErrCanceled", pkgerrors.ErrCanceled},
		{"ErrNotImplemented", pkgerrors.ErrNotImplemented},
	}

	for _, tc := range sentinels {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotNil(t, tc.err)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}
