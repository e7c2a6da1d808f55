package application

import (
	"github.com/rs/zerolog"

	"github.com/retailops/stockparity"
	"github.com/retailops/stockparity/internal/config"
	"github.com/retailops/stockparity/pkg/constants"
)

// Mock implements Application with overridable behavior. Tests set the
// Func field for whatever the command under test touches; fields left
// nil answer with a quiet default (nop logger, default run config,
// "table" output).
//
//	mock := &application.Mock{
//		RunConfigFunc: func() (*config.Config, error) { return cfg, nil },
//	}
//	cmd := reconcile.NewCommand(mock)
type Mock struct {
	RunConfigFunc    func() (*config.Config, error)
	ConfigPathFunc   func() (string, error)
	StockparityFunc  func(opts ...stockparity.Option) (stockparity.Stockparity, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// RunConfig delegates to RunConfigFunc, or returns config.Default().
func (m *Mock) RunConfig() (*config.Config, error) {
	if m.RunConfigFunc != nil {
		return m.RunConfigFunc()
	}
	return config.Default(), nil
}

// ConfigPath delegates to ConfigPathFunc, or returns the default
// config file name.
func (m *Mock) ConfigPath() (string, error) {
	if m.ConfigPathFunc != nil {
		return m.ConfigPathFunc()
	}
	return constants.DefaultConfigName, nil
}

// Stockparity delegates to StockparityFunc, or returns nil. Commands
// that reach the runner in a test must supply the func.
func (m *Mock) Stockparity(opts ...stockparity.Option) (stockparity.Stockparity, error) {
	if m.StockparityFunc != nil {
		return m.StockparityFunc(opts...)
	}
	return nil, nil
}

// Logger delegates to LoggerFunc, or returns a nop logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the mocked output format, defaulting to table.
func (m *Mock) OutputFormat() string { return orDefault(m.OutputFormatFunc, "table") }

// Version returns the mocked version string.
func (m *Mock) Version() string { return orDefault(m.VersionFunc, "dev") }

// Commit returns the mocked commit hash.
func (m *Mock) Commit() string { return orDefault(m.CommitFunc, "unknown") }

// Date returns the mocked build date.
func (m *Mock) Date() string { return orDefault(m.DateFunc, "unknown") }

// BuiltBy returns the mocked builder name.
func (m *Mock) BuiltBy() string { return orDefault(m.BuiltByFunc, "test") }

func orDefault(f func() string, def string) string {
	if f != nil {
		return f()
	}
	return def
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
