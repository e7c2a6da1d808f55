package app

import "testing"

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}

	// LogLevel may legitimately be empty; logger.go resolves it from
	// the -v/-q flags. Format and output always carry a default.
	if config.LogFormat == "" {
		t.Error("LogFormat has no default")
	}
	if config.LogOutput == "" {
		t.Error("LogOutput has no default")
	}
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("STOCKPARITY_VERBOSE", "true")
	t.Setenv("STOCKPARITY_FORMAT", "json")
	t.Setenv("STOCKPARITY_CONFIG", "/tmp/stockparity-test.yaml")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if !config.Verbose {
		t.Error("STOCKPARITY_VERBOSE not honored")
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.ConfigFile != "/tmp/stockparity-test.yaml" {
		t.Errorf("ConfigFile = %s, want /tmp/stockparity-test.yaml", config.ConfigFile)
	}
}

func TestLoadConfigBooleanEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		check    func(*Config) bool
		want     bool
	}{
		{"quiet true", "STOCKPARITY_QUIET", "true", func(c *Config) bool { return c.Quiet }, true},
		{"no-color numeric", "STOCKPARITY_NO_COLOR", "1", func(c *Config) bool { return c.NoColor }, true},
		{"verbose false", "STOCKPARITY_VERBOSE", "false", func(c *Config) bool { return c.Verbose }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.envValue)

			config, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() failed: %v", err)
			}
			if got := tt.check(config); got != tt.want {
				t.Errorf("%s: got %v, want %v", tt.envVar, got, tt.want)
			}
		})
	}
}

func TestLoadConfigLogging(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_OUTPUT", "stdout")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.LogLevel != "debug" || config.LogFormat != "json" || config.LogOutput != "stdout" {
		t.Errorf("logging config = %s/%s/%s, want debug/json/stdout",
			config.LogLevel, config.LogFormat, config.LogOutput)
	}
}

func TestUpdateFromFlags(t *testing.T) {
	tests := []struct {
		name         string
		initial      Config
		verbose      bool
		quiet        bool
		noColor      bool
		format       string
		logLevel     string
		wantFormat   string
		wantLogLevel string
	}{
		{
			name:         "all flags set",
			initial:      Config{Format: "table", LogLevel: "info"},
			verbose:      true,
			noColor:      true,
			format:       "json",
			logLevel:     "debug",
			wantFormat:   "json",
			wantLogLevel: "debug",
		},
		{
			name:         "empty format keeps loaded value",
			initial:      Config{Format: "yaml"},
			format:       "",
			wantFormat:   "yaml",
			wantLogLevel: "",
		},
		{
			name:         "empty log level keeps loaded value",
			initial:      Config{LogLevel: "warn"},
			logLevel:     "",
			wantFormat:   "",
			wantLogLevel: "warn",
		},
		{
			name:    "booleans always overwritten",
			initial: Config{Verbose: true, Quiet: true, NoColor: true},
			// all flag values false
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := tt.initial
			config.UpdateFromFlags(tt.verbose, tt.quiet, tt.noColor, tt.format, tt.logLevel)

			if config.Verbose != tt.verbose {
				t.Errorf("Verbose = %v, want %v", config.Verbose, tt.verbose)
			}
			if config.Quiet != tt.quiet {
				t.Errorf("Quiet = %v, want %v", config.Quiet, tt.quiet)
			}
			if config.NoColor != tt.noColor {
				t.Errorf("NoColor = %v, want %v", config.NoColor, tt.noColor)
			}
			if config.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", config.Format, tt.wantFormat)
			}
			if config.LogLevel != tt.wantLogLevel {
				t.Errorf("LogLevel = %q, want %q", config.LogLevel, tt.wantLogLevel)
			}
		})
	}
}
