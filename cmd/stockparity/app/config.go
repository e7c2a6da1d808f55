package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the CLI-level configuration: global flags, STOCKPARITY_*
// environment variables, and .env files, merged in that order.
//
// The reconciliation run config is a separate document (internal/config)
// resolved via ConfigPath, not read through Viper: its schema is
// versioned and strict, and Viper's lossy key handling would defeat
// the unknown-key check.
type Config struct {
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Path of the run config file, from --config or STOCKPARITY_CONFIG.
	ConfigFile string

	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig builds the CLI configuration from the environment. Cobra
// flag values land later through UpdateFromFlags, which is what gives
// flags precedence over everything read here.
func LoadConfig() (*Config, error) {
	// .env files feed the process environment before viper binds it.
	// The ${VAR} credential references in the run config resolve from
	// the same environment, so this feeds those too.
	loadEnvFiles()

	viper.SetEnvPrefix("stockparity")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	return &Config{
		Verbose:    viper.GetBool("verbose"),
		Quiet:      viper.GetBool("quiet"),
		NoColor:    viper.GetBool("no-color"),
		Format:     viper.GetString("format"),
		ConfigFile: viper.GetString("config"),

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: envOr("LOG_FORMAT", "auto"),
		LogOutput: envOr("LOG_OUTPUT", "stderr"),
	}, nil
}

// UpdateFromFlags folds parsed flag values over the loaded config.
// Booleans are overwritten unconditionally; the string flags only when
// actually set, so their environment values survive an absent flag.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles feeds .env files into the process environment. godotenv
// never overrides variables that are already set, so .env.local loads
// first and wins over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// envOr reads an environment variable with a fallback default.
func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
