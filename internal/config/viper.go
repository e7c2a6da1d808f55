package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// GetString resolves a key through viper's bound configuration,
// falling back to the process environment. The fallback lets
// credentials exported in CI land without a config entry.
func GetString(key string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return os.Getenv(key)
}

// ExpandEnv substitutes ${VAR} references in a config value.
// Credentials such as sources.oms.token and sources.dwh.dsn are
// usually written as references so config files stay shareable.
func ExpandEnv(value string) string {
	if !strings.Contains(value, "$") {
		return value
	}
	return os.Expand(value, GetString)
}
