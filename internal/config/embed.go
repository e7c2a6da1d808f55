package config

import _ "embed"

// defaults.yaml carries the built-in run defaults. Explicit config
// values are decoded over them, so absent keys keep these values.
//
//go:embed defaults.yaml
var defaultsYAML []byte
