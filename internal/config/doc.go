// Package config loads the service configuration from multiple sources (YAML
// files, environment variables, CLI flags) with precedence: CLI flags > YAML
// config > Environment variables > Defaults. The YAML file may also carry the
// host override for the UI settings under ui_overrides.
package config
