// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and AUTOSCHEDULER_* environment
// variables. It keeps configuration details separate from business logic.
package config
