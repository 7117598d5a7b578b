// Package config loads recorder configuration from a JSON or YAML file and
// HOULOG_* environment variables.
package config
