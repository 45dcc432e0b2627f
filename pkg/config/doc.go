// Package config loads gearlink settings.
//
// Settings come from built-in defaults, an optional YAML file and
// GEARLINK_-prefixed environment variables, later sources winning. Nested
// keys map to environment names by replacing dots with underscores, so
// transport.keepalive.disabled is GEARLINK_TRANSPORT_KEEPALIVE_DISABLED.
package config
