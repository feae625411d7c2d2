// Package config loads st's user configuration from a YAML file and ST_
// environment variables.
package config
