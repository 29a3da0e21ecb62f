// Package config provides configuration structures and utilities for
// tangomine. It defines the options for mining runs, the .tangomine
// YAML file format with per-tag source overrides, and the XDG default
// locations for the token cache, definitions cache, and dictionary.
package config
