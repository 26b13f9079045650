// Package config loads a project's spackle.toml manifest and the engine
// settings. Settings come from defaults, the user's config file and
// SPACKLE_ environment variables, in that order of precedence.
package config
