// Package config loads the connected app configuration from a YAML file in
// the user's XDG configuration directory. Missing files yield usable
// defaults; only the consumer key has to be provided before the CLI can
// authenticate.
package config
