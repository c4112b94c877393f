// Package config loads tidydl's configuration.
//
// Values are layered, later layers winning: the embedded defaults, the user
// config file (TOML or YAML), TIDYDL_* environment variables and finally
// command line overrides. Lists replace earlier lists while the extensions
// table merges key by key, so a user file can add one extension without
// restating the whole table.
package config
