// Package config loads egmd-prep settings from TOML.
//
// Resolution order: an explicit --config path, then
// ~/.config/egmd-prep/config.toml, then ./egmd-prep.toml. A missing file is
// not an error; defaults apply. The EGMD_ROOT environment variable overrides
// paths.dataset_root.
package config
