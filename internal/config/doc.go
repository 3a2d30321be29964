// Package config loads and validates run configuration from YAML.
//
// Load starts from Default, overlays the file, then validates the result,
// so a file only needs the keys it changes. The projection methods turn the
// loaded value into the option structs each stage takes.
package config
