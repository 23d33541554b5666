// Package file provides the TOML-backed configuration store.
//
// Settings live in config.toml inside the tramtid home directory,
// ~/.tramtid unless TRAMTID_HOME points elsewhere.
package file
