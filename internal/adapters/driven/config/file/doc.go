// Package file provides the TOML configuration store and a watcher that
// reloads it when the file changes on disk.
//
// Keys are addressed in dot notation ("foxess.api_key") and written as TOML
// tables:
//
//	[foxess]
//	api_key = "..."
//	serial_number = "..."
package file
