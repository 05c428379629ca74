// Package sqlite provides a SQLite-based implementation of the pvflow
// storage ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, so the container image can be built from scratch. A single
// database connection backs:
//
//   - ForecastStore: forecast fetch log and forecast periods
//   - SchedulerStore: background task state and run history
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; an up migration records its version in schema_migrations.
//
// # Time Storage
//
// Timestamps are stored as RFC 3339 strings in UTC so lexical order equals
// chronological order and range queries can compare strings.
//
// # Data Location
//
// By default, the database is stored at ~/.pvflow/data/pvflow.db
package sqlite
