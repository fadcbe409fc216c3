// Package storage provides the optional audit journal.
//
// Every classification, registration change and restart request can be
// appended here in addition to the log. The journal is write-only from this
// program's point of view.
//
// Drivers:
//   - "file": append-only JSON Lines
//   - "sqlite": SQLite database file (modernc.org/sqlite, no cgo)
package storage
