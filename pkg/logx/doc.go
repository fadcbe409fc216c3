// Package logx is maxuptime's structured logger: a thin zerolog wrapper
// with typed field helpers and short file:line callers.
//
// A run opens its sinks once (console, append-only JSON file, journald) and
// closes them on exit.
package logx
