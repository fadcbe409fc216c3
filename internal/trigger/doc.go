// Package trigger manages the periodic re-invocation registrations.
//
// A registration is a systemd timer/service unit pair written to a unit
// directory and driven over D-Bus. Existence is a structural fact (the timer
// unit file is on disk), so it survives process restarts without any other
// persisted state.
package trigger
