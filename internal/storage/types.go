package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Audit actions.
const (
	ActionClassify = "classify"
	ActionInstall  = "install"
	ActionRemove   = "remove"
	ActionNotify   = "notify"
	ActionRestart  = "restart"
)

// AuditEntry records one action taken by a run.
// Keep it compact and schema-stable.
type AuditEntry struct {
	At        time.Time `json:"at"`
	RunID     string    `json:"run_id"`
	Host      string    `json:"host,omitempty"`
	Action    string    `json:"action"`
	Target    string    `json:"target,omitempty"`
	Condition string    `json:"condition,omitempty"`
	Uptime    int64     `json:"uptime"`
	Error     string    `json:"error,omitempty"`
}
