package trigger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/coreos/go-systemd/v22/util"

	logx "maxuptime/pkg/logx"
)

// unitBus is the subset of *dbus.Conn used by SystemdRegistry.
type unitBus interface {
	ReloadContext(ctx context.Context) error
	EnableUnitFilesContext(ctx context.Context, files []string, runtime bool, force bool) (bool, []dbus.EnableUnitFileChange, error)
	DisableUnitFilesContext(ctx context.Context, files []string, runtime bool) ([]dbus.DisableUnitFileChange, error)
	RestartUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	StopUnitContext(ctx context.Context, name string, mode string, ch chan<- string) (int, error)
	GetUnitPropertiesContext(ctx context.Context, unit string) (map[string]interface{}, error)
	Close()
}

// Options configures a SystemdRegistry.
type Options struct {
	Scope   Scope
	UnitDir string // default depends on Scope
	Prefix  string // unit name prefix, default "maxuptime"
}

// SystemdRegistry realises registrations as systemd timer units.
type SystemdRegistry struct {
	mu      sync.RWMutex
	conn    unitBus
	unitDir string
	prefix  string
	log     logx.Logger
}

// NewSystemdRegistry connects to the systemd manager for opts.Scope.
func NewSystemdRegistry(ctx context.Context, opts Options, log logx.Logger) (*SystemdRegistry, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !util.IsRunningSystemd() {
		return nil, ErrNoSystemd
	}
	dir, err := resolveUnitDir(opts)
	if err != nil {
		return nil, err
	}

	var conn *dbus.Conn
	if opts.Scope == ScopeUser {
		conn, err = dbus.NewUserConnectionContext(ctx)
	} else {
		conn, err = dbus.NewSystemConnectionContext(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	return newSystemdRegistry(conn, dir, opts.Prefix, log), nil
}

func newSystemdRegistry(conn unitBus, unitDir, prefix string, log logx.Logger) *SystemdRegistry {
	if strings.TrimSpace(prefix) == "" {
		prefix = "maxuptime"
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &SystemdRegistry{conn: conn, unitDir: unitDir, prefix: prefix, log: log}
}

func resolveUnitDir(opts Options) (string, error) {
	if d := strings.TrimSpace(opts.UnitDir); d != "" {
		return d, nil
	}
	if opts.Scope == ScopeUser {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve user unit dir: %w", err)
		}
		return filepath.Join(base, "systemd", "user"), nil
	}
	return "/etc/systemd/system", nil
}

// Close closes the systemd connection.
func (r *SystemdRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
	return nil
}

func (r *SystemdRegistry) paths(name string) (service, timer string) {
	return filepath.Join(r.unitDir, serviceUnit(r.prefix, name)), filepath.Join(r.unitDir, timerUnit(r.prefix, name))
}

// Exists reports whether the timer unit file for name is present.
func (r *SystemdRegistry) Exists(ctx context.Context, name string) (bool, error) {
	_ = ctx
	_, timer := r.paths(name)
	_, err := os.Stat(timer)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", timer, err)
	}
}

// Install writes the unit pair, enables the timer and (re)starts it.
// Installing an identical registration is a no-op.
func (r *SystemdRegistry) Install(ctx context.Context, reg Registration) error {
	if strings.TrimSpace(reg.Name) == "" {
		return errors.New("trigger: registration name required")
	}
	if reg.Interval < time.Second {
		return fmt.Errorf("trigger: %s: interval must be >= 1s (got %s)", reg.Name, reg.Interval)
	}
	if strings.TrimSpace(reg.Program) == "" {
		return fmt.Errorf("trigger: %s: program required", reg.Name)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.conn == nil {
		return ErrClosed
	}

	svcPath, timerPath := r.paths(reg.Name)
	svcBody := []byte(renderService(reg))
	timerBody := []byte(renderTimer(r.prefix, reg))
	if sameContent(svcPath, svcBody) && sameContent(timerPath, timerBody) {
		r.log.Debug("registration already installed", logx.String("name", reg.Name))
		return nil
	}

	if err := os.MkdirAll(r.unitDir, 0o755); err != nil {
		return fmt.Errorf("create unit dir: %w", err)
	}
	if err := writeAtomic(svcPath, svcBody); err != nil {
		return err
	}
	if err := writeAtomic(timerPath, timerBody); err != nil {
		return err
	}

	timer := timerUnit(r.prefix, reg.Name)
	if err := r.conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("reload systemd after writing %s: %w", timer, err)
	}
	if _, _, err := r.conn.EnableUnitFilesContext(ctx, []string{timer}, false, true); err != nil {
		return fmt.Errorf("failed to enable %s: %w", timer, err)
	}
	if _, err := r.conn.RestartUnitContext(ctx, timer, "replace", nil); err != nil {
		return fmt.Errorf("failed to start %s: %w", timer, err)
	}
	r.log.Debug("registration installed",
		logx.String("name", reg.Name),
		logx.String("unit", timer),
		logx.Duration("interval", reg.Interval),
	)
	return nil
}

// Remove stops, disables and deletes the unit pair. Removing an absent
// registration is a no-op.
func (r *SystemdRegistry) Remove(ctx context.Context, name string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.conn == nil {
		return ErrClosed
	}

	svcPath, timerPath := r.paths(name)
	if !fileExists(svcPath) && !fileExists(timerPath) {
		return nil
	}

	timer := timerUnit(r.prefix, name)
	if _, err := r.conn.StopUnitContext(ctx, timer, "replace", nil); err != nil && !isNoSuchUnitErr(err) {
		return fmt.Errorf("failed to stop %s: %w", timer, err)
	}
	if _, err := r.conn.DisableUnitFilesContext(ctx, []string{timer}, false); err != nil && !isNoSuchUnitErr(err) {
		return fmt.Errorf("failed to disable %s: %w", timer, err)
	}
	for _, p := range []string{timerPath, svcPath} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	if err := r.conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("removed %s but failed to reload systemd daemon: %w", timer, err)
	}
	r.log.Debug("registration removed", logx.String("name", name), logx.String("unit", timer))
	return nil
}

// State returns the timer's ActiveState as systemd sees it ("active",
// "inactive", "failed", ...). An absent registration reports "absent".
func (r *SystemdRegistry) State(ctx context.Context, name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.conn == nil {
		return "", ErrClosed
	}
	if _, timerPath := r.paths(name); !fileExists(timerPath) {
		return "absent", nil
	}
	timer := timerUnit(r.prefix, name)
	props, err := r.conn.GetUnitPropertiesContext(ctx, timer)
	if err != nil {
		return "", fmt.Errorf("failed to get properties of %s: %w", timer, err)
	}
	state, _ := props["ActiveState"].(string)
	if state == "" {
		state = "unknown"
	}
	return state, nil
}

func isNoSuchUnitErr(err error) bool {
	if err == nil {
		return false
	}
	es := err.Error()
	// systemd returns org.freedesktop.systemd1.NoSuchUnit for missing units.
	if strings.Contains(es, "NoSuchUnit") {
		return true
	}
	return strings.Contains(es, "not-found") || strings.Contains(es, "not loaded")
}

func sameContent(path string, want []byte) bool {
	got, err := os.ReadFile(path)
	return err == nil && bytes.Equal(got, want)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeAtomic(path string, body []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
