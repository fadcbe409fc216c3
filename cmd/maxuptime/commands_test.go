package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"maxuptime/internal/app"
	"maxuptime/internal/controller"
	"maxuptime/internal/escalation"
	logx "maxuptime/pkg/logx"
)

func TestPrintStatus(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	st := controller.Status{
		Uptime:               550000,
		Condition:            escalation.UrgentWarning,
		StandardInstalled:    true,
		AcceleratedInstalled: true,
		AcceleratedState:     "active",
		Remaining:            54800,
		RestartAt:            now.Add(54800 * time.Second),
		NextCheck:            now.Add(15 * time.Minute),
	}
	var buf bytes.Buffer
	printStatus(&buf, st, escalation.DefaultThresholds(), now)
	out := buf.String()
	for _, want := range []string{
		"152 hours 46 minutes 40 seconds",
		"UrgentWarning",
		"accelerated:  installed (active)",
		"standard:     installed\n",
		"15 hours from now",
		"15 minutes from now",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "first run") {
		t.Fatalf("unexpected first run line:\n%s", out)
	}
}

func TestPrintStatusDueNow(t *testing.T) {
	var buf bytes.Buffer
	printStatus(&buf, controller.Status{Uptime: 700000, Condition: escalation.InitialGraceShutdown, FirstRun: true},
		escalation.DefaultThresholds(), time.Now())
	out := buf.String()
	if !strings.Contains(out, "due now") || !strings.Contains(out, "first run:    yes") {
		t.Fatalf("out:\n%s", out)
	}
}

func TestRootRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for unexpected argument")
	}
}

func TestReportFailureNamesConfigErrors(t *testing.T) {
	var buf bytes.Buffer
	reportFailure(logx.NewWriter(&buf, "info"), &app.ConfigError{Err: errors.New("thresholds.max_uptime: bad")})
	out := buf.String()
	if !strings.Contains(out, "invalid configuration") || !strings.Contains(out, "thresholds.max_uptime: bad") {
		t.Fatalf("log output:\n%s", out)
	}

	buf.Reset()
	reportFailure(logx.NewWriter(&buf, "info"), errors.New("restart failed: denied"))
	if !strings.Contains(buf.String(), "run failed") {
		t.Fatalf("log output:\n%s", buf.String())
	}
}
