package trigger

import (
	"fmt"
	"strings"
	"time"
)

func serviceUnit(prefix, name string) string { return prefix + "-" + name + ".service" }
func timerUnit(prefix, name string) string   { return prefix + "-" + name + ".timer" }

func renderService(r Registration) string {
	var b strings.Builder
	b.WriteString("[Unit]\n")
	fmt.Fprintf(&b, "Description=%s\n", describe(r, "check"))
	b.WriteString("\n[Service]\n")
	b.WriteString("Type=oneshot\n")
	// Countdowns block for up to two hours before the restart.
	b.WriteString("TimeoutStartSec=infinity\n")
	b.WriteString("ExecStart=")
	b.WriteString(quoteExecArg(r.Program))
	for _, a := range r.Args {
		b.WriteString(" ")
		b.WriteString(quoteExecArg(a))
	}
	b.WriteString("\n")
	return b.String()
}

func renderTimer(prefix string, r Registration) string {
	secs := int64(r.Interval / time.Second)
	var b strings.Builder
	b.WriteString("[Unit]\n")
	fmt.Fprintf(&b, "Description=%s\n", describe(r, "timer"))
	b.WriteString("\n[Timer]\n")
	fmt.Fprintf(&b, "OnActiveSec=%ds\n", secs)
	fmt.Fprintf(&b, "OnUnitActiveSec=%ds\n", secs)
	b.WriteString("AccuracySec=1s\n")
	fmt.Fprintf(&b, "Unit=%s\n", serviceUnit(prefix, r.Name))
	b.WriteString("\n[Install]\n")
	b.WriteString("WantedBy=timers.target\n")
	return b.String()
}

func describe(r Registration, kind string) string {
	if d := strings.TrimSpace(r.Description); d != "" {
		return d + " (" + kind + ")"
	}
	return "maxuptime " + r.Name + " " + kind
}

// quoteExecArg quotes a single ExecStart word per systemd.service(5).
func quoteExecArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'\\;$%") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `$$`, `%`, `%%`)
	return `"` + r.Replace(s) + `"`
}
