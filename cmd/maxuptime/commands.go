package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"maxuptime/internal/app"
	"maxuptime/internal/controller"
	"maxuptime/internal/escalation"
	logx "maxuptime/pkg/logx"
)

func newRootCmd() *cobra.Command {
	var cfgPath string

	open := func(cmd *cobra.Command) (*app.App, error) {
		return app.New(cmd.Context(), cfgPath, os.Stdout)
	}

	root := &cobra.Command{
		Use:   "maxuptime",
		Short: "Enforce a maximum uptime by warning users and restarting the machine",
		Long: `maxuptime checks how long the machine has been up, warns the logged-in
user as the limit approaches, and restarts it once the limit is reached.
It registers itself with systemd timers and is meant to be re-run by them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return runOnce(cmd.Context(), a)
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML or JSON config file (defaults when empty)")

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show uptime, classification and registrations without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			st, err := a.Controller().Inspect(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st, a.Settings().Thresholds, time.Now())
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "uninstall",
		Short: "Remove both periodic registrations (the next run counts as a first run)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Controller().Uninstall(cmd.Context())
		},
	})

	return root
}

func runOnce(ctx context.Context, a *app.App) error {
	res, err := a.Controller().RunOnce(ctx)
	if err != nil {
		return err
	}
	if res.Restarted {
		// The reboot is in flight. Stay alive until the system stops us.
		a.Logger().Info("restart requested; waiting for shutdown", logx.String("run_id", res.RunID))
		<-ctx.Done()
	}
	return nil
}

func printStatus(w io.Writer, st controller.Status, th escalation.Thresholds, now time.Time) {
	fmt.Fprintf(w, "uptime:       %s\n", escalation.FormatSeconds(st.Uptime))
	fmt.Fprintf(w, "condition:    %s\n", st.Condition)
	if st.FirstRun {
		fmt.Fprintln(w, "first run:    yes (standard registration not installed)")
	}
	fmt.Fprintf(w, "standard:     %s\n", installed(st.StandardInstalled, st.StandardState))
	fmt.Fprintf(w, "accelerated:  %s\n", installed(st.AcceleratedInstalled, st.AcceleratedState))
	fmt.Fprintf(w, "max uptime:   %s\n", escalation.FormatSeconds(th.MaxUptime))
	if st.RestartAt.IsZero() {
		fmt.Fprintln(w, "restart:      due now")
	} else {
		fmt.Fprintf(w, "restart:      %s (%s)\n", st.RestartAt.Format(time.RFC1123), humanize.RelTime(st.RestartAt, now, "ago", "from now"))
	}
	if !st.NextCheck.IsZero() {
		fmt.Fprintf(w, "next check:   %s\n", humanize.RelTime(st.NextCheck, now, "ago", "from now"))
	}
}

func installed(ok bool, state string) string {
	if !ok {
		return "absent"
	}
	if state == "" {
		return "installed"
	}
	return "installed (" + state + ")"
}
