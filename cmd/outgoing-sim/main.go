// Command outgoing-sim drives a running outgoing server and verifies its behaviour.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/outgoing/internal/sim"
	"github.com/okian/outgoing/pkg/logger"
)

// defaultRunTimeout bounds a whole simulation.
const defaultRunTimeout = 10 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	cfg := sim.DefaultConfig()

	root := &cobra.Command{
		Use:          "outgoing-sim",
		Short:        "Exercise a running outgoing server",
		Long:         `Drives the outgoing HTTP API through scripted sessions and checks the results.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if cfg.Verbose {
				_ = logger.SetLevelString("debug")
			}
			return nil
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.BaseURL, "url", sim.DefaultBaseURL, "Base URL of the service")
	pf.DurationVar(&cfg.Timeout, "timeout", sim.DefaultTimeout, "HTTP request timeout")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every request")

	root.AddCommand(newWeekCmd(cfg), newActionsCmd(cfg))
	return root
}

func newWeekCmd(cfg *sim.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Complete all seven challenge days with rollovers in between",
		Long: `Completes today's challenge, starts a new day, and repeats until the
challenge is finished. The server must be on day 1 with nothing completed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultRunTimeout)
			defer cancel()

			rep, err := sim.RunWeek(ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "week: %d days, +%d points, unlocked day %d, finished %t (%s)\n",
				rep.Days, rep.PointsDelta, rep.UnlockedDay, rep.Finished, rep.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.WeekPoints, "points", sim.DefaultWeekPoints, "Expected points for the whole week (0 skips the check)")
	return cmd
}

func newActionsCmd(cfg *sim.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "Log random catalog actions and verify totals and log order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Actions < 1 {
				return fmt.Errorf("-n must be positive, got %d", cfg.Actions)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultRunTimeout)
			defer cancel()

			rep, err := sim.RunActions(ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "actions: %d submitted, %d created, %d duplicates, +%d points (%s)\n",
				rep.Submitted, rep.Created, rep.Duplicates, rep.PointsDelta, rep.Duration.Round(time.Millisecond))
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&cfg.Actions, "count", "n", sim.DefaultActions, "Number of actions to log")
	f.IntVar(&cfg.Workers, "workers", sim.DefaultWorkers, "Concurrent submitters")
	f.IntVar(&cfg.ReplayEvery, "replay-every", sim.DefaultReplayEvery, "Replay every Nth request id (0 disables)")
	return cmd
}
