package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hjmark2010/provenance-kernel-evaluation/observe/zlog"
	"github.com/hjmark2010/provenance-kernel-evaluation/timer"
)

var (
	timeTimeout  time.Duration
	timeGCOff    bool
	timeTemplate string
	timeQuiet    bool
)

var timeCmd = &cobra.Command{
	Use:   "time [flags] -- <command> [args...]",
	Short: "Run a command inside a timing scope",
	Long: `Run a command inside a timing scope: measure its wall time, optionally
suspend garbage collection for the duration, and kill it when the deadline
expires.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTime,
}

func init() {
	rootCmd.AddCommand(timeCmd)
	timeCmd.Flags().DurationVar(&timeTimeout, "timeout", 0, "wall-clock budget for the command (0 means unbounded)")
	timeCmd.Flags().BoolVar(&timeGCOff, "gc-off", false, "suspend garbage collection for the scope")
	timeCmd.Flags().StringVar(&timeTemplate, "template", timer.DefaultTemplate, "report format, one %f verb fed the elapsed seconds")
	timeCmd.Flags().BoolVar(&timeQuiet, "quiet", false, "suppress the elapsed report")
}

func runTime(cmd *cobra.Command, args []string) error {
	opts := []timer.Option{
		timer.WithTimeout(timeTimeout),
		timer.WithGCDisabled(timeGCOff),
		timer.WithTemplate(timeTemplate),
		timer.WithVerbose(!timeQuiet),
		timer.WithOutput(os.Stderr),
	}
	if log.GetLevel() <= zerolog.DebugLevel {
		opts = append(opts, timer.WithObserver(zlog.New(log)))
	}

	err := timer.New(opts...).Run(cmd.Context(), func(ctx context.Context) error {
		child := exec.CommandContext(ctx, args[0], args[1:]...)
		child.Stdin = os.Stdin
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr
		return child.Run()
	})
	if errors.Is(err, timer.ErrTimeout) {
		return fmt.Errorf("command exceeded its %s budget: %w", timeTimeout, err)
	}
	return err
}
