package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	outputsDir string

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pkeval",
	Short: "Provenance kernel evaluation workflow utilities",
	Long: `pkeval works with the outputs of provenance graph-kernel evaluation runs:
it joins a dataset's persisted graph index with its timing measurements,
compares two methods' scores with the Wilcoxon rank-sum test, and times
commands inside a deadline-bounded scope.`,
	PersistentPreRun: func(*cobra.Command, []string) {
		log = newLogger(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&outputsDir, "outputs", "outputs", "directory holding per-dataset evaluation outputs")
}

// newLogger builds a console logger on stderr so the table and CSV output on
// stdout stays machine readable.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}
