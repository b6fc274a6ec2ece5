package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hjmark2010/provenance-kernel-evaluation/dataset"
)

var joinOut string

var joinCmd = &cobra.Command{
	Use:   "join <dataset-id>",
	Short: "Join a dataset's graph index with its timings",
	Long: `Load the dataset's graph index, join the prefixed timings table onto it
and write the result as CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: runJoin,
}

func init() {
	rootCmd.AddCommand(joinCmd)
	joinCmd.Flags().StringVarP(&joinOut, "out", "o", "", "write CSV to this file instead of stdout")
}

func runJoin(cmd *cobra.Command, args []string) error {
	tbl, err := dataset.LoadGraphIndex(cmd.Context(), outputsDir, args[0])
	if err != nil {
		return fmt.Errorf("loading graph index: %w", err)
	}
	log.Info().Int("rows", tbl.Len()).Int("columns", len(tbl.Cols)).Msg("graph index loaded")

	if joinOut == "" {
		return dataset.WriteCSV(os.Stdout, tbl)
	}
	f, err := os.Create(joinOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", joinOut, err)
	}
	if err := dataset.WriteCSV(f, tbl); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
