package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hjmark2010/provenance-kernel-evaluation/dataset"
	"github.com/hjmark2010/provenance-kernel-evaluation/ranksum"
)

var (
	compareMethods []string
	compareScoring string
	compareAlpha   float64
	compareVerbose bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <dataset-id>",
	Short: "Rank-sum compare two methods on a dataset",
	Long: `Load the dataset's joined graph index and test whether the scoring column
of the two given methods differs significantly.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringSliceVar(&compareMethods, "methods", nil, "exactly two method labels to compare (e.g. wl,sp)")
	compareCmd.Flags().StringVar(&compareScoring, "scoring", "accuracy", "numeric column holding the score")
	compareCmd.Flags().Float64Var(&compareAlpha, "alpha", 0.05, "significance threshold")
	compareCmd.Flags().BoolVar(&compareVerbose, "verbose", false, "print the comparison trace")
	_ = compareCmd.MarkFlagRequired("methods")
}

func runCompare(cmd *cobra.Command, args []string) error {
	if len(compareMethods) != 2 {
		return fmt.Errorf("--methods wants exactly two labels, got %d", len(compareMethods))
	}
	datasetID := args[0]

	log.Debug().Str("dataset", datasetID).Str("outputs", outputsDir).Msg("loading graph index")
	tbl, err := dataset.LoadGraphIndex(cmd.Context(), outputsDir, datasetID)
	if err != nil {
		return fmt.Errorf("loading graph index: %w", err)
	}
	log.Info().Int("rows", tbl.Len()).Msg("graph index loaded")

	opts := []ranksum.Option{
		ranksum.WithScoring(compareScoring),
		ranksum.WithAlpha(compareAlpha),
	}
	if compareVerbose {
		opts = append(opts, ranksum.WithVerbose(true), ranksum.WithOutput(os.Stderr))
	}
	res, err := ranksum.Compare(tbl, compareMethods[0], compareMethods[1], opts...)
	if err != nil {
		return fmt.Errorf("comparing methods: %w", err)
	}

	verdict := "not significant"
	diffCell := "-"
	if diff, ok := res.Diff(); ok {
		verdict = "significant"
		diffCell = fmt.Sprintf("%+.4f", diff)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Methods", "Mean A", "Mean B", "Mean diff", "Z", "P-value", "Verdict")
	table.Append(
		res.MethodA+" vs "+res.MethodB,
		strconv.FormatFloat(res.MeanA, 'f', 4, 64),
		strconv.FormatFloat(res.MeanB, 'f', 4, 64),
		diffCell,
		strconv.FormatFloat(res.Z, 'f', 4, 64),
		strconv.FormatFloat(res.P, 'g', 4, 64),
		verdict,
	)
	table.Render()

	return nil
}
