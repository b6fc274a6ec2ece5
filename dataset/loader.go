package dataset

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Layout of a persisted dataset under the outputs directory.
const (
	GraphsFile    = "graphs.gob"
	TimingsFile   = "timings.gob"
	TimingsPrefix = "timings_"
	JoinKey       = "graph_file"
)

// LoadGraphIndex assembles the graph index of a dataset: it reads the graphs
// and timings tables from <outputsDir>/<datasetID>/, prefixes every timings
// column with "timings_", and left-joins the renamed timings onto the graph
// index on the graph_file key.
func LoadGraphIndex(ctx context.Context, outputsDir, datasetID string) (*Table, error) {
	dir := filepath.Join(outputsDir, datasetID)

	var graphs, timings *Table
	g, gctx := errgroup.WithContext(ctx)
	read := func(name string, dst **Table) func() error {
		return func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := ReadFile(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			*dst = t
			return nil
		}
	}
	g.Go(read(GraphsFile, &graphs))
	g.Go(read(TimingsFile, &timings))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The prefix sweeps up the key column too; check it first so a schema
	// mismatch reports the column's original name.
	if _, err := timings.StringColumn(JoinKey); err != nil {
		return nil, err
	}
	renamed := timings.Rename(func(name string) string { return TimingsPrefix + name })
	return graphs.LeftJoin(renamed, JoinKey, TimingsPrefix+JoinKey)
}
