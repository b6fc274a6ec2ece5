package ranksum

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hjmark2010/provenance-kernel-evaluation/dataset"
)

// MethodColumn names the categorical column that labels each row's method.
const MethodColumn = "method"

// Options configure Compare.
type Options struct {
	Scoring string
	Alpha   float64
	Verbose bool
	Output  io.Writer
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Scoring: "accuracy",
		Alpha:   0.05,
		Output:  os.Stdout,
	}
}

// WithScoring selects the numeric column compared between the two groups.
func WithScoring(col string) Option { return func(o *Options) { o.Scoring = col } }

// WithAlpha sets the significance threshold.
func WithAlpha(a float64) Option { return func(o *Options) { o.Alpha = a } }

// WithVerbose enables the comparison trace.
func WithVerbose(v bool) Option { return func(o *Options) { o.Verbose = v } }

// WithOutput sets the trace sink.
func WithOutput(w io.Writer) Option { return func(o *Options) { o.Output = w } }

// Test runs the two-sided Wilcoxon rank-sum test on two independent samples
// using the large-sample normal approximation. It returns the standardized
// rank sum of x and its two-sided p-value.
func Test(x, y []float64) (z, p float64, err error) {
	if len(x) == 0 || len(y) == 0 {
		return 0, 0, errors.New("ranksum: empty sample")
	}
	n1 := float64(len(x))
	n2 := float64(len(y))
	pooled := make([]float64, 0, len(x)+len(y))
	pooled = append(append(pooled, x...), y...)
	ranks := averageRanks(pooled)
	var s float64
	for _, r := range ranks[:len(x)] {
		s += r
	}
	expected := n1 * (n1 + n2 + 1) / 2
	z = (s - expected) / math.Sqrt(n1*n2*(n1+n2+1)/12)
	p = 2 * distuv.UnitNormal.Survival(math.Abs(z))
	return z, p, nil
}

// averageRanks assigns 1-based ranks to vals, averaging over tied runs.
func averageRanks(vals []float64) []float64 {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return vals[idx[a]] < vals[idx[b]] })

	ranks := make([]float64, len(vals))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && vals[idx[j+1]] == vals[idx[i]] {
			j++
		}
		// Every member of the tied run [i, j] gets the mean of the
		// 1-based positions it spans.
		r := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = r
		}
		i = j + 1
	}
	return ranks
}

// Result holds one two-method comparison.
type Result struct {
	MethodA, MethodB string
	MeanA, MeanB     float64
	Z, P             float64
	Alpha            float64
}

// Significant reports whether the two score distributions differ at the
// configured threshold.
func (r *Result) Significant() bool { return r.P <= r.Alpha }

// Diff returns the signed mean difference (methodA minus methodB) and true
// when the difference is significant; (0, false) otherwise.
func (r *Result) Diff() (float64, bool) {
	if !r.Significant() {
		return 0, false
	}
	return r.MeanA - r.MeanB, true
}

// Compare partitions tbl's rows by the method column, extracts each group's
// scoring values, and rank-sum tests the two distributions against each
// other. Missing columns and empty groups fail fast.
func Compare(tbl *dataset.Table, methodA, methodB string, optFns ...Option) (*Result, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if opts.Verbose {
		fmt.Fprintf(opts.Output, "Wilcoxon rank-sum test: %s\n", opts.Scoring)
		fmt.Fprintf(opts.Output, "> Comparing %s vs %s\n", methodA, methodB)
	}

	a, err := groupScores(tbl, methodA, opts.Scoring)
	if err != nil {
		return nil, err
	}
	b, err := groupScores(tbl, methodB, opts.Scoring)
	if err != nil {
		return nil, err
	}

	z, p, err := Test(a, b)
	if err != nil {
		return nil, err
	}
	res := &Result{
		MethodA: methodA,
		MethodB: methodB,
		MeanA:   stat.Mean(a, nil),
		MeanB:   stat.Mean(b, nil),
		Z:       z,
		P:       p,
		Alpha:   opts.Alpha,
	}
	if opts.Verbose {
		if diff, ok := res.Diff(); ok {
			fmt.Fprintf(opts.Output, "> *Significant* (pvalue = %.1f%%)\n", p*100)
			fmt.Fprintf(opts.Output, "> Mean difference: %+.1f%%\n", diff*100)
		} else {
			fmt.Fprintf(opts.Output, "> Insignificant (pvalue = %.1f%%)\n", p*100)
		}
	}
	return res, nil
}

// groupScores returns the scoring values of the rows labelled with method.
func groupScores(tbl *dataset.Table, method, scoring string) ([]float64, error) {
	group, err := tbl.Filter(MethodColumn, method)
	if err != nil {
		return nil, err
	}
	scores, err := group.FloatColumn(scoring)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("ranksum: no rows labelled %q", method)
	}
	return scores, nil
}
