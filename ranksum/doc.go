// Package ranksum implements the two-sided Wilcoxon rank-sum test and the
// two-method comparison used to decide whether one kernel configuration
// scores significantly better than another on a shared evaluation table.
package ranksum
