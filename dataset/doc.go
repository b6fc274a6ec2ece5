// Package dataset provides a small columnar Table for experiment results,
// gob and CSV codecs for it, and the loader that assembles a dataset's
// graph index by joining the persisted graphs and timings tables.
package dataset
