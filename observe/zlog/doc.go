// Package zlog provides a zerolog observer plugin for the timer library.
// It emits one structured event per scope transition with low overhead.
package zlog
