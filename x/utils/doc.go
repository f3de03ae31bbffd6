// Package utils contains the decorators every transaction passes through:
// panic recovery, logging, metrics, result tagging and the savepoint that
// makes each operation atomic.
package utils
