// Package task provides supervision for the long-running background
// consumers: each consumer runs as a named supervised task, and shutdown
// cancels all of them and awaits completion within a bounded grace period.
package task
