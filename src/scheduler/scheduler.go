// Package scheduler provides the scheduling policies that plug into a
// stream: a dependency-ordered DAG scheduler and a two-task Beatty
// scheduler.
//
// Schedulers never switch contexts themselves. They pick a capability and
// hand it to a gate.Yielder, which re-validates it before switching.
package scheduler

import (
	"io"
	"log"
)

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return logger
}
