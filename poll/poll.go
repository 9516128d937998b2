// Package poll waits for asynchronous conditions to become true.
//
// WaitFor evaluates a condition on a fixed interval until it reports true
// or a deadline passes. A condition evaluation that returns an error is
// logged and treated as "not yet true" rather than propagated, so one flaky
// check cannot abort the whole wait.
package poll

import (
	"context"
	"fmt"
	"time"

	"github.com/bluefirelabs/reattempt/utils/logger"
)

// Condition reports whether the awaited state has been reached.
type Condition func(ctx context.Context) (bool, error)

// Options controls the polling schedule.
type Options struct {
	// Interval between evaluations. Default 500ms.
	Interval time.Duration
	// Timeout is the total wait budget. Default 30s.
	Timeout time.Duration
	// Message is used in the timeout error. Empty gets a generic message.
	Message string
	// Logger receives a warn line per failed evaluation. Nil defaults to stdout.
	Logger logger.Logger
}

const (
	defaultInterval = 500 * time.Millisecond
	defaultTimeout  = 30 * time.Second
)

// TimeoutError is returned by WaitFor when the deadline passes before the
// condition becomes true.
type TimeoutError struct {
	Message string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("condition not met within %v", e.Timeout)
}

// WaitFor evaluates cond every Interval until it returns true or Timeout
// elapses. The first evaluation happens immediately and a final one happens
// at the deadline, so the timeout error lands at the configured boundary,
// not before. Evaluation errors are logged and swallowed; ctx cancellation
// is returned as-is.
func WaitFor(ctx context.Context, cond Condition, opts Options) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewStdoutLogger()
	}

	deadline := time.Now().Add(timeout)
	for {
		ok, err := cond(ctx)
		if err != nil {
			// Deliberately swallowed: an erroring check counts as not ready
			log.Warnf("condition check failed, treating as not ready: %v", err)
		} else if ok {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return &TimeoutError{Message: opts.Message, Timeout: timeout}
		}

		wait := interval
		if wait > remaining {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
