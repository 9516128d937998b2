package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/bluefirelabs/reattempt/utils/logger"
	"github.com/google/uuid"
)

var (
	// Thread-safe random source for jitter
	randMu     sync.Mutex
	randSource = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Config controls the backoff schedule for a single execution.
// The zero value runs the operation once with no retries; use
// DefaultConfig for sensible retry behavior.
type Config struct {
	// MaxRetries is the number of additional attempts after the first,
	// so the operation runs at most MaxRetries+1 times.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the computed delay regardless of how large the
	// exponential term grows.
	MaxDelay time.Duration
	// BackoffMultiple is the exponential multiplier applied per retry.
	BackoffMultiple float64
	// Jitter scales each delay by a uniform random factor in [0.8, 1.0)
	// to desynchronize concurrent retriers.
	Jitter bool
}

// DefaultConfig returns sensible defaults for retry operations
func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		BaseDelay:       200 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffMultiple: 2.0,
		Jitter:          true,
	}
}

// withDefaults fills unusable fields. MaxRetries is left alone: zero is a
// meaningful value (single attempt, no retry).
func (c Config) withDefaults() Config {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 200 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 5 * time.Second
	}
	if c.MaxDelay < c.BaseDelay {
		c.MaxDelay = c.BaseDelay
	}
	if c.BackoffMultiple <= 0 {
		c.BackoffMultiple = 2.0
	}
	return c
}

// delayFor computes the delay before retry number retryNum (1-based),
// capped at MaxDelay and optionally scaled down by jitter.
func (c Config) delayFor(retryNum int) time.Duration {
	backoff := float64(c.BaseDelay) * math.Pow(c.BackoffMultiple, float64(retryNum-1))
	if backoff > float64(c.MaxDelay) || math.IsInf(backoff, 1) {
		backoff = float64(c.MaxDelay)
	}
	delay := time.Duration(backoff)
	if c.Jitter {
		randMu.Lock()
		scale := 0.8 + 0.2*randSource.Float64()
		randMu.Unlock()
		delay = time.Duration(float64(delay) * scale)
	}
	return delay
}

// EventType identifies what happened during an execution.
type EventType string

const (
	EventRetrying     EventType = "retrying"
	EventRecovered    EventType = "recovered"
	EventExhausted    EventType = "exhausted"
	EventNonRetryable EventType = "non_retryable"
)

// Event is the structured record emitted through Options.OnEvent for
// external listeners (dashboards, test probes). Attempt is the 1-based
// attempt that just finished.
type Event struct {
	Type        EventType     `json:"type"`
	CallID      string        `json:"call_id"`
	Name        string        `json:"name"`
	Attempt     int           `json:"attempt"`
	MaxAttempts int           `json:"max_attempts"`
	Delay       time.Duration `json:"delay,omitempty"`
	Err         error         `json:"-"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Options bundles everything Execute needs besides the operation itself.
type Options struct {
	Config Config
	// Condition decides whether a given failure is retryable.
	// Nil means every error is retryable.
	Condition Condition
	// Name is the API or operation name used in log lines.
	Name string
	// Logger receives the warn/error side channel. Nil defaults to stdout.
	Logger logger.Logger
	// OnEvent, when set, receives a structured event per retry decision.
	OnEvent func(Event)
}

func (o Options) name() string {
	if o.Name == "" {
		return "operation"
	}
	return o.Name
}

func (o Options) logger() logger.Logger {
	if o.Logger == nil {
		return logger.NewStdoutLogger()
	}
	return o.Logger
}

func (o Options) emit(e Event) {
	if o.OnEvent == nil {
		return
	}
	e.Timestamp = time.Now()
	o.OnEvent(e)
}

// Execute runs op until it succeeds, the retry budget is exhausted, the
// condition rejects the error, or ctx is cancelled during a backoff sleep.
//
// On success the result of whichever attempt succeeded is returned with no
// wrapping. On exhaustion or a non-retryable error, the error from the final
// attempt is returned unmodified after an error-level log. A warn-level log
// precedes every backoff sleep with the attempt number, the computed delay
// and the error that triggered the retry.
//
// Execute holds no state between calls and is safe for concurrent use;
// concurrent executions do not share backoff schedules. Whether op is safe
// to run more than once is the caller's responsibility: Execute does not
// deduplicate attempts, so retrying a non-idempotent write can double-apply.
//
// op receives the number of retries performed so far (0 on the first
// attempt).
func Execute[T any](ctx context.Context, opts Options, op func(attempt int) (T, error)) (T, error) {
	cfg := opts.Config.withDefaults()
	log := opts.logger()
	name := opts.name()
	callID := shortCallID()
	maxAttempts := cfg.MaxRetries + 1

	var zero T
	for retries := 0; ; retries++ {
		result, err := op(retries)
		if err == nil {
			if retries > 0 {
				log.Printf("%s [%s] succeeded on attempt %d/%d", name, callID, retries+1, maxAttempts)
				opts.emit(Event{Type: EventRecovered, CallID: callID, Name: name, Attempt: retries + 1, MaxAttempts: maxAttempts})
			}
			return result, nil
		}

		// Budget check comes first: a non-retryable error on the final
		// permitted attempt reports as exhaustion.
		if retries >= cfg.MaxRetries {
			log.Errorf("%s [%s] failed after %d/%d attempts: %v", name, callID, retries+1, maxAttempts, err)
			opts.emit(Event{Type: EventExhausted, CallID: callID, Name: name, Attempt: retries + 1, MaxAttempts: maxAttempts, Err: err})
			return zero, err
		}

		if opts.Condition != nil && !opts.Condition(err) {
			log.Errorf("%s [%s] non-retryable error on attempt %d/%d: %v", name, callID, retries+1, maxAttempts, err)
			opts.emit(Event{Type: EventNonRetryable, CallID: callID, Name: name, Attempt: retries + 1, MaxAttempts: maxAttempts, Err: err})
			return zero, err
		}

		delay := cfg.delayFor(retries + 1)
		log.Warnf("%s [%s] attempt %d/%d failed, retrying in %v: %v", name, callID, retries+1, maxAttempts, delay, err)
		opts.emit(Event{Type: EventRetrying, CallID: callID, Name: name, Attempt: retries + 1, MaxAttempts: maxAttempts, Delay: delay, Err: err})

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("%s cancelled during backoff after attempt %d: %w (last error: %v)", name, retries+1, ctx.Err(), err)
		case <-timer.C:
		}
	}
}

// Do is Execute for operations with no result.
func Do(ctx context.Context, opts Options, op func(attempt int) error) error {
	_, err := Execute(ctx, opts, func(attempt int) (struct{}, error) {
		return struct{}{}, op(attempt)
	})
	return err
}

// shortCallID returns a compact per-call correlation id for log lines.
func shortCallID() string {
	return uuid.NewString()[:8]
}
