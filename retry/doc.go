// Package retry provides a flexible and configurable retry mechanism with
// exponential backoff for handling transient failures in network requests
// and other operations.
//
// The package supports:
//   - Configurable retry attempts with exponential backoff
//   - Predicate-based conditions to determine if an error is retryable
//   - Built-in conditions for network and rate-limit failures
//   - Context-aware execution with cancellation support
//   - Warn/error logging of retry attempts through utils/logger
//   - Maximum delay caps and optional jitter
//
// Basic Usage:
//
//	ctx := context.Background()
//	opts := retry.Options{
//	    Config:    retry.DefaultConfig(),
//	    Condition: retry.NetworkErrors(),
//	    Name:      "MyAPI",
//	}
//
//	result, err := retry.Execute(ctx, opts, func(attempt int) (*Response, error) {
//	    return makeAPICall()
//	})
//
// Configuration:
//
// The Config struct allows fine-tuning of retry behavior:
//   - MaxRetries: additional attempts after the first (default: 3)
//   - BaseDelay: delay before the first retry (default: 200ms)
//   - MaxDelay: cap on any computed delay (default: 5s)
//   - BackoffMultiple: multiplier for exponential backoff (default: 2.0)
//   - Jitter: scale each delay by a uniform factor in [0.8, 1.0)
//
// The delay before retry i is BaseDelay * BackoffMultiple^(i-1), capped at
// MaxDelay. A MaxRetries of 0 degenerates to a single attempt.
//
// Conditions:
//
// A Condition decides whether an error should trigger a retry. A nil
// condition retries every error. NetworkErrors, RateLimitErrors and
// Transient cover the common transient vocabularies; MatchMessages builds
// a condition from caller-supplied substrings and patterns. For HTTP APIs,
// ExecuteHTTP threads the status code and response body through an
// ErrorChecker so classification can look beyond the error text.
//
// Profiles:
//
// Named retry configurations can be loaded from YAML with LoadProfiles and
// materialized with Profiles.Options, keeping backoff tuning out of code.
//
// Context Support:
//
// Execute respects context cancellation during backoff sleeps and returns
// immediately with the context error wrapped alongside the last operation
// error. A running attempt itself is not interrupted; an operation that
// needs a deadline must carry it in its own ctx.
//
// Idempotency:
//
// The executor never deduplicates attempts. Retrying a non-idempotent
// operation (for example a write that timed out after being applied) can
// double-apply it; whether that is acceptable is the caller's call.
package retry
