package retry

import (
	"context"
	"strings"

	"github.com/bluefirelabs/reattempt/utils/logger"
	"github.com/tidwall/gjson"
)

// HTTPOperation is an attempt against an HTTP API. Besides the result and
// error it surfaces the status code and response body so the checker can
// classify the failure.
type HTTPOperation[T any] func(attempt int) (T, int, []byte, error)

// ErrorChecker determines whether a failed HTTP attempt should be retried.
// It receives the error, the HTTP status code and the response body.
type ErrorChecker func(err error, statusCode int, responseBody []byte) bool

// HTTPOptions mirrors Options for HTTP-aware executions.
type HTTPOptions struct {
	Config Config
	// Checker decides retry eligibility. Nil defaults to TransientHTTP.
	Checker ErrorChecker
	Name    string
	Logger  logger.Logger
	OnEvent func(Event)
}

// ExecuteHTTP runs an HTTP operation under the same attempt loop as
// Execute, with retry eligibility decided by the checker over the error,
// status code and response body of the failed attempt.
func ExecuteHTTP[T any](ctx context.Context, opts HTTPOptions, op HTTPOperation[T]) (T, error) {
	checker := opts.Checker
	if checker == nil {
		checker = TransientHTTP()
	}

	// Attempts are strictly sequential, so capturing the latest status and
	// body for the condition closure is safe.
	var lastStatus int
	var lastBody []byte

	return Execute(ctx, Options{
		Config: opts.Config,
		Condition: func(err error) bool {
			return checker(err, lastStatus, lastBody)
		},
		Name:    opts.Name,
		Logger:  opts.Logger,
		OnEvent: opts.OnEvent,
	}, func(attempt int) (T, error) {
		result, status, body, err := op(attempt)
		lastStatus = status
		lastBody = body
		return result, err
	})
}

// StatusCodes returns a checker that retries only the given status codes.
func StatusCodes(codes ...int) ErrorChecker {
	set := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return func(err error, statusCode int, _ []byte) bool {
		_, ok := set[statusCode]
		return ok
	}
}

// TransientHTTP returns a checker that retries 429 and 5xx responses,
// rate-limit/overload errors surfaced in JSON error payloads, and
// transient network failures reported through the error itself.
func TransientHTTP() ErrorChecker {
	network := NetworkErrors()
	rateLimit := RateLimitErrors()
	return func(err error, statusCode int, responseBody []byte) bool {
		if statusCode == 429 || (statusCode >= 500 && statusCode < 600) {
			return true
		}
		if transientErrorBody(responseBody) {
			return true
		}
		return network(err) || rateLimit(err)
	}
}

// Vocabulary checked against JSON error payload fields.
var transientBodyMarkers = []string{
	"rate_limit",
	"rate limit",
	"too many requests",
	"overloaded",
	"quota",
	"throttl",
	"server_error",
}

// transientErrorBody inspects a JSON error payload for rate-limit or
// overload vocabulary, covering APIs that bury the failure in the body.
func transientErrorBody(body []byte) bool {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return false
	}
	root := gjson.ParseBytes(body)
	for _, path := range []string{"error.type", "error.code", "error.message", "message"} {
		value := root.Get(path)
		if !value.Exists() {
			continue
		}
		text := strings.ToLower(value.String())
		for _, marker := range transientBodyMarkers {
			if strings.Contains(text, marker) {
				return true
			}
		}
	}
	return false
}
