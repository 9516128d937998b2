package retry

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Condition decides whether an error is eligible for retry. Conditions are
// plain function values; compose them with AnyOf or write your own closure.
type Condition func(err error) bool

// AnyOf returns a condition that is true when any of the given conditions
// accepts the error.
func AnyOf(conds ...Condition) Condition {
	return func(err error) bool {
		for _, cond := range conds {
			if cond(err) {
				return true
			}
		}
		return false
	}
}

// MatchMessages builds a condition that retries when the error text contains
// any of the substrings (case-insensitive) or matches any of the regex
// patterns. Patterns are compiled eagerly; an invalid pattern panics, so
// keep them literal.
func MatchMessages(substrings []string, patterns []string) Condition {
	compiled := make([]*regexp2.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp2.MustCompile(p, regexp2.IgnoreCase))
	}

	return func(err error) bool {
		if err == nil {
			return false
		}
		msg := err.Error()
		lower := strings.ToLower(msg)
		for _, s := range substrings {
			if strings.Contains(lower, strings.ToLower(s)) {
				return true
			}
		}
		for _, re := range compiled {
			if ok, _ := re.MatchString(msg); ok {
				return true
			}
		}
		return false
	}
}

// Vocabulary covering connection resets and refusals, timeouts, DNS
// failures, socket hangups and 5xx status text.
var (
	networkErrorSubstrings = []string{
		"econnreset",
		"econnrefused",
		"etimedout",
		"enotfound",
		"eai_again",
		"epipe",
		"socket hang up",
		"broken pipe",
		"connection reset",
		"connection refused",
		"no such host",
		"network",
		"timeout",
		"internal server error",
		"bad gateway",
		"service unavailable",
		"gateway timeout",
	}
	networkErrorPatterns = []string{`\b5\d{2}\b`}
)

// Vocabulary covering HTTP 429 and rate-limit/quota/throttling wording.
var rateLimitSubstrings = []string{
	"429",
	"too many requests",
	"rate limit",
	"rate_limit",
	"ratelimit",
	"quota",
	"throttl",
	"resource exhausted",
	"model is currently overloaded",
	"server is overloaded",
}

// NetworkErrors returns a condition that retries transient network
// failures and 5xx-class server errors.
func NetworkErrors() Condition {
	return MatchMessages(networkErrorSubstrings, networkErrorPatterns)
}

// RateLimitErrors returns a condition that retries rate-limit and
// quota/throttling failures.
func RateLimitErrors() Condition {
	return MatchMessages(rateLimitSubstrings, nil)
}

// Transient combines NetworkErrors and RateLimitErrors.
func Transient() Condition {
	return AnyOf(NetworkErrors(), RateLimitErrors())
}
