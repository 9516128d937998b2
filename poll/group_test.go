package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bluefirelabs/reattempt/utils/logger"
)

func TestGroup_AllConditionsMet(t *testing.T) {
	var slowReady atomic.Bool
	time.AfterFunc(50*time.Millisecond, func() { slowReady.Store(true) })

	start := time.Now()
	results := NewGroup(quietOpts(10*time.Millisecond, time.Second)).
		Add("fast", func(ctx context.Context) (bool, error) { return true, nil }).
		Add("slow", func(ctx context.Context) (bool, error) { return slowReady.Load(), nil }).
		Wait(context.Background())

	assert.Len(t, results, 2)
	assert.NoError(t, results["fast"])
	assert.NoError(t, results["slow"])
	assert.NoError(t, FirstError(results))

	// Bounded by the slowest condition, not the sum
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestGroup_ReportsTimeoutPerCondition(t *testing.T) {
	results := NewGroup(quietOpts(10*time.Millisecond, 50*time.Millisecond)).
		Add("ready", func(ctx context.Context) (bool, error) { return true, nil }).
		Add("never", func(ctx context.Context) (bool, error) { return false, nil }).
		Wait(context.Background())

	assert.NoError(t, results["ready"])

	var timeoutErr *TimeoutError
	assert.ErrorAs(t, results["never"], &timeoutErr)
	assert.Error(t, FirstError(results))
}

func TestGroup_Empty(t *testing.T) {
	results := NewGroup(Options{Logger: logger.NewNoopLogger()}).Wait(context.Background())
	assert.Empty(t, results)
	assert.NoError(t, FirstError(results))
}

func TestGroup_ConditionsRunConcurrently(t *testing.T) {
	var aReady, bReady atomic.Bool
	time.AfterFunc(60*time.Millisecond, func() { aReady.Store(true) })
	time.AfterFunc(60*time.Millisecond, func() { bReady.Store(true) })

	start := time.Now()
	results := NewGroup(quietOpts(10*time.Millisecond, time.Second)).
		Add("a", func(ctx context.Context) (bool, error) { return aReady.Load(), nil }).
		Add("b", func(ctx context.Context) (bool, error) { return bReady.Load(), nil }).
		Wait(context.Background())

	duration := time.Since(start)

	assert.NoError(t, FirstError(results))
	// Should complete in roughly one 60ms window (parallel), not 120ms (sequential)
	assert.Less(t, duration, 120*time.Millisecond)
}
