package poll

import (
	"context"
	"sync"
)

// Group waits for several named conditions concurrently, each under the
// same polling options. Results are keyed by the names given to Add.
type Group struct {
	conds map[string]Condition
	opts  Options
}

// NewGroup creates an empty group with the given polling options
func NewGroup(opts Options) *Group {
	return &Group{
		conds: make(map[string]Condition),
		opts:  opts,
	}
}

// Add registers a named condition to wait for
func (g *Group) Add(name string, cond Condition) *Group {
	g.conds[name] = cond
	return g
}

// Wait runs WaitFor for every registered condition concurrently and
// returns the per-name outcome (nil on success, *TimeoutError or ctx error
// otherwise).
func (g *Group) Wait(ctx context.Context) map[string]error {
	results := make(map[string]error)
	if len(g.conds) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, cond := range g.conds {
		wg.Add(1)
		go func(n string, c Condition) {
			defer wg.Done()
			err := WaitFor(ctx, c, g.opts)

			mu.Lock()
			results[n] = err
			mu.Unlock()
		}(name, cond)
	}

	wg.Wait()
	return results
}

// FirstError returns any non-nil error from a Wait result, or nil when
// every condition was met.
func FirstError(results map[string]error) error {
	for _, err := range results {
		if err != nil {
			return err
		}
	}
	return nil
}
