// Package requests memoizes demand-driven queries.
//
// Queries issued while conformance is being decided can ask for their own
// answer again before it exists. A Cache entry is therefore in one of three
// states: absent, in progress, or resolved. A re-entrant query that hits an
// in-progress entry gets Cycle back immediately instead of recursing; the
// outer evaluation later stores the real answer.
package requests

import "fmt"

// Status describes how Evaluate produced its value.
type Status int

const (
	Computed Status = iota // compute ran for this call
	Cached                 // value came from a resolved entry
	Cycle                  // entry is in progress; value is provisional
)

func (s Status) String() string {
	switch s {
	case Computed:
		return "computed"
	case Cached:
		return "cached"
	case Cycle:
		return "cycle"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type entry[V any] struct {
	inProgress bool
	val        V
}

// Cache memoizes values of type V by key. The zero Cache is ready to use.
// It is not safe for concurrent use; evaluation is single-threaded.
type Cache[K comparable, V any] struct {
	// OnCycle, if set, supplies the provisional value handed to re-entrant
	// callers. It is never stored.
	OnCycle func(K) V

	m     map[K]*entry[V]
	stats Stats
}

// Stats counts cache traffic.
type Stats struct {
	Hits   int
	Misses int
	Cycles int
}

// Evaluate returns the value for key, running compute at most once per key.
func (c *Cache[K, V]) Evaluate(key K, compute func() V) (V, Status) {
	if c.m == nil {
		c.m = make(map[K]*entry[V])
	}
	if ent, ok := c.m[key]; ok {
		if ent.inProgress {
			c.stats.Cycles++
			if c.OnCycle != nil {
				return c.OnCycle(key), Cycle
			}
			var zero V
			return zero, Cycle
		}
		c.stats.Hits++
		return ent.val, Cached
	}

	c.stats.Misses++
	ent := &entry[V]{inProgress: true}
	c.m[key] = ent
	completed := false
	defer func() {
		if !completed {
			// compute panicked; forget the key so the entry is not stuck
			// in progress.
			delete(c.m, key)
		}
	}()
	val := compute()
	completed = true
	ent.val = val
	ent.inProgress = false
	return val, Computed
}

// Lookup returns a resolved value without computing anything.
func (c *Cache[K, V]) Lookup(key K) (V, bool) {
	if ent, ok := c.m[key]; ok && !ent.inProgress {
		return ent.val, true
	}
	var zero V
	return zero, false
}

// InProgress reports whether key is currently being evaluated.
func (c *Cache[K, V]) InProgress(key K) bool {
	ent, ok := c.m[key]
	return ok && ent.inProgress
}

// Len is the number of resolved entries.
func (c *Cache[K, V]) Len() int {
	n := 0
	for _, ent := range c.m {
		if !ent.inProgress {
			n++
		}
	}
	return n
}

// Stats returns a snapshot of the counters.
func (c *Cache[K, V]) Stats() Stats {
	return c.stats
}

// Add merges counters.
func (s Stats) Add(o Stats) Stats {
	return Stats{Hits: s.Hits + o.Hits, Misses: s.Misses + o.Misses, Cycles: s.Cycles + o.Cycles}
}
