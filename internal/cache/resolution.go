// Package cache provides the resolution-cache capability: memoized binding
// contexts for program elements, plus a disk snapshot store for
// whole-program analysis summaries.
package cache

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"probe/internal/ast"
	"probe/internal/binding"
)

// DepthMode selects how deep an element resolution goes.
type DepthMode uint8

const (
	// DepthFull resolves declaration bodies, recording scopes and types at
	// every statement.
	DepthFull DepthMode = iota
	// DepthShallow resolves declaration headers only.
	DepthShallow
)

func (m DepthMode) String() string {
	switch m {
	case DepthFull:
		return "full"
	case DepthShallow:
		return "shallow"
	}
	return "invalid"
}

// Key identifies one memoized resolution.
type Key struct {
	Element ast.NodeID
	Mode    DepthMode
}

// ComputeFunc performs the actual element resolution. It must behave as a
// pure function over the analyzed program: same inputs, same facts.
type ComputeFunc func(element ast.NodeID, mode DepthMode) *binding.Context

// Resolution memoizes element resolutions. Safe for concurrent readers;
// concurrent misses for the same key deduplicate through singleflight so the
// compute function runs once.
type Resolution struct {
	mu      sync.RWMutex
	entries map[Key]*binding.Context
	group   singleflight.Group
	compute ComputeFunc
}

// NewResolution wires a cache around the given compute function.
func NewResolution(compute ComputeFunc) *Resolution {
	return &Resolution{
		entries: make(map[Key]*binding.Context),
		compute: compute,
	}
}

// ResolveElement returns the binding context for one element, computing and
// memoizing it on first use. Invalid elements yield an empty context.
func (c *Resolution) ResolveElement(element ast.NodeID, mode DepthMode) *binding.Context {
	if c == nil || c.compute == nil || !element.IsValid() {
		return binding.Empty()
	}
	key := Key{Element: element, Mode: mode}

	c.mu.RLock()
	ctx, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return ctx
	}

	v, _, _ := c.group.Do(fmt.Sprintf("%d:%d", element, mode), func() (any, error) {
		computed := c.compute(element, mode)
		if computed == nil {
			computed = binding.Empty()
		}
		c.mu.Lock()
		c.entries[key] = computed
		c.mu.Unlock()
		return computed, nil
	})
	return v.(*binding.Context)
}

// ResolveElements resolves each element and merges the results into one
// context. Earlier elements win on conflicting facts.
func (c *Resolution) ResolveElements(elements []ast.NodeID, mode DepthMode) *binding.Context {
	merged := binding.NewContext()
	for _, el := range elements {
		merged.Merge(c.ResolveElement(el, mode))
	}
	return merged
}

// Len reports how many resolutions are memoized.
func (c *Resolution) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
