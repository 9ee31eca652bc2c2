// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"container/list"
	"sort"
	"strings"
	"sync"
)

// Cache is keyed by (factory name, options) -- never locale, so a Cache
// must not be shared across bundles of different locales (spec 4.9).
type Cache interface {
	// GetFunction returns the Function for factory under locale/opts,
	// reusing a cached instance when the factory produced a cacheable one
	// for this exact key before.
	GetFunction(factory Factory, locale string, opts Options) (Function, error)
}

// optsKey canonicalizes an Options map into a stable cache key component.
// Values are rendered through FluentValue.String(), which is sufficient
// for the literal-only values (StringLiteral/NumberLiteral) named call
// arguments are restricted to (spec 4.5).
func optsKey(opts Options) string {
	if len(opts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(opts[k].String())
	}
	return sb.String()
}

type cacheKey struct {
	factory string
	opts    string
}

// NoOpCache always invokes the factory, never retaining an instance; it is
// the baseline variant spec 4.9 requires for testing.
type NoOpCache struct{}

func (NoOpCache) GetFunction(factory Factory, locale string, opts Options) (Function, error) {
	return factory.New(locale, opts)
}

var _ Cache = NoOpCache{}

// LRUCache is a bounded, concurrency-safe least-recently-used cache of
// cacheable Function instances, the reference implementation spec 4.9
// calls for (default capacity 32). A single internal mutex serializes
// lookup, construction of a missing Function, insertion and eviction, so a
// cacheable Function is built once per key while it stays cached; callers
// may contend on it, but
// correctness under concurrent access is the only guarantee made --
// it is not lock-free.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[cacheKey]*list.Element
}

type lruEntry struct {
	key cacheKey
	fn  Function
}

const defaultLRUCapacity = 32

// NewLRUCache constructs an LRUCache with the given capacity; capacity <= 0
// uses the spec default of 32.
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = defaultLRUCapacity
	}
	return &LRUCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[cacheKey]*list.Element),
	}
}

func (c *LRUCache) GetFunction(factory Factory, locale string, opts Options) (Function, error) {
	key := cacheKey{factory: factory.Name, opts: optsKey(opts)}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*lruEntry).fn, nil
	}

	fn, err := factory.New(locale, opts)
	if err != nil {
		return nil, err
	}
	if !fn.CanCache() {
		return fn, nil
	}

	el := c.ll.PushFront(&lruEntry{key: key, fn: fn})
	c.items[key] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
	return fn, nil
}

var _ Cache = (*LRUCache)(nil)
