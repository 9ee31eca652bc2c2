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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/xyzsd/fluent-go/value"
)

type countingFn struct{ cacheable bool }

func (f countingFn) CanCache() bool { return f.cacheable }

func countingFactory(name string, calls *int, mu *sync.Mutex, cacheable bool) Factory {
	return Factory{
		Name: name,
		New: func(string, Options) (Function, error) {
			mu.Lock()
			*calls++
			mu.Unlock()
			return countingFn{cacheable: cacheable}, nil
		},
	}
}

func TestLRUCache_ReusesCacheableInstance(t *testing.T) {
	var calls int
	var mu sync.Mutex
	factory := countingFactory("F", &calls, &mu, true)

	c := NewLRUCache(4)
	for i := 0; i < 5; i++ {
		_, err := c.GetFunction(factory, "en", Options{})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}

func TestLRUCache_NeverCachesUncacheableInstance(t *testing.T) {
	var calls int
	var mu sync.Mutex
	factory := countingFactory("F", &calls, &mu, false)

	c := NewLRUCache(4)
	for i := 0; i < 3; i++ {
		_, err := c.GetFunction(factory, "en", Options{})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestLRUCache_DistinctOptionsAreDistinctKeys(t *testing.T) {
	var calls int
	var mu sync.Mutex
	factory := countingFactory("F", &calls, &mu, true)

	c := NewLRUCache(4)
	_, err := c.GetFunction(factory, "en", Options{"style": value.FluentString{Value: "short"}})
	require.NoError(t, err)
	_, err = c.GetFunction(factory, "en", Options{"style": value.FluentString{Value: "long"}})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	var calls int
	var mu sync.Mutex
	factory := countingFactory("F", &calls, &mu, true)

	c := NewLRUCache(2)
	_, _ = c.GetFunction(factory, "en", Options{"k": value.NewIntNumber(1)})
	_, _ = c.GetFunction(factory, "en", Options{"k": value.NewIntNumber(2)})
	_, _ = c.GetFunction(factory, "en", Options{"k": value.NewIntNumber(3)}) // evicts k=1

	before := calls
	_, _ = c.GetFunction(factory, "en", Options{"k": value.NewIntNumber(1)}) // must rebuild
	assert.Equal(t, before+1, calls)
}

func TestNoOpCache_AlwaysInvokesFactory(t *testing.T) {
	var calls int
	var mu sync.Mutex
	factory := countingFactory("F", &calls, &mu, true)

	c := NoOpCache{}
	for i := 0; i < 3; i++ {
		_, err := c.GetFunction(factory, "en", Options{})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestLRUCache_ConcurrentReads(t *testing.T) {
	var calls int
	var mu sync.Mutex
	factory := countingFactory("F", &calls, &mu, true)
	c := NewLRUCache(8)

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			_, err := c.GetFunction(factory, "en", Options{})
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, calls)
}
