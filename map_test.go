// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashmaps

import (
	"fmt"
	"math/rand"
	"strconv"
	"testing"

	"github.com/saturnines/CustomHashMaps/hashfunc"
	"github.com/stretchr/testify/require"
)

var strategies = []Strategy{OpenAddressing, Chaining}

func intHash(key int) uintptr {
	return uintptr(key)
}

func constHash(h uintptr) func(int) uintptr {
	return func(int) uintptr {
		return h
	}
}

// toBuiltinMap returns the elements as a map[K]V. Useful for testing.
func (m *Map[K, V]) toBuiltinMap() map[K]V {
	r := make(map[K]V)
	m.All(func(k K, v V) bool {
		r[k] = v
		return true
	})
	return r
}

// randElement returns a uniformly selected entry of the map.
func (m *Map[K, V]) randElement(rng *rand.Rand) (key K, value V, ok bool) {
	if m.Len() == 0 {
		return key, value, false
	}
	e := m.KeysAndValues()[rng.Intn(m.Len())]
	return e.Key, e.Value, true
}

func TestInitialCapacity(t *testing.T) {
	testCases := []struct {
		initialCapacity  int
		expectedCapacity int
	}{
		{-5, 3},
		{0, 3},
		{1, 3},
		{2, 3},
		{3, 3},
		{4, 5},
		{10, 11},
		{11, 11},
		{12, 13},
		{100, 101},
	}
	for _, s := range strategies {
		for _, c := range testCases {
			t.Run(fmt.Sprintf("%s/%d", s, c.initialCapacity), func(t *testing.T) {
				m := New[int, int](c.initialCapacity, intHash, WithStrategy[int, int](s))
				require.EqualValues(t, c.expectedCapacity, m.Capacity())
				require.EqualValues(t, 0, m.Len())
				require.EqualValues(t, c.expectedCapacity, m.EmptyBuckets())
				require.Equal(t, s, m.Strategy())
			})
		}
	}
}

func TestNilHash(t *testing.T) {
	require.Panics(t, func() {
		New[int, int](0, nil)
	})
}

func TestBasic(t *testing.T) {
	test := func(t *testing.T, m *Map[int, int]) {
		const count = 100

		e := make(map[int]int)
		require.EqualValues(t, 0, m.Len())

		// Non-existent.
		for i := 0; i < count; i++ {
			_, ok := m.Get(i)
			require.False(t, ok)
			require.False(t, m.Contains(i))
		}

		// Insert.
		for i := 0; i < count; i++ {
			m.Put(i, i+count)
			e[i] = i + count
			v, ok := m.Get(i)
			require.True(t, ok)
			require.EqualValues(t, i+count, v)
			require.EqualValues(t, i+1, m.Len())
			require.Equal(t, e, m.toBuiltinMap())
		}

		// Update.
		for i := 0; i < count; i++ {
			m.Put(i, i+2*count)
			e[i] = i + 2*count
			v, ok := m.Get(i)
			require.True(t, ok)
			require.EqualValues(t, i+2*count, v)
			require.EqualValues(t, count, m.Len())
			require.Equal(t, e, m.toBuiltinMap())
		}

		// Delete.
		for i := 0; i < count; i++ {
			m.Delete(i)
			delete(e, i)
			require.EqualValues(t, count-i-1, m.Len())
			_, ok := m.Get(i)
			require.False(t, ok)
			require.Equal(t, e, m.toBuiltinMap())
		}

		// Deleting again is a noop.
		m.Delete(0)
		require.EqualValues(t, 0, m.Len())
	}

	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			t.Run("normal", func(t *testing.T) {
				test(t, New[int, int](0, intHash, WithStrategy[int, int](s)))
			})

			t.Run("degenerate", func(t *testing.T) {
				testDegenerate := func(t *testing.T, h uintptr) {
					test(t, New[int, int](0, constHash(h), WithStrategy[int, int](s)))
				}

				for _, v := range []uintptr{0, ^uintptr(0)} {
					t.Run(fmt.Sprintf("%016x", v), func(t *testing.T) {
						testDegenerate(t, v)
					})
				}
				for i := 0; i < 10; i++ {
					v := uintptr(rand.Uint64())
					t.Run(fmt.Sprintf("%016x", v), func(t *testing.T) {
						testDegenerate(t, v)
					})
				}
			})
		})
	}
}

func TestRandom(t *testing.T) {
	test := func(t *testing.T, m *Map[int, int], ops int) {
		rng := rand.New(rand.NewSource(int64(ops)))
		e := make(map[int]int)
		for i := 0; i < ops; i++ {
			switch r := rng.Float64(); {
			case r < 0.5: // 50% inserts
				k, v := rng.Int(), rng.Int()
				m.Put(k, v)
				e[k] = v
			case r < 0.65: // 15% updates
				if k, _, ok := m.randElement(rng); !ok {
					require.EqualValues(t, 0, m.Len(), e)
				} else {
					v := rng.Int()
					m.Put(k, v)
					e[k] = v
				}
			case r < 0.80: // 15% deletes
				if k, _, ok := m.randElement(rng); !ok {
					require.EqualValues(t, 0, m.Len(), e)
				} else {
					m.Delete(k)
					delete(e, k)
				}
			case r < 0.95: // 15% lookups
				if k, v, ok := m.randElement(rng); !ok {
					require.EqualValues(t, 0, m.Len(), e)
				} else {
					require.EqualValues(t, e[k], v)
					got, ok := m.Get(k)
					require.True(t, ok)
					require.EqualValues(t, e[k], got)
				}
			default: // 5% resize and iterate
				m.Resize(m.Len() + rng.Intn(m.Capacity()+1))
				require.Equal(t, e, m.toBuiltinMap())
			}
			require.EqualValues(t, len(e), m.Len())
		}
		require.Equal(t, e, m.toBuiltinMap())
	}

	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			t.Run("normal", func(t *testing.T) {
				test(t, New[int, int](0, intHash, WithStrategy[int, int](s)), 10000)
			})

			t.Run("degenerate", func(t *testing.T) {
				for _, v := range []uintptr{0, ^uintptr(0)} {
					t.Run(fmt.Sprintf("%016x", v), func(t *testing.T) {
						test(t, New[int, int](0, constHash(v), WithStrategy[int, int](s)), 2000)
					})
				}
			})
		})
	}
}

func TestLoadFactorBound(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			m := New[int, int](0, intHash, WithStrategy[int, int](s))
			for i := 0; i < 1000; i++ {
				m.Put(i*7, i)
				require.Less(t, m.LoadFactor(), s.maxLoad())
				require.True(t, IsPrime(m.Capacity()))
				require.EqualValues(t, 1, m.Capacity()%2)
			}
			require.EqualValues(t, 1000, m.Len())
		})
	}
}

func TestUpdateDoesNotGrow(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			// One more new key at capacity 3 would grow either strategy.
			m := New[int, int](3, intHash, WithStrategy[int, int](s))
			m.Put(1, 1)
			if s == Chaining {
				m.Put(2, 2)
			}
			capacity := m.Capacity()
			m.Put(1, 10)
			require.EqualValues(t, capacity, m.Capacity())
			require.EqualValues(t, 0, m.Stats().Resizes)
			v, _ := m.Get(1)
			require.EqualValues(t, 10, v)
		})
	}
}

func TestPutPastTombstone(t *testing.T) {
	// All keys collide. Key 2 lives one probe past key 1. Once key 1 is
	// deleted its tombstone sits in front of key 2, and updating key 2 must
	// overwrite the existing entry rather than fill the tombstone.
	m := New[int, int](11, constHash(0))
	m.Put(1, 1)
	m.Put(2, 2)
	m.Put(3, 3)
	m.Delete(1)
	require.EqualValues(t, 1, m.Stats().Tombstones)

	m.Put(2, 20)
	require.EqualValues(t, 2, m.Len())
	require.Equal(t, map[int]int{2: 20, 3: 3}, m.toBuiltinMap())
	require.Len(t, m.KeysAndValues(), 2)

	m.Delete(2)
	_, ok := m.Get(2)
	require.False(t, ok)
	require.EqualValues(t, 1, m.Len())
}

func TestTombstoneReuse(t *testing.T) {
	m := New[int, string](11, func(int) uintptr { return 0 })
	m.Put(1, "a")
	m.Put(2, "b")
	require.EqualValues(t, 9, m.EmptyBuckets())

	m.Delete(1)
	stats := m.Stats()
	require.EqualValues(t, 1, stats.Tombstones)
	require.EqualValues(t, 9, stats.EmptyBuckets)
	require.EqualValues(t, 2, stats.MaxProbeLength)

	// The new key takes over the tombstone at the head of the probe sequence.
	m.Put(3, "c")
	stats = m.Stats()
	require.EqualValues(t, 0, stats.Tombstones)
	require.EqualValues(t, 9, stats.EmptyBuckets)
	require.Equal(t, []Entry[int, string]{{3, "c"}, {2, "b"}}, m.KeysAndValues())
}

func TestResize(t *testing.T) {
	t.Run("open-addressing", func(t *testing.T) {
		m := New[int, int](31, intHash)
		for i := 0; i < 10; i++ {
			m.Put(i, i)
		}
		e := m.toBuiltinMap()

		// Smaller than the element count.
		m.Resize(5)
		require.EqualValues(t, 31, m.Capacity())
		require.EqualValues(t, 0, m.Stats().Resizes)

		// 10 entries do not fit in 11 slots below half load.
		m.Resize(10)
		require.EqualValues(t, 23, m.Capacity())
		require.Equal(t, e, m.toBuiltinMap())

		m.Resize(100)
		require.EqualValues(t, 101, m.Capacity())
		require.Equal(t, e, m.toBuiltinMap())
		require.EqualValues(t, 2, m.Stats().Resizes)

		// Tombstones do not survive a rebuild.
		m.Delete(0)
		m.Delete(1)
		require.EqualValues(t, 2, m.Stats().Tombstones)
		m.Resize(m.Capacity())
		require.EqualValues(t, 0, m.Stats().Tombstones)
		require.EqualValues(t, 101-8, m.EmptyBuckets())
	})

	t.Run("open-addressing-empty", func(t *testing.T) {
		m := New[int, int](31, intHash)
		m.Resize(2)
		require.EqualValues(t, 3, m.Capacity())
		m.Resize(0)
		require.EqualValues(t, 3, m.Capacity())
	})

	t.Run("chaining", func(t *testing.T) {
		m := New[int, int](31, intHash, WithChaining[int, int]())
		for i := 0; i < 10; i++ {
			m.Put(i, i)
		}
		e := m.toBuiltinMap()

		m.Resize(0)
		require.EqualValues(t, 31, m.Capacity())
		m.Resize(-1)
		require.EqualValues(t, 31, m.Capacity())

		// An explicit resize may overload the chains.
		m.Resize(1)
		require.EqualValues(t, 3, m.Capacity())
		require.Equal(t, e, m.toBuiltinMap())
		require.Greater(t, m.LoadFactor(), 1.0)

		// The next new key restores the bound.
		m.Put(10, 10)
		require.EqualValues(t, 17, m.Capacity())
		require.Less(t, m.LoadFactor(), 1.0)
		require.EqualValues(t, 11, m.Len())
	})
}

func TestClear(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			m := New[int, int](0, intHash, WithStrategy[int, int](s))
			for i := 0; i < 1000; i++ {
				m.Put(i, i)
			}
			m.Delete(7)

			capacity := m.Capacity()
			m.Clear()
			require.EqualValues(t, 0, m.Len())
			require.EqualValues(t, capacity, m.Capacity())
			require.EqualValues(t, capacity, m.EmptyBuckets())
			require.EqualValues(t, 0, m.Stats().Tombstones)

			m.All(func(k, v int) bool {
				require.Fail(t, "should not iterate")
				return true
			})

			m.Put(1, 2)
			v, ok := m.Get(1)
			require.True(t, ok)
			require.EqualValues(t, 2, v)
		})
	}
}

func TestEmptyBuckets(t *testing.T) {
	m := New[int, int](11, intHash, WithChaining[int, int]())
	m.Put(0, 0)
	m.Put(11, 11)
	m.Put(1, 1)
	require.EqualValues(t, 9, m.EmptyBuckets())

	m.Delete(0)
	m.Delete(11)
	require.EqualValues(t, 10, m.EmptyBuckets())
}

func TestKeysAndValuesOrder(t *testing.T) {
	m := New[int, int](11, intHash, WithChaining[int, int]())
	for _, k := range []int{12, 1, 23, 0} {
		m.Put(k, -k)
	}
	require.Equal(t, []Entry[int, int]{{0, 0}, {12, -12}, {1, -1}, {23, -23}}, m.KeysAndValues())

	// Removing from the middle and the tail of a chain keeps the rest in
	// insertion order and appends after the survivors.
	m.Delete(1)
	m.Delete(23)
	m.Put(34, -34)
	require.Equal(t, []Entry[int, int]{{0, 0}, {12, -12}, {34, -34}}, m.KeysAndValues())
}

func TestStringKeys(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			m := New[string, int](10, hashfunc.Positional, WithStrategy[string, int](s))
			require.EqualValues(t, 11, m.Capacity())
			for i := 0; i < 5; i++ {
				m.Put(strconv.Itoa(i), i*24)
			}
			m.Delete("0")
			m.Delete("4")

			require.EqualValues(t, 3, m.Len())
			require.Equal(t, map[string]int{"1": 24, "2": 48, "3": 72}, m.toBuiltinMap())
			for _, k := range []string{"0", "4"} {
				_, ok := m.Get(k)
				require.False(t, ok)
			}
		})
	}
}

func TestString(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			m := New[int, string](11, intHash, WithStrategy[int, string](s))
			require.Equal(t, "Map[]", m.String())
			m.Put(2, "b")
			m.Put(1, "a")
			require.Equal(t, "Map[1:a 2:b]", m.String())
		})
	}
}

type countingAllocator[K comparable, V any] struct {
	slotAllocs, slotFrees int
	ctrlAllocs, ctrlFrees int
}

func (a *countingAllocator[K, V]) AllocSlots(n int) []Slot[K, V] {
	a.slotAllocs++
	return make([]Slot[K, V], n)
}

func (a *countingAllocator[K, V]) AllocControls(n int) []uint8 {
	a.ctrlAllocs++
	return make([]uint8, n)
}

func (a *countingAllocator[K, V]) FreeSlots(_ []Slot[K, V]) {
	a.slotFrees++
}

func (a *countingAllocator[K, V]) FreeControls(_ []uint8) {
	a.ctrlFrees++
}

func TestAllocator(t *testing.T) {
	a := &countingAllocator[int, int]{}
	m := New[int, int](0, intHash, WithAllocator[int, int](a))

	for i := 0; i < 100; i++ {
		m.Put(i, i)
	}

	// 3 -> 7 -> 17 -> 37 -> 79 -> 163 -> 331
	const expected = 7
	require.EqualValues(t, 331, m.Capacity())
	require.EqualValues(t, expected-1, m.Stats().Resizes)
	require.EqualValues(t, expected, a.slotAllocs)
	require.EqualValues(t, expected, a.ctrlAllocs)
	require.EqualValues(t, expected-1, a.slotFrees)
	require.EqualValues(t, expected-1, a.ctrlFrees)

	m.Close()
	require.EqualValues(t, expected, a.slotFrees)
	require.EqualValues(t, expected, a.ctrlFrees)

	// Close is idempotent.
	m.Close()
	require.EqualValues(t, expected, a.slotFrees)
}

func TestAllocatorUnusedByChaining(t *testing.T) {
	a := &countingAllocator[int, int]{}
	m := New[int, int](0, intHash, WithChaining[int, int](), WithAllocator[int, int](a))
	for i := 0; i < 100; i++ {
		m.Put(i, i)
	}
	m.Close()
	require.EqualValues(t, 0, a.slotAllocs)
	require.EqualValues(t, 0, a.ctrlAllocs)
}
