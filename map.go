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

// Package hashmaps implements a key/value hash map from first principles with
// two interchangeable collision resolution strategies: open addressing with
// quadratic probing, and separate chaining. See
// https://en.wikipedia.org/wiki/Hash_table#Collision_resolution.
//
// # Capacity
//
// Capacities are requests, not commands. Every capacity handed to New or
// Map.Resize is rounded up to the next odd prime (see NextPrime), and the
// capacity of a Map is always an odd prime. When an insert of a new key
// would push the load factor (entries/capacity) to or past the strategy's
// maximum, the map doubles its capacity (rounded to a prime again) and
// rebuilds before inserting. The rebuild allocates a fresh bucket array and
// re-inserts every live entry into it before the old array is discarded, so
// the array being read is never the array being written.
//
// # Open addressing
//
// Entries live directly in a slot array. Alongside the slots is a control
// array holding one tag per slot: empty, full or deleted (a tombstone). A
// key with hash h is looked for at offsets
//
//	(h + j^2) mod capacity, j = 0, 1, 2, ...
//
// Lookups stop at the first empty slot since an empty slot proves the key
// was never inserted along this probe sequence. Tombstones never match but
// do not stop the probe. Deleting a key turns its slot into a tombstone;
// only a later insert landing on that slot, Clear or a rebuild reclaims it.
//
// Quadratic probing over a prime capacity p visits exactly (p+1)/2 distinct
// slots (see ProbeCoverage). Keeping the load factor strictly below 1/2
// means fewer than (p+1)/2 slots are live, so an insert always finds an
// empty or deleted slot within a single pass. Relaxing either the prime
// capacity or the load bound breaks this guarantee.
//
// # Chaining
//
// Each bucket is a singly linked list, possibly of length zero. A key with
// hash h lives in bucket h mod capacity. New keys are appended to the tail
// of their bucket. The load factor is kept below 1.
//
// A Map is NOT goroutine-safe.
package hashmaps

import (
	"fmt"
	"strings"
	"unsafe"
)

const debug = false

// Slot holds a key and value.
type Slot[K comparable, V any] struct {
	key   K
	value V
}

// Entry is a key/value pair as returned by Map.KeysAndValues.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// buckets is the bucket representation behind a Map. The capacity and
// resize machinery lives in Map; implementations only provide placement,
// lookup and deletion for their collision resolution strategy.
type buckets[K comparable, V any] interface {
	// find returns the live slot holding key, or nil.
	find(h uintptr, key K) *Slot[K, V]
	// insert stores an entry known not to be present (violating this
	// requirement will cause the map to behave erratically).
	insert(h uintptr, key K, value V)
	// remove deletes key, reporting whether it was present.
	remove(h uintptr, key K) bool
	// next returns the first live slot at or after c in bucket order along
	// with the cursor positioned after it. It returns a nil slot at the end.
	next(c cursor[K, V]) (cursor[K, V], *Slot[K, V])
	// emptyBuckets returns the number of buckets holding nothing at all.
	emptyBuckets() int
	// probeStats returns the number of tombstones and the length of the
	// longest probe walk (or chain) needed to reach a live entry.
	probeStats(hash func(K) uintptr) (tombstones, longest int)
	// reset empties every bucket without changing the capacity.
	reset()
	// release returns memory to the allocator. The buckets are unusable
	// afterwards.
	release()
	debugString() string
}

// Map is an unordered map from keys to values with Put, Get, Delete and All
// operations, backed by either open addressing or separate chaining. The
// caller supplies the hash function; the map assumes nothing about it
// beyond being deterministic for a given key.
//
// A Map is NOT goroutine-safe.
type Map[K comparable, V any] struct {
	hash      func(key K) uintptr
	strategy  Strategy
	allocator Allocator[K, V]
	buckets   buckets[K, V]
	// The number of buckets (always an odd prime).
	capacity int
	// The number of live entries.
	used int
	// The number of rebuilds performed, by growth or explicit Resize.
	resizes int
}

// New constructs a new Map with the specified initial capacity, rounded up
// to the next odd prime, and hash function. The collision resolution
// strategy defaults to OpenAddressing; use WithStrategy or WithChaining to
// select chaining. New panics if hash is nil.
func New[K comparable, V any](
	initialCapacity int, hash func(key K) uintptr, options ...option[K, V],
) *Map[K, V] {
	if hash == nil {
		panic("hashmaps: nil hash function")
	}
	m := &Map[K, V]{
		hash:      hash,
		allocator: defaultAllocator[K, V]{},
	}

	for _, op := range options {
		op.apply(m)
	}

	m.capacity = NextPrime(initialCapacity)
	m.buckets = m.newBuckets(m.capacity)
	m.checkInvariants()
	return m
}

func (m *Map[K, V]) newBuckets(capacity int) buckets[K, V] {
	if m.strategy == Chaining {
		return newChainTable[K, V](capacity)
	}
	return newSlotTable[K, V](capacity, m.allocator)
}

// Close closes the map, releasing any memory back to its configured
// allocator. It is unnecessary to close a map using the default allocator. It
// is invalid to use a Map after it has been closed, though Close itself is
// idempotent.
func (m *Map[K, V]) Close() {
	if m.buckets != nil {
		m.buckets.release()
		m.buckets = nil
	}
	m.capacity = 0
	m.used = 0
	m.allocator = nil
}

// Put inserts an entry into the map, overwriting the existing value if an
// entry with the same key already exists. Inserting a new key grows the map
// first if the insert would bring the load factor to the strategy's maximum.
func (m *Map[K, V]) Put(key K, value V) {
	// Put is find composed with insert. If the key is present we overwrite
	// its value in place; a tombstone earlier in the probe sequence must not
	// capture the key, otherwise it would end up stored twice.
	h := m.hash(key)
	if s := m.buckets.find(h, key); s != nil {
		if debug {
			fmt.Printf("put(updating): key=%v\n", key)
		}
		s.value = value
		m.checkInvariants()
		return
	}

	if m.overloaded(m.used+1, m.capacity) {
		m.grow()
	}
	m.buckets.insert(h, key, value)
	m.used++
	if debug {
		fmt.Printf("put(inserting): key=%v used=%d capacity=%d\n", key, m.used, m.capacity)
	}
	m.checkInvariants()
}

// Get retrieves the value from the map for the specified key, return ok=false
// if the key is not present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	if s := m.buckets.find(m.hash(key), key); s != nil {
		return s.value, true
	}
	return value, false
}

// Contains reports whether key is present in the map.
func (m *Map[K, V]) Contains(key K) bool {
	return m.buckets.find(m.hash(key), key) != nil
}

// Delete deletes the entry corresponding to the specified key from the map.
// It is a noop to delete a non-existent key.
func (m *Map[K, V]) Delete(key K) {
	if m.buckets.remove(m.hash(key), key) {
		m.used--
		if debug {
			fmt.Printf("delete(%v): used=%d\n", key, m.used)
		}
	}
	m.checkInvariants()
}

// Clear deletes all entries from the map resulting in an empty map. The
// capacity is left unchanged and any tombstones are discarded.
func (m *Map[K, V]) Clear() {
	m.buckets.reset()
	m.used = 0
	m.checkInvariants()
}

// Resize rebuilds the map with the requested capacity, rounded up to the
// next odd prime. Every live entry is rehashed into the new buckets and
// tombstones are dropped. The request is ignored when it is below the
// number of entries (open addressing) or below 1 (chaining). An
// open-addressing map keeps doubling the rounded capacity until the entries
// fit below the maximum load factor.
func (m *Map[K, V]) Resize(newCapacity int) {
	if newCapacity < m.strategy.minResize(m.used) {
		if debug {
			fmt.Printf("resize(%d): refused, used=%d\n", newCapacity, m.used)
		}
		return
	}
	capacity := NextPrime(newCapacity)
	if m.strategy == OpenAddressing {
		for m.overloaded(m.used, capacity) {
			capacity = NextPrime(2 * capacity)
		}
	}
	m.rebuild(capacity)
}

// LoadFactor returns the ratio of entries to buckets.
func (m *Map[K, V]) LoadFactor() float64 {
	return float64(m.used) / float64(m.capacity)
}

// EmptyBuckets returns the number of buckets holding nothing. Tombstones are
// not empty.
func (m *Map[K, V]) EmptyBuckets() int {
	return m.buckets.emptyBuckets()
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.used
}

// Capacity returns the number of buckets in the map.
func (m *Map[K, V]) Capacity() int {
	return m.capacity
}

// Strategy returns the collision resolution strategy of the map.
func (m *Map[K, V]) Strategy() Strategy {
	return m.strategy
}

// KeysAndValues returns every entry in bucket order (and within a chained
// bucket, in list order).
func (m *Map[K, V]) KeysAndValues() []Entry[K, V] {
	r := make([]Entry[K, V], 0, m.used)
	m.All(func(k K, v V) bool {
		r = append(r, Entry[K, V]{Key: k, Value: v})
		return true
	})
	return r
}

// String returns the entries of the map formatted as Map[k:v k:v ...] in
// iteration order.
func (m *Map[K, V]) String() string {
	var buf strings.Builder
	buf.WriteString("Map[")
	first := true
	m.All(func(k K, v V) bool {
		if !first {
			buf.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&buf, "%v:%v", k, v)
		return true
	})
	buf.WriteByte(']')
	return buf.String()
}

// overloaded reports whether n entries in capacity buckets reach the
// strategy's maximum load factor.
func (m *Map[K, V]) overloaded(n, capacity int) bool {
	return float64(n)/float64(capacity) >= m.strategy.maxLoad()
}

// grow doubles the capacity until one more entry fits below the maximum
// load factor and rebuilds the map.
func (m *Map[K, V]) grow() {
	capacity := m.capacity
	for m.overloaded(m.used+1, capacity) {
		capacity = NextPrime(2 * capacity)
	}
	m.rebuild(capacity)
}

// rebuild allocates fresh buckets with the given capacity, inserts every
// live entry of the current buckets into them and discards the old buckets.
// The entry count is unchanged.
func (m *Map[K, V]) rebuild(capacity int) {
	if debug {
		fmt.Printf("resize: capacity=%d->%d used=%d\n", m.capacity, capacity, m.used)
	}

	old := m.buckets
	nb := m.newBuckets(capacity)
	for c, s := old.next(cursor[K, V]{}); s != nil; c, s = old.next(c) {
		nb.insert(m.hash(s.key), s.key, s.value)
	}
	old.release()

	m.buckets = nb
	m.capacity = capacity
	m.resizes++
	m.checkInvariants()
}

func (m *Map[K, V]) checkInvariants() {
	if invariants {
		if m.capacity%2 == 0 || !IsPrime(m.capacity) {
			panic(fmt.Sprintf("invariant failed: capacity %d is not an odd prime", m.capacity))
		}

		// For every live entry, verify that a lookup finds that very entry.
		// A different slot means the key is stored twice.
		var used int
		for c, s := m.buckets.next(cursor[K, V]{}); s != nil; c, s = m.buckets.next(c) {
			if f := m.buckets.find(m.hash(s.key), s.key); f != s {
				panic(fmt.Sprintf("invariant failed: %v not found at its slot\n%s",
					s.key, m.buckets.debugString()))
			}
			used++
		}
		if used != m.used {
			panic(fmt.Sprintf("invariant failed: found %d live entries, but used count is %d\n%s",
				used, m.used, m.buckets.debugString()))
		}

		if m.strategy == OpenAddressing && m.overloaded(m.used, m.capacity) {
			panic(fmt.Sprintf("invariant failed: load factor %d/%d reached %.2f\n%s",
				m.used, m.capacity, m.strategy.maxLoad(), m.buckets.debugString()))
		}
	}
}

func unsafeConvertSlice[Dest any, Src any](s []Src) []Dest {
	return unsafe.Slice((*Dest)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}
