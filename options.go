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

import "fmt"

// option provide an interface to do work on Map while it is being created.
type option[K comparable, V any] interface {
	apply(m *Map[K, V])
}

// Strategy selects the collision resolution scheme used by a Map.
type Strategy int

const (
	// OpenAddressing stores entries directly in a prime sized slot array and
	// resolves collisions with quadratic probing. Deleted entries leave
	// tombstones behind. The load factor is kept below 1/2.
	OpenAddressing Strategy = iota
	// Chaining stores a singly linked list per bucket. The load factor is
	// kept below 1.
	Chaining
)

// maxLoad is the load factor a Map of this strategy may not reach after an
// insert completes.
func (s Strategy) maxLoad() float64 {
	if s == Chaining {
		return 1.0
	}
	return 0.5
}

// minResize is the smallest capacity accepted by Map.Resize when the map
// holds used entries. Open addressing refuses to shrink below its element
// count; chaining only refuses non-positive capacities.
func (s Strategy) minResize(used int) int {
	if s == Chaining {
		return 1
	}
	return used
}

func (s Strategy) String() string {
	switch s {
	case OpenAddressing:
		return "open-addressing"
	case Chaining:
		return "chaining"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy is the inverse of Strategy.String. The short forms "open",
// "oa", "chained" and "sc" are accepted too.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "open-addressing", "open", "oa":
		return OpenAddressing, nil
	case "chaining", "chained", "sc":
		return Chaining, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", name)
}

type strategyOption[K comparable, V any] struct {
	strategy Strategy
}

func (op strategyOption[K, V]) apply(m *Map[K, V]) {
	m.strategy = op.strategy
}

// WithStrategy is an option to specify the collision resolution strategy of
// a Map[K,V]. The default is OpenAddressing.
func WithStrategy[K comparable, V any](s Strategy) option[K, V] {
	return strategyOption[K, V]{s}
}

// WithChaining is shorthand for WithStrategy(Chaining).
func WithChaining[K comparable, V any]() option[K, V] {
	return strategyOption[K, V]{Chaining}
}

// Allocator specifies an interface for allocating and releasing the slot
// and control arrays used by an open-addressing Map. The default allocator
// utilizes Go's builtin make() and allows the GC to reclaim memory. Chained
// maps allocate list nodes individually and do not consult the allocator.
//
// If the allocator is manually managing memory and requires that slots and
// controls be freed then Map.Close must be called in order to ensure
// FreeSlots and FreeControls are called.
type Allocator[K comparable, V any] interface {
	// AllocSlots should return a slice equivalent to make([]Slot[K,V], n).
	AllocSlots(n int) []Slot[K, V]

	// AllocControls should return a slice equivalent to make([]uint8, n).
	AllocControls(n int) []uint8

	// FreeSlots can optional release the memory associated with the supplied
	// slice that is guaranteed to have been allocated by AllocSlots.
	FreeSlots(v []Slot[K, V])

	// FreeControls can optional release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by
	// AllocControls.
	FreeControls(v []uint8)
}

type defaultAllocator[K comparable, V any] struct{}

func (defaultAllocator[K, V]) AllocSlots(n int) []Slot[K, V] {
	return make([]Slot[K, V], n)
}

func (defaultAllocator[K, V]) AllocControls(n int) []uint8 {
	return make([]uint8, n)
}

func (defaultAllocator[K, V]) FreeSlots(v []Slot[K, V]) {
}

func (defaultAllocator[K, V]) FreeControls(v []uint8) {
}

type allocatorOption[K comparable, V any] struct {
	allocator Allocator[K, V]
}

func (op allocatorOption[K, V]) apply(m *Map[K, V]) {
	m.allocator = op.allocator
}

// WithAllocator is an option for specify the Allocator to use for a Map[K,V].
func WithAllocator[K comparable, V any](allocator Allocator[K, V]) option[K, V] {
	return allocatorOption[K, V]{allocator}
}
