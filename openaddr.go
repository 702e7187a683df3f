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
	"strings"
)

// ctrl is the tag for a single slot of an open-addressing table. The zero
// value is ctrlEmpty so freshly allocated control arrays need no
// initialization.
type ctrl uint8

const (
	ctrlEmpty   ctrl = 0
	ctrlFull    ctrl = 1
	ctrlDeleted ctrl = 2
)

func (c ctrl) String() string {
	switch c {
	case ctrlEmpty:
		return "empty"
	case ctrlFull:
		return "full"
	case ctrlDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("ctrl(%d)", uint8(c))
	}
}

// slotTable is the open-addressing bucket representation: a slot array
// with a parallel array of control tags.
type slotTable[K comparable, V any] struct {
	ctrls     []ctrl
	slots     []Slot[K, V]
	capacity  uintptr
	allocator Allocator[K, V]
}

func newSlotTable[K comparable, V any](capacity int, allocator Allocator[K, V]) *slotTable[K, V] {
	t := &slotTable[K, V]{
		ctrls:     unsafeConvertSlice[ctrl](allocator.AllocControls(capacity)),
		slots:     allocator.AllocSlots(capacity),
		capacity:  uintptr(capacity),
		allocator: allocator,
	}
	for i := range t.ctrls {
		t.ctrls[i] = ctrlEmpty
	}
	return t
}

// findIndex returns the index of the live slot holding key. Walking the
// probe sequence stops at the first empty slot. Tombstones never match but
// the key may live past them.
func (t *slotTable[K, V]) findIndex(h uintptr, key K) (uintptr, bool) {
	seq := makeProbeSeq(h, t.capacity)
	if debug {
		fmt.Printf("find(%v): %s\n", key, seq)
	}

	for ; seq.index < t.capacity; seq = seq.next() {
		switch t.ctrls[seq.offset] {
		case ctrlEmpty:
			if debug {
				fmt.Printf("  find(%v): probe %d: offset=%d empty\n", key, seq.index, seq.offset)
			}
			return 0, false
		case ctrlFull:
			if t.slots[seq.offset].key == key {
				if debug {
					fmt.Printf("  find(%v): probe %d: offset=%d found\n", key, seq.index, seq.offset)
				}
				return seq.offset, true
			}
		}
	}
	return 0, false
}

func (t *slotTable[K, V]) find(h uintptr, key K) *Slot[K, V] {
	if i, ok := t.findIndex(h, key); ok {
		return &t.slots[i]
	}
	return nil
}

// insert stores the entry at the first empty or deleted slot of its probe
// sequence. As long as fewer than (capacity+1)/2 slots are live such a slot
// exists among the offsets the sequence visits.
func (t *slotTable[K, V]) insert(h uintptr, key K, value V) {
	for seq := makeProbeSeq(h, t.capacity); seq.index < t.capacity; seq = seq.next() {
		if c := t.ctrls[seq.offset]; c == ctrlEmpty || c == ctrlDeleted {
			if debug {
				fmt.Printf("insert(%v): probe %d: offset=%d was %s\n", key, seq.index, seq.offset, c)
			}
			t.slots[seq.offset] = Slot[K, V]{key: key, value: value}
			t.ctrls[seq.offset] = ctrlFull
			return
		}
	}
	panic(fmt.Sprintf("no free slot for %v after %d probes\n%s", key, t.capacity, t.debugString()))
}

// remove leaves a tombstone in the slot holding key so that probe sequences
// passing through it still reach the entries beyond.
func (t *slotTable[K, V]) remove(h uintptr, key K) bool {
	i, ok := t.findIndex(h, key)
	if !ok {
		return false
	}
	t.ctrls[i] = ctrlDeleted
	t.slots[i] = Slot[K, V]{}
	return true
}

func (t *slotTable[K, V]) next(c cursor[K, V]) (cursor[K, V], *Slot[K, V]) {
	for i := c.index; i < len(t.ctrls); i++ {
		if t.ctrls[i] == ctrlFull {
			return cursor[K, V]{index: i + 1}, &t.slots[i]
		}
	}
	return cursor[K, V]{index: len(t.ctrls)}, nil
}

func (t *slotTable[K, V]) emptyBuckets() int {
	var n int
	for _, c := range t.ctrls {
		if c == ctrlEmpty {
			n++
		}
	}
	return n
}

func (t *slotTable[K, V]) probeStats(hash func(K) uintptr) (tombstones, longest int) {
	for i, c := range t.ctrls {
		switch c {
		case ctrlDeleted:
			tombstones++
		case ctrlFull:
			seq := makeProbeSeq(hash(t.slots[i].key), t.capacity)
			for seq.offset != uintptr(i) && seq.index < t.capacity {
				seq = seq.next()
			}
			if n := int(seq.index) + 1; n > longest {
				longest = n
			}
		}
	}
	return tombstones, longest
}

func (t *slotTable[K, V]) reset() {
	for i := range t.ctrls {
		t.ctrls[i] = ctrlEmpty
	}
	clear(t.slots)
}

func (t *slotTable[K, V]) release() {
	t.allocator.FreeSlots(t.slots)
	t.allocator.FreeControls(unsafeConvertSlice[uint8](t.ctrls))
	t.slots = nil
	t.ctrls = nil
	t.capacity = 0
}

func (t *slotTable[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d\n", t.capacity)
	for i, c := range t.ctrls {
		switch c {
		case ctrlFull:
			fmt.Fprintf(&buf, "  %4d: %v: %v\n", i, t.slots[i].key, t.slots[i].value)
		default:
			fmt.Fprintf(&buf, "  %4d: %s\n", i, c)
		}
	}
	return buf.String()
}

// probeSeq maintains the state for a quadratic probe sequence that iterates
// through the slots of a table. The sequence visits
//
//	p(j) := (hash + j^2) mod capacity
//
// computed incrementally using (j+1)^2 - j^2 = 2j+1 so the squares are never
// materialized. For a prime capacity the first (capacity+1)/2 values of j
// yield distinct offsets and the remaining values repeat them in reverse.
type probeSeq struct {
	capacity uintptr
	offset   uintptr
	index    uintptr
}

func makeProbeSeq(hash, capacity uintptr) probeSeq {
	return probeSeq{
		capacity: capacity,
		offset:   hash % capacity,
		index:    0,
	}
}

func (s probeSeq) next() probeSeq {
	s.offset = (s.offset + 2*s.index + 1) % s.capacity
	s.index++
	return s
}

func (s probeSeq) String() string {
	return fmt.Sprintf("capacity=%d offset=%d index=%d", s.capacity, s.offset, s.index)
}
