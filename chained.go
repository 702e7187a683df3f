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

type node[K comparable, V any] struct {
	Slot[K, V]
	next *node[K, V]
}

// chain is a singly linked list of entries that hashed to the same bucket.
// The zero value is an empty chain.
type chain[K comparable, V any] struct {
	head, tail *node[K, V]
	len        int
}

func (c *chain[K, V]) find(key K) *node[K, V] {
	for n := c.head; n != nil; n = n.next {
		if n.key == key {
			return n
		}
	}
	return nil
}

func (c *chain[K, V]) append(key K, value V) {
	n := &node[K, V]{Slot: Slot[K, V]{key: key, value: value}}
	if c.tail == nil {
		c.head = n
	} else {
		c.tail.next = n
	}
	c.tail = n
	c.len++
}

// remove unlinks the first node holding key.
func (c *chain[K, V]) remove(key K) bool {
	var prev *node[K, V]
	for n := c.head; n != nil; prev, n = n, n.next {
		if n.key != key {
			continue
		}
		if prev == nil {
			c.head = n.next
		} else {
			prev.next = n.next
		}
		if c.tail == n {
			c.tail = prev
		}
		c.len--
		return true
	}
	return false
}

// chainTable is the separate-chaining bucket representation.
type chainTable[K comparable, V any] struct {
	chains []chain[K, V]
}

func newChainTable[K comparable, V any](capacity int) *chainTable[K, V] {
	return &chainTable[K, V]{chains: make([]chain[K, V], capacity)}
}

func (t *chainTable[K, V]) bucket(h uintptr) *chain[K, V] {
	return &t.chains[h%uintptr(len(t.chains))]
}

func (t *chainTable[K, V]) find(h uintptr, key K) *Slot[K, V] {
	if n := t.bucket(h).find(key); n != nil {
		return &n.Slot
	}
	return nil
}

func (t *chainTable[K, V]) insert(h uintptr, key K, value V) {
	if debug {
		fmt.Printf("insert(%v): bucket=%d\n", key, h%uintptr(len(t.chains)))
	}
	t.bucket(h).append(key, value)
}

func (t *chainTable[K, V]) remove(h uintptr, key K) bool {
	return t.bucket(h).remove(key)
}

// next walks the chains in bucket order. The cursor index is the next bucket
// to start and the cursor node is the remainder of the bucket before it.
func (t *chainTable[K, V]) next(c cursor[K, V]) (cursor[K, V], *Slot[K, V]) {
	if n := c.node; n != nil {
		return cursor[K, V]{index: c.index, node: n.next}, &n.Slot
	}
	for i := c.index; i < len(t.chains); i++ {
		if n := t.chains[i].head; n != nil {
			return cursor[K, V]{index: i + 1, node: n.next}, &n.Slot
		}
	}
	return cursor[K, V]{index: len(t.chains)}, nil
}

func (t *chainTable[K, V]) emptyBuckets() int {
	var n int
	for i := range t.chains {
		if t.chains[i].len == 0 {
			n++
		}
	}
	return n
}

func (t *chainTable[K, V]) probeStats(func(K) uintptr) (tombstones, longest int) {
	for i := range t.chains {
		longest = max(longest, t.chains[i].len)
	}
	return 0, longest
}

func (t *chainTable[K, V]) reset() {
	clear(t.chains)
}

func (t *chainTable[K, V]) release() {
	t.chains = nil
}

func (t *chainTable[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d\n", len(t.chains))
	for i := range t.chains {
		fmt.Fprintf(&buf, "  %4d:", i)
		for n := t.chains[i].head; n != nil; n = n.next {
			fmt.Fprintf(&buf, " %v:%v", n.key, n.value)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}
