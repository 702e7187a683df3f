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

// cursor is a position within a bucket array. For open addressing only index
// is used. Chaining additionally keeps the unvisited tail of the current
// chain in node.
type cursor[K comparable, V any] struct {
	index int
	node  *node[K, V]
}

// Iterator walks the live entries of a Map in bucket order. The zero
// Iterator is exhausted. Iterators are values: a copy taken before Next is
// called starts from the beginning again.
//
//	for it := m.Iter(); it.Next(); {
//		fmt.Println(it.Key(), it.Value())
//	}
//
// The map must not be modified while an Iterator is in use.
type Iterator[K comparable, V any] struct {
	buckets buckets[K, V]
	pos     cursor[K, V]
	cur     *Slot[K, V]
}

// Iter returns an Iterator positioned before the first entry.
func (m *Map[K, V]) Iter() Iterator[K, V] {
	return Iterator[K, V]{buckets: m.buckets}
}

// Next advances to the next entry, returning false when there are none.
func (it *Iterator[K, V]) Next() bool {
	if it.buckets == nil {
		return false
	}
	it.pos, it.cur = it.buckets.next(it.pos)
	return it.cur != nil
}

// Key returns the key of the current entry, or the zero value when the
// iterator is not positioned on an entry.
func (it *Iterator[K, V]) Key() K {
	if it.cur == nil {
		var k K
		return k
	}
	return it.cur.key
}

// Value returns the value of the current entry, or the zero value when the
// iterator is not positioned on an entry.
func (it *Iterator[K, V]) Value() V {
	if it.cur == nil {
		var v V
		return v
	}
	return it.cur.value
}

// All calls yield sequentially for each key and value present in the map. If
// yield returns false, All stops the iteration. The map must not be mutated
// during iteration.
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	for it := m.Iter(); it.Next(); {
		if !yield(it.Key(), it.Value()) {
			return
		}
	}
}
