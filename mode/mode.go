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

// Package mode computes the statistical mode of a sequence using a chained
// hashmaps.Map as the frequency table.
package mode

import hashmaps "github.com/saturnines/CustomHashMaps"

const initialCapacity = 11

// Find returns every value occurring most often in values along with that
// frequency. Ties are all returned, in the frequency table's iteration
// order. An empty input yields (nil, 0).
func Find[T comparable](values []T, hash func(T) uintptr) ([]T, int) {
	if len(values) == 0 {
		return nil, 0
	}

	counts := hashmaps.New[T, int](initialCapacity, hash, hashmaps.WithChaining[T, int]())
	for _, v := range values {
		n, _ := counts.Get(v)
		counts.Put(v, n+1)
	}

	var modes []T
	var freq int
	counts.All(func(v T, n int) bool {
		switch {
		case n > freq:
			modes = append(modes[:0], v)
			freq = n
		case n == freq:
			modes = append(modes, v)
		}
		return true
	})
	return modes, freq
}
