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

// Package hashfunc provides deterministic hash functions for use with
// hashmaps.Map. Additive and Positional are intentionally weak and make
// collisions easy to provoke; XXHash is the one to use for real data.
package hashfunc

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// Additive returns the sum of the code points of s. Anagrams collide.
func Additive(s string) uintptr {
	var h uintptr
	for _, r := range s {
		h += uintptr(r)
	}
	return h
}

// Positional returns the sum of the code points of s, each weighted by its
// one-based position.
func Positional(s string) uintptr {
	var h uintptr
	var i uintptr
	for _, r := range s {
		i++
		h += i * uintptr(r)
	}
	return h
}

// XXHash returns the 64-bit xxHash of s truncated to a uintptr.
func XXHash(s string) uintptr {
	return uintptr(xxhash.Sum64String(s))
}

// Integer returns k itself. Negative values wrap around.
func Integer[T constraints.Integer](k T) uintptr {
	return uintptr(k)
}

var byName = map[string]func(string) uintptr{
	"additive":   Additive,
	"positional": Positional,
	"xxhash":     XXHash,
}

// ByName returns the string hash function registered under name.
func ByName(name string) (func(string) uintptr, error) {
	if f, ok := byName[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("unknown hash function %q (want one of %v)", name, Names())
}

// Names returns the names accepted by ByName in sorted order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
