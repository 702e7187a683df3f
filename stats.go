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

// MapStats is a point in time summary of the shape of a Map.
type MapStats struct {
	Strategy     Strategy
	Capacity     int
	Size         int
	EmptyBuckets int
	// Tombstones is always zero for chaining.
	Tombstones int
	// MaxProbeLength is the number of slots examined to reach the hardest to
	// find live key (open addressing) or the length of the longest chain.
	MaxProbeLength int
	LoadFactor     float64
	Resizes        int
}

// Stats walks the map and returns its current MapStats.
func (m *Map[K, V]) Stats() *MapStats {
	tombstones, longest := m.buckets.probeStats(m.hash)
	return &MapStats{
		Strategy:       m.strategy,
		Capacity:       m.capacity,
		Size:           m.used,
		EmptyBuckets:   m.buckets.emptyBuckets(),
		Tombstones:     tombstones,
		MaxProbeLength: longest,
		LoadFactor:     m.LoadFactor(),
		Resizes:        m.resizes,
	}
}

func (s *MapStats) String() string {
	return fmt.Sprintf(
		"strategy=%s capacity=%d size=%d empty=%d tombstones=%d max-probe=%d load=%.3f resizes=%d",
		s.Strategy, s.Capacity, s.Size, s.EmptyBuckets, s.Tombstones, s.MaxProbeLength,
		s.LoadFactor, s.Resizes)
}
