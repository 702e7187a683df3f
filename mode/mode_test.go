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

package mode

import (
	"fmt"
	"sort"
	"testing"

	"github.com/saturnines/CustomHashMaps/hashfunc"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	testCases := []struct {
		values        []int
		expectedModes []int
		expectedFreq  int
	}{
		{nil, nil, 0},
		{[]int{7}, []int{7}, 1},
		{[]int{3, 3, 1, 2, 2, 2}, []int{2}, 3},
		{[]int{1, 2, 3}, []int{1, 2, 3}, 1},
		{[]int{4, 4, 9, 9, 1}, []int{4, 9}, 2},
		{[]int{-1, -1, 0}, []int{-1}, 2},
	}
	for _, c := range testCases {
		t.Run(fmt.Sprint(c.values), func(t *testing.T) {
			modes, freq := Find(c.values, hashfunc.Integer[int])
			sort.Ints(modes)
			require.Equal(t, c.expectedModes, modes)
			require.Equal(t, c.expectedFreq, freq)
		})
	}
}

func TestFindStrings(t *testing.T) {
	values := []string{"apple", "grape", "melon", "melon", "peach", "apple", "lemon"}
	for _, name := range hashfunc.Names() {
		t.Run(name, func(t *testing.T) {
			hash, err := hashfunc.ByName(name)
			require.NoError(t, err)
			modes, freq := Find(values, hash)
			sort.Strings(modes)
			require.Equal(t, []string{"apple", "melon"}, modes)
			require.Equal(t, 2, freq)
		})
	}
}

func TestFindManyDistinct(t *testing.T) {
	// Enough distinct values to force the frequency table to grow.
	var values []int
	for i := 0; i < 500; i++ {
		values = append(values, i)
	}
	values = append(values, 250)
	modes, freq := Find(values, hashfunc.Integer[int])
	require.Equal(t, []int{250}, modes)
	require.Equal(t, 2, freq)
}
