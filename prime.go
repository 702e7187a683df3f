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

// minCapacity is the smallest capacity a Map will ever have. Requests below
// it (including zero and negative requests) are rounded up to it.
const minCapacity = 3

// IsPrime reports whether n is prime using trial division by odd factors.
func IsPrime(n int) bool {
	if n == 2 || n == 3 {
		return true
	}
	if n < 2 || n%2 == 0 {
		return false
	}
	for f := 3; f*f <= n; f += 2 {
		if n%f == 0 {
			return false
		}
	}
	return true
}

// NextPrime returns the smallest odd prime >= n. Even values are bumped to
// the following odd value before scanning so the result is never 2.
func NextPrime(n int) int {
	if n < minCapacity {
		return minCapacity
	}
	if n%2 == 0 {
		n++
	}
	for !IsPrime(n) {
		n += 2
	}
	return n
}

// ProbeCoverage returns the number of distinct slots visited by the
// quadratic probe sequence (h + j^2) mod p for j in [0, p). The result does
// not depend on h since changing h only rotates the sequence.
//
// For an odd prime p the squares mod p take exactly (p+1)/2 distinct values
// (zero plus the (p-1)/2 quadratic residues). An open-addressing table that
// keeps fewer than (p+1)/2 live entries is therefore guaranteed to find a
// free slot within one full probe sequence, which is why the load factor is
// kept strictly below 1/2. Composite capacities can do much worse.
func ProbeCoverage(p int) int {
	if p <= 0 {
		return 0
	}
	seen := make([]bool, p)
	var n int
	for s := makeProbeSeq(0, uintptr(p)); s.index < uintptr(p); s = s.next() {
		if !seen[s.offset] {
			seen[s.offset] = true
			n++
		}
	}
	return n
}
