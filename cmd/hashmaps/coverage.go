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

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	hashmaps "github.com/saturnines/CustomHashMaps"
)

type CoverageCommand struct {
	Max       int  `short:"m" long:"max" default:"100" description:"largest capacity to check"`
	Composite bool `long:"composite" description:"also print odd composite capacities"`
}

func (x *CoverageCommand) Execute(args []string) error {
	return x.run(os.Stdout)
}

func (x *CoverageCommand) run(out io.Writer) error {
	var result error
	for p := 3; p <= x.Max; p += 2 {
		prime := hashmaps.IsPrime(p)
		if !prime && !x.Composite {
			continue
		}
		c := hashmaps.ProbeCoverage(p)
		fmt.Fprintf(out, "%6d %6d %5.3f\n", p, c, float64(c)/float64(p))
		if prime && c != (p+1)/2 {
			result = multierror.Append(result,
				fmt.Errorf("capacity %d: probe covers %d slots, want %d", p, c, (p+1)/2))
		}
	}
	if result != nil {
		log.Error(result)
	} else {
		log.Infof("probe coverage verified for odd primes up to %d", x.Max)
	}
	return result
}
