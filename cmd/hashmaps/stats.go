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
	"github.com/saturnines/CustomHashMaps/hashfunc"
)

type StatsCommand struct {
	Strategy string   `short:"s" long:"strategy" default:"open-addressing" description:"collision resolution [open-addressing, chaining]"`
	Hash     string   `long:"hash" default:"xxhash" description:"hash function [additive, positional, xxhash]"`
	Capacity int      `short:"c" long:"capacity" default:"11" description:"initial capacity, rounded up to a prime"`
	Delete   []string `short:"d" long:"delete" description:"words to delete after loading"`
	Dump     bool     `long:"dump" description:"print the entries after the statistics"`
}

func (x *StatsCommand) Execute(args []string) error {
	return x.run(args, os.Stdin, os.Stdout)
}

// options validates the strategy and hash names together.
func (x *StatsCommand) options() (hashmaps.Strategy, func(string) uintptr, error) {
	var result error
	strategy, err := hashmaps.ParseStrategy(x.Strategy)
	if err != nil {
		result = multierror.Append(result, err)
	}
	hash, err := hashfunc.ByName(x.Hash)
	if err != nil {
		result = multierror.Append(result, err)
	}
	return strategy, hash, result
}

func (x *StatsCommand) run(args []string, in io.Reader, out io.Writer) error {
	strategy, hash, err := x.options()
	if err != nil {
		log.Error(err)
		return err
	}
	words, err := readTokens(args, in)
	if err != nil {
		return err
	}

	m := hashmaps.New[string, int](x.Capacity, hash, hashmaps.WithStrategy[string, int](strategy))
	defer m.Close()
	for _, w := range words {
		n, _ := m.Get(w)
		m.Put(w, n+1)
	}
	for _, w := range x.Delete {
		if !m.Contains(w) {
			log.Warningf("delete %q: not present", w)
			continue
		}
		m.Delete(w)
	}
	log.Debugf("loaded %d words into %s map", len(words), strategy)

	fmt.Fprintln(out, m.Stats())
	if x.Dump {
		for _, e := range m.KeysAndValues() {
			fmt.Fprintf(out, "%s\t%d\n", e.Key, e.Value)
		}
	}
	return nil
}
