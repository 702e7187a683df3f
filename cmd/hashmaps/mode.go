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
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/saturnines/CustomHashMaps/hashfunc"
	"github.com/saturnines/CustomHashMaps/mode"
)

type ModeCommand struct {
	Ints bool   `short:"i" long:"ints" description:"treat the values as integers"`
	Hash string `long:"hash" default:"xxhash" description:"hash function for string values [additive, positional, xxhash]"`
}

func (x *ModeCommand) Execute(args []string) error {
	return x.run(args, os.Stdin, os.Stdout)
}

func (x *ModeCommand) run(args []string, in io.Reader, out io.Writer) error {
	tokens, err := readTokens(args, in)
	if err != nil {
		return err
	}

	if x.Ints {
		values, err := parseInts(tokens)
		if err != nil {
			log.Error(err)
			return err
		}
		modes, freq := mode.Find(values, hashfunc.Integer[int])
		fmt.Fprintf(out, "mode: %v\nfrequency: %d\n", modes, freq)
		return nil
	}

	hash, err := hashfunc.ByName(x.Hash)
	if err != nil {
		return err
	}
	modes, freq := mode.Find(tokens, hash)
	fmt.Fprintf(out, "mode: %v\nfrequency: %d\n", modes, freq)
	return nil
}

// parseInts converts every token, reporting all malformed tokens at once.
func parseInts(tokens []string) ([]int, error) {
	var result error
	values := make([]int, 0, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("value %d: %w", i, err))
			continue
		}
		values = append(values, v)
	}
	if result != nil {
		return nil, result
	}
	return values, nil
}
