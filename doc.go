// Copyright 2025 easymvp
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

// Package jsonriver is a streaming, incremental JSON decoder.
//
// Given a sequence of byte chunks that together form a single JSON
// document, a [Decoder] produces a sequence of progressively complete
// [Value] snapshots: the best-effort reconstruction of the final value
// given only the bytes consumed so far. The last snapshot produced is
// exactly what [encoding/json] would produce for the complete input.
//
// The decoder is a two-stage pipeline. A byte-level tokenizer segments
// the input into typed token fragments without ever buffering an entire
// string or number, and a value builder consumes those fragments and
// maintains an in-place, continuously mutated root [Value]. Both stages
// carry their state explicitly (no host call-stack recursion), so
// arbitrarily deep nesting does not risk a stack overflow and parsing
// can suspend at any byte boundary and resume later.
//
//	dec := jsonriver.NewDecoder()
//	for _, chunk := range chunks {
//		values, err := dec.Write([]byte(chunk))
//		for _, v := range values {
//			fmt.Println(v) // progressively more complete
//		}
//	}
//	final, err := dec.Close()
//
// Container values ([Value] of kind [KindArray] or [KindObject]) are mutated and
// reused across snapshots rather than copied; callers that need to
// retain a snapshot past the next [Decoder.Write] call must deep-copy it
// with [Value.Clone].
package jsonriver
