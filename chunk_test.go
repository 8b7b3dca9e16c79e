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

package jsonriver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkAdapterASCIIPassesThrough(t *testing.T) {
	var c chunkAdapter
	got := c.feed([]byte("hello"))
	assert.Equal(t, "hello", string(got))
	require.NoError(t, c.finalize())
}

func TestChunkAdapterHoldsBackIncompleteMultiByteSequence(t *testing.T) {
	// "é" is 0xC3 0xA9. Split the lead byte and continuation across feeds.
	full := []byte("caf\xc3\xa9")

	var c chunkAdapter
	first := c.feed(full[:len(full)-1]) // ends right after the lead byte
	assert.Equal(t, "caf", string(first))

	second := c.feed(full[len(full)-1:])
	assert.Equal(t, "\xc3\xa9", string(second))
	require.NoError(t, c.finalize())
}

func TestChunkAdapterFourByteSequenceSplit(t *testing.T) {
	// U+1F600 (😀) is 0xF0 0x9F 0x98 0x80.
	full := []byte("\xf0\x9f\x98\x80")

	var c chunkAdapter
	var out []byte
	for i := range full {
		out = append(out, c.feed(full[i:i+1])...)
	}
	assert.Equal(t, full, out)
	require.NoError(t, c.finalize())
}

func TestChunkAdapterFinalizeErrorsOnTruncatedSequence(t *testing.T) {
	var c chunkAdapter
	c.feed([]byte("ok\xe2\x82")) // incomplete 3-byte sequence (U+20AC lead)
	err := c.finalize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncoding))
}

func TestSafeUTF8PrefixAllASCII(t *testing.T) {
	assert.Equal(t, 5, safeUTF8Prefix([]byte("abcde")))
}
