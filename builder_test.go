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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedEvents applies a sequence of events to b, failing the test if any
// event is rejected.
func feedEvents(t *testing.T, b *builder, events ...tokenEvent) {
	t.Helper()
	for _, ev := range events {
		_, err := b.handle(ev)
		require.NoError(t, err)
	}
}

func chunk(text string) tokenEvent { return tokenEvent{kind: evNumberChunk, text: text} }
func str(text string) tokenEvent   { return tokenEvent{kind: evStringChunk, text: text} }

func TestBuilderTopLevelNumber(t *testing.T) {
	b := newBuilder()
	yield, err := b.handle(chunk("4"))
	require.NoError(t, err)
	assert.True(t, yield)
	n, _ := b.rootValue().AsNumber()
	assert.Equal(t, 4.0, n)

	yield, err = b.handle(chunk("2"))
	require.NoError(t, err)
	assert.True(t, yield)
	n, _ = b.rootValue().AsNumber()
	assert.Equal(t, 42.0, n)

	yield, err = b.handle(tokenEvent{kind: evNumberEnd})
	require.NoError(t, err)
	assert.False(t, yield, "NumberEnd never yields new information")
}

func TestBuilderArrayOfNumbersGrowsAndPropagates(t *testing.T) {
	b := newBuilder()
	feedEvents(t, b,
		tokenEvent{kind: evStartArray},
		chunk("1"),
		tokenEvent{kind: evNumberEnd},
		tokenEvent{kind: evComma},
		chunk("2"),
		tokenEvent{kind: evNumberEnd},
	)

	arr, err := b.rootValue().AsArray()
	require.NoError(t, err)
	require.Len(t, arr, 2)
	n0, _ := arr[0].AsNumber()
	n1, _ := arr[1].AsNumber()
	assert.Equal(t, 1.0, n0)
	assert.Equal(t, 2.0, n1)
}

func TestBuilderNestedArrayGrowthVisibleFromRoot(t *testing.T) {
	b := newBuilder()
	feedEvents(t, b,
		tokenEvent{kind: evStartArray}, // outer
		tokenEvent{kind: evStartArray}, // inner
		chunk("1"),
		tokenEvent{kind: evNumberEnd},
		tokenEvent{kind: evComma},
		chunk("2"),
		tokenEvent{kind: evNumberEnd},
	)

	outer, err := b.rootValue().AsArray()
	require.NoError(t, err)
	require.Len(t, outer, 1)
	inner, err := outer[0].AsArray()
	require.NoError(t, err)
	require.Len(t, inner, 2, "growth of the inner array's backing slice must be visible through the outer array's stored slot")
	n1, _ := inner[1].AsNumber()
	assert.Equal(t, 2.0, n1)
}

func TestBuilderObjectKeyOverwritesInPlace(t *testing.T) {
	b := newBuilder()
	feedEvents(t, b,
		tokenEvent{kind: evStartObject},
		tokenEvent{kind: evStringStart}, str("a"), tokenEvent{kind: evStringEnd}, // key "a"
		tokenEvent{kind: evColon},
		chunk("1"), tokenEvent{kind: evNumberEnd},
		tokenEvent{kind: evComma},
		tokenEvent{kind: evStringStart}, str("a"), tokenEvent{kind: evStringEnd}, // duplicate key "a"
		tokenEvent{kind: evColon},
		chunk("2"), tokenEvent{kind: evNumberEnd},
		tokenEvent{kind: evEndObject},
	)

	obj, err := b.rootValue().AsObject()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, obj.Keys())
	v, _ := obj.Get("a")
	n, _ := v.AsNumber()
	assert.Equal(t, 2.0, n)
}

func TestBuilderStringGrowsInPlace(t *testing.T) {
	b := newBuilder()
	yield, err := b.handle(tokenEvent{kind: evStringStart})
	require.NoError(t, err)
	assert.True(t, yield)
	s, _ := b.rootValue().AsString()
	assert.Equal(t, "", s)

	yield, err = b.handle(str("hel"))
	require.NoError(t, err)
	assert.True(t, yield)
	yield, err = b.handle(str("lo"))
	require.NoError(t, err)
	assert.True(t, yield)
	s, _ = b.rootValue().AsString()
	assert.Equal(t, "hello", s)

	yield, err = b.handle(tokenEvent{kind: evStringEnd})
	require.NoError(t, err)
	assert.True(t, yield)
}

func TestBuilderNumberTentativenessDoesNotRegress(t *testing.T) {
	b := newBuilder()
	_, err := b.handle(tokenEvent{kind: evStartArray})
	require.NoError(t, err)

	// "1" then "e" then "2": the value must never drop back to 0 once a
	// complete prefix ("1") has been committed.
	yield, err := b.handle(chunk("1"))
	require.NoError(t, err)
	assert.True(t, yield)
	n, _ := b.currentValue().AsNumber()
	assert.Equal(t, 1.0, n)

	yield, err = b.handle(chunk("e"))
	require.NoError(t, err)
	assert.False(t, yield, "a lone exponent marker does not yet form a complete number")
	n, _ = b.currentValue().AsNumber()
	assert.Equal(t, 1.0, n, "value must not regress while the number is incomplete")

	yield, err = b.handle(chunk("2"))
	require.NoError(t, err)
	assert.True(t, yield)
	n, _ = b.currentValue().AsNumber()
	assert.Equal(t, 1e2, n)
}

func TestBuilderLiteralsAndEOF(t *testing.T) {
	b := newBuilder()
	yield, err := b.handle(tokenEvent{kind: evLiteralTrue})
	require.NoError(t, err)
	assert.True(t, yield)
	bv, _ := b.rootValue().AsBool()
	assert.True(t, bv)

	yield, err = b.handle(tokenEvent{kind: evEOF})
	require.NoError(t, err)
	assert.False(t, yield)
}
