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

func TestKindString(t *testing.T) {
	assert.Equal(t, "array", KindArray.String())
	assert.Equal(t, "<unknown>", Kind(99).String())
}

func TestValueAccessorsTypeError(t *testing.T) {
	v := Number(42)

	_, err := v.AsString()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrType))

	n, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 42.0, n)
}

func TestObjectSetOverwritesInPlacePreservingPosition(t *testing.T) {
	obj := newObject()
	obj.set("a", Number(1))
	obj.set("b", Number(2))
	obj.set("a", Number(3)) // duplicate key: overwrite, keep position

	assert.Equal(t, []string{"a", "b"}, obj.Keys())

	v, ok := obj.Get("a")
	require.True(t, ok)
	n, _ := v.AsNumber()
	assert.Equal(t, 3.0, n)
}

func TestValueAt(t *testing.T) {
	obj := newObject()
	obj.set("items", Array(Number(1), Number(2), String("x")))
	root := Value{kind: KindObject, obj: obj}

	v, ok := root.At("items", 2)
	require.True(t, ok)
	s, err := v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	_, ok = root.At("items", 10)
	assert.False(t, ok)

	_, ok = root.At("missing")
	assert.False(t, ok)
}

func TestValueCloneIsIndependent(t *testing.T) {
	original := Array(Number(1), Number(2))
	clone := original.Clone()

	arr, _ := original.AsArray()
	arr[0] = Number(99)

	cloneArr, _ := clone.AsArray()
	n, _ := cloneArr[0].AsNumber()
	assert.Equal(t, 1.0, n, "clone must not observe mutation of the original backing slice")
}

func TestValueStringRoundTrip(t *testing.T) {
	obj := newObject()
	obj.set("name", String("river"))
	obj.set("count", Number(3))
	v := Value{kind: KindObject, obj: obj}

	assert.Equal(t, `{"name":"river","count":3}`, v.String())

	data, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, v.String(), string(data))
}
