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
	"bufio"
	"io"
	"iter"
	"unicode/utf8"
)

// DefaultChunkSize is the read size DecodeReader uses when pulling from
// an io.Reader.
const DefaultChunkSize = 4096

// Decoder incrementally parses a single JSON document from a sequence
// of byte chunks, yielding a progressively more complete Value as bytes
// arrive. Write and Close return every Value the growing document
// passed through during that call; the last Value returned by Close,
// if any, is the fully parsed document and is equal to what
// encoding/json would produce from the same bytes in one shot.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	chunks  chunkAdapter
	tok     *tokenizer
	build   *builder
	closed  bool
	doneErr error
}

// NewDecoder returns a Decoder ready to accept Write calls.
func NewDecoder() *Decoder {
	return &Decoder{
		tok:   newTokenizer(),
		build: newBuilder(),
	}
}

// Write feeds the next chunk of input and returns every progressively
// more complete Value the document took on while processing it. The
// returned Values share storage with the Decoder's internal state and
// are only valid until the next Write or Close call; callers that need
// to retain one must call Value.Clone. Input that is not valid UTF-8 is
// reported as an EncodingError.
func (d *Decoder) Write(chunk []byte) ([]Value, error) {
	if d.closed {
		return nil, d.doneErr
	}
	safe := d.chunks.feed(chunk)
	if !utf8.Valid(safe) {
		start := d.chunks.offset - int64(len(safe))
		for i := 0; i < len(safe); {
			r, size := utf8.DecodeRune(safe[i:])
			if r == utf8.RuneError && size == 1 {
				d.closed = true
				d.doneErr = encodingErrorf(start+int64(i), "invalid UTF-8 byte 0x%02x", safe[i])
				return nil, d.doneErr
			}
			i += size
		}
	}
	d.tok.append(safe)
	return d.drain(false)
}

// Close signals that no further input will arrive. It returns any
// final Values produced while draining the last partial token, and
// reports an error if the input ended with an unclosed container, an
// unterminated token, or an incomplete trailing UTF-8 sequence.
func (d *Decoder) Close() ([]Value, error) {
	if d.closed {
		return nil, d.doneErr
	}
	vals, err := d.drain(true)
	if err == nil {
		err = d.chunks.finalize()
	}
	d.closed = true
	d.doneErr = err
	return vals, err
}

// Done reports whether the document has been fully parsed: a complete
// top-level value has been produced and no container remains open.
func (d *Decoder) Done() bool {
	return len(d.tok.stack) == 0 && d.tok.topDone
}

// Value returns the current root value without requiring a Write or
// Close call, e.g. to inspect progress between chunks. It returns Null
// if nothing has been parsed yet.
func (d *Decoder) Value() Value {
	return d.build.rootValue()
}

// drain pulls every token event the tokenizer can currently produce and
// feeds it to the builder, collecting a Value each time the root
// observably changes. eof is true only on the final call, once all
// input bytes have been appended.
func (d *Decoder) drain(eof bool) ([]Value, error) {
	var out []Value
	for {
		ev, ok, err := d.tok.next(eof)
		if err != nil {
			d.closed = true
			d.doneErr = err
			return out, err
		}
		if !ok {
			d.tok.compact()
			return out, nil
		}
		yield, err := d.build.handle(ev)
		if err != nil {
			d.closed = true
			d.doneErr = err
			return out, err
		}
		if yield {
			out = append(out, d.build.rootValue())
		}
		if ev.kind == evEOF {
			d.tok.compact()
			return out, nil
		}
	}
}

// DecodeReader reads chunks of up to DefaultChunkSize bytes from r and
// returns an iterator over every progressively more complete Value the
// document took on, in order. Iteration stops, yielding the error, the
// first time reading or parsing fails; the final successful yield (if
// the iterator runs to completion) is the fully parsed document.
func DecodeReader(r io.Reader) iter.Seq2[Value, error] {
	return DecodeReaderChunked(r, DefaultChunkSize)
}

// DecodeReaderChunked behaves like DecodeReader but reads chunkSize
// bytes at a time, letting callers trade progress granularity against
// overhead.
func DecodeReaderChunked(r io.Reader, chunkSize int) iter.Seq2[Value, error] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return func(yield func(Value, error) bool) {
		dec := NewDecoder()
		buf := make([]byte, chunkSize)
		br := bufio.NewReaderSize(r, chunkSize)

		for {
			n, readErr := br.Read(buf)
			if n > 0 {
				vals, err := dec.Write(buf[:n])
				for _, v := range vals {
					if !yield(v, nil) {
						return
					}
				}
				if err != nil {
					yield(Value{}, err)
					return
				}
			}
			if readErr != nil {
				if readErr != io.EOF {
					yield(Value{}, readErr)
					return
				}
				break
			}
		}

		vals, err := dec.Close()
		for _, v := range vals {
			if !yield(v, nil) {
				return
			}
		}
		if err != nil {
			yield(Value{}, err)
		}
	}
}
