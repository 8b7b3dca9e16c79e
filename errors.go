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
	"fmt"
)

// Sentinel categories, usable with errors.Is against any error returned
// by a Decoder.
var (
	// ErrLexical marks a tokenizer-level rejection: a bad escape, a
	// malformed number, an unknown literal, an unexpected character.
	ErrLexical = errors.New("jsonriver: lexical error")
	// ErrStructural marks a token sequence that does not form a
	// well-nested document: an extra close, a missing comma, a value
	// after the root is already complete, a key without a colon.
	ErrStructural = errors.New("jsonriver: structural error")
	// ErrEncoding marks input bytes that are not valid in the
	// declared encoding (malformed UTF-8).
	ErrEncoding = errors.New("jsonriver: encoding error")
	// ErrUnexpectedEOF marks input that ended with an unfinished
	// token or an unclosed container.
	ErrUnexpectedEOF = errors.New("jsonriver: unexpected end of input")
)

// LexicalError reports a tokenizer rejection at a specific byte offset.
type LexicalError struct {
	Offset  int64
	Message string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("jsonriver: lexical error at offset %d: %s", e.Offset, e.Message)
}

func (e *LexicalError) Unwrap() error { return ErrLexical }

// StructuralError reports a malformed token sequence at a specific byte
// offset.
type StructuralError struct {
	Offset  int64
	Message string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("jsonriver: structural error at offset %d: %s", e.Offset, e.Message)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

// EncodingError reports invalid input bytes at a specific byte offset.
type EncodingError struct {
	Offset  int64
	Message string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("jsonriver: encoding error at offset %d: %s", e.Offset, e.Message)
}

func (e *EncodingError) Unwrap() error { return ErrEncoding }

// UnexpectedEOFError reports that input ended before the document was
// complete.
type UnexpectedEOFError struct {
	Message string
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("jsonriver: unexpected EOF: %s", e.Message)
}

func (e *UnexpectedEOFError) Unwrap() error { return ErrUnexpectedEOF }

func lexicalErrorf(offset int64, format string, args ...any) error {
	return &LexicalError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func structuralErrorf(offset int64, format string, args ...any) error {
	return &StructuralError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func encodingErrorf(offset int64, format string, args ...any) error {
	return &EncodingError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func unexpectedEOFf(format string, args ...any) error {
	return &UnexpectedEOFError{Message: fmt.Sprintf(format, args...)}
}
