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

// eventKind is the type of a tokenEvent: structural punctuation,
// literal values, fragmented strings/numbers, and end of input.
type eventKind int8

const (
	evStartArray eventKind = iota
	evEndArray
	evStartObject
	evEndObject
	evColon
	evComma
	evLiteralNull
	evLiteralTrue
	evLiteralFalse
	evStringStart
	evStringChunk
	evStringEnd
	evNumberChunk
	evNumberEnd
	evEOF
)

// tokenEvent is one lexical signal produced by the tokenizer. Strings
// and numbers are fragmented across multiple events so that no entire
// token is ever required to be buffered.
type tokenEvent struct {
	kind eventKind
	text string // payload for evStringChunk / evNumberChunk
}

// ctxKind is the bracket type of an open container, tracked by the
// tokenizer purely for grammar validation (comma/colon placement,
// bracket matching) independent of the value builder's own frame stack.
type ctxKind int8

const (
	ctxArray ctxKind = iota
	ctxObject
)

// frameState is the tokenizer's notion of what may legally come next
// inside the container on top of its context stack.
type frameState int8

const (
	fsArrValue         frameState = iota // '[' just opened: a value or ']'
	fsArrValueRequired                   // after ',': a value (no close allowed)
	fsArrAfterValue                      // after a value: ',' or ']'
	fsObjKeyOrClose                      // '{' just opened: a key string or '}'
	fsObjKey                             // after ',': a key string (no close allowed)
	fsObjColon                           // after a key: ':'
	fsObjValue                           // after ':': a value
	fsObjAfterValue                      // after a value: ',' or '}'
)

type ctxFrame struct {
	kind  ctxKind
	state frameState
}

// leafKind tags which resumable sub-scanner, if any, is mid-token.
type leafKind int8

const (
	leafNone leafKind = iota
	leafString
	leafNumber
	leafLiteral
)

// numSub is the number lexer's sub-state per spec: sign|intZero|
// intNonZero|frac|expSign|expDigits, split further to distinguish
// "digit seen" from "digit pending" so terminality is a simple lookup.
type numSub int8

const (
	nsStart    numSub = iota // nothing consumed yet, optional '-' pending
	nsIntSign                // '-' consumed, first digit pending
	nsZero                   // '0' is the whole integer part so far
	nsInt                    // one or more non-zero-led digits
	nsDotStart               // '.' consumed, fraction digit pending
	nsFrac                   // one or more fraction digits
	nsExpStart               // 'e'/'E' consumed, sign-or-digit pending
	nsExpSign                // exponent sign consumed, digit pending
	nsExp                    // one or more exponent digits
)

func (s numSub) terminal() bool {
	switch s {
	case nsZero, nsInt, nsFrac, nsExp:
		return true
	default:
		return false
	}
}

// strSub is the string lexer's sub-state for escapes and surrogate
// pairs, per the InString/InEscape/InUnicode/AwaitLowSurrogate states.
type strSub int8

const (
	strPlain strSub = iota
	strEscChar
	strUnicodeHex
	strAwaitSurrogateBackslash
	strAwaitSurrogateU
)

type stringScan struct {
	isKey       bool
	sub         strSub
	hexDigits   int
	hexVal      uint32
	pendingHigh rune // 0 if no high surrogate is currently awaiting its pair
}

type literalScan struct {
	expected []byte
	pos      int
	event    eventKind
}

// tokenizer is a flat, byte-driven finite automaton. It never requires
// an entire string or number to be buffered: next returns as soon as it
// has a complete event, or signals "need more data" (ok=false, err=nil)
// when the currently available bytes run out mid-token. Every field is
// explicit state on the struct; there is no host call-stack recursion,
// so suspension and resumption are simply "stop calling next" and
// "call next again after appending more bytes."
type tokenizer struct {
	buf        []byte
	pos        int
	baseOffset int64 // stream offset of buf[0]

	stack   []ctxFrame
	topDone bool // the single permitted top-level value has been completed

	active leafKind
	str    stringScan
	num    numSub
	lit    literalScan
}

func newTokenizer() *tokenizer {
	return &tokenizer{stack: make([]ctxFrame, 0, 16)}
}

// append adds more input bytes, already normalized by the chunk adapter
// to never end mid-UTF-8-sequence.
func (t *tokenizer) append(b []byte) {
	t.buf = append(t.buf, b...)
}

// compact discards bytes already consumed so memory stays bounded to
// the unconsumed tail plus whatever partial token is in flight.
func (t *tokenizer) compact() {
	if t.pos == 0 {
		return
	}
	t.baseOffset += int64(t.pos)
	n := copy(t.buf, t.buf[t.pos:])
	t.buf = t.buf[:n]
	t.pos = 0
}

func (t *tokenizer) offset() int64 { return t.baseOffset + int64(t.pos) }

// next returns the next token event. ok is false with a nil error when
// the currently buffered bytes are exhausted mid-token and more input is
// needed; eof tells next that no more bytes will ever arrive once the
// buffer is drained, so it should make a final determination (emit
// evEOF, or report UnexpectedEOFError) instead of asking for more.
func (t *tokenizer) next(eof bool) (tokenEvent, bool, error) {
	if t.active != leafNone {
		return t.continueLeaf(eof)
	}

	t.skipWhitespace()

	if t.pos >= len(t.buf) {
		if !eof {
			return tokenEvent{}, false, nil
		}
		if len(t.stack) > 0 {
			return tokenEvent{}, false, unexpectedEOFf("unclosed %s", topDescription(t.stack[len(t.stack)-1].kind))
		}
		if !t.topDone {
			return tokenEvent{}, false, unexpectedEOFf("no value found in input")
		}
		return tokenEvent{kind: evEOF}, true, nil
	}

	c := t.buf[t.pos]

	if len(t.stack) == 0 {
		if t.topDone {
			return tokenEvent{}, false, structuralErrorf(t.offset(), "unexpected character %q after top-level value", c)
		}
		return t.startValue(c)
	}

	frame := &t.stack[len(t.stack)-1]
	switch frame.state {
	case fsArrValue:
		if c == ']' {
			return t.closeContainer(ctxArray)
		}
		return t.startValue(c)
	case fsArrValueRequired:
		return t.startValue(c)
	case fsArrAfterValue:
		switch c {
		case ',':
			t.pos++
			frame.state = fsArrValueRequired
			return tokenEvent{kind: evComma}, true, nil
		case ']':
			return t.closeContainer(ctxArray)
		default:
			return tokenEvent{}, false, structuralErrorf(t.offset(), "expected ',' or ']', got %q", c)
		}
	case fsObjKeyOrClose:
		if c == '}' {
			return t.closeContainer(ctxObject)
		}
		if c == '"' {
			return t.startString(true)
		}
		return tokenEvent{}, false, structuralErrorf(t.offset(), "expected object key or '}', got %q", c)
	case fsObjKey:
		if c == '"' {
			return t.startString(true)
		}
		return tokenEvent{}, false, structuralErrorf(t.offset(), "expected object key, got %q", c)
	case fsObjColon:
		if c != ':' {
			return tokenEvent{}, false, structuralErrorf(t.offset(), "expected ':', got %q", c)
		}
		t.pos++
		frame.state = fsObjValue
		return tokenEvent{kind: evColon}, true, nil
	case fsObjValue:
		return t.startValue(c)
	case fsObjAfterValue:
		switch c {
		case ',':
			t.pos++
			frame.state = fsObjKey
			return tokenEvent{kind: evComma}, true, nil
		case '}':
			return t.closeContainer(ctxObject)
		default:
			return tokenEvent{}, false, structuralErrorf(t.offset(), "expected ',' or '}', got %q", c)
		}
	}
	panic("jsonriver: unreachable tokenizer state")
}

func topDescription(k ctxKind) string {
	if k == ctxArray {
		return "array"
	}
	return "object"
}

func (t *tokenizer) closeContainer(want ctxKind) (tokenEvent, bool, error) {
	frame := t.stack[len(t.stack)-1]
	if frame.kind != want {
		return tokenEvent{}, false, structuralErrorf(t.offset(), "mismatched closing bracket for %s", topDescription(frame.kind))
	}
	t.pos++
	t.stack = t.stack[:len(t.stack)-1]
	t.afterValueClosed()
	kind := evEndArray
	if want == ctxObject {
		kind = evEndObject
	}
	return tokenEvent{kind: kind}, true, nil
}

// afterValueClosed records that a value (of any kind) was just
// completed, updating the new top-of-stack's state, or marking the
// top-level value done when the stack is now empty.
func (t *tokenizer) afterValueClosed() {
	if len(t.stack) == 0 {
		t.topDone = true
		return
	}
	frame := &t.stack[len(t.stack)-1]
	if frame.kind == ctxArray {
		frame.state = fsArrAfterValue
	} else {
		frame.state = fsObjAfterValue
	}
}

// startValue dispatches on the first character of a value in a
// value-expecting position.
func (t *tokenizer) startValue(c byte) (tokenEvent, bool, error) {
	switch {
	case c == '{':
		t.pos++
		t.stack = append(t.stack, ctxFrame{kind: ctxObject, state: fsObjKeyOrClose})
		return tokenEvent{kind: evStartObject}, true, nil
	case c == '[':
		t.pos++
		t.stack = append(t.stack, ctxFrame{kind: ctxArray, state: fsArrValue})
		return tokenEvent{kind: evStartArray}, true, nil
	case c == '"':
		return t.startString(false)
	case c == 't':
		return t.startLiteral([]byte("true"), evLiteralTrue)
	case c == 'f':
		return t.startLiteral([]byte("false"), evLiteralFalse)
	case c == 'n':
		return t.startLiteral([]byte("null"), evLiteralNull)
	case c == '-' || (c >= '0' && c <= '9'):
		return t.startNumber()
	default:
		return tokenEvent{}, false, lexicalErrorf(t.offset(), "unexpected character %q", c)
	}
}

func (t *tokenizer) skipWhitespace() {
	for t.pos < len(t.buf) {
		switch t.buf[t.pos] {
		case ' ', '\t', '\n', '\r':
			t.pos++
		default:
			return
		}
	}
}

func (t *tokenizer) continueLeaf(eof bool) (tokenEvent, bool, error) {
	switch t.active {
	case leafString:
		return t.continueString(eof)
	case leafNumber:
		return t.continueNumber(eof)
	case leafLiteral:
		return t.continueLiteral(eof)
	default:
		panic("jsonriver: continueLeaf with no active leaf")
	}
}

// ---- literals ----

func (t *tokenizer) startLiteral(expected []byte, event eventKind) (tokenEvent, bool, error) {
	t.lit = literalScan{expected: expected, pos: 0, event: event}
	t.active = leafLiteral
	return t.continueLiteral(false)
}

func (t *tokenizer) continueLiteral(eof bool) (tokenEvent, bool, error) {
	for t.lit.pos < len(t.lit.expected) {
		if t.pos >= len(t.buf) {
			if eof {
				return tokenEvent{}, false, unexpectedEOFf("incomplete literal %q", t.lit.expected)
			}
			return tokenEvent{}, false, nil
		}
		if t.buf[t.pos] != t.lit.expected[t.lit.pos] {
			return tokenEvent{}, false, lexicalErrorf(t.offset(), "invalid literal, expected %q", t.lit.expected)
		}
		t.pos++
		t.lit.pos++
	}
	t.active = leafNone
	t.afterValueClosed()
	return tokenEvent{kind: t.lit.event}, true, nil
}

// ---- numbers ----

func (t *tokenizer) startNumber() (tokenEvent, bool, error) {
	t.active = leafNumber
	t.num = nsStart
	// Nothing is consumed here: continueNumber's own loop measures its
	// chunk starting at the current position, so a leading '-' is
	// included in the first evNumberChunk's text rather than silently
	// consumed before any text is measured.
	return t.continueNumber(false)
}

// numberTransition reports the next sub-state for continuing the number
// with c, and whether c belongs to the number at all.
func numberTransition(s numSub, c byte) (numSub, bool) {
	digit := c >= '0' && c <= '9'
	switch s {
	case nsStart:
		if c == '-' {
			return nsIntSign, true
		}
		if c == '0' {
			return nsZero, true
		}
		if digit {
			return nsInt, true
		}
	case nsIntSign:
		if c == '0' {
			return nsZero, true
		}
		if digit {
			return nsInt, true
		}
	case nsZero:
		if c == '.' {
			return nsDotStart, true
		}
		if c == 'e' || c == 'E' {
			return nsExpStart, true
		}
	case nsInt:
		if digit {
			return nsInt, true
		}
		if c == '.' {
			return nsDotStart, true
		}
		if c == 'e' || c == 'E' {
			return nsExpStart, true
		}
	case nsDotStart:
		if digit {
			return nsFrac, true
		}
	case nsFrac:
		if digit {
			return nsFrac, true
		}
		if c == 'e' || c == 'E' {
			return nsExpStart, true
		}
	case nsExpStart:
		if c == '+' || c == '-' {
			return nsExpSign, true
		}
		if digit {
			return nsExp, true
		}
	case nsExpSign:
		if digit {
			return nsExp, true
		}
	case nsExp:
		if digit {
			return nsExp, true
		}
	}
	return s, false
}

func (t *tokenizer) continueNumber(eof bool) (tokenEvent, bool, error) {
	start := t.pos
	for t.pos < len(t.buf) {
		next, ok := numberTransition(t.num, t.buf[t.pos])
		if !ok {
			break
		}
		t.num = next
		t.pos++
	}
	if t.pos > start {
		return tokenEvent{kind: evNumberChunk, text: string(t.buf[start:t.pos])}, true, nil
	}

	// No digits consumed this round: either buffered input ran out, or
	// the very next byte does not continue the number.
	if t.pos >= len(t.buf) {
		if !eof {
			return tokenEvent{}, false, nil
		}
		if !t.num.terminal() {
			return tokenEvent{}, false, unexpectedEOFf("truncated number")
		}
		t.active = leafNone
		t.afterValueClosed()
		return tokenEvent{kind: evNumberEnd}, true, nil
	}

	if t.num == nsZero && t.buf[t.pos] >= '0' && t.buf[t.pos] <= '9' {
		return tokenEvent{}, false, lexicalErrorf(t.offset(), "number has a leading zero")
	}
	if !t.num.terminal() {
		return tokenEvent{}, false, lexicalErrorf(t.offset(), "malformed number")
	}
	t.active = leafNone
	t.afterValueClosed()
	return tokenEvent{kind: evNumberEnd}, true, nil
}

// ---- strings ----

func (t *tokenizer) startString(isKey bool) (tokenEvent, bool, error) {
	t.pos++ // opening quote
	t.str = stringScan{isKey: isKey, sub: strPlain}
	t.active = leafString
	return tokenEvent{kind: evStringStart}, true, nil
}

func isHighSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDBFF }
func isLowSurrogate(r rune) bool  { return r >= 0xDC00 && r <= 0xDFFF }

func combineSurrogates(hi, lo rune) rune {
	return 0x10000 + (hi-0xD800)<<10 + (lo - 0xDC00)
}

func hexDigitValue(c byte) (uint32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return uint32(c-'A') + 10, true
	default:
		return 0, false
	}
}

func (t *tokenizer) finishString() (tokenEvent, bool, error) {
	t.active = leafNone
	// A key string does not itself complete a "value" in the
	// grammar sense until its colon and value follow, so only
	// transition the container state when this was a value string.
	if !t.str.isKey {
		t.afterValueClosed()
	} else if len(t.stack) > 0 {
		t.stack[len(t.stack)-1].state = fsObjColon
	}
	return tokenEvent{kind: evStringEnd}, true, nil
}

func (t *tokenizer) continueString(eof bool) (tokenEvent, bool, error) {
	for {
		switch t.str.sub {
		case strPlain:
			start := t.pos
			for t.pos < len(t.buf) && t.buf[t.pos] != '"' && t.buf[t.pos] != '\\' {
				t.pos++
			}
			if t.pos > start {
				return tokenEvent{kind: evStringChunk, text: string(t.buf[start:t.pos])}, true, nil
			}
			if t.pos >= len(t.buf) {
				if eof {
					return tokenEvent{}, false, unexpectedEOFf("unterminated string")
				}
				return tokenEvent{}, false, nil
			}
			if t.buf[t.pos] == '"' {
				t.pos++
				return t.finishString()
			}
			// backslash
			t.pos++
			t.str.sub = strEscChar
			continue

		case strEscChar:
			if t.pos >= len(t.buf) {
				if eof {
					return tokenEvent{}, false, unexpectedEOFf("unterminated escape sequence")
				}
				return tokenEvent{}, false, nil
			}
			c := t.buf[t.pos]
			t.pos++
			var decoded string
			switch c {
			case '"', '\\', '/':
				decoded = string(c)
			case 'b':
				decoded = "\b"
			case 'f':
				decoded = "\f"
			case 'n':
				decoded = "\n"
			case 'r':
				decoded = "\r"
			case 't':
				decoded = "\t"
			case 'u':
				t.str.sub = strUnicodeHex
				t.str.hexDigits = 0
				t.str.hexVal = 0
				continue
			default:
				return tokenEvent{}, false, lexicalErrorf(t.offset(), "invalid escape character %q", c)
			}
			t.str.sub = strPlain
			return tokenEvent{kind: evStringChunk, text: decoded}, true, nil

		case strUnicodeHex:
			for t.str.hexDigits < 4 {
				if t.pos >= len(t.buf) {
					if eof {
						return tokenEvent{}, false, unexpectedEOFf("truncated unicode escape")
					}
					return tokenEvent{}, false, nil
				}
				v, ok := hexDigitValue(t.buf[t.pos])
				if !ok {
					return tokenEvent{}, false, lexicalErrorf(t.offset(), "invalid hex digit %q in unicode escape", t.buf[t.pos])
				}
				t.str.hexVal = t.str.hexVal<<4 | v
				t.pos++
				t.str.hexDigits++
			}
			r := rune(t.str.hexVal)
			if t.str.pendingHigh != 0 {
				if !isLowSurrogate(r) {
					return tokenEvent{}, false, lexicalErrorf(t.offset(), "expected low surrogate, got \\u%04x", t.str.hexVal)
				}
				combined := combineSurrogates(t.str.pendingHigh, r)
				t.str.pendingHigh = 0
				t.str.sub = strPlain
				return tokenEvent{kind: evStringChunk, text: string(combined)}, true, nil
			}
			if isHighSurrogate(r) {
				t.str.pendingHigh = r
				t.str.sub = strAwaitSurrogateBackslash
				continue
			}
			if isLowSurrogate(r) {
				return tokenEvent{}, false, lexicalErrorf(t.offset(), "unexpected low surrogate \\u%04x", t.str.hexVal)
			}
			t.str.sub = strPlain
			return tokenEvent{kind: evStringChunk, text: string(r)}, true, nil

		case strAwaitSurrogateBackslash:
			if t.pos >= len(t.buf) {
				if eof {
					return tokenEvent{}, false, unexpectedEOFf("unpaired high surrogate")
				}
				return tokenEvent{}, false, nil
			}
			if t.buf[t.pos] != '\\' {
				return tokenEvent{}, false, lexicalErrorf(t.offset(), "unpaired high surrogate")
			}
			t.pos++
			t.str.sub = strAwaitSurrogateU
			continue

		case strAwaitSurrogateU:
			if t.pos >= len(t.buf) {
				if eof {
					return tokenEvent{}, false, unexpectedEOFf("unpaired high surrogate")
				}
				return tokenEvent{}, false, nil
			}
			if t.buf[t.pos] != 'u' {
				return tokenEvent{}, false, lexicalErrorf(t.offset(), "unpaired high surrogate")
			}
			t.pos++
			t.str.sub = strUnicodeHex
			t.str.hexDigits = 0
			t.str.hexVal = 0
			continue
		}
	}
}
