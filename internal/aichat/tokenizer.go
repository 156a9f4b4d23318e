package aichat

import "fmt"

const maxNestingDepth = 10000

// container kinds on the tokenizer stack
const (
	inObjectKey byte = iota
	inObjectValue
	inArrayValue
)

// SyntaxError reports the first byte the tokenizer could not accept.
type SyntaxError struct {
	Offset int64
	msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.msg, e.Offset)
}

// tokenizer is a push-style JSON syntax checker. Bytes are fed in arbitrary
// chunks; it reports a syntax error as soon as one is seen and reports the
// value complete once a whole top-level value has been consumed. Anything
// other than whitespace after that value is an error.
type tokenizer struct {
	step   func(c byte) error
	stack  []byte
	offset int64
	done   bool
	err    error

	literal string // bytes still expected of true/false/null
	hex     int    // hex digits still expected of a \u escape
}

func newTokenizer() *tokenizer {
	t := &tokenizer{}
	t.step = t.beginValue
	return t
}

// Feed advances the tokenizer over chunk. Once an error has been returned the
// tokenizer stays failed.
func (t *tokenizer) Feed(chunk []byte) error {
	if t.err != nil {
		return t.err
	}
	for _, c := range chunk {
		if err := t.step(c); err != nil {
			t.err = err
			return err
		}
		t.offset++
	}
	return nil
}

// Complete reports whether a full top-level value has been read.
func (t *tokenizer) Complete() bool {
	return t.done && t.err == nil
}

func (t *tokenizer) fail(c byte, context string) error {
	return &SyntaxError{Offset: t.offset, msg: fmt.Sprintf("invalid character %q %s", c, context)}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func (t *tokenizer) push(kind byte) error {
	if len(t.stack) >= maxNestingDepth {
		return &SyntaxError{Offset: t.offset, msg: "exceeded max nesting depth"}
	}
	t.stack = append(t.stack, kind)
	return nil
}

// endValue is called right after the last byte of a value was consumed.
func (t *tokenizer) endValue() {
	if len(t.stack) == 0 {
		t.done = true
		t.step = t.afterTopLevel
		return
	}
	t.step = t.afterValue
}

func (t *tokenizer) beginValue(c byte) error {
	if isSpace(c) {
		return nil
	}
	switch {
	case c == '{':
		t.step = t.beginKeyOrEnd
		return t.push(inObjectKey)
	case c == '[':
		t.step = t.beginValueOrEnd
		return t.push(inArrayValue)
	case c == '"':
		t.step = t.inString
	case c == '-':
		t.step = t.afterMinus
	case c == '0':
		t.step = t.afterZero
	case '1' <= c && c <= '9':
		t.step = t.inInteger
	case c == 't':
		t.expectLiteral("rue")
	case c == 'f':
		t.expectLiteral("alse")
	case c == 'n':
		t.expectLiteral("ull")
	default:
		return t.fail(c, "looking for beginning of value")
	}
	return nil
}

func (t *tokenizer) beginKeyOrEnd(c byte) error {
	if isSpace(c) {
		return nil
	}
	if c == '}' {
		t.stack = t.stack[:len(t.stack)-1]
		t.endValue()
		return nil
	}
	return t.beginKey(c)
}

func (t *tokenizer) beginKey(c byte) error {
	if isSpace(c) {
		return nil
	}
	if c != '"' {
		return t.fail(c, "looking for beginning of object key string")
	}
	t.step = t.inString
	return nil
}

func (t *tokenizer) beginValueOrEnd(c byte) error {
	if isSpace(c) {
		return nil
	}
	if c == ']' {
		t.stack = t.stack[:len(t.stack)-1]
		t.endValue()
		return nil
	}
	return t.beginValue(c)
}

func (t *tokenizer) afterValue(c byte) error {
	if isSpace(c) {
		return nil
	}
	top := len(t.stack) - 1
	switch t.stack[top] {
	case inObjectKey:
		if c == ':' {
			t.stack[top] = inObjectValue
			t.step = t.beginValue
			return nil
		}
		return t.fail(c, "after object key")
	case inObjectValue:
		switch c {
		case ',':
			t.stack[top] = inObjectKey
			t.step = t.beginKey
			return nil
		case '}':
			t.stack = t.stack[:top]
			t.endValue()
			return nil
		}
		return t.fail(c, "after object key:value pair")
	default:
		switch c {
		case ',':
			t.step = t.beginValue
			return nil
		case ']':
			t.stack = t.stack[:top]
			t.endValue()
			return nil
		}
		return t.fail(c, "after array element")
	}
}

func (t *tokenizer) afterTopLevel(c byte) error {
	if isSpace(c) {
		return nil
	}
	return t.fail(c, "after top-level value")
}

func (t *tokenizer) inString(c byte) error {
	switch {
	case c == '"':
		t.endValue()
	case c == '\\':
		t.step = t.inEscape
	case c < 0x20:
		return t.fail(c, "in string literal")
	}
	return nil
}

func (t *tokenizer) inEscape(c byte) error {
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		t.step = t.inString
	case 'u':
		t.hex = 4
		t.step = t.inUnicodeEscape
	default:
		return t.fail(c, "in string escape code")
	}
	return nil
}

func (t *tokenizer) inUnicodeEscape(c byte) error {
	if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
		return t.fail(c, "in \\u hexadecimal character escape")
	}
	t.hex--
	if t.hex == 0 {
		t.step = t.inString
	}
	return nil
}

func (t *tokenizer) afterMinus(c byte) error {
	switch {
	case c == '0':
		t.step = t.afterZero
	case '1' <= c && c <= '9':
		t.step = t.inInteger
	default:
		return t.fail(c, "in numeric literal")
	}
	return nil
}

func (t *tokenizer) inInteger(c byte) error {
	if '0' <= c && c <= '9' {
		return nil
	}
	return t.afterZero(c)
}

// afterZero handles the byte following the integer part of a number. A number
// has no closing delimiter, so the byte that ends it is handed on to the next
// state.
func (t *tokenizer) afterZero(c byte) error {
	switch c {
	case '.':
		t.step = t.afterDot
		return nil
	case 'e', 'E':
		t.step = t.afterExponentMark
		return nil
	}
	return t.endNumber(c)
}

func (t *tokenizer) afterDot(c byte) error {
	if '0' <= c && c <= '9' {
		t.step = t.inFraction
		return nil
	}
	return t.fail(c, "after decimal point in numeric literal")
}

func (t *tokenizer) inFraction(c byte) error {
	switch {
	case '0' <= c && c <= '9':
		return nil
	case c == 'e' || c == 'E':
		t.step = t.afterExponentMark
		return nil
	}
	return t.endNumber(c)
}

func (t *tokenizer) afterExponentMark(c byte) error {
	if c == '+' || c == '-' {
		t.step = t.afterExponentSign
		return nil
	}
	return t.afterExponentSign(c)
}

func (t *tokenizer) afterExponentSign(c byte) error {
	if '0' <= c && c <= '9' {
		t.step = t.inExponent
		return nil
	}
	return t.fail(c, "in exponent of numeric literal")
}

func (t *tokenizer) inExponent(c byte) error {
	if '0' <= c && c <= '9' {
		return nil
	}
	return t.endNumber(c)
}

func (t *tokenizer) endNumber(c byte) error {
	t.endValue()
	return t.step(c)
}

func (t *tokenizer) expectLiteral(rest string) {
	t.literal = rest
	t.step = t.inLiteral
}

func (t *tokenizer) inLiteral(c byte) error {
	if c != t.literal[0] {
		return t.fail(c, "in literal")
	}
	t.literal = t.literal[1:]
	if t.literal == "" {
		t.endValue()
	}
	return nil
}
