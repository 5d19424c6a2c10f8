package toon

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Decode parses a complete TOON document into a Value.
func Decode(text string) (*Value, error) {
	p := newParser(text)
	return p.parseDocument()
}

// DecodeBytes is like Decode but takes a byte slice.
func DecodeBytes(data []byte) (*Value, error) {
	return Decode(string(data))
}

type parser struct {
	input string
	pos   int
	line  int
	col   int
}

func newParser(input string) *parser {
	p := &parser{input: input, line: 1, col: 1}
	if r, size := utf8.DecodeRuneInString(input); r == '\uFEFF' {
		p.pos = size
	}
	return p
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	return r, true
}

func (p *parser) is(want rune) bool {
	r, ok := p.peek()
	return ok && r == want
}

func (p *parser) next() {
	if p.pos >= len(p.input) {
		return
	}
	r, size := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) skipWhitespace() {
	for {
		r, ok := p.peek()
		if !ok || !isWhitespace(r) {
			return
		}
		p.next()
	}
}

func (p *parser) skipInlineSpace() {
	for {
		r, ok := p.peek()
		if !ok || (r != ' ' && r != '\t') {
			return
		}
		p.next()
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Line: p.line, Column: p.col}
}

func (p *parser) unexpected(context string) error {
	r, ok := p.peek()
	if !ok {
		if context == "" {
			return p.errorf("unexpected end of input")
		}
		return p.errorf("unexpected end of input while parsing %s", context)
	}
	if context == "" {
		return p.errorf("unexpected character '%c'", r)
	}
	return p.errorf("unexpected character '%c' while parsing %s", r, context)
}

// parseDocument parses exactly one value, optionally written as a
// brace-less top-level object, and rejects trailing content.
func (p *parser) parseDocument() (*Value, error) {
	p.skipWhitespace()

	var (
		v   *Value
		err error
	)
	if p.atKeyLine() {
		v, err = p.parseDocumentObject()
	} else {
		v, err = p.parseValue()
	}
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	if r, ok := p.peek(); ok {
		return nil, p.errorf("unexpected trailing character '%c'", r)
	}
	return v, nil
}

func (p *parser) parseDocumentObject() (*Value, error) {
	obj := NewObject()
	for {
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if !p.is(':') {
			return nil, p.errorf("expected ':' after key")
		}
		p.next()

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)

		p.skipWhitespace()
		if _, ok := p.peek(); !ok {
			return ObjectValue(obj), nil
		}
	}
}

// atKeyLine reports whether the input continues with `key:`. The cursor is
// left untouched.
func (p *parser) atKeyLine() bool {
	saved := *p
	defer func() { *p = saved }()

	r, ok := p.peek()
	if !ok || (r != '"' && !isIdentStart(r)) {
		return false
	}
	if _, err := p.parseKey(); err != nil {
		return false
	}
	p.skipInlineSpace()
	return p.is(':')
}

func (p *parser) parseValue() (*Value, error) {
	p.skipWhitespace()

	r, ok := p.peek()
	switch {
	case !ok:
		return nil, p.unexpected("")
	case r == '{':
		return p.parseObject()
	case r == '[':
		return p.parseArray()
	case r == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return Str(s), nil
	case r == '-' || isASCIIDigit(r):
		return p.parseNumber()
	case isIdentStart(r):
		return classifyIdent(p.scanIdent()), nil
	default:
		return nil, p.errorf("unexpected character '%c'", r)
	}
}

func (p *parser) parseObject() (*Value, error) {
	p.next() // '{'
	obj := NewObject()

	p.skipWhitespace()
	if p.is('}') {
		p.next()
		return ObjectValue(obj), nil
	}

	for {
		p.skipWhitespace()
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}

		p.skipWhitespace()
		if !p.is(':') {
			if _, ok := p.peek(); !ok {
				return nil, p.unexpected("object")
			}
			return nil, p.errorf("expected ':' after key")
		}
		p.next()

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)

		p.skipWhitespace()
		r, ok := p.peek()
		switch {
		case !ok:
			return nil, p.unexpected("object")
		case r == ',':
			p.next()
		case r == '}':
			p.next()
			return ObjectValue(obj), nil
		default:
			return nil, p.errorf("expected ',' or '}', found '%c'", r)
		}
	}
}

// parseKey reads an object key. Bare keys are taken literally, so `true`
// is the key "true" rather than a boolean.
func (p *parser) parseKey() (string, error) {
	r, ok := p.peek()
	switch {
	case !ok:
		return "", p.unexpected("object")
	case r == '"':
		return p.parseString()
	case isIdentStart(r):
		return p.scanIdent(), nil
	default:
		return "", p.errorf("expected string or identifier, found '%c'", r)
	}
}

func (p *parser) parseArray() (*Value, error) {
	p.next() // '['
	items := []*Value{}

	p.skipWhitespace()
	if p.is(']') {
		p.next()
		return Array(items...), nil
	}

	for {
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, val)

		p.skipWhitespace()
		r, ok := p.peek()
		switch {
		case !ok:
			return nil, p.unexpected("array")
		case r == ',':
			p.next()
		case r == ']':
			p.next()
			return p.maybeTable(items)
		default:
			return nil, p.errorf("expected ',' or ']', found '%c'", r)
		}
	}
}

// maybeTable turns a header array into a table when rows follow it on
// the next lines. items is returned as a plain array otherwise.
func (p *parser) maybeTable(items []*Value) (*Value, error) {
	header := make([]string, len(items))
	for i, item := range items {
		s, ok := item.AsStr()
		if !ok {
			return Array(items...), nil
		}
		header[i] = s
	}

	var rows []*Value
	for p.rowAhead() {
		p.skipWhitespace()
		row, err := p.parseRow(header)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if rows == nil {
		return Array(items...), nil
	}
	return Array(rows...), nil
}

// rowAhead reports whether a table row starts on a later line.
func (p *parser) rowAhead() bool {
	saved := *p
	defer func() { *p = saved }()

	line := p.line
	p.skipWhitespace()
	if p.line == line {
		return false
	}
	r, ok := p.peek()
	if !ok || r == ',' || r == ']' || r == '}' {
		return false
	}
	return !p.atKeyLine()
}

func (p *parser) parseRow(header []string) (*Value, error) {
	row := NewObject()
	for i, field := range header {
		if i > 0 {
			p.skipInlineSpace()
			r, ok := p.peek()
			if !ok {
				return nil, p.unexpected("table row")
			}
			if r != ',' {
				return nil, p.errorf("table row has fewer values than header (%d)", len(header))
			}
			p.next()
			p.skipInlineSpace()
			if r, ok := p.peek(); ok && (r == '\n' || r == '\r') {
				return nil, p.errorf("table row has fewer values than header (%d)", len(header))
			}
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		row.Set(field, val)
	}
	return ObjectValue(row), nil
}

// parseString reads a quoted string, resolving escape sequences.
func (p *parser) parseString() (string, error) {
	p.next() // opening quote
	var buf []byte
	for {
		r, ok := p.peek()
		if !ok {
			return "", p.unexpected("string")
		}
		switch r {
		case '"':
			p.next()
			return string(buf), nil
		case '\\':
			if escapeCutOff(p.input, p.pos) {
				for p.pos < len(p.input) {
					p.next()
				}
				return "", p.unexpected("string")
			}
			esc, n, err := unescapeAt(p.input, p.pos)
			if err != nil {
				if errors.Is(err, ErrInvalidFormat) {
					p.next()
					c, _ := p.peek()
					return "", p.errorf("invalid escape sequence '\\%c'", c)
				}
				return "", fmt.Errorf("%w at line %d, column %d", err, p.line, p.col)
			}
			buf = utf8.AppendRune(buf, esc)
			for i := 0; i < n; i++ {
				p.next()
			}
		default:
			buf = utf8.AppendRune(buf, r)
			p.next()
		}
	}
}

// escapeCutOff reports whether the escape sequence at the backslash s[i]
// runs into the end of input before it is complete.
func escapeCutOff(s string, i int) bool {
	if i+1 >= len(s) {
		return true
	}
	var digits int
	switch s[i+1] {
	case 'u':
		digits = 4
	case 'U':
		digits = 8
	default:
		return false
	}
	rest := s[i+2:]
	n := 0
	for n < len(rest) && n < digits && isHexDigit(rest[n]) {
		n++
	}
	if n < digits {
		return n == len(rest)
	}
	if digits == 8 {
		return false
	}

	// A high surrogate must be followed by a \uXXXX low half.
	if hi, err := strconv.ParseUint(rest[:4], 16, 32); err != nil || hi < 0xD800 || hi >= 0xDC00 {
		return false
	}
	tail := rest[4:]
	if len(tail) >= 6 {
		return false
	}
	if tail == "" || tail == `\` {
		return true
	}
	if !strings.HasPrefix(tail, `\u`) {
		return false
	}
	for j := 2; j < len(tail); j++ {
		if !isHexDigit(tail[j]) {
			return false
		}
	}
	return true
}

func (p *parser) parseNumber() (*Value, error) {
	start := p.pos
	line, col := p.line, p.col
	isFloat := false

	if p.is('-') {
		p.next()
	}
	p.skipDigits()

	if p.is('.') {
		isFloat = true
		p.next()
		if p.skipDigits() == 0 {
			return nil, p.errorf("expected digit after decimal point")
		}
	}

	if p.is('e') || p.is('E') {
		isFloat = true
		p.next()
		if p.is('+') || p.is('-') {
			p.next()
		}
		if p.skipDigits() == 0 {
			return nil, p.errorf("expected digit in exponent")
		}
	}

	lit := p.input[start:p.pos]
	if !isFloat {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Number(float64(n)), nil
		}
	}
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, fmt.Errorf("%w: invalid number %q at line %d, column %d", ErrDeserialization, lit, line, col)
	}
	return Number(n), nil
}

func (p *parser) skipDigits() int {
	n := 0
	for {
		r, ok := p.peek()
		if !ok || !isASCIIDigit(r) {
			return n
		}
		p.next()
		n++
	}
}

// scanIdent consumes an identifier-start rune followed by any number of
// identifier-continue runes.
func (p *parser) scanIdent() string {
	start := p.pos
	p.next()
	for {
		r, ok := p.peek()
		if !ok || !isIdentContinue(r) {
			return p.input[start:p.pos]
		}
		p.next()
	}
}

// classifyIdent maps a bare identifier in value position to a literal or
// an unquoted string.
func classifyIdent(ident string) *Value {
	switch ident {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null":
		return Null()
	}
	return Str(ident)
}

func isASCIIDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
