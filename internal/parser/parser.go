package parser

import (
	"fmt"
	"strings"

	"github.com/tjun/sortdebug/internal/value"
)

// Error describes where the structural-debug text stopped making sense.
type Error struct {
	Offset int    // byte offset into the input
	Msg    string // what went wrong
	Rest   string // unparsed remainder of the input
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d\nRest:\n%q", e.Msg, e.Offset, e.Rest)
}

// Parse parses a structural-debug rendering, either the compact one-line
// form or the indented multi-line form, into a value tree.
// The whole input must be consumed.
func Parse(input string) (value.Value, error) {
	p := &debugParser{src: input}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("failed to consume all of input")
	}
	return v, nil
}

type debugParser struct {
	src string
	pos int
}

func (p *debugParser) eof() bool { return p.pos >= len(p.src) }

func (p *debugParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *debugParser) skipSpace() {
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *debugParser) errorf(format string, args ...any) *Error {
	return &Error{
		Offset: p.pos,
		Msg:    fmt.Sprintf(format, args...),
		Rest:   p.src[min(p.pos, len(p.src)):],
	}
}

func (p *debugParser) parseValue() (value.Value, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}

	switch c := p.peek(); c {
	case '[':
		p.pos++
		values, err := p.parseElements(']')
		if err != nil {
			return nil, err
		}
		return &value.List{Values: values}, nil
	case '(':
		return p.parseTuple("")
	case '{':
		return p.parseSetOrMap()
	case ']', ')', '}', ',', ':':
		return nil, p.errorf("unexpected %q", c)
	}

	tok, err := p.scanTerm()
	if err != nil {
		return nil, err
	}
	if isName(tok) {
		if p.peek() == '(' {
			return p.parseTuple(tok)
		}
		save := p.pos
		p.skipSpace()
		if p.peek() == '{' {
			return p.parseStruct(tok)
		}
		p.pos = save
	}
	return &value.Term{Text: tok}, nil
}

// parseElements parses comma-separated values up to and including close.
// A trailing comma is allowed.
func (p *debugParser) parseElements(close byte) ([]value.Value, error) {
	var values []value.Value
	for {
		p.skipSpace()
		if p.peek() == close {
			p.pos++
			return values, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if err := p.separator(close); err != nil {
			return nil, err
		}
	}
}

// separator consumes a ',' or leaves the closing delimiter for the caller.
func (p *debugParser) separator(close byte) error {
	p.skipSpace()
	switch p.peek() {
	case ',':
		p.pos++
		return nil
	case close:
		return nil
	}
	if p.eof() {
		return p.errorf("unexpected end of input, expected ',' or %q", close)
	}
	return p.errorf("expected ',' or %q", close)
}

func (p *debugParser) parseTuple(name string) (value.Value, error) {
	p.pos++ // '('
	values, err := p.parseElements(')')
	if err != nil {
		return nil, err
	}
	return &value.Tuple{Name: name, Values: values}, nil
}

// parseSetOrMap decides between a set and a map from the first element:
// a map key is followed by ':'. An empty "{}" is read as an empty map.
func (p *debugParser) parseSetOrMap() (value.Value, error) {
	p.pos++ // '{'
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return &value.Map{}, nil
	}

	first, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != ':' {
		set := &value.Set{Values: []value.Value{first}}
		if err := p.separator('}'); err != nil {
			return nil, err
		}
		rest, err := p.parseElements('}')
		if err != nil {
			return nil, err
		}
		set.Values = append(set.Values, rest...)
		return set, nil
	}

	m := &value.Map{}
	key := first
	for {
		p.pos++ // ':'
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, value.Entry{Key: key, Value: val})
		if err := p.separator('}'); err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return m, nil
		}
		if key, err = p.parseValue(); err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after map key")
		}
	}
}

func (p *debugParser) parseStruct(name string) (value.Value, error) {
	p.pos++ // '{'
	s := &value.Struct{Name: name}
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			// A record without fields renders as its bare name, so an
			// empty body is the multi-line form of "Name { .. }".
			if len(s.Fields) == 0 {
				s.Fields = append(s.Fields, value.RestMarker())
			}
			return s, nil
		}
		if strings.HasPrefix(p.src[p.pos:], "..") {
			p.pos += 2
			s.Fields = append(s.Fields, value.RestMarker())
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				p.skipSpace()
			}
			if p.peek() != '}' {
				return nil, p.errorf("expected '}' after \"..\"")
			}
			p.pos++
			return s, nil
		}

		label := p.scanIdent()
		if label == "" {
			return nil, p.errorf("expected field name in %s", name)
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after field %s", label)
		}
		p.pos++
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, value.Field{Name: label, Value: v})
		if err := p.separator('}'); err != nil {
			return nil, err
		}
	}
}

// scanTerm reads one literal token: a quoted string or char, or a run of
// characters up to whitespace, a delimiter, or a ':' that separates a key.
func (p *debugParser) scanTerm() (string, error) {
	start := p.pos
	if q := p.peek(); q == '"' || q == '\'' {
		p.pos++
		for !p.eof() {
			switch p.src[p.pos] {
			case '\\':
				p.pos += 2
				continue
			case q:
				p.pos++
				return p.src[start:p.pos], nil
			}
			p.pos++
		}
		p.pos = start
		return "", p.errorf("unterminated quoted literal")
	}

	for !p.eof() {
		c := p.src[p.pos]
		if isSpace(c) || isDelim(c) {
			break
		}
		if c == ':' && (p.pos+1 == len(p.src) || isSpace(p.src[p.pos+1])) {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected a value")
	}
	return p.src[start:p.pos], nil
}

func (p *debugParser) scanIdent() string {
	start := p.pos
	for !p.eof() && isIdentByte(p.src[p.pos], p.pos == start) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelim(c byte) bool {
	switch c {
	case ',', '{', '}', '[', ']', '(', ')':
		return true
	}
	return false
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= 0x80:
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

// isName reports whether a term may name a struct or tuple: an identifier,
// optionally qualified with '.' or "::".
func isName(s string) bool {
	if s == "" || !isIdentByte(s[0], true) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if c := s[i]; !isIdentByte(c, false) && c != '.' && c != ':' {
			return false
		}
	}
	return true
}
