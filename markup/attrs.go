package markup

import (
	"fmt"
	"strings"
)

// ParseTag parses the interior of a tag, e.g. `div class="a b" id=x`, into a
// name and its attributes. Positions in the returned diagnostics and errors
// are byte offsets into interior.
func ParseTag(interior string) (*Tag, []Diagnostic, error) {
	return parseTag(interior, 0)
}

// ParseAttrs parses the attribute section of a tag: the text following the
// tag name up to, but not including, the terminator.
//
// Attributes are separated by spaces and written key=value. A value is either
// double-quoted, in which case the quotes are kept as part of the value, or
// runs to the next space. A key without "=" or an "=" without a value is an
// *AttrError. A repeated key yields a warning and the first occurrence wins.
// A separator other than a single space is kept in Attr.Space.
func ParseAttrs(s string) ([]Attr, []Diagnostic, error) {
	p := attrParser{src: s}
	if err := p.parse(); err != nil {
		return nil, p.diags, err
	}
	if p.selfClosing {
		return nil, p.diags, p.errorf(len(s)-1, "/", "missing '=' in attribute %q", "/")
	}
	return p.attrs, p.diags, nil
}

func parseTag(interior string, base int) (*Tag, []Diagnostic, error) {
	name, _, _ := strings.Cut(interior, " ")
	if name == "" {
		return nil, nil, &AttrError{
			ParseError: ParseError{Message: "missing tag name", Pos: Position{Offset: base}},
		}
	}
	p := attrParser{src: interior[len(name):], base: base + len(name)}
	if err := p.parse(); err != nil {
		return nil, p.diags, err
	}
	return &Tag{
		Name:        name,
		Attrs:       p.attrs,
		SelfClosing: p.selfClosing,
		SlashSpace:  p.slashSpace,
		Trailing:    p.trailing,
	}, p.diags, nil
}

type attrParser struct {
	src         string
	pos         int
	base        int // offset of src within the enclosing source
	attrs       []Attr
	diags       []Diagnostic
	selfClosing bool
	slashSpace  string
	trailing    string // spaces before the terminator
}

func (p *attrParser) atEnd() bool {
	return p.pos >= len(p.src)
}

func (p *attrParser) has(key string) bool {
	for _, a := range p.attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

func (p *attrParser) errorf(at int, attr, format string, args ...any) *AttrError {
	return &AttrError{
		ParseError: ParseError{
			Message: fmt.Sprintf(format, args...),
			Pos:     Position{Offset: p.base + at},
		},
		Attr: attr,
	}
}

// segmentEnd returns the offset of the next space at or after from.
func (p *attrParser) segmentEnd(from int) int {
	if i := strings.IndexByte(p.src[from:], ' '); i >= 0 {
		return from + i
	}
	return len(p.src)
}

func (p *attrParser) parse() error {
	for !p.atEnd() {
		from := p.pos
		for !p.atEnd() && p.src[p.pos] == ' ' {
			p.pos++
		}
		space := p.src[from:p.pos]
		if p.atEnd() {
			p.trailing = space
			return nil
		}
		if space == " " {
			space = ""
		}
		if err := p.parseAttr(space); err != nil {
			return err
		}
	}
	return nil
}

func (p *attrParser) parseAttr(space string) error {
	start := p.pos
	end := p.segmentEnd(start)
	eq := strings.IndexByte(p.src[start:end], '=')
	if eq < 0 {
		segment := p.src[start:end]
		if segment == "/" && end == len(p.src) {
			p.selfClosing = true
			p.slashSpace = space
			p.pos = end
			return nil
		}
		return p.errorf(start, segment, "missing '=' in attribute %q", segment)
	}
	key := p.src[start : start+eq]
	if key == "" {
		return p.errorf(start, p.src[start:end], "attribute %q has no key", p.src[start:end])
	}

	p.pos = start + eq + 1
	if p.atEnd() || p.src[p.pos] == ' ' {
		return p.errorf(start, key+"=", "attribute %q has no value", key)
	}

	var value string
	if p.src[p.pos] == '"' {
		closing := strings.IndexByte(p.src[p.pos+1:], '"')
		if closing < 0 {
			return p.errorf(start, p.src[start:], "unterminated quoted value for attribute %q", key)
		}
		valueEnd := p.pos + 1 + closing + 1
		value = p.src[p.pos:valueEnd]
		p.pos = valueEnd
		if !p.atEnd() && p.src[p.pos] != ' ' {
			return p.errorf(start, p.src[start:p.segmentEnd(p.pos)], "expected ' ' after quoted value of attribute %q", key)
		}
	} else {
		valueEnd := p.segmentEnd(p.pos)
		value = p.src[p.pos:valueEnd]
		p.pos = valueEnd
	}

	if p.has(key) {
		p.diags = append(p.diags, Diagnostic{
			Rule:     RuleDuplicateAttr,
			Severity: Warning,
			Message:  fmt.Sprintf("duplicate attribute %q, keeping the first value", key),
			Pos:      Position{Offset: p.base + start},
		})
		return nil
	}
	p.attrs = append(p.attrs, Attr{Key: key, Value: value, Space: space})
	return nil
}
