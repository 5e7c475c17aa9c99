package markup

import (
	"errors"
	"fmt"
	"strings"
)

const (
	customPrefix  = "!--?"
	commentPrefix = "!--"
	doctypePrefix = "!"
	commentEnd    = "-->"
	tagEnd        = ">"
)

// Parse tokenizes src into a Document.
// Returns a *SyntaxError for an unterminated comment, doctype or tag and an
// *AttrError for a plain tag with malformed attributes. Malformed macros are
// not errors: they become custom comments and a warning is reported.
func Parse(src string) (*Document, []Diagnostic, error) {
	t := &tokenizer{src: src, cursor: Position{Line: 1, Column: 1}}
	if err := t.run(); err != nil {
		return nil, t.diags, err
	}
	return &Document{Nodes: t.nodes}, t.diags, nil
}

type tokenizer struct {
	src    string
	pos    int
	nodes  []Node
	diags  []Diagnostic
	cursor Position // last located position, reused to keep locate linear
}

// locate converts a byte offset into a line/column position.
func (t *tokenizer) locate(offset int) Position {
	if offset < t.cursor.Offset {
		t.cursor = Position{Line: 1, Column: 1}
	}
	for i := t.cursor.Offset; i < offset && i < len(t.src); i++ {
		if t.src[i] == '\n' {
			t.cursor.Line++
			t.cursor.Column = 1
		} else {
			t.cursor.Column++
		}
	}
	t.cursor.Offset = offset
	return t.cursor
}

func (t *tokenizer) emit(n Node, offset int) {
	n.Pos = t.locate(offset)
	t.nodes = append(t.nodes, n)
}

func (t *tokenizer) warn(diags []Diagnostic) {
	for _, d := range diags {
		d.Pos = t.locate(d.Pos.Offset)
		t.diags = append(t.diags, d)
	}
}

// until returns the text between from and the next occurrence of term, and
// advances past term. ok is false when term does not occur.
func (t *tokenizer) until(from int, term string) (body string, ok bool) {
	i := strings.Index(t.src[from:], term)
	if i < 0 {
		return "", false
	}
	body = t.src[from : from+i]
	t.pos = from + i + len(term)
	return body, true
}

func (t *tokenizer) unterminated(start int, opener, expected string) error {
	return &SyntaxError{
		ParseError: ParseError{
			Message: fmt.Sprintf("expected %s for %s", expected, opener),
			Pos:     t.locate(start),
		},
		Expected: expected,
		Opener:   opener,
	}
}

func (t *tokenizer) run() error {
	for t.pos < len(t.src) {
		lt := strings.IndexByte(t.src[t.pos:], '<')
		if lt < 0 {
			t.emit(TextNode(t.src[t.pos:]), t.pos)
			t.pos = len(t.src)
			break
		}
		if lt > 0 {
			t.emit(TextNode(t.src[t.pos:t.pos+lt]), t.pos)
		}
		start := t.pos + lt
		rest := t.src[start+1:]

		var err error
		switch {
		case strings.HasPrefix(rest, customPrefix):
			err = t.scanCustom(start)
		case strings.HasPrefix(rest, commentPrefix):
			err = t.scanComment(start)
		case strings.HasPrefix(rest, doctypePrefix):
			err = t.scanDocType(start)
		default:
			err = t.scanTag(start)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *tokenizer) scanCustom(start int) error {
	from := start + 1 + len(customPrefix)
	interior, ok := t.until(from, commentEnd)
	if !ok {
		return t.unterminated(start, "<"+customPrefix, commentEnd)
	}
	tag, diags, err := parseTag(interior, from)
	if err != nil {
		// A broken macro is still a legal comment, so it is kept verbatim.
		msg := err.Error()
		var ae *AttrError
		if errors.As(err, &ae) {
			msg = ae.Message
		}
		t.warn([]Diagnostic{{
			Rule:     RuleMalformedMacro,
			Severity: Warning,
			Message:  fmt.Sprintf("macro %q kept as a comment: %s", interior, msg),
			Pos:      Position{Offset: start},
		}})
		t.emit(Node{Kind: NodeCustomComment, Text: interior}, start)
		return nil
	}
	t.emit(Node{Kind: NodeCustomTag, Tag: tag}, start)
	t.warn(diags)
	return nil
}

func (t *tokenizer) scanComment(start int) error {
	comment, ok := t.until(start+1+len(commentPrefix), commentEnd)
	if !ok {
		return t.unterminated(start, "<"+commentPrefix, commentEnd)
	}
	t.emit(CommentNode(comment), start)
	return nil
}

func (t *tokenizer) scanDocType(start int) error {
	docType, ok := t.until(start+1+len(doctypePrefix), tagEnd)
	if !ok {
		return t.unterminated(start, "<"+doctypePrefix, tagEnd)
	}
	t.emit(Node{Kind: NodeDocType, Text: docType}, start)
	return nil
}

func (t *tokenizer) scanTag(start int) error {
	from := start + 1
	interior, ok := t.until(from, tagEnd)
	if !ok {
		return t.unterminated(start, "<", tagEnd)
	}
	tag, diags, err := parseTag(interior, from)
	if err != nil {
		var ae *AttrError
		if errors.As(err, &ae) {
			ae.Pos = t.locate(ae.Pos.Offset)
		}
		return err
	}
	t.emit(Node{Kind: NodeTag, Tag: tag}, start)
	t.warn(diags)
	return nil
}
