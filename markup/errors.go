package markup

import "fmt"

// ParseError is the base error type for all markup errors.
type ParseError struct {
	Message string
	Pos     Position
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	return e.Message
}

// SyntaxError reports a construct that was opened but never terminated.
type SyntaxError struct {
	ParseError
	Expected string // missing terminator, e.g. "-->"
	Opener   string // construct that was left open, e.g. "<!--"
}

func (e *SyntaxError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: expected %s for %s, found end of input", e.Pos.Line, e.Pos.Column, e.Expected, e.Opener)
	}
	return fmt.Sprintf("expected %s for %s, found end of input", e.Expected, e.Opener)
}

// AttrError represents a malformed attribute list (missing separator or value).
type AttrError struct {
	ParseError
	Attr string // offending attribute text
}
