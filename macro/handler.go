package macro

import "github.com/binarykiy/LinkedHTMLCompiler/markup"

// Handler expands one kind of macro.
//
// Expand receives a copy of the macro's tag. It returns the document that
// replaces the macro, or nil to have the macro replaced by the ?error
// sentinel. A non-nil error aborts the whole compilation; handlers report
// recoverable problems through Compiler.Report and return nil, nil instead.
type Handler interface {
	Expand(c *Compiler, tag markup.Tag) (*markup.Document, error)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(c *Compiler, tag markup.Tag) (*markup.Document, error)

// Expand calls f(c, tag).
func (f HandlerFunc) Expand(c *Compiler, tag markup.Tag) (*markup.Document, error) {
	return f(c, tag)
}
