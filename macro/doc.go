// Package macro expands the custom tags of a parsed markup document.
//
// A Compiler owns everything one compilation run needs: the root directory
// that every include link is resolved against, the FileCache shared by all
// includes, the Registry that maps macro names to Handlers, and the
// diagnostics collected along the way. Expansion is depth-first: a handler
// may parse another file and resolve its macros before returning, so nesting
// is limited only by the configured maximum depth. Self-referential includes
// are detected and replaced by the ?error sentinel.
//
// Usage:
//
//	c, err := macro.New("site/index.html", macro.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	doc, err := c.Compile()
//	if err != nil {
//	    return err
//	}
//	fmt.Print(doc)
package macro
