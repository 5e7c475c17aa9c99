// Package markup implements the tokenizer and document model for the linked
// HTML dialect.
//
// A source document is scanned into a flat sequence of nodes: text, comments,
// doctype declarations and tags. No nesting or auto-closing is performed; the
// sequence is exactly what appears in the source, so serializing a document
// that contains no macros reproduces the input byte for byte.
//
// Macros are written inside comments with a leading question mark:
//
//	<!--?include link="partials/header.html"-->
//
// A macro that parses cleanly becomes a custom tag node. A macro whose
// attributes are malformed degrades to a custom comment and is emitted back
// unchanged, since it is still a legal HTML comment. Ordinary tags with
// malformed attributes abort parsing.
//
// Usage:
//
//	doc, diags, err := markup.Parse(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range diags {
//	    log.Println(d)
//	}
//	fmt.Print(doc)
package markup
