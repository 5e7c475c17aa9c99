package macro

import "github.com/binarykiy/LinkedHTMLCompiler/markup"

// IncludeMacro is the name of the built-in include macro.
const IncludeMacro = "include"

// IncludeHandler splices another file into the document:
//
//	<!--?include link="partials/nav.html"-->
//
// The link is resolved against the root directory of the compilation, not the
// directory of the including file. The linked file is parsed and its own
// macros are expanded before it is spliced in. If it has a <body> ... </body>
// pair only the nodes strictly between the two markers are kept; a file
// without body markers is used whole.
type IncludeHandler struct{}

// Expand implements Handler.
func (h *IncludeHandler) Expand(c *Compiler, tag markup.Tag) (*markup.Document, error) {
	raw, ok := tag.Take("link")
	if !ok {
		c.reportf(markup.Error, RuleMissingLink, "include requires a link attribute")
		c.events.Emit(IncludeFailedEvent("", "missing link"))
		return nil, nil
	}
	for _, key := range tag.Keys() {
		c.reportf(markup.Warning, RuleUnusedAttr, "attribute %q has no effect on include", key)
	}

	link := markup.Unquote(raw)
	path, err := Canonical(c.ResolvePath(link))
	if err != nil {
		return nil, &IncludeError{Link: link, Path: c.ResolvePath(link), Err: err}
	}

	if c.expanding(path) {
		c.reportf(markup.Error, RuleIncludeCycle, "include %q includes itself", link)
		c.events.Emit(IncludeFailedEvent(link, "cycle"))
		return nil, nil
	}
	if len(c.stack) > c.maxDepth {
		c.reportf(markup.Error, RuleIncludeDepth, "include %q exceeds the maximum nesting depth of %d", link, c.maxDepth)
		c.events.Emit(IncludeFailedEvent(link, "depth"))
		return nil, nil
	}

	src, err := c.readFile(path)
	if err != nil {
		ierr := &IncludeError{Link: link, Path: path, Err: err}
		if c.strict {
			return nil, ierr
		}
		c.reportf(markup.Error, RuleIncludeRead, "failed to read the linked file: %v", ierr)
		c.events.Emit(IncludeFailedEvent(link, err.Error()))
		return nil, nil
	}

	c.events.Emit(IncludeStartedEvent(link, path, len(c.stack)))
	c.stack = append(c.stack, path)
	doc, err := c.CompileSource(src, path)
	c.stack = c.stack[:len(c.stack)-1]
	if err != nil {
		return nil, &IncludeError{Link: link, Path: path, Err: err}
	}

	if !h.extractBody(c, doc, link) {
		c.events.Emit(IncludeFailedEvent(link, "invalid body markers"))
		return nil, nil
	}
	c.events.Emit(IncludeResolvedEvent(link, path, doc.Len()))
	return doc, nil
}

// extractBody narrows doc to the interior of its body markers. It returns
// false, after reporting why, when the markers are duplicated, unpaired or
// out of order.
func (h *IncludeHandler) extractBody(c *Compiler, doc *markup.Document, link string) bool {
	begin := doc.FindTags("body")
	end := doc.FindTags("/body")

	switch {
	case len(begin) == 0 && len(end) == 0:
		return true
	case len(begin) > 1:
		c.reportf(markup.Error, RuleDuplicateBody, "duplicate <body> tags found in %q", link)
		return false
	case len(end) > 1:
		c.reportf(markup.Error, RuleDuplicateBody, "duplicate </body> tags found in %q", link)
		return false
	case len(begin) == 0:
		c.reportf(markup.Error, RuleUnpairedBody, "no <body> found for </body> in %q", link)
		return false
	case len(end) == 0:
		c.reportf(markup.Error, RuleUnpairedBody, "no </body> found for <body> in %q", link)
		return false
	case begin[0] > end[0]:
		c.reportf(markup.Error, RuleBodyOrder, "</body> precedes <body> in %q", link)
		return false
	}
	doc.Extract(begin[0]+1, end[0])
	return true
}
