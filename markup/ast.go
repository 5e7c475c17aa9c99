package markup

import "strings"

// Position tracks a source location for error messages.
type Position struct {
	Line   int `json:"line"`   // 1-based line number
	Column int `json:"column"` // 1-based column number
	Offset int `json:"offset"` // 0-based byte offset into source
}

// NodeKind discriminates the Node tagged union.
type NodeKind string

const (
	NodeText          NodeKind = "text"
	NodeComment       NodeKind = "comment"
	NodeCustomComment NodeKind = "custom_comment"
	NodeTag           NodeKind = "tag"
	NodeCustomTag     NodeKind = "custom_tag"
	NodeDocType       NodeKind = "doctype"
	NodePointer       NodeKind = "pointer"
)

// ErrorSentinel is the comment body substituted for a macro that could not be expanded.
const ErrorSentinel = "?error"

// Node is one entry of a Document. Kind determines which field is populated.
type Node struct {
	Kind NodeKind  `json:"kind"`
	Text string    `json:"text,omitempty"` // NodeText, NodeComment, NodeCustomComment, NodeDocType
	Tag  *Tag      `json:"tag,omitempty"`  // NodeTag, NodeCustomTag
	Doc  *Document `json:"doc,omitempty"`  // NodePointer
	Pos  Position  `json:"pos"`
}

// TextNode returns a text node.
func TextNode(s string) Node { return Node{Kind: NodeText, Text: s} }

// CommentNode returns a plain comment node holding the text between "<!--" and "-->".
func CommentNode(s string) Node { return Node{Kind: NodeComment, Text: s} }

// ErrorNode returns the sentinel comment emitted in place of a failed macro.
func ErrorNode() Node { return CommentNode(ErrorSentinel) }

// PointerNode returns a node that owns an expanded sub-document.
func PointerNode(doc *Document) Node { return Node{Kind: NodePointer, Doc: doc} }

func (n Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n Node) write(b *strings.Builder) {
	switch n.Kind {
	case NodeText:
		b.WriteString(n.Text)
	case NodeComment:
		b.WriteString("<!--")
		b.WriteString(n.Text)
		b.WriteString("-->")
	case NodeCustomComment:
		b.WriteString("<!--?")
		b.WriteString(n.Text)
		b.WriteString("-->")
	case NodeTag:
		b.WriteByte('<')
		n.Tag.write(b)
		b.WriteByte('>')
	case NodeCustomTag:
		b.WriteString("<!--?")
		n.Tag.write(b)
		b.WriteString("-->")
	case NodeDocType:
		b.WriteString("<!")
		b.WriteString(n.Text)
		b.WriteByte('>')
	case NodePointer:
		if n.Doc != nil {
			n.Doc.write(b)
		}
	}
}

// Attr is a key=value pair from a tag. Quoted values keep their quotes.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Space string `json:"space,omitempty"` // run of spaces before the key; empty means one
}

// Tag is a tag name plus its attributes in source order. Keys are unique.
//
// SlashSpace and Trailing hold the spaces before the self-closing "/" and
// before the terminator, so a tag written with uneven spacing serializes
// back unchanged. An empty SlashSpace means one space.
type Tag struct {
	Name        string `json:"name"`
	Attrs       []Attr `json:"attrs,omitempty"`
	SelfClosing bool   `json:"self_closing,omitempty"` // trailing "/" in a plain tag
	SlashSpace  string `json:"slash_space,omitempty"`
	Trailing    string `json:"trailing,omitempty"`
}

// Attr looks up an attribute by key. Returns the value and true if found.
func (t *Tag) Attr(key string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Take removes the attribute with the given key and returns its value.
// Handlers use it to consume the attributes they understand; whatever is
// left afterwards had no effect.
func (t *Tag) Take(key string) (string, bool) {
	for i, a := range t.Attrs {
		if a.Key == key {
			t.Attrs = append(t.Attrs[:i:i], t.Attrs[i+1:]...)
			return a.Value, true
		}
	}
	return "", false
}

// Keys returns the attribute keys in source order.
func (t *Tag) Keys() []string {
	keys := make([]string, len(t.Attrs))
	for i, a := range t.Attrs {
		keys[i] = a.Key
	}
	return keys
}

func (t *Tag) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Tag) write(b *strings.Builder) {
	b.WriteString(t.Name)
	for _, a := range t.Attrs {
		writeSpace(b, a.Space)
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(a.Value)
	}
	if t.SelfClosing {
		writeSpace(b, t.SlashSpace)
		b.WriteByte('/')
	}
	b.WriteString(t.Trailing)
}

func writeSpace(b *strings.Builder, space string) {
	if space == "" {
		space = " "
	}
	b.WriteString(space)
}

// Unquote strips one pair of surrounding double quotes, if present.
func Unquote(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}
	return value
}
