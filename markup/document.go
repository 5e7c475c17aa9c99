package markup

import (
	"io"
	"strings"
)

// Document is an ordered sequence of nodes produced by Parse.
type Document struct {
	Nodes []Node `json:"nodes"`
}

// NewDocument returns a document holding the given nodes.
func NewDocument(nodes ...Node) *Document {
	return &Document{Nodes: nodes}
}

// Len returns the number of top-level nodes.
func (d *Document) Len() int { return len(d.Nodes) }

// At returns the node at index i.
func (d *Document) At(i int) Node { return d.Nodes[i] }

// FindTags returns the indexes of all plain tags named name, in order.
// Nested pointer documents are not searched.
func (d *Document) FindTags(name string) []int {
	var result []int
	for i, n := range d.Nodes {
		if n.Kind == NodeTag && n.Tag.Name == name {
			result = append(result, i)
		}
	}
	return result
}

// Extract keeps only the nodes with index in [from, to) and drops the rest.
// The range is clamped to the document bounds.
func (d *Document) Extract(from, to int) {
	from = max(from, 0)
	to = min(to, len(d.Nodes))
	if from >= to {
		d.Nodes = nil
		return
	}
	kept := make([]Node, to-from)
	copy(kept, d.Nodes[from:to])
	d.Nodes = kept
}

// ResolveCustom replaces every custom tag, left to right, with the result of
// fn. A non-nil document becomes a pointer node; a nil document becomes the
// ?error sentinel comment. If fn returns an error the pass stops and the error
// is returned; nodes already replaced stay replaced.
func (d *Document) ResolveCustom(fn func(tag Tag) (*Document, error)) error {
	for i := range d.Nodes {
		n := d.Nodes[i]
		if n.Kind != NodeCustomTag {
			continue
		}
		sub, err := fn(*n.Tag)
		if err != nil {
			return err
		}
		var replacement Node
		if sub != nil {
			replacement = PointerNode(sub)
		} else {
			replacement = ErrorNode()
		}
		replacement.Pos = n.Pos
		d.Nodes[i] = replacement
	}
	return nil
}

// WriteTo serializes the document depth-first, expanding pointer nodes in place.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

func (d *Document) String() string {
	var b strings.Builder
	d.write(&b)
	return b.String()
}

func (d *Document) write(b *strings.Builder) {
	for _, n := range d.Nodes {
		n.write(b)
	}
}
