package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttrsOrderPreserved(t *testing.T) {
	attrs, diags, err := ParseAttrs("a=1 b=2")
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, []Attr{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}, attrs)
}

func TestParseAttrsDuplicateFirstWins(t *testing.T) {
	attrs, diags, err := ParseAttrs("a=1 a=2")
	require.NoError(t, err)
	assert.Equal(t, []Attr{{Key: "a", Value: "1"}}, attrs)
	require.Len(t, diags, 1)
	assert.Equal(t, RuleDuplicateAttr, diags[0].Rule)
	assert.Equal(t, Warning, diags[0].Severity)
	assert.Equal(t, 4, diags[0].Pos.Offset)
}

func TestParseAttrsQuotedValues(t *testing.T) {
	attrs, diags, err := ParseAttrs(`link="a b.html" x=1`)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, attrs, 2)
	assert.Equal(t, `"a b.html"`, attrs[0].Value)
	assert.Equal(t, "1", attrs[1].Value)
}

func TestParseAttrsUnquotedValueKeepsEquals(t *testing.T) {
	attrs, _, err := ParseAttrs("href=/x?a=b")
	require.NoError(t, err)
	assert.Equal(t, []Attr{{Key: "href", Value: "/x?a=b"}}, attrs)
}

func TestParseAttrsEmpty(t *testing.T) {
	attrs, diags, err := ParseAttrs("")
	require.NoError(t, err)
	assert.Empty(t, attrs)
	assert.Empty(t, diags)
}

func TestParseAttrsKeepsSpacing(t *testing.T) {
	attrs, _, err := ParseAttrs("a=1  b=2")
	require.NoError(t, err)
	assert.Equal(t, []Attr{{Key: "a", Value: "1"}, {Key: "b", Value: "2", Space: "  "}}, attrs)
}

func TestParseTagSpacingRoundTrip(t *testing.T) {
	tests := []struct {
		interior string
		want     Tag
	}{
		{"p ", Tag{Name: "p", Trailing: " "}},
		{"div  class=a", Tag{Name: "div", Attrs: []Attr{{Key: "class", Value: "a", Space: "  "}}}},
		{"div class=a ", Tag{Name: "div", Attrs: []Attr{{Key: "class", Value: "a"}}, Trailing: " "}},
		{"br  /", Tag{Name: "br", SelfClosing: true, SlashSpace: "  "}},
		{"br /", Tag{Name: "br", SelfClosing: true}},
	}
	for _, tt := range tests {
		t.Run(tt.interior, func(t *testing.T) {
			tag, _, err := ParseTag(tt.interior)
			require.NoError(t, err)
			assert.Equal(t, &tt.want, tag)
			assert.Equal(t, tt.interior, tag.String())
		})
	}
}

func TestParseAttrsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		attr  string
	}{
		{"missing separator", "a=1 b", "b"},
		{"missing value", "a=", "a="},
		{"missing value before space", "a= b=1", "a="},
		{"missing key", "=x", "=x"},
		{"unterminated quote", `a="x y`, `a="x y`},
		{"text after quote", `a="x"y`, `a="x"y`},
		{"self closing marker", "/", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseAttrs(tt.input)
			require.Error(t, err)
			var ae *AttrError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.attr, ae.Attr)
		})
	}
}

func TestParseTag(t *testing.T) {
	tag, diags, err := ParseTag(`include link="a.html"`)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "include", tag.Name)
	link, ok := tag.Attr("link")
	assert.True(t, ok)
	assert.Equal(t, `"a.html"`, link)
	assert.Equal(t, "a.html", Unquote(link))
}

func TestParseTagNameOnly(t *testing.T) {
	tag, _, err := ParseTag("/body")
	require.NoError(t, err)
	assert.Equal(t, "/body", tag.Name)
	assert.Empty(t, tag.Attrs)
}

func TestParseTagSelfClosing(t *testing.T) {
	tag, _, err := ParseTag("img src=x.png /")
	require.NoError(t, err)
	assert.True(t, tag.SelfClosing)
	assert.Equal(t, "img src=x.png /", tag.String())

	_, _, err = ParseTag("img / src=x.png")
	assert.Error(t, err)
}

func TestParseTagMissingName(t *testing.T) {
	_, _, err := ParseTag("")
	require.Error(t, err)
	_, _, err = ParseTag(" a=1")
	require.Error(t, err)
}

func TestTagTake(t *testing.T) {
	tag, _, err := ParseTag("include link=a.html extra=1")
	require.NoError(t, err)
	original := tag.Attrs

	link, ok := tag.Take("link")
	assert.True(t, ok)
	assert.Equal(t, "a.html", link)
	assert.Equal(t, []string{"extra"}, tag.Keys())
	assert.Len(t, original, 2, "taking must not disturb a shared attribute slice")

	_, ok = tag.Take("link")
	assert.False(t, ok)
}

func TestUnquote(t *testing.T) {
	assert.Equal(t, "a.html", Unquote(`"a.html"`))
	assert.Equal(t, "a.html", Unquote("a.html"))
	assert.Equal(t, `"`, Unquote(`"`))
	assert.Equal(t, "", Unquote(`""`))
}
