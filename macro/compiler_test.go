package macro

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/binarykiy/LinkedHTMLCompiler/markup"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilerDefaults(t *testing.T) {
	dir := writeFiles(t, map[string]string{"index.html": ""})
	c, err := New(filepath.Join(dir, "index.html"))
	require.NoError(t, err)

	assert.Equal(t, dir, c.Root())
	assert.Equal(t, filepath.Join(dir, "index.html"), c.RootFile())
	assert.Equal(t, filepath.Join(dir, "out.html"), c.OutputPath("out.html"))
	assert.Equal(t, filepath.Join(dir, "a", "b.html"), c.ResolvePath("a/b.html"))
	assert.Equal(t, 0, c.Depth())
	assert.False(t, c.Strict())
	_, err = uuid.Parse(c.ID())
	assert.NoError(t, err)
}

func TestCompilerUnknownMacro(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.html": `a<!--?frobnicate x=1-->b`,
	})
	out, c, err := compileDir(t, dir)
	require.NoError(t, err)
	assert.Equal(t, "a<!--?error-->b", out)
	require.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, RuleUnknownMacro, c.Diagnostics()[0].Rule)
	assert.Equal(t, markup.Warning, c.Diagnostics()[0].Severity)
}

func TestCompilerCustomHandler(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.html": `<!--?shout text=hi--> <!--?include link="a.html"-->`,
		"a.html":     `<!--?shout text=nested-->`,
	})
	registry := NewDefaultRegistry()
	var depths []int
	registry.Register("shout", HandlerFunc(func(c *Compiler, tag markup.Tag) (*markup.Document, error) {
		depths = append(depths, c.Depth())
		text, _ := tag.Attr("text")
		return markup.NewDocument(markup.TextNode(text + "!")), nil
	}))

	out, _, err := compileDir(t, dir, WithRegistry(registry))
	require.NoError(t, err)
	assert.Equal(t, "hi! nested!", out)
	assert.Equal(t, []int{0, 1}, depths)
}

func TestCompilerMissingRootFile(t *testing.T) {
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	_, err = c.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading root file")
}

func TestCompilerRootSyntaxError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"index.html": "<p a>"})
	_, _, err := compileDir(t, dir)
	var ae *markup.AttrError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, err.Error(), "index.html")
}

func TestCompilerEvents(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.html": `<!--?include link="a.html"--><!--?include link="a.html"--><!--?include link="nope.html"-->`,
		"a.html":     "A",
	})
	emitter := NewEventEmitter()
	var types []EventType
	emitter.On(func(e Event) { types = append(types, e.Type) })

	_, c, err := compileDir(t, dir, WithEvents(emitter))
	require.NoError(t, err)
	assert.Equal(t, []EventType{
		EventCompileStarted,
		EventCacheMiss, // index.html
		EventCacheMiss, // a.html
		EventIncludeStarted,
		EventIncludeResolved,
		EventCacheHit,
		EventIncludeStarted,
		EventIncludeResolved,
		EventIncludeFailed,
		EventCompileCompleted,
	}, types)
	assert.Equal(t, 3, c.Cache().Reads(), "index, a and the failed read of nope")
	assert.Equal(t, []string{RuleIncludeRead}, rules(c.Diagnostics()))
}

func TestCompilerCompileFailedEvent(t *testing.T) {
	dir := writeFiles(t, map[string]string{"index.html": "<!-- open"})
	emitter := NewEventEmitter()
	var last Event
	emitter.On(func(e Event) { last = e })

	_, _, err := compileDir(t, dir, WithEvents(emitter))
	require.Error(t, err)
	assert.Equal(t, EventCompileFailed, last.Type)
	assert.Contains(t, last.Data["error"], "-->")
}

func TestCompilerLogsDiagnostics(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.html": `<div a=1 a=2><!--?include link="a.html"-->`,
		"a.html":     "<body></body><body>",
	})
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	out, c, err := compileDir(t, dir, WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, "<div a=1><!--?error-->", out)
	assert.Equal(t, []string{markup.RuleDuplicateAttr, RuleDuplicateBody}, rules(c.Diagnostics()))

	logged := buf.String()
	assert.Contains(t, logged, "level=WARN")
	assert.Contains(t, logged, "rule=duplicate_attr")
	assert.Contains(t, logged, "level=ERROR")
	assert.Contains(t, logged, "duplicate <body> tags")
	assert.Contains(t, logged, "run_id="+c.ID())
	assert.NotContains(t, out, "duplicate")
}

func TestCompilerRender(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.html": `<!DOCTYPE html><html><body><!--?include link="a.html"--></body></html>`,
		"a.html":     "<html><body><p>x</p></body></html>",
	})
	c, err := New(filepath.Join(dir, "index.html"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, "<!DOCTYPE html><html><body><p>x</p></body></html>", buf.String())
}

func TestCompileSourceWithoutRoot(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.html": "A"})
	c, err := New(filepath.Join(dir, "virtual.html"))
	require.NoError(t, err)

	doc, err := c.CompileSource(`<!--?include link="a.html"-->!`, "inline")
	require.NoError(t, err)
	assert.Equal(t, "A!", doc.String())
}

func TestWithMaxDepthDefaultsBelowOne(t *testing.T) {
	c, err := New("index.html", WithMaxDepth(0))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDepth, c.maxDepth)
}

func TestEventEmitterListeners(t *testing.T) {
	emitter := NewEventEmitter()
	var order []int
	emitter.On(func(Event) { order = append(order, 1) })
	emitter.On(func(Event) { order = append(order, 2) })
	emitter.Emit(CacheEvent("/x", true))

	assert.Equal(t, 2, emitter.ListenerCount())
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, EventCacheHit, CacheEvent("/x", true).Type)
	assert.Equal(t, EventCacheMiss, CacheEvent("/x", false).Type)
}

func TestCompilerParseLeavesMacros(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.html": `<p><!--?include link="a.html"--></p>`,
		"a.html":     "A",
	})
	c, err := New(filepath.Join(dir, "index.html"))
	require.NoError(t, err)

	doc, err := c.Parse()
	require.NoError(t, err)
	assert.Equal(t, markup.NodeCustomTag, doc.At(1).Kind)
	assert.Equal(t, `<p><!--?include link="a.html"--></p>`, doc.String())
	assert.Equal(t, 1, c.Cache().Reads())
	assert.True(t, c.Cache().Contains(filepath.Join(dir, "index.html")))
}
