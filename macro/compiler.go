package macro

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/binarykiy/LinkedHTMLCompiler/markup"
	"github.com/google/uuid"
)

// DefaultMaxDepth bounds include nesting when no other limit is configured.
const DefaultMaxDepth = 32

// Rule identifiers reported during macro expansion.
const (
	RuleUnknownMacro  = "unknown_macro"
	RuleMissingLink   = "include_link"
	RuleUnusedAttr    = "unused_attr"
	RuleIncludeRead   = "include_read"
	RuleIncludeCycle  = "include_cycle"
	RuleIncludeDepth  = "include_depth"
	RuleDuplicateBody = "duplicate_body"
	RuleUnpairedBody  = "unpaired_body"
	RuleBodyOrder     = "body_order"
)

// IncludeError is a fatal failure to include a linked file.
type IncludeError struct {
	Link string // link as written in the macro
	Path string // resolved absolute path
	Err  error
}

func (e *IncludeError) Error() string {
	return fmt.Sprintf("include %q (%s): %v", e.Link, e.Path, e.Err)
}

func (e *IncludeError) Unwrap() error { return e.Err }

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger diagnostics are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// WithRegistry replaces the default macro registry.
func WithRegistry(r *Registry) Option {
	return func(c *Compiler) { c.registry = r }
}

// WithEvents attaches an event emitter.
func WithEvents(e *EventEmitter) Option {
	return func(c *Compiler) { c.events = e }
}

// WithMaxDepth bounds include nesting. Values below 1 select DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(c *Compiler) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}
		c.maxDepth = depth
	}
}

// WithStrict makes unreadable include targets abort the compilation instead
// of being replaced by the ?error sentinel.
func WithStrict(strict bool) Option {
	return func(c *Compiler) { c.strict = strict }
}

// WithReadFunc sets the storage backend of the file cache.
func WithReadFunc(read ReadFunc) Option {
	return func(c *Compiler) { c.cache = NewFileCache(read) }
}

// Compiler is the context of a single compilation run.
type Compiler struct {
	id       string
	rootFile string // absolute path of the root document
	root     string // directory every include link is resolved against
	cache    *FileCache
	registry *Registry
	events   *EventEmitter
	logger   *slog.Logger
	maxDepth int
	strict   bool
	stack    []string // absolute paths of the files being expanded, root first
	diags    []markup.Diagnostic
}

// New creates a compiler for the document at rootFile.
func New(rootFile string, opts ...Option) (*Compiler, error) {
	abs, err := filepath.Abs(rootFile)
	if err != nil {
		return nil, fmt.Errorf("resolving root file: %w", err)
	}
	key, err := Canonical(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving root file: %w", err)
	}
	// Links resolve against the directory the root was named in, even when
	// the root file itself is a symlink.
	c := &Compiler{
		id:       uuid.NewString(),
		rootFile: key,
		root:     filepath.Dir(abs),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewFileCache(nil)
	}
	if c.registry == nil {
		c.registry = NewDefaultRegistry()
	}
	if c.events == nil {
		c.events = NewEventEmitter()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.logger = c.logger.With("run_id", c.id)
	return c, nil
}

// ID returns the unique identifier of this run.
func (c *Compiler) ID() string { return c.id }

// Root returns the directory include links are resolved against.
func (c *Compiler) Root() string { return c.root }

// RootFile returns the absolute path of the root document.
func (c *Compiler) RootFile() string { return c.rootFile }

// Cache returns the file cache of this run.
func (c *Compiler) Cache() *FileCache { return c.cache }

// Diagnostics returns everything reported so far, in order.
func (c *Compiler) Diagnostics() []markup.Diagnostic { return c.diags }

// Strict reports whether unreadable include targets are fatal.
func (c *Compiler) Strict() bool { return c.strict }

// Depth returns the include nesting level of the file currently being
// expanded. The root document is at depth 0.
func (c *Compiler) Depth() int { return max(len(c.stack)-1, 0) }

// ResolvePath joins a root-relative link onto the root directory.
func (c *Compiler) ResolvePath(link string) string {
	return filepath.Join(c.root, filepath.FromSlash(link))
}

// OutputPath returns the path of a file named name next to the root
// document. Absolute names are returned unchanged.
func (c *Compiler) OutputPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.root, name)
}

// current returns the file currently being expanded.
func (c *Compiler) current() string {
	if len(c.stack) == 0 {
		return c.rootFile
	}
	return c.stack[len(c.stack)-1]
}

// expanding reports whether path is already on the include stack.
func (c *Compiler) expanding(path string) bool {
	for _, p := range c.stack {
		if p == path {
			return true
		}
	}
	return false
}

// Report records a diagnostic and writes it to the log. An empty File is
// filled in with the file currently being expanded.
func (c *Compiler) Report(d markup.Diagnostic) {
	if d.File == "" {
		d.File = c.current()
	}
	c.diags = append(c.diags, d)

	level := slog.LevelInfo
	switch d.Severity {
	case markup.Error:
		level = slog.LevelError
	case markup.Warning:
		level = slog.LevelWarn
	}
	attrs := []any{"rule", d.Rule, "file", d.File}
	if d.Pos.Line > 0 {
		attrs = append(attrs, "line", d.Pos.Line, "col", d.Pos.Column)
	}
	c.logger.Log(context.Background(), level, d.Message, attrs...)
}

func (c *Compiler) reportf(severity markup.Severity, rule, format string, args ...any) {
	c.Report(markup.Diagnostic{
		Rule:     rule,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
	})
}

// readFile fetches path through the cache, emitting a cache event.
func (c *Compiler) readFile(path string) (string, error) {
	hit := c.cache.Contains(path)
	content, err := c.cache.Read(path)
	if err == nil {
		c.events.Emit(CacheEvent(path, hit))
	}
	return content, err
}

// Compile reads the root document, expands all of its macros and returns
// the resulting tree.
func (c *Compiler) Compile() (*markup.Document, error) {
	start := time.Now()
	c.events.Emit(CompileStartedEvent(c.id, c.rootFile))
	c.logger.Debug("compiling", "file", c.rootFile, "root", c.root)

	doc, err := c.compileRoot()
	if err != nil {
		c.events.Emit(CompileFailedEvent(c.id, err.Error(), time.Since(start)))
		return nil, err
	}
	c.events.Emit(CompileCompletedEvent(c.id, time.Since(start), c.cache.Reads(), len(c.diags)))
	c.logger.Debug("compiled", "file", c.rootFile, "reads", c.cache.Reads(), "diagnostics", len(c.diags))
	return doc, nil
}

// Parse reads the root file through the cache and tokenizes it without
// expanding macros.
func (c *Compiler) Parse() (*markup.Document, error) {
	src, err := c.readFile(c.rootFile)
	if err != nil {
		return nil, fmt.Errorf("reading root file: %w", err)
	}
	doc, diags, err := markup.Parse(src)
	for _, d := range diags {
		d.File = c.rootFile
		c.Report(d)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.rootFile, err)
	}
	return doc, nil
}

func (c *Compiler) compileRoot() (*markup.Document, error) {
	src, err := c.readFile(c.rootFile)
	if err != nil {
		return nil, fmt.Errorf("reading root file: %w", err)
	}
	c.stack = append(c.stack, c.rootFile)
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()
	return c.CompileSource(src, c.rootFile)
}

// CompileSource tokenizes src and expands its macros. origin names the
// source in diagnostics and errors.
func (c *Compiler) CompileSource(src, origin string) (*markup.Document, error) {
	doc, diags, err := markup.Parse(src)
	for _, d := range diags {
		d.File = origin
		c.Report(d)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", origin, err)
	}
	if err := c.Resolve(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Resolve replaces every custom tag in doc by dispatching on the tag name.
// Unknown macros become the ?error sentinel.
func (c *Compiler) Resolve(doc *markup.Document) error {
	return doc.ResolveCustom(func(tag markup.Tag) (*markup.Document, error) {
		h, ok := c.registry.Lookup(tag.Name)
		if !ok {
			c.reportf(markup.Warning, RuleUnknownMacro, "unknown macro %q", tag.Name)
			return nil, nil
		}
		return h.Expand(c, tag)
	})
}

// Render compiles the root document and writes it to w.
func (c *Compiler) Render(w io.Writer) error {
	doc, err := c.Compile()
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
