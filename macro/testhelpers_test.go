package macro

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/binarykiy/LinkedHTMLCompiler/markup"
	"github.com/stretchr/testify/require"
)

// writeFiles creates files (slash-separated names relative to a fresh
// temporary directory) and returns the directory.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	// Cache keys have symlinks resolved; the temp dir may sit behind one.
	dir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	return dir
}

// countingReader wraps os.ReadFile and records how often each path is read.
type countingReader struct {
	counts map[string]int
}

func newCountingReader() *countingReader {
	return &countingReader{counts: make(map[string]int)}
}

func (r *countingReader) Read(path string) ([]byte, error) {
	r.counts[path]++
	return os.ReadFile(path)
}

// compileDir compiles index.html in dir and returns the serialized output.
func compileDir(t *testing.T, dir string, opts ...Option) (string, *Compiler, error) {
	t.Helper()
	c, err := New(filepath.Join(dir, "index.html"), opts...)
	require.NoError(t, err)
	doc, err := c.Compile()
	if err != nil {
		return "", c, err
	}
	return doc.String(), c, nil
}

// rules returns the rule identifiers of diags, in order.
func rules(diags []markup.Diagnostic) []string {
	result := make([]string, len(diags))
	for i, d := range diags {
		result[i] = d.Rule
	}
	return result
}
