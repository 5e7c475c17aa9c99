package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/binarykiy/LinkedHTMLCompiler/macro"
	"github.com/binarykiy/LinkedHTMLCompiler/markup"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile an HTML file and its includes",
	Long: "Resolve every macro in the given file, recursively, and write the result next to it " +
		"(out.html by default). Without a file argument the path is read from standard input.",
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringP("output", "o", "out.html", "Output file name, relative to the root file's directory")
	compileCmd.Flags().Bool("stdout", false, "Write the result to standard output instead of a file")

	_ = viper.BindPFlag("output", compileCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()
	toStdout, _ := cmd.Flags().GetBool("stdout")
	verbose := viper.GetBool("verbose")

	var rootFile string
	if len(args) == 1 {
		rootFile = args[0]
	} else {
		var err error
		rootFile, err = promptRootFile(cmd.InOrStdin(), stderr)
		if err != nil {
			return err
		}
	}

	emitter := macro.NewEventEmitter()
	emitter.On(terminalEventListener(stderr, verbose))

	c, err := newCompiler(rootFile, stderr, macro.WithEvents(emitter))
	if err != nil {
		return err
	}

	doc, err := c.Compile()
	if err != nil {
		return fmt.Errorf("compiling %s: %w", rootFile, err)
	}

	if toStdout {
		if _, err := doc.WriteTo(cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	} else {
		outPath := c.OutputPath(viper.GetString("output"))
		if err := atomic.WriteFile(outPath, strings.NewReader(doc.String())); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		fmt.Fprintf(stderr, "[compile] Wrote %s\n", outPath)
	}

	printDiagnosticSummary(stderr, c.Diagnostics())
	return nil
}

// promptRootFile asks for the root file path on w and reads one line from r.
// Quote characters and line terminators are removed.
func promptRootFile(r io.Reader, w io.Writer) (string, error) {
	fmt.Fprintln(w, "Enter file path to compile:")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading file path: %w", err)
	}
	path := strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', '"':
			return -1
		}
		return r
	}, line)
	if path == "" {
		return "", errors.New("no file path given")
	}
	return path, nil
}

// terminalEventListener returns an event listener that prints compile progress.
func terminalEventListener(w io.Writer, verbose bool) func(macro.Event) {
	return func(e macro.Event) {
		switch e.Type {
		case macro.EventCompileStarted:
			file, _ := e.Data["file"].(string)
			fmt.Fprintf(w, "[compile] Starting: %s\n", file)

		case macro.EventCompileCompleted:
			durationMs, _ := e.Data["duration_ms"].(int64)
			reads, _ := e.Data["reads"].(int)
			duration := time.Duration(durationMs) * time.Millisecond
			fmt.Fprintf(w, "[compile] Completed in %.1fs (%d files read)\n", duration.Seconds(), reads)

		case macro.EventCompileFailed:
			errMsg, _ := e.Data["error"].(string)
			fmt.Fprintf(w, "[compile] Failed: %s\n", errMsg)

		case macro.EventIncludeResolved:
			if verbose {
				link, _ := e.Data["link"].(string)
				nodes, _ := e.Data["nodes"].(int)
				fmt.Fprintf(w, "[include] %s (%d nodes)\n", link, nodes)
			}

		case macro.EventIncludeFailed:
			link, _ := e.Data["link"].(string)
			reason, _ := e.Data["reason"].(string)
			fmt.Fprintf(w, "[include] %s failed: %s\n", link, reason)

		default:
			if verbose {
				fmt.Fprintf(w, "[event] %s %v\n", e.Type, e.Data)
			}
		}
	}
}

// printDiagnosticSummary prints a one-line count of diagnostics by severity.
func printDiagnosticSummary(w io.Writer, diags []markup.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	counts := make(map[markup.Severity]int)
	for _, d := range diags {
		counts[d.Severity]++
	}
	fmt.Fprintf(w, "[summary] %d error(s), %d warning(s)\n", counts[markup.Error], counts[markup.Warning])
}
