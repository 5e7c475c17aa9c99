package main

import (
	"io"
	"log/slog"

	"github.com/binarykiy/LinkedHTMLCompiler/macro"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:          "lhc",
	Short:        "Linked HTML compiler",
	Long:         "lhc expands <!--?include link=\"...\"--> macros in HTML files and writes the linked result.",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug output")
	rootCmd.PersistentFlags().Int("max-depth", macro.DefaultMaxDepth, "Maximum include nesting depth")
	rootCmd.PersistentFlags().Bool("strict", false, "Abort when a linked file cannot be read")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max-depth"))
	_ = viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
}

func initConfig() {
	viper.SetEnvPrefix("LHC")
	viper.AutomaticEnv()
}

// newLogger returns the diagnostics logger. Diagnostics never go to the
// generated output.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("debug") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newCompiler builds a compiler for rootFile from the shared settings.
func newCompiler(rootFile string, stderr io.Writer, opts ...macro.Option) (*macro.Compiler, error) {
	opts = append([]macro.Option{
		macro.WithLogger(newLogger(stderr)),
		macro.WithMaxDepth(viper.GetInt("max_depth")),
		macro.WithStrict(viper.GetBool("strict")),
	}, opts...)
	return macro.New(rootFile, opts...)
}
