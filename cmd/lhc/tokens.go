package main

import (
	"fmt"

	"github.com/binarykiy/LinkedHTMLCompiler/markup"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the node tree of an HTML file as JSON",
	Long:  "Tokenize a file and print its nodes as JSON. With --resolve, macros are expanded first.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	tokensCmd.Flags().Bool("resolve", false, "Expand macros before printing")
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	file := args[0]
	resolve, _ := cmd.Flags().GetBool("resolve")

	c, err := newCompiler(file, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	var doc *markup.Document
	if resolve {
		doc, err = c.Compile()
	} else {
		doc, err = c.Parse()
	}
	if err != nil {
		return fmt.Errorf("tokenizing %s: %w", file, err)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding nodes: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
