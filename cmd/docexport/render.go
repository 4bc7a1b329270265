// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docexport/internal/render"
	"github.com/pdiddy/docexport/pkg/blocks"
)

var renderCmd = &cobra.Command{
	Use:   "render <blocks.json>",
	Short: "Render a saved block dump to Markdown",
	Long: `Render converts a locally saved block list (a JSON array of blocks, as
returned by the document service) to Markdown on stdout. No network
access; media tokens are left unresolved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading block dump: %w", err)
		}

		var blks []*blocks.Block
		if err := json.Unmarshal(data, &blks); err != nil {
			return fmt.Errorf("parsing block dump: %w", err)
		}

		showUnsupported, _ := cmd.Flags().GetBool("show-unsupported")
		clampHeadings, _ := cmd.Flags().GetBool("clamp-headings")

		text, tokens, err := render.Document(blks, render.Options{
			ShowUnsupported: showUnsupported,
			ClampHeadings:   clampHeadings,
		})
		if err != nil {
			return err
		}

		fmt.Print(text)
		if len(tokens) > 0 {
			fmt.Fprintf(os.Stderr, "%d unresolved media tokens\n", len(tokens))
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().Bool("show-unsupported", false, "dump unrecognized block types into the output")
	renderCmd.Flags().Bool("clamp-headings", false, "cap heading depth at 6 hashes")

	rootCmd.AddCommand(renderCmd)
}
