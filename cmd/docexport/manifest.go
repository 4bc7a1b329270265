// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docexport/internal/manifest"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect the export manifest",
	Long: `Manifest inspects the database of previous export runs kept in the
output directory.`,
}

var manifestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exported documents, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir, _ := cmd.Flags().GetString("output-dir")

		store, err := manifest.Open(outputDir)
		if err != nil {
			return err
		}
		defer store.Close()

		docs, err := store.List()
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("manifest is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tREVISION\tEXPORTED")
		for _, d := range docs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", d.ID, d.Title, d.Revision, d.ExportedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var manifestShowCmd = &cobra.Command{
	Use:   "show <document-id>",
	Short: "Show one exported document and its assets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir, _ := cmd.Flags().GetString("output-dir")

		store, err := manifest.Open(outputDir)
		if err != nil {
			return err
		}
		defer store.Close()

		doc, assets, err := store.Get(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:       %s\n", doc.ID)
		fmt.Printf("Title:    %s\n", doc.Title)
		fmt.Printf("Revision: %d\n", doc.Revision)
		fmt.Printf("Output:   %s\n", doc.OutputPath)
		fmt.Printf("Exported: %s\n", doc.ExportedAt.Format("2006-01-02 15:04:05"))
		if len(assets) == 0 {
			fmt.Println("Assets:   none")
			return nil
		}
		fmt.Println("Assets:")
		for _, a := range assets {
			fmt.Printf("  %s (%s) -> %s\n", a.Token, a.Kind, a.LocalPath)
		}
		return nil
	},
}

func init() {
	manifestListCmd.Flags().String("output-dir", "output", "directory whose manifest to read")
	manifestShowCmd.Flags().String("output-dir", "output", "directory whose manifest to read")

	manifestCmd.AddCommand(manifestListCmd)
	manifestCmd.AddCommand(manifestShowCmd)
	rootCmd.AddCommand(manifestCmd)
}
