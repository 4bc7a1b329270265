// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docexport/internal/export"
	"github.com/pdiddy/docexport/internal/fetch"
	"github.com/pdiddy/docexport/internal/manifest"
	"github.com/pdiddy/docexport/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [document-id-or-url...]",
	Short: "Export remote documents to Markdown",
	Long: `Export fetches each document's block tree from the document service,
renders it to Markdown, downloads referenced media into an assets
directory, and writes <output-dir>/<document-id>.md. Documents may be
given as bare IDs or as document URLs; the ID is taken from the URL's
last path segment.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := exportConfigFromFlags(cmd)

		creds := fetch.Credentials{
			AppID:     secretDefault("app-id", viper.GetString("app_id")),
			AppSecret: secretDefault("app-secret", viper.GetString("app_secret")),
		}
		if creds.AppID == "" || creds.AppSecret == "" {
			return fmt.Errorf("missing credentials: provide .secrets/app-id and .secrets/app-secret or set app_id/app_secret in config")
		}

		var counter apiCallCounter
		client := fetch.NewClient(&http.Client{Timeout: cfg.Fetch.Timeout}, cfg.Fetch, creds, &counter)
		if err := client.Authenticate(cmd.Context()); err != nil {
			return err
		}

		store, err := manifest.Open(cfg.Output.OutputDir)
		if err != nil {
			return err
		}
		defer store.Close()

		ids := make([]string, len(args))
		for i, arg := range args {
			ids[i] = documentID(arg)
		}

		e := export.New(client, client, store, cfg)
		result := e.ExportBatch(cmd.Context(), ids, os.Stdout)
		fmt.Fprintf(os.Stderr, "API calls: %d\n", counter)

		if result.HasFailures() {
			return fmt.Errorf("%d of %d documents failed", result.Failed, result.Total())
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("output-dir", "output", "directory for exported Markdown files")
	exportCmd.Flags().String("assets-dir", "assets", "subdirectory of output-dir for downloaded media")
	exportCmd.Flags().Bool("show-unsupported", false, "dump unrecognized block types into the output")
	exportCmd.Flags().Bool("clamp-headings", false, "cap heading depth at 6 hashes")
	exportCmd.Flags().Bool("skip-media", false, "leave media tokens unresolved instead of downloading")

	rootCmd.AddCommand(exportCmd)
}

// apiCallCounter counts API round-trips; it satisfies fetch.CallReporter.
type apiCallCounter int

func (c *apiCallCounter) APICall(string) { *c++ }

// exportConfigFromFlags merges viper config with command flags; flags win.
func exportConfigFromFlags(cmd *cobra.Command) types.ExportConfig {
	var cfg types.ExportConfig

	cfg.Fetch.Timeout = viper.GetDuration("fetch.timeout")
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 30 * time.Second
	}
	cfg.Fetch.UserAgent = viper.GetString("fetch.user_agent")
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "docexport/" + version
	}
	cfg.Fetch.PageSize = viper.GetInt("fetch.page_size")
	cfg.Fetch.MaxRetries = viper.GetInt("fetch.max_retries")

	cfg.Output.OutputDir, _ = cmd.Flags().GetString("output-dir")
	cfg.Output.AssetsDirName, _ = cmd.Flags().GetString("assets-dir")
	cfg.Render.ShowUnsupported, _ = cmd.Flags().GetBool("show-unsupported")
	cfg.Render.ClampHeadings, _ = cmd.Flags().GetBool("clamp-headings")
	cfg.Media.Skip, _ = cmd.Flags().GetBool("skip-media")

	return cfg
}

// documentID extracts a document ID from a bare ID or a document URL.
func documentID(arg string) string {
	if !strings.Contains(arg, "://") {
		return arg
	}
	u, err := url.Parse(arg)
	if err != nil {
		return arg
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 {
		return arg
	}
	return segments[len(segments)-1]
}
