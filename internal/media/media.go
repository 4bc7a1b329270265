// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package media resolves the renderer's collected tokens: each remote
// binary is downloaded into the assets directory and mapped to the local
// path that replaces the token in the exported Markdown.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/docexport/internal/render"
)

// Downloader streams the binary behind a media token. fetch.Client satisfies
// this; tests substitute fakes.
type Downloader interface {
	Download(ctx context.Context, token string, w io.Writer) error
}

// BatchResult holds the outcome of a media resolution run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the total number of tokens processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any downloads failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Resolve downloads every token into assetsDir and returns the token to
// local-path map used for substitution. Paths in the map are prefixed with
// the assets directory base name, matching where the Markdown file sits
// relative to its assets. A token already present on disk (any extension)
// is skipped and its existing file reused. Failed downloads are reported
// and skipped; the export still succeeds with those tokens unresolved.
func Resolve(ctx context.Context, dl Downloader, tokens []render.MediaToken, assetsDir string, w io.Writer) (map[string]string, BatchResult) {
	var result BatchResult
	paths := make(map[string]string, len(tokens))
	prefix := filepath.Base(assetsDir)

	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed: creating assets directory (%v)\n", err)
		result.Failed = len(tokens)
		return paths, result
	}

	for _, tok := range tokens {
		if _, done := paths[tok.Token]; done {
			continue
		}

		if existing := findExisting(assetsDir, tok.Token); existing != "" {
			paths[tok.Token] = prefix + "/" + existing
			result.Skipped++
			fmt.Fprintf(w, "skipped: %s (already exists)\n", tok.Token)
			continue
		}

		var buf bytes.Buffer
		if err := dl.Download(ctx, tok.Token, &buf); err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", tok.Token, err)
			continue
		}

		name := tok.Token + sniffExtension(buf.Bytes())
		if err := os.WriteFile(filepath.Join(assetsDir, name), buf.Bytes(), 0o644); err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", tok.Token, err)
			continue
		}

		paths[tok.Token] = prefix + "/" + name
		result.Downloaded++
		fmt.Fprintf(w, "downloaded: %s (%s)\n", tok.Token, tok.Kind)
	}

	fmt.Fprintf(w, "\nMedia summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return paths, result
}

// findExisting returns the file name of a previously downloaded token, or "".
func findExisting(assetsDir, token string) string {
	matches, err := filepath.Glob(filepath.Join(assetsDir, token+".*"))
	if err != nil || len(matches) == 0 {
		// Also accept an extensionless file from an earlier run.
		if _, statErr := os.Stat(filepath.Join(assetsDir, token)); statErr == nil {
			return token
		}
		return ""
	}
	return filepath.Base(matches[0])
}

// extensions maps sniffed content types to file extensions. Anything else
// is stored without an extension.
var extensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
	"application/zip": ".zip",
}

func sniffExtension(data []byte) string {
	contentType := http.DetectContentType(data)
	// DetectContentType returns e.g. "text/plain; charset=utf-8".
	if i := bytes.IndexByte([]byte(contentType), ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return extensions[contentType]
}
