// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export orchestrates one document's trip through the pipeline:
// fetch the block list, render it, resolve media tokens, splice local paths
// into the text, and write the Markdown file. Batch runs process documents
// independently; one failure does not stop the rest.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docexport/internal/fetch"
	"github.com/pdiddy/docexport/internal/media"
	"github.com/pdiddy/docexport/internal/render"
	"github.com/pdiddy/docexport/pkg/blocks"
	"github.com/pdiddy/docexport/pkg/types"
)

// Source supplies a document's metadata and block list. fetch.Client
// satisfies this; the offline render path and tests substitute fakes.
type Source interface {
	Document(ctx context.Context, documentID string) (fetch.DocumentMeta, error)
	Blocks(ctx context.Context, documentID string) ([]*blocks.Block, error)
}

// Recorder persists a completed export. manifest.Store satisfies this;
// a nil Recorder disables recording.
type Recorder interface {
	Record(doc types.Document, assets []types.Asset) error
}

// Exporter runs the export pipeline with fixed collaborators and config.
type Exporter struct {
	src Source
	dl  media.Downloader
	rec Recorder
	cfg types.ExportConfig

	// now is split out for tests.
	now func() time.Time
}

// New builds an Exporter. dl may be nil when cfg.Media.Skip is set; rec may
// be nil to skip manifest recording.
func New(src Source, dl media.Downloader, rec Recorder, cfg types.ExportConfig) *Exporter {
	if cfg.Output.AssetsDirName == "" {
		cfg.Output.AssetsDirName = "assets"
	}
	return &Exporter{src: src, dl: dl, rec: rec, cfg: cfg, now: time.Now}
}

// BatchResult holds the outcome of a batch export run.
type BatchResult struct {
	Exported int
	Failed   int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Exported + r.Failed
}

// HasFailures reports whether any documents failed to export.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ExportDocument exports a single document and returns its record. The
// rendered text is written to <output-dir>/<doc-id>.md with YAML
// frontmatter; media lands under the assets subdirectory.
func (e *Exporter) ExportDocument(ctx context.Context, documentID string, w io.Writer) (*types.Document, error) {
	meta, err := e.src.Document(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetching document %s: %w", documentID, err)
	}

	blks, err := e.src.Blocks(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetching blocks of %s: %w", documentID, err)
	}

	text, tokens, err := render.Document(blks, render.Options{
		ShowUnsupported: e.cfg.Render.ShowUnsupported,
		ClampHeadings:   e.cfg.Render.ClampHeadings,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", documentID, err)
	}

	var assets []types.Asset
	if !e.cfg.Media.Skip && e.dl != nil && len(tokens) > 0 {
		assetsDir := filepath.Join(e.cfg.Output.OutputDir, e.cfg.Output.AssetsDirName)
		paths, _ := media.Resolve(ctx, e.dl, tokens, assetsDir, w)
		text = render.Substitute(text, tokens, paths)
		for _, tok := range tokens {
			if local, ok := paths[tok.Token]; ok {
				assets = append(assets, types.Asset{
					Token:      tok.Token,
					Kind:       string(tok.Kind),
					LocalPath:  local,
					DocumentID: documentID,
				})
			}
		}
	}

	doc := types.Document{
		ID:         documentID,
		Title:      meta.Title,
		Revision:   meta.RevisionID,
		ExportedAt: e.now().UTC(),
	}
	doc.OutputPath = filepath.Join(e.cfg.Output.OutputDir, documentID+".md")

	content, err := addFrontmatter(doc, text)
	if err != nil {
		return nil, fmt.Errorf("building frontmatter for %s: %w", documentID, err)
	}

	if err := os.MkdirAll(e.cfg.Output.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(doc.OutputPath, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", doc.OutputPath, err)
	}

	if e.rec != nil {
		if err := e.rec.Record(doc, assets); err != nil {
			return nil, fmt.Errorf("recording export of %s: %w", documentID, err)
		}
	}

	fmt.Fprintf(w, "exported: %s -> %s\n", documentID, doc.OutputPath)
	return &doc, nil
}

// ExportBatch exports each document in turn, printing per-document status
// to w and returning a summary.
func (e *Exporter) ExportBatch(ctx context.Context, documentIDs []string, w io.Writer) BatchResult {
	var result BatchResult
	for _, id := range documentIDs {
		if _, err := e.ExportDocument(ctx, id, w); err != nil {
			result.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			continue
		}
		result.Exported++
	}
	fmt.Fprintf(w, "\nBatch summary: %d exported, %d failed (total: %d)\n",
		result.Exported, result.Failed, result.Total())
	return result
}

// frontmatter is the YAML header prepended to every exported file.
type frontmatter struct {
	DocumentID string `yaml:"document_id"`
	Title      string `yaml:"title"`
	Revision   int64  `yaml:"revision"`
	ExportedAt string `yaml:"exported_at"`
}

func addFrontmatter(doc types.Document, body string) (string, error) {
	fm, err := yaml.Marshal(frontmatter{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Revision:   doc.Revision,
		ExportedAt: doc.ExportedAt.Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	return "---\n" + string(fm) + "---\n\n" + body, nil
}
