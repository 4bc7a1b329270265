// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration and record types shared across the
// export stages.
package types

import "time"

// Document holds metadata and output paths for one exported document.
type Document struct {
	// ID is the document identifier as known to the remote service.
	ID string `json:"id" yaml:"id"`

	// Title is the document title at export time.
	Title string `json:"title" yaml:"title"`

	// Revision is the document revision the export was taken from.
	Revision int64 `json:"revision" yaml:"revision"`

	// OutputPath is the local path of the exported Markdown file.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// ExportedAt is when the export completed.
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
}

// Asset records one media file downloaded during an export.
type Asset struct {
	// Token is the opaque remote identifier of the binary.
	Token string `json:"token" yaml:"token"`

	// Kind classifies the asset: image, board, or file.
	Kind string `json:"kind" yaml:"kind"`

	// LocalPath is the path spliced into the exported Markdown.
	LocalPath string `json:"local_path" yaml:"local_path"`

	// DocumentID is the document this asset belongs to.
	DocumentID string `json:"document_id" yaml:"document_id"`
}
