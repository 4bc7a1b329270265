// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "docexport/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the document fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PageSize is the number of blocks requested per page (default 500).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxRetries is the retry budget for rate-limited API calls.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RenderConfig holds settings for the rendering stage.
type RenderConfig struct {
	// ShowUnsupported emits a fenced raw dump for unrecognized block types
	// instead of dropping them.
	ShowUnsupported bool `json:"show_unsupported" yaml:"show_unsupported"`

	// ClampHeadings caps heading depth at 6. By default heading levels 7-9
	// pass through with 7-9 hashes, preserving the source document.
	ClampHeadings bool `json:"clamp_headings" yaml:"clamp_headings"`
}

// MediaConfig holds settings for the media resolution stage.
type MediaConfig struct {
	HTTPConfig `yaml:",inline"`

	// Skip disables media download; tokens stay unresolved in the output.
	Skip bool `json:"skip" yaml:"skip"`
}

// OutputConfig holds settings for the output stage.
type OutputConfig struct {
	// OutputDir is the directory exported Markdown files are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// AssetsDirName is the subdirectory of OutputDir that receives
	// downloaded media (default "assets"). Markdown references use this
	// name as the path prefix.
	AssetsDirName string `json:"assets_dir_name" yaml:"assets_dir_name"`
}

// ExportConfig groups all stage configurations for one export run.
type ExportConfig struct {
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch"`
	Render RenderConfig `json:"render" yaml:"render"`
	Media  MediaConfig  `json:"media" yaml:"media"`
	Output OutputConfig `json:"output" yaml:"output"`
}
