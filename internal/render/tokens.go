// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "strings"

// MediaKind classifies a collected media token.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindBoard MediaKind = "board"
	KindFile  MediaKind = "file"
)

// MediaToken is a remote binary reference discovered during traversal. The
// token is an opaque identifier; a later pass resolves it to a local path.
type MediaToken struct {
	Token string
	Kind  MediaKind
}

// collect registers a media token in traversal order.
func (r *Renderer) collect(token string, kind MediaKind) {
	if token == "" {
		return
	}
	r.tokens = append(r.tokens, MediaToken{Token: token, Kind: kind})
}

// Substitute splices resolved local paths into rendered text. Each token is
// replaced in the two literal forms the renderer emits: src="<token>" inside
// HTML tags and ](<token>) in Markdown links. Tokens without a resolved path
// are left untouched, so an empty map is the identity.
func Substitute(text string, tokens []MediaToken, paths map[string]string) string {
	for _, mt := range tokens {
		path, ok := paths[mt.Token]
		if !ok || path == "" {
			continue
		}
		text = strings.ReplaceAll(text, `src="`+mt.Token+`"`, `src="`+path+`"`)
		text = strings.ReplaceAll(text, `](`+mt.Token+`)`, `](`+path+`)`)
	}
	return text
}
