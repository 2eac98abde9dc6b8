package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer turns author markdown into HTML that is safe to embed in a page.
// Raw HTML is allowed through goldmark and then scrubbed by the UGC policy,
// so authors keep inline markup but scripts, handlers and javascript: links
// never reach readers. Safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Typographer),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		policy: policy,
	}
}

func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return string(r.policy.SanitizeBytes(buf.Bytes())), nil
}
