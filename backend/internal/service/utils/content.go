package utils

import (
	"bytes"
	stdhtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ContentRenderer turns board post and comment text into sanitized HTML.
// Raw HTML in the source is passed through goldmark and then stripped by the
// UGC policy, so only markdown-produced markup survives.
type ContentRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewContentRenderer() *ContentRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough, extension.Table, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
	)

	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	return &ContentRenderer{md: md, policy: p}
}

// Render never fails: text goldmark cannot convert is returned escaped.
func (r *ContentRenderer) Render(text string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return stdhtml.EscapeString(text)
	}
	return strings.TrimSpace(r.policy.Sanitize(buf.String()))
}
