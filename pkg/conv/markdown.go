package conv

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()
)

func init() {
	// Allowed tags https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func render(md []byte, flags html.Flags) []byte {
	p := parser.NewWithExtensions(extensions)
	return markdown.Render(p.Parse(md), html.NewRenderer(html.RendererOptions{Flags: flags}))
}

// MarkdownToTelegramHTML renders an answer for Telegram's HTML parse mode.
func MarkdownToTelegramHTML(md []byte) string {
	return string(tgPolicy.SanitizeBytes(render(md, htmlFlags)))
}

// MarkdownToText renders Markdown to HTML first so emphasis, code fences and
// link syntax do not leak into the plain text of indexed passages.
func MarkdownToText(md []byte) (string, error) {
	return HTMLToText(string(render(md, html.CommonFlags)))
}
