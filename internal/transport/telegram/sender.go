package telegram

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/climaqa/pkg/conv"
	"github.com/sandevgo/climaqa/pkg/log"
	tele "gopkg.in/telebot.v3"
)

// Telegram allows 4096 characters per message; the rest is headroom for
// the closing tags added at each cut.
const maxTelegramMsgLen = 4000

// longest entity the HTML renderer emits, e.g. &#x1F600;
const maxEntityLen = 10

var tagRe = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9-]*)[^<>]*>`)

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// sendMarkdown renders md as Telegram HTML and sends it, split into
// messages that each parse on their own.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string, silent bool) error {
	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(md)))

	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		opts := []any{tele.ModeHTML}
		if silent && i == 0 {
			opts = append(opts, tele.Silent)
		}
		if _, err := s.bot.Send(to, chunk, opts...); err != nil {
			log.FromCtx(ctx).Error().Err(err).
				Int("chunk", i).
				Int("len", len(chunk)).
				Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}

// splitHTML cuts text into chunks of at most maxLen bytes. Cuts prefer a
// newline and never fall inside a rune, a tag or an entity. Tags still
// open at a cut are closed at the end of the chunk and reopened at the
// start of the next one.
func splitHTML(text string, maxLen int) []string {
	var chunks []string
	for len(text) > maxLen {
		cut := cutPoint(text, maxLen)
		closers, openers := openTags(text[:cut])
		if cut+len(closers) > maxLen {
			cut = cutPoint(text, maxLen-len(closers))
			closers, openers = openTags(text[:cut])
		}

		chunks = append(chunks, text[:cut]+closers)

		rest := strings.TrimSpace(text[cut:])
		if strings.TrimSpace(tagRe.ReplaceAllString(rest, "")) == "" {
			return chunks
		}
		text = openers + rest
	}
	return append(chunks, text)
}

func cutPoint(text string, limit int) int {
	limit = max(limit, 1)

	cut := limit
	if idx := strings.LastIndexByte(text[:limit], '\n'); idx > limit/3 {
		cut = idx
	}
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	head := text[:cut]
	if lt := strings.LastIndexByte(head, '<'); lt > strings.LastIndexByte(head, '>') {
		cut = lt
	}
	head = text[:cut]
	if amp := strings.LastIndexByte(head, '&'); amp > strings.LastIndexByte(head, ';') && cut-amp < maxEntityLen {
		cut = amp
	}

	if cut > 0 {
		return cut
	}
	// a single tag longer than the limit; split it rather than loop
	cut = limit
	for cut > 1 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return cut
}

type openTag struct {
	name string
	raw  string
}

// openTags returns the closing tags for everything left open in html,
// innermost first, and the opening tags that restore them.
func openTags(html string) (closers, openers string) {
	var stack []openTag
	for _, m := range tagRe.FindAllStringSubmatch(html, -1) {
		name := strings.ToLower(m[2])
		if m[1] == "" {
			if !strings.HasSuffix(m[0], "/>") {
				stack = append(stack, openTag{name: name, raw: m[0]})
			}
			continue
		}
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].name == name {
				stack = stack[:i]
				break
			}
		}
	}

	var c, o strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		c.WriteString("</" + stack[i].name + ">")
	}
	for _, t := range stack {
		o.WriteString(t.raw)
	}
	return c.String(), o.String()
}
