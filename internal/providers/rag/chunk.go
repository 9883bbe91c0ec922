package rag

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

const tokenizerEncoding = "cl100k_base"

type Chunk struct {
	Text      string
	TokenSize int
	Index     int
}

type ChunkerConfig struct {
	MaxTokens     int
	OverlapTokens int
}

// DefaultChunkerConfig splits pages into 800-token passages overlapping by 200 tokens.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		MaxTokens:     800,
		OverlapTokens: 200,
	}
}

// Chunker splits text on sentence boundaries into token-bounded chunks.
type Chunker struct {
	cfg ChunkerConfig
	enc *tiktoken.Tiktoken
}

func NewChunker(cfg ChunkerConfig) (*Chunker, error) {
	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("chunker: max tokens must be positive, got %d", cfg.MaxTokens)
	}
	if cfg.OverlapTokens < 0 || cfg.OverlapTokens >= cfg.MaxTokens {
		return nil, fmt.Errorf("chunker: overlap %d must be in [0, %d)", cfg.OverlapTokens, cfg.MaxTokens)
	}

	enc, err := tiktoken.GetEncoding(tokenizerEncoding)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	return &Chunker{cfg: cfg, enc: enc}, nil
}

func (c *Chunker) Chunk(text string) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sentences := splitSentences(text)

	var chunks []Chunk
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		chunks = append(chunks, Chunk{
			Text:      strings.TrimSpace(current.String()),
			TokenSize: currentTokens,
			Index:     len(chunks),
		})
		current.Reset()
		currentTokens = 0
	}

	for i, sentence := range sentences {
		sentenceTokens := c.countTokens(sentence)

		// A sentence larger than a chunk is sliced by tokens on its own.
		if sentenceTokens > c.cfg.MaxTokens {
			if current.Len() > 0 {
				flush()
			}
			for _, part := range c.sliceTokens(sentence) {
				part.Index = len(chunks)
				chunks = append(chunks, part)
			}
			continue
		}

		if currentTokens+sentenceTokens > c.cfg.MaxTokens && current.Len() > 0 {
			flush()
			overlap := c.overlapBefore(sentences, i)
			current.WriteString(overlap)
			currentTokens = c.countTokens(overlap)
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
		currentTokens += sentenceTokens
	}

	if current.Len() > 0 {
		flush()
	}

	return chunks
}

func (c *Chunker) sliceTokens(text string) []Chunk {
	tokens := c.enc.Encode(text, nil, nil)

	var chunks []Chunk
	for i := 0; i < len(tokens); i += c.cfg.MaxTokens {
		end := min(i+c.cfg.MaxTokens, len(tokens))
		chunks = append(chunks, Chunk{
			Text:      strings.TrimSpace(c.enc.Decode(tokens[i:end])),
			TokenSize: end - i,
		})
	}
	return chunks
}

func (c *Chunker) countTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

// overlapBefore collects whole sentences preceding idx until the overlap budget is met.
func (c *Chunker) overlapBefore(sentences []string, idx int) string {
	if idx == 0 || c.cfg.OverlapTokens == 0 {
		return ""
	}

	var overlap []string
	tokens := 0
	for i := idx - 1; i >= 0 && tokens < c.cfg.OverlapTokens; i-- {
		overlap = append([]string{sentences[i]}, overlap...)
		tokens += c.countTokens(sentences[i])
	}
	return strings.Join(overlap, " ")
}

var sentenceEnders = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true, '．': true, '…': true,
}

func splitSentences(text string) []string {
	var sentences []string

	for _, para := range splitParagraphs(text) {
		var current strings.Builder
		runes := []rune(para)

		for i, r := range runes {
			current.WriteRune(r)

			// A sentence ends only before whitespace, end of text or CJK.
			if sentenceEnders[r] && (i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) || isCJK(runes[i+1])) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) == 0 && text != "" {
		return []string{text}
	}
	return sentences
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		// single newlines are soft wraps
		p = strings.TrimSpace(strings.ReplaceAll(p, "\n", " "))
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
