package chat

import (
	"fmt"

	"github.com/sandevgo/climaqa/internal/core"
)

// Sources renders answer metadata as "file, page N" lines without duplicates,
// keeping retrieval order.
func Sources(metadata []core.AnswerMetadata) []string {
	seen := make(map[core.AnswerMetadata]bool, len(metadata))
	out := make([]string, 0, len(metadata))
	for _, m := range metadata {
		if seen[m] || (m.SourceFile == "" && m.PageNumber == "") {
			continue
		}
		seen[m] = true

		switch {
		case m.PageNumber == "":
			out = append(out, m.SourceFile)
		case m.SourceFile == "":
			out = append(out, "page "+m.PageNumber)
		default:
			out = append(out, fmt.Sprintf("%s, page %s", m.SourceFile, m.PageNumber))
		}
	}
	return out
}
