package conv

import (
	"strings"

	"github.com/inbucket/html2text"
)

// HTMLToText renders an HTML document as plain text. Links are dropped.
func HTMLToText(doc string) (string, error) {
	text, err := html2text.FromString(doc, html2text.Options{OmitLinks: true})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
