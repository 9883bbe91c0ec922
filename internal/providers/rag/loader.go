package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandevgo/climaqa/pkg/conv"
)

// pageSeparator is the form feed pdftotext emits between pages.
const pageSeparator = "\f"

type Page struct {
	Number int
	Text   string
}

type Document struct {
	Path  string
	Name  string
	Pages []Page
}

var converters = map[string]func(string) (string, error){
	".txt":      func(s string) (string, error) { return s, nil },
	".md":       func(s string) (string, error) { return conv.MarkdownToText([]byte(s)) },
	".markdown": func(s string) (string, error) { return conv.MarkdownToText([]byte(s)) },
	".html":     conv.HTMLToText,
	".htm":      conv.HTMLToText,
}

func IsSupported(path string) bool {
	_, ok := converters[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadDocument reads a source file and splits it into 1-based pages.
// Files without form feeds are a single page.
func LoadDocument(path string) (Document, error) {
	convert, ok := converters[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Document{}, fmt.Errorf("unsupported file type: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	doc := Document{Path: path, Name: filepath.Base(path)}
	for i, part := range strings.Split(string(raw), pageSeparator) {
		text, err := convert(part)
		if err != nil {
			return Document{}, fmt.Errorf("convert %s page %d: %w", path, i+1, err)
		}
		doc.Pages = append(doc.Pages, Page{Number: i + 1, Text: text})
	}
	return doc, nil
}

// CleanText collapses all whitespace runs into single spaces.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ShouldSkipPage reports whether a page holds front or back matter
// such as a table of contents or a glossary.
func ShouldSkipPage(text string, markers []string) bool {
	lower := strings.ToLower(text)
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" && strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
