// Package customtext loads user-supplied practice text from plain or Markdown files.
package customtext

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Load reads a custom text file. Files ending in .md or .markdown are reduced to their prose.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read custom text: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FromMarkdown(data), nil
	default:
		return Normalize(string(data)), nil
	}
}

// Resolve returns inline text when set, otherwise the contents of path, otherwise "".
func Resolve(inline, path string) (string, error) {
	if s := Normalize(inline); s != "" {
		return s, nil
	}
	if path == "" {
		return "", nil
	}
	return Load(path)
}

// Normalize collapses all whitespace runs into single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FromMarkdown extracts the typeable prose of a Markdown document.
// Code blocks, raw HTML, images and autolinks are dropped; inline code is kept.
func FromMarkdown(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var buf bytes.Buffer
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML, *ast.Image, *ast.AutoLink:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		default:
			if !entering && n.Type() == ast.TypeBlock {
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return ""
	}
	return Normalize(buf.String())
}
