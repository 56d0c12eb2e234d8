// Package highlight renders feed documents as syntax highlighted HTML.
package highlight

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
)

const styleName = "github"

var formatter = html.New(
	html.WithClasses(true),
	html.WithLineNumbers(true),
	html.LineNumbersInTable(true),
	html.Standalone(false),
	html.TabWidth(2),
)

func style() *chroma.Style {
	if s := styles.Get(styleName); s != nil {
		return s
	}

	return styles.Fallback
}

// CSS writes the stylesheet matching the classes emitted by XML.
func CSS(w io.Writer) error {
	return formatter.WriteCSS(w, style())
}

// XML returns doc as a highlighted HTML fragment styled by CSS.
func XML(doc []byte) (template.HTML, error) {
	lexer := lexers.Get("xml")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, string(doc))
	if err != nil {
		return "", fmt.Errorf("failed to tokenise document: %w", err)
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style(), iterator); err != nil {
		return "", fmt.Errorf("failed to format document: %w", err)
	}

	// #nosec G203 -- chroma escapes token values
	return template.HTML(buf.String()), nil
}
