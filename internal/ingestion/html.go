package ingestion

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var htmlNoiseSelectors = []string{"script", "style", "noscript", "template", "head", "nav", "footer"}

const htmlBlockSelector = "p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, header, blockquote, pre, table, ul, ol"

// ExtractHTMLText returns the visible text of an HTML document. Block elements
// end lines; table cells are separated by tabs so tabular rows stay columnar.
func ExtractHTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ExtractionError{Format: FormatHTML, Message: "failed to parse HTML", Cause: err}
	}

	for _, selector := range htmlNoiseSelectors {
		doc.Find(selector).Remove()
	}

	doc.Find("td, th").Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(textNode("\t"))
	})
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(textNode("\n"))
	})
	doc.Find(htmlBlockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(textNode("\n"))
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}

func textNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}
