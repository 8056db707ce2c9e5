// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Document is the text content extracted from one HTML page.
type Document struct {
	// Title is the contents of the <title> element.
	Title string

	// MetaDescription is the content attribute of <meta name="description">.
	MetaDescription string

	// Text is the visible page text with script and style subtrees removed
	// and whitespace collapsed to single spaces.
	Text string
}

// ParseDocument parses HTML and extracts the title, meta description, and
// flattened visible text.
func ParseDocument(body []byte) (Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return Document{}, err
	}

	var doc Document
	var text strings.Builder
	walk(root, &doc, &text)
	doc.Text = collapse(text.String())
	doc.Title = collapse(doc.Title)
	doc.MetaDescription = collapse(doc.MetaDescription)
	return doc, nil
}

// walk visits the node tree, skipping script/style subtrees and collecting
// title, meta description, and text nodes.
func walk(n *html.Node, doc *Document, text *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		case "title":
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				doc.Title = n.FirstChild.Data
			}
		case "meta":
			if attr(n, "name") == "description" {
				doc.MetaDescription = attr(n, "content")
			}
		}
	}
	if n.Type == html.TextNode {
		text.WriteString(n.Data)
		text.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, doc, text)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// collapse joins all whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
