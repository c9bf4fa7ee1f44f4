package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// SimpleNormalizer flattens an HTML fragment to whitespace-collapsed text.
type SimpleNormalizer struct{}

func NewSimpleNormalizer() *SimpleNormalizer {
	return &SimpleNormalizer{}
}

func (n *SimpleNormalizer) Normalize(htmlContent string) (string, error) {
	if !strings.ContainsAny(htmlContent, "<&") {
		return strings.Join(strings.Fields(htmlContent), " "), nil
	}
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(ExtractText(doc)), " "), nil
}

// ExtractText concatenates the text nodes under n, skipping scripts and styles.
func ExtractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(ExtractText(c))
		if c.Type == html.ElementNode {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// cleanText is Normalize without the error, falling back to the raw input.
func cleanText(n Normalizer, s string) string {
	if n == nil {
		return strings.TrimSpace(s)
	}
	out, err := n.Normalize(s)
	if err != nil || out == "" {
		return strings.Join(strings.Fields(s), " ")
	}
	return out
}
