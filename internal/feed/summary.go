package feed

import (
	"strings"

	"golang.org/x/net/html"
)

const summaryRuneLimit = 280

// summarize derives a plain-text summary from a post body when the
// author did not write one.
func summarize(body string) string {
	text := stripHTMLToText(body)
	runes := []rune(text)
	if len(runes) <= summaryRuneLimit {
		return text
	}
	cut := string(runes[:summaryRuneLimit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

func stripHTMLToText(input string) string {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return ""
	}

	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if b.Len() > 0 {
					b.WriteString(" ")
				}
				b.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}
