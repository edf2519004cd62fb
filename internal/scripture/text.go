package scripture

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// plainText reduces verse content to its text. Content requested as text is
// normally plain already, but some translations still carry inline markup
// and entities, which are dropped and decoded here.
func plainText(content string) (string, error) {
	if !strings.ContainsAny(content, "<&") {
		return strings.TrimSpace(content), nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(content), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse content: %w", err)
	}

	var sb strings.Builder
	for _, n := range nodes {
		collectText(&sb, n)
	}
	return strings.TrimSpace(sb.String()), nil
}

// collectText appends the text of n and its descendants, skipping notes.
func collectText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if hasClass(n, "note") || n.DataAtom == atom.Sup {
			return
		}
		if n.DataAtom == atom.Br {
			sb.WriteString(" ")
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(sb, c)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}
