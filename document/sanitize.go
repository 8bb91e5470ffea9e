package document

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Content text fields may carry inline markup pasted by the user. Dangerous
// nodes (script/style/iframe) and event-handler or javascript: attributes
// are stripped before the value enters the document.

// sanitizedFields are the content keys treated as rich text.
var sanitizedFields = map[string]bool{
	"text":        true,
	"title":       true,
	"subtitle":    true,
	"quote":       true,
	"tagline":     true,
	"overlayText": true,
}

var droppedTags = map[string]bool{
	"script": true,
	"style":  true,
	"iframe": true,
	"object": true,
	"embed":  true,
}

func sanitizeContent(content map[string]any) map[string]any {
	out := make(map[string]any, len(content))
	for k, v := range content {
		if s, ok := v.(string); ok && sanitizedFields[k] && strings.ContainsRune(s, '<') {
			out[k] = sanitizeMarkup(s)
			continue
		}
		out[k] = v
	}
	return out
}

func sanitizeMarkup(in string) string {
	nodes, err := html.ParseFragment(strings.NewReader(in), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		// unparseable markup is kept as inert text
		return html.EscapeString(in)
	}
	var sb strings.Builder
	for _, n := range nodes {
		renderSafe(&sb, n)
	}
	return sb.String()
}

func renderSafe(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
		if droppedTags[n.Data] {
			return
		}
		sb.WriteByte('<')
		sb.WriteString(n.Data)
		for _, attr := range n.Attr {
			if strings.HasPrefix(strings.ToLower(attr.Key), "on") {
				continue
			}
			if strings.HasPrefix(strings.TrimSpace(strings.ToLower(attr.Val)), "javascript:") {
				continue
			}
			sb.WriteByte(' ')
			sb.WriteString(attr.Key)
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(attr.Val))
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderSafe(sb, c)
	}
	if n.Type == html.ElementNode && !voidTags[n.Data] {
		sb.WriteString("</")
		sb.WriteString(n.Data)
		sb.WriteByte('>')
	}
}

var voidTags = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "wbr": true,
}
