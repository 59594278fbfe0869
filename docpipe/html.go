package docpipe

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
	regexp.MustCompile(`(?i)font-size\s*:\s*0[^1-9]`),
	regexp.MustCompile(`(?i)opacity\s*:\s*0[^.]`),
}

func hasHiddenStyle(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "style" {
			for _, pat := range hiddenStylePatterns {
				if pat.MatchString(a.Val) {
					return true
				}
			}
		}
	}
	return false
}

// HTMLText extracts the readable text of an HTML page. The main content
// region (<main>, <article>, falling back to <body>) is converted to
// markdown; when conversion fails or produces nothing, plain text collected
// from the DOM is used instead. Residual markup is sanitized away and the
// result is capped at the configured limit.
func (p *Pipeline) HTMLText(data []byte) string {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	root := findMainContent(doc)
	if root == nil {
		root = doc
	}

	text := ""
	var rendered bytes.Buffer
	if err := html.Render(&rendered, root); err == nil {
		// Sanitize before conversion: scripts, styles and event handlers
		// have no place in text destined for record fields.
		clean := p.sanitize.Sanitize(rendered.String())
		if md, err := p.md.ConvertString(clean); err == nil {
			text = strings.TrimSpace(md)
		}
	}
	if text == "" {
		text = collectHTMLText(root)
	}
	return p.Truncate(strings.TrimSpace(text))
}

// HTMLLinks returns anchor targets in document order, duplicates removed.
// Fragment-only and javascript: targets are skipped. No links is an empty
// list, not an error.
func (p *Pipeline) HTMLLinks(data []byte) []string {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			for _, a := range n.Attr {
				if a.Key != "href" {
					continue
				}
				href := strings.TrimSpace(a.Val)
				if href == "" || strings.HasPrefix(href, "#") ||
					strings.HasPrefix(strings.ToLower(href), "javascript:") {
					continue
				}
				if !seen[href] {
					seen[href] = true
					links = append(links, href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

// findMainContent returns the page's main content node: <main>, then
// <article>, then <body>.
func findMainContent(doc *html.Node) *html.Node {
	for _, a := range []atom.Atom{atom.Main, atom.Article, atom.Body} {
		if n := findElement(doc, a); n != nil {
			return n
		}
	}
	return nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// collectHTMLText extracts all visible text from a node subtree, skipping
// script/style blocks and elements hidden via inline styles.
func collectHTMLText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if sb.Len() > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
			if hasHiddenStyle(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
