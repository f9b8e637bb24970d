package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/pagebridge/pagebridge/internal/model"
)

// htmlTagPattern detects markup openings. Exported note formats emit
// either plain text or an HTML fragment; a single matching tag is enough
// to pick the HTML path, since plain text passes through the parser as a
// bare text node anyway.
var htmlTagPattern = regexp.MustCompile(`(?i)<[a-z!/]`)

// MarkdownConverter converts exported page bodies to Markdown.
// HTML fragments are parsed with golang.org/x/net/html and re-rendered as
// Markdown covering the elements note exports actually use: headings,
// paragraphs, line breaks, lists, emphasis, inline and fenced code, links
// and blockquotes. Plain text passes through unchanged. All output is
// normalized to NFC so titles and content compare bytewise regardless of
// how the source application composed its accents.
type MarkdownConverter struct{}

// NewMarkdownConverter creates a MarkdownConverter.
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{}
}

// Convert implements Converter.
func (c *MarkdownConverter) Convert(page model.Page, opts Options) (Result, error) {
	content := page.Content
	if htmlTagPattern.MatchString(content) {
		converted, err := htmlToMarkdown(content)
		if err != nil {
			return Result{}, fmt.Errorf("failed to convert page %q: %w", page.Title, err)
		}
		content = converted
	}

	content = norm.NFC.String(strings.TrimSpace(content))

	props := make(map[string]any)
	if opts.IncludeMetadata {
		if page.Metadata.Author != "" {
			props[model.PropertyAuthor] = page.Metadata.Author
		}
		if !page.Metadata.CreatedAt.IsZero() {
			props[model.PropertyCreated] = page.Metadata.CreatedAt.Format(time.RFC3339)
		}
		if !page.Metadata.UpdatedAt.IsZero() {
			props[model.PropertyUpdated] = page.Metadata.UpdatedAt.Format(time.RFC3339)
		}
	}

	return Result{Content: content, Properties: props}, nil
}

// htmlToMarkdown parses an HTML fragment and renders it as Markdown.
func htmlToMarkdown(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", err
	}

	r := &mdRenderer{}
	r.walk(doc)
	return r.result(), nil
}

// mdRenderer accumulates Markdown while walking an HTML node tree.
type mdRenderer struct {
	b strings.Builder
}

// walk renders one node and its children.
func (r *mdRenderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.b.WriteString(collapseSpace(n.Data))
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "head", "title":
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level, _ := strconv.Atoi(n.Data[1:]) //nolint:errcheck // Tag name guarantees a digit
			r.blockBreak()
			r.b.WriteString(strings.Repeat("#", level) + " ")
			r.walkChildren(n)
			r.blockBreak()
			return
		case "p", "div", "section", "article":
			r.blockBreak()
			r.walkChildren(n)
			r.blockBreak()
			return
		case "br":
			r.b.WriteString("\n")
			return
		case "strong", "b":
			r.wrapChildren(n, "**")
			return
		case "em", "i":
			r.wrapChildren(n, "*")
			return
		case "code":
			// Inline code unless inside <pre>, which handles it.
			if n.Parent != nil && n.Parent.Data == "pre" {
				r.walkChildren(n)
				return
			}
			r.wrapChildren(n, "`")
			return
		case "pre":
			r.blockBreak()
			r.b.WriteString("```\n")
			r.b.WriteString(strings.TrimRight(rawText(n), "\n"))
			r.b.WriteString("\n```")
			r.blockBreak()
			return
		case "a":
			r.renderLink(n)
			return
		case "ul":
			r.renderList(n, func(int) string { return "- " })
			return
		case "ol":
			r.renderList(n, func(i int) string { return strconv.Itoa(i+1) + ". " })
			return
		case "blockquote":
			r.blockBreak()
			inner := renderFragment(n)
			for _, line := range strings.Split(inner, "\n") {
				r.b.WriteString("> " + line + "\n")
			}
			r.blockBreak()
			return
		}
	}

	r.walkChildren(n)
}

// walkChildren renders all children of a node.
func (r *mdRenderer) walkChildren(n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		r.walk(child)
	}
}

// wrapChildren renders children surrounded by an inline marker,
// dropping the marker when the content is empty.
func (r *mdRenderer) wrapChildren(n *html.Node, marker string) {
	inner := renderFragment(n)
	if strings.TrimSpace(inner) == "" {
		return
	}
	r.b.WriteString(marker + inner + marker)
}

// renderLink renders an anchor as [text](href), or bare text without an href.
func (r *mdRenderer) renderLink(n *html.Node) {
	text := strings.TrimSpace(renderFragment(n))
	href := attr(n, "href")
	if href == "" {
		r.b.WriteString(text)
		return
	}
	if text == "" {
		text = href
	}
	r.b.WriteString("[" + text + "](" + href + ")")
}

// renderList renders li children with the given per-item marker.
func (r *mdRenderer) renderList(n *html.Node, marker func(index int) string) {
	r.blockBreak()
	i := 0
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.Data != "li" {
			continue
		}
		item := strings.TrimSpace(renderFragment(child))
		r.b.WriteString(marker(i) + item + "\n")
		i++
	}
	r.blockBreak()
}

// blockBreak separates block elements with a blank line. Runs of breaks
// are collapsed in result().
func (r *mdRenderer) blockBreak() {
	r.b.WriteString("\n\n")
}

// result returns the accumulated Markdown with whitespace tidied up.
func (r *mdRenderer) result() string {
	return tidy(r.b.String())
}

// renderFragment renders a node's children to a standalone string.
func renderFragment(n *html.Node) string {
	sub := &mdRenderer{}
	sub.walkChildren(n)
	return strings.TrimSpace(sub.b.String())
}

// rawText collects the raw text content of a node without Markdown markup.
// Used for code blocks where markup characters must survive verbatim.
func rawText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return b.String()
}

// attr returns the value of the named attribute, or an empty string.
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// spaceRuns matches runs of whitespace inside text nodes.
var spaceRuns = regexp.MustCompile(`[ \t\r\n]+`)

// collapseSpace collapses whitespace runs to single spaces, matching how
// browsers render inline HTML text.
func collapseSpace(s string) string {
	return spaceRuns.ReplaceAllString(s, " ")
}

// blankRuns matches three or more consecutive newlines.
var blankRuns = regexp.MustCompile(`\n{3,}`)

// tidy trims the output and collapses stacked blank lines left behind by
// adjacent block breaks.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.TrimLeft(line, " "), " ")
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
