package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"
)

// Block is the rendered markdown copy of one section in one locale.
type Block struct {
	ID       string
	Lang     string
	Badge    string
	Title    string
	Subtitle string
	CTA      string
	HTML     template.HTML
	Excerpt  string
}

type blockFrontMatter struct {
	Badge    string `yaml:"badge"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	CTA      string `yaml:"cta"`
}

const excerptRunes = 160

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
	blockPolicy = newBlockPolicy()
)

func newBlockPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span", "ul")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// readBlock loads <dir>/sections/<lang>/<id>.md. A missing file yields ErrNotFound.
func readBlock(fsys fs.FS, dir, lang, id string) (Block, error) {
	file := path.Join(dir, "sections", lang, id+".md")
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Block{}, ErrNotFound
		}
		return Block{}, err
	}
	fm, body := splitFrontMatter(string(data))
	front := blockFrontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Block{}, fmt.Errorf("content: parse front matter %s: %w", file, err)
		}
	}
	rendered, err := renderMarkdown(body)
	if err != nil {
		return Block{}, fmt.Errorf("content: render %s: %w", file, err)
	}
	return Block{
		ID:       id,
		Lang:     lang,
		Badge:    strings.TrimSpace(front.Badge),
		Title:    strings.TrimSpace(front.Title),
		Subtitle: strings.TrimSpace(front.Subtitle),
		CTA:      strings.TrimSpace(front.CTA),
		HTML:     template.HTML(rendered),
		Excerpt:  Excerpt(rendered, excerptRunes),
	}, nil
}

// renderMarkdown converts markdown to sanitized HTML.
func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(blockPolicy.Sanitize(buf.String())), nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

// Excerpt returns the text of the first paragraph of an HTML fragment,
// whitespace collapsed and cut at limit runes on a word boundary.
func Excerpt(fragment string, limit int) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"})
	if err != nil {
		return ""
	}
	var text string
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			text = collectText(n)
			break
		}
	}
	if text == "" {
		var sb strings.Builder
		for _, n := range nodes {
			sb.WriteString(collectText(n))
			sb.WriteByte(' ')
		}
		text = sb.String()
	}
	text = strings.Join(strings.Fields(text), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
