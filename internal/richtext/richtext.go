// Package richtext turns CMS structured documents into HTML fragments.
package richtext

import (
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/pristeneo/storefront/pkg/sanity"
)

// Renderer renders a structured document into an HTML fragment.
type Renderer interface {
	Render(doc json.RawMessage) (string, error)
}

type markDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href"`
}

type span struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

type node struct {
	Type     string           `json:"_type"`
	Style    string           `json:"style"`
	ListItem string           `json:"listItem"`
	Level    int              `json:"level"`
	MarkDefs []markDef        `json:"markDefs"`
	Children []span           `json:"children"`
	Asset    sanity.Reference `json:"asset"`
	Alt      string           `json:"alt"`
}

var blockTags = map[string]string{
	"normal":     "p",
	"h1":         "h1",
	"h2":         "h2",
	"h3":         "h3",
	"h4":         "h4",
	"h5":         "h5",
	"h6":         "h6",
	"blockquote": "blockquote",
}

var decorators = map[string]string{
	"strong":         "strong",
	"em":             "em",
	"code":           "code",
	"underline":      "u",
	"strike-through": "s",
}

const imageWidth = 1200

// PortableText renders Sanity Portable Text arrays.
type PortableText struct {
	projectID string
	dataset   string
}

func NewPortableText(projectID, dataset string) *PortableText {
	return &PortableText{projectID: projectID, dataset: dataset}
}

// Render escapes all text and link targets. Node types it does not know are
// skipped.
func (p *PortableText) Render(doc json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(doc))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}
	var nodes []node
	if err := json.Unmarshal(doc, &nodes); err != nil {
		return "", fmt.Errorf("decode portable text: %w", err)
	}

	var b strings.Builder
	var lists []string
	closeLists := func(depth int) {
		for len(lists) > depth {
			b.WriteString("</li></" + lists[len(lists)-1] + ">")
			lists = lists[:len(lists)-1]
		}
	}

	for _, n := range nodes {
		switch n.Type {
		case "block":
			if n.ListItem == "" {
				closeLists(0)
				p.writeBlock(&b, n)
				continue
			}
			tag := listTag(n.ListItem)
			level := n.Level
			if level < 1 {
				level = 1
			}
			closeLists(level)
			if len(lists) == level && lists[level-1] != tag {
				closeLists(level - 1)
			}
			if len(lists) == level {
				b.WriteString("</li><li>")
			}
			for len(lists) < level {
				b.WriteString("<" + tag + "><li>")
				lists = append(lists, tag)
			}
			writeSpans(&b, n)
		case "image":
			closeLists(0)
			p.writeImage(&b, n)
		default:
			closeLists(0)
		}
	}
	closeLists(0)
	return b.String(), nil
}

func (p *PortableText) writeBlock(b *strings.Builder, n node) {
	tag, ok := blockTags[n.Style]
	if !ok {
		tag = "p"
	}
	b.WriteString("<" + tag + ">")
	writeSpans(b, n)
	b.WriteString("</" + tag + ">")
}

func (p *PortableText) writeImage(b *strings.Builder, n node) {
	src := sanity.ImageURL(p.projectID, p.dataset, &sanity.Image{Asset: n.Asset}, sanity.ImageOptions{Width: imageWidth})
	if src == "" {
		return
	}
	fmt.Fprintf(b, `<figure><img src="%s" alt="%s"></figure>`, html.EscapeString(src), html.EscapeString(n.Alt))
}

func listTag(kind string) string {
	if kind == "number" {
		return "ol"
	}
	return "ul"
}

func writeSpans(b *strings.Builder, n node) {
	defs := make(map[string]markDef, len(n.MarkDefs))
	for _, d := range n.MarkDefs {
		defs[d.Key] = d
	}
	for _, s := range n.Children {
		if s.Type != "" && s.Type != "span" {
			continue
		}
		var closers []string
		for _, mark := range s.Marks {
			if tag, ok := decorators[mark]; ok {
				b.WriteString("<" + tag + ">")
				closers = append(closers, "</"+tag+">")
				continue
			}
			def, ok := defs[mark]
			if !ok || def.Type != "link" {
				continue
			}
			href, ok := safeHref(def.Href)
			if !ok {
				continue
			}
			b.WriteString(`<a href="` + html.EscapeString(href) + `">`)
			closers = append(closers, "</a>")
		}
		b.WriteString(strings.ReplaceAll(html.EscapeString(s.Text), "\n", "<br>"))
		for i := len(closers) - 1; i >= 0; i-- {
			b.WriteString(closers[i])
		}
	}
}

// safeHref accepts relative links and http, https, mailto and tel targets.
func safeHref(raw string) (string, bool) {
	href := strings.TrimSpace(raw)
	if href == "" {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return href, true
	default:
		return "", false
	}
}
