// Package pages renders the public marketing pages from markdown.
package pages

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

//go:embed content/*.md
var embedded embed.FS

// ErrNotFound is returned for a page name that has no content.
var ErrNotFound = errors.New("page not found")

// Names lists the pages in navigation order.
var Names = []string{"home", "about", "services", "contact"}

// Page is a rendered page body.
type Page struct {
	Name    string
	Title   string
	Content template.HTML
}

// Renderer turns page markdown into HTML documents.
type Renderer struct {
	md       goldmark.Markdown
	tmpl     *template.Template
	override fs.FS
	siteName string
}

// New creates a Renderer. Files in dir, when dir is set, take precedence
// over the built-in content.
func New(dir string) (*Renderer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		tmpl:     tmpl,
		siteName: "Lunar Antiques",
	}
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("content directory: %w", err)
		}
		r.override = os.DirFS(dir)
	}
	return r, nil
}

func known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

func (r *Renderer) source(name string) ([]byte, error) {
	if !known(name) {
		return nil, ErrNotFound
	}
	file := name + ".md"
	if r.override != nil {
		data, err := fs.ReadFile(r.override, file)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
	}
	data, err := embedded.ReadFile("content/" + file)
	if err != nil {
		return nil, ErrNotFound
	}
	return data, nil
}

// Page converts the named page's markdown to HTML.
func (r *Renderer) Page(name string) (Page, error) {
	src, err := r.source(name)
	if err != nil {
		return Page{}, err
	}

	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return Page{}, fmt.Errorf("converting markdown: %w", err)
	}
	return Page{
		Name:    name,
		Title:   extractTitle(string(src), name),
		Content: template.HTML(buf.String()),
	}, nil
}

type navLink struct {
	Href   string
	Label  string
	Active bool
}

type pageData struct {
	Page
	SiteName string
	Nav      []navLink
}

// Render writes the full HTML document for the named page.
func (r *Renderer) Render(w io.Writer, name string) error {
	p, err := r.Page(name)
	if err != nil {
		return err
	}

	data := pageData{Page: p, SiteName: r.siteName}
	for _, n := range Names {
		href := "/" + n
		if n == "home" {
			href = "/"
		}
		data.Nav = append(data.Nav, navLink{
			Href:   href,
			Label:  strings.ToUpper(n[:1]) + n[1:],
			Active: n == name,
		})
	}
	return r.tmpl.Execute(w, data)
}

// extractTitle returns the first level-one heading, or the page name.
func extractTitle(content, name string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return name
}
