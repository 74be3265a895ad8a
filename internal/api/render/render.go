// Package render plugs the embedded page templates into gin.
package render

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	ginrender "github.com/gin-gonic/gin/render"

	"github.com/martijn/quill/internal/core/domain"
)

const (
	layoutFile = "layout.html"
	layoutName = "layout"
)

// Page is the data every template receives. Form holds the submitted values
// so a re-rendered form keeps what the user typed.
type Page struct {
	Identity domain.Identity
	Error    string
	Form     any
	Posts    []*domain.Post
	Post     *domain.Post
	Status   int
	Message  string
}

// Templates is a gin HTMLRender with one template set per page, each page
// parsed together with the shared layout.
type Templates struct {
	pages map[string]*template.Template
}

var _ ginrender.HTMLRender = (*Templates)(nil)

// New parses every page under dir in fsys. Page names are paths relative to
// dir, e.g. "blog/index.html".
func New(fsys fs.FS, dir string) (*Templates, error) {
	layout, err := template.ParseFS(fsys, path.Join(dir, layoutFile))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	t := &Templates{pages: make(map[string]*template.Template)}
	err = fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}
		name := strings.TrimPrefix(p, dir+"/")
		if name == layoutFile {
			return nil
		}

		page, err := layout.Clone()
		if err != nil {
			return err
		}
		if _, err := page.ParseFS(fsys, p); err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		t.pages[name] = page
		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// Has reports whether a page with the given name was parsed
func (t *Templates) Has(name string) bool {
	_, ok := t.pages[name]
	return ok
}

func (t *Templates) Instance(name string, data any) ginrender.Render {
	page, ok := t.pages[name]
	if !ok {
		return missing{name: name}
	}
	return ginrender.HTML{
		Template: page,
		Name:     layoutName,
		Data:     data,
	}
}

type missing struct {
	name string
}

func (m missing) Render(w http.ResponseWriter) error {
	return fmt.Errorf("template %q not found", m.name)
}

func (m missing) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}
