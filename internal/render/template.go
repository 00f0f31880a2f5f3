package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"

	"trainsite/internal/domain/content"
	"trainsite/internal/domain/site"
)

// Lookup resolves the ids carried in page contexts. index.Store implements it.
type Lookup interface {
	GetByID(id string) (content.Node, error)
	GetTrack(slug string) (content.Track, error)
}

type TemplateRenderer struct {
	tpl *template.Template
}

func NewTemplateRenderer(themeDir, themeName string, lk Lookup, md *MarkdownRenderer) (*TemplateRenderer, error) {
	pattern := filepath.Join(themeDir, themeName, "templates", "*.tmpl")
	tpl, err := template.New("").Funcs(templateFuncs(lk, md)).ParseGlob(pattern)
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs(lk Lookup, md *MarkdownRenderer) template.FuncMap {
	return template.FuncMap{
		"node": func(id string) (content.Node, error) {
			return lk.GetByID(id)
		},
		"nodes": func(ids []string) ([]content.Node, error) {
			out := make([]content.Node, 0, len(ids))
			for _, id := range ids {
				n, err := lk.GetByID(id)
				if err != nil {
					return nil, fmt.Errorf("node %s: %w", id, err)
				}
				out = append(out, n)
			}
			return out, nil
		},
		"track": func(slug string) (content.Track, error) {
			return lk.GetTrack(slug)
		},
		"markdown": func(n content.Node) (template.HTML, error) {
			if n.Body.SourcePath == "" {
				return "", nil
			}
			res, err := md.RenderFile(n.Body.SourcePath)
			if err != nil {
				return "", err
			}
			return template.HTML(res.HTML), nil
		},
		// toc lists the headings of a node's markdown body.
		"toc": func(n content.Node) ([]Heading, error) {
			if n.Body.SourcePath == "" {
				return nil, nil
			}
			res, err := md.RenderFile(n.Body.SourcePath)
			if err != nil {
				return nil, err
			}
			return res.Headings, nil
		},
		"url": func(basePath, p string) string {
			u := path.Join("/", basePath, p)
			if u == "/" {
				return u
			}
			return u + "/"
		},
		"date": func(t interface{}, layout string) string {
			switch v := t.(type) {
			case nil:
				return ""
			case string:
				return v
			case interface{ Format(string) string }:
				return v.Format(layout)
			default:
				return ""
			}
		},
		"dict": dict,
		"join": strings.Join,
		"add":  func(a, b int) int { return a + b },
		"sub":  func(a, b int) int { return a - b },
	}
}

// dict builds a map from alternating keys and values, for passing several
// values to a nested template.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

func (r *TemplateRenderer) Render(ctx context.Context, tmpl site.Template, page PageData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.exec(tmpl.File(), page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CheckThemeTemplates reports the first template the theme is missing.
func CheckThemeTemplates(templatesDir string) error {
	for _, t := range site.Templates {
		if _, err := os.Stat(filepath.Join(templatesDir, t.File())); err != nil {
			return fmt.Errorf("missing template: %s", t.File())
		}
	}
	return nil
}
