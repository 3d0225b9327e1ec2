package templates

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed invitation
var embedded embed.FS

// Result is a rendered message.
type Result struct {
	Subject string
	HTML    string
	Text    string // processed markdown before HTML conversion
}

// Renderer turns markdown templates with YAML front matter into HTML
// messages. The "subject" front matter key is executed as a template with
// the same data as the body.
type Renderer struct {
	fs    fs.FS
	md    goldmark.Markdown
	cache map[string]*parsed
	mu    sync.RWMutex
}

type parsed struct {
	subject *template.Template
	body    *template.Template
}

// NewRenderer creates a renderer reading templates from fsys.
func NewRenderer(fsys fs.FS) *Renderer {
	return &Renderer{
		fs: fsys,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		cache: make(map[string]*parsed),
	}
}

// Default returns a renderer over the built-in invitation templates.
func Default() *Renderer {
	return NewRenderer(embedded)
}

// Render renders the named template with data.
func (r *Renderer) Render(ctx context.Context, name string, data any) (*Result, error) {
	tpl, err := r.load(name)
	if err != nil {
		return nil, err
	}

	var subject strings.Builder
	if tpl.subject != nil {
		if err := tpl.subject.Execute(&subject, data); err != nil {
			return nil, fmt.Errorf("%w: %s: subject: %v", ErrRenderFailed, name, err)
		}
	}

	var text bytes.Buffer
	if err := tpl.body.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	var body bytes.Buffer
	if err := r.md.Convert(text.Bytes(), &body); err != nil {
		return nil, fmt.Errorf("%w: %s: markdown: %v", ErrRenderFailed, name, err)
	}

	title := strings.TrimSpace(subject.String())
	page, err := Render(ctx, Layout(title, body.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: layout: %v", ErrRenderFailed, name, err)
	}

	return &Result{Subject: title, HTML: page, Text: text.String()}, nil
}

// RenderFirst renders the first of names that exists. Only missing
// templates fall through to the next name; any other failure is returned.
func (r *Renderer) RenderFirst(ctx context.Context, names []string, data any) (*Result, error) {
	for _, name := range names {
		res, err := r.Render(ctx, name, data)
		if errors.Is(err, ErrTemplateNotFound) {
			continue
		}
		return res, err
	}
	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, strings.Join(names, ", "))
}

func (r *Renderer) load(name string) (*parsed, error) {
	r.mu.RLock()
	tpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if tpl, ok := r.cache[name]; ok {
		return tpl, nil
	}

	content, err := fs.ReadFile(r.fs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	doc, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	tpl = &parsed{}
	if subject, ok := doc.Metadata["subject"].(string); ok && subject != "" {
		if tpl.subject, err = template.New(name + ":subject").Parse(subject); err != nil {
			return nil, fmt.Errorf("%w: %s: subject: %v", ErrRenderFailed, name, err)
		}
	}
	if tpl.body, err = template.New(name).Parse(doc.Body); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	r.cache[name] = tpl
	return tpl, nil
}
