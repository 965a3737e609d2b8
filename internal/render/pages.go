package render

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/iconsite/internal/catalog"
	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
	"git.home.luguber.info/inful/iconsite/internal/logfields"
	"git.home.luguber.info/inful/iconsite/internal/observability"
)

// IconRoot is the output subdirectory holding one directory per icon.
const IconRoot = "icon"

// Renderer writes pages below OutputDir. Static pages are read from SourceDir.
type Renderer struct {
	SourceDir string
	OutputDir string
	// Workers bounds concurrent page writes; values below 1 mean sequential.
	Workers int
}

// RenderIconPages creates icon/<slug>/ for every icon, rendering template into
// index.html and copying the raw SVG next to it under its original file name.
//
// Directories are claimed one by one in catalog order with a non-recursive mkdir,
// so when two icons share a slug the second fails and the first icon's files
// are never overwritten. Page bodies are written concurrently afterwards.
func (r *Renderer) RenderIconPages(ctx context.Context, template string, partials map[string]string, icons []catalog.Icon) error {
	tmpl, err := compile("icon", template, partials)
	if err != nil {
		return err
	}

	root := filepath.Join(r.OutputDir, IconRoot)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return errors.FileSystemError("create icon directory").WithCause(err).WithContext("path", root).Build()
	}

	owners := make(map[string]string, len(icons))
	for _, icon := range icons {
		if err := reserveIconDir(root, icon, owners); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Workers, 1))
	for _, icon := range icons {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			html, err := execute("icon", tmpl, icon.TemplateData())
			if err != nil {
				return err
			}
			dir := filepath.Join(root, icon.Slug)
			if err := writeFile(filepath.Join(dir, catalog.PageFileName), []byte(html)); err != nil {
				return err
			}
			if err := writeFile(filepath.Join(dir, icon.FileName), []byte(icon.RawSVG)); err != nil {
				return err
			}
			observability.DebugContext(gctx, "Icon page written", logfields.Slug(icon.Slug), logfields.File(icon.FileName))
			return nil
		})
	}
	return g.Wait()
}

func reserveIconDir(root string, icon catalog.Icon, owners map[string]string) error {
	if icon.Slug == "" {
		return errors.SourceError("icon title produces an empty slug").WithContext("file", icon.FileName).Build()
	}
	dir := filepath.Join(root, icon.Slug)
	err := os.Mkdir(dir, 0o755)
	if err == nil {
		owners[icon.Slug] = icon.FileName
		return nil
	}
	if stderrors.Is(err, fs.ErrExist) {
		b := errors.AlreadyExistsError("icon slug already taken").
			WithCause(err).
			WithContext("slug", icon.Slug).
			WithContext("file", icon.FileName).
			WithContext("path", dir)
		if first, ok := owners[icon.Slug]; ok {
			b = b.WithContext("first", first)
		}
		return b.Build()
	}
	return errors.FileSystemError("create icon page directory").WithCause(err).WithContext("path", dir).Build()
}

// RenderHomepage renders template with the whole catalog bound to "icons" and
// writes it to index.html at the output root.
func (r *Renderer) RenderHomepage(template string, partials map[string]string, icons []catalog.Icon) error {
	tmpl, err := compile("homepage", template, partials)
	if err != nil {
		return err
	}
	list := make([]map[string]any, len(icons))
	for i, icon := range icons {
		list[i] = icon.TemplateData()
	}
	html, err := execute("homepage", tmpl, map[string]any{"icons": list})
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(r.OutputDir, "index.html"), []byte(html))
}

// RenderStaticPages copies <name>.html from the source directory to
// <name>/index.html for every name, without templating. When only <name>.md
// exists it is converted to HTML instead.
func (r *Renderer) RenderStaticPages(names ...string) error {
	for _, name := range names {
		body, err := r.staticPage(name)
		if err != nil {
			return err
		}
		dir := filepath.Join(r.OutputDir, name)
		if err := os.Mkdir(dir, 0o755); err != nil {
			if stderrors.Is(err, fs.ErrExist) {
				return errors.AlreadyExistsError("static page collides with existing output").WithCause(err).WithContext("path", dir).Build()
			}
			return errors.FileSystemError("create static page directory").WithCause(err).WithContext("path", dir).Build()
		}
		if err := writeFile(filepath.Join(dir, "index.html"), body); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) staticPage(name string) ([]byte, error) {
	htmlPath := filepath.Join(r.SourceDir, name+".html")
	data, err := os.ReadFile(htmlPath)
	if err == nil {
		return data, nil
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.SourceError("static page unreadable").WithCause(err).WithContext("path", htmlPath).Build()
	}

	mdPath := filepath.Join(r.SourceDir, name+".md")
	md, mdErr := os.ReadFile(mdPath)
	if mdErr != nil {
		return nil, errors.SourceError("static page source not found").WithCause(err).WithContext("path", htmlPath).Build()
	}
	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		return nil, errors.TransformError("markdown conversion failed").WithCause(err).WithContext("path", mdPath).Build()
	}
	return buf.Bytes(), nil
}
