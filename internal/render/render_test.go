package render

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/iconsite/internal/catalog"
	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
)

var partials = map[string]string{
	"head":   "<title>{{title}}</title>",
	"header": "<header>Icons</header>",
	"footer": "<footer>end</footer>",
}

const iconTemplate = `<html><head>{{> head}}</head><body>{{> header}}<h1>{{title}}</h1><div class="icon">{{{svgString}}}</div><a href="{{fileName}}">download</a><ul>{{#tags}}<li>{{.}}</li>{{/tags}}</ul><p>#{{index}}</p>{{> footer}}</body></html>`

const homepageTemplate = `<html><body>{{> header}}<ul>{{#icons}}<li><a href="/icon/{{slug}}/">{{title}}</a></li>{{/icons}}</ul>{{> footer}}</body></html>`

func icon(index int, title, slug, file string) catalog.Icon {
	raw := `<svg width="8" height="8"><rect/></svg>`
	return catalog.Icon{
		Title:         title,
		Tags:          []string{"tag-" + slug},
		Index:         index,
		Slug:          slug,
		FileName:      file,
		RawSVG:        raw,
		NormalizedSVG: `<svg><rect/></svg>`,
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRenderIconPages(t *testing.T) {
	out := t.TempDir()
	r := &Renderer{OutputDir: out, Workers: 2}
	icons := []catalog.Icon{
		icon(1, "Arrow", "arrow", "arrow.svg"),
		icon(2, "Bell & Co", "bell-co", "bell.svg"),
		icon(3, "Cat", "cat", "cat.svg"),
	}

	require.NoError(t, r.RenderIconPages(context.Background(), iconTemplate, partials, icons))

	page := read(t, filepath.Join(out, "icon", "bell-co", "index.html"))
	assert.Contains(t, page, "<title>Bell &amp; Co</title>")
	assert.Contains(t, page, `<div class="icon"><svg><rect/></svg></div>`)
	assert.Contains(t, page, `<a href="bell.svg">download</a>`)
	assert.Contains(t, page, "<li>tag-bell-co</li>")
	assert.Contains(t, page, "<p>#2</p>")
	assert.Contains(t, page, "<footer>end</footer>")

	// The raw, not the normalized, SVG is published next to the page.
	assert.Equal(t, `<svg width="8" height="8"><rect/></svg>`, read(t, filepath.Join(out, "icon", "cat", "cat.svg")))
}

func TestRenderIconPages_LogsEachIcon(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	r := &Renderer{OutputDir: t.TempDir(), Workers: 1}
	icons := []catalog.Icon{icon(1, "Arrow", "arrow", "arrow.svg")}
	require.NoError(t, r.RenderIconPages(context.Background(), iconTemplate, partials, icons))

	assert.Contains(t, logs.String(), "slug=arrow")
	assert.Contains(t, logs.String(), "file=arrow.svg")
}

func TestRenderIconPages_DuplicateSlugFails(t *testing.T) {
	out := t.TempDir()
	r := &Renderer{OutputDir: out, Workers: 4}
	first := icon(1, "Star", "star", "star.svg")
	second := icon(2, "Star!", "star", "star-2.svg")

	err := r.RenderIconPages(context.Background(), iconTemplate, partials, []catalog.Icon{first, second})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAlreadyExists), "got %v", err)
	assert.Contains(t, err.Error(), "first=star.svg")
	assert.Contains(t, err.Error(), "file=star-2.svg")

	assert.NoFileExists(t, filepath.Join(out, "icon", "star", "star-2.svg"))
}

func TestRenderIconPages_DoesNotOverwriteExistingDirectory(t *testing.T) {
	out := t.TempDir()
	existing := filepath.Join(out, "icon", "star")
	require.NoError(t, os.MkdirAll(existing, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(existing, "index.html"), []byte("original"), 0o644))

	r := &Renderer{OutputDir: out}
	err := r.RenderIconPages(context.Background(), iconTemplate, partials, []catalog.Icon{icon(1, "Star", "star", "star.svg")})
	require.Error(t, err)
	assert.Equal(t, "original", read(t, filepath.Join(existing, "index.html")))
}

func TestRenderIconPages_EmptySlug(t *testing.T) {
	r := &Renderer{OutputDir: t.TempDir()}
	err := r.RenderIconPages(context.Background(), iconTemplate, partials, []catalog.Icon{icon(1, "", "", "blank.svg")})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategorySource))
}

func TestRenderIconPages_BadTemplate(t *testing.T) {
	r := &Renderer{OutputDir: t.TempDir()}
	err := r.RenderIconPages(context.Background(), "{{#open}}never closed", partials, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryTransform))
}

func TestRenderHomepage(t *testing.T) {
	out := t.TempDir()
	r := &Renderer{OutputDir: out}
	icons := []catalog.Icon{
		icon(1, "Arrow", "arrow", "arrow.svg"),
		icon(2, "Bell", "bell", "bell.svg"),
	}

	require.NoError(t, r.RenderHomepage(homepageTemplate, partials, icons))

	f, err := os.Open(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	defer f.Close()
	doc, err := html.Parse(f)
	require.NoError(t, err)

	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key == "href" {
					hrefs = append(hrefs, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	assert.Equal(t, []string{"/icon/arrow/", "/icon/bell/"}, hrefs)
}

func TestRenderStaticPages(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	license := "<html>{{not a template}}</html>\n"
	require.NoError(t, os.WriteFile(filepath.Join(src, "license.html"), []byte(license), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "about.md"), []byte("# About\n\nIcons *here*.\n"), 0o644))

	r := &Renderer{SourceDir: src, OutputDir: out}
	require.NoError(t, r.RenderStaticPages("license", "about"))

	assert.Equal(t, license, read(t, filepath.Join(out, "license", "index.html")))
	about := read(t, filepath.Join(out, "about", "index.html"))
	assert.True(t, strings.HasPrefix(about, "<h1>About</h1>"), about)
	assert.Contains(t, about, "<em>here</em>")
}

func TestRenderStaticPages_Failures(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	r := &Renderer{SourceDir: src, OutputDir: out}

	err := r.RenderStaticPages("missing")
	assert.True(t, errors.HasCategory(err, errors.CategorySource), "got %v", err)

	require.NoError(t, os.WriteFile(filepath.Join(src, "icon.html"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(out, "icon"), 0o755))
	err = r.RenderStaticPages("icon")
	assert.True(t, errors.HasCategory(err, errors.CategoryAlreadyExists), "got %v", err)
}

func TestLoadTemplates(t *testing.T) {
	src := t.TempDir()
	for name, body := range map[string]string{
		"icon.html":   "I",
		"index.html":  "H",
		"header.html": "hd",
		"head.html":   "h",
		"footer.html": "f",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(body), 0o644))
	}

	files := TemplateFiles{
		Icon:     "icon.html",
		Homepage: "index.html",
		Partials: map[string]string{"header": "header.html", "head": "head.html", "footer": "footer.html"},
	}
	set, err := LoadTemplates(src, files)
	require.NoError(t, err)
	assert.Equal(t, "I", set.Icon)
	assert.Equal(t, "H", set.Homepage)
	assert.Equal(t, map[string]string{"header": "hd", "head": "h", "footer": "f"}, set.Partials)

	require.NoError(t, os.Remove(filepath.Join(src, "footer.html")))
	_, err = LoadTemplates(src, files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "footer.html")
}
