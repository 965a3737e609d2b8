// Package render writes the HTML pages of the site: one page per icon, the
// homepage and the static pages.
package render

import (
	"os"
	"path/filepath"

	"github.com/cbroglie/mustache"

	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
)

// TemplateFiles names the template sources relative to the source directory.
type TemplateFiles struct {
	Icon     string
	Homepage string
	Partials map[string]string // partial name -> file
}

// TemplateSet is the template text loaded for one build.
type TemplateSet struct {
	Icon     string
	Homepage string
	Partials map[string]string // partial name -> text
}

// LoadTemplates reads every template and partial named in files from sourceDir.
func LoadTemplates(sourceDir string, files TemplateFiles) (*TemplateSet, error) {
	set := &TemplateSet{Partials: make(map[string]string, len(files.Partials))}

	var err error
	if set.Icon, err = readTemplate(sourceDir, files.Icon); err != nil {
		return nil, err
	}
	if set.Homepage, err = readTemplate(sourceDir, files.Homepage); err != nil {
		return nil, err
	}
	for name, file := range files.Partials {
		if set.Partials[name], err = readTemplate(sourceDir, file); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func readTemplate(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.SourceError("template unreadable").WithCause(err).WithContext("path", path).Build()
	}
	return string(data), nil
}

// compile parses a template against a fixed partial set.
func compile(name, text string, partials map[string]string) (*mustache.Template, error) {
	tmpl, err := mustache.ParseStringPartials(text, &mustache.StaticProvider{Partials: partials})
	if err != nil {
		return nil, errors.TransformError("template does not parse").WithCause(err).WithContext("template", name).Build()
	}
	return tmpl, nil
}

func execute(name string, tmpl *mustache.Template, data any) (string, error) {
	out, err := tmpl.Render(data)
	if err != nil {
		return "", errors.TransformError("template render failed").WithCause(err).WithContext("template", name).Build()
	}
	return out, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.FileSystemError("write page").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
