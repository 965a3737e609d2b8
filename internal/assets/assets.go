// Package assets copies static files and writes the CSS and JS bundles.
package assets

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"

	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
)

const (
	mediaCSS = "text/css"
	mediaJS  = "application/javascript"
)

// Pipeline moves assets from SourceDir into OutputDir.
type Pipeline struct {
	SourceDir string
	OutputDir string
	// MinifyJS minifies each script before concatenation. Off by default: the
	// JS bundle is a plain concatenation.
	MinifyJS bool

	m *minify.M
}

// NewPipeline returns a pipeline with CSS and JS minifiers registered.
func NewPipeline(sourceDir, outputDir string, minifyJS bool) *Pipeline {
	m := minify.New()
	m.AddFunc(mediaCSS, css.Minify)
	m.AddFunc(mediaJS, js.Minify)
	return &Pipeline{SourceDir: sourceDir, OutputDir: outputDir, MinifyJS: minifyJS, m: m}
}

// CopyAssets copies each named file byte for byte to the same relative path
// under the output directory.
func (p *Pipeline) CopyAssets(names ...string) error {
	for _, name := range names {
		data, err := p.read(name)
		if err != nil {
			return err
		}
		if err := p.write(name, data); err != nil {
			return err
		}
	}
	return nil
}

// BundleCSS minifies each named stylesheet on its own, concatenates the results
// and writes them to the output path of the last name. It returns that path.
func (p *Pipeline) BundleCSS(names ...string) (string, error) {
	return p.bundle(names, func(name string, src []byte) ([]byte, error) {
		return p.minify(mediaCSS, name, src)
	})
}

// BundleJS concatenates the named scripts and writes them to the output path of
// the last name. Scripts are copied unchanged unless MinifyJS is set.
func (p *Pipeline) BundleJS(names ...string) (string, error) {
	return p.bundle(names, func(name string, src []byte) ([]byte, error) {
		if !p.MinifyJS {
			return src, nil
		}
		return p.minify(mediaJS, name, src)
	})
}

// bundle names the output after the last input; earlier inputs only contribute
// content.
func (p *Pipeline) bundle(names []string, transform func(string, []byte) ([]byte, error)) (string, error) {
	if len(names) == 0 {
		return "", errors.ConfigError("bundle needs at least one input file").Build()
	}
	var buf bytes.Buffer
	for _, name := range names {
		src, err := p.read(name)
		if err != nil {
			return "", err
		}
		out, err := transform(name, src)
		if err != nil {
			return "", err
		}
		buf.Write(out)
	}
	lastName := names[len(names)-1]
	if err := p.write(lastName, buf.Bytes()); err != nil {
		return "", err
	}
	return filepath.Join(p.OutputDir, lastName), nil
}

func (p *Pipeline) minify(mediatype, name string, src []byte) ([]byte, error) {
	out, err := p.m.Bytes(mediatype, src)
	if err != nil {
		return nil, errors.TransformError("minification failed").
			WithCause(err).
			WithContext("path", filepath.Join(p.SourceDir, name)).
			Build()
	}
	return out, nil
}

func (p *Pipeline) read(name string) ([]byte, error) {
	path := filepath.Join(p.SourceDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SourceError("asset unreadable").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return data, nil
}

func (p *Pipeline) write(name string, data []byte) error {
	path := filepath.Join(p.OutputDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.FileSystemError("create asset directory").WithCause(err).WithContext("path", path).Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.FileSystemError("write asset").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
