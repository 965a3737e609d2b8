package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
)

func setup(t *testing.T, files map[string]string) (*Pipeline, string, string) {
	t.Helper()
	src, out := t.TempDir(), t.TempDir()
	for name, body := range files {
		path := filepath.Join(src, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return NewPipeline(src, out, false), src, out
}

func readOut(t *testing.T, out, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(out, name))
	require.NoError(t, err)
	return string(data)
}

func TestCopyAssets(t *testing.T) {
	png := string([]byte{0x89, 'P', 'N', 'G', 0x00, 0xff})
	p, _, out := setup(t, map[string]string{
		"favicon.png": png,
		"search.svg":  `<svg width="1"/>`,
	})

	require.NoError(t, p.CopyAssets("favicon.png", "search.svg"))
	assert.Equal(t, png, readOut(t, out, "favicon.png"))
	assert.Equal(t, `<svg width="1"/>`, readOut(t, out, "search.svg"))
}

func TestCopyAssets_Missing(t *testing.T) {
	p, _, _ := setup(t, nil)
	err := p.CopyAssets("favicon.png")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategorySource))
}

func TestBundleCSS_MinifiesEachFileAndNamesAfterLast(t *testing.T) {
	p, _, out := setup(t, map[string]string{
		"reset.css": "body {\n  margin : 0px;\n}\n",
		"style.css": "a {\n  color : #ff0000;\n}\n",
	})

	path, err := p.BundleCSS("reset.css", "style.css")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "style.css"), path)
	assert.Equal(t, "body{margin:0}a{color:red}", readOut(t, out, "style.css"))
	assert.NoFileExists(t, filepath.Join(out, "reset.css"))
}

func TestBundleJS_ConcatenatesRaw(t *testing.T) {
	p, _, out := setup(t, map[string]string{
		"lib/lunr.js":     "var lunr = 1;\n",
		"lib/mustache.js": "var Mustache = 2;\n",
		"app.js":          "// app\nconsole.log( lunr,  Mustache );\n",
	})

	path, err := p.BundleJS("lib/lunr.js", "lib/mustache.js", "app.js")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "app.js"), path)
	assert.Equal(t, "var lunr = 1;\nvar Mustache = 2;\n// app\nconsole.log( lunr,  Mustache );\n", readOut(t, out, "app.js"))
}

func TestBundleJS_LastNameInSubdirectory(t *testing.T) {
	p, _, out := setup(t, map[string]string{
		"app.js":      "a();",
		"lib/tail.js": "b();",
	})

	_, err := p.BundleJS("app.js", "lib/tail.js")
	require.NoError(t, err)
	assert.Equal(t, "a();b();", readOut(t, out, "lib/tail.js"))
}

func TestBundleJS_OptionalMinify(t *testing.T) {
	p, _, out := setup(t, map[string]string{
		"app.js": "function add ( a, b ) {\n  return a + b;\n}\n",
	})
	p.MinifyJS = true

	_, err := p.BundleJS("app.js")
	require.NoError(t, err)
	minified := readOut(t, out, "app.js")
	assert.NotContains(t, minified, "\n")
	assert.Less(t, len(minified), len("function add ( a, b ) {\n  return a + b;\n}\n"))
}

func TestBundle_Errors(t *testing.T) {
	p, _, _ := setup(t, map[string]string{"style.css": "a{}"})

	_, err := p.BundleCSS()
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = p.BundleCSS("style.css", "missing.css")
	assert.True(t, errors.HasCategory(err, errors.CategorySource))
}
