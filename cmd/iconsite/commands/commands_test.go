package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
)

func parse(t *testing.T, args ...string) (*kong.Context, *CLI) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx, cli
}

func TestParse_DefaultsToWatch(t *testing.T) {
	ctx, cli := parse(t)
	assert.Equal(t, "watch", ctx.Command())
	assert.Equal(t, "iconsite.yaml", filepath.Base(cli.Config))
}

func TestParse_Commands(t *testing.T) {
	ctx, cli := parse(t, "-c", "site.yaml", "watch", "--keep-going")
	assert.Equal(t, "watch", ctx.Command())
	assert.True(t, cli.Watch.KeepGoing)
	assert.Equal(t, "site.yaml", filepath.Base(cli.Config))

	ctx, cli = parse(t, "build", "--minify-js")
	assert.Equal(t, "build", ctx.Command())
	assert.True(t, cli.Build.MinifyJS)

	ctx, cli = parse(t, "init", "--force")
	assert.Equal(t, "init", ctx.Command())
	assert.True(t, cli.Init.Force)
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv("ICONSITE_LOG_LEVEL", "")
	assert.Equal(t, slog.LevelInfo, parseLogLevel(false))
	assert.Equal(t, slog.LevelDebug, parseLogLevel(true))

	t.Setenv("ICONSITE_LOG_LEVEL", "WARN")
	assert.Equal(t, slog.LevelWarn, parseLogLevel(false))
	t.Setenv("ICONSITE_LOG_LEVEL", "debug")
	assert.Equal(t, slog.LevelDebug, parseLogLevel(false))
}

func writeSite(t *testing.T, dir string, metadata string) {
	t.Helper()
	files := map[string]string{
		"source/icon.html":       `{{> head}}{{title}}{{> header}}{{> footer}}`,
		"source/index.html":      `{{#icons}}{{slug}} {{/icons}}`,
		"source/head.html":       ``,
		"source/header.html":     ``,
		"source/footer.html":     ``,
		"source/license.html":    `license`,
		"source/style.css":       `a { color: blue; }`,
		"source/app.js":          `app()`,
		"source/lib/lunr.js":     `lunr()`,
		"source/lib/mustache.js": `mustache()`,
		"source/favicon.png":     `png`,
		"source/search.svg":      `<svg/>`,
		"icons/_metadata.json":   metadata,
		"icons/a.svg":            `<svg width="1"/>`,
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
}

func TestBuildCmd(t *testing.T) {
	dir := t.TempDir()
	writeSite(t, dir, `{"a.svg": {"title": "A", "tags": []}}`)
	cfgPath := filepath.Join(dir, "iconsite.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("paths:\n  output: dist\n"), 0o600))

	require.NoError(t, (&BuildCmd{}).Run(&Global{}, &CLI{Config: cfgPath}))
	assert.FileExists(t, filepath.Join(dir, "dist", "index.html"))
	assert.FileExists(t, filepath.Join(dir, "dist", "icon", "a", "a.svg"))
	assert.FileExists(t, filepath.Join(dir, "dist", "license", "index.html"))
}

func TestBuildCmd_MissingIconExitCode(t *testing.T) {
	dir := t.TempDir()
	writeSite(t, dir, `{"missing.svg": {"title": "Missing", "tags": []}}`)
	cfgPath := filepath.Join(dir, "iconsite.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{}\n"), 0o600))

	err := (&BuildCmd{}).Run(&Global{}, &CLI{Config: cfgPath})
	require.Error(t, err)
	assert.Equal(t, 3, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.NoFileExists(t, filepath.Join(dir, "public", "index.html"))
}

func TestInitCmd(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "iconsite.yaml")
	root := &CLI{Config: cfgPath}

	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))
	assert.FileExists(t, cfgPath)

	err := (&InitCmd{}).Run(&Global{}, root)
	require.Error(t, err)
	assert.Equal(t, 2, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))
}
