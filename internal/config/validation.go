package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	invalid := func(msg, key string) error {
		return errors.ConfigError(msg).WithContext("key", key).Build()
	}

	switch {
	case len(cfg.Assets.CSS) == 0:
		return invalid("at least one stylesheet is required", "assets.css")
	case len(cfg.Assets.JS) == 0:
		return invalid("at least one script is required", "assets.js")
	case cfg.Build.RenderWorkers < 0:
		return invalid("render workers must not be negative", "build.render_workers")
	case cfg.Watch.Debounce < 0:
		return invalid("debounce must not be negative", "watch.debounce")
	}

	for _, name := range cfg.StaticPages {
		if reason := checkRelative(name); reason != "" {
			return invalid("static page "+reason, "static_pages")
		}
	}
	for _, group := range [][]string{cfg.Assets.Images, cfg.Assets.CSS, cfg.Assets.JS} {
		for _, name := range group {
			if reason := checkRelative(name); reason != "" {
				return invalid("asset "+reason, "assets")
			}
		}
	}
	for name := range cfg.Templates.Partials {
		if name == "" {
			return invalid("partial names must not be empty", "templates.partials")
		}
	}

	out := cfg.OutputDir()
	for key, dir := range map[string]string{"paths.source": cfg.SourceDir(), "paths.icons": cfg.IconDir()} {
		if within(dir, out) {
			// Clearing the output would delete the sources.
			return errors.ConfigError("output directory must not contain a source directory").
				WithContext("key", key).
				WithContext("output", out).
				WithContext("path", dir).
				Build()
		}
	}
	return nil
}

// checkRelative accepts clean relative paths that stay inside their root and
// returns the reason otherwise.
func checkRelative(name string) string {
	switch {
	case name == "":
		return "name must not be empty"
	case filepath.IsAbs(name):
		return "name must be relative"
	case filepath.Clean(filepath.FromSlash(name)) != filepath.FromSlash(name):
		return "name must be a clean path"
	case name == ".." || strings.HasPrefix(name, "../"):
		return "name must not leave its directory"
	}
	return ""
}

// within reports whether path equals root or lies below it.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
