package config

import (
	"maps"
	"time"
)

// Defaults reproduce the fixed layout the site was originally built with.
const (
	DefaultSourceDir     = "source"
	DefaultIconDir       = "icons"
	DefaultOutputDir     = "public"
	DefaultMetadataFile  = "_metadata.json"
	DefaultIconTemplate  = "icon.html"
	DefaultHomeTemplate  = "index.html"
	DefaultRenderWorkers = 4
	DefaultDebounce      = 300 * time.Millisecond
)

var (
	defaultPartials = map[string]string{
		"header": "header.html",
		"head":   "head.html",
		"footer": "footer.html",
	}
	defaultImages      = []string{"favicon.png", "search.svg"}
	defaultCSS         = []string{"style.css"}
	defaultJS          = []string{"lib/lunr.js", "lib/mustache.js", "app.js"}
	defaultStaticPages = []string{"license"}
)

// applyDefaults fills every unset field. Lists are only defaulted when the key is
// absent (nil); an explicit empty list for images or static pages is kept.
func applyDefaults(cfg *Config) {
	if cfg.Paths.Source == "" {
		cfg.Paths.Source = DefaultSourceDir
	}
	if cfg.Paths.Icons == "" {
		cfg.Paths.Icons = DefaultIconDir
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = DefaultOutputDir
	}
	if cfg.MetadataFile == "" {
		cfg.MetadataFile = DefaultMetadataFile
	}
	if cfg.Templates.Icon == "" {
		cfg.Templates.Icon = DefaultIconTemplate
	}
	if cfg.Templates.Homepage == "" {
		cfg.Templates.Homepage = DefaultHomeTemplate
	}
	if cfg.Templates.Partials == nil {
		cfg.Templates.Partials = maps.Clone(defaultPartials)
	}
	if cfg.Assets.Images == nil {
		cfg.Assets.Images = append([]string(nil), defaultImages...)
	}
	if cfg.Assets.CSS == nil {
		cfg.Assets.CSS = append([]string(nil), defaultCSS...)
	}
	if cfg.Assets.JS == nil {
		cfg.Assets.JS = append([]string(nil), defaultJS...)
	}
	if cfg.StaticPages == nil {
		cfg.StaticPages = append([]string(nil), defaultStaticPages...)
	}
	if cfg.Build.RenderWorkers == 0 {
		cfg.Build.RenderWorkers = DefaultRenderWorkers
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
}
