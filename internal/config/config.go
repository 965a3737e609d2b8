// Package config loads the iconsite YAML configuration.
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "iconsite.yaml"

// Config represents the application configuration.
type Config struct {
	Paths        PathsConfig     `yaml:"paths"`
	MetadataFile string          `yaml:"metadata_file"`
	Templates    TemplatesConfig `yaml:"templates"`
	Assets       AssetsConfig    `yaml:"assets"`
	StaticPages  []string        `yaml:"static_pages"`
	Build        BuildConfig     `yaml:"build"`
	Watch        WatchConfig     `yaml:"watch"`
	Metrics      MetricsConfig   `yaml:"metrics"`

	// BaseDir anchors relative paths: the config file's directory, or the
	// working directory when running on defaults.
	BaseDir string `yaml:"-"`
}

// PathsConfig locates the source trees and the output directory.
type PathsConfig struct {
	Source string `yaml:"source"`
	Icons  string `yaml:"icons"`
	Output string `yaml:"output"`
}

// TemplatesConfig names the page templates and partials inside the source directory.
type TemplatesConfig struct {
	Icon     string            `yaml:"icon"`
	Homepage string            `yaml:"homepage"`
	Partials map[string]string `yaml:"partials,omitempty"`
}

// AssetsConfig lists the files copied or bundled into the output root.
type AssetsConfig struct {
	Images   []string `yaml:"images,omitempty"`
	CSS      []string `yaml:"css"`
	JS       []string `yaml:"js"`
	MinifyJS bool     `yaml:"minify_js"`
}

// BuildConfig tunes a single build pass.
type BuildConfig struct {
	RenderWorkers int `yaml:"render_workers"`
}

// WatchConfig tunes the watch-and-rebuild loop.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	// KeepGoing logs failed rebuilds and keeps watching instead of exiting.
	KeepGoing bool `yaml:"keep_going"`
}

// MetricsConfig enables the Prometheus endpoint in watch mode.
type MetricsConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.ConfigError("resolve config path").WithCause(err).WithContext("path", path).Build()
	}
	baseDir := filepath.Dir(absPath)
	if err := loadEnvFiles(baseDir); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.ConfigError("configuration file unreadable").WithCause(err).WithContext("path", absPath).Build()
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.ConfigError("configuration is not valid YAML").WithCause(err).WithContext("path", absPath).Build()
	}
	cfg.BaseDir = baseDir
	return finish(&cfg)
}

// LoadOrDefault behaves like Load but falls back to Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.RuntimeError("determine working directory").WithCause(err).Build()
		}
		if err := loadEnvFiles(wd); err != nil {
			return nil, err
		}
		cfg := &Config{BaseDir: wd}
		return finish(cfg)
	}
	return Load(path)
}

// Default returns the built-in configuration anchored at baseDir.
func Default(baseDir string) *Config {
	cfg := &Config{BaseDir: baseDir}
	applyDefaults(cfg)
	return cfg
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes an example configuration file with the default layout.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").WithContext("path", path).Build()
	}

	data, err := yaml.Marshal(Default(""))
	if err != nil {
		return errors.InternalError("marshal example configuration").WithCause(err).Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.FileSystemError("write configuration file").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}

// SourceDir returns the absolute template and asset source directory.
func (c *Config) SourceDir() string { return c.resolve(c.Paths.Source) }

// IconDir returns the absolute icon directory.
func (c *Config) IconDir() string { return c.resolve(c.Paths.Icons) }

// OutputDir returns the absolute output directory.
func (c *Config) OutputDir() string { return c.resolve(c.Paths.Output) }

// MetadataPath returns the absolute path of the metadata index.
func (c *Config) MetadataPath() string { return filepath.Join(c.IconDir(), c.MetadataFile) }

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.BaseDir, p)
}
