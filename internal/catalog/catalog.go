// Package catalog loads the icon metadata index and the SVG files it references.
package catalog

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
	"git.home.luguber.info/inful/iconsite/internal/slug"
	"git.home.luguber.info/inful/iconsite/internal/svg"
)

// Icon is one catalog entry, created fresh for every build and never mutated.
type Icon struct {
	Title    string
	Tags     []string
	Index    int // 1-based, metadata order
	Slug     string
	FileName string
	// RawSVG is the file as read from disk; NormalizedSVG has the root width and
	// height removed for inline use.
	RawSVG        string
	NormalizedSVG string
}

// TemplateData exposes the icon under the variable names used by page templates.
func (i Icon) TemplateData() map[string]any {
	return map[string]any{
		"title":     i.Title,
		"tags":      i.Tags,
		"index":     i.Index,
		"slug":      i.Slug,
		"fileName":  i.FileName,
		"svg":       i.RawSVG,
		"svgString": i.NormalizedSVG,
	}
}

// Load reads the metadata index at metadataPath and builds one Icon per entry, in
// index order, reading each SVG from iconDir. A missing or malformed index, a
// missing SVG or an unparsable SVG aborts the load.
func Load(metadataPath, iconDir string) ([]Icon, error) {
	entries, err := ReadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	icons := make([]Icon, 0, len(entries))
	for i, entry := range entries {
		icon, err := loadIcon(entry, iconDir)
		if err != nil {
			return nil, err
		}
		icon.Index = i + 1
		icons = append(icons, icon)
	}
	return icons, nil
}

func loadIcon(entry MetadataEntry, iconDir string) (Icon, error) {
	path := filepath.Join(iconDir, entry.FileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return Icon{}, errors.SourceError("icon file referenced by metadata is unreadable").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	normalized, err := svg.Normalize(string(raw))
	if err != nil {
		return Icon{}, errors.TransformError("icon is not a well-formed SVG document").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return Icon{
		Title:         entry.Title,
		Tags:          entry.Tags,
		Slug:          slug.Make(entry.Title, entry.FileName),
		FileName:      entry.FileName,
		RawSVG:        string(raw),
		NormalizedSVG: normalized,
	}, nil
}
