package catalog

import (
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"git.home.luguber.info/inful/iconsite/internal/foundation/errors"
)

// MetadataEntry is one value of the metadata index, keyed by icon file name.
type MetadataEntry struct {
	FileName string
	Title    string
	Tags     []string
}

// ReadMetadata parses the metadata index at path, preserving the document order of
// its keys. Every entry must carry a string title and an array of string tags.
func ReadMetadata(path string) ([]MetadataEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SourceError("metadata file unreadable").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return ParseMetadata(data, path)
}

// ParseMetadata parses metadata JSON; source names the origin in error context.
func ParseMetadata(data []byte, source string) ([]MetadataEntry, error) {
	invalid := func(msg string) *errors.ErrorBuilder {
		return errors.SourceError(msg).WithContext("path", source)
	}

	if !gjson.ValidBytes(data) {
		return nil, invalid("metadata is not valid JSON").Build()
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, invalid("metadata must be a JSON object keyed by file name").Build()
	}

	var (
		entries []MetadataEntry
		seen    = map[string]bool{}
		failure error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		entry, err := parseEntry(name, value)
		switch {
		case err != nil:
			failure = invalid(err.Error()).WithContext("file", name).Build()
		case seen[name]:
			failure = invalid("duplicate metadata key").WithContext("file", name).Build()
		default:
			seen[name] = true
			entries = append(entries, entry)
			return true
		}
		return false
	})
	if failure != nil {
		return nil, failure
	}
	return entries, nil
}

type entryError string

func (e entryError) Error() string { return string(e) }

func parseEntry(name string, value gjson.Result) (MetadataEntry, error) {
	if err := checkFileName(name); err != nil {
		return MetadataEntry{}, err
	}
	if !value.IsObject() {
		return MetadataEntry{}, entryError("metadata entry must be an object")
	}
	title := value.Get("title")
	if title.Type != gjson.String {
		return MetadataEntry{}, entryError("metadata entry needs a string title")
	}
	tags := value.Get("tags")
	if !tags.IsArray() {
		return MetadataEntry{}, entryError("metadata entry needs a tags array")
	}
	entry := MetadataEntry{FileName: name, Title: title.Str, Tags: []string{}}
	for _, tag := range tags.Array() {
		if tag.Type != gjson.String {
			return MetadataEntry{}, entryError("metadata tags must be strings")
		}
		entry.Tags = append(entry.Tags, tag.Str)
	}
	return entry, nil
}

// PageFileName is the rendered page written next to each icon's SVG.
const PageFileName = "index.html"

// checkFileName rejects keys that would escape the icon directory or the icon's
// output directory, or collide with the icon's page.
func checkFileName(name string) error {
	switch {
	case strings.EqualFold(name, PageFileName):
		return entryError("icon file name collides with the icon page")
	case name == "" || name == "." || name == "..":
		return entryError("invalid icon file name")
	case strings.ContainsAny(name, `/\`):
		return entryError("icon file name must not contain path separators")
	}
	return nil
}
