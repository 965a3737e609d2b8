// Package svg prepares icon markup for inline embedding.
package svg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrNoRootSVG is returned when the document's root element is not <svg>.
var ErrNoRootSVG = errors.New("svg: root element is not <svg>")

// strippedAttrs are removed from the root element so the icon scales with CSS.
var strippedAttrs = map[string]bool{"width": true, "height": true}

var entityDecl = regexp.MustCompile(`ENTITY\s+([A-Za-z_][\w.-]*)\s+(?:"([^"]*)"|'([^']*)')`)

// Normalize returns the outer markup of the root <svg> element with its width and
// height attributes removed. Everything else (other attributes, their order and
// quoting, namespace declarations, all children) is copied byte for byte; any
// prolog, doctype or trailing comments outside the root element are dropped.
// Malformed XML is reported as an error.
func Normalize(src string) (string, error) {
	start, tagEnd, end, err := locateRoot(src)
	if err != nil {
		return "", err
	}
	return stripAttrs(src[start:tagEnd]) + src[tagEnd:end], nil
}

// locateRoot decodes the whole document and returns the byte offsets of the root
// element's start tag and of its end.
func locateRoot(src string) (start, tagEnd, end int, err error) {
	dec := xml.NewDecoder(strings.NewReader(src))
	dec.Entity = map[string]string{}
	// Offsets must index src, so declared encodings are read as is.
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	start, tagEnd, end = -1, -1, -1
	depth := 0
	for {
		off := int(dec.InputOffset())
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, 0, 0, fmt.Errorf("svg: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.Directive:
			for _, m := range entityDecl.FindAllStringSubmatch(string(t), -1) {
				dec.Entity[m[1]] = m[2] + m[3]
			}
		case xml.StartElement:
			if depth == 0 && end >= 0 {
				return 0, 0, 0, fmt.Errorf("svg: parse: second root element <%s>", t.Name.Local)
			}
			if start < 0 {
				if t.Name.Local != "svg" {
					return 0, 0, 0, fmt.Errorf("%w: found <%s>", ErrNoRootSVG, t.Name.Local)
				}
				start, tagEnd = off, int(dec.InputOffset())
			}
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 && end < 0 {
				end = int(dec.InputOffset())
			}
		}
	}
	if start < 0 || end < 0 {
		return 0, 0, 0, ErrNoRootSVG
	}
	return start, tagEnd, end, nil
}

// stripAttrs removes the stripped attributes (and the whitespace before each)
// from an already validated start tag.
func stripAttrs(tag string) string {
	var b strings.Builder
	b.Grow(len(tag))

	i := strings.IndexFunc(tag, isSpace)
	if i < 0 {
		return tag
	}
	b.WriteString(tag[:i])
	for i < len(tag) {
		attrStart := i
		for i < len(tag) && isSpace(rune(tag[i])) {
			i++
		}
		if i >= len(tag) || tag[i] == '/' || tag[i] == '>' {
			b.WriteString(tag[attrStart:])
			break
		}
		nameStart := i
		for i < len(tag) && tag[i] != '=' && !isSpace(rune(tag[i])) {
			i++
		}
		name := tag[nameStart:i]
		for i < len(tag) && tag[i] != '=' {
			i++
		}
		i++ // '='
		for i < len(tag) && isSpace(rune(tag[i])) {
			i++
		}
		quote := tag[i]
		i++
		i += strings.IndexByte(tag[i:], quote) + 1
		if !strippedAttrs[name] {
			b.WriteString(tag[attrStart:i])
		}
	}
	return b.String()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
