package structargs

import (
	"regexp"
	"strings"
)

// Doc strings look like:
//
//  Fetches release metadata.
//
//  Attributes:
//  :name: the repository to look up
//  :stars: minimum star count
//
// Everything before the Attributes header is the general description; each
// :name: marker starts that field's description, running until the next
// marker.

var (
	attributesHeaderRe = regexp.MustCompile(`(?m)^[ \t]*Attributes:[ \t]*$`)
	attrMarkerRe       = regexp.MustCompile(`(?m)^[ \t]*:([A-Za-z_][A-Za-z0-9_]*):[ \t]*`)
	spaceRunRe         = regexp.MustCompile(` {2,}`)
)

func normalizeDescription(s string) string {
	s = strings.Replace(s, "\t", "", -1)
	s = strings.Replace(s, "\n", " ", -1)
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// parseDoc splits a documentation string into a general description and a
// per-field description map. An empty doc means no documentation at all and
// is fine; a non-empty doc with no Attributes section is a format error.
func parseDoc(raw string) (general string, attrs map[string]string, err error) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	loc := attributesHeaderRe.FindStringIndex(raw)
	if loc == nil {
		err = DocFormatError{`doc string has no "Attributes:" section`}
		return
	}
	general = normalizeDescription(raw[:loc[0]])
	body := raw[loc[1]:]
	markers := attrMarkerRe.FindAllStringSubmatchIndex(body, -1)
	attrs = make(map[string]string, len(markers))
	for i, m := range markers {
		name := body[m[2]:m[3]]
		end := len(body)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		// Interior blank lines survive; only the edges are trimmed.
		attrs[name] = strings.TrimSpace(body[m[1]:end])
	}
	return
}
