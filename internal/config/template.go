package config

import (
	"fmt"
	"strings"
)

// Segment is one piece of a parsed template: either literal text or a
// `${NAME}` reference.
type Segment struct {
	Literal string
	Ref     string
}

// IsRef reports whether the segment is a `${...}` reference.
func (s Segment) IsRef() bool {
	return s.Ref != ""
}

// ParseTemplate splits s into literal and `${NAME}` segments. An opening
// `${` without a closing brace, or an empty name, is an error.
func ParseTemplate(s string) ([]Segment, error) {
	var segments []Segment
	rest := s
	offset := 0
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			if rest != "" {
				segments = append(segments, Segment{Literal: rest})
			}
			return segments, nil
		}
		if start > 0 {
			segments = append(segments, Segment{Literal: rest[:start]})
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return nil, fmt.Errorf("unterminated reference at offset %d in %q", offset+start, s)
		}
		name := rest[start+2 : start+end]
		if name == "" {
			return nil, fmt.Errorf("empty reference at offset %d in %q", offset+start, s)
		}
		segments = append(segments, Segment{Ref: name})
		consumed := start + end + 1
		rest = rest[consumed:]
		offset += consumed
	}
}

// ExpandEnv replaces every `${NAME}` in s using lookup. Unknown names expand
// to the empty string and the placeholder `${@}` is kept verbatim.
func ExpandEnv(s string, lookup func(string) (string, bool)) (string, error) {
	segments, err := ParseTemplate(s)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, seg := range segments {
		switch {
		case !seg.IsRef():
			sb.WriteString(seg.Literal)
		case seg.Ref == "@":
			sb.WriteString(Placeholder)
		default:
			if v, ok := lookup(seg.Ref); ok {
				sb.WriteString(v)
			}
		}
	}
	return sb.String(), nil
}
