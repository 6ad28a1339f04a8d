package rdf

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var langTagPattern = regexp.MustCompile(`^[a-zA-Z]+(-[a-zA-Z0-9]+)*$`)

// ValidLangTag reports whether tag is a syntactically valid language tag.
func ValidLangTag(tag string) bool {
	return langTagPattern.MatchString(tag)
}

// ValidIRI reports whether s is an absolute IRI that can be used as a
// subject. Blank node labels, relative references and strings with spaces
// are rejected.
func ValidIRI(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n<>\"{}|^`\\") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != "" || u.Path != ""
}

// EscapeIRI renders iri as an IRIREF. Characters that may not appear in an
// IRIREF are written as \u escapes, which every Turtle and SPARQL parser
// decodes back to the original character.
func EscapeIRI(iri string) string {
	var sb strings.Builder
	sb.Grow(len(iri) + 2)
	sb.WriteByte('<')
	for _, r := range iri {
		switch {
		case r <= 0x20, strings.ContainsRune("<>\"{}|^`\\", r):
			fmt.Fprintf(&sb, `\u%04X`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('>')
	return sb.String()
}

// EscapeString renders s as a double-quoted string literal.
func EscapeString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04X`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
