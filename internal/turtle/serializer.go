// Package turtle renders RDF triples as Turtle statements, one per line.
package turtle

import (
	"errors"
	"fmt"

	"evalgo.org/dumppublisher/internal/rdf"
)

// Format and extension of the produced files.
const (
	MIMEType  = "text/turtle"
	Extension = ".ttl"
)

// ErrInvalidSubject is returned when the subject of a statement is not an
// IRI, for instance when an inverse predicate moves a literal into subject
// position.
var ErrInvalidSubject = errors.New("subject must be an IRI")

// FormatTerm renders a single term. The boolean is false when the term was
// not recognised and has been degraded to a plain string literal.
func FormatTerm(t rdf.Term) (string, bool) {
	switch v := t.(type) {
	case rdf.IRI:
		return rdf.EscapeIRI(string(v)), true
	case rdf.TypedLiteral:
		return rdf.EscapeString(v.Lexical) + "^^" + rdf.EscapeIRI(v.Datatype), true
	case rdf.LangLiteral:
		if !rdf.ValidLangTag(v.Lang) {
			return rdf.EscapeString(v.Lexical), false
		}
		return rdf.EscapeString(v.Lexical) + "@" + v.Lang, true
	case rdf.PlainLiteral:
		return rdf.EscapeString(string(v)), true
	case rdf.Unknown:
		return rdf.EscapeString(v.Lexical), false
	case nil:
		return rdf.EscapeString(""), false
	default:
		return rdf.EscapeString(t.Value()), false
	}
}

// FormatTriple renders t as one Turtle statement terminated by " .".
// Inverse predicates are written as forward triples. The returned slice
// lists the terms that had to be degraded; it is empty for an exact rendering.
func FormatTriple(t rdf.Triple) (string, []rdf.Term, error) {
	fwd := t.Forward()
	subject, ok := fwd.Subject.(rdf.IRI)
	if !ok {
		value := ""
		if fwd.Subject != nil {
			value = fwd.Subject.Value()
		}
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidSubject, value)
	}

	var degraded []rdf.Term
	object, ok := FormatTerm(fwd.Object)
	if !ok {
		degraded = append(degraded, fwd.Object)
	}

	return rdf.EscapeIRI(string(subject)) + " " + rdf.EscapeIRI(fwd.Predicate) + " " + object + " .", degraded, nil
}
