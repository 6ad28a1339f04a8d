// Package rdf defines the RDF terms exchanged with the triplestore and the
// escaping rules shared by Turtle output and SPARQL update queries.
package rdf

import "strings"

// Well-known namespaces.
const (
	XSD   = "http://www.w3.org/2001/XMLSchema#"
	RDFNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	XSDString     = XSD + "string"
	XSDInteger    = XSD + "integer"
	XSDDateTime   = XSD + "dateTime"
	RDFLangString = RDFNS + "langString"
)

// InverseMarker prefixes a predicate that must be read with subject and
// object swapped.
const InverseMarker = "^"

// Term is one of IRI, TypedLiteral, LangLiteral, PlainLiteral or Unknown.
// The set is closed: the unexported method prevents other implementations.
type Term interface {
	// Value returns the IRI or the lexical form of the term.
	Value() string
	term()
}

// IRI is a named node.
type IRI string

// TypedLiteral is a literal with an explicit datatype IRI.
type TypedLiteral struct {
	Lexical  string
	Datatype string
}

// LangLiteral is a language-tagged string.
type LangLiteral struct {
	Lexical string
	Lang    string
}

// PlainLiteral is a simple string literal without datatype or language.
type PlainLiteral string

// Unknown carries a term whose shape is not recognised, such as a blank node
// or an unsupported binding type. It is serialized as a plain string.
type Unknown struct {
	Kind    string
	Lexical string
}

func (t IRI) Value() string          { return string(t) }
func (t TypedLiteral) Value() string { return t.Lexical }
func (t LangLiteral) Value() string  { return t.Lexical }
func (t PlainLiteral) Value() string { return string(t) }
func (t Unknown) Value() string      { return t.Lexical }

func (IRI) term()          {}
func (TypedLiteral) term() {}
func (LangLiteral) term()  {}
func (PlainLiteral) term() {}
func (Unknown) term()      {}

// Triple is a single statement. Predicate is a raw IRI string because the
// store may prefix it with InverseMarker.
type Triple struct {
	Subject   Term
	Predicate string
	Object    Term
}

// IsInverse reports whether the predicate carries the inverse marker.
func (t Triple) IsInverse() bool {
	return strings.HasPrefix(t.Predicate, InverseMarker)
}

// Forward returns the triple as it must be written: for an inverse predicate
// the marker is removed and subject and object are swapped.
func (t Triple) Forward() Triple {
	if !t.IsInverse() {
		return t
	}
	return Triple{
		Subject:   t.Object,
		Predicate: strings.TrimPrefix(t.Predicate, InverseMarker),
		Object:    t.Subject,
	}
}
