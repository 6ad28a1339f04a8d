package sparql

import (
	"fmt"
	"strconv"

	"evalgo.org/dumppublisher/internal/rdf"
)

// Binding is a single RDF term in a SPARQL JSON result row.
type Binding struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// Results is the SPARQL 1.1 Query Results JSON document.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]Binding `json:"bindings"`
	} `json:"results"`
}

// Rows returns the result bindings, never nil.
func (r *Results) Rows() []map[string]Binding {
	if r == nil || r.Results.Bindings == nil {
		return []map[string]Binding{}
	}
	return r.Results.Bindings
}

// Values returns the value of variable name for each row that binds it.
func (r *Results) Values(name string) []string {
	values := make([]string, 0, len(r.Rows()))
	for _, row := range r.Rows() {
		if b, ok := row[name]; ok {
			values = append(values, b.Value)
		}
	}
	return values
}

// Int returns the integer bound to name in the first row. A result without
// rows or without a binding for name is an error.
func (r *Results) Int(name string) (int, error) {
	rows := r.Rows()
	if len(rows) == 0 {
		return 0, fmt.Errorf("no result rows for ?%s", name)
	}
	b, ok := rows[0][name]
	if !ok {
		return 0, fmt.Errorf("variable ?%s is not bound", name)
	}
	return strconv.Atoi(b.Value)
}

// Term converts the binding into an RDF term. Binding types other than uri
// and literal become rdf.Unknown.
func (b Binding) Term() rdf.Term {
	switch b.Type {
	case "uri":
		return rdf.IRI(b.Value)
	case "literal", "typed-literal":
		switch {
		case b.Lang != "":
			return rdf.LangLiteral{Lexical: b.Value, Lang: b.Lang}
		case b.Datatype != "" && b.Datatype != rdf.RDFLangString:
			return rdf.TypedLiteral{Lexical: b.Value, Datatype: b.Datatype}
		default:
			return rdf.PlainLiteral(b.Value)
		}
	default:
		return rdf.Unknown{Kind: b.Type, Lexical: b.Value}
	}
}
