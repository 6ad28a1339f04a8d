// Package delta parses delta-notifier change sets and picks out tasks that
// may need handling.
package delta

import (
	"encoding/json"
	"fmt"
	"io"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/rdf"
)

// StatusPredicate is the predicate carrying the status of a task.
const StatusPredicate = "http://www.w3.org/ns/adms#status"

// Term is a term as sent by the delta-notifier.
type Term struct {
	Type     string `json:"type"`               // uri, literal, typed-literal or bnode
	Value    string `json:"value"`              // Lexical value
	Datatype string `json:"datatype,omitempty"` // Datatype of a typed literal
	Lang     string `json:"xml:lang,omitempty"` // Language tag
}

// IsURI reports whether the term is an IRI.
func (t Term) IsURI() bool {
	return t.Type == "uri"
}

// RDF converts t to an rdf.Term.
func (t Term) RDF() rdf.Term {
	switch t.Type {
	case "uri":
		return rdf.IRI(t.Value)
	case "literal", "typed-literal":
		switch {
		case t.Datatype != "":
			return rdf.TypedLiteral{Lexical: t.Value, Datatype: t.Datatype}
		case t.Lang != "":
			return rdf.LangLiteral{Lexical: t.Value, Lang: t.Lang}
		default:
			return rdf.PlainLiteral(t.Value)
		}
	default:
		return rdf.Unknown{Kind: t.Type, Lexical: t.Value}
	}
}

// Quad is one inserted or deleted statement.
type Quad struct {
	Subject   Term  `json:"subject"`
	Predicate Term  `json:"predicate"`
	Object    Term  `json:"object"`
	Graph     *Term `json:"graph,omitempty"`
}

// ChangeSet is one element of a delta message.
type ChangeSet struct {
	Inserts []Quad `json:"inserts"`
	Deletes []Quad `json:"deletes"`
}

// Message is the body of a delta notification.
type Message []ChangeSet

// Parse decodes a delta message.
func Parse(r io.Reader) (Message, error) {
	var msg Message
	if err := json.NewDecoder(r).Decode(&msg); err != nil {
		return nil, domain.NewValidationError("delta", fmt.Sprintf("malformed delta body: %v", err))
	}
	return msg, nil
}

// Inserts flattens the inserted statements of all change sets.
func (m Message) Inserts() []Quad {
	var inserts []Quad
	for _, cs := range m {
		inserts = append(inserts, cs.Inserts...)
	}
	return inserts
}

// ScheduledTasks returns the subjects that were given the Scheduled status,
// in order of appearance and without duplicates.
func (m Message) ScheduledTasks() []string {
	return m.SubjectsWithStatus(domain.StatusScheduled)
}

// SubjectsWithStatus returns the subjects of inserted status statements
// pointing at status.
func (m Message) SubjectsWithStatus(status domain.Status) []string {
	seen := make(map[string]struct{})
	var subjects []string
	for _, q := range m.Inserts() {
		if !q.Predicate.IsURI() || q.Predicate.Value != StatusPredicate {
			continue
		}
		if !q.Object.IsURI() || q.Object.Value != string(status) {
			continue
		}
		if !q.Subject.IsURI() {
			continue
		}
		if _, ok := seen[q.Subject.Value]; ok {
			continue
		}
		seen[q.Subject.Value] = struct{}{}
		subjects = append(subjects, q.Subject.Value)
	}
	return subjects
}
