package sparql

import (
	"strconv"
	"strings"
	"time"

	"evalgo.org/dumppublisher/internal/rdf"
)

// Prefixes shared by the queries of this service.
const Prefixes = `PREFIX mu: <http://mu.semte.ch/vocabularies/core/>
PREFIX dct: <http://purl.org/dc/terms/>
PREFIX dcat: <http://www.w3.org/ns/dcat#>
PREFIX prov: <http://www.w3.org/ns/prov#>
PREFIX nfo: <http://www.semanticdesktop.org/ontologies/2007/03/22/nfo#>
PREFIX nie: <http://www.semanticdesktop.org/ontologies/2007/01/19/nie#>
PREFIX dbpedia: <http://dbpedia.org/ontology/>
PREFIX task: <http://redpencil.data.gift/vocabularies/tasks/>
PREFIX adms: <http://www.w3.org/ns/adms#>
PREFIX oslc: <http://open-services.net/ns/core#>
PREFIX cogs: <http://vocab.deri.ie/cogs#>
`

// URI escapes an IRI for use in a query.
func URI(iri string) string {
	return rdf.EscapeIRI(iri)
}

// String escapes a string literal.
func String(s string) string {
	return rdf.EscapeString(s)
}

// Int renders an xsd:integer literal.
func Int(n int64) string {
	return `"` + strconv.FormatInt(n, 10) + `"^^` + rdf.EscapeIRI(rdf.XSDInteger)
}

// DateTime renders an xsd:dateTime literal in UTC with millisecond precision.
func DateTime(t time.Time) string {
	return `"` + t.UTC().Format("2006-01-02T15:04:05.000Z07:00") + `"^^` + rdf.EscapeIRI(rdf.XSDDateTime)
}

// Values renders iris as a VALUES block body.
func Values(iris []string) string {
	escaped := make([]string, len(iris))
	for i, iri := range iris {
		escaped[i] = URI(iri)
	}
	return strings.Join(escaped, " ")
}
