package delta

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/rdf"
)

const body = `[
  {
    "inserts": [
      {"subject": {"type": "uri", "value": "http://redpencil.data.gift/id/task/1"},
       "predicate": {"type": "uri", "value": "http://www.w3.org/ns/adms#status"},
       "object": {"type": "uri", "value": "http://redpencil.data.gift/id/concept/JobStatus/scheduled"},
       "graph": {"type": "uri", "value": "http://mu.semte.ch/graphs/system/jobs"}},
      {"subject": {"type": "uri", "value": "http://redpencil.data.gift/id/task/1"},
       "predicate": {"type": "uri", "value": "http://purl.org/dc/terms/modified"},
       "object": {"type": "literal", "value": "2024-02-01T10:00:00Z", "datatype": "http://www.w3.org/2001/XMLSchema#dateTime"}},
      {"subject": {"type": "uri", "value": "http://redpencil.data.gift/id/task/2"},
       "predicate": {"type": "uri", "value": "http://www.w3.org/ns/adms#status"},
       "object": {"type": "uri", "value": "http://redpencil.data.gift/id/concept/JobStatus/busy"}}
    ],
    "deletes": [
      {"subject": {"type": "uri", "value": "http://redpencil.data.gift/id/task/3"},
       "predicate": {"type": "uri", "value": "http://www.w3.org/ns/adms#status"},
       "object": {"type": "uri", "value": "http://redpencil.data.gift/id/concept/JobStatus/scheduled"}}
    ]
  },
  {
    "inserts": [
      {"subject": {"type": "uri", "value": "http://redpencil.data.gift/id/task/4"},
       "predicate": {"type": "uri", "value": "http://www.w3.org/ns/adms#status"},
       "object": {"type": "uri", "value": "http://redpencil.data.gift/id/concept/JobStatus/scheduled"}},
      {"subject": {"type": "uri", "value": "http://redpencil.data.gift/id/task/1"},
       "predicate": {"type": "uri", "value": "http://www.w3.org/ns/adms#status"},
       "object": {"type": "uri", "value": "http://redpencil.data.gift/id/concept/JobStatus/scheduled"}},
      {"subject": {"type": "uri", "value": "http://redpencil.data.gift/id/task/5"},
       "predicate": {"type": "uri", "value": "http://www.w3.org/ns/adms#status"},
       "object": {"type": "literal", "value": "http://redpencil.data.gift/id/concept/JobStatus/scheduled"}},
      {"subject": {"type": "bnode", "value": "b0"},
       "predicate": {"type": "uri", "value": "http://www.w3.org/ns/adms#status"},
       "object": {"type": "uri", "value": "http://redpencil.data.gift/id/concept/JobStatus/scheduled"}}
    ],
    "deletes": []
  }
]`

func TestParse(t *testing.T) {
	msg, err := Parse(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, msg, 2)
	assert.Len(t, msg.Inserts(), 7)
	assert.Len(t, msg[0].Deletes, 1)

	first := msg[0].Inserts[0]
	require.NotNil(t, first.Graph)
	assert.Equal(t, "http://mu.semte.ch/graphs/system/jobs", first.Graph.Value)
	assert.Nil(t, msg[0].Inserts[1].Graph)
}

func TestScheduledTasks(t *testing.T) {
	msg, err := Parse(strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"http://redpencil.data.gift/id/task/1",
		"http://redpencil.data.gift/id/task/4",
	}, msg.ScheduledTasks(), "deduplicated, in order, uri objects only, deletes ignored")

	assert.Equal(t, []string{"http://redpencil.data.gift/id/task/2"}, msg.SubjectsWithStatus(domain.StatusBusy))
}

func TestParseEmpty(t *testing.T) {
	msg, err := Parse(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, msg.ScheduledTasks())
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{``, `{"inserts": []}`, `[{"inserts": [}]`} {
		_, err := Parse(strings.NewReader(in))
		var validation *domain.ValidationError
		assert.True(t, errors.As(err, &validation), "input %q", in)
	}
}

func TestTermRDF(t *testing.T) {
	tests := []struct {
		term Term
		want rdf.Term
	}{
		{Term{Type: "uri", Value: "http://a"}, rdf.IRI("http://a")},
		{Term{Type: "literal", Value: "x"}, rdf.PlainLiteral("x")},
		{Term{Type: "literal", Value: "x", Lang: "nl"}, rdf.LangLiteral{Lexical: "x", Lang: "nl"}},
		{Term{Type: "typed-literal", Value: "1", Datatype: rdf.XSDInteger}, rdf.TypedLiteral{Lexical: "1", Datatype: rdf.XSDInteger}},
		{Term{Type: "bnode", Value: "b0"}, rdf.Unknown{Kind: "bnode", Lexical: "b0"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.term.RDF())
	}
}
