package sparql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/rdf"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

const selectResponse = `{
  "head": {"vars": ["s", "o"]},
  "results": {"bindings": [
    {"s": {"type": "uri", "value": "http://example.org/a"},
     "o": {"type": "literal", "value": "bonjour", "xml:lang": "fr"}},
    {"s": {"type": "uri", "value": "http://example.org/b"},
     "o": {"type": "typed-literal", "value": "42", "datatype": "http://www.w3.org/2001/XMLSchema#integer"}},
    {"s": {"type": "uri", "value": "http://example.org/c"},
     "o": {"type": "bnode", "value": "b0"}}
  ]}
}`

type recordedRequest struct {
	Form   url.Values
	Header http.Header
}

// setupMockEndpoint starts a SPARQL endpoint answering every query with body
// and recording the last received form.
func setupMockEndpoint(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	last := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		last.Form = r.PostForm
		last.Header = r.Header.Clone()
		w.Header().Set("Content-Type", contentTypeResults)
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, last
}

func TestClientQuery(t *testing.T) {
	srv, last := setupMockEndpoint(t, http.StatusOK, selectResponse)
	client := NewClient(Config{QueryEndpoint: srv.URL, Sudo: true}, nil, testLogger())

	results, err := client.Query(context.Background(), "SELECT * WHERE { ?s ?p ?o }")
	require.NoError(t, err)

	assert.Equal(t, "SELECT * WHERE { ?s ?p ?o }", last.Form.Get("query"))
	assert.Equal(t, "true", last.Header.Get(sudoHeader))
	assert.Equal(t, contentTypeResults, last.Header.Get("Accept"))

	rows := results.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, rdf.LangLiteral{Lexical: "bonjour", Lang: "fr"}, rows[0]["o"].Term())
	assert.Equal(t, rdf.TypedLiteral{Lexical: "42", Datatype: rdf.XSDInteger}, rows[1]["o"].Term())
	assert.Equal(t, rdf.Unknown{Kind: "bnode", Lexical: "b0"}, rows[2]["o"].Term())
	assert.Equal(t, []string{"http://example.org/a", "http://example.org/b", "http://example.org/c"}, results.Values("s"))
}

func TestClientQueryError(t *testing.T) {
	srv, _ := setupMockEndpoint(t, http.StatusBadRequest, "parse error")
	client := NewClient(Config{QueryEndpoint: srv.URL}, nil, testLogger())

	_, err := client.Query(context.Background(), "SELECT")
	require.Error(t, err)

	var opErr *domain.OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "sparql-query", opErr.Operation)
	assert.Contains(t, err.Error(), "parse error")
}

func TestClientQueryMalformed(t *testing.T) {
	srv, _ := setupMockEndpoint(t, http.StatusOK, "<html>not json</html>")
	client := NewClient(Config{QueryEndpoint: srv.URL}, nil, testLogger())

	_, err := client.Query(context.Background(), "SELECT * WHERE { ?s ?p ?o }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed results document")
}

func TestClientQueryRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", contentTypeResults)
		_, _ = fmt.Fprint(w, `{"head":{"vars":["count"]},"results":{"bindings":[{"count":{"type":"literal","value":"7"}}]}}`)
	}))
	defer srv.Close()

	client := NewClient(Config{QueryEndpoint: srv.URL, Retries: 2}, nil, testLogger())
	results, err := client.Query(context.Background(), "SELECT (COUNT(*) AS ?count) WHERE { ?s ?p ?o }")
	require.NoError(t, err)

	count, err := results.Int("count")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Equal(t, int32(2), calls.Load())
}

func TestResultsIntRequiresBinding(t *testing.T) {
	tests := []struct {
		name string
		rows []map[string]Binding
		want string
	}{
		{"no rows", nil, "no result rows for ?count"},
		{"other variable", []map[string]Binding{{"x": {Type: "literal", Value: "9"}}}, "variable ?count is not bound"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &Results{}
			res.Results.Bindings = tt.rows
			_, err := res.Int("count")
			assert.EqualError(t, err, tt.want)
		})
	}

	res := &Results{}
	res.Results.Bindings = []map[string]Binding{{"count": {Type: "literal", Value: "seven"}}}
	_, err := res.Int("count")
	assert.Error(t, err)
}

func TestClientUpdate(t *testing.T) {
	var calls atomic.Int32
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.NoError(t, r.ParseForm())
		received = r.PostForm.Get("update")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{QueryEndpoint: "http://unused.invalid", UpdateEndpoint: srv.URL, Retries: 3, Timeout: time.Second}, nil, testLogger())
	err := client.Update(context.Background(), "INSERT DATA { <http://a> <http://b> <http://c> }")
	require.Error(t, err)

	assert.Equal(t, "INSERT DATA { <http://a> <http://b> <http://c> }", received)
	assert.Equal(t, int32(1), calls.Load(), "updates are not retried")
}

func TestEscapeHelpers(t *testing.T) {
	ts := time.Date(2024, 3, 5, 10, 4, 5, 123000000, time.FixedZone("CET", 3600))
	assert.Equal(t, `"2024-03-05T09:04:05.123Z"^^<http://www.w3.org/2001/XMLSchema#dateTime>`, DateTime(ts))
	assert.Equal(t, `"1024"^^<http://www.w3.org/2001/XMLSchema#integer>`, Int(1024))
	assert.Equal(t, "<http://a> <http://b>", Values([]string{"http://a", "http://b"}))
	assert.Equal(t, `"it's \"ok\""`, String(`it's "ok"`))
}
