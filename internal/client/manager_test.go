package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func TestManagerCachesClients(t *testing.T) {
	m := NewManager("http://database:8890/sparql/", Options{}, testLogger())

	a := m.Default()
	b := m.GetClient("http://database:8890/sparql")
	assert.Same(t, a, b, "trailing slash must not create a second client")
	assert.Equal(t, "http://database:8890/sparql", a.Endpoint())

	other := m.GetClient("http://publication:8890/sparql")
	assert.NotSame(t, a, other)
	assert.Same(t, other, m.GetClient("http://publication:8890/sparql/"))
}

func TestManagerRoutesUpdates(t *testing.T) {
	var queries, updates int
	query := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries++
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = fmt.Fprint(w, `{"head":{"vars":[]},"results":{"bindings":[]}}`)
	}))
	defer query.Close()
	update := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		updates++
		assert.Equal(t, "true", r.Header.Get("mu-auth-sudo"))
	}))
	defer update.Close()

	m := NewManager(query.URL, Options{UpdateEndpoint: update.URL, Sudo: true, Debug: true}, testLogger())
	c := m.Default()

	_, err := c.Query(context.Background(), "SELECT * WHERE { ?s ?p ?o }")
	require.NoError(t, err)
	require.NoError(t, c.Update(context.Background(), "INSERT DATA { <http://a> <http://b> <http://c> }"))

	assert.Equal(t, 1, queries)
	assert.Equal(t, 1, updates)
}
