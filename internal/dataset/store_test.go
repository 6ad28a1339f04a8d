package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/sparql"
)

const (
	datasetGraph = "http://mu.semte.ch/graphs/public"
	filesGraph   = "http://mu.semte.ch/graphs/files"
)

// mockEndpoint records updates and answers queries with a fixed document.
type mockEndpoint struct {
	mu      sync.Mutex
	queries []string
	updates []string
	answer  string
}

func setupMockEndpoint(t *testing.T, answer string) (*mockEndpoint, *SPARQLStore) {
	t.Helper()
	m := &mockEndpoint{answer: answer}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		m.mu.Lock()
		defer m.mu.Unlock()
		if u := r.PostForm.Get("update"); u != "" {
			m.updates = append(m.updates, u)
			return
		}
		m.queries = append(m.queries, r.PostForm.Get("query"))
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = fmt.Fprint(w, m.answer)
	}))
	t.Cleanup(srv.Close)

	client := sparql.NewClient(sparql.Config{QueryEndpoint: srv.URL}, nil, testLogger())
	return m, NewSPARQLStore(client, datasetGraph, filesGraph)
}

func TestSPARQLStoreUnrevisedDatasets(t *testing.T) {
	m, store := setupMockEndpoint(t, `{"head":{"vars":["dataset"]},"results":{"bindings":[
		{"dataset":{"type":"uri","value":"http://data.lblod.info/id/dataset/1"}},
		{"dataset":{"type":"uri","value":"http://data.lblod.info/id/dataset/2"}}]}}`)

	uris, err := store.UnrevisedDatasets(context.Background(), testSubject, testType)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://data.lblod.info/id/dataset/1", "http://data.lblod.info/id/dataset/2"}, uris)

	require.Len(t, m.queries, 1)
	q := m.queries[0]
	assert.Contains(t, q, "GRAPH <"+datasetGraph+">")
	assert.Contains(t, q, "dct:subject <"+testSubject+">")
	assert.Contains(t, q, "FILTER NOT EXISTS { ?newerVersion prov:wasRevisionOf ?dataset . }")
}

func TestSPARQLStoreWrites(t *testing.T) {
	m, store := setupMockEndpoint(t, `{"head":{"vars":[]},"results":{"bindings":[]}}`)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

	ds := &domain.Dataset{
		URI: DatasetPrefix + "d1", UUID: "d1", Subject: testSubject, Type: testType,
		Title: `Dump "cache"`, Created: now, Modified: now, Issued: now,
	}
	dist := &domain.Distribution{
		URI: DistributionPrefix + "x1", UUID: "x1",
		LogicalFile: FilePrefix + "l1", LogicalFileUUID: "l1",
		PhysicalFile: "share://delta-producer-dumps/dump/dump-1.ttl", PhysicalFileUUID: "p1",
		FileName: "dump-1.ttl", ByteSize: 2048, Format: "text/turtle", Created: now, Modified: now,
	}
	dump := &domain.DumpFile{Name: "dump-1.ttl", Extension: ".ttl", Size: 2048, Format: "text/turtle", Created: now}

	require.NoError(t, store.InsertDataset(ctx, ds))
	require.NoError(t, store.InsertDistribution(ctx, ds, dist, dump, "http://lblod.data.gift/services/dump"))
	require.NoError(t, store.LinkRevision(ctx, ds.URI, DatasetPrefix+"d0"))
	require.NoError(t, store.Deprecate(ctx, DatasetPrefix+"d0", now.Add(time.Minute)))

	require.Len(t, m.updates, 5)

	insert := m.updates[0]
	assert.Contains(t, insert, "<http://data.lblod.info/id/dataset/d1> a dcat:Dataset")
	assert.Contains(t, insert, `dct:title "Dump \"cache\""`)
	assert.Contains(t, insert, `dct:created "2024-05-01T08:30:00.000Z"^^<http://www.w3.org/2001/XMLSchema#dateTime>`)

	distribution := m.updates[1]
	assert.Contains(t, distribution, "GRAPH <"+filesGraph+">")
	assert.Contains(t, distribution, "<share://delta-producer-dumps/dump/dump-1.ttl> a nfo:FileDataObject")
	assert.Contains(t, distribution, "nie:dataSource <http://data.lblod.info/id/file/l1>")
	assert.Contains(t, distribution, `dcat:byteSize "2048"^^<http://www.w3.org/2001/XMLSchema#integer>`)
	assert.Contains(t, distribution, "BIND(<http://data.lblod.info/id/dataset/d1> AS ?dataset)")
	assert.Contains(t, distribution, "dct:title ?title")

	assert.Contains(t, m.updates[2], "<http://data.lblod.info/id/dataset/d1> prov:wasRevisionOf <http://data.lblod.info/id/dataset/d0>")
	assert.True(t, strings.Contains(m.updates[3], "DELETE"))
	assert.Contains(t, m.updates[4], `"2024-05-01T08:31:00.000Z"`)
}

func TestSPARQLStoreLatest(t *testing.T) {
	_, store := setupMockEndpoint(t, `{"head":{"vars":[]},"results":{"bindings":[{
		"dataset":{"type":"uri","value":"http://data.lblod.info/id/dataset/d2"},
		"uuid":{"type":"literal","value":"d2"},
		"title":{"type":"literal","value":"Delta producer cache graph dump"},
		"created":{"type":"typed-literal","datatype":"http://www.w3.org/2001/XMLSchema#dateTime","value":"2024-05-01T08:30:00.000Z"},
		"modified":{"type":"typed-literal","datatype":"http://www.w3.org/2001/XMLSchema#dateTime","value":"2024-05-01T08:30:00.000Z"},
		"previous":{"type":"uri","value":"http://data.lblod.info/id/dataset/d1"},
		"distribution":{"type":"uri","value":"http://data.lblod.info/id/distribution/x2"},
		"distributionUuid":{"type":"literal","value":"x2"},
		"logicalFile":{"type":"uri","value":"http://data.lblod.info/id/file/l2"},
		"physicalFile":{"type":"uri","value":"share://delta-producer-dumps/dump/dump-2.ttl"},
		"fileName":{"type":"literal","value":"dump-2.ttl"},
		"byteSize":{"type":"typed-literal","datatype":"http://www.w3.org/2001/XMLSchema#integer","value":"4096"},
		"format":{"type":"literal","value":"text/turtle"}}]}}`)

	ds, err := store.Latest(context.Background(), testSubject, testType)
	require.NoError(t, err)
	assert.Equal(t, "http://data.lblod.info/id/dataset/d2", ds.URI)
	assert.Equal(t, "http://data.lblod.info/id/dataset/d1", ds.WasRevisionOf)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), ds.Created.UTC())
	require.NotNil(t, ds.Distribution)
	assert.Equal(t, "share://delta-producer-dumps/dump/dump-2.ttl", ds.Distribution.PhysicalFile)
	assert.Equal(t, int64(4096), ds.Distribution.ByteSize)
	assert.Equal(t, "dump-2.ttl", ds.Distribution.FileName)
}

func TestSPARQLStoreLatestEmpty(t *testing.T) {
	_, store := setupMockEndpoint(t, `{"head":{"vars":[]},"results":{"bindings":[]}}`)
	_, err := store.Latest(context.Background(), testSubject, testType)

	var notFound *domain.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
