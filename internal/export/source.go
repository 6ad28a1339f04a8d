// Package export streams a named graph into a versioned Turtle dump file.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"evalgo.org/dumppublisher/internal/rdf"
	"evalgo.org/dumppublisher/internal/sparql"
)

// Source reads the subjects and statements of a graph.
type Source interface {
	// CountSubjects returns the number of distinct subjects in graph.
	CountSubjects(ctx context.Context, graph string) (int, error)
	// SubjectPage returns at most limit subjects starting at offset, in a
	// stable order. Subjects that are not IRIs are returned as they are.
	SubjectPage(ctx context.Context, graph string, limit, offset int) ([]rdf.Term, error)
	// FetchTriples returns every statement of graph having one of subjects as
	// subject.
	FetchTriples(ctx context.Context, graph string, subjects []string) ([]rdf.Triple, error)
}

// SPARQLSource is a Source backed by a SPARQL endpoint.
type SPARQLSource struct {
	exec sparql.Executor
}

// NewSPARQLSource creates a source reading through exec.
func NewSPARQLSource(exec sparql.Executor) *SPARQLSource {
	return &SPARQLSource{exec: exec}
}

// CountSubjects implements Source. Only IRI subjects are counted.
func (s *SPARQLSource) CountSubjects(ctx context.Context, graph string) (int, error) {
	q := fmt.Sprintf(`SELECT (COUNT(DISTINCT ?s) AS ?count)
WHERE {
  GRAPH %s {
    ?s ?p ?o .
    FILTER(isIRI(?s))
  }
}`, sparql.URI(graph))

	res, err := s.exec.Query(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to count subjects of %s: %w", graph, err)
	}
	count, err := res.Int("count")
	if err != nil {
		return 0, fmt.Errorf("failed to parse subject count of %s: %w", graph, err)
	}
	return count, nil
}

// SubjectPage implements Source. Blank nodes have no stable string form, so
// only IRI subjects are paged, ordered by their string form. Repeated runs
// over an unchanged graph produce the same pages.
func (s *SPARQLSource) SubjectPage(ctx context.Context, graph string, limit, offset int) ([]rdf.Term, error) {
	q := fmt.Sprintf(`SELECT DISTINCT ?s
WHERE {
  GRAPH %s {
    ?s ?p ?o .
    FILTER(isIRI(?s))
  }
}
ORDER BY STR(?s)
LIMIT %d
OFFSET %d`, sparql.URI(graph), limit, offset)

	res, err := s.exec.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to page subjects of %s at offset %d: %w", graph, offset, err)
	}

	rows := res.Rows()
	subjects := make([]rdf.Term, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row["s"].Term())
	}
	return subjects, nil
}

// FetchTriples implements Source.
func (s *SPARQLSource) FetchTriples(ctx context.Context, graph string, subjects []string) ([]rdf.Triple, error) {
	if len(subjects) == 0 {
		return nil, nil
	}

	q := fmt.Sprintf(`SELECT ?s ?p ?o
WHERE {
  GRAPH %s {
    VALUES ?s { %s }
    ?s ?p ?o .
  }
}`, sparql.URI(graph), sparql.Values(subjects))

	res, err := s.exec.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch triples of %d subjects: %w", len(subjects), err)
	}

	rows := res.Rows()
	triples := make([]rdf.Triple, 0, len(rows))
	for _, row := range rows {
		triples = append(triples, rdf.Triple{
			Subject:   row["s"].Term(),
			Predicate: row["p"].Value,
			Object:    row["o"].Term(),
		})
	}
	return triples, nil
}

// SubjectPager walks the subjects of a graph page by page. It is finite and
// cannot be restarted.
type SubjectPager struct {
	src      Source
	graph    string
	pageSize int
	offset   int
	rejected int
	done     bool
	log      *logrus.Entry
}

// NewSubjectPager creates a pager over graph returning pageSize subjects per
// call to Next.
func NewSubjectPager(src Source, graph string, pageSize int, log *logrus.Entry) *SubjectPager {
	return &SubjectPager{
		src:      src,
		graph:    graph,
		pageSize: pageSize,
		log:      log,
	}
}

// Next returns the next page of valid IRI subjects, or io.EOF once the graph
// is exhausted. A page may be empty when every subject in it was rejected.
func (p *SubjectPager) Next(ctx context.Context) ([]string, error) {
	if p.done {
		return nil, io.EOF
	}

	raw, err := p.src.SubjectPage(ctx, p.graph, p.pageSize, p.offset)
	if err != nil {
		return nil, err
	}
	p.offset += len(raw)
	if len(raw) < p.pageSize {
		p.done = true
	}
	if len(raw) == 0 {
		return nil, io.EOF
	}

	subjects := make([]string, 0, len(raw))
	for _, t := range raw {
		iri, ok := t.(rdf.IRI)
		if !ok || !rdf.ValidIRI(string(iri)) {
			p.rejected++
			p.log.WithField("subject", t.Value()).Warn("skipping subject that is not a valid IRI")
			continue
		}
		subjects = append(subjects, string(iri))
	}
	return subjects, nil
}

// Offset returns the number of subjects consumed so far, including rejected
// ones.
func (p *SubjectPager) Offset() int {
	return p.offset
}

// Rejected returns the number of subjects skipped because they are not IRIs.
func (p *SubjectPager) Rejected() int {
	return p.rejected
}
