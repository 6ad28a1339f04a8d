// Package dataset publishes dump files as versioned DCAT datasets and keeps
// their provenance chain linear.
package dataset

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/sparql"
)

// URI prefixes of the published resources.
const (
	DatasetPrefix      = "http://data.lblod.info/id/dataset/"
	DistributionPrefix = "http://data.lblod.info/id/distribution/"
	FilePrefix         = "http://data.lblod.info/id/file/"
)

// Store persists datasets and their distributions.
type Store interface {
	// UnrevisedDatasets lists the datasets of subject and type that no newer
	// dataset revises.
	UnrevisedDatasets(ctx context.Context, subject, typ string) ([]string, error)
	// InsertDataset stores a new dataset description.
	InsertDataset(ctx context.Context, ds *domain.Dataset) error
	// InsertDistribution stores the logical and physical file descriptions of
	// dump and the distribution linking them to ds.
	InsertDistribution(ctx context.Context, ds *domain.Dataset, dist *domain.Distribution, dump *domain.DumpFile, creator string) error
	// LinkRevision records that dataset is a revision of previous.
	LinkRevision(ctx context.Context, dataset, previous string) error
	// Deprecate replaces the modification date of previous and of its
	// distributions by at.
	Deprecate(ctx context.Context, previous string, at time.Time) error
	// Latest returns the current dataset of subject and type.
	Latest(ctx context.Context, subject, typ string) (*domain.Dataset, error)
}

// SPARQLStore is a Store writing to a SPARQL endpoint.
type SPARQLStore struct {
	exec         sparql.Executor
	datasetGraph string
	filesGraph   string
}

// NewSPARQLStore creates a store writing datasets and distributions to
// datasetGraph and file descriptions to filesGraph.
func NewSPARQLStore(exec sparql.Executor, datasetGraph, filesGraph string) *SPARQLStore {
	return &SPARQLStore{
		exec:         exec,
		datasetGraph: datasetGraph,
		filesGraph:   filesGraph,
	}
}

// UnrevisedDatasets implements Store.
func (s *SPARQLStore) UnrevisedDatasets(ctx context.Context, subject, typ string) ([]string, error) {
	q := sparql.Prefixes + fmt.Sprintf(`
SELECT DISTINCT ?dataset
WHERE {
  GRAPH %s {
    ?dataset a dcat:Dataset ;
      dct:type %s ;
      dct:subject %s .
  }
  FILTER NOT EXISTS { ?newerVersion prov:wasRevisionOf ?dataset . }
}
ORDER BY STR(?dataset)`, sparql.URI(s.datasetGraph), sparql.URI(typ), sparql.URI(subject))

	res, err := s.exec.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query previous datasets of %s: %w", subject, err)
	}
	return res.Values("dataset"), nil
}

// InsertDataset implements Store.
func (s *SPARQLStore) InsertDataset(ctx context.Context, ds *domain.Dataset) error {
	q := sparql.Prefixes + fmt.Sprintf(`
INSERT DATA {
  GRAPH %s {
    %s a dcat:Dataset ;
      mu:uuid %s ;
      dct:type %s ;
      dct:subject %s ;
      dct:created %s ;
      dct:modified %s ;
      dct:issued %s ;
      dct:title %s .
  }
}`,
		sparql.URI(s.datasetGraph),
		sparql.URI(ds.URI),
		sparql.String(ds.UUID),
		sparql.URI(ds.Type),
		sparql.URI(ds.Subject),
		sparql.DateTime(ds.Created),
		sparql.DateTime(ds.Modified),
		sparql.DateTime(ds.Issued),
		sparql.String(ds.Title),
	)

	if err := s.exec.Update(ctx, q); err != nil {
		return fmt.Errorf("failed to insert dataset %s: %w", ds.URI, err)
	}
	return nil
}

// InsertDistribution implements Store. The distribution title is copied from
// the stored dataset.
func (s *SPARQLStore) InsertDistribution(ctx context.Context, ds *domain.Dataset, dist *domain.Distribution, dump *domain.DumpFile, creator string) error {
	q := sparql.Prefixes + fmt.Sprintf(`
INSERT {
  GRAPH %[1]s {
    %[3]s a nfo:FileDataObject ;
      mu:uuid %[4]s ;
      nfo:fileName %[6]s ;
      dct:format %[7]s ;
      nfo:fileSize %[8]s ;
      dbpedia:fileExtension %[9]s ;
      dct:creator %[10]s ;
      dct:created %[11]s .

    %[5]s a nfo:FileDataObject ;
      mu:uuid %[12]s ;
      nfo:fileName %[6]s ;
      dct:format %[7]s ;
      nfo:fileSize %[8]s ;
      dbpedia:fileExtension %[9]s ;
      dct:created %[11]s ;
      nie:dataSource %[3]s .
  }
  GRAPH %[2]s {
    %[13]s a dcat:Distribution ;
      mu:uuid %[14]s ;
      dct:subject %[3]s ;
      dct:created %[15]s ;
      dct:modified %[16]s ;
      dct:issued %[15]s ;
      dcat:byteSize %[8]s ;
      dct:format %[7]s ;
      dct:title ?title .
    ?dataset dcat:distribution %[13]s .
  }
}
WHERE {
  BIND(%[17]s AS ?dataset)
  GRAPH %[2]s {
    ?dataset dct:title ?title .
  }
}`,
		sparql.URI(s.filesGraph),             // 1
		sparql.URI(s.datasetGraph),           // 2
		sparql.URI(dist.LogicalFile),         // 3
		sparql.String(dist.LogicalFileUUID),  // 4
		sparql.URI(dist.PhysicalFile),        // 5
		sparql.String(dist.FileName),         // 6
		sparql.String(dist.Format),           // 7
		sparql.Int(dist.ByteSize),            // 8
		sparql.String(dump.Extension),        // 9
		sparql.URI(creator),                  // 10
		sparql.DateTime(dump.Created),        // 11
		sparql.String(dist.PhysicalFileUUID), // 12
		sparql.URI(dist.URI),                 // 13
		sparql.String(dist.UUID),             // 14
		sparql.DateTime(dist.Created),        // 15
		sparql.DateTime(dist.Modified),       // 16
		sparql.URI(ds.URI),                   // 17
	)

	if err := s.exec.Update(ctx, q); err != nil {
		return fmt.Errorf("failed to insert distribution %s: %w", dist.URI, err)
	}
	return nil
}

// LinkRevision implements Store.
func (s *SPARQLStore) LinkRevision(ctx context.Context, dataset, previous string) error {
	q := sparql.Prefixes + fmt.Sprintf(`
INSERT DATA {
  GRAPH %s {
    %s prov:wasRevisionOf %s .
  }
}`, sparql.URI(s.datasetGraph), sparql.URI(dataset), sparql.URI(previous))

	if err := s.exec.Update(ctx, q); err != nil {
		return fmt.Errorf("failed to link %s to previous dataset %s: %w", dataset, previous, err)
	}
	return nil
}

// Deprecate implements Store.
func (s *SPARQLStore) Deprecate(ctx context.Context, previous string, at time.Time) error {
	graph := sparql.URI(s.datasetGraph)
	prev := sparql.URI(previous)

	remove := sparql.Prefixes + fmt.Sprintf(`
DELETE {
  GRAPH %[1]s {
    %[2]s dct:modified ?datasetModified .
    ?distribution dct:modified ?distributionModified .
  }
}
WHERE {
  GRAPH %[1]s {
    %[2]s dct:modified ?datasetModified .
    OPTIONAL {
      %[2]s dcat:distribution ?distribution .
      ?distribution dct:modified ?distributionModified .
    }
  }
}`, graph, prev)

	insert := sparql.Prefixes + fmt.Sprintf(`
INSERT {
  GRAPH %[1]s {
    %[2]s dct:modified %[3]s .
    ?distribution dct:modified %[3]s .
  }
}
WHERE {
  GRAPH %[1]s {
    %[2]s a dcat:Dataset .
    OPTIONAL { %[2]s dcat:distribution ?distribution . }
  }
}`, graph, prev, sparql.DateTime(at))

	if err := s.exec.Update(ctx, remove); err != nil {
		return fmt.Errorf("failed to clear modification date of %s: %w", previous, err)
	}
	if err := s.exec.Update(ctx, insert); err != nil {
		return fmt.Errorf("failed to deprecate %s: %w", previous, err)
	}
	return nil
}

// Latest implements Store. It returns a *domain.NotFoundError when nothing
// has been published yet.
func (s *SPARQLStore) Latest(ctx context.Context, subject, typ string) (*domain.Dataset, error) {
	q := sparql.Prefixes + fmt.Sprintf(`
SELECT ?dataset ?uuid ?title ?created ?modified ?issued ?previous
       ?distribution ?distributionUuid ?logicalFile ?physicalFile ?fileName
       ?byteSize ?format ?distributionCreated ?distributionModified
WHERE {
  GRAPH %[1]s {
    ?dataset a dcat:Dataset ;
      dct:type %[3]s ;
      dct:subject %[4]s ;
      mu:uuid ?uuid ;
      dct:created ?created ;
      dct:modified ?modified .
    OPTIONAL { ?dataset dct:title ?title . }
    OPTIONAL { ?dataset dct:issued ?issued . }
    OPTIONAL { ?dataset prov:wasRevisionOf ?previous . }
    OPTIONAL {
      ?dataset dcat:distribution ?distribution .
      ?distribution mu:uuid ?distributionUuid ;
        dct:subject ?logicalFile .
      OPTIONAL { ?distribution dcat:byteSize ?byteSize . }
      OPTIONAL { ?distribution dct:format ?format . }
      OPTIONAL { ?distribution dct:created ?distributionCreated . }
      OPTIONAL { ?distribution dct:modified ?distributionModified . }
    }
  }
  FILTER NOT EXISTS { ?newerVersion prov:wasRevisionOf ?dataset . }
  OPTIONAL {
    GRAPH %[2]s {
      ?physicalFile nie:dataSource ?logicalFile ;
        nfo:fileName ?fileName .
    }
  }
}
ORDER BY DESC(?created)
LIMIT 1`, sparql.URI(s.datasetGraph), sparql.URI(s.filesGraph), sparql.URI(typ), sparql.URI(subject))

	res, err := s.exec.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest dataset of %s: %w", subject, err)
	}
	rows := res.Rows()
	if len(rows) == 0 {
		return nil, domain.NewNotFoundError("dataset", subject)
	}
	row := rows[0]

	ds := &domain.Dataset{
		URI:           row["dataset"].Value,
		UUID:          row["uuid"].Value,
		Subject:       subject,
		Type:          typ,
		Title:         row["title"].Value,
		Created:       parseTime(row["created"].Value),
		Modified:      parseTime(row["modified"].Value),
		Issued:        parseTime(row["issued"].Value),
		WasRevisionOf: row["previous"].Value,
	}
	if dist, ok := row["distribution"]; ok {
		size, _ := strconv.ParseInt(row["byteSize"].Value, 10, 64)
		ds.Distribution = &domain.Distribution{
			URI:          dist.Value,
			UUID:         row["distributionUuid"].Value,
			LogicalFile:  row["logicalFile"].Value,
			PhysicalFile: row["physicalFile"].Value,
			FileName:     row["fileName"].Value,
			ByteSize:     size,
			Format:       row["format"].Value,
			Created:      parseTime(row["distributionCreated"].Value),
			Modified:     parseTime(row["distributionModified"].Value),
		}
	}
	return ds, nil
}

func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
