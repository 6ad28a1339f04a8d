// Package domain defines the core domain types for dump file publication.
package domain

import "time"

// Status is a job or task status concept URI.
type Status string

// Task and job statuses.
const (
	StatusScheduled Status = "http://redpencil.data.gift/id/concept/JobStatus/scheduled"
	StatusBusy      Status = "http://redpencil.data.gift/id/concept/JobStatus/busy"
	StatusSuccess   Status = "http://redpencil.data.gift/id/concept/JobStatus/success"
	StatusFailed    Status = "http://redpencil.data.gift/id/concept/JobStatus/failed"
)

// Task is a persisted unit of work requesting a dump file.
//
// Tasks are created by an external job controller with status Scheduled and
// are only moved forward by the lifecycle controller:
//
//	Scheduled -> Busy -> Success | Failed
type Task struct {
	URI          string `json:"uri"`                     // Task resource URI
	Job          string `json:"job,omitempty"`           // Parent job URI (dct:isPartOf)
	Operation    string `json:"operation"`               // Task operation URI (task:operation)
	JobOperation string `json:"job_operation,omitempty"` // Operation of the parent job
	Status       Status `json:"status"`                  // Current adms:status
}

// ExportRequest describes one graph export. It is built from configuration
// when a matching task is detected and is not persisted.
type ExportRequest struct {
	Graph               string // Named graph to dump
	FileBaseName        string // Base name of the dump file and its directory
	PublicationEndpoint string // Optional read endpoint, empty means the default endpoint
	BatchSize           int    // Number of subjects per page
}

// DumpFile is a physical Turtle file produced by a successful export.
type DumpFile struct {
	Path      string    `json:"path"`      // Absolute path of the published file
	Name      string    `json:"name"`      // Base file name, including extension
	Extension string    `json:"extension"` // File extension, including the dot
	Size      int64     `json:"size"`      // Size in bytes
	Format    string    `json:"format"`    // MIME type
	Created   time.Time `json:"created"`   // Creation time of the file
	Subjects  int       `json:"subjects"`  // Number of subjects exported
	Triples   int       `json:"triples"`   // Number of statements written
}

// Dataset is one published version of the dumped graph.
type Dataset struct {
	URI           string        `json:"uri"`
	UUID          string        `json:"uuid"`
	Subject       string        `json:"subject"`
	Type          string        `json:"type"`
	Title         string        `json:"title"`
	Created       time.Time     `json:"created"`
	Modified      time.Time     `json:"modified"`
	Issued        time.Time     `json:"issued"`
	WasRevisionOf string        `json:"was_revision_of,omitempty"` // Previous dataset, empty for the first version
	Distribution  *Distribution `json:"distribution,omitempty"`
}

// Distribution links a dataset version to its dump file.
type Distribution struct {
	URI              string    `json:"uri"`
	UUID             string    `json:"uuid"`
	LogicalFile      string    `json:"logical_file"`  // nfo:FileDataObject describing the dump
	LogicalFileUUID  string    `json:"-"`             // mu:uuid of the logical file
	PhysicalFile     string    `json:"physical_file"` // share:// URI of the file on disk
	PhysicalFileUUID string    `json:"-"`             // mu:uuid of the physical file
	FileName         string    `json:"file_name"`
	ByteSize         int64     `json:"byte_size"`
	Format           string    `json:"format"`
	Created          time.Time `json:"created"`
	Modified         time.Time `json:"modified"`
}
