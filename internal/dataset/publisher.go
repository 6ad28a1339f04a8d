package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"evalgo.org/dumppublisher/internal/domain"
	"evalgo.org/dumppublisher/internal/helpers"
	"evalgo.org/dumppublisher/internal/metrics"
)

// Options configures the published dataset.
type Options struct {
	Subject  string // dct:subject of every dataset version
	Type     string // dct:type of every dataset version
	Title    string
	Creator  string // dct:creator of the logical file
	ShareDir string // Prefix replaced by share:// in physical file URIs
	LockDir  string // Directory holding the publication lock, defaults to the dump directory
}

// Publisher records dump files as dataset versions.
type Publisher struct {
	store   Store
	opts    Options
	log     *logrus.Entry
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// NewPublisher creates a publisher writing through store.
func NewPublisher(store Store, opts Options, log *logrus.Entry, m *metrics.Metrics) *Publisher {
	return &Publisher{
		store:   store,
		opts:    opts,
		log:     log,
		metrics: m,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// WithClock replaces the time source, for tests.
func (p *Publisher) WithClock(now func() time.Time) *Publisher {
	p.now = now
	return p
}

// Publish records dump as the newest dataset version and deprecates the
// previous one. Nothing is written when the existing history already has
// more than one unrevised version.
func (p *Publisher) Publish(ctx context.Context, dump *domain.DumpFile) (*domain.Dataset, error) {
	log := p.log.WithFields(logrus.Fields{"subject": p.opts.Subject, "file": dump.Path})

	lock, err := p.lock(dump)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.WithError(err).Warn("failed to release publication lock")
		}
	}()

	previous, err := p.store.UnrevisedDatasets(ctx, p.opts.Subject, p.opts.Type)
	if err != nil {
		return nil, domain.NewOperationError("publish", "looking up previous dataset failed", err)
	}
	if len(previous) > 1 {
		return nil, domain.NewConsistencyError(p.opts.Subject, previous)
	}

	now := p.now()
	id := p.newID()
	ds := &domain.Dataset{
		URI:      DatasetPrefix + id,
		UUID:     id,
		Subject:  p.opts.Subject,
		Type:     p.opts.Type,
		Title:    p.opts.Title,
		Created:  now,
		Modified: now,
		Issued:   now,
	}
	if err := p.store.InsertDataset(ctx, ds); err != nil {
		return nil, domain.NewOperationError("publish", "inserting dataset failed", err)
	}
	log = log.WithField("dataset", ds.URI)
	log.Info("generated dataset")

	distID, logicalID, physicalID := p.newID(), p.newID(), p.newID()
	ds.Distribution = &domain.Distribution{
		URI:              DistributionPrefix + distID,
		UUID:             distID,
		LogicalFile:      FilePrefix + logicalID,
		LogicalFileUUID:  logicalID,
		PhysicalFile:     helpers.ShareURI(p.opts.ShareDir, dump.Path),
		PhysicalFileUUID: physicalID,
		FileName:         dump.Name,
		ByteSize:         dump.Size,
		Format:           dump.Format,
		Created:          now,
		Modified:         now,
	}
	if err := p.store.InsertDistribution(ctx, ds, ds.Distribution, dump, p.opts.Creator); err != nil {
		return nil, domain.NewOperationError("publish", "inserting distribution failed", err)
	}

	if len(previous) == 1 {
		ds.WasRevisionOf = previous[0]
		log.Infof("found previous dataset <%s>", ds.WasRevisionOf)

		if err := p.store.LinkRevision(ctx, ds.URI, ds.WasRevisionOf); err != nil {
			return nil, domain.NewOperationError("publish", "linking previous dataset failed", err)
		}
		if err := p.store.Deprecate(ctx, ds.WasRevisionOf, p.now()); err != nil {
			return nil, domain.NewOperationError("publish", "deprecating previous dataset failed", err)
		}
		log.Infof("deprecated distributions of previous dataset <%s>", ds.WasRevisionOf)
	}

	p.metrics.DatasetPublished()
	return ds, nil
}

// Latest returns the current dataset version with its distribution.
func (p *Publisher) Latest(ctx context.Context) (*domain.Dataset, error) {
	return p.store.Latest(ctx, p.opts.Subject, p.opts.Type)
}

// lock takes the per subject publication lock without waiting.
func (p *Publisher) lock(dump *domain.DumpFile) (*flock.Flock, error) {
	dir := p.opts.LockDir
	if dir == "" {
		dir = filepath.Dir(dump.Path)
	}
	if err := helpers.EnsureDir(dir); err != nil {
		return nil, domain.NewOperationError("publish", "preparing lock directory failed", err)
	}

	lock := flock.New(LockPath(dir, p.opts.Subject))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, domain.NewOperationError("publish", "acquiring publication lock failed", err)
	}
	if !locked {
		return nil, domain.NewConflictError("publication", p.opts.Subject)
	}
	return lock, nil
}

// LockPath returns the lock file guarding publications of subject in dir.
func LockPath(dir, subject string) string {
	return filepath.Join(dir, fmt.Sprintf(".publish-%s%s", helpers.MD5Hash(subject), helpers.ExtLock))
}
