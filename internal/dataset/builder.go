// Package dataset builds and caches the in-memory analysis table from raw
// records in object storage.
//
// The cache is a two-state container (absent | ready). Concurrent callers
// racing on an absent cache may each perform a redundant full build; the
// build is idempotent and the last writer's snapshot becomes the cache, so
// this is an accepted inefficiency rather than a correctness hazard. There
// is no incremental path: every rebuild re-reads the whole corpus.
package dataset

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/juun0-h/korean-english-oral-test-data-analysis/domain/participant"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/config"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/errors"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/extract"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/ports"
)

// Builder owns the snapshot cache and the full-corpus build path.
type Builder struct {
	store ports.ObjectStore
	cfg   config.StorageConfig

	mu     sync.Mutex
	cached *participant.Table
}

// New creates a builder over the given store.
func New(store ports.ObjectStore, cfg config.StorageConfig) *Builder {
	return &Builder{store: store, cfg: cfg}
}

// Cached returns the current snapshot without triggering a build; nil when
// the cache is absent.
func (b *Builder) Cached() *participant.Table {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cached
}

// GetOrBuild returns the cached snapshot, building it first if absent.
// This is the only entry point ordinary queries should use.
func (b *Builder) GetOrBuild(ctx context.Context) (*participant.Table, error) {
	b.mu.Lock()
	if b.cached != nil {
		t := b.cached
		b.mu.Unlock()
		return t, nil
	}
	b.mu.Unlock()

	table, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.cached = table
	b.mu.Unlock()
	return table, nil
}

// Invalidate clears the cache; the next GetOrBuild performs a fresh build.
func (b *Builder) Invalidate() {
	b.mu.Lock()
	b.cached = nil
	b.mu.Unlock()
}

// Reload invalidates and eagerly rebuilds.
func (b *Builder) Reload(ctx context.Context) (*participant.Table, error) {
	b.Invalidate()
	return b.GetOrBuild(ctx)
}

// Build enumerates the corpus, selects one representative object per
// participant, fetches and extracts each, and assembles a fresh snapshot.
// Per-object failures are counted and logged, never abort the build; only
// missing storage configuration is fatal.
func (b *Builder) Build(ctx context.Context) (*participant.Table, error) {
	if b.cfg.Bucket == "" || b.cfg.RawPrefix == "" {
		return nil, errors.ConfigInvalid("storage bucket and raw prefix must be configured before a build")
	}

	keys, err := b.store.List(ctx, b.cfg.RawPrefix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to enumerate raw records")
	}

	reps := representativeKeys(keys)
	log.Printf("dataset build: %d objects listed, %d participants selected", len(keys), len(reps))

	// Deterministic participant order: sorted IDs, one slot each.
	ids := make([]string, 0, len(reps))
	for id := range reps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	slots := make([]*participant.Row, len(ids))
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.FetchConcurrency)
	for i, id := range ids {
		i, key := i, reps[id]
		g.Go(func() error {
			row, err := b.fetchOne(gctx, key)
			if err != nil {
				failed.Add(1)
				log.Printf("dataset build: skipping %s: %v", key, err)
				return nil
			}
			slots[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "dataset build aborted")
	}

	// Missing-data filter: drop rows still missing age, numeric level, or
	// location after derivation. The extractor gates age and location; an
	// unmapped level code surfaces here as rank 0.
	rows := make([]participant.Row, 0, len(slots))
	for _, row := range slots {
		if row == nil {
			continue
		}
		if row.Age <= 0 || row.LevelNumeric == 0 || row.Location == "" {
			continue
		}
		rows = append(rows, *row)
	}

	table := &participant.Table{
		SnapshotID:    uuid.New().String(),
		BuiltAt:       time.Now().UTC(),
		Rows:          rows,
		FailedObjects: int(failed.Load()),
	}
	log.Printf("dataset build complete: rows=%d failed=%d snapshot=%s", len(rows), table.FailedObjects, table.SnapshotID)
	return table, nil
}

// fetchOne reads and extracts a single representative object under the
// configured per-object timeout. A nil row with nil error means the record
// failed the completeness gate.
func (b *Builder) fetchOne(ctx context.Context, key string) (*participant.Row, error) {
	fetchCtx := ctx
	if b.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, b.cfg.FetchTimeout)
		defer cancel()
	}

	data, err := b.store.Get(fetchCtx, key)
	if err != nil {
		return nil, err
	}
	row, err := extract.FromJSON(data)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errors.ExtractionError("record failed completeness gate", nil)
	}
	return row, nil
}

// representativeKeys selects exactly one object key per participant. The
// storage API makes no ordering promise, so the tie-break is explicit: the
// lexicographically smallest key wins.
func representativeKeys(keys []string) map[string]string {
	reps := make(map[string]string)
	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}
		id, ok := participantFromKey(key)
		if !ok {
			continue
		}
		if current, exists := reps[id]; !exists || key < current {
			reps[id] = key
		}
	}
	return reps
}

// participantFromKey parses the participant directory out of a partitioned
// key: .../level=XX/<participant>/<file>.json. Keys not shaped that way are
// skipped.
func participantFromKey(key string) (string, bool) {
	parts := strings.Split(key, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, "level=") && i+2 < len(parts) {
			return strings.TrimSuffix(parts[i+1], "_json"), true
		}
	}
	return "", false
}
