package versions

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	goavsc "github.com/reoring/goavsc"
)

// ErrNoVersions is returned by LoadLatest when the index is empty.
var ErrNoVersions = errors.New("versions: index lists no versions")

// Snapshot is an immutable, fully parsed schema version.
type Snapshot struct {
	Version string
	Root    goavsc.Schema
	// Fingerprint is the hex SHA-256 of the Parsing Canonical Form; empty
	// when the document has no canonical form.
	Fingerprint string
	LoadedAt    time.Time
}

// Loader selects, fetches and parses schema versions from a Source.
//
// Readers call Current concurrently with loads; a failed load never replaces
// the last good snapshot.
type Loader struct {
	src    Source
	logger *zap.Logger
	opt    goavsc.ParseOpt
	now    func() time.Time

	mu        sync.RWMutex
	current   *Snapshot
	requested string
}

// NewLoader returns a Loader reading from src. A nil logger discards output.
func NewLoader(src Source, logger *zap.Logger, opts ...goavsc.ParseOpt) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	var opt goavsc.ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return &Loader{src: src, logger: logger, opt: opt, now: time.Now}
}

// Versions returns the published versions, newest first.
func (l *Loader) Versions(ctx context.Context) ([]string, error) {
	vs, err := l.src.Versions(ctx)
	if err != nil {
		return nil, err
	}
	return SortVersions(vs), nil
}

// LoadLatest loads the newest published version.
func (l *Loader) LoadLatest(ctx context.Context) (*Snapshot, error) {
	vs, err := l.src.Versions(ctx)
	if err != nil {
		l.logger.Error("failed to list schema versions", zap.Error(err))
		return nil, err
	}
	latest, ok := Latest(vs)
	if !ok {
		l.logger.Error("no schema versions published")
		return nil, ErrNoVersions
	}
	return l.load(ctx, latest)
}

// Load loads version. A version missing from the index is logged and still
// attempted, since the index may lag behind the published documents.
func (l *Loader) Load(ctx context.Context, version string) (*Snapshot, error) {
	vs, err := l.src.Versions(ctx)
	if err != nil {
		l.logger.Error("failed to list schema versions", zap.Error(err))
		return nil, err
	}
	if !slices.Contains(vs, version) {
		l.logger.Warn("schema version does not exist",
			zap.String("version", version),
			zap.Strings("existing", vs))
	}
	return l.load(ctx, version)
}

func (l *Loader) load(ctx context.Context, version string) (*Snapshot, error) {
	l.mu.Lock()
	l.requested = version
	l.mu.Unlock()

	log := l.logger.With(zap.String("version", version))
	data, err := l.src.Schema(ctx, version)
	if err != nil {
		log.Error("failed to fetch schema", zap.Error(err))
		return nil, err
	}
	root, err := goavsc.ParseBytes(data, l.opt)
	if err != nil {
		log.Error("failed to parse schema", zap.Error(err))
		return nil, fmt.Errorf("versions: parse %s: %w", version, err)
	}

	snap := &Snapshot{Version: version, Root: root, LoadedAt: l.now()}
	if c, err := goavsc.Canonicalize(data); err != nil {
		log.Debug("schema has no canonical form", zap.Error(err))
	} else {
		snap.Fingerprint = c.SHA256
	}

	l.mu.Lock()
	l.current = snap
	l.mu.Unlock()
	log.Info("schema loaded", zap.String("fingerprint", snap.Fingerprint))
	return snap, nil
}

// Current returns the last successfully loaded snapshot, or nil.
func (l *Loader) Current() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Requested returns the version most recently asked for, which differs from
// Current().Version after a failed load.
func (l *Loader) Requested() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.requested
}
