package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"atlas-backend/domain/core/entities"
	pkgerrors "atlas-backend/pkg/errors"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// TimelineFileName is the timeline document's name inside the data dir
const TimelineFileName = "timeline.json"

// TimelineStore persists the timeline document as one JSON file. The loaded
// document is cached and handed out as a shared read-only snapshot; Update
// mutates a deep copy and swaps it in only after the atomic write succeeds,
// so an aborted mutation is never observable. An fsnotify watcher drops the
// cache when the file changes on disk, picking up edits made outside the
// running process.
type TimelineStore struct {
	path    string
	logger  *zap.Logger
	mu      sync.Mutex
	cached  *entities.TimelineDocument
	watcher *fsnotify.Watcher
}

// NewTimelineStore creates a store for dir/timeline.json. When watch is
// true, external file changes invalidate the cached document.
func NewTimelineStore(dir string, watch bool, logger *zap.Logger) (*TimelineStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.NewStoreIOError("create data dir", err)
	}

	s := &TimelineStore{
		path:   filepath.Join(dir, TimelineFileName),
		logger: logger,
	}

	if watch {
		if err := s.startWatcher(dir); err != nil {
			// A missing watcher only costs external-edit detection
			logger.Warn("timeline file watcher unavailable", zap.Error(err))
		}
	}
	return s, nil
}

// Load retrieves the timeline document as a shared read-only snapshot
func (s *TimelineStore) Load(ctx context.Context) (*entities.TimelineDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Update applies mutate to a copy of the document and persists it
// atomically. On any failure the cached document and the file are left as
// they were.
func (s *TimelineStore) Update(ctx context.Context, mutate func(doc *entities.TimelineDocument) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked()
	if err != nil {
		return err
	}

	working := current.Clone()
	if err := mutate(working); err != nil {
		return err
	}

	data, err := json.MarshalIndent(working, "", "  ")
	if err != nil {
		return pkgerrors.NewStoreIOError("encode timeline", err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return pkgerrors.NewStoreIOError("write timeline", err)
	}

	s.cached = working
	return nil
}

// Close stops the file watcher
func (s *TimelineStore) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *TimelineStore) loadLocked() (*entities.TimelineDocument, error) {
	if s.cached != nil {
		return s.cached, nil
	}

	doc := entities.NewTimelineDocument()
	data, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, pkgerrors.NewStoreIOError("read timeline", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, pkgerrors.NewStoreIOError("decode timeline", err)
		}
	}

	doc.SortEntries()
	doc.SortEpochs()
	s.cached = doc
	return doc, nil
}

// startWatcher watches the data dir; the atomic rename that replaces the
// timeline file only surfaces as a dir-level event.
func (s *TimelineStore) startWatcher(dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}
	s.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != TimelineFileName {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				s.mu.Lock()
				s.cached = nil
				s.mu.Unlock()
				s.logger.Debug("timeline file changed on disk, cache invalidated",
					zap.String("op", event.Op.String()))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("timeline file watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
