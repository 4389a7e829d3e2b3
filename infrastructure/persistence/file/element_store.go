// Package file implements the persistence ports over flat JSON documents in
// a data directory, the storage a single-author authoring session runs on.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"
	pkgerrors "atlas-backend/pkg/errors"

	"go.uber.org/zap"
)

// ElementStore keeps one JSON document per element kind. Every mutation is
// a whole-document rewrite; concurrent writers serialize on the store lock,
// last writer wins across processes.
type ElementStore struct {
	dir    string
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewElementStore creates a store rooted at dir, creating it if needed
func NewElementStore(dir string, logger *zap.Logger) (*ElementStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.NewStoreIOError("create data dir", err)
	}
	return &ElementStore{dir: dir, logger: logger}, nil
}

func (s *ElementStore) path(kind valueobjects.ElementKind) string {
	return filepath.Join(s.dir, kind.String()+".json")
}

// GetAll retrieves every element of a kind
func (s *ElementStore) GetAll(ctx context.Context, kind valueobjects.ElementKind) ([]*entities.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(kind)
}

// Get retrieves one element, or a not-found error
func (s *ElementStore) Get(ctx context.Context, kind valueobjects.ElementKind, id string) (*entities.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elems, err := s.load(kind)
	if err != nil {
		return nil, err
	}
	for _, element := range elems {
		if element.ID == id {
			return element, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("%s %s", kind, id))
}

// Put persists an element, replacing any existing record with the same id
func (s *ElementStore) Put(ctx context.Context, element *entities.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	elems, err := s.load(element.Kind)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range elems {
		if existing.ID == element.ID {
			elems[i] = element
			replaced = true
			break
		}
	}
	if !replaced {
		elems = append(elems, element)
	}
	return s.save(element.Kind, elems)
}

// Delete removes an element
func (s *ElementStore) Delete(ctx context.Context, kind valueobjects.ElementKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	elems, err := s.load(kind)
	if err != nil {
		return err
	}
	for i, existing := range elems {
		if existing.ID == id {
			elems = append(elems[:i], elems[i+1:]...)
			return s.save(kind, elems)
		}
	}
	return pkgerrors.NewNotFoundError(fmt.Sprintf("%s %s", kind, id))
}

func (s *ElementStore) load(kind valueobjects.ElementKind) ([]*entities.Element, error) {
	data, err := os.ReadFile(s.path(kind))
	if os.IsNotExist(err) {
		return []*entities.Element{}, nil
	}
	if err != nil {
		return nil, pkgerrors.NewStoreIOError("read elements", err)
	}

	var elems []*entities.Element
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, pkgerrors.NewStoreIOError("decode elements", err)
	}
	// The document stores its own kind; tolerate records that omit it
	for _, element := range elems {
		if element.Kind == "" {
			element.Kind = kind
		}
	}
	return elems, nil
}

func (s *ElementStore) save(kind valueobjects.ElementKind, elems []*entities.Element) error {
	data, err := json.MarshalIndent(elems, "", "  ")
	if err != nil {
		return pkgerrors.NewStoreIOError("encode elements", err)
	}
	if err := writeFileAtomic(s.path(kind), data, 0o644); err != nil {
		return pkgerrors.NewStoreIOError("write elements", err)
	}
	s.logger.Debug("persisted elements", zap.String("kind", kind.String()), zap.Int("count", len(elems)))
	return nil
}
