package services

import (
	"context"
	"fmt"

	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"
	pkgerrors "atlas-backend/pkg/errors"
)

// memTimelineRepo is an in-memory TimelineRepository with the same
// transactional contract as the real stores: mutate runs on a copy and the
// document only changes when the whole update succeeds.
type memTimelineRepo struct {
	doc     *entities.TimelineDocument
	loadErr error
	saveErr error
	updates int
}

func newMemTimelineRepo() *memTimelineRepo {
	return &memTimelineRepo{doc: entities.NewTimelineDocument()}
}

func (m *memTimelineRepo) Load(ctx context.Context) (*entities.TimelineDocument, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.doc, nil
}

func (m *memTimelineRepo) Update(ctx context.Context, mutate func(*entities.TimelineDocument) error) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	working := m.doc.Clone()
	if err := mutate(working); err != nil {
		return err
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	m.doc = working
	m.updates++
	return nil
}

// memElementRepo is an in-memory ElementRepository
type memElementRepo struct {
	byKind map[valueobjects.ElementKind][]*entities.Element
	putErr error
}

func newMemElementRepo() *memElementRepo {
	return &memElementRepo{byKind: make(map[valueobjects.ElementKind][]*entities.Element)}
}

func (m *memElementRepo) GetAll(ctx context.Context, kind valueobjects.ElementKind) ([]*entities.Element, error) {
	return append([]*entities.Element(nil), m.byKind[kind]...), nil
}

func (m *memElementRepo) Get(ctx context.Context, kind valueobjects.ElementKind, id string) (*entities.Element, error) {
	for _, element := range m.byKind[kind] {
		if element.ID == id {
			return element, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("%s %s", kind, id))
}

func (m *memElementRepo) Put(ctx context.Context, element *entities.Element) error {
	if m.putErr != nil {
		return m.putErr
	}
	for i, existing := range m.byKind[element.Kind] {
		if existing.ID == element.ID {
			m.byKind[element.Kind][i] = element.Clone()
			return nil
		}
	}
	m.byKind[element.Kind] = append(m.byKind[element.Kind], element.Clone())
	return nil
}

func (m *memElementRepo) Delete(ctx context.Context, kind valueobjects.ElementKind, id string) error {
	for i, existing := range m.byKind[kind] {
		if existing.ID == id {
			m.byKind[kind] = append(m.byKind[kind][:i], m.byKind[kind][i+1:]...)
			return nil
		}
	}
	return pkgerrors.NewNotFoundError(fmt.Sprintf("%s %s", kind, id))
}

// mustElement builds a valid element or fails loudly at test setup
func mustElement(id string, kind valueobjects.ElementKind, creationYear int, attrs entities.Attributes) *entities.Element {
	element, err := entities.NewElement(id, kind, creationYear, attrs)
	if err != nil {
		panic(err)
	}
	return element
}
