package services

import (
	"context"

	"atlas-backend/application/ports"
	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ElementService is the thin CRUD surface over the element store. The only
// rule it owns is that deleting an element also purges the element's
// timeline history, so removed elements leave nothing behind.
type ElementService struct {
	elements ports.ElementRepository
	history  *HistoryService
	logger   *zap.Logger
}

// NewElementService creates a new element service
func NewElementService(elements ports.ElementRepository, history *HistoryService, logger *zap.Logger) *ElementService {
	return &ElementService{elements: elements, history: history, logger: logger}
}

// List returns every current element of a kind
func (s *ElementService) List(ctx context.Context, kind valueobjects.ElementKind) ([]*entities.Element, error) {
	return s.elements.GetAll(ctx, kind)
}

// Get returns one element
func (s *ElementService) Get(ctx context.Context, kind valueobjects.ElementKind, id string) (*entities.Element, error) {
	return s.elements.Get(ctx, kind, id)
}

// Create stores a new element, generating an id when none is supplied
func (s *ElementService) Create(ctx context.Context, kind valueobjects.ElementKind, id string, creationYear int, attrs entities.Attributes) (*entities.Element, error) {
	if id == "" {
		id = uuid.New().String()
	}
	element, err := entities.NewElement(id, kind, creationYear, attrs)
	if err != nil {
		return nil, err
	}
	if err := s.elements.Put(ctx, element); err != nil {
		return nil, err
	}

	s.logger.Debug("created element",
		zap.String("kind", kind.String()),
		zap.String("elementID", element.ID),
		zap.Int("creationYear", element.CreationYear),
	)
	return element, nil
}

// Update replaces an element's current attributes and creation year
func (s *ElementService) Update(ctx context.Context, kind valueobjects.ElementKind, id string, creationYear *int, attrs entities.Attributes) (*entities.Element, error) {
	element, err := s.elements.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	element = element.Clone()
	if creationYear != nil {
		element.CreationYear = *creationYear
	}
	if attrs != nil {
		element.Attrs = attrs.Clone()
	}

	if err := s.elements.Put(ctx, element); err != nil {
		return nil, err
	}
	return element, nil
}

// Delete removes an element permanently and purges its recorded history
func (s *ElementService) Delete(ctx context.Context, kind valueobjects.ElementKind, id string) error {
	if _, err := s.elements.Get(ctx, kind, id); err != nil {
		return err
	}
	if err := s.elements.Delete(ctx, kind, id); err != nil {
		return err
	}

	touched, err := s.history.Purge(ctx, kind, id)
	if err != nil {
		return err
	}

	s.logger.Info("deleted element",
		zap.String("kind", kind.String()),
		zap.String("elementID", id),
		zap.Int("historyEntriesTouched", touched),
	)
	return nil
}
