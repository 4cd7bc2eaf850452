package services

import (
	"log"

	"gudang/internal/models"
	"gudang/internal/repositories"
	"gudang/internal/validation"
	"gudang/pkg/rabbitmq"
)

// ProductService is the uniform product interface consumed by
// UI-facing code. It is implemented by LocalProductService (directly
// over the data access layer), HTTPProductService (over the REST
// surface) and CachedProductService (a caching decorator over either);
// all three behave identically, so callers are written once.
type ProductService interface {
	FetchAll(userID string) ([]models.Product, error)
	FetchByID(userID, id string) (*models.Product, error)
	Create(userID string, payload *models.ProductInsert) (*models.Product, error)
	Update(userID, id string, updates *models.ProductUpdate) (*models.Product, error)
	Delete(userID, id string) (string, error)
}

// EventPublisher is what the product service needs from the message
// broker. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	PublishProductEvent(event rabbitmq.ProductEvent) error
}

// LocalProductService routes operations straight to the data access
// layer and publishes a mutation event after each successful write.
type LocalProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewLocalProductService creates a new LocalProductService. events may
// be nil, in which case mutation events are skipped.
func NewLocalProductService(repo repositories.ProductRepository, events EventPublisher) *LocalProductService {
	return &LocalProductService{
		repo:   repo,
		events: events,
	}
}

// FetchAll retrieves every live product owned by userID, name-ordered.
func (s *LocalProductService) FetchAll(userID string) ([]models.Product, error) {
	return s.repo.GetAll(userID)
}

// FetchByID retrieves one product, or (nil, nil) when it is absent.
func (s *LocalProductService) FetchByID(userID, id string) (*models.Product, error) {
	return s.repo.GetByID(userID, id)
}

// Create inserts a new product and returns the fully populated row.
// The payload is validated here as well so direct callers get the
// same rejections the REST surface produces.
func (s *LocalProductService) Create(userID string, payload *models.ProductInsert) (*models.Product, error) {
	if verr := validation.Struct(payload); verr != nil {
		return nil, verr
	}

	product := &models.Product{
		UserID:        userID,
		Name:          payload.Name,
		Quantity:      *payload.Quantity,
		PurchasePrice: *payload.PurchasePrice,
		SalePrice:     *payload.SalePrice,
		Code:          payload.Code,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	s.publish("created", userID, product.ID)
	return product, nil
}

// Update patches only the provided fields and returns the updated row.
func (s *LocalProductService) Update(userID, id string, updates *models.ProductUpdate) (*models.Product, error) {
	if verr := validation.Struct(updates); verr != nil {
		return nil, verr
	}

	product, err := s.repo.Update(userID, id, updates)
	if err != nil {
		return nil, err
	}

	s.publish("updated", userID, id)
	return product, nil
}

// Delete soft-deletes a product and returns its identifier as
// confirmation.
func (s *LocalProductService) Delete(userID, id string) (string, error) {
	if err := s.repo.Delete(userID, id); err != nil {
		return "", err
	}

	s.publish("deleted", userID, id)
	return id, nil
}

// publish emits a mutation event best-effort; a broker failure must
// not fail the write that already happened.
func (s *LocalProductService) publish(action, userID, productID string) {
	if s.events == nil {
		return
	}
	event := rabbitmq.ProductEvent{
		Action:    action,
		ProductID: productID,
		UserID:    userID,
	}
	if err := s.events.PublishProductEvent(event); err != nil {
		log.Printf("Warning: failed to publish product %s event for %s: %v", action, productID, err)
	}
}
