package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gudang/internal/cache"
	"gudang/internal/models"
)

// ErrNoActiveUser is returned by cached fetches when no user identifier
// is present. Fetching into an absent-auth context would cache data
// under an empty key, so it is refused outright.
var ErrNoActiveUser = errors.New("no authenticated user")

// CachedProductService decorates a ProductService with read caching
// and mutation-driven invalidation. Collection reads are cached per
// user, single reads per (user, product); every mutation drops the
// user's collection key so the next read refetches.
type CachedProductService struct {
	next  ProductService
	store cache.Store
	ttl   time.Duration
}

// NewCachedProductService creates a new CachedProductService with the
// default TTL.
func NewCachedProductService(next ProductService, store cache.Store) *CachedProductService {
	return &CachedProductService{
		next:  next,
		store: store,
		ttl:   cache.DefaultTTL,
	}
}

// FetchAll serves the user's collection from cache when possible.
func (s *CachedProductService) FetchAll(userID string) ([]models.Product, error) {
	if userID == "" {
		return nil, ErrNoActiveUser
	}

	ctx := context.Background()
	key := cache.ProductsKey(userID)

	var products []models.Product
	hit, err := s.store.Get(ctx, key, &products)
	if err != nil {
		log.Printf("Warning: cache read for %s failed: %v", key, err)
	} else if hit {
		return products, nil
	}

	products, err = s.next.FetchAll(userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, key, products, s.ttl); err != nil {
		log.Printf("Warning: cache write for %s failed: %v", key, err)
	}
	return products, nil
}

// FetchByID serves a single product from cache when possible. Absent
// products are never cached.
func (s *CachedProductService) FetchByID(userID, id string) (*models.Product, error) {
	if userID == "" {
		return nil, ErrNoActiveUser
	}

	ctx := context.Background()
	key := cache.ProductKey(userID, id)

	var cached models.Product
	hit, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("Warning: cache read for %s failed: %v", key, err)
	} else if hit {
		return &cached, nil
	}

	product, err := s.next.FetchByID(userID, id)
	if err != nil {
		return nil, err
	}
	if product != nil {
		if err := s.store.Set(ctx, key, product, s.ttl); err != nil {
			log.Printf("Warning: cache write for %s failed: %v", key, err)
		}
	}
	return product, nil
}

// Create passes through and invalidates the user's collection.
func (s *CachedProductService) Create(userID string, payload *models.ProductInsert) (*models.Product, error) {
	product, err := s.next.Create(userID, payload)
	if err != nil {
		return nil, err
	}
	s.invalidate(userID, cache.ProductsKey(userID))
	return product, nil
}

// Update passes through and invalidates the collection and the record.
func (s *CachedProductService) Update(userID, id string, updates *models.ProductUpdate) (*models.Product, error) {
	product, err := s.next.Update(userID, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidate(userID, cache.ProductsKey(userID), cache.ProductKey(userID, id))
	return product, nil
}

// Delete passes through and invalidates the collection and the record.
func (s *CachedProductService) Delete(userID, id string) (string, error) {
	confirmed, err := s.next.Delete(userID, id)
	if err != nil {
		return "", err
	}
	s.invalidate(userID, cache.ProductsKey(userID), cache.ProductKey(userID, id))
	return confirmed, nil
}

// invalidate drops keys best-effort; a cache failure must not fail a
// mutation that already succeeded. Stale entries expire via TTL.
func (s *CachedProductService) invalidate(userID string, keys ...string) {
	if err := s.store.Delete(context.Background(), keys...); err != nil {
		log.Printf("Warning: cache invalidation for user %s failed: %v", userID, err)
	}
}
