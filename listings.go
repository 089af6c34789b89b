package mapflow

import (
	"context"
	"fmt"

	"github.com/loclane/mapflow/internal/domain"
	listingrepo "github.com/loclane/mapflow/internal/repository/listing"
)

// ListingService manages the listing inventory behind the map.
type ListingService struct {
	repo         *listingrepo.Repo
	maxBatchSize int
}

// Upsert writes listings and registers them in the spatial index. Listings
// with an empty ID or out-of-range coordinates are skipped. Returns how
// many listings were accepted.
func (s *ListingService) Upsert(ctx context.Context, listings []Listing) (int, error) {
	if s.maxBatchSize > 0 && len(listings) > s.maxBatchSize {
		return 0, fmt.Errorf("upsert: batch of %d exceeds limit %d", len(listings), s.maxBatchSize)
	}

	batch := make([]domain.Listing, len(listings))
	for i, l := range listings {
		batch[i] = toDomainListing(l)
	}

	n, err := s.repo.Upsert(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("upsert: %w", err)
	}
	return n, nil
}

// Get fetches a listing by id. Returns ErrListingNotFound if absent.
func (s *ListingService) Get(ctx context.Context, id string) (Listing, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return Listing{}, fmt.Errorf("get: %w", err)
	}
	return fromDomainListing(l), nil
}

// Delete removes a listing and its map marker. Returns ErrListingNotFound
// if absent.
func (s *ListingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}
