package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/tyrell35/Prospex/internal/dto"
	"github.com/tyrell35/Prospex/internal/entity"
	"github.com/tyrell35/Prospex/internal/provider"
	"github.com/tyrell35/Prospex/internal/repository"
)

// ValidationError indicates a rejected ingest request. It is raised before
// any network or storage call.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// sourceOrder fixes the fetch sequence for "all" so batch de-duplication is
// deterministic: the first occurrence of a name wins.
var sourceOrder = []entity.Source{entity.SourceGoogleMaps, entity.SourceYelp, entity.SourceFresha}

// IngestService runs the scrape-normalize-dedupe-merge pipeline.
type IngestService struct {
	providers provider.Set
	leads     repository.LeadsRepository
	activity  repository.ActivityRepository
}

// NewIngestService wires the ingest pipeline.
func NewIngestService(providers provider.Set, leads repository.LeadsRepository, activity repository.ActivityRepository) *IngestService {
	return &IngestService{providers: providers, leads: leads, activity: activity}
}

// Ingest fetches listings from the selected source(s), de-duplicates them by
// business name, and merges each survivor into the lead store sequentially.
// When the selector is "all", a failing provider is logged and skipped; a
// single named source surfaces its error directly. A persistence error aborts
// the remaining records; earlier records stay persisted and are safe to
// re-ingest.
func (s *IngestService) Ingest(ctx context.Context, req dto.ScrapeRequest) (dto.ScrapeResponse, error) {
	niche := strings.TrimSpace(req.Niche)
	location := strings.TrimSpace(req.Location)
	if niche == "" || location == "" {
		return dto.ScrapeResponse{}, ValidationError{Message: "niche and location are required"}
	}

	selector := strings.TrimSpace(req.Source)
	if selector != dto.SourceAll && !entity.Source(selector).Valid() {
		return dto.ScrapeResponse{}, ValidationError{Message: "source must be google_maps, yelp, fresha or all"}
	}

	var results []entity.Listing
	for _, source := range sourceOrder {
		if selector != dto.SourceAll && entity.Source(selector) != source {
			continue
		}
		fetcher, ok := s.providers[source]
		if !ok {
			if selector != dto.SourceAll {
				return dto.ScrapeResponse{}, ValidationError{Message: fmt.Sprintf("source %s is not configured", source)}
			}
			continue
		}

		listings, err := fetcher.Fetch(ctx, niche, location)
		if err != nil {
			if selector != dto.SourceAll {
				return dto.ScrapeResponse{}, err
			}
			log.Printf("%s scrape failed: %v", source, err)
			continue
		}
		results = append(results, listings...)
	}

	unique := DedupeListings(results)

	for _, listing := range unique {
		if err := s.merge(ctx, listing); err != nil {
			return dto.ScrapeResponse{}, fmt.Errorf("persist lead %q: %w", listing.BusinessName, err)
		}
	}

	if err := s.activity.Record(ctx, entity.ActionScrape,
		fmt.Sprintf("Scraped %d leads for %q in %q (%s)", len(unique), niche, location, selector), nil); err != nil {
		log.Printf("record scrape activity: %v", err)
	}

	return dto.ScrapeResponse{Results: unique, Count: len(unique)}, nil
}

// DedupeListings removes batch duplicates keyed by lower-cased, trimmed
// business name only. Source is not part of this key, so a Yelp record is
// dropped when a Google Maps record of the same name came first; the merge
// lookup below uses the stricter (name, source) key. The two keys are
// intentionally different.
func DedupeListings(listings []entity.Listing) []entity.Listing {
	seen := make(map[string]struct{}, len(listings))
	unique := make([]entity.Listing, 0, len(listings))
	for _, listing := range listings {
		key := strings.ToLower(strings.TrimSpace(listing.BusinessName))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, listing)
	}
	return unique
}

// merge applies insert-vs-update semantics for one listing. Existing leads
// get their contact and rating fields refreshed; score and audit fields are
// only ever touched by the audit-completion path. A lost insert race against
// a concurrent ingest degrades to the update path, which makes the keyed
// write idempotent.
func (s *IngestService) merge(ctx context.Context, listing entity.Listing) error {
	existing, err := s.leads.FindByIdentity(ctx, listing.BusinessName, listing.Source)
	switch {
	case err == nil:
		return s.leads.UpdateContact(ctx, existing.ID, contactUpdateFrom(listing))
	case errors.Is(err, repository.ErrLeadNotFound):
		_, insertErr := s.leads.Insert(ctx, &entity.Lead{
			BusinessName:      listing.BusinessName,
			Address:           listing.Address,
			Phone:             listing.Phone,
			Email:             listing.Email,
			Website:           listing.Website,
			GoogleRating:      listing.GoogleRating,
			GoogleReviewCount: listing.GoogleReviewCount,
			GoogleMapsURL:     listing.GoogleMapsURL,
			Source:            listing.Source,
		})
		if errors.Is(insertErr, repository.ErrDuplicateLead) {
			raced, findErr := s.leads.FindByIdentity(ctx, listing.BusinessName, listing.Source)
			if findErr != nil {
				return findErr
			}
			return s.leads.UpdateContact(ctx, raced.ID, contactUpdateFrom(listing))
		}
		return insertErr
	default:
		return err
	}
}

func contactUpdateFrom(listing entity.Listing) repository.ContactUpdate {
	return repository.ContactUpdate{
		Phone:             listing.Phone,
		Email:             listing.Email,
		Website:           listing.Website,
		GoogleRating:      listing.GoogleRating,
		GoogleReviewCount: listing.GoogleReviewCount,
	}
}
