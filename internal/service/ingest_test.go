package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/tyrell35/Prospex/internal/dto"
	"github.com/tyrell35/Prospex/internal/entity"
	"github.com/tyrell35/Prospex/internal/provider"
	"github.com/tyrell35/Prospex/internal/repository"
)

func listing(name string, source entity.Source) entity.Listing {
	return entity.Listing{BusinessName: name, Source: source}
}

func TestDedupeListings_FirstOccurrenceWins(t *testing.T) {
	input := []entity.Listing{
		listing("Glow Salon", entity.SourceGoogleMaps),
		listing("  glow salon ", entity.SourceYelp),
		listing("GLOW SALON", entity.SourceFresha),
		listing("Other Spa", entity.SourceYelp),
	}

	unique := DedupeListings(input)

	if len(unique) != 2 {
		t.Fatalf("expected 2 unique listings, got %d", len(unique))
	}
	if unique[0].Source != entity.SourceGoogleMaps {
		t.Fatalf("expected the google_maps record to survive, got %s", unique[0].Source)
	}
	if unique[1].BusinessName != "Other Spa" {
		t.Fatalf("unexpected second survivor: %+v", unique[1])
	}
}

func TestDedupeListings_NameOnlyKeyIgnoresSource(t *testing.T) {
	// The batch key is the name alone; a same-name record from another
	// source is dropped even though the merge identity would differ.
	input := []entity.Listing{
		listing("Glow Salon", entity.SourceYelp),
		listing("Glow Salon", entity.SourceGoogleMaps),
	}
	unique := DedupeListings(input)
	if len(unique) != 1 || unique[0].Source != entity.SourceYelp {
		t.Fatalf("expected only the first yelp record, got %+v", unique)
	}
}

func TestIngest_ValidatesRequest(t *testing.T) {
	service := NewIngestService(provider.Set{}, &mockLeadsRepository{}, &mockActivityRepository{})

	_, err := service.Ingest(context.Background(), dto.ScrapeRequest{Niche: "  ", Location: "Austin", Source: "all"})
	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validationErr.Message != "niche and location are required" {
		t.Fatalf("unexpected message: %s", validationErr.Message)
	}

	_, err = service.Ingest(context.Background(), dto.ScrapeRequest{Niche: "salon", Location: "Austin", Source: "myspace"})
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error for bad source, got %v", err)
	}
}

func TestIngest_SingleSourceSurfacesProviderError(t *testing.T) {
	provErr := provider.ProviderError{Source: entity.SourceYelp, StatusCode: 500, Body: "boom"}
	providers := provider.Set{
		entity.SourceYelp: &stubFetcher{source: entity.SourceYelp, err: provErr},
	}
	service := NewIngestService(providers, &mockLeadsRepository{}, &mockActivityRepository{})

	_, err := service.Ingest(context.Background(), dto.ScrapeRequest{Niche: "salon", Location: "Austin", Source: "yelp"})
	var got provider.ProviderError
	if !errors.As(err, &got) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if got.StatusCode != 500 {
		t.Fatalf("expected status 500, got %d", got.StatusCode)
	}
}

func TestIngest_AllIsolatesFailingProvider(t *testing.T) {
	inserted := make(map[string]entity.Source)
	leads := &mockLeadsRepository{
		findByIdentity: func(ctx context.Context, name string, source entity.Source) (*entity.Lead, error) {
			return nil, repository.ErrLeadNotFound
		},
		insert: func(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
			inserted[lead.BusinessName] = lead.Source
			created := *lead
			created.ID = uuid.New()
			return &created, nil
		},
	}
	activity := &mockActivityRepository{}
	providers := provider.Set{
		entity.SourceGoogleMaps: &stubFetcher{source: entity.SourceGoogleMaps, listings: []entity.Listing{listing("Glow Salon", entity.SourceGoogleMaps)}},
		entity.SourceYelp:       &stubFetcher{source: entity.SourceYelp, err: provider.ProviderError{Source: entity.SourceYelp, StatusCode: 502}},
		entity.SourceFresha:     &stubFetcher{source: entity.SourceFresha, listings: []entity.Listing{listing("Calm Spa", entity.SourceFresha)}},
	}
	service := NewIngestService(providers, leads, activity)

	resp, err := service.Ingest(context.Background(), dto.ScrapeRequest{Niche: "salon", Location: "Austin", Source: "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected 2 merged leads, got %d", resp.Count)
	}
	if inserted["Glow Salon"] != entity.SourceGoogleMaps || inserted["Calm Spa"] != entity.SourceFresha {
		t.Fatalf("unexpected inserts: %+v", inserted)
	}
	if len(activity.recorded) != 1 || activity.recorded[0].action != entity.ActionScrape {
		t.Fatalf("expected one scrape activity entry, got %+v", activity.recorded)
	}
}

func TestIngest_MergeUpdatesExistingLead(t *testing.T) {
	existingID := uuid.New()
	phone := "+1 212 555 0100"
	var gotUpdate repository.ContactUpdate
	leads := &mockLeadsRepository{
		findByIdentity: func(ctx context.Context, name string, source entity.Source) (*entity.Lead, error) {
			if name != "Glow Salon" || source != entity.SourceGoogleMaps {
				t.Fatalf("unexpected identity lookup: %s/%s", name, source)
			}
			return &entity.Lead{ID: existingID, BusinessName: name, Source: source}, nil
		},
		updateContact: func(ctx context.Context, id uuid.UUID, update repository.ContactUpdate) error {
			if id != existingID {
				t.Fatalf("expected update on %s, got %s", existingID, id)
			}
			gotUpdate = update
			return nil
		},
	}
	providers := provider.Set{
		entity.SourceGoogleMaps: &stubFetcher{
			source:   entity.SourceGoogleMaps,
			listings: []entity.Listing{{BusinessName: "Glow Salon", Phone: &phone, Source: entity.SourceGoogleMaps}},
		},
	}
	service := NewIngestService(providers, leads, &mockActivityRepository{})

	if _, err := service.Ingest(context.Background(), dto.ScrapeRequest{Niche: "salon", Location: "Austin", Source: "google_maps"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUpdate.Phone == nil || *gotUpdate.Phone != phone {
		t.Fatalf("expected refreshed phone, got %+v", gotUpdate)
	}
}

func TestIngest_InsertRaceDegradesToUpdate(t *testing.T) {
	racedID := uuid.New()
	lookups := 0
	updated := false
	leads := &mockLeadsRepository{
		findByIdentity: func(ctx context.Context, name string, source entity.Source) (*entity.Lead, error) {
			lookups++
			if lookups == 1 {
				return nil, repository.ErrLeadNotFound
			}
			return &entity.Lead{ID: racedID, BusinessName: name, Source: source}, nil
		},
		insert: func(ctx context.Context, lead *entity.Lead) (*entity.Lead, error) {
			return nil, repository.ErrDuplicateLead
		},
		updateContact: func(ctx context.Context, id uuid.UUID, update repository.ContactUpdate) error {
			if id != racedID {
				t.Fatalf("expected update on raced lead, got %s", id)
			}
			updated = true
			return nil
		},
	}
	providers := provider.Set{
		entity.SourceGoogleMaps: &stubFetcher{source: entity.SourceGoogleMaps, listings: []entity.Listing{listing("Glow Salon", entity.SourceGoogleMaps)}},
	}
	service := NewIngestService(providers, leads, &mockActivityRepository{})

	if _, err := service.Ingest(context.Background(), dto.ScrapeRequest{Niche: "salon", Location: "Austin", Source: "google_maps"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Fatalf("expected a contact update after the lost insert race")
	}
}

func TestIngest_PersistErrorAbortsBatch(t *testing.T) {
	dbErr := errors.New("connection reset")
	leads := &mockLeadsRepository{
		findByIdentity: func(ctx context.Context, name string, source entity.Source) (*entity.Lead, error) {
			return nil, dbErr
		},
	}
	providers := provider.Set{
		entity.SourceGoogleMaps: &stubFetcher{source: entity.SourceGoogleMaps, listings: []entity.Listing{listing("Glow Salon", entity.SourceGoogleMaps)}},
	}
	service := NewIngestService(providers, leads, &mockActivityRepository{})

	_, err := service.Ingest(context.Background(), dto.ScrapeRequest{Niche: "salon", Location: "Austin", Source: "google_maps"})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected wrapped persistence error, got %v", err)
	}
}
