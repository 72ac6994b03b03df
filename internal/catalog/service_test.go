package catalog

import (
	"context"
	"errors"
	"testing"

	"homebound-backend/internal/auth"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepository struct {
	services []Service
}

func (f *fakeRepository) List(ctx context.Context) ([]Service, error) {
	return f.services, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (Service, error) {
	for _, svc := range f.services {
		if svc.ID == id {
			return svc, nil
		}
	}
	return Service{}, mongo.ErrNoDocuments
}

func (f *fakeRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(f.services)), nil
}

func (f *fakeRepository) InsertMany(ctx context.Context, services []Service) error {
	f.services = append(f.services, services...)
	return nil
}

func TestSeedIfEmpty(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo)
	ctx := context.Background()

	seeded, err := svc.SeedIfEmpty(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !seeded {
		t.Fatal("expected seed to run on empty collection")
	}
	if len(repo.services) != 5 {
		t.Fatalf("expected 5 seeded services, got %d", len(repo.services))
	}
	for _, s := range repo.services {
		if s.ID == "" {
			t.Fatalf("seeded service missing id: %+v", s)
		}
	}

	seeded, err = svc.SeedIfEmpty(ctx)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if seeded {
		t.Fatal("seed must not run twice")
	}
	if len(repo.services) != 5 {
		t.Fatalf("catalog grew on reseed: %d", len(repo.services))
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewService(&fakeRepository{})

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSuggestCapsAtThree(t *testing.T) {
	svc := NewService(&fakeRepository{})
	restrictions := svc.CurrentRestrictions()

	vax := true
	suggestions := svc.Suggest(&auth.Principal{ID: "u-1", VaxStatus: &vax}, restrictions)
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d: %v", len(suggestions), suggestions)
	}
	if suggestions[0] != "Virtual Home Inspection" {
		t.Fatalf("online services must come first, got %v", suggestions)
	}
}

func TestSuggestVaccinatedUnderLowRestrictions(t *testing.T) {
	svc := NewService(&fakeRepository{})

	vax := true
	suggestions := svc.Suggest(&auth.Principal{ID: "u-1", VaxStatus: &vax}, Restrictions{Level: "low"})
	if len(suggestions) != 1 || suggestions[0] != "In-Person Safety Assessment" {
		t.Fatalf("unexpected suggestions: %v", suggestions)
	}
}

func TestSuggestUnvaccinated(t *testing.T) {
	svc := NewService(&fakeRepository{})
	restrictions := svc.CurrentRestrictions()

	suggestions := svc.Suggest(&auth.Principal{ID: "u-1"}, restrictions)
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 online suggestions, got %v", suggestions)
	}
	for _, s := range suggestions {
		if s == "In-Person Safety Assessment" {
			t.Fatal("in-person suggestion requires vaccination status")
		}
	}
}

func TestCurrentRestrictionsMock(t *testing.T) {
	svc := NewService(&fakeRepository{})
	restrictions := svc.CurrentRestrictions()

	if restrictions.Level != "medium" {
		t.Fatalf("expected level medium, got %q", restrictions.Level)
	}
	if !restrictions.MaskRequired || restrictions.QuarantineRequired {
		t.Fatalf("unexpected flags: %+v", restrictions)
	}
	if restrictions.LastUpdated == "" {
		t.Fatal("last_updated must be set")
	}
}
