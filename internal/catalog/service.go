package catalog

import (
	"context"
	"errors"
	"time"

	"homebound-backend/internal/auth"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("service not found")

type CatalogService struct {
	repo Repository
}

func NewService(repo Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) List(ctx context.Context) ([]Service, error) {
	return s.repo.List(ctx)
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (Service, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Service{}, ErrNotFound
		}
		return Service{}, err
	}
	return svc, nil
}

// SeedIfEmpty inserts the fixed catalog on first startup. It reports
// whether the seed ran.
func (s *CatalogService) SeedIfEmpty(ctx context.Context) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	now := time.Now().UTC()
	seeded := make([]Service, 0, len(seedServices))
	for _, svc := range seedServices {
		svc.ID = uuid.NewString()
		svc.Photos = []string{}
		svc.CreatedAt = now
		seeded = append(seeded, svc)
	}

	if err := s.repo.InsertMany(ctx, seeded); err != nil {
		return false, err
	}
	return true, nil
}

// CurrentRestrictions returns the mock COVID restriction payload; the
// level never changes at runtime.
func (s *CatalogService) CurrentRestrictions() Restrictions {
	return Restrictions{
		Level:              "medium",
		DensityLimits:      "1 person per 4 sqm",
		MaskRequired:       true,
		QuarantineRequired: false,
		LastUpdated:        time.Now().UTC().Format(time.RFC3339),
		Message:            "Current restrictions recommend remote services. Masks required for in-person visits.",
	}
}

// Suggest returns up to three service suggestions for the user, online
// offerings first while restrictions are elevated.
func (s *CatalogService) Suggest(principal *auth.Principal, restrictions Restrictions) []string {
	suggestions := make([]string, 0, 4)

	if restrictions.Level == "high" || restrictions.Level == "medium" {
		suggestions = append(suggestions,
			"Virtual Home Inspection",
			"Online Renovation Consultation",
			"Remote Design Planning",
		)
	}

	if principal != nil && principal.VaxStatus != nil && *principal.VaxStatus {
		suggestions = append(suggestions, "In-Person Safety Assessment")
	}

	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}
