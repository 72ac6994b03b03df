package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"homebound-backend/internal/auth"
	"homebound-backend/internal/catalog"
	"homebound-backend/internal/qr"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("booking not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrInvalidAction   = errors.New("invalid action")
	ErrDecided         = errors.New("booking already decided")
	ErrForbidden       = errors.New("access denied")
	ErrNotAccepted     = errors.New("booking not accepted")
)

// Catalog is the slice of the service catalog the booking workflow
// needs: price lookup at creation and the current restriction level.
type Catalog interface {
	GetByID(ctx context.Context, id string) (catalog.Service, error)
	CurrentRestrictions() catalog.Restrictions
}

type Service struct {
	repo    Repository
	catalog Catalog
}

func NewService(repo Repository, cat Catalog) *Service {
	return &Service{repo: repo, catalog: cat}
}

// Create snapshots the service price and the restriction level into the
// booking document; later catalog changes never affect the cost.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, req CreateRequest) (Booking, catalog.Service, error) {
	svc, err := s.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Booking{}, catalog.Service{}, ErrServiceNotFound
		}
		return Booking{}, catalog.Service{}, err
	}

	restrictions := s.catalog.CurrentRestrictions()

	duration := req.Duration
	if duration == 0 {
		duration = 60
	}

	b := Booking{
		ID:                uuid.NewString(),
		UserID:            principal.ID,
		UserName:          principal.Name,
		UserEmail:         principal.Email,
		ServiceID:         req.ServiceID,
		ServiceType:       req.ServiceType,
		PreferredDate:     req.PreferredDate,
		Duration:          duration,
		Details:           strings.TrimSpace(req.Details),
		Status:            StatusPending,
		CovidRestrictions: restrictions.Level,
		Cost:              svc.Price,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return Booking{}, catalog.Service{}, err
	}

	return b, svc, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]Booking, error) {
	return s.repo.ListAll(ctx)
}

// Decide applies an admin accept/decline action. The transition is
// atomic on the pending status: a booking that is already terminal
// yields ErrDecided, an unknown id ErrNotFound.
func (s *Service) Decide(ctx context.Context, id, action, adminNotes string) (Booking, error) {
	var status string
	switch action {
	case ActionAccept:
		status = StatusAccepted
	case ActionDecline:
		status = StatusDeclined
	default:
		return Booking{}, ErrInvalidAction
	}

	updated, err := s.repo.Decide(ctx, id, status, strings.TrimSpace(adminNotes), time.Now().UTC())
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return Booking{}, err
	}

	// Distinguish a missing booking from one already decided.
	if _, getErr := s.repo.GetByID(ctx, id); getErr != nil {
		if errors.Is(getErr, mongo.ErrNoDocuments) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, getErr
	}
	return Booking{}, ErrDecided
}

// ReceiptPNG returns the QR receipt for an accepted booking, visible to
// its owner and to admins only.
func (s *Service) ReceiptPNG(ctx context.Context, id string, principal *auth.Principal) ([]byte, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if b.UserID != principal.ID && !principal.IsAdmin() {
		return nil, ErrForbidden
	}
	if b.Status != StatusAccepted {
		return nil, ErrNotAccepted
	}

	return qr.PNG(b.ReceiptText())
}

// DeleteByUser implements users.Eraser for account data erasure.
func (s *Service) DeleteByUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}
