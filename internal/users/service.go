package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"homebound-backend/internal/auth"
	"homebound-backend/internal/secret"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrNotFound           = errors.New("user not found")
)

// Eraser removes every record a user owns; wired to the booking and
// notification repositories for data-erasure requests.
type Eraser interface {
	DeleteByUser(ctx context.Context, userID string) error
}

type Service struct {
	repo    Repository
	tokens  *auth.Manager
	box     *secret.Box
	erasers []Eraser
}

func NewService(repo Repository, tokens *auth.Manager, box *secret.Box, erasers ...Eraser) *Service {
	return &Service{
		repo:    repo,
		tokens:  tokens,
		box:     box,
		erasers: erasers,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, string, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return User{}, "", err
	}

	role := req.Role
	if role == "" {
		role = auth.RoleClient
	}
	language := req.Language
	if language == "" {
		language = "English"
	}
	consentData := true
	if req.ConsentData != nil {
		consentData = *req.ConsentData
	}

	user := User{
		ID:            uuid.NewString(),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Name:          strings.TrimSpace(req.Name),
		Age:           req.Age,
		Mobile:        strings.TrimSpace(req.Mobile),
		Citizenship:   strings.TrimSpace(req.Citizenship),
		Language:      language,
		Role:          role,
		Trade:         strings.TrimSpace(req.Trade),
		Password:      hashed,
		ConsentVax:    req.ConsentVax,
		ConsentData:   consentData,
		EmailVerified: true,
		CreatedAt:     time.Now().UTC(),
	}

	// Vaccination status is stored only with explicit consent.
	if req.ConsentVax {
		user.VaxStatus = req.VaxStatus
	}

	if req.CreditCard != "" {
		encrypted, err := s.box.Encrypt(req.CreditCard)
		if err != nil {
			return User{}, "", err
		}
		user.CreditCardEncrypted = encrypted
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, "", err
	}

	token, err := s.tokens.NewToken(user.ID)
	if err != nil {
		return User{}, "", err
	}

	return user, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (User, string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}

	if err := auth.ComparePassword(user.Password, req.Password); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.NewToken(user.ID)
	if err != nil {
		return User{}, "", err
	}

	return user, token, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) ListAdmins(ctx context.Context) ([]User, error) {
	return s.repo.ListByRole(ctx, auth.RoleAdmin)
}

// Resolve implements middleware.Resolver: the token subject is
// re-checked against the store on every request, so a deleted account
// cannot authenticate even with an unexpired token.
func (s *Service) Resolve(ctx context.Context, token string) (*auth.Principal, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &auth.Principal{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		VaxStatus: user.VaxStatus,
	}, nil
}

// Erase deletes the user's bookings and notifications, then the user
// document itself.
func (s *Service) Erase(ctx context.Context, userID string) error {
	for _, eraser := range s.erasers {
		if err := eraser.DeleteByUser(ctx, userID); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, userID)
}
