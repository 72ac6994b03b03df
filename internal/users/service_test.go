package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"homebound-backend/internal/auth"
	"homebound-backend/internal/secret"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepository struct {
	byID    map[string]User
	byEmail map[string]string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

func (f *fakeRepository) Create(ctx context.Context, user User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user.ID
	return nil
}

func (f *fakeRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return User{}, mongo.ErrNoDocuments
	}
	return f.byID[id], nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (User, error) {
	user, ok := f.byID[id]
	if !ok {
		return User{}, mongo.ErrNoDocuments
	}
	return user, nil
}

func (f *fakeRepository) ListByRole(ctx context.Context, role string) ([]User, error) {
	items := make([]User, 0)
	for _, user := range f.byID {
		if user.Role == role {
			items = append(items, user)
		}
	}
	return items, nil
}

func (f *fakeRepository) Delete(ctx context.Context, id string) error {
	if user, ok := f.byID[id]; ok {
		delete(f.byEmail, user.Email)
		delete(f.byID, id)
	}
	return nil
}

type fakeEraser struct {
	erased []string
}

func (f *fakeEraser) DeleteByUser(ctx context.Context, userID string) error {
	f.erased = append(f.erased, userID)
	return nil
}

func newTestService(t *testing.T, repo Repository, erasers ...Eraser) *Service {
	t.Helper()
	box, err := secret.New([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("secret.New: %v", err)
	}
	tokens := &auth.Manager{Secret: []byte("test-secret"), AccessTTL: 24 * time.Hour, Issuer: "homebound"}
	return NewService(repo, tokens, box, erasers...)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterRequest{
		Email:    "Alice@Example.com",
		Password: "supersafe1",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatal("register: expected token")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.Role != auth.RoleClient {
		t.Fatalf("expected default role client, got %q", user.Role)
	}
	if !user.ConsentData {
		t.Fatal("consent_data should default to true")
	}
	if user.Password == "supersafe1" {
		t.Fatal("password stored in plaintext")
	}

	loggedIn, token, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "supersafe1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("login: expected token")
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login: expected user %q, got %q", user.ID, loggedIn.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	req := RegisterRequest{Email: "alice@example.com", Password: "supersafe1", Name: "Alice"}
	if _, _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := svc.Register(ctx, req); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	if _, _, err := svc.Register(ctx, RegisterRequest{Email: "alice@example.com", Password: "supersafe1", Name: "Alice"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "wrongpass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVaxStatusRequiresConsent(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	vax := true
	user, _, err := svc.Register(ctx, RegisterRequest{
		Email:      "alice@example.com",
		Password:   "supersafe1",
		Name:       "Alice",
		VaxStatus:  &vax,
		ConsentVax: false,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.VaxStatus != nil {
		t.Fatal("vax status stored without consent")
	}

	user, _, err = svc.Register(ctx, RegisterRequest{
		Email:      "bob@example.com",
		Password:   "supersafe1",
		Name:       "Bob",
		VaxStatus:  &vax,
		ConsentVax: true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.VaxStatus == nil || !*user.VaxStatus {
		t.Fatal("vax status missing despite consent")
	}
}

func TestRegisterEncryptsCreditCard(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)

	user, _, err := svc.Register(context.Background(), RegisterRequest{
		Email:      "alice@example.com",
		Password:   "supersafe1",
		Name:       "Alice",
		CreditCard: "4111 1111 1111 1111",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.CreditCardEncrypted == "" {
		t.Fatal("credit card not stored")
	}
	if user.CreditCardEncrypted == "4111 1111 1111 1111" {
		t.Fatal("credit card stored in plaintext")
	}

	plain, err := svc.box.Decrypt(user.CreditCardEncrypted)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "4111 1111 1111 1111" {
		t.Fatalf("unexpected plaintext %q", plain)
	}
}

func TestResolveToken(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(t, repo)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterRequest{Email: "alice@example.com", Password: "supersafe1", Name: "Alice"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	principal, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if principal.ID != user.ID || principal.Role != auth.RoleClient {
		t.Fatalf("unexpected principal %+v", principal)
	}

	if _, err := svc.Resolve(ctx, "not-a-token"); err == nil {
		t.Fatal("expected error for garbage token")
	}

	// A valid token for a deleted account must stop working.
	if err := svc.Erase(ctx, user.ID); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if _, err := svc.Resolve(ctx, token); err == nil {
		t.Fatal("expected error resolving token for deleted user")
	}
}

func TestEraseDeletesOwnedRecords(t *testing.T) {
	repo := newFakeRepository()
	bookings := &fakeEraser{}
	notifications := &fakeEraser{}
	svc := newTestService(t, repo, bookings, notifications)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterRequest{Email: "alice@example.com", Password: "supersafe1", Name: "Alice"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Erase(ctx, user.ID); err != nil {
		t.Fatalf("erase: %v", err)
	}

	if len(bookings.erased) != 1 || bookings.erased[0] != user.ID {
		t.Fatalf("bookings not erased: %v", bookings.erased)
	}
	if len(notifications.erased) != 1 {
		t.Fatalf("notifications not erased: %v", notifications.erased)
	}
	if _, err := svc.GetByID(ctx, user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after erasure, got %v", err)
	}
}
