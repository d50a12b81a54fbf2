package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-kit/ticketing-service/internal/classifier"
	"github.com/helpdesk-kit/ticketing-service/internal/config"
	"github.com/helpdesk-kit/ticketing-service/internal/domain"
	"github.com/helpdesk-kit/ticketing-service/internal/repository"
	apperrors "github.com/helpdesk-kit/ticketing-service/pkg/util"
)

type fakeUserRepository struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byID: make(map[string]*domain.User)}
}

func (r *fakeUserRepository) Create(_ context.Context, user *domain.User) error {
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.byID[user.ID] = &stored
	return nil
}

func (r *fakeUserRepository) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.byID[user.ID] = &stored
	return nil
}

func (r *fakeUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepository) TouchLastLogin(_ context.Context, id string) error {
	user, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}

// fakeResetRepository mirrors the transactional Consume: the password write
// and the token retirement happen together or not at all.
type fakeResetRepository struct {
	users  *fakeUserRepository
	tokens map[string]*repository.PasswordResetToken
	nextID int
}

func newFakeResetRepository(users *fakeUserRepository) *fakeResetRepository {
	return &fakeResetRepository{users: users, tokens: make(map[string]*repository.PasswordResetToken)}
}

func (r *fakeResetRepository) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.nextID++
	token.ID = fmt.Sprintf("reset-%d", r.nextID)
	token.CreatedAt = time.Now()
	stored := *token
	r.tokens[token.ID] = &stored
	return nil
}

func (r *fakeResetRepository) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	for _, token := range r.tokens {
		if token.Token == tokenStr {
			copied := *token
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeResetRepository) MarkUsed(_ context.Context, id string) error {
	token, ok := r.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	token.UsedAt = &now
	return nil
}

func (r *fakeResetRepository) Consume(_ context.Context, id, userID, passwordHash string) error {
	token, ok := r.tokens[id]
	if !ok || token.UsedAt != nil {
		return pgx.ErrNoRows
	}
	user, ok := r.users.byID[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	now := time.Now()
	token.UsedAt = &now
	return nil
}

func newTestAuthService() (*AuthService, *fakeUserRepository, *fakeResetRepository) {
	users := newFakeUserRepository()
	resets := newFakeResetRepository(users)
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLMinutes:   60,
		PasswordResetTTLMinutes: 30,
		BcryptCost:              4,
	}}
	svc := NewAuthService(cfg, AuthDependencies{UserRepo: users, PasswordResetRepo: resets})
	return svc, users, resets
}

func TestRegisterCreatesUserRoleAccount(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	user, token, _, err := svc.Register(ctx, RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2", Company: "Acme",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("role = %s, want user", user.Role)
	}
	if !user.IsActive {
		t.Error("new account should be active")
	}
	if token == "" {
		t.Error("register should sign the account in")
	}

	if _, _, _, err := svc.Register(ctx, RegisterInput{
		Name: "Other", Email: "ada@example.com", Password: "x", Company: "Acme",
	}); !apperrors.IsCode(err, "CONFLICT") {
		t.Errorf("duplicate email: got %v, want CONFLICT", err)
	}
	if _, _, _, err := svc.Register(ctx, RegisterInput{
		Name: "NoCo", Email: "noco@example.com", Password: "x",
	}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("missing company: got %v, want VALIDATION_FAILED", err)
	}
}

func TestRegisterLoginRoundTripsRoleClaim(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	registered, _, _, err := svc.Register(ctx, RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2", Company: "Acme",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, token, _, err := svc.Login(ctx, "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.SubjectID != registered.ID {
		t.Errorf("subject = %s, want %s", claims.SubjectID, registered.ID)
	}
	if claims.Role != domain.RoleUser {
		t.Errorf("role claim = %s, want user", claims.Role)
	}

	// The verified claim drives ticket creation end to end.
	tickets := NewTicketService(TicketDependencies{
		TicketRepo: newFakeTicketRepository(),
		Classifier: classifier.NewKeywordClassifier(),
	})
	ticket, err := tickets.Create(ctx, domain.Identity{SubjectID: claims.SubjectID, Role: claims.Role}, TicketCreateInput{
		Title: "No network", Description: "wifi down again",
	})
	if err != nil {
		t.Fatalf("create with token identity: %v", err)
	}
	if ticket.OwnerID != registered.ID {
		t.Errorf("ownerID = %s, want %s", ticket.OwnerID, registered.ID)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	registered, _, _, err := svc.Register(ctx, RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2", Company: "Acme",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, _, err := svc.Login(ctx, "ada@example.com", "wrong"); !apperrors.IsCode(err, "UNAUTHENTICATED") {
		t.Errorf("wrong password: got %v, want UNAUTHENTICATED", err)
	}
	if _, _, _, err := svc.Login(ctx, "ghost@example.com", "hunter2"); !apperrors.IsCode(err, "UNAUTHENTICATED") {
		t.Errorf("unknown email: got %v, want UNAUTHENTICATED", err)
	}

	users.byID[registered.ID].IsActive = false
	if _, _, _, err := svc.Login(ctx, "ada@example.com", "hunter2"); !apperrors.IsCode(err, "UNAUTHENTICATED") {
		t.Errorf("suspended account: got %v, want UNAUTHENTICATED", err)
	}
}

func TestLoginTouchesLastLogin(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	registered, _, _, err := svc.Register(ctx, RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2", Company: "Acme",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if users.byID[registered.ID].LastLogin != nil {
		t.Fatal("last login should start unset")
	}
	if _, _, _, err := svc.Login(ctx, "ada@example.com", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if users.byID[registered.ID].LastLogin == nil {
		t.Error("login should record last login")
	}
}

func TestPasswordResetConsumesToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, _, _, err := svc.Register(ctx, RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2", Company: "Acme",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := svc.RequestPasswordReset(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if err := svc.ConfirmPasswordReset(ctx, token.Token, "s3cure-new"); err != nil {
		t.Fatalf("confirm reset: %v", err)
	}

	if _, _, _, err := svc.Login(ctx, "ada@example.com", "s3cure-new"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "ada@example.com", "hunter2"); !apperrors.IsCode(err, "UNAUTHENTICATED") {
		t.Errorf("old password: got %v, want UNAUTHENTICATED", err)
	}

	// Retired tokens cannot reset the password a second time.
	if err := svc.ConfirmPasswordReset(ctx, token.Token, "another-one"); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("reused token: got %v, want VALIDATION_FAILED", err)
	}
}
