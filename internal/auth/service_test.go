package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agimports/storefront-backend/internal/users"
	pkgAuth "github.com/agimports/storefront-backend/pkg/auth"
	"github.com/agimports/storefront-backend/pkg/auth/session"
	"github.com/agimports/storefront-backend/pkg/config"
	"github.com/agimports/storefront-backend/pkg/db/models"
	"github.com/agimports/storefront-backend/pkg/enums"
	pkgerrors "github.com/agimports/storefront-backend/pkg/errors"
	"github.com/agimports/storefront-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "agimports",
	ExpirationMinutes: 15,
}

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type fakeUserRepo struct {
	byEmail     map[string]*models.User
	created     []users.CreateUserDTO
	lastLoginID uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	f.created = append(f.created, dto)
	user := dto.ToModel()
	user.ID = uuid.New()
	f.byEmail[dto.Email] = user
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.lastLoginID = id
	return nil
}

type fakeSessionManager struct {
	generated map[string]string
	revoked   []string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{generated: make(map[string]string)}
}

func (f *fakeSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.generated[accessID] = token
	return token, nil
}

func (f *fakeSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.generated[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.generated, oldAccessID)
	newID := uuid.NewString()
	token := "refresh-" + newID
	f.generated[newID] = token
	return newID, token, nil
}

func (f *fakeSessionManager) Revoke(ctx context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	delete(f.generated, accessID)
	return nil
}

func newTestService(t *testing.T, repo *fakeUserRepo, sessions *fakeSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		PasswordConfig: testPasswordConfig,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role enums.UserRole) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test User",
		Role:         role,
		IsActive:     true,
	}
	repo.byEmail[email] = user
	return user
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionManager()
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Maria@Example.com",
		Password: "super-secret-pw",
		FullName: "Maria Souza",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one created user, got %d", len(repo.created))
	}
	if repo.created[0].Email != "maria@example.com" {
		t.Fatalf("expected lowercased email, got %q", repo.created[0].Email)
	}
	if repo.created[0].Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", repo.created[0].Role)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected non-empty token pair")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected role in claims: %s", claims.Role)
	}
	if _, ok := sessions.generated[claims.ID]; !ok {
		t.Fatal("expected refresh token stored under the jti")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionManager()
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "taken@example.com", "whatever-pw", enums.UserRoleCustomer)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "taken@example.com",
		Password: "super-secret-pw",
		FullName: "Someone Else",
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestLoginSuccessAndFailure(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionManager()
	svc := newTestService(t, repo, sessions)
	user := seedUser(t, repo, "joao@example.com", "correct-horse", enums.UserRoleCustomer)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "JOAO@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.ID != user.ID {
		t.Fatalf("unexpected user in response: %s", resp.User.ID)
	}
	if repo.lastLoginID != user.ID {
		t.Fatal("expected last login recorded")
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "joao@example.com",
		Password: "wrong-password",
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionManager()
	svc := newTestService(t, repo, sessions)
	user := seedUser(t, repo, "blocked@example.com", "correct-horse", enums.UserRoleCustomer)
	user.IsActive = false

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "blocked@example.com",
		Password: "correct-horse",
	})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionManager()
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "ana@example.com", "correct-horse", enums.UserRoleAdmin)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	pair, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if pair.AccessToken == login.AccessToken {
		t.Fatal("expected a new access token after refresh")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, pair.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("role not carried through refresh: %s", claims.Role)
	}

	// the old refresh token must be dead after rotation
	if _, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	}); err == nil {
		t.Fatal("expected rotation to invalidate the old refresh token")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	repo := newFakeUserRepo()
	sessions := newFakeSessionManager()
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "out@example.com", "correct-horse", enums.UserRoleCustomer)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "out@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, login.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != claims.ID {
		t.Fatalf("expected session %s revoked, got %v", claims.ID, sessions.revoked)
	}
}
