package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"microfin/internal/auth"
	"microfin/internal/config"
	"microfin/internal/models"
	"microfin/internal/store"
)

type stubUserStore struct {
	createFn          func(ctx context.Context, tx store.Execer, input store.UserInput) error
	getByEmailFn      func(ctx context.Context, email string) (models.User, error)
	getByIDFn         func(ctx context.Context, userID string) (models.User, error)
	listFn            func(ctx context.Context) ([]models.User, error)
	updateFn          func(ctx context.Context, userID string, update store.UserUpdate) (int64, error)
	updateLastLoginFn func(ctx context.Context, userID string, at time.Time) error
	softDeleteFn      func(ctx context.Context, userID string) (int64, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, input store.UserInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}

func (s stubUserStore) Update(ctx context.Context, userID string, update store.UserUpdate) (int64, error) {
	return s.updateFn(ctx, userID, update)
}

func (s stubUserStore) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	if s.updateLastLoginFn == nil {
		return nil
	}
	return s.updateLastLoginFn(ctx, userID, at)
}

func (s stubUserStore) SoftDelete(ctx context.Context, userID string) (int64, error) {
	return s.softDeleteFn(ctx, userID)
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
}

func TestLoginSuccessSetsCookie(t *testing.T) {
	hash, err := auth.HashPassword("str0ngpass")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	h := &Handler{
		cfg: testConfig(),
		users: stubUserStore{
			getByEmailFn: func(_ context.Context, email string) (models.User, error) {
				return models.User{
					ID:           "user-1",
					Email:        email,
					PasswordHash: hash,
					Role:         models.RoleAdmin,
					Status:       models.StatusActive,
				}, nil
			},
		},
	}
	rr := httptest.NewRecorder()
	h.Login(rr, newJSONRequest(t, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"str0ngpass"}`, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	payload := decodeEnvelope(t, rr)
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected a token in the response")
	}
	claims, err := auth.ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != models.RoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
	var found bool
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "token" && cookie.Value == token {
			found = true
		}
	}
	if !found {
		t.Fatal("expected token cookie to be set")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := auth.HashPassword("correct-pass")
	h := &Handler{
		cfg: testConfig(),
		users: stubUserStore{
			getByEmailFn: func(_ context.Context, email string) (models.User, error) {
				return models.User{ID: "user-1", Email: email, PasswordHash: hash, Status: models.StatusActive}, nil
			},
		},
	}
	rr := httptest.NewRecorder()
	h.Login(rr, newJSONRequest(t, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"wrong"}`, nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	hash, _ := auth.HashPassword("str0ngpass")
	h := &Handler{
		cfg: testConfig(),
		users: stubUserStore{
			getByEmailFn: func(_ context.Context, email string) (models.User, error) {
				return models.User{ID: "user-1", Email: email, PasswordHash: hash, Status: models.StatusBlocked}, nil
			},
		},
	}
	rr := httptest.NewRecorder()
	h.Login(rr, newJSONRequest(t, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"str0ngpass"}`, nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h := &Handler{cfg: testConfig(), txRunner: fakeTxRunner{}, users: stubUserStore{}}
	rr := httptest.NewRecorder()
	h.Register(rr, newJSONRequest(t, http.MethodPost, "/auth/register", `{"email":"a@example.com","password":"short"}`, nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	var created store.UserInput
	h := &Handler{
		cfg:      testConfig(),
		txRunner: fakeTxRunner{},
		users: stubUserStore{
			createFn: func(_ context.Context, _ store.Execer, input store.UserInput) error {
				created = input
				return nil
			},
		},
	}
	body := `{"firstname":"Ama","surname":"Mensah","username":"amensah","email":"ama@example.com","password":"str0ngpass","role":"officer"}`
	rr := httptest.NewRecorder()
	h.Register(rr, newJSONRequest(t, http.MethodPost, "/auth/register", body, nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if created.Email != "ama@example.com" || created.Role != models.RoleOfficer {
		t.Fatalf("created = %+v", created)
	}
	if created.PasswordHash == "str0ngpass" || created.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
}
