package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/config"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/handlers"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/models"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/repository"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/routes"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

// =============================================================================
// In-memory repositories
// =============================================================================

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	return all, nil
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*models.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*models.Product)}
}

func (r *memProductRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memProductRepo) FindAll(ctx context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, *p)
	}
	return all, nil
}

func (r *memProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memProductRepo) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// =============================================================================
// Test Harness
// =============================================================================

type testServer struct {
	router   *gin.Engine
	userRepo *memUserRepo
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := newMemUserRepo()
	productRepo := newMemProductRepo()

	hasher := service.NewPasswordHasher(bcrypt.MinCost)
	jwtService := service.NewJWTService(testSecret, 30*time.Minute)
	if jwtService == nil {
		t.Fatal("NewJWTService returned nil")
	}
	authService := service.NewAuthService(userRepo, hasher, jwtService)
	userService := service.NewUserService(userRepo, hasher)
	productService := service.NewProductService(productRepo)

	router := gin.New()
	routes.Setup(router, &config.Config{}, jwtService, nil, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, userService),
		Users:    handlers.NewUsersHandler(userService),
		Products: handlers.NewProductsHandler(productService),
		Health:   handlers.NewHealthHandler(),
	})

	return &testServer{router: router, userRepo: userRepo}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, username, email, password string) map[string]any {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/users/create", "", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body %s", w.Code, w.Body.String())
	}
	var user map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("register: invalid JSON response: %v", err)
	}
	return user
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/users/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", w.Code, w.Body.String())
	}
	var resp service.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("login: invalid JSON response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login: empty token")
	}
	return resp.Token
}

// =============================================================================
// Registration Tests
// =============================================================================

func TestRegisterEndpoint(t *testing.T) {
	s := setupTestServer(t)

	user := s.register(t, "John Doe", "john.doe@email.com", "123456")

	if user["username"] != "John Doe" {
		t.Errorf("username = %v, want John Doe", user["username"])
	}
	if user["id"] == nil || user["id"] == "" {
		t.Error("response is missing the record id")
	}
	// No password material in any form may leave the server.
	for _, key := range []string{"password", "password_hash", "PasswordHash"} {
		if _, ok := user[key]; ok {
			t.Errorf("response exposes %q", key)
		}
	}
}

func TestRegisterEndpoint_InvalidPayload(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{
			name: "missing email",
			body: gin.H{"username": "John Doe", "password": "123456"},
		},
		{
			name: "missing password",
			body: gin.H{"username": "John Doe", "email": "john.doe@email.com"},
		},
		{
			name: "malformed email",
			body: gin.H{"username": "John Doe", "email": "not-an-email", "password": "123456"},
		},
		{
			name: "password over the bcrypt 72-byte limit",
			body: gin.H{"username": "John Doe", "email": "john.doe@email.com", "password": strings.Repeat("x", 100)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/users/create", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestRegisterEndpoint_Duplicate(t *testing.T) {
	s := setupTestServer(t)

	first := s.register(t, "John Doe", "john.doe@email.com", "123456")

	w := s.do(t, http.MethodPost, "/api/users/create", "", gin.H{
		"username": "Impostor",
		"email":    "john.doe@email.com",
		"password": "hunter2",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}

	// The original record must be untouched.
	stored, err := s.userRepo.FindByID(context.Background(), first["id"].(string))
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if stored.Username != "John Doe" {
		t.Errorf("existing record was altered: username = %v", stored.Username)
	}
}

// =============================================================================
// Login Tests
// =============================================================================

func TestLoginEndpoint(t *testing.T) {
	s := setupTestServer(t)
	s.register(t, "John Doe", "john.doe@email.com", "123456")

	w := s.do(t, http.MethodPost, "/api/users/login", "", gin.H{
		"email":    "john.doe@email.com",
		"password": "123456",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp service.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if parts := strings.Split(resp.Token, "."); len(parts) != 3 {
		t.Errorf("token has %d parts, want 3", len(parts))
	}
	if want := int64((30 * time.Minute).Seconds()); resp.ExpiresIn != want {
		t.Errorf("expires_in = %d, want %d", resp.ExpiresIn, want)
	}
}

func TestLoginEndpoint_UniformRejection(t *testing.T) {
	s := setupTestServer(t)
	s.register(t, "John Doe", "john.doe@email.com", "123456")

	wrongPassword := s.do(t, http.MethodPost, "/api/users/login", "", gin.H{
		"email":    "john.doe@email.com",
		"password": "wrong",
	})
	unknownEmail := s.do(t, http.MethodPost, "/api/users/login", "", gin.H{
		"email":    "nobody@email.com",
		"password": "123456",
	})

	if wrongPassword.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", wrongPassword.Code)
	}
	if unknownEmail.Code != http.StatusUnauthorized {
		t.Errorf("unknown email: status = %d, want 401", unknownEmail.Code)
	}
	// Account enumeration guard: both failures must be indistinguishable.
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("rejection bodies differ: %s vs %s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestLoginEndpoint_InvalidPayload(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{
			name: "missing email",
			body: gin.H{"password": "123456"},
		},
		{
			name: "malformed email",
			body: gin.H{"email": "not-an-email", "password": "123456"},
		},
		{
			name: "missing password",
			body: gin.H{"email": "john.doe@email.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/users/login", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

// =============================================================================
// End-to-end Scenario
// =============================================================================

func TestEndToEnd(t *testing.T) {
	s := setupTestServer(t)

	// Register and make sure no password material is echoed back.
	user := s.register(t, "John Doe", "john.doe@email.com", "123456")
	if _, ok := user["password"]; ok {
		t.Error("registration response exposes the password")
	}

	// Login with the same credentials.
	token := s.login(t, "john.doe@email.com", "123456")

	// A protected call resolves to John Doe's identifier.
	w := s.do(t, http.MethodGet, "/api/users/verify-user", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("verify-user: status = %d, body %s", w.Code, w.Body.String())
	}
	var verified map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &verified); err != nil {
		t.Fatalf("verify-user: invalid JSON: %v", err)
	}
	if verified["id"] != user["id"] {
		t.Errorf("verify-user resolved id %v, want %v", verified["id"], user["id"])
	}

	// The same call without a credential is rejected.
	w = s.do(t, http.MethodGet, "/api/users/verify-user", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("verify-user without token: status = %d, want 401", w.Code)
	}

	// Retrying login with a wrong password fails uniformly.
	w = s.do(t, http.MethodPost, "/api/users/login", "", gin.H{
		"email":    "john.doe@email.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong-password login: status = %d, want 401", w.Code)
	}
	if got := w.Body.String(); got != `{"error":"invalid credentials"}` {
		t.Errorf("wrong-password login body = %s", got)
	}
}

// =============================================================================
// User CRUD Tests
// =============================================================================

func TestUserUpdateEndpoint(t *testing.T) {
	s := setupTestServer(t)
	user := s.register(t, "John Doe", "john.doe@email.com", "123456")
	token := s.login(t, "john.doe@email.com", "123456")
	id := user["id"].(string)

	// Update without a token is rejected.
	w := s.do(t, http.MethodPut, "/api/users/"+id, "", gin.H{"username": "Jane Doe"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated update: status = %d, want 401", w.Code)
	}

	// Change username and password.
	w = s.do(t, http.MethodPut, "/api/users/"+id, token, gin.H{
		"username": "Jane Doe",
		"password": "new-password",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status = %d, body %s", w.Code, w.Body.String())
	}

	// The old password no longer works, the new one does.
	old := s.do(t, http.MethodPost, "/api/users/login", "", gin.H{
		"email":    "john.doe@email.com",
		"password": "123456",
	})
	if old.Code != http.StatusUnauthorized {
		t.Errorf("old password still accepted: status = %d", old.Code)
	}
	s.login(t, "john.doe@email.com", "new-password")

	// Outstanding tokens remain valid after the password change: the
	// design is stateless, there is no revocation.
	w = s.do(t, http.MethodGet, "/api/users/verify-user", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("pre-change token: status = %d, want 200", w.Code)
	}
}

func TestUserUpdateEndpoint_NotFound(t *testing.T) {
	s := setupTestServer(t)
	s.register(t, "John Doe", "john.doe@email.com", "123456")
	token := s.login(t, "john.doe@email.com", "123456")

	w := s.do(t, http.MethodPut, "/api/users/missing-id", token, gin.H{"username": "Jane"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUserDeleteEndpoint(t *testing.T) {
	s := setupTestServer(t)
	user := s.register(t, "John Doe", "john.doe@email.com", "123456")
	token := s.login(t, "john.doe@email.com", "123456")
	id := user["id"].(string)

	w := s.do(t, http.MethodDelete, "/api/users/"+id, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d, body %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodDelete, "/api/users/"+id, token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}

func TestListUsersEndpoint(t *testing.T) {
	s := setupTestServer(t)
	s.register(t, "John Doe", "john.doe@email.com", "123456")
	s.register(t, "Jane Doe", "jane.doe@email.com", "123456")

	w := s.do(t, http.MethodGet, "/api/users", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	var users []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("list: invalid JSON: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("list returned %d users, want 2", len(users))
	}
	for _, u := range users {
		if _, ok := u["password"]; ok {
			t.Error("list response exposes password material")
		}
	}
}
