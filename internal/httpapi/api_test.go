package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"sultan.app/internal/auth"
	"sultan.app/internal/inventory"
	"sultan.app/internal/migrate"
	"sultan.app/internal/store/sqlite"
)

type testEnv struct {
	api   *API
	store *sqlite.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := migrate.NewManager(store.DB(), migrate.DialectSQLite, "../../migrations/sqlite")
	if err := m.Up(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hasher := auth.NewArgon2Hasher()
	signer, err := auth.NewJWTSigner([]byte("test-secret-for-http"), auth.WithSignerIssuer("sultan"))
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	svc, err := auth.NewService(store, store, hasher, signer)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}

	api := New(Config{
		Auth:       svc,
		Signer:     signer,
		Grants:     store,
		Branches:   inventory.NewBranchService(store.Branches()),
		Categories: inventory.NewCategoryService(store.Categories()),
		Suppliers:  inventory.NewSupplierService(store.Suppliers()),
		Customers:  inventory.NewCustomerService(store.Customers()),
		Products:   inventory.NewProductService(store.Products()),
		Users:      inventory.NewUserService(store.Users(), hasher, store),
		Ready:      ReadyProbe{DB: store.DB()},
		Version:    "test",
	})
	return &testEnv{api: api, store: store}
}

// seedAdmin creates a user with a global admin grant straight through the
// store, the same shape the bootstrap command produces.
func (e *testEnv) seedAdmin(t *testing.T, username, password string) {
	t.Helper()
	ctx := context.Background()
	hash, err := auth.NewArgon2Hasher().Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := e.store.Users().Create(ctx, 1, inventory.UserCreate{Username: username, Name: "Admin"}, hash); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	err = e.store.Users().SaveGrant(ctx, auth.Grant{UserID: 1, Resource: auth.ResourceAdmin, Action: auth.ActionAll})
	if err != nil {
		t.Fatalf("seed grant: %v", err)
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.api.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, username, password string) tokenResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/v1/auth/login", "", loginRequest{Username: username, Password: password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", rec.Code, rec.Body.String())
	}
	var pair tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}
	return pair
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "admin-password")

	pair := env.login(t, "admin", "admin-password")
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token pair")
	}

	// Wrong password and unknown user return the same response.
	bad1 := env.do(t, http.MethodPost, "/v1/auth/login", "", loginRequest{Username: "admin", Password: "wrong-password"})
	bad2 := env.do(t, http.MethodPost, "/v1/auth/login", "", loginRequest{Username: "ghost", Password: "wrong-password"})
	if bad1.Code != http.StatusUnauthorized || bad2.Code != http.StatusUnauthorized {
		t.Errorf("bad logins = %d, %d; want 401", bad1.Code, bad2.Code)
	}
	if bad1.Body.String() != bad2.Body.String() {
		t.Errorf("login errors must be identical:\n%s\n%s", bad1.Body.String(), bad2.Body.String())
	}
}

func TestRefreshRotation(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "admin-password")
	pair := env.login(t, "admin", "admin-password")

	rec := env.do(t, http.MethodPost, "/v1/auth/refresh", "", refreshRequest{RefreshToken: pair.RefreshToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh = %d: %s", rec.Code, rec.Body.String())
	}

	// The consumed token is gone.
	replay := env.do(t, http.MethodPost, "/v1/auth/refresh", "", refreshRequest{RefreshToken: pair.RefreshToken})
	if replay.Code != http.StatusUnauthorized {
		t.Errorf("replay = %d, want 401", replay.Code)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "admin-password")
	pair := env.login(t, "admin", "admin-password")

	rec := env.do(t, http.MethodDelete, "/v1/auth", pair.AccessToken, refreshRequest{RefreshToken: pair.RefreshToken})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout = %d: %s", rec.Code, rec.Body.String())
	}

	// Logging out twice is fine; the refresh token is dead either way.
	rec = env.do(t, http.MethodDelete, "/v1/auth", pair.AccessToken, refreshRequest{RefreshToken: pair.RefreshToken})
	if rec.Code != http.StatusNoContent {
		t.Errorf("second logout = %d, want 204", rec.Code)
	}
	refresh := env.do(t, http.MethodPost, "/v1/auth/refresh", "", refreshRequest{RefreshToken: pair.RefreshToken})
	if refresh.Code != http.StatusUnauthorized {
		t.Errorf("refresh after logout = %d, want 401", refresh.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/categories", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/v1/categories", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token = %d, want 401", rec.Code)
	}

	// Health endpoints stay open.
	rec = env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz = %d, want 200", rec.Code)
	}

	// Unregistered paths are plain 404s, not a hint that auth is missing.
	for _, path := range []string{"/favicon.ico", "/", "/v2/categories"} {
		rec = env.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s without token = %d, want 404", path, rec.Code)
		}
	}
}

func TestCategoryLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "admin-password")
	pair := env.login(t, "admin", "admin-password")

	rec := env.do(t, http.MethodPost, "/v1/categories", pair.AccessToken,
		map[string]any{"name": "Drinks", "description": "cold drinks"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var created createdResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	path := fmt.Sprintf("/v1/categories/%d", created.ID)

	// Tri-state update: rename and clear the description.
	rec = env.do(t, http.MethodPatch, path, pair.AccessToken,
		json.RawMessage(`{"name":"Beverages","description":null}`))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("patch = %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, path, pair.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d", rec.Code)
	}
	var got inventory.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Beverages" || got.Description != nil {
		t.Errorf("got %+v", got)
	}

	rec = env.do(t, http.MethodDelete, path, pair.AccessToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, path, pair.AccessToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted = %d, want 404", rec.Code)
	}
}

func TestForbiddenWithoutGrant(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "admin-password")
	adminPair := env.login(t, "admin", "admin-password")

	// Admin creates a user holding only a read grant on categories.
	rec := env.do(t, http.MethodPost, "/v1/users", adminPair.AccessToken,
		map[string]any{"username": "clerk", "password": "clerk-password", "name": "Clerk"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user = %d: %s", rec.Code, rec.Body.String())
	}
	var created createdResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	grantPath := fmt.Sprintf("/v1/users/%d/grants", created.ID)
	rec = env.do(t, http.MethodPut, grantPath, adminPair.AccessToken,
		grantRequest{Resource: auth.ResourceCategory, Action: auth.ActionRead})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("save grant = %d: %s", rec.Code, rec.Body.String())
	}

	clerkPair := env.login(t, "clerk", "clerk-password")

	rec = env.do(t, http.MethodGet, "/v1/categories", clerkPair.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("read = %d, want 200", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/v1/categories", clerkPair.AccessToken, map[string]any{"name": "Snacks"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("create = %d, want 403", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/v1/products", clerkPair.AccessToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("other resource = %d, want 403", rec.Code)
	}
}

func TestPasswordResetEndsSessions(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "admin-password")
	pair := env.login(t, "admin", "admin-password")

	rec := env.do(t, http.MethodPut, "/v1/users/1/password", pair.AccessToken,
		resetPasswordRequest{Password: "brand-new-password"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reset = %d: %s", rec.Code, rec.Body.String())
	}

	// Old refresh token is revoked, old password no longer works.
	refresh := env.do(t, http.MethodPost, "/v1/auth/refresh", "", refreshRequest{RefreshToken: pair.RefreshToken})
	if refresh.Code != http.StatusUnauthorized {
		t.Errorf("refresh after reset = %d, want 401", refresh.Code)
	}
	old := env.do(t, http.MethodPost, "/v1/auth/login", "", loginRequest{Username: "admin", Password: "admin-password"})
	if old.Code != http.StatusUnauthorized {
		t.Errorf("old password = %d, want 401", old.Code)
	}
	env.login(t, "admin", "brand-new-password")
}

func TestValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	env.seedAdmin(t, "admin", "admin-password")
	pair := env.login(t, "admin", "admin-password")

	rec := env.do(t, http.MethodPost, "/v1/categories", pair.AccessToken, map[string]any{"name": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/v1/products", pair.AccessToken,
		map[string]any{"name": "Cola", "sell_price": -5})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative price = %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/v1/categories/abc", pair.AccessToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("bad id = %d, want 404", rec.Code)
	}
}
