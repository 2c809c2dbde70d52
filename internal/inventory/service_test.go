package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"sultan.app/internal/auth"
)

func ptr[T any](v T) *T { return &v }

func ctxWith(t *testing.T, grants ...auth.Grant) auth.Context {
	t.Helper()
	return auth.NewUserContext(context.Background(), 1, auth.NewPermissionSet(grants))
}

type fakeCategoryStore struct {
	created map[int64]CategoryCreate
	updated map[int64]CategoryUpdate
	deleted []int64
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{
		created: map[int64]CategoryCreate{},
		updated: map[int64]CategoryUpdate{},
	}
}

func (f *fakeCategoryStore) Create(_ context.Context, id int64, c CategoryCreate) error {
	f.created[id] = c
	return nil
}

func (f *fakeCategoryStore) Update(_ context.Context, id int64, c CategoryUpdate) error {
	f.updated[id] = c
	return nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCategoryStore) Get(_ context.Context, id int64) (Category, error) {
	c, ok := f.created[id]
	if !ok {
		return Category{}, auth.ErrNotFound
	}
	return Category{ID: id, Name: c.Name, Description: c.Description}, nil
}

func (f *fakeCategoryStore) List(_ context.Context, _ Page) ([]Category, error) {
	out := make([]Category, 0, len(f.created))
	for id, c := range f.created {
		out = append(out, Category{ID: id, Name: c.Name})
	}
	return out, nil
}

func TestCategoryServiceAuthorization(t *testing.T) {
	store := newFakeCategoryStore()
	svc := NewCategoryService(store)

	allowed := ctxWith(t, auth.Grant{UserID: 1, Resource: auth.ResourceCategory, Action: auth.ActionAll})
	denied := ctxWith(t)

	if _, err := svc.Create(denied, CategoryCreate{Name: "Drinks"}); err == nil {
		t.Fatal("create without grant should fail")
	} else {
		var fe *auth.ForbiddenError
		if !errors.As(err, &fe) {
			t.Fatalf("want ForbiddenError, got %v", err)
		}
	}
	if len(store.created) != 0 {
		t.Fatal("store must not be touched on denial")
	}

	id, err := svc.Create(allowed, CategoryCreate{Name: "Drinks"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("create must assign an id")
	}
	if _, ok := store.created[id]; !ok {
		t.Fatal("create did not reach the store")
	}

	if _, err := svc.Get(denied, id); err == nil {
		t.Error("get without grant should fail")
	}
	if _, err := svc.Get(allowed, id); err != nil {
		t.Errorf("get: %v", err)
	}
}

func TestCategoryServiceValidation(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryStore())
	ctx := ctxWith(t, auth.Grant{UserID: 1, Resource: auth.ResourceCategory, Action: auth.ActionAll})

	if _, err := svc.Create(ctx, CategoryCreate{Name: "   "}); err == nil {
		t.Error("blank name should be rejected")
	} else {
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "name" {
			t.Errorf("want ValidationError on name, got %v", err)
		}
	}

	if err := svc.Update(ctx, 7, CategoryUpdate{Name: ptr("")}); err == nil {
		t.Error("blank name update should be rejected")
	}
	if err := svc.Update(ctx, 7, CategoryUpdate{Description: Clear[string]()}); err != nil {
		t.Errorf("clearing description should pass: %v", err)
	}
}

type fakeBranchStore struct {
	updated []int64
}

func (f *fakeBranchStore) Create(_ context.Context, id int64, _ BranchCreate) error { return nil }
func (f *fakeBranchStore) Update(_ context.Context, id int64, _ BranchUpdate) error {
	f.updated = append(f.updated, id)
	return nil
}
func (f *fakeBranchStore) Delete(_ context.Context, _ int64) error { return nil }
func (f *fakeBranchStore) Get(_ context.Context, id int64) (Branch, error) {
	return Branch{ID: id}, nil
}
func (f *fakeBranchStore) List(_ context.Context, _ Page) ([]Branch, error) { return nil, nil }

func TestBranchServiceScopedAccess(t *testing.T) {
	store := &fakeBranchStore{}
	svc := NewBranchService(store)

	// Admin of branch 3 only.
	ctx := ctxWith(t, auth.Grant{UserID: 1, Resource: auth.ResourceAdmin, Action: auth.ActionAll, BranchID: ptr(int64(3))})

	if err := svc.Update(ctx, 3, BranchUpdate{Name: ptr("Main")}); err != nil {
		t.Fatalf("branch admin must update own branch: %v", err)
	}
	if err := svc.Update(ctx, 4, BranchUpdate{Name: ptr("Main")}); err == nil {
		t.Fatal("branch admin must not update another branch")
	}
	if len(store.updated) != 1 || store.updated[0] != 3 {
		t.Fatalf("store updates = %v, want [3]", store.updated)
	}

	// Listing spans branches and needs a global grant.
	if _, err := svc.List(ctx, NewPage(1, 10)); err == nil {
		t.Error("branch-scoped admin must not list all branches")
	}
	global := ctxWith(t, auth.Grant{UserID: 1, Resource: auth.ResourceBranch, Action: auth.ActionRead})
	if _, err := svc.List(global, NewPage(1, 10)); err != nil {
		t.Errorf("list with global grant: %v", err)
	}
}

type fakeUserStore struct {
	createdHash  string
	passwordHash map[int64]string
	grants       []auth.Grant
	deletedGrant bool
	deleted      []int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{passwordHash: map[int64]string{}}
}

func (f *fakeUserStore) Create(_ context.Context, id int64, u UserCreate, hash string) error {
	if u.Password != "" {
		return errors.New("plaintext leaked into storage")
	}
	f.createdHash = hash
	f.passwordHash[id] = hash
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, _ int64, _ UserUpdate) error { return nil }

func (f *fakeUserStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.passwordHash[id] = hash
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserStore) Get(_ context.Context, id int64) (User, error) {
	return User{ID: id}, nil
}

func (f *fakeUserStore) List(_ context.Context, _ UserFilter, _ Page) ([]User, error) {
	return nil, nil
}

func (f *fakeUserStore) SaveGrant(_ context.Context, g auth.Grant) error {
	f.grants = append(f.grants, g)
	return nil
}

func (f *fakeUserStore) DeleteGrant(_ context.Context, _ int64, _ *int64, _ auth.Resource) error {
	f.deletedGrant = true
	return nil
}

type fakeTokens struct {
	revoked []int64
}

func (f *fakeTokens) Issue(_ context.Context, _ int64, _ time.Duration) (string, error) {
	return "", nil
}
func (f *fakeTokens) Consume(_ context.Context, _ string) (int64, error) {
	return 0, auth.ErrInvalidToken
}
func (f *fakeTokens) Revoke(_ context.Context, _ string) error { return nil }
func (f *fakeTokens) RevokeAll(_ context.Context, userID int64) error {
	f.revoked = append(f.revoked, userID)
	return nil
}

func TestUserServiceHashesPasswords(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, auth.NewArgon2Hasher(), &fakeTokens{})
	ctx := ctxWith(t, auth.Grant{UserID: 1, Resource: auth.ResourceUser, Action: auth.ActionAll})

	id, err := svc.Create(ctx, UserCreate{Username: "alice", Password: "correct horse", Name: "Alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 {
		t.Fatal("create must assign an id")
	}
	if store.createdHash == "" || store.createdHash == "correct horse" {
		t.Fatalf("stored hash looks wrong: %q", store.createdHash)
	}

	if _, err := svc.Create(ctx, UserCreate{Username: "bob", Password: "short", Name: "Bob"}); err == nil {
		t.Error("short password should be rejected")
	}
}

func TestUserServiceResetPasswordRevokesSessions(t *testing.T) {
	store := newFakeUserStore()
	tokens := &fakeTokens{}
	svc := NewUserService(store, auth.NewArgon2Hasher(), tokens)
	ctx := ctxWith(t, auth.Grant{UserID: 1, Resource: auth.ResourceUser, Action: auth.ActionAll})

	if err := svc.ResetPassword(ctx, 42, "new password 1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if store.passwordHash[42] == "" {
		t.Error("password hash not updated")
	}
	if len(tokens.revoked) != 1 || tokens.revoked[0] != 42 {
		t.Errorf("revoked = %v, want [42]", tokens.revoked)
	}

	if err := svc.Delete(ctx, 42); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(tokens.revoked) != 2 {
		t.Error("delete must also revoke sessions")
	}
}

func TestUserServiceGrantManagement(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, auth.NewArgon2Hasher(), &fakeTokens{})

	admin := ctxWith(t, auth.Grant{UserID: 1, Resource: auth.ResourceAdmin, Action: auth.ActionAll})
	plain := ctxWith(t, auth.Grant{UserID: 1, Resource: auth.ResourceUser, Action: auth.ActionAll})

	g := auth.Grant{UserID: 9, Resource: auth.ResourceProduct, Action: auth.ActionRead}
	if err := svc.SaveGrant(plain, g); err == nil {
		t.Error("non-admin must not manage grants")
	}
	if err := svc.SaveGrant(admin, g); err != nil {
		t.Fatalf("save grant: %v", err)
	}
	if len(store.grants) != 1 {
		t.Fatalf("grants persisted = %d, want 1", len(store.grants))
	}

	if err := svc.SaveGrant(admin, auth.Grant{UserID: 9, Resource: 99, Action: auth.ActionRead}); err == nil {
		t.Error("unknown resource code should be rejected")
	}
	if err := svc.SaveGrant(admin, auth.Grant{UserID: 9, Resource: auth.ResourceProduct, Action: 0}); err == nil {
		t.Error("empty action mask should be rejected")
	}

	if err := svc.DeleteGrant(admin, 9, nil, auth.ResourceProduct); err != nil {
		t.Fatalf("delete grant: %v", err)
	}
	if !store.deletedGrant {
		t.Error("delete grant did not reach the store")
	}
}
