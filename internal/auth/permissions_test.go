package auth

import "testing"

func ptr(v int64) *int64 { return &v }

func TestPermissionSetGlobalGrant(t *testing.T) {
	perms := NewPermissionSet([]Grant{
		{UserID: 1, Resource: ResourceCustomer, Action: ActionCreate | ActionRead},
	})

	if !perms.Has(ptr(1), ResourceCustomer, ActionCreate) {
		t.Fatalf("global grant should apply to branch 1")
	}
	if !perms.Has(ptr(99), ResourceCustomer, ActionRead) {
		t.Fatalf("global grant should apply to branch 99")
	}
	if !perms.Has(nil, ResourceCustomer, ActionCreate) {
		t.Fatalf("global grant should apply without a branch")
	}
	if perms.Has(ptr(1), ResourceCustomer, ActionUpdate) {
		t.Fatalf("update was never granted")
	}
	if perms.Has(ptr(1), ResourceProduct, ActionRead) {
		t.Fatalf("grant is for customers, not products")
	}
}

func TestPermissionSetBranchGrant(t *testing.T) {
	perms := NewPermissionSet([]Grant{
		{UserID: 1, Resource: ResourceCustomer, Action: ActionCreate | ActionRead, BranchID: ptr(5)},
	})

	if !perms.Has(ptr(5), ResourceCustomer, ActionCreate) {
		t.Fatalf("branch grant should apply to its branch")
	}
	if perms.Has(ptr(1), ResourceCustomer, ActionCreate) {
		t.Fatalf("branch grant must not leak to other branches")
	}
	if perms.Has(nil, ResourceCustomer, ActionCreate) {
		t.Fatalf("branch grant must not apply without a branch")
	}
}

func TestPermissionSetAdditiveResolution(t *testing.T) {
	// Global READ plus branch-5 CREATE: either grant may authorize.
	perms := NewPermissionSet([]Grant{
		{UserID: 1, Resource: ResourceProduct, Action: ActionRead},
		{UserID: 1, Resource: ResourceProduct, Action: ActionCreate, BranchID: ptr(5)},
	})

	if !perms.Has(ptr(1), ResourceProduct, ActionRead) {
		t.Fatalf("global read applies everywhere")
	}
	if !perms.Has(ptr(5), ResourceProduct, ActionCreate) {
		t.Fatalf("branch create applies in branch 5")
	}
	if perms.Has(ptr(1), ResourceProduct, ActionCreate) {
		t.Fatalf("create is scoped to branch 5 only")
	}
}

func TestPermissionSetRequiresFullMask(t *testing.T) {
	perms := NewPermissionSet([]Grant{
		{UserID: 1, Resource: ResourceCategory, Action: ActionRead},
	})

	if perms.Has(ptr(1), ResourceCategory, ActionRead|ActionCreate) {
		t.Fatalf("combined mask must require every bit")
	}
	if !perms.Has(ptr(1), ResourceCategory, ActionRead) {
		t.Fatalf("single granted bit should pass")
	}
}

func TestPermissionSetUnionsDuplicateKeys(t *testing.T) {
	perms := NewPermissionSet([]Grant{
		{UserID: 1, Resource: ResourceSupplier, Action: ActionRead},
		{UserID: 1, Resource: ResourceSupplier, Action: ActionUpdate},
	})

	if perms.Len() != 1 {
		t.Fatalf("expected one (resource, branch) entry, got %d", perms.Len())
	}
	if !perms.Has(nil, ResourceSupplier, ActionRead|ActionUpdate) {
		t.Fatalf("masks for the same key should be unioned")
	}
}

func TestPermissionSetGlobalAdminOverride(t *testing.T) {
	perms := NewPermissionSet([]Grant{
		{UserID: 1, Resource: ResourceAdmin, Action: ActionRead},
	})

	if !perms.Has(ptr(1), ResourceBranch, ActionCreate) {
		t.Fatalf("global admin should grant everything")
	}
	if !perms.Has(ptr(99), ResourceUser, ActionAll) {
		t.Fatalf("global admin should grant all actions on any branch")
	}
	if !perms.Has(nil, ResourceBranch, ActionUpdate) {
		t.Fatalf("global admin should grant unscoped actions")
	}
}

func TestPermissionSetBranchAdminOverride(t *testing.T) {
	perms := NewPermissionSet([]Grant{
		{UserID: 1, Resource: ResourceAdmin, Action: ActionRead, BranchID: ptr(5)},
	})

	if !perms.Has(ptr(5), ResourceBranch, ActionCreate) {
		t.Fatalf("branch admin should grant everything in its branch")
	}
	if !perms.Has(ptr(5), ResourceUser, ActionAll) {
		t.Fatalf("branch admin should grant all actions in its branch")
	}
	if perms.Has(ptr(1), ResourceBranch, ActionCreate) {
		t.Fatalf("branch admin must not leak to other branches")
	}
	if perms.Has(nil, ResourceBranch, ActionCreate) {
		t.Fatalf("branch admin must not grant unscoped actions")
	}
}

func TestPermissionSetEmpty(t *testing.T) {
	perms := NewPermissionSet(nil)
	if perms.Has(ptr(1), ResourceCustomer, ActionRead) {
		t.Fatalf("empty set grants nothing")
	}
	if perms.Has(nil, ResourceCustomer, ActionRead) {
		t.Fatalf("empty set grants nothing without a branch")
	}
}
