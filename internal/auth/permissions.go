package auth

// Resource identifies a protected resource class.
type Resource int32

const (
	ResourceSuperAdmin Resource = 1
	ResourceAdmin      Resource = 2
	ResourceBranch     Resource = 3
	ResourceUser       Resource = 4
	ResourceCategory   Resource = 5
	ResourceSupplier   Resource = 6
	ResourceCustomer   Resource = 7
	ResourceProduct    Resource = 8
)

// Action is a bitmask of permitted operations on a resource.
type Action int32

const (
	ActionCreate Action = 1 << iota
	ActionRead
	ActionUpdate
	ActionDelete
)

// ActionAll grants every action on a resource.
const ActionAll = ActionCreate | ActionRead | ActionUpdate | ActionDelete

// Grant binds a resource and action mask to a user, optionally scoped to a
// branch. A nil BranchID means the grant applies everywhere.
type Grant struct {
	UserID   int64
	Resource Resource
	Action   Action
	BranchID *int64
}

type grantKey struct {
	resource Resource
	branch   int64
	scoped   bool
}

func keyFor(resource Resource, branchID *int64) grantKey {
	if branchID == nil {
		return grantKey{resource: resource}
	}
	return grantKey{resource: resource, branch: *branchID, scoped: true}
}

// PermissionSet indexes one user's grants by (resource, branch). It is built
// once at authentication time and never mutated afterwards; masks for the
// same (resource, branch) pair are unioned during construction.
type PermissionSet struct {
	grants map[grantKey]Action
}

// NewPermissionSet builds an immutable index from persisted grants.
func NewPermissionSet(grants []Grant) PermissionSet {
	idx := make(map[grantKey]Action, len(grants))
	for _, g := range grants {
		k := keyFor(g.Resource, g.BranchID)
		idx[k] |= g.Action
	}
	return PermissionSet{grants: idx}
}

// Has reports whether the set authorizes action on resource within the given
// branch scope. Resolution is additive: an admin grant (global, or scoped to
// the requested branch) authorizes everything; otherwise either the global or
// the branch-scoped grant for the resource may satisfy the request. A grant
// satisfies only when its mask contains every requested action bit.
func (p PermissionSet) Has(branchID *int64, resource Resource, action Action) bool {
	if _, ok := p.grants[keyFor(ResourceAdmin, nil)]; ok {
		return true
	}
	if branchID != nil {
		if _, ok := p.grants[keyFor(ResourceAdmin, branchID)]; ok {
			return true
		}
	}
	if mask, ok := p.grants[keyFor(resource, nil)]; ok && mask&action == action {
		return true
	}
	if branchID != nil {
		if mask, ok := p.grants[keyFor(resource, branchID)]; ok && mask&action == action {
			return true
		}
	}
	return false
}

// Len returns the number of distinct (resource, branch) entries.
func (p PermissionSet) Len() int { return len(p.grants) }
