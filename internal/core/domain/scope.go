package domain

// Scope is the visibility restriction computed for an acting user. It is a
// pure value: repositories translate it into query conditions, and single
// record paths apply Allows after loading. Both come from the same ScopeFor
// call so list results and record fetches can never disagree.
type Scope struct {
	// All grants unrestricted visibility (admin, manager).
	All bool
	// RegionID restricts to proposals whose clinic belongs to the region.
	RegionID *uint
	// CreatorID restricts to proposals created by the user.
	CreatorID *uint
	// None denies everything (unknown role, regional manager without region).
	None bool
}

// ScopeFor computes the visibility scope for a user. Unknown roles and a
// regional manager with no region fail closed.
func ScopeFor(u ActingUser) Scope {
	switch u.Role {
	case RoleAdmin, RoleManager:
		return Scope{All: true}
	case RoleRegionalManager:
		if u.RegionID == nil {
			return Scope{None: true}
		}
		return Scope{RegionID: u.RegionID}
	case RoleFieldUser:
		creator := u.ID
		return Scope{CreatorID: &creator}
	default:
		return Scope{None: true}
	}
}

// Allows reports whether a proposal with the given creator and clinic region
// is visible under the scope. clinicRegion is nil when the clinic could not
// be resolved; such proposals are visible only to unrestricted scopes.
func (s Scope) Allows(creatorID uint, clinicRegion *uint) bool {
	switch {
	case s.None:
		return false
	case s.All:
		return true
	case s.CreatorID != nil:
		return creatorID == *s.CreatorID
	case s.RegionID != nil:
		return clinicRegion != nil && *clinicRegion == *s.RegionID
	}
	return false
}

// CanEdit reports whether the user may modify a proposal's mutable fields.
// Editing is wider than approval authority but narrower than read visibility:
// the creator or an admin/manager, never a regional manager over someone
// else's draft.
func CanEdit(u ActingUser, creatorID uint) bool {
	if u.Role == RoleAdmin || u.Role == RoleManager {
		return true
	}
	return u.ID == creatorID
}
