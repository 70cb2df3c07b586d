package domain

import "time"

// AuthorizeTransition decides whether user may move a proposal from cur to
// req. clinicRegion is the region of the proposal's clinic, nil when
// unresolved. The edge check runs before the authority check so an impossible
// transition is reported as ErrInvalidTransition for every role.
//
// Authority rules:
//   - pending→approved/rejected: admin and manager unconditionally; a
//     regional manager only for clinics in their own region (same predicate
//     as read visibility). Field users never approve, their own included.
//   - approved→contract_received→in_transfer→delivered: admin and manager
//     only (operational fulfillment, not regional).
//   - pending→expired: system-initiated only, never through an actor.
func AuthorizeTransition(u ActingUser, cur, req Status, clinicRegion *uint) error {
	if !CanTransition(cur, req) {
		return ErrInvalidTransition
	}

	switch {
	case req.IsDecision():
		switch u.Role {
		case RoleAdmin, RoleManager:
			return nil
		case RoleRegionalManager:
			if u.RegionID != nil && clinicRegion != nil && *u.RegionID == *clinicRegion {
				return nil
			}
			return ErrForbidden
		default:
			return ErrForbidden
		}
	case req == StatusExpired:
		return ErrForbidden
	default:
		if u.Role == RoleAdmin || u.Role == RoleManager {
			return nil
		}
		return ErrForbidden
	}
}

// DecisionStamp computes the decidedBy/decidedAt side effects for an accepted
// transition. Only decision transitions stamp the actor; every other edge
// leaves the existing decision slot untouched.
func DecisionStamp(u ActingUser, req Status, now time.Time) (decidedBy *uint, decidedAt *time.Time) {
	if !req.IsDecision() {
		return nil, nil
	}
	actor := u.ID
	ts := now
	return &actor, &ts
}
