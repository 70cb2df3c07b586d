package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeTransitionEdgeBeforeAuthority(t *testing.T) {
	// A field user requesting an impossible edge gets the transition error,
	// not the authorization error
	fieldUser := ActingUser{ID: 1, Role: RoleFieldUser}
	err := AuthorizeTransition(fieldUser, StatusDelivered, StatusApproved, uintPtr(1))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Same for an admin
	admin := ActingUser{ID: 2, Role: RoleAdmin}
	err = AuthorizeTransition(admin, StatusRejected, StatusApproved, uintPtr(1))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAuthorizeTransitionDecisions(t *testing.T) {
	admin := ActingUser{ID: 1, Role: RoleAdmin}
	manager := ActingUser{ID: 2, Role: RoleManager}
	regional := ActingUser{ID: 3, Role: RoleRegionalManager, RegionID: uintPtr(1)}
	fieldUser := ActingUser{ID: 4, Role: RoleFieldUser}

	t.Run("admin and manager decide anywhere", func(t *testing.T) {
		assert.NoError(t, AuthorizeTransition(admin, StatusPending, StatusApproved, uintPtr(9)))
		assert.NoError(t, AuthorizeTransition(manager, StatusPending, StatusRejected, nil))
	})

	t.Run("regional manager decides only in own region", func(t *testing.T) {
		assert.NoError(t, AuthorizeTransition(regional, StatusPending, StatusApproved, uintPtr(1)))
		assert.ErrorIs(t, AuthorizeTransition(regional, StatusPending, StatusApproved, uintPtr(2)), ErrForbidden)
		assert.ErrorIs(t, AuthorizeTransition(regional, StatusPending, StatusRejected, nil), ErrForbidden)
	})

	t.Run("regional manager without region never decides", func(t *testing.T) {
		noRegion := ActingUser{ID: 5, Role: RoleRegionalManager}
		assert.ErrorIs(t, AuthorizeTransition(noRegion, StatusPending, StatusApproved, uintPtr(1)), ErrForbidden)
	})

	t.Run("field user never decides, own proposals included", func(t *testing.T) {
		assert.ErrorIs(t, AuthorizeTransition(fieldUser, StatusPending, StatusApproved, uintPtr(1)), ErrForbidden)
		assert.ErrorIs(t, AuthorizeTransition(fieldUser, StatusPending, StatusRejected, uintPtr(1)), ErrForbidden)
	})
}

func TestAuthorizeTransitionFulfillment(t *testing.T) {
	admin := ActingUser{ID: 1, Role: RoleAdmin}
	manager := ActingUser{ID: 2, Role: RoleManager}
	regional := ActingUser{ID: 3, Role: RoleRegionalManager, RegionID: uintPtr(1)}
	fieldUser := ActingUser{ID: 4, Role: RoleFieldUser}

	edges := [][2]Status{
		{StatusApproved, StatusContractReceived},
		{StatusContractReceived, StatusInTransfer},
		{StatusInTransfer, StatusDelivered},
	}

	for _, e := range edges {
		assert.NoError(t, AuthorizeTransition(admin, e[0], e[1], uintPtr(1)))
		assert.NoError(t, AuthorizeTransition(manager, e[0], e[1], uintPtr(1)))
		// Fulfillment is operational, not regional: even the matching region
		// does not grant it
		assert.ErrorIs(t, AuthorizeTransition(regional, e[0], e[1], uintPtr(1)), ErrForbidden)
		assert.ErrorIs(t, AuthorizeTransition(fieldUser, e[0], e[1], uintPtr(1)), ErrForbidden)
	}
}

func TestAuthorizeTransitionExpiryIsSystemOnly(t *testing.T) {
	for _, u := range []ActingUser{
		{ID: 1, Role: RoleAdmin},
		{ID: 2, Role: RoleManager},
		{ID: 3, Role: RoleRegionalManager, RegionID: uintPtr(1)},
		{ID: 4, Role: RoleFieldUser},
	} {
		err := AuthorizeTransition(u, StatusPending, StatusExpired, uintPtr(1))
		assert.ErrorIs(t, err, ErrForbidden, "role %s", u.Role)
	}
}

func TestDecisionStamp(t *testing.T) {
	manager := ActingUser{ID: 7, Role: RoleManager}
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("decisions stamp actor and time", func(t *testing.T) {
		decidedBy, decidedAt := DecisionStamp(manager, StatusApproved, now)
		require.NotNil(t, decidedBy)
		require.NotNil(t, decidedAt)
		assert.Equal(t, uint(7), *decidedBy)
		assert.Equal(t, now, *decidedAt)

		decidedBy, decidedAt = DecisionStamp(manager, StatusRejected, now)
		require.NotNil(t, decidedBy)
		require.NotNil(t, decidedAt)
	})

	t.Run("non-decisions leave the stamp untouched", func(t *testing.T) {
		for _, s := range []Status{StatusContractReceived, StatusInTransfer, StatusDelivered, StatusExpired} {
			decidedBy, decidedAt := DecisionStamp(manager, s, now)
			assert.Nil(t, decidedBy, "status %s", s)
			assert.Nil(t, decidedAt, "status %s", s)
		}
	})
}
