package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestScopeFor(t *testing.T) {
	t.Run("admin and manager see everything", func(t *testing.T) {
		assert.True(t, ScopeFor(ActingUser{ID: 1, Role: RoleAdmin}).All)
		assert.True(t, ScopeFor(ActingUser{ID: 2, Role: RoleManager}).All)
	})

	t.Run("regional manager is bound to their region", func(t *testing.T) {
		scope := ScopeFor(ActingUser{ID: 3, Role: RoleRegionalManager, RegionID: uintPtr(7)})
		assert.False(t, scope.All)
		assert.Equal(t, uint(7), *scope.RegionID)
	})

	t.Run("regional manager without region fails closed", func(t *testing.T) {
		scope := ScopeFor(ActingUser{ID: 3, Role: RoleRegionalManager})
		assert.True(t, scope.None)
	})

	t.Run("field user sees own proposals only", func(t *testing.T) {
		scope := ScopeFor(ActingUser{ID: 4, Role: RoleFieldUser})
		assert.Equal(t, uint(4), *scope.CreatorID)
	})

	t.Run("unknown role fails closed", func(t *testing.T) {
		scope := ScopeFor(ActingUser{ID: 5, Role: "SUPERVISOR"})
		assert.True(t, scope.None)
	})
}

func TestScopeAllows(t *testing.T) {
	admin := ScopeFor(ActingUser{ID: 1, Role: RoleAdmin})
	regional := ScopeFor(ActingUser{ID: 2, Role: RoleRegionalManager, RegionID: uintPtr(1)})
	field := ScopeFor(ActingUser{ID: 3, Role: RoleFieldUser})
	none := ScopeFor(ActingUser{ID: 4, Role: "UNKNOWN"})

	tests := []struct {
		name         string
		scope        Scope
		creatorID    uint
		clinicRegion *uint
		want         bool
	}{
		{"admin sees any proposal", admin, 99, uintPtr(5), true},
		{"admin sees unresolved region", admin, 99, nil, true},
		{"regional sees own region", regional, 99, uintPtr(1), true},
		{"regional blocked from other region", regional, 99, uintPtr(2), false},
		{"regional blocked from unresolved region", regional, 99, nil, false},
		{"field user sees own", field, 3, uintPtr(2), true},
		{"field user blocked from others", field, 99, uintPtr(2), false},
		{"none scope denies everything", none, 4, uintPtr(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.Allows(tt.creatorID, tt.clinicRegion))
		})
	}
}

// Every proposal must be visible to exactly the scopes its creator and region
// imply, so the four scope kinds partition consistently.
func TestScopePartitionConsistency(t *testing.T) {
	type proposal struct {
		creatorID    uint
		clinicRegion *uint
	}

	proposals := []proposal{
		{creatorID: 10, clinicRegion: uintPtr(1)},
		{creatorID: 10, clinicRegion: uintPtr(2)},
		{creatorID: 11, clinicRegion: uintPtr(1)},
		{creatorID: 12, clinicRegion: nil},
	}

	adminScope := ScopeFor(ActingUser{ID: 1, Role: RoleAdmin})
	for _, p := range proposals {
		// Admin visibility is a superset of every other scope
		for _, u := range []ActingUser{
			{ID: 10, Role: RoleFieldUser},
			{ID: 2, Role: RoleRegionalManager, RegionID: uintPtr(1)},
		} {
			if ScopeFor(u).Allows(p.creatorID, p.clinicRegion) {
				assert.True(t, adminScope.Allows(p.creatorID, p.clinicRegion))
			}
		}
	}
}

// Randomized check that Allows matches the literal visibility rule for every
// role, across arbitrary creator/region combinations.
func TestScopeAllowsMatchesVisibilityRule(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	randRegion := func() *uint {
		if rng.Intn(4) == 0 {
			return nil
		}
		r := uint(rng.Intn(5) + 1)
		return &r
	}

	roles := []Role{RoleAdmin, RoleManager, RoleRegionalManager, RoleFieldUser}

	for i := 0; i < 500; i++ {
		u := ActingUser{
			ID:       uint(rng.Intn(20) + 1),
			Role:     roles[rng.Intn(len(roles))],
			RegionID: randRegion(),
		}
		creatorID := uint(rng.Intn(20) + 1)
		clinicRegion := randRegion()

		var want bool
		switch u.Role {
		case RoleAdmin, RoleManager:
			want = true
		case RoleRegionalManager:
			want = u.RegionID != nil && clinicRegion != nil && *u.RegionID == *clinicRegion
		case RoleFieldUser:
			want = creatorID == u.ID
		}

		got := ScopeFor(u).Allows(creatorID, clinicRegion)
		assert.Equal(t, want, got,
			"role=%s regionID=%v creator=%d clinicRegion=%v", u.Role, u.RegionID, creatorID, clinicRegion)
	}
}

func TestCanEdit(t *testing.T) {
	assert.True(t, CanEdit(ActingUser{ID: 1, Role: RoleAdmin}, 99))
	assert.True(t, CanEdit(ActingUser{ID: 2, Role: RoleManager}, 99))
	assert.True(t, CanEdit(ActingUser{ID: 5, Role: RoleFieldUser}, 5))

	assert.False(t, CanEdit(ActingUser{ID: 5, Role: RoleFieldUser}, 6))
	assert.False(t, CanEdit(ActingUser{ID: 3, Role: RoleRegionalManager, RegionID: uintPtr(1)}, 6))
}
