package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleAdmin           Role = "ADMIN"
	RoleManager         Role = "MANAGER"
	RoleRegionalManager Role = "REGIONAL_MANAGER"
	RoleFieldUser       Role = "FIELD_USER"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleRegionalManager, RoleFieldUser:
		return true
	}
	return false
}

// ActingUser is the resolved identity a request acts as. It is built from
// validated JWT claims by the auth middleware and never persisted.
type ActingUser struct {
	ID       uint
	Role     Role
	RegionID *uint
}

// User represents a user in the domain layer
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // Hashed
	Role      Role
	RegionID  *uint
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Region is a grouping key for visibility scoping.
type Region struct {
	ID   uint
	Name string
}

// Clinic represents a clinic from the directory (read-only for the engine)
type Clinic struct {
	ID       uint
	Name     string
	RegionID uint
	IsActive bool
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
