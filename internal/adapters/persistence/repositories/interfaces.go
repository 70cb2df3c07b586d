package repositories

import (
	"context"
	"time"

	"clinicsales/internal/adapters/persistence/models"
	"clinicsales/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ClinicRepository defines directory access to clinics. The lifecycle engine
// only reads; writes belong to the master-data endpoints.
type ClinicRepository interface {
	Create(ctx context.Context, clinic *models.Clinic) error
	GetByID(ctx context.Context, id uint) (*models.Clinic, error)
	RegionOf(ctx context.Context, clinicID uint) (*uint, error)
	List(ctx context.Context, regionID *uint) ([]*models.Clinic, error)
	ListAll(ctx context.Context) ([]*models.Clinic, error)
	Update(ctx context.Context, clinic *models.Clinic) error
	Delete(ctx context.Context, id uint) error
}

// RegionRepository defines region master data access
type RegionRepository interface {
	Create(ctx context.Context, region *models.Region) error
	GetByID(ctx context.Context, id uint) (*models.Region, error)
	List(ctx context.Context) ([]*models.Region, error)
	Update(ctx context.Context, region *models.Region) error
	Delete(ctx context.Context, id uint) error
}

// ProposalFilter carries the caller-supplied list filters; the visibility
// scope is passed separately and always applied first.
type ProposalFilter struct {
	Status   *domain.Status
	ClinicID *uint
	From     *time.Time
	To       *time.Time
	Search   string
	Offset   int
	Limit    int
}

// StatusTally is a per-status aggregate row.
type StatusTally struct {
	Status string
	Count  int64
	Sum    float64
}

// ProposalRepository defines proposal data access
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id uint) (*models.Proposal, error)
	List(ctx context.Context, scope domain.Scope, filter *ProposalFilter) ([]*models.Proposal, int64, error)
	// UpdateFields applies a partial update conditioned on the proposal still
	// having the expected status; domain.ErrConflict when no row matched.
	UpdateFields(ctx context.Context, id uint, expected domain.Status, updates map[string]interface{}) error
	// ListExpiryCandidates returns pending proposals created before the cutoff.
	ListExpiryCandidates(ctx context.Context, cutoff time.Time) ([]*models.Proposal, error)
	// Tally aggregates proposal counts and amount sums per status inside the
	// window, under the same scope translation as List.
	Tally(ctx context.Context, scope domain.Scope, from, to *time.Time) ([]StatusTally, error)
	Delete(ctx context.Context, id uint) error
}
