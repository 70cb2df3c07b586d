package repositories

import (
	"context"
	"time"

	"clinicsales/internal/adapters/persistence/models"
	"clinicsales/internal/core/domain"

	"gorm.io/gorm"
)

// proposalRepository implements ProposalRepository interface
type proposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a new proposal repository
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

// applyScope translates a visibility scope into query conditions. Every bulk
// query (List, Tally) goes through this single helper so dashboard totals and
// list results always agree. The region branch joins clinics and excludes
// soft-deleted ones: a proposal whose clinic is gone stays invisible to
// regional managers.
func applyScope(q *gorm.DB, scope domain.Scope) *gorm.DB {
	switch {
	case scope.None:
		return q.Where("1 = 0")
	case scope.All:
		return q
	case scope.CreatorID != nil:
		return q.Where("proposals.creator_id = ?", *scope.CreatorID)
	case scope.RegionID != nil:
		return q.
			Joins("JOIN clinics ON clinics.id = proposals.clinic_id AND clinics.deleted_at IS NULL").
			Where("clinics.region_id = ?", *scope.RegionID)
	}
	return q.Where("1 = 0")
}

func applyFilter(q *gorm.DB, filter *ProposalFilter) *gorm.DB {
	if filter == nil {
		return q
	}
	if filter.Status != nil {
		q = q.Where("proposals.status = ?", string(*filter.Status))
	}
	if filter.ClinicID != nil {
		q = q.Where("proposals.clinic_id = ?", *filter.ClinicID)
	}
	if filter.From != nil {
		q = q.Where("proposals.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("proposals.created_at < ?", *filter.To)
	}
	if filter.Search != "" {
		q = q.Where("proposals.notes LIKE ?", "%"+filter.Search+"%")
	}
	return q
}

// Create creates a new proposal
func (r *proposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

// GetByID gets a proposal by ID with relations. Visibility is the service's
// concern; this load is unscoped.
func (r *proposalRepository) GetByID(ctx context.Context, id uint) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Clinic").
		Preload("Decider").
		First(&proposal, id).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// List lists proposals under the scope and filters, newest first
func (r *proposalRepository) List(ctx context.Context, scope domain.Scope, filter *ProposalFilter) ([]*models.Proposal, int64, error) {
	var proposals []*models.Proposal
	var total int64

	countQ := applyFilter(applyScope(r.db.WithContext(ctx).Model(&models.Proposal{}), scope), filter)
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := applyFilter(applyScope(r.db.WithContext(ctx).Model(&models.Proposal{}), scope), filter).
		Preload("Creator").
		Preload("Clinic").
		Preload("Decider").
		Order("proposals.created_at DESC")

	if filter != nil && filter.Limit > 0 {
		q = q.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := q.Find(&proposals).Error; err != nil {
		return nil, 0, err
	}

	return proposals, total, nil
}

// UpdateFields applies a conditional partial update. The WHERE clause pins
// the status read by the caller, so two concurrent transitions on the same
// proposal cannot both succeed; the loser sees ErrConflict.
func (r *proposalRepository) UpdateFields(ctx context.Context, id uint, expected domain.Status, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ?", id).
		Where("status = ?", string(expected)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ListExpiryCandidates returns pending proposals created before the cutoff
func (r *proposalRepository) ListExpiryCandidates(ctx context.Context, cutoff time.Time) ([]*models.Proposal, error) {
	var proposals []*models.Proposal
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.StatusPending)).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&proposals).Error
	return proposals, err
}

// Tally aggregates per-status counts and amount sums within the window
func (r *proposalRepository) Tally(ctx context.Context, scope domain.Scope, from, to *time.Time) ([]StatusTally, error) {
	var rows []StatusTally

	q := applyScope(r.db.WithContext(ctx).Model(&models.Proposal{}), scope).
		Select("proposals.status AS status, COUNT(*) AS count, COALESCE(SUM(proposals.total_amount), 0) AS sum")
	if from != nil {
		q = q.Where("proposals.created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("proposals.created_at < ?", *to)
	}

	err := q.Group("proposals.status").Scan(&rows).Error
	return rows, err
}

// Delete soft deletes a proposal
func (r *proposalRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Proposal{}, id).Error
}
