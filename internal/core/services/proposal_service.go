package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"clinicsales/internal/adapters/persistence/models"
	"clinicsales/internal/adapters/persistence/repositories"
	"clinicsales/internal/core/domain"

	"gorm.io/gorm"
)

// ProposalService handles proposal lifecycle business logic
type ProposalService struct {
	proposalRepo  repositories.ProposalRepository
	clinicRepo    repositories.ClinicRepository
	retentionDays int

	// now is swappable for tests
	now func() time.Time
}

// NewProposalService creates a new proposal service
func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	clinicRepo repositories.ClinicRepository,
	retentionDays int,
) *ProposalService {
	if retentionDays < 1 {
		retentionDays = 30
	}
	return &ProposalService{
		proposalRepo:  proposalRepo,
		clinicRepo:    clinicRepo,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// CreateProposalInput represents create proposal input
type CreateProposalInput struct {
	ClinicID        uint    `json:"clinic_id" validate:"required"`
	TotalAmount     float64 `json:"total_amount" validate:"gte=0"`
	Currency        string  `json:"currency" validate:"required,len=3"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

func (in *CreateProposalInput) validate() error {
	var fields []string
	if in.ClinicID == 0 {
		fields = append(fields, "clinic_id")
	}
	// Zero is a valid amount (fully discounted or placeholder offers)
	if in.TotalAmount < 0 {
		fields = append(fields, "total_amount")
	}
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if !domain.ValidCurrency(in.Currency) {
		fields = append(fields, "currency")
	}
	if in.DiscountPercent < 0 || in.DiscountPercent > 100 {
		fields = append(fields, "discount_percent")
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

// Create creates a new proposal in pending status
func (s *ProposalService) Create(ctx context.Context, input *CreateProposalInput, actor domain.ActingUser) (*models.Proposal, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	// Validate clinic exists and is active
	clinic, err := s.clinicRepo.GetByID(ctx, input.ClinicID)
	if err != nil {
		return nil, domain.ErrClinicNotFound
	}
	if !clinic.IsActive {
		return nil, domain.ErrClinicInactive
	}

	proposal := &models.Proposal{
		CreatorID:       actor.ID,
		ClinicID:        input.ClinicID,
		Status:          string(domain.StatusPending),
		TotalAmount:     input.TotalAmount,
		Currency:        input.Currency,
		DiscountPercent: input.DiscountPercent,
		Notes:           input.Notes,
	}

	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, err
	}

	return s.proposalRepo.GetByID(ctx, proposal.ID)
}

// GetByID gets a proposal by ID. Out-of-scope proposals report not found so
// record fetches never reveal more than list results.
func (s *ProposalService) GetByID(ctx context.Context, id uint, actor domain.ActingUser) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, err
	}

	scope := domain.ScopeFor(actor)
	if !scope.Allows(proposal.CreatorID, s.clinicRegion(ctx, proposal)) {
		return nil, domain.ErrProposalNotFound
	}

	return proposal, nil
}

// clinicRegion resolves the region of the proposal's clinic, preferring the
// preloaded relation and falling back to a directory lookup when the preload
// missed (soft-deleted clinic, partial fetch). Nil means unresolvable, which
// region-scoped checks treat as not visible.
func (s *ProposalService) clinicRegion(ctx context.Context, proposal *models.Proposal) *uint {
	if region := proposal.ClinicRegionID(); region != nil {
		return region
	}
	region, err := s.clinicRepo.RegionOf(ctx, proposal.ClinicID)
	if err != nil {
		return nil
	}
	return region
}

// ListProposalsInput represents list input
type ListProposalsInput struct {
	Page     int
	Limit    int
	Status   string
	ClinicID *uint
	From     *time.Time
	To       *time.Time
	Search   string
}

// ListProposalsOutput represents list output
type ListProposalsOutput struct {
	Proposals  []*models.Proposal `json:"proposals"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// List lists proposals visible to the actor
func (s *ProposalService) List(ctx context.Context, input *ListProposalsInput, actor domain.ActingUser) (*ListProposalsOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	filter := &repositories.ProposalFilter{
		ClinicID: input.ClinicID,
		From:     input.From,
		To:       input.To,
		Search:   strings.TrimSpace(input.Search),
		Offset:   (input.Page - 1) * input.Limit,
		Limit:    input.Limit,
	}

	if input.Status != "" {
		status := domain.Status(strings.ToLower(strings.TrimSpace(input.Status)))
		if !domain.ValidStatus(status) {
			return nil, domain.NewValidationError("status")
		}
		filter.Status = &status
	}

	scope := domain.ScopeFor(actor)
	proposals, total, err := s.proposalRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListProposalsOutput{
		Proposals:  proposals,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateProposalInput represents edit input. Nil fields are left unchanged.
// The clinic is not here on purpose: a proposal never moves to a different
// clinic after creation, it gets rejected and redrafted instead.
type UpdateProposalInput struct {
	TotalAmount     *float64 `json:"total_amount,omitempty"`
	Currency        *string  `json:"currency,omitempty"`
	DiscountPercent *float64 `json:"discount_percent,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

func (in *UpdateProposalInput) validate() (map[string]interface{}, error) {
	updates := make(map[string]interface{})
	var fields []string

	if in.TotalAmount != nil {
		if *in.TotalAmount < 0 {
			fields = append(fields, "total_amount")
		} else {
			updates["total_amount"] = *in.TotalAmount
		}
	}
	if in.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if !domain.ValidCurrency(currency) {
			fields = append(fields, "currency")
		} else {
			updates["currency"] = currency
		}
	}
	if in.DiscountPercent != nil {
		if *in.DiscountPercent < 0 || *in.DiscountPercent > 100 {
			fields = append(fields, "discount_percent")
		} else {
			updates["discount_percent"] = *in.DiscountPercent
		}
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}

	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}
	return updates, nil
}

// Update edits a pending proposal's mutable fields. Proposals that already
// left pending are locked; the conditional update guards against a decision
// landing between the read and the write.
func (s *ProposalService) Update(ctx context.Context, id uint, input *UpdateProposalInput, actor domain.ActingUser) (*models.Proposal, error) {
	proposal, err := s.GetByID(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if proposal.Status != string(domain.StatusPending) {
		return nil, domain.ErrProposalLocked
	}
	if !domain.CanEdit(actor, proposal.CreatorID) {
		return nil, domain.ErrForbidden
	}

	updates, err := input.validate()
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return proposal, nil
	}

	if err := s.proposalRepo.UpdateFields(ctx, id, domain.StatusPending, updates); err != nil {
		return nil, err
	}

	return s.proposalRepo.GetByID(ctx, id)
}

// TransitionInput represents transition input
type TransitionInput struct {
	Status string `json:"status" validate:"required"`
}

// Transition moves a proposal to the requested status on behalf of the actor.
// The edge check runs before the authority check, and the write is
// conditioned on the status read here so concurrent transitions lose cleanly.
func (s *ProposalService) Transition(ctx context.Context, id uint, input *TransitionInput, actor domain.ActingUser) (*models.Proposal, error) {
	requested := domain.Status(strings.ToLower(strings.TrimSpace(input.Status)))
	if !domain.ValidStatus(requested) {
		return nil, domain.NewValidationError("status")
	}

	proposal, err := s.GetByID(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	current := domain.Status(proposal.Status)
	if err := domain.AuthorizeTransition(actor, current, requested, s.clinicRegion(ctx, proposal)); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status": string(requested),
	}
	if decidedBy, decidedAt := domain.DecisionStamp(actor, requested, s.now()); decidedBy != nil {
		updates["decided_by"] = *decidedBy
		updates["decided_at"] = *decidedAt
	}

	if err := s.proposalRepo.UpdateFields(ctx, id, current, updates); err != nil {
		return nil, err
	}

	return s.proposalRepo.GetByID(ctx, id)
}

// Approve is a convenience wrapper for the approval transition
func (s *ProposalService) Approve(ctx context.Context, id uint, actor domain.ActingUser) (*models.Proposal, error) {
	return s.Transition(ctx, id, &TransitionInput{Status: string(domain.StatusApproved)}, actor)
}

// Reject is a convenience wrapper for the rejection transition
func (s *ProposalService) Reject(ctx context.Context, id uint, actor domain.ActingUser) (*models.Proposal, error) {
	return s.Transition(ctx, id, &TransitionInput{Status: string(domain.StatusRejected)}, actor)
}

// SweepExpired expires pending proposals older than the retention window.
// The sweep is the only path that produces the expired status: it bypasses
// actor authorization and stamps decided_at without an actor. Each row is
// updated conditionally, so a decision racing the sweep simply drops the row
// from this run. Returns the number of proposals expired.
func (s *ProposalService) SweepExpired(ctx context.Context) (int, error) {
	sweepTime := s.now()
	cutoff := sweepTime.AddDate(0, 0, -s.retentionDays)

	candidates, err := s.proposalRepo.ListExpiryCandidates(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, p := range candidates {
		updates := map[string]interface{}{
			"status":     string(domain.StatusExpired),
			"decided_at": sweepTime,
			"decided_by": nil,
		}
		err := s.proposalRepo.UpdateFields(ctx, p.ID, domain.StatusPending, updates)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				// Decided while the sweep ran, leave it alone
				continue
			}
			log.Printf("⚠️ Expiry sweep failed for proposal %d: %v", p.ID, err)
			continue
		}
		expired++
	}

	return expired, nil
}

// Delete soft-deletes a proposal. Admin only.
func (s *ProposalService) Delete(ctx context.Context, id uint, actor domain.ActingUser) error {
	if actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if _, err := s.proposalRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrProposalNotFound
		}
		return err
	}

	return s.proposalRepo.Delete(ctx, id)
}
