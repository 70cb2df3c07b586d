package services

import (
	"context"
	"testing"
	"time"

	"clinicsales/internal/adapters/persistence/models"
	"clinicsales/internal/adapters/persistence/repositories"
	"clinicsales/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func uintPtr(v uint) *uint        { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

// fakeProposalRepo is an in-memory ProposalRepository
type fakeProposalRepo struct {
	proposals map[uint]*models.Proposal
	nextID    uint
	// afterGet / afterList run after the corresponding read, letting tests
	// mutate state between a service's read and its conditional write
	afterGet  func()
	afterList func()
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{proposals: make(map[uint]*models.Proposal), nextID: 1}
}

func (f *fakeProposalRepo) Create(_ context.Context, p *models.Proposal) error {
	p.ID = f.nextID
	f.nextID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	f.proposals[p.ID] = p
	return nil
}

func (f *fakeProposalRepo) GetByID(_ context.Context, id uint) (*models.Proposal, error) {
	p, ok := f.proposals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	if f.afterGet != nil {
		f.afterGet()
	}
	return &cp, nil
}

func (f *fakeProposalRepo) List(_ context.Context, scope domain.Scope, filter *repositories.ProposalFilter) ([]*models.Proposal, int64, error) {
	var out []*models.Proposal
	for _, p := range f.proposals {
		if !scope.Allows(p.CreatorID, p.ClinicRegionID()) {
			continue
		}
		if filter != nil && filter.Status != nil && p.Status != string(*filter.Status) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProposalRepo) UpdateFields(_ context.Context, id uint, expected domain.Status, updates map[string]interface{}) error {
	p, ok := f.proposals[id]
	if !ok || p.Status != string(expected) {
		return domain.ErrConflict
	}
	for k, v := range updates {
		switch k {
		case "status":
			p.Status = v.(string)
		case "decided_by":
			if v == nil {
				p.DecidedBy = nil
			} else {
				actor := v.(uint)
				p.DecidedBy = &actor
			}
		case "decided_at":
			ts := v.(time.Time)
			p.DecidedAt = &ts
		case "total_amount":
			p.TotalAmount = v.(float64)
		case "currency":
			p.Currency = v.(string)
		case "discount_percent":
			p.DiscountPercent = v.(float64)
		case "notes":
			p.Notes = v.(string)
		}
	}
	return nil
}

func (f *fakeProposalRepo) ListExpiryCandidates(_ context.Context, cutoff time.Time) ([]*models.Proposal, error) {
	var out []*models.Proposal
	for _, p := range f.proposals {
		if p.Status == string(domain.StatusPending) && p.CreatedAt.Before(cutoff) {
			cp := *p
			out = append(out, &cp)
		}
	}
	if f.afterList != nil {
		f.afterList()
	}
	return out, nil
}

func (f *fakeProposalRepo) Tally(_ context.Context, scope domain.Scope, from, to *time.Time) ([]repositories.StatusTally, error) {
	sums := make(map[string]*repositories.StatusTally)
	for _, p := range f.proposals {
		if !scope.Allows(p.CreatorID, p.ClinicRegionID()) {
			continue
		}
		t, ok := sums[p.Status]
		if !ok {
			t = &repositories.StatusTally{Status: p.Status}
			sums[p.Status] = t
		}
		t.Count++
		t.Sum += p.TotalAmount
	}
	var out []repositories.StatusTally
	for _, t := range sums {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeProposalRepo) Delete(_ context.Context, id uint) error {
	delete(f.proposals, id)
	return nil
}

// fakeClinicRepo is an in-memory ClinicRepository
type fakeClinicRepo struct {
	clinics map[uint]*models.Clinic
}

func newFakeClinicRepo(clinics ...*models.Clinic) *fakeClinicRepo {
	f := &fakeClinicRepo{clinics: make(map[uint]*models.Clinic)}
	for _, c := range clinics {
		f.clinics[c.ID] = c
	}
	return f
}

func (f *fakeClinicRepo) Create(_ context.Context, c *models.Clinic) error {
	f.clinics[c.ID] = c
	return nil
}

func (f *fakeClinicRepo) GetByID(_ context.Context, id uint) (*models.Clinic, error) {
	c, ok := f.clinics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeClinicRepo) RegionOf(_ context.Context, clinicID uint) (*uint, error) {
	c, ok := f.clinics[clinicID]
	if !ok {
		return nil, nil
	}
	region := c.RegionID
	return &region, nil
}

func (f *fakeClinicRepo) List(_ context.Context, _ *uint) ([]*models.Clinic, error) {
	var out []*models.Clinic
	for _, c := range f.clinics {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeClinicRepo) ListAll(ctx context.Context) ([]*models.Clinic, error) {
	return f.List(ctx, nil)
}

func (f *fakeClinicRepo) Update(_ context.Context, c *models.Clinic) error {
	f.clinics[c.ID] = c
	return nil
}

func (f *fakeClinicRepo) Delete(_ context.Context, id uint) error {
	delete(f.clinics, id)
	return nil
}

// ============================================================
// Fixtures
// ============================================================

var (
	clinicRegionOne = &models.Clinic{ID: 1, Name: "Istanbul Dental Center", RegionID: 1, IsActive: true}
	clinicRegionTwo = &models.Clinic{ID: 2, Name: "Izmir Medical Group", RegionID: 2, IsActive: true}
	clinicInactive  = &models.Clinic{ID: 3, Name: "Closed Clinic", RegionID: 1, IsActive: false}

	admin       = domain.ActingUser{ID: 1, Role: domain.RoleAdmin}
	manager     = domain.ActingUser{ID: 2, Role: domain.RoleManager}
	regionalOne = domain.ActingUser{ID: 3, Role: domain.RoleRegionalManager, RegionID: uintPtr(1)}
	fieldUser   = domain.ActingUser{ID: 4, Role: domain.RoleFieldUser}
	otherField  = domain.ActingUser{ID: 5, Role: domain.RoleFieldUser}
)

func newTestService() (*ProposalService, *fakeProposalRepo) {
	repo := newFakeProposalRepo()
	clinics := newFakeClinicRepo(clinicRegionOne, clinicRegionTwo, clinicInactive)
	svc := NewProposalService(repo, clinics, 30)
	return svc, repo
}

// seed puts a proposal directly into the fake, with the clinic relation
// resolved the way the real repository's preload would
func seed(repo *fakeProposalRepo, creatorID uint, clinic *models.Clinic, status domain.Status, amount float64, createdAt time.Time) *models.Proposal {
	p := &models.Proposal{
		CreatorID:   creatorID,
		ClinicID:    clinic.ID,
		Clinic:      clinic,
		Status:      string(status),
		TotalAmount: amount,
		Currency:    "TRY",
		CreatedAt:   createdAt,
	}
	_ = repo.Create(context.Background(), p)
	return p
}

// ============================================================
// Create
// ============================================================

func TestProposalCreate(t *testing.T) {
	svc, _ := newTestService()

	proposal, err := svc.Create(context.Background(), &CreateProposalInput{
		ClinicID:    1,
		TotalAmount: 15000,
		Currency:    "try",
		Notes:       "initial offer",
	}, fieldUser)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), proposal.Status)
	assert.Equal(t, fieldUser.ID, proposal.CreatorID)
	assert.Equal(t, "TRY", proposal.Currency)
	assert.Nil(t, proposal.DecidedBy)
	assert.Nil(t, proposal.DecidedAt)
}

func TestProposalCreateValidation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name   string
		input  *CreateProposalInput
		fields []string
	}{
		{"negative amount", &CreateProposalInput{ClinicID: 1, TotalAmount: -5, Currency: "TRY"}, []string{"total_amount"}},
		{"unknown currency", &CreateProposalInput{ClinicID: 1, TotalAmount: 100, Currency: "XXX"}, []string{"currency"}},
		{"discount over 100", &CreateProposalInput{ClinicID: 1, TotalAmount: 100, Currency: "TRY", DiscountPercent: 101}, []string{"discount_percent"}},
		{"missing clinic", &CreateProposalInput{TotalAmount: 100, Currency: "TRY"}, []string{"clinic_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input, fieldUser)
			ve, ok := domain.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tt.fields, ve.Fields)
		})
	}
}

func TestProposalCreateZeroAmount(t *testing.T) {
	svc, _ := newTestService()

	// A fully discounted offer carries a zero total; only negatives are
	// rejected
	proposal, err := svc.Create(context.Background(), &CreateProposalInput{
		ClinicID:        1,
		TotalAmount:     0,
		Currency:        "TRY",
		DiscountPercent: 100,
	}, fieldUser)

	require.NoError(t, err)
	assert.Equal(t, 0.0, proposal.TotalAmount)
}

func TestProposalCreateClinicChecks(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), &CreateProposalInput{
		ClinicID: 99, TotalAmount: 100, Currency: "TRY",
	}, fieldUser)
	assert.ErrorIs(t, err, domain.ErrClinicNotFound)

	_, err = svc.Create(context.Background(), &CreateProposalInput{
		ClinicID: 3, TotalAmount: 100, Currency: "TRY",
	}, fieldUser)
	assert.ErrorIs(t, err, domain.ErrClinicInactive)
}

// ============================================================
// Visibility
// ============================================================

func TestProposalGetVisibility(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	t.Run("creator sees own", func(t *testing.T) {
		got, err := svc.GetByID(context.Background(), p.ID, fieldUser)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), p.ID, admin)
		assert.NoError(t, err)
	})

	t.Run("regional manager sees own region", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), p.ID, regionalOne)
		assert.NoError(t, err)
	})

	t.Run("out of scope reads report not found", func(t *testing.T) {
		// Another field user gets the same error as a nonexistent ID, so
		// probing IDs reveals nothing
		_, err := svc.GetByID(context.Background(), p.ID, otherField)
		assert.ErrorIs(t, err, domain.ErrProposalNotFound)

		_, err = svc.GetByID(context.Background(), 9999, otherField)
		assert.ErrorIs(t, err, domain.ErrProposalNotFound)
	})

	t.Run("regional manager blocked from other region", func(t *testing.T) {
		other := seed(repo, otherField.ID, clinicRegionTwo, domain.StatusPending, 500, time.Now())
		_, err := svc.GetByID(context.Background(), other.ID, regionalOne)
		assert.ErrorIs(t, err, domain.ErrProposalNotFound)
	})
}

func TestProposalGetFallsBackToDirectoryForRegion(t *testing.T) {
	svc, repo := newTestService()

	// The clinic relation is not resolved on this row; the region must come
	// from the directory lookup instead
	p := &models.Proposal{
		CreatorID:   fieldUser.ID,
		ClinicID:    clinicRegionOne.ID,
		Status:      string(domain.StatusPending),
		TotalAmount: 1000,
		Currency:    "TRY",
		CreatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), p))

	got, err := svc.GetByID(context.Background(), p.ID, regionalOne)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	// The fallback grants nothing extra: other regions stay invisible
	regionalTwo := domain.ActingUser{ID: 9, Role: domain.RoleRegionalManager, RegionID: uintPtr(2)}
	_, err = svc.GetByID(context.Background(), p.ID, regionalTwo)
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)

	// And transitions authorize against the same resolved region
	decided, err := svc.Approve(context.Background(), p.ID, regionalOne)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), decided.Status)
}

func TestProposalListScoping(t *testing.T) {
	svc, repo := newTestService()
	seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())
	seed(repo, fieldUser.ID, clinicRegionTwo, domain.StatusPending, 2000, time.Now())
	seed(repo, otherField.ID, clinicRegionOne, domain.StatusApproved, 3000, time.Now())

	adminList, err := svc.List(context.Background(), &ListProposalsInput{}, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), adminList.Total)

	fieldList, err := svc.List(context.Background(), &ListProposalsInput{}, fieldUser)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fieldList.Total)

	regionalList, err := svc.List(context.Background(), &ListProposalsInput{}, regionalOne)
	require.NoError(t, err)
	assert.Equal(t, int64(2), regionalList.Total)

	statusFiltered, err := svc.List(context.Background(), &ListProposalsInput{Status: "approved"}, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), statusFiltered.Total)

	_, err = svc.List(context.Background(), &ListProposalsInput{Status: "bogus"}, admin)
	_, ok := domain.AsValidation(err)
	assert.True(t, ok)
}

// ============================================================
// Update
// ============================================================

func TestProposalUpdate(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	got, err := svc.Update(context.Background(), p.ID, &UpdateProposalInput{
		TotalAmount: floatPtr(2500),
		Notes:       strPtr("revised"),
	}, fieldUser)

	require.NoError(t, err)
	assert.Equal(t, 2500.0, got.TotalAmount)
	assert.Equal(t, "revised", got.Notes)
}

func TestProposalUpdateZeroAmount(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	got, err := svc.Update(context.Background(), p.ID, &UpdateProposalInput{
		TotalAmount: floatPtr(0),
	}, fieldUser)

	require.NoError(t, err)
	assert.Equal(t, 0.0, got.TotalAmount)
}

func TestProposalUpdateNeverMovesClinic(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	// An edit touches amounts and notes only; the clinic binding, and with it
	// the proposal's region, survives any edit
	got, err := svc.Update(context.Background(), p.ID, &UpdateProposalInput{
		TotalAmount: floatPtr(9000),
		Notes:       strPtr("renegotiated"),
	}, manager)

	require.NoError(t, err)
	assert.Equal(t, clinicRegionOne.ID, got.ClinicID)
	assert.Equal(t, clinicRegionOne.ID, repo.proposals[p.ID].ClinicID)
}

func TestProposalUpdateLockedOutsidePending(t *testing.T) {
	svc, repo := newTestService()

	for _, status := range []domain.Status{
		domain.StatusApproved,
		domain.StatusRejected,
		domain.StatusExpired,
		domain.StatusContractReceived,
		domain.StatusInTransfer,
		domain.StatusDelivered,
	} {
		p := seed(repo, fieldUser.ID, clinicRegionOne, status, 1000, time.Now())
		_, err := svc.Update(context.Background(), p.ID, &UpdateProposalInput{
			Notes: strPtr("too late"),
		}, admin)
		assert.ErrorIs(t, err, domain.ErrProposalLocked, "status %s", status)
	}
}

func TestProposalUpdateAuthorization(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	// A regional manager can see proposals in their region but cannot edit
	// someone else's draft
	_, err := svc.Update(context.Background(), p.ID, &UpdateProposalInput{
		Notes: strPtr("nope"),
	}, regionalOne)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Manager can
	_, err = svc.Update(context.Background(), p.ID, &UpdateProposalInput{
		Notes: strPtr("manager edit"),
	}, manager)
	assert.NoError(t, err)
}

func TestProposalUpdateInvalidFields(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	_, err := svc.Update(context.Background(), p.ID, &UpdateProposalInput{
		TotalAmount: floatPtr(-1),
		Currency:    strPtr("ZZZ"),
	}, fieldUser)

	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"total_amount", "currency"}, ve.Fields)
}

// ============================================================
// Transition
// ============================================================

func TestProposalTransitionApprove(t *testing.T) {
	svc, repo := newTestService()
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	got, err := svc.Approve(context.Background(), p.ID, manager)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusApproved), got.Status)
	require.NotNil(t, got.DecidedBy)
	require.NotNil(t, got.DecidedAt)
	assert.Equal(t, manager.ID, *got.DecidedBy)
	assert.Equal(t, svc.now(), got.DecidedAt.UTC())
}

func TestProposalTransitionRejectByRegionalManager(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	got, err := svc.Reject(context.Background(), p.ID, regionalOne)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRejected), got.Status)
	assert.Equal(t, regionalOne.ID, *got.DecidedBy)
}

func TestProposalTransitionRegionalManagerWrongRegion(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, otherField.ID, clinicRegionTwo, domain.StatusPending, 1000, time.Now())

	// Region two is invisible to a region-one manager: not found, not
	// forbidden
	_, err := svc.Approve(context.Background(), p.ID, regionalOne)
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)
}

func TestProposalTransitionFieldUserForbidden(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	_, err := svc.Approve(context.Background(), p.ID, fieldUser)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProposalTransitionInvalidEdge(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusRejected, 1000, time.Now())

	_, err := svc.Transition(context.Background(), p.ID, &TransitionInput{Status: "approved"}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestProposalTransitionExpireByActorForbidden(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	_, err := svc.Transition(context.Background(), p.ID, &TransitionInput{Status: "expired"}, admin)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProposalTransitionFulfillmentChain(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusApproved, 1000, time.Now())

	for _, next := range []string{"contract_received", "in_transfer", "delivered"} {
		got, err := svc.Transition(context.Background(), p.ID, &TransitionInput{Status: next}, manager)
		require.NoError(t, err, "to %s", next)
		assert.Equal(t, next, got.Status)
		// Fulfillment never rewrites the decision stamp
		assert.Nil(t, got.DecidedBy)
	}
}

func TestProposalTransitionUnknownStatus(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	_, err := svc.Transition(context.Background(), p.ID, &TransitionInput{Status: "shipped"}, admin)
	_, ok := domain.AsValidation(err)
	assert.True(t, ok)
}

func TestProposalTransitionAfterDecisionIsInvalidEdge(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	_, err := svc.Approve(context.Background(), p.ID, manager)
	require.NoError(t, err)

	// A decision that arrives after the first one re-reads the row, so it
	// fails the edge check rather than the conditional write
	_, err = svc.Transition(context.Background(), p.ID, &TransitionInput{Status: "rejected"}, admin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestProposalTransitionConcurrentConflict(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	// A competing approval lands between this actor's read and write
	repo.afterGet = func() {
		repo.afterGet = nil
		repo.proposals[p.ID].Status = string(domain.StatusApproved)
	}

	_, err := svc.Reject(context.Background(), p.ID, manager)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ============================================================
// Expiry sweep
// ============================================================

func TestSweepExpired(t *testing.T) {
	svc, repo := newTestService()
	sweepTime := time.Date(2024, 6, 1, 2, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return sweepTime }

	stale := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, sweepTime.AddDate(0, 0, -31))
	fresh := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 2000, sweepTime.AddDate(0, 0, -5))
	decided := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusApproved, 3000, sweepTime.AddDate(0, 0, -60))

	expired, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	got := repo.proposals[stale.ID]
	assert.Equal(t, string(domain.StatusExpired), got.Status)
	assert.Nil(t, got.DecidedBy, "expiry must not attribute an actor")
	require.NotNil(t, got.DecidedAt)
	assert.Equal(t, sweepTime, *got.DecidedAt)

	assert.Equal(t, string(domain.StatusPending), repo.proposals[fresh.ID].Status)
	assert.Equal(t, string(domain.StatusApproved), repo.proposals[decided.ID].Status)
}

func TestSweepExpiredSkipsRacedDecision(t *testing.T) {
	svc, repo := newTestService()
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 2, 30, 0, 0, time.UTC) }

	stale := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	// A decision lands between the candidate listing and the write; the
	// sweep's conditional update misses and the row is left alone
	repo.afterList = func() {
		repo.afterList = nil
		repo.proposals[stale.ID].Status = string(domain.StatusApproved)
	}

	expired, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
	assert.Equal(t, string(domain.StatusApproved), repo.proposals[stale.ID].Status)
}

func TestSweepExpiredIdempotent(t *testing.T) {
	svc, repo := newTestService()
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 2, 30, 0, 0, time.UTC) }
	seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	first, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second)
}

// ============================================================
// Delete
// ============================================================

func TestProposalDelete(t *testing.T) {
	svc, repo := newTestService()
	p := seed(repo, fieldUser.ID, clinicRegionOne, domain.StatusPending, 1000, time.Now())

	assert.ErrorIs(t, svc.Delete(context.Background(), p.ID, manager), domain.ErrForbidden)
	assert.NoError(t, svc.Delete(context.Background(), p.ID, admin))
	assert.ErrorIs(t, svc.Delete(context.Background(), p.ID, admin), domain.ErrProposalNotFound)
}
