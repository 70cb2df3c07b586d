package services

import (
	"context"
	"time"

	"clinicsales/internal/adapters/persistence/repositories"
	"clinicsales/internal/core/domain"
)

// ReportService handles scoped proposal aggregates
type ReportService struct {
	proposalRepo repositories.ProposalRepository
}

// NewReportService creates a new report service
func NewReportService(proposalRepo repositories.ProposalRepository) *ReportService {
	return &ReportService{proposalRepo: proposalRepo}
}

// StatusSummary is one status bucket of the dashboard summary
type StatusSummary struct {
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// SummaryData represents the dashboard summary. Every status bucket is always
// present so consumers never branch on missing keys.
type SummaryData struct {
	Statuses       map[string]StatusSummary `json:"statuses"`
	TotalProposals int64                    `json:"total_proposals"`
	TotalAmount    float64                  `json:"total_amount"`
	ApprovedAmount float64                  `json:"approved_amount"`
	From           *time.Time               `json:"from,omitempty"`
	To             *time.Time               `json:"to,omitempty"`
}

// GetSummary aggregates proposal counts and amounts per status inside the
// window, under the same visibility scope as the list endpoint. A user's
// summary therefore always totals exactly what their list shows.
func (s *ReportService) GetSummary(ctx context.Context, actor domain.ActingUser, from, to *time.Time) (*SummaryData, error) {
	scope := domain.ScopeFor(actor)

	tallies, err := s.proposalRepo.Tally(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}

	data := &SummaryData{
		Statuses: make(map[string]StatusSummary, len(domain.AllStatuses)),
		From:     from,
		To:       to,
	}

	// Zero buckets first so absent statuses still appear
	for _, status := range domain.AllStatuses {
		data.Statuses[string(status)] = StatusSummary{}
	}

	for _, t := range tallies {
		if !domain.ValidStatus(domain.Status(t.Status)) {
			continue
		}
		data.Statuses[t.Status] = StatusSummary{
			Count:       t.Count,
			TotalAmount: t.Sum,
		}
		data.TotalProposals += t.Count
		data.TotalAmount += t.Sum
		if t.Status == string(domain.StatusApproved) {
			data.ApprovedAmount += t.Sum
		}
	}

	return data, nil
}
