package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ExpiryService runs the scheduled sweep that expires stale pending
// proposals. It owns the cron runner; the sweep itself lives in
// ProposalService so it stays callable from tests and an admin endpoint.
type ExpiryService struct {
	proposalService *ProposalService
	cronSpec        string
	runner          *cron.Cron
}

// NewExpiryService creates a new expiry service
func NewExpiryService(proposalService *ProposalService, cronSpec string) *ExpiryService {
	return &ExpiryService{
		proposalService: proposalService,
		cronSpec:        cronSpec,
		runner:          cron.New(),
	}
}

// Start schedules the nightly sweep
func (s *ExpiryService) Start() error {
	_, err := s.runner.AddFunc(s.cronSpec, s.runSweep)
	if err != nil {
		return err
	}

	s.runner.Start()
	log.Printf("🚀 ExpiryService started [schedule: %s]", s.cronSpec)
	return nil
}

// Stop stops the cron runner and waits for a running sweep to finish
func (s *ExpiryService) Stop() {
	ctx := s.runner.Stop()
	<-ctx.Done()
	log.Println("🛑 ExpiryService stopped")
}

// RunNow triggers a sweep outside the schedule (admin endpoint)
func (s *ExpiryService) RunNow(ctx context.Context) (int, error) {
	return s.proposalService.SweepExpired(ctx)
}

func (s *ExpiryService) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	expired, err := s.proposalService.SweepExpired(ctx)
	if err != nil {
		log.Printf("⚠️ Expiry sweep failed: %v", err)
		return
	}

	log.Printf("✅ Expiry sweep completed: %d proposals expired in %s", expired, time.Since(start).Round(time.Millisecond))
}
