package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/franchise-portal/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ProposalExpirer closes invites whose expiry has passed
type ProposalExpirer interface {
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// ProposalScheduler runs the proposal expiry job
type ProposalScheduler struct {
	cron     *cron.Cron
	expirer  ProposalExpirer
	schedule string
	timeout  time.Duration
}

func NewProposalScheduler(expirer ProposalExpirer, schedule string) *ProposalScheduler {
	return &ProposalScheduler{
		cron:     cron.New(),
		expirer:  expirer,
		schedule: schedule,
		timeout:  5 * time.Minute,
	}
}

// Start registers the job and starts the cron loop
func (s *ProposalScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.RunOnce)
	if err != nil {
		logger.Error("Failed to add cron job for proposal expiry", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Proposal expiry scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce expires stale proposals now
func (s *ProposalScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	logger.Info("Starting scheduled proposal expiry", nil)
	n, err := s.expirer.ExpireStale(ctx, time.Now())
	if err != nil {
		logger.Error("Failed to expire proposals from scheduler", err)
		return
	}
	logger.Info("Proposal expiry finished", map[string]interface{}{
		"expired": n,
	})
}

// Stop waits for a running job to finish
func (s *ProposalScheduler) Stop() {
	logger.Info("Stopping proposal scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Proposal scheduler stopped", nil)
}
