package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// SchedulerService wraps cron-based jobs.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc)),
	}
}

// Schedule registers job under a standard cron spec or a descriptor such as
// "@every 1h".
func (s *SchedulerService) Schedule(spec string, job func()) (cron.EntryID, error) {
	return s.cron.AddFunc(spec, job)
}

// ScheduleRescore queues every owner for rescoring on spec.
func (s *SchedulerService) ScheduleRescore(spec string, rescorer *RescoreService) (cron.EntryID, error) {
	return s.Schedule(spec, func() {
		n, err := rescorer.EnqueueAll(context.Background())
		if err != nil {
			log.Error("scheduled rescore failed", "err", err)
			return
		}
		log.Debug("scheduled rescore queued owners", "owners", n)
	})
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
