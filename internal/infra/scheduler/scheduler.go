package scheduler

import (
	"context"
	"time"

	"skincare_schedule_service/internal/app" // For ScheduleService interface
	"skincare_schedule_service/internal/domain/user"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const sweepTimeout = 5 * time.Minute

// DailyPullScheduler runs the pull path for every known user once a day, so
// schedules exist before the first client asks for them. Pull is idempotent,
// so the sweep and on-demand pulls can overlap freely.
type DailyPullScheduler struct {
	cronEngine *cron.Cron
	schedules  app.ScheduleService
	users      user.Directory
	logger     *logrus.Logger
	cronSpec   string
}

func NewDailyPullScheduler(
	schedules app.ScheduleService,
	users user.Directory,
	logger *logrus.Logger,
	cronSpec string, // e.g., "0 5 * * *" (05:00 daily)
	location *time.Location,
) *DailyPullScheduler {
	return &DailyPullScheduler{
		cronEngine: cron.New(cron.WithLocation(location)),
		schedules:  schedules,
		users:      users,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *DailyPullScheduler) Start() error {
	if _, err := s.cronEngine.AddFunc(s.cronSpec, s.sweep); err != nil {
		return err
	}
	s.cronEngine.Start()
	s.logger.Infof("Daily pull scheduler started with spec %q.", s.cronSpec)
	return nil
}

func (s *DailyPullScheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		s.logger.Errorf("Daily pull sweep could not list users: %v", err)
		return
	}

	now := time.Now()
	var failed int
	for _, id := range ids {
		if _, err := s.schedules.Pull(ctx, id, now); err != nil {
			failed++
			s.logger.WithFields(logrus.Fields{"user_id": id}).
				Errorf("Daily pull sweep failed for user: %v", err)
		}
	}
	s.logger.Infof("Daily pull sweep finished: %d users, %d failures.", len(ids), failed)
}

func (s *DailyPullScheduler) Stop() {
	ctx := s.cronEngine.Stop() // Waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Daily pull scheduler stopped.")
}
