package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"skincare_schedule_service/internal/domain/schedule"
	"skincare_schedule_service/internal/domain/user"
	idb "skincare_schedule_service/internal/infra/database"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Custom application-level errors for the schedule service
var ErrInvalidMonth = fmt.Errorf("month must be between 0 (January) and 11 (December)")

// ScheduleService defines the user-facing schedule operations. Pull is the
// entry point that guarantees today's materialized schedule exists and
// returns the current month's rollup.
type ScheduleService interface {
	Pull(ctx context.Context, userID int64, now time.Time) (*schedule.MonthlySet, error)
	MonthlySet(ctx context.Context, userID int64, year, month int) (*schedule.MonthlySet, error)
	ToggleInstanceFulfilled(ctx context.Context, instanceID int64) (*schedule.Instance, error)
}

// ScheduleServiceImpl implements the ScheduleService interface.
type ScheduleServiceImpl struct {
	templates   schedule.TemplateRepository
	dailySets   schedule.DailySetRepository
	monthlySets schedule.MonthlySetRepository
	users       user.Directory
	logger      *logrus.Logger
	location    *time.Location
}

func NewScheduleServiceImpl(
	tr schedule.TemplateRepository,
	dr schedule.DailySetRepository,
	mr schedule.MonthlySetRepository,
	ud user.Directory,
	logger *logrus.Logger,
	location *time.Location,
) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{
		templates:   tr,
		dailySets:   dr,
		monthlySets: mr,
		users:       ud,
		logger:      logger,
		location:    location,
	}
}

// Pull ensures a daily schedule set exists for the user's current calendar
// day and returns the month's rollup with all attached days expanded.
//
// The day already being materialized is the absorbing state: once a daily set
// exists, repeated pulls read and never write, so N pulls for the same day
// create exactly one daily set and bump the month counter exactly once.
func (s *ScheduleServiceImpl) Pull(ctx context.Context, userID int64, now time.Time) (*schedule.MonthlySet, error) {
	today := schedule.Midnight(now.In(s.location))
	year, month := schedule.YearMonth(today)

	// The three initial fetches are independent; run them concurrently.
	var (
		daily    *schedule.DailySet
		monthly  *schedule.MonthlySet
		skinType sql.NullInt64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.dailySets.GetByUserAndDate(gctx, userID, today)
		if err != nil {
			if err == idb.ErrDailySetNotFound {
				return nil
			}
			return fmt.Errorf("failed to fetch daily schedule set: %w", err)
		}
		daily = d
		return nil
	})
	g.Go(func() error {
		m, err := s.monthlySets.GetExpanded(gctx, userID, year, month)
		if err != nil {
			if err == idb.ErrMonthlySetNotFound {
				return nil
			}
			return fmt.Errorf("failed to fetch monthly schedule set: %w", err)
		}
		monthly = m
		return nil
	})
	g.Go(func() error {
		st, err := s.users.SkinTypeID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to fetch user skin type: %w", err)
		}
		skinType = st
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if daily != nil {
		// Today was already materialized. Attaching during creation
		// guarantees the monthly rollup exists; a missing rollup means an
		// earlier pull was cut off between create and attach, so repair it.
		if monthly != nil {
			return monthly, nil
		}
		s.logger.WithFields(logrus.Fields{"user_id": userID, "daily_set_id": daily.ID}).
			Warn("daily schedule set exists without monthly rollup, re-attaching")
		if _, err := s.monthlySets.Attach(ctx, userID, year, month, daily.ID); err != nil {
			return nil, fmt.Errorf("failed to re-attach daily set %d: %w", daily.ID, err)
		}
		return s.monthlySets.GetExpanded(ctx, userID, year, month)
	}

	templates, err := s.templates.ListForDay(ctx, skinType, schedule.ISOWeekday(today))
	if err != nil {
		return nil, fmt.Errorf("failed to list templates for day: %w", err)
	}
	drafts := schedule.Materialize(userID, skinType, today, templates)

	created, err := s.dailySets.CreateWithInstances(ctx, userID, today, drafts)
	if err != nil {
		if err != idb.ErrDuplicateDailySet {
			return nil, fmt.Errorf("failed to create daily schedule set: %w", err)
		}
		// A concurrent pull won the creation race. The requested state (one
		// set exists for today) holds, so adopt the winner's set.
		s.logger.WithFields(logrus.Fields{"user_id": userID, "date": today.Format("2006-01-02")}).
			Info("lost daily set creation race, adopting existing set")
		created, err = s.dailySets.GetByUserAndDate(ctx, userID, today)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch winning daily schedule set: %w", err)
		}
	}

	// Attach is idempotent per daily set id, so calling it after losing the
	// race is safe and closes the window where the winner hasn't attached yet.
	if _, err := s.monthlySets.Attach(ctx, userID, year, month, created.ID); err != nil {
		return nil, fmt.Errorf("failed to attach daily set %d: %w", created.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":      userID,
		"date":         today.Format("2006-01-02"),
		"instances":    len(created.InstanceIDs),
		"daily_set_id": created.ID,
	}).Info("daily schedule materialized")

	return s.monthlySets.GetExpanded(ctx, userID, year, month)
}

// MonthlySet returns an existing month's rollup with its days expanded.
// Month is 0-based (January = 0).
func (s *ScheduleServiceImpl) MonthlySet(ctx context.Context, userID int64, year, month int) (*schedule.MonthlySet, error) {
	if month < 0 || month > 11 {
		return nil, ErrInvalidMonth
	}
	return s.monthlySets.GetExpanded(ctx, userID, year, month)
}

// ToggleInstanceFulfilled flips the fulfilled flag of one schedule instance.
// Monthly fulfilled-day counters are deliberately untouched: no transition
// for them is defined yet.
func (s *ScheduleServiceImpl) ToggleInstanceFulfilled(ctx context.Context, instanceID int64) (*schedule.Instance, error) {
	inst, err := s.dailySets.ToggleInstanceFulfilled(ctx, instanceID)
	if err != nil {
		if err == idb.ErrInstanceNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to toggle instance %d: %w", instanceID, err)
	}
	return inst, nil
}
