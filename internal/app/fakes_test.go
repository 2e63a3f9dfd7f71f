package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"skincare_schedule_service/internal/domain/schedule"
	idb "skincare_schedule_service/internal/infra/database"
)

// In-memory repository fakes honoring the same contracts as the Postgres
// implementations: sentinel errors, duplicate-key refusal on daily sets, and
// the idempotent atomic attach on monthly sets.

type fakeTemplateRepo struct {
	mu        sync.Mutex
	nextID    int64
	templates []*schedule.Template
}

func (r *fakeTemplateRepo) Create(_ context.Context, t *schedule.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	copied := *t
	r.templates = append(r.templates, &copied)
	return nil
}

func (r *fakeTemplateRepo) List(_ context.Context, filter schedule.TemplateFilter) ([]*schedule.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*schedule.Template, 0)
	for _, t := range r.templates {
		if filter.Period != "" && t.Period != filter.Period {
			continue
		}
		if filter.SkinTypeID != nil && (!t.SkinTypeID.Valid || t.SkinTypeID.Int64 != *filter.SkinTypeID) {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeTemplateRepo) ListForDay(_ context.Context, skinTypeID sql.NullInt64, dayOfWeek int) ([]*schedule.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*schedule.Template, 0)
	for _, t := range r.templates {
		if t.DayOfWeek != dayOfWeek {
			continue
		}
		if t.SkinTypeID.Valid != skinTypeID.Valid {
			continue
		}
		if t.SkinTypeID.Valid && t.SkinTypeID.Int64 != skinTypeID.Int64 {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func dayKey(userID int64, date time.Time) string {
	return fmt.Sprintf("%d|%s", userID, schedule.Midnight(date).Format("2006-01-02"))
}

type fakeDailySetRepo struct {
	mu     sync.Mutex
	nextID int64
	sets   map[string]*schedule.DailySet
}

func newFakeDailySetRepo() *fakeDailySetRepo {
	return &fakeDailySetRepo{sets: make(map[string]*schedule.DailySet)}
}

func copyDailySet(set *schedule.DailySet) *schedule.DailySet {
	copied := *set
	copied.InstanceIDs = append([]int64(nil), set.InstanceIDs...)
	copied.Instances = make([]*schedule.Instance, 0, len(set.Instances))
	for _, inst := range set.Instances {
		instCopy := *inst
		copied.Instances = append(copied.Instances, &instCopy)
	}
	return &copied
}

func (r *fakeDailySetRepo) GetByUserAndDate(_ context.Context, userID int64, date time.Time) (*schedule.DailySet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[dayKey(userID, date)]
	if !ok {
		return nil, idb.ErrDailySetNotFound
	}
	return copyDailySet(set), nil
}

func (r *fakeDailySetRepo) CreateWithInstances(_ context.Context, userID int64, date time.Time, drafts []*schedule.Instance) (*schedule.DailySet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := dayKey(userID, date)
	if _, ok := r.sets[key]; ok {
		return nil, idb.ErrDuplicateDailySet
	}
	date = schedule.Midnight(date)
	ids := make([]int64, 0, len(drafts))
	instances := make([]*schedule.Instance, 0, len(drafts))
	for _, draft := range drafts {
		r.nextID++
		stored := *draft
		stored.ID = r.nextID
		stored.UserID = userID
		stored.Date = date
		stored.CreatedAt = time.Now()
		ids = append(ids, stored.ID)
		instances = append(instances, &stored)
	}
	r.nextID++
	set := &schedule.DailySet{
		ID:          r.nextID,
		UserID:      userID,
		Date:        date,
		InstanceIDs: ids,
		Instances:   instances,
		CreatedAt:   time.Now(),
	}
	r.sets[key] = set
	return copyDailySet(set), nil
}

func (r *fakeDailySetRepo) ToggleInstanceFulfilled(_ context.Context, instanceID int64) (*schedule.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, set := range r.sets {
		for _, inst := range set.Instances {
			if inst.ID == instanceID {
				inst.Fulfilled = !inst.Fulfilled
				copied := *inst
				return &copied, nil
			}
		}
	}
	return nil, idb.ErrInstanceNotFound
}

func monthKey(userID int64, year, month int) string {
	return fmt.Sprintf("%d|%d|%d", userID, year, month)
}

type fakeMonthlySetRepo struct {
	mu     sync.Mutex
	nextID int64
	sets   map[string]*schedule.MonthlySet
	daily  *fakeDailySetRepo
}

func newFakeMonthlySetRepo(daily *fakeDailySetRepo) *fakeMonthlySetRepo {
	return &fakeMonthlySetRepo{sets: make(map[string]*schedule.MonthlySet), daily: daily}
}

func copyMonthlySet(set *schedule.MonthlySet) *schedule.MonthlySet {
	copied := *set
	copied.DailySetIDs = append([]int64(nil), set.DailySetIDs...)
	copied.Days = nil
	return &copied
}

func (r *fakeMonthlySetRepo) Get(_ context.Context, userID int64, year, month int) (*schedule.MonthlySet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[monthKey(userID, year, month)]
	if !ok {
		return nil, idb.ErrMonthlySetNotFound
	}
	return copyMonthlySet(set), nil
}

func (r *fakeMonthlySetRepo) GetExpanded(ctx context.Context, userID int64, year, month int) (*schedule.MonthlySet, error) {
	set, err := r.Get(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	r.daily.mu.Lock()
	defer r.daily.mu.Unlock()
	byID := make(map[int64]*schedule.DailySet)
	for _, d := range r.daily.sets {
		byID[d.ID] = d
	}
	for _, id := range set.DailySetIDs {
		if d, ok := byID[id]; ok {
			set.Days = append(set.Days, copyDailySet(d))
		}
	}
	return set, nil
}

func (r *fakeMonthlySetRepo) Attach(_ context.Context, userID int64, year, month int, dailySetID int64) (*schedule.MonthlySet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := monthKey(userID, year, month)
	set, ok := r.sets[key]
	if !ok {
		r.nextID++
		set = &schedule.MonthlySet{
			ID:             r.nextID,
			UserID:         userID,
			Year:           year,
			Month:          month,
			DayEntireCount: 1,
			DailySetIDs:    []int64{dailySetID},
			CreatedAt:      time.Now(),
		}
		r.sets[key] = set
		return copyMonthlySet(set), nil
	}
	attached := false
	for _, id := range set.DailySetIDs {
		if id == dailySetID {
			attached = true
			break
		}
	}
	if !attached {
		set.DailySetIDs = append(set.DailySetIDs, dailySetID)
		set.DayEntireCount++
	}
	return copyMonthlySet(set), nil
}

type fakeDirectory struct {
	mu        sync.Mutex
	skinTypes map[int64]sql.NullInt64
}

func (d *fakeDirectory) SkinTypeID(_ context.Context, userID int64) (sql.NullInt64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.skinTypes[userID]
	if !ok {
		return sql.NullInt64{}, idb.ErrUserNotFound
	}
	return st, nil
}

func (d *fakeDirectory) ListIDs(_ context.Context) ([]int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]int64, 0, len(d.skinTypes))
	for id := range d.skinTypes {
		ids = append(ids, id)
	}
	return ids, nil
}
