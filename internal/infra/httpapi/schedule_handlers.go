package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"skincare_schedule_service/internal/app"
	"skincare_schedule_service/internal/domain/schedule"
	idb "skincare_schedule_service/internal/infra/database"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type ScheduleHandler struct {
	Schedules app.ScheduleService
	Templates app.TemplateService
	Logger    *logrus.Logger
}

// Pull materializes today's schedule for the user if needed and returns the
// current month's rollup.
func (h *ScheduleHandler) Pull(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}

	monthly, err := h.Schedules.Pull(r.Context(), userID, time.Now())
	if err != nil {
		if errors.Is(err, idb.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorf("pull schedule failed for user %d: %v", userID, err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result":             "success",
		"monthlyscheduleset": monthlySetDTO(monthly),
	})
}

// Monthly returns an existing month's rollup. Month is 0-based (January = 0).
func (h *ScheduleHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := strconv.ParseInt(q.Get("user"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return
	}

	monthly, err := h.Schedules.MonthlySet(r.Context(), userID, year, month)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidMonth):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, idb.ErrMonthlySetNotFound):
			http.Error(w, "monthly schedule set not found", http.StatusNotFound)
		default:
			h.Logger.Errorf("monthly lookup failed for user %d: %v", userID, err)
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result":             "success",
		"monthlyscheduleset": monthlySetDTO(monthly),
	})
}

type createTemplateReq struct {
	SkinTypeID *int64 `json:"skin_type_id"`
	Period     string `json:"period"`
	DayOfWeek  int    `json:"day_of_week"`
	Text       string `json:"text"`
}

func (h *ScheduleHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	template, err := h.Templates.CreateTemplate(r.Context(), app.CreateTemplateInput{
		SkinTypeID: req.SkinTypeID,
		Period:     req.Period,
		DayOfWeek:  req.DayOfWeek,
		Text:       req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidPeriod), errors.Is(err, app.ErrInvalidDayOfWeek), errors.Is(err, app.ErrEmptyTemplateText):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.Logger.Errorf("create template failed: %v", err)
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"result":       "success",
		"poolschedule": templateDTO(template),
	})
}

func (h *ScheduleHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := schedule.TemplateFilter{}
	if p := strings.TrimSpace(q.Get("period")); p != "" {
		filter.Period = schedule.Period(strings.ToUpper(p))
	}
	if st := strings.TrimSpace(q.Get("skintype")); st != "" {
		id, err := strconv.ParseInt(st, 10, 64)
		if err != nil {
			http.Error(w, "invalid skintype", http.StatusBadRequest)
			return
		}
		filter.SkinTypeID = &id
	}

	templates, err := h.Templates.ListTemplates(r.Context(), filter)
	if err != nil {
		h.Logger.Errorf("list templates failed: %v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	dtos := make([]map[string]any, 0, len(templates))
	for _, t := range templates {
		dtos = append(dtos, templateDTO(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result":        "success",
		"poolschedules": dtos,
	})
}

func (h *ScheduleHandler) ToggleFulfilled(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inst, err := h.Schedules.ToggleInstanceFulfilled(r.Context(), id)
	if err != nil {
		if errors.Is(err, idb.ErrInstanceNotFound) {
			http.Error(w, "schedule instance not found", http.StatusNotFound)
			return
		}
		h.Logger.Errorf("toggle fulfilled failed for instance %d: %v", id, err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result":   "success",
		"schedule": instanceDTO(inst),
	})
}

// --- JSON shaping ---

func templateDTO(t *schedule.Template) map[string]any {
	var skinTypeID *int64
	if t.SkinTypeID.Valid {
		v := t.SkinTypeID.Int64
		skinTypeID = &v
	}
	return map[string]any{
		"id":           t.ID,
		"skin_type_id": skinTypeID,
		"period":       t.Period,
		"day_of_week":  t.DayOfWeek,
		"text":         t.Text,
	}
}

func instanceDTO(inst *schedule.Instance) map[string]any {
	return map[string]any{
		"id":        inst.ID,
		"user_id":   inst.UserID,
		"period":    inst.Period,
		"date":      inst.Date.Format(dateLayout),
		"text":      inst.Text,
		"fulfilled": inst.Fulfilled,
	}
}

func dailySetDTO(set *schedule.DailySet) map[string]any {
	instances := make([]map[string]any, 0, len(set.Instances))
	for _, inst := range set.Instances {
		instances = append(instances, instanceDTO(inst))
	}
	return map[string]any{
		"id":        set.ID,
		"user_id":   set.UserID,
		"date":      set.Date.Format(dateLayout),
		"schedules": instances,
	}
}

func monthlySetDTO(set *schedule.MonthlySet) map[string]any {
	days := make([]map[string]any, 0, len(set.Days))
	for _, d := range set.Days {
		days = append(days, dailySetDTO(d))
	}
	return map[string]any{
		"id":            set.ID,
		"user_id":       set.UserID,
		"year":          set.Year,
		"month":         set.Month, // 0-based, January = 0
		"day_entire":    set.DayEntireCount,
		"day_fulfilled": set.DayFulfilledCount,
		"schedules":     days,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
