package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"skincare_schedule_service/internal/domain/schedule"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for template authoring
var ErrInvalidPeriod = fmt.Errorf("period must be one of MORNING, NOON, EVENING")
var ErrInvalidDayOfWeek = fmt.Errorf("day of week must be between 1 (Monday) and 7 (Sunday)")
var ErrEmptyTemplateText = fmt.Errorf("template text must not be empty")

// TemplateService defines the admin-facing template authoring operations.
type TemplateService interface {
	CreateTemplate(ctx context.Context, input CreateTemplateInput) (*schedule.Template, error)
	ListTemplates(ctx context.Context, filter schedule.TemplateFilter) ([]*schedule.Template, error)
}

// CreateTemplateInput carries a new template. A nil SkinTypeID scopes the
// template to users without a skin type.
type CreateTemplateInput struct {
	SkinTypeID *int64
	Period     string
	DayOfWeek  int
	Text       string
}

// TemplateServiceImpl implements the TemplateService interface.
type TemplateServiceImpl struct {
	templates schedule.TemplateRepository
	logger    *logrus.Logger
}

func NewTemplateServiceImpl(tr schedule.TemplateRepository, logger *logrus.Logger) *TemplateServiceImpl {
	return &TemplateServiceImpl{templates: tr, logger: logger}
}

func (s *TemplateServiceImpl) CreateTemplate(ctx context.Context, input CreateTemplateInput) (*schedule.Template, error) {
	period := schedule.Period(strings.ToUpper(strings.TrimSpace(input.Period)))
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}
	if input.DayOfWeek < 1 || input.DayOfWeek > 7 {
		return nil, ErrInvalidDayOfWeek
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrEmptyTemplateText
	}

	var skinTypeID sql.NullInt64
	if input.SkinTypeID != nil {
		skinTypeID.Int64 = *input.SkinTypeID
		skinTypeID.Valid = true
	}

	template := &schedule.Template{
		SkinTypeID: skinTypeID,
		Period:     period,
		DayOfWeek:  input.DayOfWeek,
		Text:       text,
	}
	if err := s.templates.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template in repository: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"template_id": template.ID,
		"period":      template.Period,
		"day_of_week": template.DayOfWeek,
	}).Info("schedule template created")

	return template, nil
}

func (s *TemplateServiceImpl) ListTemplates(ctx context.Context, filter schedule.TemplateFilter) ([]*schedule.Template, error) {
	templates, err := s.templates.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}
