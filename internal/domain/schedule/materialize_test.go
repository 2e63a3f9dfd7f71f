package schedule

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skinType(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}

func TestMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	in := time.Date(2024, 1, 3, 23, 59, 58, 123, loc)
	got := Midnight(in)

	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestISOWeekday(t *testing.T) {
	// 2024-01-01 is a Monday.
	testCases := []struct {
		day      int
		expected int
	}{
		{1, 1}, // Monday
		{3, 3}, // Wednesday
		{6, 6}, // Saturday
		{7, 7}, // Sunday
	}
	for _, tc := range testCases {
		got := ISOWeekday(time.Date(2024, 1, tc.day, 12, 0, 0, 0, time.UTC))
		assert.Equal(t, tc.expected, got, "2024-01-%02d", tc.day)
	}
}

func TestYearMonth(t *testing.T) {
	year, month := YearMonth(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2024, year)
	assert.Equal(t, 0, month, "January must map to 0")

	year, month = YearMonth(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2024, year)
	assert.Equal(t, 11, month)
}

func TestMaterializeSelectsByWeekday(t *testing.T) {
	templates := []*Template{
		{ID: 1, SkinTypeID: skinType(1), Period: PeriodMorning, DayOfWeek: 3, Text: "hydrating toner"},
		{ID: 2, SkinTypeID: skinType(1), Period: PeriodEvening, DayOfWeek: 4, Text: "clay mask"},
	}
	wednesday := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)

	drafts := Materialize(7, skinType(1), wednesday, templates)

	require.Len(t, drafts, 1)
	assert.Equal(t, PeriodMorning, drafts[0].Period)
	assert.Equal(t, "hydrating toner", drafts[0].Text)
	assert.Equal(t, int64(7), drafts[0].UserID)
	assert.Equal(t, Midnight(wednesday), drafts[0].Date)
	assert.False(t, drafts[0].Fulfilled)
	assert.Zero(t, drafts[0].ID, "drafts carry no id before persistence")
}

func TestMaterializeExactSkinTypeMatch(t *testing.T) {
	templates := []*Template{
		{ID: 1, SkinTypeID: skinType(1), Period: PeriodMorning, DayOfWeek: 3, Text: "for type 1"},
		{ID: 2, SkinTypeID: skinType(2), Period: PeriodMorning, DayOfWeek: 3, Text: "for type 2"},
		{ID: 3, SkinTypeID: sql.NullInt64{}, Period: PeriodNoon, DayOfWeek: 3, Text: "unscoped"},
	}
	wednesday := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	drafts := Materialize(7, skinType(1), wednesday, templates)
	require.Len(t, drafts, 1, "a typed user must not pick up the unscoped template")
	assert.Equal(t, "for type 1", drafts[0].Text)

	drafts = Materialize(7, sql.NullInt64{}, wednesday, templates)
	require.Len(t, drafts, 1, "an untyped user matches only unscoped templates")
	assert.Equal(t, "unscoped", drafts[0].Text)
}

func TestMaterializeKeepsTemplateOrder(t *testing.T) {
	templates := []*Template{
		{ID: 1, SkinTypeID: skinType(1), Period: PeriodMorning, DayOfWeek: 1, Text: "first"},
		{ID: 2, SkinTypeID: skinType(1), Period: PeriodNoon, DayOfWeek: 1, Text: "second"},
		{ID: 3, SkinTypeID: skinType(1), Period: PeriodEvening, DayOfWeek: 1, Text: "third"},
	}
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	drafts := Materialize(7, skinType(1), monday, templates)

	require.Len(t, drafts, 3)
	assert.Equal(t, "first", drafts[0].Text)
	assert.Equal(t, "second", drafts[1].Text)
	assert.Equal(t, "third", drafts[2].Text)
}

func TestMaterializeNoMatchesIsEmptyNotNil(t *testing.T) {
	templates := []*Template{
		{ID: 1, SkinTypeID: skinType(1), Period: PeriodMorning, DayOfWeek: 3, Text: "wednesday only"},
	}
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	drafts := Materialize(7, skinType(1), monday, templates)

	assert.NotNil(t, drafts)
	assert.Empty(t, drafts)
}
