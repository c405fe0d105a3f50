package income

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
)

func sampleSources() []model.IncomeSource {
	return []model.IncomeSource{
		{ID: 1, Name: "Salary", Amount: decimal.NewFromInt(3000), Frequency: model.FrequencyMonthly, StartDate: date(2024, 1, 31)},
		{ID: 4, Name: "Tutoring", Amount: decimal.NewFromInt(80), Frequency: model.FrequencyWeekly, StartDate: date(2025, 1, 6)},
	}
}

func TestAdd(t *testing.T) {
	src := model.IncomeSource{Name: " Rent from garage ", Amount: decimal.NewFromInt(150), Frequency: model.FrequencyMonthly, StartDate: date(2025, 2, 1)}

	got, added, err := Add(sampleSources(), src)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 5, added.ID)
	assert.Equal(t, "Rent from garage", added.Name)
	assert.Equal(t, added, got[2])

	_, first, err := Add(nil, src)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
}

func TestValidate(t *testing.T) {
	ok := model.IncomeSource{Name: "Salary", Amount: decimal.NewFromInt(10), Frequency: model.FrequencyWeekly, StartDate: date(2025, 1, 1)}
	require.NoError(t, Validate(ok))

	tests := []struct {
		name   string
		mutate func(*model.IncomeSource)
	}{
		{"no name", func(s *model.IncomeSource) { s.Name = " " }},
		{"zero amount", func(s *model.IncomeSource) { s.Amount = decimal.Zero }},
		{"negative amount", func(s *model.IncomeSource) { s.Amount = decimal.NewFromInt(-5) }},
		{"bad frequency", func(s *model.IncomeSource) { s.Frequency = "HOURLY" }},
		{"no start", func(s *model.IncomeSource) { s.StartDate = time.Time{} }},
		{"ends before start", func(s *model.IncomeSource) { s.EndDate = date(2024, 12, 31) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := ok
			tt.mutate(&src)
			assert.Error(t, Validate(src))
		})
	}
}

func TestMarkReceived(t *testing.T) {
	sources := sampleSources()
	now := date(2025, 3, 10)
	require.True(t, metrics.Overdue(sources[0], now), "no payment since January 2024")

	got, src, err := MarkReceived(sources, 1, date(2025, 2, 28))
	require.NoError(t, err)
	assert.Equal(t, date(2025, 2, 28), src.LastReceivedDate)
	assert.Equal(t, date(2025, 2, 28), got[0].LastReceivedDate)
	assert.True(t, sources[0].LastReceivedDate.IsZero(), "input is left untouched")

	next, ok, err := metrics.NextExpected(got[0])
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, date(2025, 3, 28), next)
	assert.False(t, metrics.Overdue(got[0], now))
}

func TestMarkReceived_Errors(t *testing.T) {
	_, _, err := MarkReceived(sampleSources(), 9, date(2025, 3, 1))
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = MarkReceived(sampleSources(), 4, date(2024, 12, 31))
	assert.ErrorContains(t, err, "before it starts")
}

func TestRemove(t *testing.T) {
	sources := sampleSources()

	got, removed, err := Remove(sources, 1)
	require.NoError(t, err)
	assert.Equal(t, "Salary", removed.Name)
	require.Len(t, got, 1)
	assert.Equal(t, "Tutoring", got[0].Name)
	assert.Len(t, sources, 2)
	assert.Equal(t, "Salary", sources[0].Name, "input is left untouched")

	_, _, err = Remove(got, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
