package stats

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"crm-dashboard/internal/model"
)

func TestComputeCommissionAdvanced(t *testing.T) {
	// Wednesday, so the week runs May 13 through May 19.
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC))

	deals := []model.DealRecord{
		// Funded inside the 30-day window and due this week.
		deal(model.DealRecord{
			model.FieldStage:       model.StageFunded,
			model.FieldFundedDate:  "2024-05-01",
			model.FieldDueDate:     "2024-05-14",
			model.FieldNetAdvance:  float64(1000),
			model.FieldContactName: map[string]interface{}{"name": "Dana Reyes"},
		}),
		// Funded before the 30-day window, due this week.
		deal(model.DealRecord{
			model.FieldStage:       model.StageDealFullyClosed,
			model.FieldFundedDate:  "2024-03-01",
			model.FieldDueDate:     "2024-05-19",
			model.FieldNetAdvance:  float64(400),
			model.FieldContactName: map[string]interface{}{"name": "Sam Ortiz"},
		}),
		// Due outside the current week.
		deal(model.DealRecord{
			model.FieldStage:      model.StageClosedWon,
			model.FieldFundedDate: "2024-05-10",
			model.FieldDueDate:    "2024-05-25",
			model.FieldNetAdvance: float64(250),
		}),
		// Never funded: ignored entirely.
		deal(model.DealRecord{
			model.FieldStage:      model.StageUnderwriting,
			model.FieldFundedDate: "2024-05-14",
			model.FieldDueDate:    "2024-05-14",
			model.FieldNetAdvance: float64(9999),
		}),
	}

	result := ComputeCommissionAdvanced(deals, clock)

	assert.Equal(t, float64(1250), result.Monthly.Amount)
	assert.Equal(t, time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC).UnixMilli(), result.Monthly.Timestamp)

	assert.Equal(t, float64(1400), result.Weekly.Amount)
	assert.Equal(t, time.Date(2024, time.May, 13, 0, 0, 0, 0, time.UTC).UnixMilli(), result.Weekly.Timestamp.First)
	assert.Equal(t, time.Date(2024, time.May, 19, 0, 0, 0, 0, time.UTC).UnixMilli(), result.Weekly.Timestamp.Last)
	assert.Equal(t, []string{"Dana Reyes", "Sam Ortiz"}, result.Weekly.AgentsArr)
	assert.Equal(t, "Dana Reyes, Sam Ortiz", result.Weekly.Agents)
}

func TestComputeCommissionAdvancedSundayWeek(t *testing.T) {
	// On a Sunday the week still starts the previous Monday.
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.May, 19, 9, 0, 0, 0, time.UTC))

	result := ComputeCommissionAdvanced(nil, clock)
	assert.Equal(t, time.Date(2024, time.May, 13, 0, 0, 0, 0, time.UTC).UnixMilli(), result.Weekly.Timestamp.First)
	assert.Equal(t, time.Date(2024, time.May, 19, 0, 0, 0, 0, time.UTC).UnixMilli(), result.Weekly.Timestamp.Last)
	assert.Zero(t, result.Monthly.Amount)
	assert.Empty(t, result.Weekly.AgentsArr)
}

func TestParseCRMTime(t *testing.T) {
	got, ok := parseCRMTime("2024-05-15")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC), got)

	_, ok = parseCRMTime("2024-05-15T10:30:00-04:00")
	assert.True(t, ok)

	_, ok = parseCRMTime("")
	assert.False(t, ok)

	_, ok = parseCRMTime("not a date")
	assert.False(t, ok)
}
