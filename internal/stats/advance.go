package stats

import (
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"crm-dashboard/internal/model"
	"crm-dashboard/pkg/utils"
)

// MonthlyAdvance is the rolling 30-day advance total. Timestamp is the
// window's opening instant in epoch milliseconds.
type MonthlyAdvance struct {
	Timestamp int64   `json:"timestamp"`
	Amount    float64 `json:"amount"`
}

// WeekSpan is the Monday and Sunday of the current week, epoch milliseconds.
type WeekSpan struct {
	First int64 `json:"first"`
	Last  int64 `json:"last"`
}

// WeeklyAdvance is the current-week advance total with the agents whose
// deals contributed.
type WeeklyAdvance struct {
	Timestamp WeekSpan `json:"timestamp"`
	Amount    float64  `json:"amount"`
	Agents    string   `json:"agents"`
	AgentsArr []string `json:"agentsArr"`
}

// CommissionAdvanced buckets net advances into a rolling 30-day window (by
// funded date) and the Monday-through-Sunday span of the current week (by
// due date).
type CommissionAdvanced struct {
	Monthly MonthlyAdvance `json:"monthly"`
	Weekly  WeeklyAdvance  `json:"weekly"`
}

// ComputeCommissionAdvanced computes both advance windows relative to the
// clock's current time. The week starts Monday at midnight; both window
// boundaries depend on "now", so callers that need reproducible output must
// pass a fixed clock.
func ComputeCommissionAdvanced(deals []model.DealRecord, clock clockwork.Clock) CommissionAdvanced {
	now := clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	past30Days := today.AddDate(0, 0, -30)

	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := today.AddDate(0, 0, -(weekday - 1))
	sunday := monday.AddDate(0, 0, 6)

	result := CommissionAdvanced{
		Monthly: MonthlyAdvance{Timestamp: past30Days.UnixMilli()},
		Weekly: WeeklyAdvance{
			Timestamp: WeekSpan{First: monday.UnixMilli(), Last: sunday.UnixMilli()},
		},
	}

	for _, deal := range deals {
		if !FundedFilter(deal) {
			continue
		}

		if deal.Has(model.FieldFundedDate) {
			if fundedAt, ok := parseCRMTime(deal.Str(model.FieldFundedDate)); ok && !fundedAt.Before(past30Days) {
				result.Monthly.Amount += utils.Numeric(deal[model.FieldNetAdvance])
			}
		}

		if deal.Has(model.FieldDueDate) {
			dueAt, ok := parseCRMTime(deal.Str(model.FieldDueDate))
			if ok && !dueAt.Before(monday) && !dueAt.After(sunday) {
				result.Weekly.Amount += utils.Numeric(deal[model.FieldNetAdvance])
				if name := contactName(deal); name != "" {
					result.Weekly.AgentsArr = append(result.Weekly.AgentsArr, name)
				}
			}
		}
	}

	result.Weekly.Agents = strings.Join(result.Weekly.AgentsArr, ", ")
	return result
}

// parseCRMTime accepts the CRM's two date renderings: a bare date or a
// full timestamp with offset.
func parseCRMTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// contactName digs the display name out of the CRM's contact reference.
func contactName(deal model.DealRecord) string {
	contact, ok := deal[model.FieldContactName].(map[string]interface{})
	if !ok {
		return ""
	}
	name, _ := contact["name"].(string)
	return name
}
