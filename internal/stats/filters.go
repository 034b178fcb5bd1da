package stats

import (
	"crm-dashboard/internal/model"
	"crm-dashboard/pkg/utils"
)

// OpenFilter matches deals in the open/in-progress stage set.
func OpenFilter(d model.DealRecord) bool {
	return utils.CheckValueInArray(model.OpenStages, d.Stage())
}

// ClosedFilter matches fully closed deals.
func ClosedFilter(d model.DealRecord) bool {
	return d.Stage() == model.StageDealFullyClosed
}

// FundedFilter matches deals that have been funded at some point: funded,
// closed won, or fully closed.
func FundedFilter(d model.DealRecord) bool {
	switch d.Stage() {
	case model.StageFunded, model.StageClosedWon, model.StageDealFullyClosed:
		return true
	}
	return false
}

// NewDealFilter matches funded or closed-won deals that have an advance
// duration and no investor attached yet: the investable inventory.
func NewDealFilter(d model.DealRecord) bool {
	stage := d.Stage()
	if stage != model.StageFunded && stage != model.StageClosedWon {
		return false
	}
	return !d.Has(model.FieldInvestor1) && d.Has(model.FieldAdvanceDuration)
}

// FilterPredicate maps a deal-list filter name to its predicate. The "all"
// filter returns nil, which selects the unfiltered fast path.
func FilterPredicate(filter string) model.Predicate {
	switch filter {
	case model.FilterClosed:
		return ClosedFilter
	case model.FilterOpen:
		return OpenFilter
	default:
		return nil
	}
}
