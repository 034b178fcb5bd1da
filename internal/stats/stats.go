// Package stats holds the dashboard's aggregate reducers. Every reducer is
// a single linear pass over a fully materialized deal collection; absent
// numeric fields count as zero and absent relational fields as unset, so no
// reducer ever fails on a sparse record.
package stats

import (
	"strings"

	"crm-dashboard/internal/model"
	"crm-dashboard/pkg/utils"
)

// Pending-action messages shown on the dashboard.
const (
	actionReviewEmailMsg   = "Please review your email for final agreement document for"
	actionReviewDocPageMsg = "Please review document page to see the required doc."
)

// Count wraps a bare counter for the JSON shapes the dashboard expects.
type Count struct {
	Count int `json:"count"`
}

// DealCounts is the open/closed/total breakdown for one subject.
type DealCounts struct {
	OpenDeals   Count `json:"openDeals"`
	ClosedDeals Count `json:"closedDeals"`
	Total       Count `json:"total"`
}

// CountDeals classifies each deal's stage into exactly one bucket: fully
// closed, open/in-progress, or neither. Total counts every deal.
func CountDeals(deals []model.DealRecord) DealCounts {
	var counts DealCounts
	for _, deal := range deals {
		if ClosedFilter(deal) {
			counts.ClosedDeals.Count++
		} else if OpenFilter(deal) {
			counts.OpenDeals.Count++
		}
		counts.Total.Count++
	}
	return counts
}

// BrokerDealCounts is the broker dashboard breakdown: existing deals
// include both open and closed, anything else is other.
type BrokerDealCounts struct {
	ExistingDeals Count `json:"existingDeals"`
	ClosedDeals   Count `json:"closedDeals"`
	OtherDeals    Count `json:"otherDeals"`
}

// CountBrokerDeals computes the broker stage breakdown.
func CountBrokerDeals(deals []model.DealRecord) BrokerDealCounts {
	var counts BrokerDealCounts
	for _, deal := range deals {
		if ClosedFilter(deal) {
			counts.ClosedDeals.Count++
			counts.ExistingDeals.Count++
		} else if OpenFilter(deal) {
			counts.ExistingDeals.Count++
		} else {
			counts.OtherDeals.Count++
		}
	}
	return counts
}

// Amount is a money total with a display rendering.
type Amount struct {
	Amount       string  `json:"amount"`
	AmountNumber float64 `json:"amountNumber"`
}

// Commissions is the advanced-commission summary for a subject.
type Commissions struct {
	TotalAdvanced Amount `json:"total_commission_advanced"`
	OpenAdvanced  Amount `json:"open_commission_advanced"`
}

// ComputeCommissions sums the advance contribution over deals carrying a
// funded date. Total advanced covers funded and fully closed deals; open
// advanced covers funded deals only.
func ComputeCommissions(deals []model.DealRecord) Commissions {
	var c Commissions
	for _, deal := range deals {
		if !deal.Has(model.FieldFundedDate) {
			continue
		}
		amount := utils.Numeric(deal[model.FieldContribution])
		stage := deal.Stage()
		if stage == model.StageFunded || stage == model.StageDealFullyClosed {
			c.TotalAdvanced.AmountNumber += amount
		}
		if stage == model.StageFunded {
			c.OpenAdvanced.AmountNumber += amount
		}
	}
	c.TotalAdvanced.Amount = utils.NumberWithCommas(c.TotalAdvanced.AmountNumber)
	c.OpenAdvanced.Amount = utils.NumberWithCommas(c.OpenAdvanced.AmountNumber)
	return c
}

// ReviewEmailAction flags deals awaiting a final-agreement email review.
type ReviewEmailAction struct {
	Count             int      `json:"count"`
	Message           string   `json:"message"`
	PropertyAddress   string   `json:"propertyAddress"`
	PropertyAddresses []string `json:"propertyAddresses"`
}

// ReviewDocAction flags deals with a supporting doc still awaiting upload.
type ReviewDocAction struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// Actions is the pending-action summary for a subject.
type Actions struct {
	ReviewEmail   ReviewEmailAction `json:"actionReviewEmail"`
	ReviewDocPage ReviewDocAction   `json:"actionReviewDocPage"`
}

// CountActions scans for pending actions: approved deals needing an email
// review (with their property addresses collected) and deals where either
// supporting-doc status is still awaiting upload. The second return is the
// total number of supporting-doc slots in use, cached as the docs total.
func CountActions(deals []model.DealRecord) (Actions, int) {
	actions := Actions{
		ReviewEmail:   ReviewEmailAction{Message: actionReviewEmailMsg},
		ReviewDocPage: ReviewDocAction{Message: actionReviewDocPageMsg},
	}
	docsCount := 0

	for _, deal := range deals {
		if deal.Has(model.FieldDoc1Type) {
			docsCount++
		}
		if deal.Has(model.FieldDoc2Type) {
			docsCount++
		}

		if deal.Stage() == model.StageApproved {
			actions.ReviewEmail.PropertyAddresses = append(
				actions.ReviewEmail.PropertyAddresses, deal.Str(model.FieldPropertyAddress))
			actions.ReviewEmail.Count++
		}

		doc1Awaiting := deal.Has(model.FieldDoc1Type) && deal.Str(model.FieldDoc1Status) == model.DocStatusAwaiting
		doc2Awaiting := deal.Has(model.FieldDoc2Type) && deal.Str(model.FieldDoc2Status) == model.DocStatusAwaiting
		if doc1Awaiting || doc2Awaiting {
			actions.ReviewDocPage.Count++
		}
	}

	actions.ReviewEmail.PropertyAddress = strings.Join(actions.ReviewEmail.PropertyAddresses, ", ")
	return actions, docsCount
}

// CountAmount pairs a counter with a money total.
type CountAmount struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// InvestorStats is the investor dashboard summary.
type InvestorStats struct {
	ClosedDeals              CountAmount `json:"closedDeals"`
	FundedDealsAndProjection CountAmount `json:"fundedDealsAndProjection"`
	InvestorIncome           struct {
		Amount float64 `json:"amount"`
	} `json:"investorIncome"`
}

// ComputeInvestorStats sums investor income over funded-date deals and
// additionally returns the fully-closed and ever-funded deal counts, which
// back the funded-deals listing totals.
func ComputeInvestorStats(deals []model.DealRecord) (InvestorStats, int, int) {
	var s InvestorStats
	fullyClosed := 0
	funded := 0

	for _, deal := range deals {
		stage := deal.Stage()
		if stage == model.StageDealFullyClosed {
			fullyClosed++
		}
		if FundedFilter(deal) {
			funded++
		}

		if !deal.Has(model.FieldFundedDate) {
			continue
		}
		income := utils.Numeric(deal[model.FieldInvestorIncome])
		if stage == model.StageFunded || stage == model.StageClosedWon {
			s.FundedDealsAndProjection.Count++
			s.FundedDealsAndProjection.Amount += income
		}
		if FundedFilter(deal) {
			s.InvestorIncome.Amount += income
		}
		if stage == model.StageDealFullyClosed {
			s.ClosedDeals.Count++
			s.ClosedDeals.Amount += income
		}
	}
	return s, fullyClosed, funded
}

// CountNewDeals counts the investable inventory across all subjects.
func CountNewDeals(deals []model.DealRecord) Count {
	count := Count{}
	for _, deal := range deals {
		if NewDealFilter(deal) {
			count.Count++
		}
	}
	return count
}

// ReferralStats is the referral partner summary. Commission is a flat $100
// per deal.
type ReferralStats struct {
	TotalCommission   CountAmount `json:"totalCommission"`
	PendingCommission CountAmount `json:"pendingCommission"`
	ReferralDeals     Count       `json:"referralDeals"`
}

// ComputeReferralStats counts closed deals toward earned commission and
// funded or closed-won deals toward pending commission.
func ComputeReferralStats(deals []model.DealRecord) ReferralStats {
	var s ReferralStats
	for _, deal := range deals {
		switch deal.Stage() {
		case model.StageDealFullyClosed:
			s.TotalCommission.Count++
		case model.StageFunded, model.StageClosedWon:
			s.PendingCommission.Count++
		}
	}
	s.TotalCommission.Amount = float64(s.TotalCommission.Count * 100)
	s.PendingCommission.Amount = float64(s.PendingCommission.Count * 100)
	s.ReferralDeals.Count = s.TotalCommission.Count + s.PendingCommission.Count
	return s
}

// DocEntry is one supporting-doc slot flattened out of a deal.
type DocEntry struct {
	Status          string `json:"Supporting_Doc_Status"`
	Type            string `json:"Supporting_Doc_Type"`
	SubmitForm      string `json:"Submit_Supporting_Doc_Form"`
	DealName        string `json:"Deal_Name"`
	PropertyAddress string `json:"Property_Street_Address"`
}

// ExtractDocs flattens the two supporting-doc slots of each deal into doc
// entries, preserving deal order.
func ExtractDocs(deals []model.DealRecord) []DocEntry {
	var docs []DocEntry
	for _, deal := range deals {
		if deal.Has(model.FieldDoc1Type) {
			docs = append(docs, DocEntry{
				Status:          deal.Str(model.FieldDoc1Status),
				Type:            deal.Str(model.FieldDoc1Type),
				SubmitForm:      deal.Str(model.FieldDoc1Form),
				DealName:        deal.Str(model.FieldDealName),
				PropertyAddress: deal.Str(model.FieldPropertyAddress),
			})
		}
		if deal.Has(model.FieldDoc2Type) {
			docs = append(docs, DocEntry{
				Status:          deal.Str(model.FieldDoc2Status),
				Type:            deal.Str(model.FieldDoc2Type),
				SubmitForm:      deal.Str(model.FieldDoc2Form),
				DealName:        deal.Str(model.FieldDealName),
				PropertyAddress: deal.Str(model.FieldPropertyAddress),
			})
		}
	}
	return docs
}

// OfferWidget is a verification prompt for an offer not yet confirmed.
type OfferWidget struct {
	OfferAmount      string `json:"offerAmount"`
	DealNo           string `json:"dealNo"`
	VerificationLink string `json:"verificationLink"`
	PropertyAddress  string `json:"propertyAddress"`
	Message          string `json:"message"`
}

// BuildOfferWidgets selects new or pre-approval deals that carry an offer
// amount and a verification form the client has not submitted yet.
func BuildOfferWidgets(deals []model.DealRecord) []OfferWidget {
	var widgets []OfferWidget
	for _, deal := range deals {
		stage := deal.Stage()
		if stage != model.StageNewDeal && stage != model.StagePreApprovalSent {
			continue
		}
		if submitted, ok := deal[model.FieldVerificationSent].(bool); !ok || submitted {
			continue
		}
		if !deal.Has(model.FieldVerificationForm) || !deal.Has(model.FieldClientGets) {
			continue
		}
		address := deal.Str(model.FieldPropertyAddress)
		offer := deal.Str(model.FieldClientGets)
		widgets = append(widgets, OfferWidget{
			OfferAmount:      offer,
			DealNo:           deal.Str(model.FieldDealNumber),
			VerificationLink: deal.Str(model.FieldVerificationForm),
			PropertyAddress:  address,
			Message:          "Click to verify offer of " + offer + " for property at " + address,
		})
	}
	return widgets
}
