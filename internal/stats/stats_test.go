package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-dashboard/internal/model"
)

func deal(fields model.DealRecord) model.DealRecord { return fields }

func TestCountDeals(t *testing.T) {
	deals := []model.DealRecord{
		deal(model.DealRecord{model.FieldStage: model.StageFunded}),
		deal(model.DealRecord{model.FieldStage: model.StageDealFullyClosed}),
		deal(model.DealRecord{model.FieldStage: model.StageNewDeal}),
		deal(model.DealRecord{model.FieldStage: model.StageDenied}),
		deal(model.DealRecord{model.FieldStage: model.StageApproved}),
	}

	counts := CountDeals(deals)
	assert.Equal(t, 3, counts.OpenDeals.Count)
	assert.Equal(t, 1, counts.ClosedDeals.Count)
	assert.Equal(t, 5, counts.Total.Count)
}

func TestCountBrokerDeals(t *testing.T) {
	deals := []model.DealRecord{
		deal(model.DealRecord{model.FieldStage: model.StageFunded}),
		deal(model.DealRecord{model.FieldStage: model.StageDealFullyClosed}),
		deal(model.DealRecord{model.FieldStage: model.StageDenied}),
		deal(model.DealRecord{model.FieldStage: model.StagePreApprovalExpired}),
	}

	counts := CountBrokerDeals(deals)
	assert.Equal(t, 2, counts.ExistingDeals.Count)
	assert.Equal(t, 1, counts.ClosedDeals.Count)
	assert.Equal(t, 2, counts.OtherDeals.Count)
}

func TestComputeCommissions(t *testing.T) {
	deals := []model.DealRecord{
		deal(model.DealRecord{
			model.FieldStage:        model.StageFunded,
			model.FieldFundedDate:   "2026-01-10",
			model.FieldContribution: float64(100),
		}),
		deal(model.DealRecord{
			model.FieldStage:        model.StageDealFullyClosed,
			model.FieldFundedDate:   "2025-11-02",
			model.FieldContribution: float64(50),
		}),
		// No funded date: excluded from both totals.
		deal(model.DealRecord{
			model.FieldStage:        model.StageFunded,
			model.FieldContribution: float64(999),
		}),
	}

	c := ComputeCommissions(deals)
	assert.Equal(t, float64(150), c.TotalAdvanced.AmountNumber)
	assert.Equal(t, float64(100), c.OpenAdvanced.AmountNumber)
	assert.Equal(t, "150.00", c.TotalAdvanced.Amount)
	assert.Equal(t, "100.00", c.OpenAdvanced.Amount)
}

func TestCountActions(t *testing.T) {
	deals := []model.DealRecord{
		deal(model.DealRecord{
			model.FieldStage:           model.StageApproved,
			model.FieldPropertyAddress: "12 Main St",
		}),
		deal(model.DealRecord{
			model.FieldStage:           model.StageApproved,
			model.FieldPropertyAddress: "44 Oak Ave",
			model.FieldDoc1Type:        "Invoice",
			model.FieldDoc1Status:      model.DocStatusAwaiting,
		}),
		deal(model.DealRecord{
			model.FieldStage:      model.StageFunded,
			model.FieldDoc1Type:   "Invoice",
			model.FieldDoc1Status: "Uploaded",
			model.FieldDoc2Type:   "Agreement",
			model.FieldDoc2Status: model.DocStatusAwaiting,
		}),
	}

	actions, docsCount := CountActions(deals)
	assert.Equal(t, 2, actions.ReviewEmail.Count)
	assert.Equal(t, "12 Main St, 44 Oak Ave", actions.ReviewEmail.PropertyAddress)
	assert.Equal(t, []string{"12 Main St", "44 Oak Ave"}, actions.ReviewEmail.PropertyAddresses)
	assert.Equal(t, 2, actions.ReviewDocPage.Count)
	assert.Equal(t, 3, docsCount)
}

func TestComputeInvestorStats(t *testing.T) {
	deals := []model.DealRecord{
		deal(model.DealRecord{
			model.FieldStage:          model.StageFunded,
			model.FieldFundedDate:     "2026-02-01",
			model.FieldInvestorIncome: float64(500),
		}),
		deal(model.DealRecord{
			model.FieldStage:          model.StageDealFullyClosed,
			model.FieldFundedDate:     "2025-12-01",
			model.FieldInvestorIncome: float64(300),
		}),
		// Fully closed but never carried a funded date: counted toward the
		// listing totals, excluded from income.
		deal(model.DealRecord{model.FieldStage: model.StageDealFullyClosed}),
	}

	s, fullyClosed, funded := ComputeInvestorStats(deals)
	assert.Equal(t, 2, fullyClosed)
	assert.Equal(t, 3, funded)
	assert.Equal(t, 1, s.FundedDealsAndProjection.Count)
	assert.Equal(t, float64(500), s.FundedDealsAndProjection.Amount)
	assert.Equal(t, 1, s.ClosedDeals.Count)
	assert.Equal(t, float64(300), s.ClosedDeals.Amount)
	assert.Equal(t, float64(800), s.InvestorIncome.Amount)
}

func TestNewDealFilter(t *testing.T) {
	investable := deal(model.DealRecord{
		model.FieldStage:           model.StageFunded,
		model.FieldAdvanceDuration: "90",
	})
	assert.True(t, NewDealFilter(investable))

	taken := deal(model.DealRecord{
		model.FieldStage:           model.StageFunded,
		model.FieldAdvanceDuration: "90",
		model.FieldInvestor1:       map[string]interface{}{"id": "inv-1"},
	})
	assert.False(t, NewDealFilter(taken))

	noDuration := deal(model.DealRecord{model.FieldStage: model.StageClosedWon})
	assert.False(t, NewDealFilter(noDuration))

	wrongStage := deal(model.DealRecord{
		model.FieldStage:           model.StageUnderwriting,
		model.FieldAdvanceDuration: "90",
	})
	assert.False(t, NewDealFilter(wrongStage))
}

func TestCountNewDeals(t *testing.T) {
	deals := []model.DealRecord{
		deal(model.DealRecord{model.FieldStage: model.StageFunded, model.FieldAdvanceDuration: "90"}),
		deal(model.DealRecord{model.FieldStage: model.StageClosedWon, model.FieldAdvanceDuration: "60"}),
		deal(model.DealRecord{model.FieldStage: model.StageDenied}),
	}
	assert.Equal(t, 2, CountNewDeals(deals).Count)
}

func TestComputeReferralStats(t *testing.T) {
	deals := []model.DealRecord{
		deal(model.DealRecord{model.FieldStage: model.StageDealFullyClosed}),
		deal(model.DealRecord{model.FieldStage: model.StageDealFullyClosed}),
		deal(model.DealRecord{model.FieldStage: model.StageFunded}),
		deal(model.DealRecord{model.FieldStage: model.StageDenied}),
	}

	s := ComputeReferralStats(deals)
	assert.Equal(t, 2, s.TotalCommission.Count)
	assert.Equal(t, float64(200), s.TotalCommission.Amount)
	assert.Equal(t, 1, s.PendingCommission.Count)
	assert.Equal(t, float64(100), s.PendingCommission.Amount)
	assert.Equal(t, 3, s.ReferralDeals.Count)
}

func TestExtractDocs(t *testing.T) {
	deals := []model.DealRecord{
		deal(model.DealRecord{
			model.FieldDealName:        "Two Docs",
			model.FieldPropertyAddress: "12 Main St",
			model.FieldDoc1Type:        "Invoice",
			model.FieldDoc1Status:      model.DocStatusAwaiting,
			model.FieldDoc1Form:        "https://forms.example/doc1",
			model.FieldDoc2Type:        "Agreement",
			model.FieldDoc2Status:      "Uploaded",
		}),
		deal(model.DealRecord{model.FieldDealName: "No Docs"}),
		deal(model.DealRecord{
			model.FieldDealName: "Nulled Doc",
			model.FieldDoc1Type: nil,
		}),
	}

	docs := ExtractDocs(deals)
	require.Len(t, docs, 2)
	assert.Equal(t, "Invoice", docs[0].Type)
	assert.Equal(t, model.DocStatusAwaiting, docs[0].Status)
	assert.Equal(t, "https://forms.example/doc1", docs[0].SubmitForm)
	assert.Equal(t, "Two Docs", docs[0].DealName)
	assert.Equal(t, "Agreement", docs[1].Type)
}

func TestBuildOfferWidgets(t *testing.T) {
	deals := []model.DealRecord{
		deal(model.DealRecord{
			model.FieldStage:            model.StageNewDeal,
			model.FieldVerificationSent: false,
			model.FieldVerificationForm: "https://forms.example/verify",
			model.FieldClientGets:       "$12,000",
			model.FieldDealNumber:       "D-42",
			model.FieldPropertyAddress:  "12 Main St",
		}),
		// Already submitted: no widget.
		deal(model.DealRecord{
			model.FieldStage:            model.StagePreApprovalSent,
			model.FieldVerificationSent: true,
			model.FieldVerificationForm: "https://forms.example/verify",
			model.FieldClientGets:       "$1",
		}),
		// Wrong stage: no widget.
		deal(model.DealRecord{
			model.FieldStage:            model.StageFunded,
			model.FieldVerificationSent: false,
			model.FieldVerificationForm: "https://forms.example/verify",
			model.FieldClientGets:       "$1",
		}),
	}

	widgets := BuildOfferWidgets(deals)
	require.Len(t, widgets, 1)
	assert.Equal(t, "$12,000", widgets[0].OfferAmount)
	assert.Equal(t, "D-42", widgets[0].DealNo)
	assert.Contains(t, widgets[0].Message, "12 Main St")
}

func TestFilterPredicate(t *testing.T) {
	assert.Nil(t, FilterPredicate(model.FilterAll))
	assert.Nil(t, FilterPredicate(""))

	closed := deal(model.DealRecord{model.FieldStage: model.StageDealFullyClosed})
	open := deal(model.DealRecord{model.FieldStage: model.StageUnderwriting})

	require.NotNil(t, FilterPredicate(model.FilterClosed))
	assert.True(t, FilterPredicate(model.FilterClosed)(closed))
	assert.False(t, FilterPredicate(model.FilterClosed)(open))
	assert.True(t, FilterPredicate(model.FilterOpen)(open))
	assert.False(t, FilterPredicate(model.FilterOpen)(closed))
}
