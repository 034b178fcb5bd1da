package api

import (
	"crm-dashboard/internal/api/handler"
	"crm-dashboard/pkg/router"
)

// RegisterRoutes attaches the dashboard endpoints to the router.
func RegisterRoutes(r *router.Router, agent *handler.AgentHandler, broker *handler.BrokerHandler, investor *handler.InvestorHandler, referral *handler.ReferralHandler) {
	r.GET("/api/v1/agent/deals", agent.Deals)
	r.GET("/api/v1/agent/deals-count", agent.DealsCount)
	r.GET("/api/v1/agent/commissions", agent.Commissions)
	r.GET("/api/v1/agent/actions", agent.Actions)
	r.GET("/api/v1/agent/docs", agent.Docs)
	r.GET("/api/v1/agent/new-deal", agent.NewDeal)
	r.GET("/api/v1/agent/offer-widgets", agent.OfferWidgets)

	r.GET("/api/v1/broker/deals", broker.Deals)
	r.GET("/api/v1/broker/deals-stats", broker.DealsStats)
	r.GET("/api/v1/broker/commission-advanced", broker.CommissionAdvanced)
	r.GET("/api/v1/broker/actions", broker.Actions)
	r.GET("/api/v1/broker/details", broker.Details)

	r.GET("/api/v1/investor/deals", investor.Deals)
	r.GET("/api/v1/investor/stats", investor.Stats)
	r.GET("/api/v1/investor/new-deals-stats", investor.NewDealsStats)
	r.GET("/api/v1/investor/new-deals", investor.NewDeals)
	r.GET("/api/v1/investor/funded-deals", investor.FundedDeals)

	r.GET("/api/v1/referral/lead-form", referral.LeadForm)
	r.GET("/api/v1/referral/stats", referral.Stats)
}
