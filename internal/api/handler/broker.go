package handler

import (
	"net/http"

	"github.com/jonboulle/clockwork"

	"crm-dashboard/internal/cache"
	"crm-dashboard/internal/crm"
	"crm-dashboard/internal/stats"
)

// BrokerHandler serves the broker dashboard endpoints.
type BrokerHandler struct {
	CRM   *crm.Client
	Cache *cache.Client
	Clock clockwork.Clock
}

// NewBrokerHandler wires the broker endpoints. The clock feeds the
// time-windowed commission reducer.
func NewBrokerHandler(crmClient *crm.Client, cacheClient *cache.Client, clock clockwork.Clock) *BrokerHandler {
	return &BrokerHandler{CRM: crmClient, Cache: cacheClient, Clock: clock}
}

// brokerActions is the broker's pending-action shape: email review only.
type brokerActions struct {
	ReviewEmail stats.ReviewEmailAction `json:"actionReviewEmail"`
}

// Deals returns one unfiltered page of the broker's deals
// @Summary List broker deals
// @Tags broker
// @Produce json
// @Param page query int false "1-based page number"
// @Success 200 {object} map[string]interface{} "Deals page with total"
// @Router /broker/deals [get]
func (h *BrokerHandler) Deals(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}
	page := pageFrom(r)

	window, err := crm.FetchWindow(r.Context(), h.CRM, sub.ID, sub.Role, page, nil)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if window.NoContent || len(window.Records) == 0 {
		respondNoContent(w)
		return
	}

	total := len(window.Records)
	h.Cache.Field(r.Context(), sub.ID, slotDealsCountTotal, &total)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": msgDealsFetched,
		"data":    window.Records,
		"total":   total,
	})
}

// Details returns the broker's own CRM profile
// @Summary Broker details
// @Tags broker
// @Produce json
// @Success 200 {object} map[string]interface{} "Broker profile"
// @Router /broker/details [get]
func (h *BrokerHandler) Details(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	details, err := h.CRM.FetchDetails(r.Context(), sub.ID, sub.Role)
	if err == crm.ErrNoContent {
		respondNoContent(w)
		return
	}
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgBrokerDetails, "data": details})
}

// Actions returns the broker's pending email-review actions
// @Summary Broker pending actions
// @Tags broker
// @Produce json
// @Success 200 {object} map[string]interface{} "Pending actions"
// @Router /broker/actions [get]
func (h *BrokerHandler) Actions(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	var actions brokerActions
	if h.Cache.Field(r.Context(), sub.ID, slotActions, &actions) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgActionFetched, "data": actions})
		return
	}

	deals, err := crm.FetchAll(r.Context(), h.CRM, sub.ID, sub.Role)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if len(deals) == 0 {
		respondNoContent(w)
		return
	}

	full, _ := stats.CountActions(deals)
	actions = brokerActions{ReviewEmail: full.ReviewEmail}
	h.Cache.Merge(r.Context(), sub.ID, slotActions, actions)

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgActionFetched, "data": actions})
}

// DealsStats returns the broker's existing/closed/other deal breakdown
// @Summary Broker deal stats
// @Tags broker
// @Produce json
// @Success 200 {object} map[string]interface{} "Deal counts"
// @Router /broker/deals-stats [get]
func (h *BrokerHandler) DealsStats(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	var counts stats.BrokerDealCounts
	if h.Cache.Field(r.Context(), sub.ID, slotDealCounts, &counts) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgDealsCount, "data": counts})
		return
	}

	deals, err := crm.FetchAll(r.Context(), h.CRM, sub.ID, sub.Role)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if len(deals) == 0 {
		respondNoContent(w)
		return
	}

	counts = stats.CountBrokerDeals(deals)
	h.Cache.Merge(r.Context(), sub.ID, slotDealCounts, counts)
	h.Cache.Merge(r.Context(), sub.ID, slotDealsCountTotal, counts.ExistingDeals.Count+counts.OtherDeals.Count)

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgDealsCount, "data": counts})
}

// CommissionAdvanced returns the weekly and monthly advance totals
// @Summary Broker commission advanced
// @Tags broker
// @Produce json
// @Success 200 {object} map[string]interface{} "Weekly and monthly advances"
// @Router /broker/commission-advanced [get]
func (h *BrokerHandler) CommissionAdvanced(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	var advanced stats.CommissionAdvanced
	if h.Cache.Field(r.Context(), sub.ID, slotCommissionAdvanced, &advanced) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgCommissionFetched, "data": advanced})
		return
	}

	deals, err := crm.FetchAll(r.Context(), h.CRM, sub.ID, sub.Role)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if len(deals) == 0 {
		respondNoContent(w)
		return
	}

	advanced = stats.ComputeCommissionAdvanced(deals, h.Clock)
	h.Cache.Merge(r.Context(), sub.ID, slotCommissionAdvanced, advanced)

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgCommissionFetched, "data": advanced})
}
