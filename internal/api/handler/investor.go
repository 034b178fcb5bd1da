package handler

import (
	"log"
	"net/http"

	"crm-dashboard/internal/cache"
	"crm-dashboard/internal/crm"
	"crm-dashboard/internal/model"
	"crm-dashboard/internal/stats"
)

// InvestorHandler serves the investor dashboard endpoints.
type InvestorHandler struct {
	CRM   *crm.Client
	Cache *cache.Client
}

// NewInvestorHandler wires the investor endpoints.
func NewInvestorHandler(crmClient *crm.Client, cacheClient *cache.Client) *InvestorHandler {
	return &InvestorHandler{CRM: crmClient, Cache: cacheClient}
}

// Deals returns one page of the investor's deals
// @Summary List investor deals
// @Tags investor
// @Produce json
// @Param page query int false "1-based page number"
// @Param filter query string false "all, open or closed"
// @Success 200 {object} map[string]interface{} "Deals page"
// @Router /investor/deals [get]
func (h *InvestorHandler) Deals(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}
	filter, ok := filterFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgInvalidQuery)
		return
	}
	page := pageFrom(r)

	window, err := crm.FetchWindow(r.Context(), h.CRM, sub.ID, sub.Role, page, stats.FilterPredicate(filter))
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if window.NoContent || len(window.Records) == 0 {
		respondNoContent(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgDealsFetched, "data": window.Records})
}

// Stats returns the investor's income and deal summaries
// @Summary Investor stats
// @Tags investor
// @Produce json
// @Success 200 {object} map[string]interface{} "Investor stats"
// @Router /investor/stats [get]
func (h *InvestorHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	var summary stats.InvestorStats
	if h.Cache.Field(r.Context(), sub.ID, slotStats, &summary) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgStatsFetched, "data": summary})
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

	summary, fullyClosed, funded := stats.ComputeInvestorStats(deals)
	h.Cache.Merge(r.Context(), sub.ID, slotStats, summary)
	h.Cache.Merge(r.Context(), sub.ID, slotFullyClosedDeals, fullyClosed)
	h.Cache.Merge(r.Context(), sub.ID, slotFundedDeals, funded)

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgStatsFetched, "data": summary})
}

// NewDealsStats returns the count of investable deals across all subjects
// @Summary New deals count
// @Tags investor
// @Produce json
// @Success 200 {object} map[string]interface{} "New deals count"
// @Router /investor/new-deals-stats [get]
func (h *InvestorHandler) NewDealsStats(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	var count stats.Count
	if h.Cache.Field(r.Context(), sub.ID, slotNewDealsCount, &count) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgNewDeals, "data": count})
		return
	}

	// Investable inventory spans all subjects, so this walks the
	// cross-subject deals listing.
	deals, err := crm.FetchAll(r.Context(), h.CRM, "", "")
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if len(deals) == 0 {
		respondNoContent(w)
		return
	}

	count = stats.CountNewDeals(deals)
	h.Cache.Merge(r.Context(), sub.ID, slotNewDealsCount, count)

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgNewDeals, "data": count})
}

// NewDeals returns one page of investable deals
// @Summary List new deals
// @Tags investor
// @Produce json
// @Param page query int false "1-based page number"
// @Success 200 {object} map[string]interface{} "New deals page with total"
// @Router /investor/new-deals [get]
func (h *InvestorHandler) NewDeals(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}
	page := pageFrom(r)

	window, err := crm.FetchWindow(r.Context(), h.CRM, "", "", page, stats.NewDealFilter)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if window.NoContent || len(window.Records) == 0 {
		respondNoContent(w)
		return
	}

	// The investing form is generic; the investor's identity rides on the
	// query string.
	for _, deal := range window.Records {
		if form := deal.Str(model.FieldInvestingForm); form != "" {
			deal[model.FieldInvestingForm] = form + sub.ID
		}
	}

	var count stats.Count
	if !h.Cache.Field(r.Context(), sub.ID, slotNewDealsCount, &count) {
		deals, err := crm.FetchAll(r.Context(), h.CRM, "", "")
		if err != nil {
			log.Printf("⚠️ failed to count new deals: %v", err)
		} else {
			count = stats.CountNewDeals(deals)
			h.Cache.Merge(r.Context(), sub.ID, slotNewDealsCount, count)
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": msgNewDeals,
		"data":    window.Records,
		"total":   count.Count,
	})
}

// FundedDeals returns one page of the investor's funded deals
// @Summary List funded deals
// @Tags investor
// @Produce json
// @Param page query int false "1-based page number"
// @Param filter query string false "all or closed"
// @Success 200 {object} map[string]interface{} "Funded deals page with total"
// @Router /investor/funded-deals [get]
func (h *InvestorHandler) FundedDeals(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}
	filter, ok := filterFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgInvalidQuery)
		return
	}
	page := pageFrom(r)

	pred := stats.FundedFilter
	slot := slotFundedDeals
	if filter == model.FilterClosed {
		pred = stats.ClosedFilter
		slot = slotFullyClosedDeals
	}

	window, err := crm.FetchWindow(r.Context(), h.CRM, sub.ID, sub.Role, page, pred)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if window.NoContent || len(window.Records) == 0 {
		respondNoContent(w)
		return
	}

	total := 0
	if !h.Cache.Field(r.Context(), sub.ID, slot, &total) {
		deals, err := crm.FetchAll(r.Context(), h.CRM, sub.ID, sub.Role)
		if err != nil {
			log.Printf("⚠️ failed to count funded deals for %s: %v", sub.ID, err)
		} else {
			for _, deal := range deals {
				if pred(deal) {
					total++
				}
			}
			h.Cache.Merge(r.Context(), sub.ID, slot, total)
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": msgFundedDeals,
		"data":    window.Records,
		"total":   total,
	})
}
