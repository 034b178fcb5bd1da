package handler

import (
	"log"
	"net/http"

	"crm-dashboard/internal/cache"
	"crm-dashboard/internal/crm"
	"crm-dashboard/internal/model"
	"crm-dashboard/internal/stats"
)

// AgentHandler serves the agent dashboard endpoints.
type AgentHandler struct {
	CRM   *crm.Client
	Cache *cache.Client
}

// NewAgentHandler wires the agent endpoints.
func NewAgentHandler(crmClient *crm.Client, cacheClient *cache.Client) *AgentHandler {
	return &AgentHandler{CRM: crmClient, Cache: cacheClient}
}

// Deals returns one page of the agent's deals
// @Summary List agent deals
// @Description One window of the agent's deals, optionally filtered to open or closed
// @Tags agent
// @Produce json
// @Param page query int false "1-based page number"
// @Param filter query string false "all, open or closed"
// @Success 200 {object} map[string]interface{} "Deals page with total"
// @Success 204 "No more content"
// @Router /agent/deals [get]
func (h *AgentHandler) Deals(w http.ResponseWriter, r *http.Request) {
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

	// The amendment form is only actionable while a deal is funded.
	for _, deal := range window.Records {
		if deal.Stage() != model.StageFunded {
			deal[model.FieldAmendmentForm] = nil
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": msgDealsFetched,
		"data":    window.Records,
		"total":   h.dealTotal(r, sub, filter),
	})
}

// dealTotal returns the filter-appropriate deal count, computing and
// caching the full breakdown on a cache miss. Best effort: a failed count
// never fails the deals page itself.
func (h *AgentHandler) dealTotal(r *http.Request, sub subject, filter string) int {
	var counts stats.DealCounts
	if !h.Cache.Field(r.Context(), sub.ID, slotDealCounts, &counts) {
		deals, err := crm.FetchAll(r.Context(), h.CRM, sub.ID, sub.Role)
		if err != nil {
			log.Printf("⚠️ failed to count deals for %s: %v", sub.ID, err)
			return model.WindowSize
		}
		counts = stats.CountDeals(deals)
		h.Cache.Merge(r.Context(), sub.ID, slotDealCounts, counts)
	}

	switch filter {
	case model.FilterClosed:
		return counts.ClosedDeals.Count
	case model.FilterOpen:
		return counts.OpenDeals.Count
	default:
		return counts.Total.Count
	}
}

// DealsCount returns the open/closed/total breakdown
// @Summary Agent deal counts
// @Tags agent
// @Produce json
// @Success 200 {object} map[string]interface{} "Deal counts"
// @Router /agent/deals-count [get]
func (h *AgentHandler) DealsCount(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	var counts stats.DealCounts
	if !h.Cache.Field(r.Context(), sub.ID, slotDealCounts, &counts) {
		deals, err := crm.FetchAll(r.Context(), h.CRM, sub.ID, sub.Role)
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		counts = stats.CountDeals(deals)
		h.Cache.Merge(r.Context(), sub.ID, slotDealCounts, counts)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgDealsCount, "data": counts})
}

// Commissions returns the agent's advanced-commission totals
// @Summary Agent commissions
// @Tags agent
// @Produce json
// @Success 200 {object} map[string]interface{} "Commission totals"
// @Router /agent/commissions [get]
func (h *AgentHandler) Commissions(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	var commissions stats.Commissions
	if h.Cache.Field(r.Context(), sub.ID, slotCommissions, &commissions) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgCommissionFetched, "data": commissions})
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

	commissions = stats.ComputeCommissions(deals)
	h.Cache.Merge(r.Context(), sub.ID, slotCommissions, commissions)

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgCommissionFetched, "data": commissions})
}

// Actions returns the agent's pending actions
// @Summary Agent pending actions
// @Tags agent
// @Produce json
// @Success 200 {object} map[string]interface{} "Pending actions"
// @Router /agent/actions [get]
func (h *AgentHandler) Actions(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	var actions stats.Actions
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

	actions, docsCount := stats.CountActions(deals)
	h.Cache.Merge(r.Context(), sub.ID, slotActions, actions)
	h.Cache.Merge(r.Context(), sub.ID, slotDocsCount, docsCount)

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgActionFetched, "data": actions})
}

// Docs returns one page of supporting documents across the agent's deals
// @Summary Agent documents
// @Tags agent
// @Produce json
// @Param page query int false "1-based page number"
// @Success 200 {object} map[string]interface{} "Documents page with total"
// @Router /agent/docs [get]
func (h *AgentHandler) Docs(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}
	page := pageFrom(r)

	// Docs are windowed at doc granularity, not deal granularity: each
	// deal contributes up to two entries, so the skip counter runs over
	// extracted docs while pages are still walked in order.
	skip := (page - 1) * model.WindowSize
	counter := 0
	var docs []stats.DocEntry

	for pageNo := 1; ; pageNo++ {
		result, err := h.CRM.FetchPage(r.Context(), sub.ID, sub.Role, pageNo, model.UpstreamPageSize)
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		if result.Status == model.PageEmpty {
			if len(docs) == 0 {
				respondNoContent(w)
				return
			}
			break
		}
		for _, doc := range stats.ExtractDocs(result.Records) {
			counter++
			if counter > skip {
				docs = append(docs, doc)
			}
		}
		if len(docs) >= model.WindowSize {
			docs = docs[:model.WindowSize]
			break
		}
	}

	total := 0
	if !h.Cache.Field(r.Context(), sub.ID, slotDocsCount, &total) {
		var counts stats.DealCounts
		if h.Cache.Field(r.Context(), sub.ID, slotDealCounts, &counts) {
			total = counts.Total.Count * 2
		} else {
			total = model.WindowSize * 2
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": msgDocsFetched,
		"data":    docs,
		"total":   total,
	})
}

// NewDeal returns the agent's pre-approval form URL
// @Summary New deal form url
// @Tags agent
// @Produce json
// @Success 200 {object} map[string]interface{} "New deal url"
// @Router /agent/new-deal [get]
func (h *AgentHandler) NewDeal(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	var form map[string]interface{}
	if h.Cache.Field(r.Context(), sub.ID, slotNewDealForm, &form) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgNewDealURL, "data": form})
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

	form = map[string]interface{}{"newDealForm": details[model.FieldPreApprovalForms]}
	h.Cache.Merge(r.Context(), sub.ID, slotNewDealForm, form)

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgNewDealURL, "data": form})
}

// OfferWidgets returns verification prompts for unconfirmed offers
// @Summary Agent offer widgets
// @Tags agent
// @Produce json
// @Success 200 {object} map[string]interface{} "Offer widgets"
// @Router /agent/offer-widgets [get]
func (h *AgentHandler) OfferWidgets(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
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

	widgets := stats.BuildOfferWidgets(deals)
	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgActionFetched, "data": widgets})
}
