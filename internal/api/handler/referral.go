package handler

import (
	"net/http"

	"crm-dashboard/internal/cache"
	"crm-dashboard/internal/crm"
	"crm-dashboard/internal/model"
	"crm-dashboard/internal/stats"
)

// ReferralHandler serves the referral partner endpoints.
type ReferralHandler struct {
	CRM   *crm.Client
	Cache *cache.Client
}

// NewReferralHandler wires the referral endpoints.
func NewReferralHandler(crmClient *crm.Client, cacheClient *cache.Client) *ReferralHandler {
	return &ReferralHandler{CRM: crmClient, Cache: cacheClient}
}

// LeadForm returns the partner's lead form links
// @Summary Referral lead form
// @Tags referral
// @Produce json
// @Success 200 {object} map[string]interface{} "Lead form links"
// @Router /referral/lead-form [get]
func (h *ReferralHandler) LeadForm(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	var form map[string]interface{}
	if h.Cache.Field(r.Context(), sub.ID, slotLeadForm, &form) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgLeadForm, "data": form})
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

	form = map[string]interface{}{
		model.FieldLeadForm:      details[model.FieldLeadForm],
		model.FieldLeadShortened: details[model.FieldLeadShortened],
	}
	h.Cache.Merge(r.Context(), sub.ID, slotLeadForm, form)

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgLeadForm, "data": form})
}

// Stats returns the partner's referral commission summary
// @Summary Referral stats
// @Tags referral
// @Produce json
// @Success 200 {object} map[string]interface{} "Referral stats"
// @Router /referral/stats [get]
func (h *ReferralHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sub, ok := subjectFrom(r)
	if !ok {
		respondMessage(w, http.StatusBadRequest, msgMissingSubject)
		return
	}

	var summary stats.ReferralStats
	if h.Cache.Field(r.Context(), sub.ID, slotStats, &summary) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgStatsFetched, "data": summary})
		return
	}

	contacts, err := crm.FetchAllContacts(r.Context(), h.CRM, sub.ID)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if len(contacts) == 0 {
		respondNoContent(w)
		return
	}

	// Every contact referred by this partner is an agent in the CRM;
	// their deals together make up the partner's book.
	var deals []model.DealRecord
	for _, contact := range contacts {
		contactID := contact.Str("id")
		if contactID == "" {
			continue
		}
		contactDeals, err := crm.FetchAll(r.Context(), h.CRM, contactID, model.RoleAgent)
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		deals = append(deals, contactDeals...)
	}

	summary = stats.ComputeReferralStats(deals)
	h.Cache.Merge(r.Context(), sub.ID, slotStats, summary)

	respondJSON(w, http.StatusOK, map[string]interface{}{"message": msgStatsFetched, "data": summary})
}
