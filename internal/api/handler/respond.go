package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"crm-dashboard/internal/crm"
	"crm-dashboard/internal/model"
	"crm-dashboard/pkg/utils"
)

// Response messages.
const (
	msgInternalError   = "Internal Server Error"
	msgInvalidQuery    = "Invalid filter query option."
	msgMissingSubject  = "Subject identity headers are required."
	msgCredentialStale = "The upstream CRM credential is expired and needs attention."

	msgDealsFetched      = "Deals fetched successfully"
	msgDealsCount        = "Open and Closed deals count fetched"
	msgCommissionFetched = "Commissions fetched successfully"
	msgActionFetched     = "Pending actions fetched successfully"
	msgDocsFetched       = "Documents fetched successfully"
	msgStatsFetched      = "Stats fetched successfully."
	msgNewDeals          = "New deals fetched"
	msgFundedDeals       = "Funded deals fetched"
	msgNewDealURL        = "New deal url."
	msgLeadForm          = "Lead Form fetched"
	msgBrokerDetails     = "Broker details fetched"
)

// Cache slot names. Multiple endpoints write different slots of the same
// subject entry.
const (
	slotDealCounts         = "deal_counts"
	slotDealsCountTotal    = "deals_count"
	slotCommissions        = "commissions"
	slotCommissionAdvanced = "commission_advanced"
	slotActions            = "actions"
	slotDocsCount          = "docs_count"
	slotStats              = "stats"
	slotFullyClosedDeals   = "fully_closed_deals"
	slotFundedDeals        = "funded_deals"
	slotNewDealsCount      = "new_deals_count"
	slotNewDealForm        = "new_deal_form"
	slotLeadForm           = "lead_form"
)

// subject is the authenticated identity forwarded by the auth middleware.
type subject struct {
	ID   string
	Role string
}

// subjectFrom reads the subject identity headers. Authentication itself is
// the middleware's job; by the time a request lands here the headers are
// trusted.
func subjectFrom(r *http.Request) (subject, bool) {
	s := subject{
		ID:   r.Header.Get("X-Subject-ID"),
		Role: r.Header.Get("X-Subject-Role"),
	}
	return s, s.ID != "" && s.Role != ""
}

// pageFrom reads the 1-based page query parameter, defaulting to 1.
func pageFrom(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// filterFrom reads and validates the deals filter query parameter.
func filterFrom(r *http.Request) (string, bool) {
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		return model.FilterAll, true
	}
	valid := []string{model.FilterAll, model.FilterClosed, model.FilterOpen}
	return filter, utils.CheckValueInArray(valid, filter)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondNoContent writes a bare 204. The transport strips bodies from 204
// responses, so none is written.
func respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// respondUpstreamError maps upstream failures to responses. An expired
// lease gets its own message so operators can tell it apart from generic
// failures; nothing here retries.
func respondUpstreamError(w http.ResponseWriter, err error) {
	log.Printf("❌ upstream error: %v", err)
	if errors.Is(err, crm.ErrAuthExpired) {
		respondMessage(w, http.StatusInternalServerError, msgCredentialStale)
		return
	}
	respondMessage(w, http.StatusInternalServerError, msgInternalError)
}
