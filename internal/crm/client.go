package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"crm-dashboard/internal/model"
	"crm-dashboard/pkg/httpclient"
	"crm-dashboard/pkg/utils"
)

// CRM sub-resource paths.
const (
	pathContacts  = "/Contacts"
	pathBrokerage = "/Brokerage"
	pathInvestor  = "/Investor"
	pathReferral  = "/Referral"
	pathDeals     = "/Deals"
)

// Field selections per view. The CRM requires an explicit field list on
// every deals request.
const (
	dealFieldsForAll = "Deal_Name,Stage,Total_Commision,Property_Street_Address,unique_deal_number1,Closing_Date,Stage_Funded_Date,Supporting_Doc_1_Type,Supporting_Doc_1_Status,Supporting_Doc_2_Type,Supporting_Doc_2_Status,Request_Amendment_Form,Created_Time,Submit_Supporting_Doc_1_Form,Submit_Supporting_Doc_2_Form,Due_Date,Rocket_Advance_Net_Advance,Rocket_Advance_Contribution,Verification_Form_Submitted,Verification_Form,Client_Gets"
	extraBrokerFields   = "Investor1,Investor_Income,Investor_ROI,Inv_of_Income,Inv_Income_per_Day,Contact_Name,Property_Street_Address"
	extraInvestorFields = "Date_of_Advance"
	allRoleDealFields   = "id,investor_investing_in_deal_form,Property_City,Duration_of_Advance," + dealFieldsForAll + "," + extraBrokerFields

	brokerProfileFields   = "Bank_Account_Number,Bank_Name,Branch_Number,direct_deposit_information_form,Street,City,State,Zip_Code,Country,void_cheque_form,Payout_Broker_Fee,Payout_Broker_Fee_Month,Broker_of_Record_Full_Name,Broker_Administrator_Full_Name"
	referralDetailFields  = "Short_Lead_Referral_Form,Lead_Shortened_Cuttly"
	referralContactFields = "Mailing_Street,Mailing_City,Mailing_State,Mailing_Zip,Mailing_Country,Full_Name,Email/id"
)

// dealFields maps a role to the deal field selection for that role.
var dealFields = map[string]string{
	model.RoleAgent:       dealFieldsForAll,
	model.RoleBroker:      dealFieldsForAll + "," + extraBrokerFields,
	model.RoleBrokerAdmin: dealFieldsForAll + "," + extraBrokerFields,
	model.RoleInvestor:    dealFieldsForAll + "," + extraBrokerFields + "," + extraInvestorFields,
}

// rolePath maps a role to its CRM sub-resource.
func rolePath(role string) string {
	switch role {
	case model.RoleAgent:
		return pathContacts
	case model.RoleBroker, model.RoleBrokerAdmin:
		return pathBrokerage
	case model.RoleInvestor:
		return pathInvestor
	default:
		return pathReferral
	}
}

// TokenSource yields the access lease currently held by the credential
// scheduler. The client only reads it; a renewal may swap it mid-request.
type TokenSource interface {
	AccessToken() string
}

// Client issues authenticated page requests against the CRM and classifies
// the outcome. It never mutates the lease and carries no retry logic.
type Client struct {
	http    *httpclient.Client
	baseURL string
	tokens  TokenSource
}

// NewClient wires a CRM client over the shared HTTP wrapper.
func NewClient(h *httpclient.Client, baseURL string, tokens TokenSource) *Client {
	return &Client{http: h, baseURL: baseURL, tokens: tokens}
}

// crmEnvelope is the body shape of CRM list responses.
type crmEnvelope struct {
	Data []model.DealRecord `json:"data"`
}

// FetchPage fetches one deals page. With subjectID and role it fetches the
// subject's own deals under the role sub-resource; with both empty it
// fetches the cross-subject deals listing.
func (c *Client) FetchPage(ctx context.Context, subjectID, role string, page, perPage int) (model.PageResult, error) {
	var url string
	if subjectID != "" && role != "" {
		url = c.baseURL + rolePath(role) + "/" + subjectID + pathDeals
	} else {
		url = c.baseURL + pathDeals
	}
	fields := dealFields[role]
	if fields == "" {
		fields = allRoleDealFields
	}
	return c.fetchListPage(ctx, url, fields, page, perPage)
}

// FetchContacts fetches one page of a referral partner's contacts.
func (c *Client) FetchContacts(ctx context.Context, subjectID string, page int) (model.PageResult, error) {
	url := c.baseURL + pathReferral + "/" + subjectID + pathContacts
	return c.fetchListPage(ctx, url, referralContactFields, page, model.UpstreamPageSize)
}

// FetchDetails fetches the subject's own CRM record with the detail field
// set for its role. Returns ErrNoContent when the CRM has no such record.
func (c *Client) FetchDetails(ctx context.Context, subjectID, role string) (model.DealRecord, error) {
	fields := model.FieldPreApprovalForms
	switch role {
	case model.RoleBroker, model.RoleBrokerAdmin:
		fields = brokerProfileFields
	case model.RoleReferral:
		fields = referralDetailFields
	}
	url := c.baseURL + rolePath(role) + "/" + subjectID

	resp, err := c.http.PerformRequest(ctx, http.MethodGet, url, nil, httpclient.RequestOptions{
		Params:  map[string]string{"fields": fields},
		Headers: c.authHeader(),
	})
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return nil, ErrAuthExpired
	case resp.Status == http.StatusNoContent:
		return nil, ErrNoContent
	case resp.Status < 200 || resp.Status > 299:
		return nil, fmt.Errorf("crm details request failed with status %d", resp.Status)
	}

	var envelope crmEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode crm details response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil, ErrNoContent
	}
	return envelope.Data[0], nil
}

func (c *Client) fetchListPage(ctx context.Context, url, fields string, page, perPage int) (model.PageResult, error) {
	result := model.PageResult{Page: page, PerPage: perPage}

	resp, err := c.http.PerformRequest(ctx, http.MethodGet, url, nil, httpclient.RequestOptions{
		Params: map[string]string{
			"fields":   fields,
			"page":     strconv.Itoa(page),
			"per_page": strconv.Itoa(perPage),
		},
		Headers: c.authHeader(),
	})
	if err != nil {
		return result, err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return result, ErrAuthExpired
	case resp.Status == http.StatusNoContent:
		result.Status = model.PageEmpty
		return result, nil
	case resp.Status < 200 || resp.Status > 299:
		return result, fmt.Errorf("crm page request failed with status %d", resp.Status)
	}

	var envelope crmEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return result, fmt.Errorf("failed to decode crm page response: %w", err)
	}
	if len(envelope.Data) == 0 {
		result.Status = model.PageEmpty
		return result, nil
	}
	result.Records = envelope.Data
	result.Status = model.PageOK
	return result, nil
}

func (c *Client) authHeader() map[string]string {
	return map[string]string{"Authorization": utils.FormatAccessToken(c.tokens.AccessToken())}
}
