package model

// User roles served by the dashboard.
const (
	RoleAgent       = "agent"
	RoleBroker      = "broker"
	RoleBrokerAdmin = "broker-admin"
	RoleInvestor    = "investor"
	RoleReferral    = "referral"
)

// Deal stages as the CRM spells them.
const (
	StageApproved           = "Approved"
	StageNewDeal            = "New Deal"
	StageMoreInfoNeeded     = "More Information Needed"
	StageUnderwriting       = "Underwriting"
	StageClosedWon          = "Closed Won"
	StagePreApprovalSent    = "Pre Approval Sent"
	StageFunded             = "Funded"
	StageDealFullyClosed    = "Deal Fully Closed"
	StageDenied             = "Denied"
	StagePreApprovalExpired = "Pre Approval Expired"
)

// OpenStages is the fixed set counted as open/in-progress.
var OpenStages = []string{
	StageNewDeal,
	StageMoreInfoNeeded,
	StageUnderwriting,
	StageApproved,
	StageClosedWon,
	StageFunded,
}

// Deal list filters accepted by the windowed endpoints.
const (
	FilterAll    = "all"
	FilterClosed = "closed"
	FilterOpen   = "open"
)

// DocStatusAwaiting is the supporting-doc sentinel that flags a pending
// document-review action.
const DocStatusAwaiting = "Awaiting to Upload"

// Deal fields read by the reducers.
const (
	FieldStage            = "Stage"
	FieldFundedDate       = "Stage_Funded_Date"
	FieldDueDate          = "Due_Date"
	FieldContribution     = "Rocket_Advance_Contribution"
	FieldNetAdvance       = "Rocket_Advance_Net_Advance"
	FieldInvestorIncome   = "Investor_Income"
	FieldInvestor1        = "Investor1"
	FieldAdvanceDuration  = "Duration_of_Advance"
	FieldPropertyAddress  = "Property_Street_Address"
	FieldDealName         = "Deal_Name"
	FieldContactName      = "Contact_Name"
	FieldDoc1Type         = "Supporting_Doc_1_Type"
	FieldDoc1Status       = "Supporting_Doc_1_Status"
	FieldDoc1Form         = "Submit_Supporting_Doc_1_Form"
	FieldDoc2Type         = "Supporting_Doc_2_Type"
	FieldDoc2Status       = "Supporting_Doc_2_Status"
	FieldDoc2Form         = "Submit_Supporting_Doc_2_Form"
	FieldAmendmentForm    = "Request_Amendment_Form"
	FieldVerificationForm = "Verification_Form"
	FieldVerificationSent = "Verification_Form_Submitted"
	FieldClientGets       = "Client_Gets"
	FieldDealNumber       = "unique_deal_number1"
	FieldInvestingForm    = "investor_investing_in_deal_form"
	FieldPreApprovalForms = "Pre_Approval_Forms"
	FieldLeadForm         = "Short_Lead_Referral_Form"
	FieldLeadShortened    = "Lead_Shortened_Cuttly"
)

// Stage reports the record's stage, or "" when absent.
func (d DealRecord) Stage() string {
	s, _ := d[FieldStage].(string)
	return s
}

// Has reports whether the field is present and non-nil. The CRM sends
// explicit nulls for cleared fields.
func (d DealRecord) Has(field string) bool {
	v, ok := d[field]
	return ok && v != nil
}

// Str returns the field as a string, or "" for absent/non-string values.
func (d DealRecord) Str(field string) string {
	s, _ := d[field].(string)
	return s
}
