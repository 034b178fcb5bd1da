package model

// DealRecord is a schema-agnostic map for an upstream CRM entity. The CRM
// owns the field set; reducers and predicates read fields by name and must
// tolerate absent keys.
type DealRecord map[string]interface{}

// Predicate reports whether a deal belongs to a filtered view.
type Predicate func(DealRecord) bool

// PageStatus classifies one upstream page response.
type PageStatus int

const (
	// PageOK means the page carried at least one record.
	PageOK PageStatus = iota
	// PageEmpty is the upstream no-content signal: end of pagination.
	PageEmpty
)

// PageResult is one upstream page plus its classification. Pages are
// transient and never cached.
type PageResult struct {
	Records []DealRecord `json:"records"`
	Status  PageStatus   `json:"status"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
}

// Window is one filtered, fixed-size slice of deals for a dashboard page.
// NoContent distinguishes "upstream had nothing at all" from a short last
// window.
type Window struct {
	Records   []DealRecord `json:"records"`
	NoContent bool         `json:"no_content"`
}

// WindowSize is the dashboard page size throughout.
const WindowSize = 10

// UpstreamPageSize is the page size used when walking the CRM.
const UpstreamPageSize = 200
