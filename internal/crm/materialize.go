package crm

import (
	"context"
	"log"

	"crm-dashboard/internal/model"
)

// ContactPageFetcher is the upstream call for referral contact pages.
type ContactPageFetcher interface {
	FetchContacts(ctx context.Context, subjectID string, page int) (model.PageResult, error)
}

// FetchAll drains every deals page for a subject (or the cross-subject
// listing when subjectID and role are empty) into one collection.
//
// A short page is the last page. On an error after at least one successful
// page the partial collection is returned instead of failing: the
// aggregates computed from it tolerate staleness, and some data beats none.
func FetchAll(ctx context.Context, f PageFetcher, subjectID, role string) ([]model.DealRecord, error) {
	var all []model.DealRecord

	for pageNo := 1; ; pageNo++ {
		page, err := f.FetchPage(ctx, subjectID, role, pageNo, model.UpstreamPageSize)
		if err != nil {
			if len(all) > 0 {
				log.Printf("⚠️ deals walk stopped at page %d, keeping %d records: %v", pageNo, len(all), err)
				return all, nil
			}
			return nil, err
		}
		if page.Status == model.PageEmpty {
			return all, nil
		}
		all = append(all, page.Records...)
		if len(page.Records) < model.UpstreamPageSize {
			return all, nil
		}
	}
}

// FetchAllContacts drains every contact page for a referral partner.
func FetchAllContacts(ctx context.Context, f ContactPageFetcher, subjectID string) ([]model.DealRecord, error) {
	var all []model.DealRecord

	for pageNo := 1; ; pageNo++ {
		page, err := f.FetchContacts(ctx, subjectID, pageNo)
		if err != nil {
			if len(all) > 0 {
				log.Printf("⚠️ contacts walk stopped at page %d, keeping %d records: %v", pageNo, len(all), err)
				return all, nil
			}
			return nil, err
		}
		if page.Status == model.PageEmpty {
			return all, nil
		}
		all = append(all, page.Records...)
		if len(page.Records) < model.UpstreamPageSize {
			return all, nil
		}
	}
}
