package crm

import (
	"context"

	"crm-dashboard/internal/model"
)

// PageFetcher is the one upstream call the pagination layer depends on.
// *Client implements it; tests substitute scripted sequences.
type PageFetcher interface {
	FetchPage(ctx context.Context, subjectID, role string, page, perPage int) (model.PageResult, error)
}

// FetchWindow produces one window of deals matching pred, starting at the
// 1-based windowIndex, by walking 200-record upstream pages in order.
//
// A nil pred is the unfiltered fast path: the CRM can page at window
// granularity directly, so a single fetch at the window size suffices.
// With a predicate, a running match counter skips the first
// (windowIndex-1)*WindowSize matches and accumulates the next WindowSize.
//
// Pages are walked strictly in ascending order; the skip arithmetic depends
// on cumulative match counts, so fetches must not be reordered or issued
// concurrently.
func FetchWindow(ctx context.Context, f PageFetcher, subjectID, role string, windowIndex int, pred model.Predicate) (model.Window, error) {
	if windowIndex < 1 {
		windowIndex = 1
	}

	if pred == nil {
		page, err := f.FetchPage(ctx, subjectID, role, windowIndex, model.WindowSize)
		if err != nil {
			return model.Window{}, err
		}
		if page.Status == model.PageEmpty {
			return model.Window{NoContent: true}, nil
		}
		records := page.Records
		if len(records) > model.WindowSize {
			records = records[:model.WindowSize]
		}
		return model.Window{Records: records}, nil
	}

	skip := (windowIndex - 1) * model.WindowSize
	counter := 0
	var accumulated []model.DealRecord

	for pageNo := 1; ; pageNo++ {
		page, err := f.FetchPage(ctx, subjectID, role, pageNo, model.UpstreamPageSize)
		if err != nil {
			// No partial windows on failure: an aborted walk must not be
			// served or cached as if it were a complete page.
			return model.Window{}, err
		}

		if page.Status == model.PageEmpty {
			if len(accumulated) == 0 {
				return model.Window{NoContent: true}, nil
			}
			return model.Window{Records: accumulated}, nil
		}

		for _, deal := range page.Records {
			if !pred(deal) {
				continue
			}
			counter++
			if counter > skip {
				accumulated = append(accumulated, deal)
			}
		}

		if len(accumulated) >= model.WindowSize {
			return model.Window{Records: accumulated[:model.WindowSize]}, nil
		}
	}
}
