package client

import (
	"context"
	"fmt"

	"github.com/hirsch-lab/kheops-client/internal/dicomweb"
	"github.com/hirsch-lab/kheops-client/internal/table"
)

// queryStudies runs a study level search and returns the projected
// table ordered by StudyInstanceUID.
func (c *Client) queryStudies(ctx context.Context, params SearchParams) (*table.Table, error) {
	sets, err := c.web.SearchForStudies(ctx, dicomweb.SearchOptions{
		Filters: params.Filters,
		Fuzzy:   params.Fuzzy,
		Limit:   params.Limit,
		Offset:  params.Offset,
		Fields:  studyKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("study search failed: %w", err)
	}
	tab, err := datasetsToTable(sets, studyKeys)
	if err != nil {
		return nil, err
	}
	tab.SortByUID("StudyInstanceUID")
	return tab, nil
}

// querySeriesForStudy searches the series of one study. Limit and
// offset never apply here; they only constrain the study search that
// selected the study.
func (c *Client) querySeriesForStudy(ctx context.Context, studyUID string, params SearchParams) (*table.Table, error) {
	sets, err := c.web.SearchForSeries(ctx, studyUID, dicomweb.SearchOptions{
		Filters: params.Filters,
		Fuzzy:   params.Fuzzy,
		Fields:  seriesKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("series search for study %s failed: %w", studyUID, err)
	}
	tab, err := datasetsToTable(sets, seriesKeys)
	if err != nil {
		return nil, err
	}
	tab.SortByUID("SeriesInstanceUID")
	return tab, nil
}

// querySeries searches series across the repository: a study search
// scoped by the filters, limit and offset selects the studies, then
// one unbounded sub-query per study collects its series. The combined
// result is re-ordered by SeriesInstanceUID.
func (c *Client) querySeries(ctx context.Context, params SearchParams) (*table.Table, error) {
	studies, err := c.queryStudies(ctx, params)
	if err != nil {
		return nil, err
	}
	if studies.Len() == 0 {
		return table.New(seriesKeys...), nil
	}

	bar := c.progress(false)
	bar.Start(int64(studies.Len()), "Fetching data...")
	parts := make([]*table.Table, 0, studies.Len())
	for i, studyUID := range studies.Strings("StudyInstanceUID") {
		sub, err := c.querySeriesForStudy(ctx, studyUID, params)
		if err != nil {
			bar.Error(err)
			return nil, err
		}
		parts = append(parts, sub)
		bar.Update(int64(i + 1))
	}
	bar.Finish()

	all := table.Concat(parts...)
	all.SortByUID("SeriesInstanceUID")
	return all, nil
}
