package client

import (
	"context"

	"github.com/hirsch-lab/kheops-client/internal/table"
)

// ListStudies searches the study level, prints the available study
// identifiers and a summary, and persists the result table as CSV.
func (c *Client) ListStudies(ctx context.Context, params SearchParams) (*table.Table, error) {
	c.log.Info().Msg("List studies...")
	tab, err := c.queryStudies(ctx, params)
	if err != nil {
		return nil, err
	}
	tab.MergeDateTime(table.StudyDateTime)
	c.printList(tab, "Available studies", "StudyInstanceUID")
	c.printSummary(tab)
	if err := c.writeTable(tab, "available_studies"); err != nil {
		return nil, err
	}
	return tab, nil
}

// ListSeries searches series across matching studies, prints the
// available series identifiers and a summary, and persists the result
// table as CSV.
func (c *Client) ListSeries(ctx context.Context, params SearchParams) (*table.Table, error) {
	c.log.Info().Msg("List series...")
	tab, err := c.querySeries(ctx, params)
	if err != nil {
		return nil, err
	}
	tab.MergeDateTime(table.SeriesDateTime)
	c.printList(tab, "Available series", "SeriesInstanceUID")
	c.printSummary(tab)
	if err := c.writeTable(tab, "available_series"); err != nil {
		return nil, err
	}
	return tab, nil
}
