package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hirsch-lab/kheops-client/internal/client"
)

// searchFlags holds the search options shared by the list and download
// commands.
type searchFlags struct {
	studyUID  string
	seriesUID string
	filters   []string
	fuzzy     bool
	limit     int
	offset    int
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.studyUID, "study-uid", "x", "", "Study instance UID")
	cmd.Flags().StringVarP(&f.seriesUID, "series-uid", "y", "", "Series instance UID")
	cmd.Flags().StringArrayVar(&f.filters, "search-filter", nil,
		"Filter to identify subsets of studies/series, as KEY=VALUE\n"+
			"Can be used multiple times, for example:\n"+
			"    --search-filter PatientID=ABC123\n"+
			"    --search-filter Modality=CT")
	cmd.Flags().BoolVar(&f.fuzzy, "fuzzy", false, "Use fuzzy semantic matching")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Limit maximum number of results")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "Number of results that should be skipped")
}

// params validates the filter expressions and builds the search
// parameters. The --study-uid and --series-uid flags override filter
// entries of the same name.
func (f *searchFlags) params() (client.SearchParams, error) {
	filters := make(map[string]string, len(f.filters)+2)
	for _, expr := range f.filters {
		key, value, ok := strings.Cut(expr, "=")
		if !ok || key == "" {
			return client.SearchParams{}, fmt.Errorf("invalid search filter %q, expected KEY=VALUE", expr)
		}
		filters[key] = value
	}
	if f.studyUID != "" {
		filters["StudyInstanceUID"] = f.studyUID
	}
	if f.seriesUID != "" {
		filters["SeriesInstanceUID"] = f.seriesUID
	}
	return client.SearchParams{
		Filters: filters,
		Fuzzy:   f.fuzzy,
		Limit:   f.limit,
		Offset:  f.offset,
	}, nil
}
