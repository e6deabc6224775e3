package client

import (
	"github.com/hirsch-lab/kheops-client/internal/dicomweb"
	"github.com/hirsch-lab/kheops-client/internal/table"
)

// Attribute projections collected into the result tables and the
// summary CSV files, one per query level.
var (
	studyKeys = []string{
		"StudyInstanceUID", "PatientID",
		"StudyDate", "StudyTime", "ModalitiesInStudy",
	}
	seriesKeys = []string{
		"StudyInstanceUID", "SeriesInstanceUID",
		"PatientID", "SeriesDate", "SeriesTime", "Modality", "RetrieveURL",
	}
	instanceKeys = []string{
		"StudyInstanceUID", "SeriesInstanceUID", "SOPInstanceUID",
		"PatientID", "SeriesDate", "Modality",
	}
)

// datasetsToTable projects search results onto the given keyword
// columns. Missing attributes become null cells; multi-valued
// attributes keep their slice shape.
func datasetsToTable(sets []dicomweb.Dataset, keywords []string) (*table.Table, error) {
	tab := table.New(keywords...)
	for _, ds := range sets {
		row := make(map[string]any, len(keywords))
		for _, keyword := range keywords {
			value, err := ds.Get(keyword)
			if err != nil {
				return nil, err
			}
			row[keyword] = value
		}
		tab.AppendRow(row)
	}
	tab.TrimSpace()
	return tab, nil
}

// instancesToTable projects downloaded instances onto the instance
// columns, ordered by SOPInstanceUID.
func instancesToTable(instances []*dicomweb.Instance) (*table.Table, error) {
	sets := make([]dicomweb.Dataset, 0, len(instances))
	for _, inst := range instances {
		sets = append(sets, inst.Meta)
	}
	tab, err := datasetsToTable(sets, instanceKeys)
	if err != nil {
		return nil, err
	}
	tab.SortByUID("SOPInstanceUID")
	return tab, nil
}
