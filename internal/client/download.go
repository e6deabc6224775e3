package client

import (
	"context"

	"github.com/hirsch-lab/kheops-client/internal/dicomweb"
	"github.com/hirsch-lab/kheops-client/internal/progress"
	"github.com/hirsch-lab/kheops-client/internal/table"
)

// retrieveStudy fetches all instances of one study, either as full
// objects or as metadata only.
func (c *Client) retrieveStudy(ctx context.Context, studyUID string, metaOnly bool) ([]*dicomweb.Instance, error) {
	bar := c.progress(false)
	bar.Start(progress.IndeterminateTotal, "Downloading study...")
	var instances []*dicomweb.Instance
	var err error
	if metaOnly {
		instances, err = c.web.RetrieveStudyMetadata(ctx, studyUID)
	} else {
		instances, err = c.web.RetrieveStudy(ctx, studyUID)
	}
	if err != nil {
		bar.Error(err)
		return nil, err
	}
	bar.Finish()
	return instances, nil
}

// retrieveSeries fetches all instances of one series, either as full
// objects or as metadata only.
func (c *Client) retrieveSeries(ctx context.Context, studyUID, seriesUID string, metaOnly bool) ([]*dicomweb.Instance, error) {
	bar := c.progress(false)
	bar.Start(progress.IndeterminateTotal, "Downloading series...")
	var instances []*dicomweb.Instance
	var err error
	if metaOnly {
		instances, err = c.web.RetrieveSeriesMetadata(ctx, studyUID, seriesUID)
	} else {
		instances, err = c.web.RetrieveSeries(ctx, studyUID, seriesUID)
	}
	if err != nil {
		bar.Error(err)
		return nil, err
	}
	bar.Finish()
	return instances, nil
}

// DownloadStudy downloads one study identified by its UID, writes its
// instances to the output directory, and reports what was downloaded.
func (c *Client) DownloadStudy(ctx context.Context, studyUID string, opts DownloadOptions) (*table.Table, error) {
	c.log.Info().Msg("Download single study...")
	instances, err := c.retrieveStudy(ctx, studyUID, opts.MetaOnly)
	if err != nil {
		return nil, err
	}
	tab, err := c.writeInstances(instances, opts.Forced, false)
	if err != nil {
		return nil, err
	}
	c.printList(tab, "Downloaded series", "SeriesInstanceUID")
	if err := c.writeTable(tab, "downloaded_study_instances"); err != nil {
		return nil, err
	}
	c.printSummary(tab)
	return tab, nil
}

// DownloadSeries downloads one series identified by its study and
// series UIDs, writes its instances to the output directory, and
// reports what was downloaded.
func (c *Client) DownloadSeries(ctx context.Context, studyUID, seriesUID string, opts DownloadOptions) (*table.Table, error) {
	c.log.Info().Msg("Download single series...")
	instances, err := c.retrieveSeries(ctx, studyUID, seriesUID, opts.MetaOnly)
	if err != nil {
		return nil, err
	}
	tab, err := c.writeInstances(instances, opts.Forced, false)
	if err != nil {
		return nil, err
	}
	c.printList(tab, "Downloaded series", "SeriesInstanceUID")
	if err := c.writeTable(tab, "downloaded_series_instances"); err != nil {
		return nil, err
	}
	c.printSummary(tab)
	return tab, nil
}

// DownloadStudies searches studies with the given parameters and
// downloads each match, strictly in order. An empty match set is not
// an error; the operation simply reports nothing. A failed download or
// a file collision stops the batch; instances written earlier stay.
func (c *Client) DownloadStudies(ctx context.Context, params SearchParams, opts DownloadOptions) (*table.Table, error) {
	studies, err := c.queryStudies(ctx, params)
	if err != nil {
		return nil, err
	}
	c.log.Infof("Number of studies found: %d", studies.Len())
	if studies.Len() == 0 {
		return nil, nil
	}

	bar := c.progress(false)
	bar.Start(int64(studies.Len()), "Processing...")
	parts := make([]*table.Table, 0, studies.Len())
	for i, studyUID := range studies.Strings("StudyInstanceUID") {
		instances, err := c.retrieveStudy(ctx, studyUID, opts.MetaOnly)
		if err != nil {
			bar.Error(err)
			return nil, err
		}
		part, err := c.writeInstances(instances, opts.Forced, true)
		if err != nil {
			bar.Error(err)
			return nil, err
		}
		parts = append(parts, part)
		bar.Update(int64(i + 1))
	}
	bar.Finish()

	all := table.Concat(parts...)
	all.SortByUID("SOPInstanceUID")
	c.printList(all, "Downloaded studies", "StudyInstanceUID")
	if err := c.writeTable(all, "downloaded_study_instances"); err != nil {
		return nil, err
	}
	c.printSummary(all)
	return all, nil
}

// DownloadSeriesAll searches series across matching studies and
// downloads each match, strictly in order. An empty match set is not
// an error. A failed download or a file collision stops the batch;
// instances written earlier stay.
func (c *Client) DownloadSeriesAll(ctx context.Context, params SearchParams, opts DownloadOptions) (*table.Table, error) {
	series, err := c.querySeries(ctx, params)
	if err != nil {
		return nil, err
	}
	c.log.Infof("Number of series found: %d", series.Len())
	if series.Len() == 0 {
		return nil, nil
	}

	bar := c.progress(false)
	bar.Start(int64(series.Len()), "Processing...")
	parts := make([]*table.Table, 0, series.Len())
	for i := 0; i < series.Len(); i++ {
		studyUID, _ := series.Value(i, "StudyInstanceUID").(string)
		seriesUID, _ := series.Value(i, "SeriesInstanceUID").(string)
		instances, err := c.retrieveSeries(ctx, studyUID, seriesUID, opts.MetaOnly)
		if err != nil {
			bar.Error(err)
			return nil, err
		}
		part, err := c.writeInstances(instances, opts.Forced, true)
		if err != nil {
			bar.Error(err)
			return nil, err
		}
		parts = append(parts, part)
		bar.Update(int64(i + 1))
	}
	bar.Finish()

	all := table.Concat(parts...)
	all.SortByUID("SOPInstanceUID")
	c.printList(all, "Downloaded series", "SeriesInstanceUID")
	if err := c.writeTable(all, "downloaded_series_instances"); err != nil {
		return nil, err
	}
	c.printSummary(all)
	return all, nil
}
