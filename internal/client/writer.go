package client

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hirsch-lab/kheops-client/internal/dicomweb"
	"github.com/hirsch-lab/kheops-client/internal/table"
)

// writeInstances persists downloaded instances to the output directory
// as <SeriesInstanceUID>/<SOPInstanceUID>.dcm and returns the instance
// table with a FileSize column merged in. Dry runs return the table
// without writing and without FileSize. An existing target file stops
// the batch unless forced; files written earlier in the batch stay.
func (c *Client) writeInstances(instances []*dicomweb.Instance, forced, suppressProgress bool) (*table.Table, error) {
	tab, err := instancesToTable(instances)
	if err != nil {
		return nil, err
	}
	if c.dryRun {
		return tab, nil
	}

	if err := os.MkdirAll(c.outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	bar := c.progress(suppressProgress)
	bar.Start(int64(len(instances)), "Writing data...")
	sizes := make(map[string]int64, len(instances))
	for i, inst := range instances {
		dir := filepath.Join(c.outDir, inst.SeriesInstanceUID())
		if err := os.MkdirAll(dir, 0755); err != nil {
			bar.Error(err)
			return nil, fmt.Errorf("failed to create series directory: %w", err)
		}
		path := filepath.Join(dir, inst.SOPInstanceUID()+".dcm")
		if !forced {
			if _, err := os.Stat(path); err == nil {
				err := fmt.Errorf("%w: %s", ErrFileExists, path)
				bar.Error(err)
				return nil, err
			}
		}
		data, err := inst.Encode()
		if err != nil {
			bar.Error(err)
			return nil, err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			bar.Error(err)
			return nil, fmt.Errorf("failed to write instance: %w", err)
		}
		sizes[inst.SOPInstanceUID()] = int64(len(data))
		bar.Update(int64(i + 1))
	}
	bar.Finish()

	tab.MergeInt64By("SOPInstanceUID", "FileSize", sizes)
	return tab, nil
}
