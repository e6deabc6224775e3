// Package client implements the search, download and presentation
// workflows on top of the DICOMweb transport.
package client

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hirsch-lab/kheops-client/internal/config"
	"github.com/hirsch-lab/kheops-client/internal/dicomweb"
	"github.com/hirsch-lab/kheops-client/internal/logging"
	"github.com/hirsch-lab/kheops-client/internal/progress"
	"github.com/hirsch-lab/kheops-client/internal/table"
)

// DefaultOutDir is used when no output directory is specified.
const DefaultOutDir = "downloads"

// Client drives the workflows of one invocation. It is immutable after
// construction; all per-call inputs travel as explicit arguments.
type Client struct {
	web          *dicomweb.Client
	outDir       string
	dryRun       bool
	showProgress bool
	log          *logging.Logger
	stdout       io.Writer
	now          func() time.Time
}

// SearchParams parametrize a study or series search.
type SearchParams struct {
	// Filters maps attribute keywords to match values.
	Filters map[string]string
	// Fuzzy enables fuzzy semantic matching.
	Fuzzy bool
	// Limit caps the number of top-level results; zero means no limit.
	Limit int
	// Offset skips the first top-level results.
	Offset int
}

// DownloadOptions parametrize a download.
type DownloadOptions struct {
	// MetaOnly fetches metadata without bulk data.
	MetaOnly bool
	// Forced overwrites existing output files instead of failing.
	Forced bool
}

// New creates a client from validated configuration. Configuration
// problems surface here, before any network request.
func New(cfg *config.Config, outDir string, dryRun bool) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if outDir == "" {
		outDir = DefaultOutDir
	}
	c := &Client{
		web:          dicomweb.NewClient(cfg.URL, cfg.AccessToken),
		outDir:       outDir,
		dryRun:       dryRun,
		showProgress: cfg.ShowProgress,
		log:          logging.NewDefaultLogger(),
		stdout:       os.Stdout,
		now:          time.Now,
	}
	c.printStatus()
	return c, nil
}

func (c *Client) printStatus() {
	c.log.Info().Msg("Client configuration:")
	c.log.Infof("    URL:    %s", c.web.BaseURL())
	c.log.Infof("    Dryrun: %t", c.dryRun)
}

// progress returns a reporter for one phase. The inner reporter of a
// bulk download is suppressed so that only the outer bar renders.
func (c *Client) progress(suppress bool) progress.Reporter {
	return progress.New(c.showProgress && !suppress)
}

func (c *Client) printList(tab *table.Table, label, column string) {
	tab.PrintList(c.stdout, label, column)
}

func (c *Client) printSummary(tab *table.Table) {
	tab.PrintSummary(c.stdout)
}

// writeTable persists the table as a timestamped CSV file in the
// output directory. Dry runs skip the write entirely.
func (c *Client) writeTable(tab *table.Table, label string) error {
	if c.dryRun {
		return nil
	}
	name, err := tab.WriteCSV(c.outDir, label, c.now())
	if err != nil {
		return fmt.Errorf("failed to write result table: %w", err)
	}
	fmt.Fprintln(c.stdout)
	fmt.Fprintln(c.stdout, "Created file:")
	fmt.Fprintf(c.stdout, "    %s\n", name)
	return nil
}
