package cli

import (
	"github.com/spf13/cobra"

	"github.com/hirsch-lab/kheops-client/internal/client"
)

// downloadFlags holds the I/O options of the download commands.
type downloadFlags struct {
	outDir   string
	forced   bool
	metaOnly bool
	dryRun   bool
}

func (f *downloadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", "./downloads", "Output directory")
	cmd.Flags().BoolVarP(&f.forced, "forced", "f", false, "Overwrite existing files or folders")
	cmd.Flags().BoolVarP(&f.metaOnly, "meta-only", "m", false, "Query only the DICOM meta data")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "d", false, "Dry run, no write actions")
}

func (f *downloadFlags) options() client.DownloadOptions {
	return client.DownloadOptions{
		MetaOnly: f.metaOnly,
		Forced:   f.forced,
	}
}

// newDownloadCmd creates the download command group.
func newDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download series or studies from the DICOM repository",
	}
	cmd.AddCommand(newDownloadStudiesCmd())
	cmd.AddCommand(newDownloadSeriesCmd())
	return cmd
}

func newDownloadStudiesCmd() *cobra.Command {
	var search searchFlags
	var io downloadFlags

	cmd := &cobra.Command{
		Use:   "studies",
		Short: "Download single or multiple studies from the DICOM repository",
		Long: `Download studies from the DICOM repository.

With --study-uid, download exactly that study. Otherwise, search the
repository with the given filters and download every matching study.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := search.params()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := client.New(cfg, io.outDir, io.dryRun)
			if err != nil {
				return err
			}
			if search.studyUID != "" {
				GetLogger().Debug().Msg("Action: download single study")
				_, err = c.DownloadStudy(GetContext(), search.studyUID, io.options())
				return err
			}
			GetLogger().Debug().Msg("Action: download multiple studies")
			_, err = c.DownloadStudies(GetContext(), params, io.options())
			return err
		},
	}
	search.register(cmd)
	io.register(cmd)
	return cmd
}

func newDownloadSeriesCmd() *cobra.Command {
	var search searchFlags
	var io downloadFlags

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Download single or multiple series from the DICOM repository",
		Long: `Download series from the DICOM repository.

With both --study-uid and --series-uid, download exactly that series.
Otherwise, search the repository with the given filters and download
every matching series.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := search.params()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := client.New(cfg, io.outDir, io.dryRun)
			if err != nil {
				return err
			}
			if search.studyUID != "" && search.seriesUID != "" {
				GetLogger().Debug().Msg("Action: download single series")
				_, err = c.DownloadSeries(GetContext(), search.studyUID, search.seriesUID, io.options())
				return err
			}
			GetLogger().Debug().Msg("Action: download multiple series")
			_, err = c.DownloadSeriesAll(GetContext(), params, io.options())
			return err
		},
	}
	search.register(cmd)
	io.register(cmd)
	return cmd
}
