package cli

import (
	"github.com/spf13/cobra"

	"github.com/hirsch-lab/kheops-client/internal/client"
)

// newListCmd creates the list command group.
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available series or studies in the DICOM repository",
	}
	cmd.AddCommand(newListStudiesCmd())
	cmd.AddCommand(newListSeriesCmd())
	return cmd
}

func newListStudiesCmd() *cobra.Command {
	var search searchFlags
	var outDir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "studies",
		Short: "List studies available in the DICOM repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := search.params()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := client.New(cfg, outDir, dryRun)
			if err != nil {
				return err
			}
			_, err = c.ListStudies(GetContext(), params)
			return err
		},
	}
	search.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "./downloads", "Output directory")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Dry run, no write actions")
	return cmd
}

func newListSeriesCmd() *cobra.Command {
	var search searchFlags
	var outDir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "series",
		Short: "List series available in the DICOM repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := search.params()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := client.New(cfg, outDir, dryRun)
			if err != nil {
				return err
			}
			_, err = c.ListSeries(GetContext(), params)
			return err
		},
	}
	search.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "./downloads", "Output directory")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Dry run, no write actions")
	return cmd
}
