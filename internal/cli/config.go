package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hirsch-lab/kheops-client/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the client configuration",
		Long: `Configuration management for kheops-client.

Commands:
  set   - Persist the repository URL and access token
  show  - Display the resolved configuration
  path  - Show the configuration file path`,
	}

	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigSetCmd creates the 'config set' command.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Persist the repository URL and access token",
		Long: `Resolve the repository URL and access token from --url and
--token, the ACCESS_TOKEN environment variable and the existing config
file, and write them to the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path := cfgFile
			if path == "" {
				path, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}

			GetLogger().Info().Str("path", path).Msg("Configuration saved")
			fmt.Printf("Configuration saved to: %s\n", path)
			return nil
		},
	}
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the resolved configuration",
		Long: `Display the configuration as the other commands would see it,
merged from flags, the ACCESS_TOKEN environment variable and the
config file. Priority: flags > environment > config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if cfg.URL != "" {
				fmt.Printf("URL:          %s\n", cfg.URL)
			} else {
				fmt.Println("URL:          <not set>")
			}
			// The token is sensitive and never printed.
			if cfg.AccessToken != "" {
				fmt.Printf("Access token: <set (%d chars)>\n", len(cfg.AccessToken))
			} else {
				fmt.Println("Access token: <not set>")
			}

			path := cfgFile
			if path == "" {
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			fmt.Printf("Config file:  %s\n", path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Println("  (file does not exist)")
			}
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			fmt.Println(path)
			return nil
		},
	}
}
