package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/grantlight/enrich/internal/adapters/driven/config/file"
)

var settingsInit bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the effective pipeline settings",
	RunE:  runSettings,
}

func init() {
	settingsCmd.Flags().BoolVar(&settingsInit, "init", false, "write the effective settings to the config file")
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, _ []string) error {
	store, err := file.NewSettingsStore(configDir)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}

	settings, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	if settingsInit {
		if err := store.Save(settings); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		cmd.Printf("Wrote %s\n", store.Path())
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	cmd.Print(string(data))
	return nil
}
