package main

import (
	"fmt"
	"io"

	"github.com/logparser/logparser-go/internal/configfinder"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "List available extraction configs",
	Long: `List the extraction configs found in the config directory.

The default directory (./configs) is created if it does not exist yet.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listConfigs(viper.GetString("config_dir"), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configsCmd)
}

func listConfigs(dir string, out io.Writer) error {
	resolved, err := configfinder.FindConfigDir(dir, true)
	if err != nil {
		return err
	}
	names, err := configfinder.List(resolved)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}
