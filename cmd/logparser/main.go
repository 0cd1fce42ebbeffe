package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	configDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "logparser",
	Short: "Extract, filter and export structured rows from log files",
	Long: `logparser turns unstructured log text into a table using a regular
expression and a column mapping stored in a configuration file, then filters
the rows by level and exports them as delimited text.

Configuration files live in the config directory (./configs by default) as
INI or YAML files; refer to them by name without extension.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "settings", "",
		"settings file (default: $HOME/.logparser.yaml)")
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "C", "",
		"directory holding extraction configs (default: $LOGPARSER_CONFIG_DIR or ./configs)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"print debug logs to stderr")

	_ = viper.BindPFlag("config_dir", rootCmd.PersistentFlags().Lookup("config-dir"))
}

// initConfig reads the settings file and LOGPARSER_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".logparser")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LOGPARSER")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		newLogger(os.Stderr, verbose).Debug("settings loaded", "file", filepath.Base(viper.ConfigFileUsed()))
	}
}

// newLogger returns a text logger on w; debug records are kept only when
// verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
