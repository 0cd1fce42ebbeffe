package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/logparser/logparser-go/pkg/logparser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Level states printed by the levels command.
const (
	levelConfigured = "configured"
	levelMissing    = "missing"
	levelNumeric    = "numeric"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show configured or observed level labels",
	Long: `Show the level labels of an extraction config.

With --log the log is extracted and every observed level is printed with its
state: configured, missing (not in the config) or numeric (configured and
always shown).
The command fails when any level is missing.

Examples:
  logparser levels --config app
  logparser levels --config app --log app.log`,
	RunE: runLevels,
}

var (
	levelsConfig string
	levelsLog    string
)

func init() {
	levelsCmd.Flags().StringVarP(&levelsConfig, "config", "c", "",
		"config name in the config directory, or a path to a config file")
	levelsCmd.Flags().StringVarP(&levelsLog, "log", "l", "",
		`log file to check ("-" for stdin)`)
	_ = levelsCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(levelsCmd)
}

func runLevels(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	return executeLevels(viper.GetString("config_dir"), levelsConfig, levelsLog,
		cmd.InOrStdin(), cmd.OutOrStdout(), logger)
}

func executeLevels(configDir, name, logPath string, stdin io.Reader, out io.Writer, logger *slog.Logger) error {
	s, err := openSession(configDir, name, logger)
	if err != nil {
		return err
	}
	cfg := s.Config()

	if logPath == "" {
		for _, e := range cfg.Levels.Entries {
			state := levelConfigured
			if logparser.IsNumericLabel(e.Label) {
				state = levelNumeric
			}
			if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", e.Label, e.Key, state); err != nil {
				return err
			}
		}
		return nil
	}

	text, err := readLog(logPath, stdin)
	if err != nil {
		return err
	}
	t, err := s.Extract(text)
	if err != nil {
		return err
	}

	for _, level := range t.Levels.Sorted() {
		if _, err := fmt.Fprintf(out, "%s\t%s\n", level, levelState(level, cfg.Levels)); err != nil {
			return err
		}
	}
	if missing := s.MissingLevels(); len(missing) > 0 {
		return &logparser.MissingLevelError{Labels: missing}
	}
	return nil
}

func levelState(level string, lm logparser.LevelMap) string {
	switch {
	case !lm.Has(level):
		return levelMissing
	case logparser.IsNumericLabel(level):
		return levelNumeric
	default:
		return levelConfigured
	}
}
