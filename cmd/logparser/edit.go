package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/logparser/logparser-go/internal/configfinder"
	"github.com/logparser/logparser-go/internal/safefile"
	"github.com/logparser/logparser-go/pkg/logparser/configfile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configTemplate seeds configs created by the edit command.
const configTemplate = `[regexp]
regexp = (\S+ \S+) \[(\w+)\] (.*)

[log_level_map]
log_map_fid = 2
error = "ERROR"
warn = "WARN"
info = "INFO"

[time_map]
log_time_fid = 1
time_format = %%Y-%%m-%%d %%H:%%M:%%S
req_format = %%d.%%m.%%Y %%H:%%M:%%S

[regexp_column_map]
time = log_time_fid
level = log_map_fid
message = 3
`

var editCmd = &cobra.Command{
	Use:   "edit NAME",
	Short: "Open an extraction config in your editor",
	Long: `Open an extraction config in $VISUAL or $EDITOR and validate it once the
editor exits.

A config that does not exist yet is created as NAME.ini from a template.`,
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		dir, err := configfinder.FindConfigDir(viper.GetString("config_dir"), false)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names, _ := configfinder.List(dir)
		return names, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd.ErrOrStderr(), verbose)
		return executeEdit(viper.GetString("config_dir"), args[0], editorCommand(), cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}

// editorCommand returns $VISUAL, then $EDITOR, then a platform default.
func editorCommand() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

func executeEdit(configDir, name, editor string, out io.Writer, logger *slog.Logger) error {
	dir, err := configfinder.FindConfigDir(configDir, true)
	if err != nil {
		return err
	}

	path, err := configfinder.Resolve(dir, name)
	if errors.Is(err, configfinder.ErrConfigNotFound) {
		path, err = createConfig(dir, name)
		if err != nil {
			return err
		}
		logger.Debug("config created", "name", name)
	}
	if err != nil {
		return err
	}

	if err := runEditor(editor, path); err != nil {
		return err
	}

	if _, err := configfile.LoadConfig(path); err != nil {
		return fmt.Errorf("config %s is invalid: %w", name, err)
	}
	_, err = fmt.Fprintf(out, "config %s is valid\n", name)
	return err
}

func createConfig(dir, name string) (string, error) {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid config name %q", name)
	}
	path := filepath.Join(dir, name+".ini")
	err := safefile.WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, err := io.WriteString(w, configTemplate)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("creating config %s: %w", name, err)
	}
	return path, nil
}

func runEditor(editor, path string) error {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return errors.New("no editor configured: set $VISUAL or $EDITOR")
	}
	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running editor %s: %w", fields[0], err)
	}
	return nil
}
