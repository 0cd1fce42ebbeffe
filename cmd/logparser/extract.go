package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/logparser/logparser-go/internal/configfinder"
	"github.com/logparser/logparser-go/internal/safefile"
	"github.com/logparser/logparser-go/pkg/logparser"
	"github.com/logparser/logparser-go/pkg/logparser/configfile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// maxLogSize bounds how much log text is read into memory.
const maxLogSize = 256 * 1024 * 1024

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract rows from a log file",
	Long: `Extract rows from a log file (or stdin) using an extraction config.

Rows are printed as an aligned table by default. Use --show to keep only
rows of the given levels, or --all to keep every configured level. The
command fails when the log contains levels the config does not map.

Examples:
  # Print every row of app.log using configs/app.ini
  logparser extract --config app --log app.log

  # Keep ERROR and WARN rows and save them as CSV
  logparser extract -c app -l app.log -s ERROR -s WARN -f csv -o out.csv

  # Try another pattern without editing the config
  logparser extract -c app -l app.log -p '(\S+) (\w+): (.*)'

  # Read from stdin
  cat app.log | logparser extract -c app`,
	RunE: runExtract,
}

var (
	extractConfig    string
	extractLog       string
	extractPattern   string
	extractShow      []string
	extractAll       bool
	extractFormat    string
	extractOut       string
	extractDelimiter string
)

func init() {
	extractCmd.Flags().StringVarP(&extractConfig, "config", "c", "",
		"config name in the config directory, or a path to a config file")
	extractCmd.Flags().StringVarP(&extractLog, "log", "l", "",
		"log file to read (default: stdin)")
	extractCmd.Flags().StringVarP(&extractPattern, "pattern", "p", "",
		"override the config's regular expression")
	extractCmd.Flags().StringSliceVarP(&extractShow, "show", "s", nil,
		"level labels to keep (repeatable, comma-separated)")
	extractCmd.Flags().BoolVar(&extractAll, "all", false,
		"keep every configured level")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "table",
		"output format: table, csv, jsonl")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "",
		"write output to file instead of stdout")
	extractCmd.Flags().StringVarP(&extractDelimiter, "delimiter", "d", ";",
		`csv field delimiter ("\t" or "tab" for a tab)`)

	_ = extractCmd.MarkFlagRequired("config")
	_ = viper.BindPFlag("format", extractCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("delimiter", extractCmd.Flags().Lookup("delimiter"))

	rootCmd.AddCommand(extractCmd)
}

// extractOptions holds everything runExtract reads from flags and settings.
type extractOptions struct {
	ConfigDir string
	Config    string
	Log       string
	Pattern   string
	Show      []string
	All       bool
	Format    string
	Out       string
	Delimiter string
	Color     bool
}

func runExtract(cmd *cobra.Command, args []string) error {
	opts := extractOptions{
		ConfigDir: viper.GetString("config_dir"),
		Config:    extractConfig,
		Log:       extractLog,
		Pattern:   extractPattern,
		Show:      extractShow,
		All:       extractAll,
		Format:    viper.GetString("format"),
		Out:       extractOut,
		Delimiter: viper.GetString("delimiter"),
		Color:     extractOut == "",
	}
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	return executeExtract(opts, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
}

// executeExtract runs one extraction and writes the result to out, or to
// opts.Out atomically when set.
func executeExtract(opts extractOptions, stdin io.Reader, out io.Writer, logger *slog.Logger) error {
	if !ValidFormats[opts.Format] {
		return fmt.Errorf("invalid format %q: must be table, csv or jsonl", opts.Format)
	}
	delimiter, err := parseDelimiter(opts.Delimiter)
	if err != nil {
		return err
	}

	s, err := openSession(opts.ConfigDir, opts.Config, logger)
	if err != nil {
		return err
	}
	if opts.Pattern != "" {
		s.SetPattern(opts.Pattern)
	}

	text, err := readLog(opts.Log, stdin)
	if err != nil {
		return err
	}
	if _, err := s.Extract(text); err != nil {
		return err
	}
	if missing := s.MissingLevels(); len(missing) > 0 {
		return &logparser.MissingLevelError{Labels: missing}
	}

	if opts.All || len(opts.Show) > 0 {
		if err := applySelection(s, opts.Show, opts.All); err != nil {
			return err
		}
		if _, err := s.Filter(); err != nil {
			return err
		}
	}

	render := func(w io.Writer) error {
		switch opts.Format {
		case "csv":
			return OutputCSV(s.Table(), s.Visibility(), delimiter, w)
		case "jsonl":
			return OutputJSONL(s.Table(), s.Visibility(), w)
		default:
			return OutputTable(s.Table(), s.Visibility(), opts.Color, w)
		}
	}

	if opts.Out == "" {
		return render(out)
	}
	if err := safefile.WriteAtomic(opts.Out, 0o644, render); err != nil {
		return fmt.Errorf("writing %s: %w", opts.Out, err)
	}
	logger.Debug("output written", "rows", len(s.VisibleRecords()), "format", opts.Format)
	return nil
}

// openSession resolves a config by name or path and loads it into a new
// session.
func openSession(configDir, name string, logger *slog.Logger) (*logparser.Session, error) {
	path, err := resolveConfig(configDir, name)
	if err != nil {
		return nil, err
	}
	raw, err := configfile.Load(path)
	if err != nil {
		return nil, err
	}

	s := logparser.NewSession(logparser.WithLogger(logger))
	if err := s.LoadConfig(raw); err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}
	return s, nil
}

func resolveConfig(configDir, name string) (string, error) {
	dir, err := configfinder.FindConfigDir(configDir, false)
	if err != nil && !errors.Is(err, configfinder.ErrConfigDirNotFound) {
		return "", err
	}
	// Without a config directory only explicit paths resolve.
	return configfinder.Resolve(dir, name)
}

func applySelection(s *logparser.Session, show []string, all bool) error {
	if all {
		for label := range s.Selection() {
			if err := s.SetVisible(label, true); err != nil {
				return err
			}
		}
	}
	for _, label := range show {
		if err := s.SetVisible(label, true); err != nil {
			return err
		}
	}
	return nil
}

func readLog(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(io.LimitReader(stdin, maxLogSize+1))
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		if len(data) > maxLogSize {
			return "", fmt.Errorf("stdin: %w: more than %d bytes", safefile.ErrTooLarge, maxLogSize)
		}
		return string(data), nil
	}

	data, err := safefile.ReadLimited(path, maxLogSize)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return "", fmt.Errorf("reading log: %w", pathErr.Err)
		}
		return "", fmt.Errorf("reading log %s: %w", path, err)
	}
	return string(data), nil
}
