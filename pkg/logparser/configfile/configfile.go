// Package configfile reads extraction configurations from INI or YAML files
// into a logparser.RawConfig.
//
// Example INI file:
//
//	[regexp]
//	regexp = (\S+ \S+) \[(\w+)\] (.*)
//
//	[log_level_map]
//	log_map_fid = 2
//	error = "ERROR"
//
//	[time_map]
//	log_time_fid = 1
//	time_format = %%Y-%%m-%%d %%H:%%M:%%S
//	req_format = %%d.%%m.%%Y %%H:%%M
//
//	[regexp_column_map]
//	time = log_time_fid
//	level = log_map_fid
//	message = 3
//
// The same configuration in YAML:
//
//	regexp:
//	  regexp: '(\S+ \S+) \[(\w+)\] (.*)'
//	log_level_map:
//	  log_map_fid: 2
//	  error: ERROR
//	time_map:
//	  log_time_fid: 1
//	  time_format: '%Y-%m-%d %H:%M:%S'
//	  req_format: '%d.%m.%Y %H:%M'
//	regexp_column_map:
//	  time: log_time_fid
//	  level: log_map_fid
//	  message: 3
package configfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/logparser/logparser-go/internal/safefile"
	"github.com/logparser/logparser-go/pkg/logparser"
)

// MaxFileSize is the maximum allowed size for a configuration file (1MB).
const MaxFileSize = 1 * 1024 * 1024

// Format is a configuration file syntax.
type Format int

const (
	// FormatINI is the sectioned key = value syntax.
	FormatINI Format = iota
	// FormatYAML is a mapping of section names to mappings.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatINI:
		return "ini"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extensions lists the recognized file extensions, INI first.
var Extensions = []string{".ini", ".cfg", ".conf", ".yaml", ".yml"}

// ErrUnknownFormat is returned for a file extension that is not recognized.
var ErrUnknownFormat = errors.New("unknown configuration format")

// DetectFormat returns the format implied by the extension of path.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".cfg", ".conf":
		return FormatINI, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// sanitizePathError removes the path from os.PathError so error messages
// don't expose file system paths.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

// Load reads the configuration file at path. The format is chosen from the
// file extension. Only regular files up to MaxFileSize are read.
func Load(path string) (*logparser.RawConfig, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := safefile.ReadLimited(path, MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", sanitizePathError(err))
	}
	return LoadBytes(data, format)
}

// LoadBytes decodes a configuration from data.
func LoadBytes(data []byte, format Format) (*logparser.RawConfig, error) {
	if len(data) == 0 {
		return nil, errors.New("config file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	switch format {
	case FormatINI:
		return decodeINI(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// LoadConfig reads path and builds a logparser.Config from it.
func LoadConfig(path string) (*logparser.Config, error) {
	raw, err := Load(path)
	if err != nil {
		return nil, err
	}
	return logparser.LoadConfig(raw)
}
