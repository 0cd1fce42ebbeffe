// Package logparser extracts structured records from unstructured log text
// using a regular expression and a declarative column mapping, then
// classifies, filters and exports them.
//
// This package allows you to:
//   - Turn capture groups into named columns, with time and level roles
//   - Normalize the time column from one strftime format to another
//   - Check observed levels against the configured level map
//   - Hide or show rows per level and export the visible ones as CSV
//
// # Configuration
//
// A configuration has four sections. In INI form:
//
//	[regexp]
//	regexp = (\S+ \S+) \[(\w+)\] (.*)
//
//	[log_level_map]
//	log_map_fid = 2
//	error = "ERROR"
//	warn = "WARN"
//
//	[time_map]
//	log_time_fid = 1
//	time_format = %Y-%m-%d %H:%M:%S
//	req_format = %d.%m.%Y %H:%M:%S
//
//	[regexp_column_map]
//	time = log_time_fid
//	level = log_map_fid
//	message = 3
//
// Column values that are digits name a capture group. A value naming a
// time_map key selects the time group; any other word selects the level
// group. Use the [configfile] subpackage to read such files into a
// [RawConfig].
//
// # Basic Usage
//
//	s := logparser.NewSession()
//	if err := s.LoadConfig(raw); err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := s.Extract(text); err != nil {
//	    log.Fatal(err)
//	}
//	_ = s.SetVisible("ERROR", true)
//	if _, err := s.Filter(); err != nil {
//	    var missing *logparser.MissingLevelError
//	    if errors.As(err, &missing) {
//	        log.Fatalf("configure levels: %v", missing.Labels)
//	    }
//	    log.Fatal(err)
//	}
//	err := s.Export(os.Stdout)
//
// The stateless functions [Extract], [CheckMissing], [ComputeVisibility] and
// [WriteDelimited] are the building blocks Session is made of.
//
// # Level Labels
//
// Numeric labels of the level map bypass classification. They get no entry
// in a [Selection] and their rows are always visible. A numeric level the
// map does not register is reported by [CheckMissing] like any other.
package logparser
