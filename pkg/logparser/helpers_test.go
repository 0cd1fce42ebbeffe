package logparser_test

import (
	"github.com/logparser/logparser-go/pkg/logparser"
)

// testRaw returns a configuration for lines like
// "2024-01-15 10:00:00 [ERROR] disk full".
func testRaw() *logparser.RawConfig {
	raw := &logparser.RawConfig{}
	raw.Set("regexp", "regexp", `(\S+ \S+) \[(\w+)\] (.*)`)
	raw.Set("log_level_map", "log_map_fid", "2")
	raw.Set("log_level_map", "error", `"ERROR"`)
	raw.Set("log_level_map", "warn", `"WARN"`)
	raw.Set("log_level_map", "info", `"INFO"`)
	raw.Set("time_map", "log_time_fid", "1")
	raw.Set("time_map", "time_format", "%Y-%m-%d %H:%M:%S")
	raw.Set("time_map", "req_format", "%d.%m.%Y %H:%M")
	raw.Set("regexp_column_map", "time", "log_time_fid")
	raw.Set("regexp_column_map", "level", "log_map_fid")
	raw.Set("regexp_column_map", "message", "3")
	return raw
}

func mustLoad(raw *logparser.RawConfig) *logparser.Config {
	cfg, err := logparser.LoadConfig(raw)
	if err != nil {
		panic(err)
	}
	return cfg
}

const testLog = `2024-01-15 10:00:00 [INFO] service started
2024-01-15 10:00:05 [WARN] cache miss ratio high
2024-01-15 10:01:00 [ERROR] disk full
2024-01-15 10:02:30 [INFO] retrying
`
