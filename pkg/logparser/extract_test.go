package logparser_test

import (
	"errors"
	"testing"
	"time"

	"github.com/itchyny/timefmt-go"
	"github.com/logparser/logparser-go/pkg/logparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioRaw maps {time:1, level:2, msg:3} by literal group indexes.
func scenarioRaw(msgGroup string) *logparser.RawConfig {
	raw := &logparser.RawConfig{}
	raw.Set("regexp", "regexp", `(\S+) (\w+): (.*)`)
	raw.Set("log_level_map", "log_map_fid", "2")
	raw.Set("log_level_map", "error", "ERROR")
	raw.Set("time_map", "log_time_fid", "1")
	raw.Set("time_map", "time_format", "%Y-%m-%d")
	raw.Set("time_map", "req_format", "%d/%m/%Y")
	raw.Set("regexp_column_map", "time", "1")
	raw.Set("regexp_column_map", "level", "2")
	raw.Set("regexp_column_map", "msg", msgGroup)
	return raw
}

func TestExtract_SingleLine(t *testing.T) {
	cfg := mustLoad(scenarioRaw("3"))

	table, err := logparser.Extract(cfg.Pattern, cfg, "2024-01-01 ERROR: disk full")
	require.NoError(t, err)

	assert.Equal(t, []string{"time", "level", "msg"}, table.Columns)
	require.Len(t, table.Records, 1)
	assert.Equal(t, logparser.Record{"01/01/2024", "ERROR", "disk full"}, table.Records[0])
	assert.Equal(t, []string{"ERROR"}, table.Levels.Sorted())
	assert.Equal(t, 1, table.LevelPosition)
}

func TestExtract_GroupOutOfRange(t *testing.T) {
	cfg := mustLoad(scenarioRaw("4"))

	table, err := logparser.Extract(cfg.Pattern, cfg, "2024-01-01 ERROR: disk full")
	require.Error(t, err)
	assert.Nil(t, table)

	var idxErr *logparser.IndexError
	require.True(t, errors.As(err, &idxErr))
	assert.Equal(t, "msg", idxErr.Column)
	assert.Equal(t, 4, idxErr.Group)
	assert.Equal(t, 3, idxErr.Groups)
}

func TestExtract_GroupZero(t *testing.T) {
	cfg := mustLoad(scenarioRaw("0"))

	_, err := logparser.Extract(cfg.Pattern, cfg, "2024-01-01 ERROR: disk full")
	var idxErr *logparser.IndexError
	require.True(t, errors.As(err, &idxErr))
	assert.Equal(t, 0, idxErr.Group)
}

func TestExtract_EmptyText(t *testing.T) {
	cfg := mustLoad(testRaw())

	table, err := logparser.Extract(cfg.Pattern, cfg, "")
	require.NoError(t, err)
	assert.Empty(t, table.Records)
	assert.Len(t, table.Levels, 0)
	assert.Equal(t, []string{"time", "level", "message"}, table.Columns)
}

func TestExtract_NoMatchWithBadMappingIsNotAnError(t *testing.T) {
	cfg := mustLoad(scenarioRaw("9"))

	table, err := logparser.Extract(cfg.Pattern, cfg, "nothing to see here")
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestExtract_MultipleRecordsInOrder(t *testing.T) {
	cfg := mustLoad(testRaw())

	table, err := logparser.Extract(cfg.Pattern, cfg, testLog)
	require.NoError(t, err)

	require.Len(t, table.Records, 4)
	assert.Equal(t, logparser.Record{"15.01.2024 10:00", "INFO", "service started"}, table.Records[0])
	assert.Equal(t, logparser.Record{"15.01.2024 10:00", "WARN", "cache miss ratio high"}, table.Records[1])
	assert.Equal(t, logparser.Record{"15.01.2024 10:01", "ERROR", "disk full"}, table.Records[2])
	assert.Equal(t, logparser.Record{"15.01.2024 10:02", "INFO", "retrying"}, table.Records[3])
	assert.Equal(t, []string{"ERROR", "INFO", "WARN"}, table.Levels.Sorted())

	msg, ok := table.Value(2, "message")
	assert.True(t, ok)
	assert.Equal(t, "disk full", msg)
	_, ok = table.Value(9, "message")
	assert.False(t, ok)
}

func TestExtract_CRLFInput(t *testing.T) {
	cfg := mustLoad(testRaw())

	table, err := logparser.Extract(cfg.Pattern, cfg, "2024-01-15 10:00:00 [INFO] a\r\n2024-01-15 10:00:01 [WARN] b\r\n")
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "a", table.Records[0][2])
	assert.Equal(t, "b", table.Records[1][2])
}

func TestExtract_Idempotent(t *testing.T) {
	cfg := mustLoad(testRaw())

	first, err := logparser.Extract(cfg.Pattern, cfg, testLog)
	require.NoError(t, err)
	second, err := logparser.Extract(cfg.Pattern, cfg, testLog)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtract_UsesCallTimePattern(t *testing.T) {
	cfg := mustLoad(testRaw())

	// Only lines whose message starts with "r" match the override.
	table, err := logparser.Extract(`(\S+ \S+) \[(\w+)\] (r.*)`, cfg, testLog)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "retrying", table.Records[0][2])
}

func TestExtract_InvalidRegex(t *testing.T) {
	cfg := mustLoad(testRaw())

	table, err := logparser.Extract(`(\S+`, cfg, testLog)
	require.Error(t, err)
	assert.Nil(t, table)

	var reErr *logparser.RegexError
	require.True(t, errors.As(err, &reErr))
	assert.Equal(t, `(\S+`, reErr.Pattern)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestExtract_BadDateAbortsPass(t *testing.T) {
	cfg := mustLoad(testRaw())
	text := testLog + "yesterday noon [INFO] late entry\n"

	table, err := logparser.Extract(cfg.Pattern, cfg, text)
	require.Error(t, err)
	assert.Nil(t, table)

	var dateErr *logparser.DateFormatError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, "time", dateErr.Column)
	assert.Equal(t, "yesterday noon", dateErr.Value)
	assert.Equal(t, "%Y-%m-%d %H:%M:%S", dateErr.Format)
}

func TestExtract_NilConfig(t *testing.T) {
	_, err := logparser.Extract(`(.*)`, nil, "x")
	assert.True(t, errors.Is(err, logparser.ErrNoConfig))
}

func TestExtract_UnmatchedOptionalGroupIsEmpty(t *testing.T) {
	raw := testRaw()
	raw.Set("regexp", "regexp", `(\S+ \S+) \[(\w+)\](?: (x))?`)
	cfg := mustLoad(raw)

	table, err := logparser.Extract(cfg.Pattern, cfg, "2024-01-15 10:00:00 [INFO]")
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "", table.Records[0][2])
}

func TestReformatDate_RoundTrip(t *testing.T) {
	const (
		from = "%Y-%m-%d %H:%M:%S"
		to   = "%Y/%m/%d %H:%M"
	)
	raws := []string{"2024-03-05 14:07:09", "1999-12-31 23:59:59", "2024-02-29 00:00:00"}

	for _, raw := range raws {
		t.Run(raw, func(t *testing.T) {
			formatted, err := logparser.ReformatDate(raw, from, to)
			require.NoError(t, err)

			got, err := timefmt.Parse(formatted, to)
			require.NoError(t, err)
			want, err := timefmt.Parse(raw, from)
			require.NoError(t, err)
			assert.True(t, got.Equal(want.Truncate(time.Minute)), "got %v, want %v", got, want)
		})
	}
}

func TestExtract_ImpossibleDateAbortsPass(t *testing.T) {
	cfg := mustLoad(testRaw())

	for _, value := range []string{"2024-02-30 10:00:00", "2023-02-29 10:00:00", "2024-04-31 10:00:00"} {
		t.Run(value, func(t *testing.T) {
			table, err := logparser.Extract(cfg.Pattern, cfg, testLog+value+" [INFO] rolled over\n")
			require.Error(t, err)
			assert.Nil(t, table)

			var dateErr *logparser.DateFormatError
			require.True(t, errors.As(err, &dateErr))
			assert.Equal(t, value, dateErr.Value)
			assert.True(t, errors.Is(err, logparser.ErrInvalidDate))
		})
	}
}

func TestReformatDate_CalendarCheck(t *testing.T) {
	tests := []struct {
		value   string
		from    string
		want    string
		wantErr bool
	}{
		{value: "2024-02-29", from: "%Y-%m-%d", want: "29.02.2024"},
		{value: "2023-02-29", from: "%Y-%m-%d", wantErr: true},
		{value: "2024-02-30", from: "%Y-%m-%d", wantErr: true},
		{value: "2024-09-31", from: "%Y-%m-%d", wantErr: true},
		{value: "2024-12-31", from: "%Y-%m-%d", want: "31.12.2024"},
		{value: "2023-366", from: "%Y-%j", wantErr: true},
		{value: "Feb 30 2024", from: "%b %d %Y", wantErr: true},
		{value: "2024-3-5", from: "%Y-%m-%d", want: "05.03.2024"},
		{value: "2024-03-05 10:00:00.5", from: "%Y-%m-%d %H:%M:%S.%f", want: "05.03.2024"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := logparser.ReformatDate(tt.value, tt.from, "%d.%m.%Y")
			if tt.wantErr {
				assert.ErrorIs(t, err, logparser.ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReformatDate_Mismatch(t *testing.T) {
	_, err := logparser.ReformatDate("15/01/2024", "%Y-%m-%d", "%d.%m.%Y")
	assert.Error(t, err)
}
