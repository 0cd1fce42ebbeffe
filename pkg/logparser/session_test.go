package logparser_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/logparser/logparser-go/pkg/logparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedSession(t *testing.T, opts ...logparser.SessionOption) *logparser.Session {
	t.Helper()
	s := logparser.NewSession(opts...)
	require.NoError(t, s.LoadConfig(testRaw()))
	return s
}

func TestSession_LoadConfigSeedsSelection(t *testing.T) {
	s := loadedSession(t)

	require.NotNil(t, s.Config())
	assert.Equal(t, s.Config().Pattern, s.Pattern())
	assert.Equal(t, logparser.Selection{"ERROR": false, "WARN": false, "INFO": false}, s.Selection())
	assert.Nil(t, s.Table())
}

func TestSession_FailedLoadKeepsPriorState(t *testing.T) {
	s := loadedSession(t)
	_, err := s.Extract(testLog)
	require.NoError(t, err)
	require.NoError(t, s.SetVisible("ERROR", true))
	prevCfg, prevTable := s.Config(), s.Table()

	bad := testRaw()
	bad.Sections = bad.Sections[:2]
	err = s.LoadConfig(bad)

	var cfgErr *logparser.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Same(t, prevCfg, s.Config())
	assert.Same(t, prevTable, s.Table())
	assert.True(t, s.Selection()["ERROR"])
}

func TestSession_ReloadReplacesState(t *testing.T) {
	s := loadedSession(t)
	_, err := s.Extract(testLog)
	require.NoError(t, err)
	require.NoError(t, s.SetVisible("ERROR", true))
	s.SetPattern(`(x)`)

	require.NoError(t, s.LoadConfig(testRaw()))
	assert.Nil(t, s.Table())
	assert.Nil(t, s.Visibility())
	assert.False(t, s.Selection()["ERROR"])
	assert.Equal(t, s.Config().Pattern, s.Pattern())
}

func TestSession_ExtractRequiresConfig(t *testing.T) {
	s := logparser.NewSession()
	_, err := s.Extract(testLog)
	assert.True(t, errors.Is(err, logparser.ErrNoConfig))
}

func TestSession_FailedExtractKeepsTable(t *testing.T) {
	s := loadedSession(t)
	table, err := s.Extract(testLog)
	require.NoError(t, err)

	s.SetPattern(`(\S+ \S+) \[(\w+)\]`) // message group 3 no longer exists
	_, err = s.Extract(testLog)
	var idxErr *logparser.IndexError
	require.True(t, errors.As(err, &idxErr))
	assert.Equal(t, "message", idxErr.Column)
	assert.Equal(t, 3, idxErr.Group)
	assert.Same(t, table, s.Table())

	s.SetPattern(`(`)
	_, err = s.Extract(testLog)
	var reErr *logparser.RegexError
	require.True(t, errors.As(err, &reErr))
	assert.Same(t, table, s.Table())
}

func TestSession_FilterAndExport(t *testing.T) {
	s := loadedSession(t)
	_, err := s.Extract(testLog)
	require.NoError(t, err)

	require.NoError(t, s.SetVisible("ERROR", true))
	on, err := s.Toggle("WARN")
	require.NoError(t, err)
	assert.True(t, on)

	visible, err := s.Filter()
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true, false}, visible)
	assert.Equal(t, visible, s.Visibility())
	assert.Len(t, s.VisibleRecords(), 2)

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf))
	assert.Equal(t,
		"time;level;message\n"+
			"15.01.2024 10:00;WARN;cache miss ratio high\n"+
			"15.01.2024 10:01;ERROR;disk full\n",
		buf.String())
}

func TestSession_ExportBeforeFilterWritesAllRows(t *testing.T) {
	s := loadedSession(t, logparser.WithExportDelimiter('|'))
	_, err := s.Extract(testLog)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf))
	assert.Equal(t, 5, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Contains(t, buf.String(), "time|level|message\n")
}

func TestSession_ExportWithoutTableIsNoop(t *testing.T) {
	s := loadedSession(t)
	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf))
	assert.Zero(t, buf.Len())

	_, err := s.Extract("")
	require.NoError(t, err)
	require.NoError(t, s.Export(&buf))
	assert.Zero(t, buf.Len())
}

func TestSession_FilterRefusedOnMissingLevel(t *testing.T) {
	raw := testRaw()
	raw.Sections[1].Entries = []logparser.RawEntry{
		{Key: "log_map_fid", Value: "2"},
		{Key: "error", Value: "ERROR"},
		{Key: "info", Value: "INFO"},
	}
	s := logparser.NewSession()
	require.NoError(t, s.LoadConfig(raw))
	_, err := s.Extract(testLog)
	require.NoError(t, err)

	assert.Equal(t, []string{"WARN"}, s.MissingLevels())
	_, err = s.Filter()
	var missing *logparser.MissingLevelError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"WARN"}, missing.Labels)
	assert.Nil(t, s.Visibility())
}

func TestSession_FilterPreconditions(t *testing.T) {
	s := logparser.NewSession()
	_, err := s.Filter()
	assert.True(t, errors.Is(err, logparser.ErrNoConfig))

	require.NoError(t, s.LoadConfig(testRaw()))
	_, err = s.Filter()
	assert.True(t, errors.Is(err, logparser.ErrNoTable))
}

func TestSession_SelectionErrors(t *testing.T) {
	s := logparser.NewSession()
	assert.True(t, errors.Is(s.SetVisible("ERROR", true), logparser.ErrNoConfig))
	_, err := s.Toggle("ERROR")
	assert.True(t, errors.Is(err, logparser.ErrNoConfig))

	require.NoError(t, s.LoadConfig(testRaw()))
	assert.True(t, errors.Is(s.SetVisible("FATAL", true), logparser.ErrUnknownLevel))
	_, err = s.Toggle("FATAL")
	assert.True(t, errors.Is(err, logparser.ErrUnknownLevel))
}

func TestSession_Reset(t *testing.T) {
	s := loadedSession(t)
	_, err := s.Extract(testLog)
	require.NoError(t, err)

	s.Reset()
	assert.Nil(t, s.Config())
	assert.Nil(t, s.Table())
	assert.Empty(t, s.Pattern())
	assert.Empty(t, s.Selection())
	assert.Nil(t, s.VisibleRecords())
}

func TestSession_SetConfig(t *testing.T) {
	s := logparser.NewSession()
	assert.True(t, errors.Is(s.SetConfig(nil), logparser.ErrNoConfig))
	require.NoError(t, s.SetConfig(mustLoad(testRaw())))
	assert.NotNil(t, s.Config())
}

func TestSession_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := loadedSession(t, logparser.WithLogger(logger))

	_, err := s.Extract(testLog)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "config loaded")
	assert.Contains(t, buf.String(), "extraction done")
	assert.Contains(t, buf.String(), "records=4")
}
