package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eos-mcp/internal/config"
	"eos-mcp/internal/feedback"
	"eos-mcp/internal/history"
	"eos-mcp/internal/query"
	"eos-mcp/internal/storage"
)

func TestSetupReportsDisabled(t *testing.T) {
	svc := query.NewService(history.NewStore(10))
	assert.Nil(t, setupReports(&config.Config{}, svc))
}

func TestSetupReportsBadScheduleContinues(t *testing.T) {
	svc := query.NewService(history.NewStore(10))
	cfg := &config.Config{
		ReportPath:     filepath.Join(t.TempDir(), "reports.jsonl"),
		ReportSchedule: "every now and then",
		ReportWindow:   60,
	}
	assert.Nil(t, setupReports(cfg, svc), "a bad schedule disables reports instead of exiting")
}

func TestSetupReportsArchives(t *testing.T) {
	store := history.NewStore(10)
	store.Record(feedback.NewMessage(time.Now(), "/eos/out/user/1/action", []feedback.Argument{feedback.Text("Go")}))
	svc := query.NewService(store)
	path := filepath.Join(t.TempDir(), "reports.jsonl")

	sched := setupReports(&config.Config{
		ReportPath:     path,
		ReportSchedule: "@hourly",
		ReportWindow:   30,
	}, svc)
	require.NotNil(t, sched)
	require.NoError(t, sched.RunNow())
	sched.Stop()

	rec, err := storage.OpenFileRecorder(path)
	require.NoError(t, err)
	records, err := rec.LoadReports()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 30, records[0].Report.TimeWindowMinutes)
	assert.Equal(t, 1, records[0].Report.TotalActions)
}
