package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/internal/iocache"
	"github.com/huangsam/crewcast/internal/source"
	"github.com/huangsam/crewcast/internal/watch"
	"github.com/huangsam/crewcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const eventsJSON = `[
	{"data": "2025-01-02", "evento": "Entrada", "usuario": "A"},
	{"data": "2025-01-02", "evento": "Entrada", "usuario": "B"},
	{"data": "2025-01-05", "evento": "Saida", "usuario": "A"}
]`

const tasksJSON = `[
	{"id": 1, "worker": "A", "start": "2025-01-06T08:00:00", "end": "2025-01-07T17:00:00", "status": "Finalizada"},
	{"id": 2, "worker": "A", "start": "2025-01-08T09:00:00", "end": "2025-01-10T12:00:00", "status": "Finalizada"},
	{"id": 3, "worker": "A", "start": "2025-01-08T10:00:00", "end": null, "status": "Em execução"}
]`

func testConfig() *contract.Config {
	return &contract.Config{
		StudyEnd:        day("2025-01-07"),
		Horizon:         day("2025-01-13"),
		Now:             time.Date(2025, 1, 13, 12, 0, 0, 0, time.UTC),
		CompletedStatus: schema.DefaultCompletedStatus,
		Precision:       1,
		Output:          schema.TextOut,
	}
}

func noStores() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetForecastStore").Return(nil)
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func quiet() context.Context {
	return WithSuppressHeader(context.Background())
}

func TestGetForecastResults(t *testing.T) {
	mgr := noStores()
	result, err := GetForecastResults(quiet(), testConfig(), &source.InlineJSONSource{Data: []byte(eventsJSON)}, mgr)
	require.NoError(t, err)

	assert.Equal(t, day("2025-01-07"), result.StudyEnd)
	assert.Equal(t, []schema.Interval{
		{Start: day("2025-01-02"), End: day("2025-01-04"), ActiveCount: 2},
		{Start: day("2025-01-05"), End: day("2025-01-07"), ActiveCount: 1},
	}, result.Intervals)
	assert.Equal(t, 9, result.Daily[len(result.Daily)-1].Cumulative)
	mgr.AssertExpectations(t)
}

func TestGetForecastResultsDefaultsStudyEndToNow(t *testing.T) {
	cfg := testConfig()
	cfg.StudyEnd = time.Time{}

	result, err := GetForecastResults(quiet(), cfg, &source.InlineJSONSource{Data: []byte(eventsJSON)}, noStores())
	require.NoError(t, err)
	assert.Equal(t, day("2025-01-13"), result.StudyEnd)
	assert.Len(t, result.Daily, 12)
}

func TestGetForecastResultsFollowsAdvancedClock(t *testing.T) {
	cfg := testConfig()
	cfg.StudyEnd = time.Time{}
	events := &source.InlineJSONSource{Data: []byte(eventsJSON)}

	first, err := GetForecastResults(quiet(), cfg, events, noStores())
	require.NoError(t, err)
	assert.Equal(t, day("2025-01-13"), first.StudyEnd)

	later, err := cfg.At(cfg.Now.AddDate(0, 0, 3))
	require.NoError(t, err)
	second, err := GetForecastResults(quiet(), later, events, noStores())
	require.NoError(t, err)
	assert.Equal(t, day("2025-01-16"), second.StudyEnd)
	assert.Len(t, second.Daily, len(first.Daily)+3)
}

func TestGetForecastResultsRecordsHistory(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.AnythingOfType("time.Time"), mock.Anything).Return(int64(7), nil)
	history.On("RecordDays", int64(7), mock.MatchedBy(func(days []schema.DailyRecord) bool { return len(days) == 6 })).Return(nil)
	history.On("EndRun", int64(7), mock.AnythingOfType("time.Time"), day("2025-01-07"), 3, 6).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetForecastStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	_, err := GetForecastResults(quiet(), testConfig(), &source.InlineJSONSource{Data: []byte(eventsJSON)}, mgr)
	require.NoError(t, err)
	history.AssertExpectations(t)
}

func TestGetForecastResultsHistoryFailureIsNotFatal(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetForecastStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	result, err := GetForecastResults(quiet(), testConfig(), &source.InlineJSONSource{Data: []byte(eventsJSON)}, mgr)
	require.NoError(t, err)
	assert.Len(t, result.Intervals, 2)
	history.AssertNotCalled(t, "RecordDays", mock.Anything, mock.Anything)
}

func TestGetForecastResultsErrors(t *testing.T) {
	t.Run("strict kinds", func(t *testing.T) {
		cfg := testConfig()
		cfg.StrictKinds = true
		src := &source.InlineJSONSource{Data: []byte(`[{"date":"2025-01-02","event":"pausa","worker":"A"}]`)}
		_, err := GetForecastResults(quiet(), cfg, src, noStores())
		assert.ErrorIs(t, err, ErrUnknownEventKind)
	})

	t.Run("malformed date", func(t *testing.T) {
		src := &source.InlineJSONSource{Data: []byte(`[{"date":"soon","event":"entrada","worker":"A"}]`)}
		_, err := GetForecastResults(quiet(), testConfig(), src, noStores())
		assert.ErrorIs(t, err, ErrMalformedDate)
	})

	t.Run("unreadable source", func(t *testing.T) {
		_, err := GetForecastResults(quiet(), testConfig(), &source.InlineJSONSource{Data: []byte("{")}, noStores())
		assert.ErrorContains(t, err, "failed to read events")
	})
}

func TestGetWorkerProgressResults(t *testing.T) {
	src := &source.InlineJSONSource{Data: []byte(tasksJSON)}

	all, err := GetWorkerProgressResults(quiet(), testConfig(), src)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "A", all[0].Worker)
	assert.Len(t, all[0].Points, 6)

	cfg := testConfig()
	cfg.Worker = "B"
	one, err := GetWorkerProgressResults(quiet(), cfg, src)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, schema.NoDataPace, one[0].Pace)
}

func TestGetTeamProgressResults(t *testing.T) {
	cfg := testConfig()
	cfg.StudyEnd = day("2025-01-13")
	events := &source.InlineJSONSource{Data: []byte(eventsJSON)}
	tasks := &source.InlineJSONSource{Data: []byte(tasksJSON)}

	team, err := GetTeamProgressResults(quiet(), cfg, events, tasks, noStores())
	require.NoError(t, err)
	assert.Equal(t, 3, team.TotalTasks)
	assert.Equal(t, 2, team.Completed)
	require.Len(t, team.Points, 3)
	assert.Equal(t, 3, team.Points[2].Expected)
}

func TestGetTaskSummaryResults(t *testing.T) {
	summary, err := GetTaskSummaryResults(quiet(), testConfig(), &source.InlineJSONSource{Data: []byte(tasksJSON)})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalTasks)
	assert.Equal(t, 2, summary.Completed)
}

func TestParseTasks(t *testing.T) {
	tasks, err := ParseTasks([]schema.TaskRow{
		{ID: " 9 ", Name: "Inspect", Worker: "", Start: "2025-01-06 08:00:00.123456", End: "", Status: " Nova "},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "9", tasks[0].ID)
	assert.Equal(t, schema.UnknownWorker, tasks[0].Worker)
	require.NotNil(t, tasks[0].Start)
	assert.Equal(t, time.Date(2025, 1, 6, 8, 0, 0, 123456000, time.UTC), *tasks[0].Start)
	assert.Nil(t, tasks[0].End)
	assert.Equal(t, "Nova", tasks[0].Status)

	_, err = ParseTasks([]schema.TaskRow{{Worker: "A"}, {Worker: "A", End: "yesterday-ish"}})
	assert.ErrorIs(t, err, ErrMalformedDate)
	assert.ErrorContains(t, err, "row 2")
}

func TestExecuteDailyWritesCSV(t *testing.T) {
	dir := t.TempDir()
	eventsPath := filepath.Join(dir, "events.csv")
	require.NoError(t, os.WriteFile(eventsPath,
		[]byte("data,evento,usuario\n2025-01-02,Entrada,A\n2025-01-02,Entrada,B\n2025-01-05,Saida,A\n"), 0o644))

	cfg := testConfig()
	cfg.Events = contract.SourceConfig{Path: eventsPath, Format: schema.CSVSource}
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(dir, "daily.csv")

	require.NoError(t, ExecuteDaily(quiet(), cfg, noStores()))

	out, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(out), "date,active_count,cumulative\n")
	assert.Contains(t, string(out), "2025-01-07,1,9\n")
}

func TestExecuteIntervalsMissingFile(t *testing.T) {
	cfg := testConfig()
	cfg.Events = contract.SourceConfig{Path: filepath.Join(t.TempDir(), "missing.csv"), Format: schema.CSVSource}
	assert.Error(t, ExecuteIntervals(quiet(), cfg, noStores()))
}

func TestTaskExecutorsRequireTasks(t *testing.T) {
	for name, exec := range map[string]ExecutorFunc{
		"progress": ExecuteProgress,
		"summary":  ExecuteSummary,
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, exec(quiet(), testConfig(), noStores()), ErrNoTasks)
		})
	}
}

func TestExecuteWatchRefreshUsesCurrentDate(t *testing.T) {
	eventsPath := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(eventsPath, []byte("data,evento,usuario\n2025-01-02,Entrada,A\n"), 0o644))

	input := &contract.ConfigRawInput{
		EventsPathStr: eventsPath,
		Precision:     contract.DefaultPrecision,
		Output:        string(schema.CSVOut),
		OutputFile:    filepath.Join(t.TempDir(), "daily.csv"),
		CacheBackend:  string(schema.NoneBackend),
	}
	// Configured three days before the refresh happens.
	cfg := &contract.Config{}
	require.NoError(t, contract.ProcessAndValidate(cfg, input, time.Now().Add(-72*time.Hour)))

	ctx, cancel := context.WithCancel(quiet())
	done := make(chan error, 1)
	go func() { done <- ExecuteWatch(ctx, cfg, noStores()) }()
	defer func() {
		cancel()
		<-done
	}()

	today := schema.FormatDay(time.Now())
	assert.Eventually(t, func() bool {
		out, err := os.ReadFile(input.OutputFile)
		return err == nil && strings.Contains(string(out), "\n"+today+",1,")
	}, 5*time.Second, 20*time.Millisecond, "refresh did not extend the forecast to %s", today)
}

func TestWatchNotifiers(t *testing.T) {
	t.Run("files", func(t *testing.T) {
		cfg := testConfig()
		cfg.Events = contract.SourceConfig{Path: "events.csv", Format: schema.CSVSource}
		cfg.Tasks = contract.SourceConfig{Path: "tasks.json", Format: schema.JSONSource}
		notifiers, err := watchNotifiers(cfg)
		require.NoError(t, err)
		require.Len(t, notifiers, 1)
		assert.Equal(t, []string{"events.csv", "tasks.json"}, notifiers[0].(*watch.FileWatcher).Paths)
	})

	t.Run("postgres listens once", func(t *testing.T) {
		cfg := testConfig()
		cfg.NotifyChannel = "changes"
		pg := contract.SourceConfig{Path: "eventos", Format: schema.SQLSource, Backend: schema.PostgreSQLBackend, DBConnect: "host=db dbname=x"}
		cfg.Events = pg
		cfg.Tasks = pg
		notifiers, err := watchNotifiers(cfg)
		require.NoError(t, err)
		require.Len(t, notifiers, 1)
		assert.Equal(t, &watch.PGListener{ConnStr: "host=db dbname=x", Channel: "changes"}, notifiers[0])
	})

	t.Run("nothing to watch", func(t *testing.T) {
		cfg := testConfig()
		cfg.Events = contract.SourceConfig{Path: "eventos", Format: schema.SQLSource, Backend: schema.MySQLBackend}
		_, err := watchNotifiers(cfg)
		assert.ErrorIs(t, err, watch.ErrNoNotifiers)
	})
}
