package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-kpi-etl/internal/config"
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
	"github.com/vfg2006/campaign-kpi-etl/internal/usecases/pipeline"
)

type fakeRunner struct {
	calls   atomic.Int32
	release chan struct{}
	started chan struct{}
	opts    pipeline.RunOptions
	err     error
}

func (f *fakeRunner) Run(_ context.Context, opts pipeline.RunOptions) (*domain.RunReport, error) {
	f.calls.Add(1)
	f.opts = opts
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RunReport{RunID: "run-1", RowsLoaded: 10}, nil
}

func testConfig(enabled bool) *config.Config {
	return &config.Config{
		Loader:  config.Loader{InputFile: "data/ads.csv", TargetTable: "fact_ads", BatchSize: 500},
		ETLSync: config.ETLSync{CronSchedule: "0 2 * * *", Enabled: enabled},
	}
}

func TestETLSyncService_Sync(t *testing.T) {
	runner := &fakeRunner{}
	service := NewETLSyncService(runner, testConfig(true))

	report, err := service.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, pipeline.RunOptions{InputPath: "data/ads.csv", Table: "fact_ads"}, runner.opts)

	status := service.GetStatus()
	assert.Equal(t, "run-1", status["last_run_id"])
	assert.Equal(t, int64(10), status["last_rows_loaded"])
	assert.Equal(t, false, status["running"])
	assert.NotContains(t, status, "last_error")
}

func TestETLSyncService_SyncError(t *testing.T) {
	runner := &fakeRunner{err: domain.NewETLError(domain.ErrConnectivity, "connect", errors.New("refused"), "")}
	service := NewETLSyncService(runner, testConfig(true))

	_, err := service.Sync(context.Background())
	assert.ErrorIs(t, err, domain.ErrConnectivity)

	status := service.GetStatus()
	assert.Contains(t, status["last_error"], "sink unreachable")
	assert.NotContains(t, status, "last_run_id")
}

func TestETLSyncService_PreventsOverlap(t *testing.T) {
	runner := &fakeRunner{
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	service := NewETLSyncService(runner, testConfig(true))

	done := make(chan error, 1)
	go func() {
		_, err := service.Sync(context.Background())
		done <- err
	}()

	select {
	case <-runner.started:
	case <-time.After(time.Second):
		t.Fatal("execução não iniciou")
	}

	_, err := service.Sync(context.Background())
	assert.ErrorIs(t, err, ErrSyncRunning)
	assert.False(t, service.TriggerManualSync(context.Background()))
	assert.Equal(t, true, service.GetStatus()["running"])

	close(runner.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestETLSyncService_TriggerManualSync(t *testing.T) {
	runner := &fakeRunner{started: make(chan struct{}, 1)}
	service := NewETLSyncService(runner, testConfig(false))

	assert.True(t, service.TriggerManualSync(context.Background()))

	select {
	case <-runner.started:
	case <-time.After(time.Second):
		t.Fatal("execução manual não iniciou")
	}
}

func TestETLSyncService_ConcurrentManualTriggers(t *testing.T) {
	runner := &fakeRunner{
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	service := NewETLSyncService(runner, testConfig(true))

	const requests = 10
	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if service.TriggerManualSync(context.Background()) {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, true, service.GetStatus()["running"])

	select {
	case <-runner.started:
	case <-time.After(time.Second):
		t.Fatal("execução manual não iniciou")
	}
	close(runner.release)

	assert.Eventually(t, func() bool {
		return service.GetStatus()["running"] == false
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestETLSyncService_StartDisabled(t *testing.T) {
	service := NewETLSyncService(&fakeRunner{}, testConfig(false))

	require.NoError(t, service.Start(context.Background()))
	assert.False(t, service.Enabled())
}

func TestETLSyncService_StartInvalidCron(t *testing.T) {
	cfg := testConfig(true)
	cfg.ETLSync.CronSchedule = "not a cron"
	service := NewETLSyncService(&fakeRunner{}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Error(t, service.Start(ctx))
}
