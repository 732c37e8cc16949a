package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/latoulicious/umaroster/pkg/uma/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshScheduler_RejectsInvalidSchedule(t *testing.T) {
	store, _, _ := newTestStore(testRecords(3))

	_, err := service.NewRefreshScheduler(store, "every tuesday")
	assert.Error(t, err)
}

func TestRefreshScheduler_RunNowReloads(t *testing.T) {
	store, gateway, _ := newTestStore(testRecords(3))
	scheduler, err := service.NewRefreshScheduler(store, "@hourly")
	require.NoError(t, err)

	require.NoError(t, scheduler.RunNow(context.Background()))
	assert.Equal(t, 3, store.Count())
	assert.Equal(t, 1, gateway.rosterCalls)

	lastRun, lastErr := scheduler.LastResult()
	assert.False(t, lastRun.IsZero())
	assert.NoError(t, lastErr)
	assert.False(t, scheduler.IsRunning())

	boom := errors.New("down")
	gateway.setRosterErr(boom)
	assert.ErrorIs(t, scheduler.RunNow(context.Background()), boom)
	_, lastErr = scheduler.LastResult()
	assert.ErrorIs(t, lastErr, boom)
}

func TestRefreshScheduler_StartStop(t *testing.T) {
	store, _, _ := newTestStore(testRecords(3))
	scheduler, err := service.NewRefreshScheduler(store, "*/5 * * * *")
	require.NoError(t, err)

	assert.Equal(t, "*/5 * * * *", scheduler.GetSchedule())
	assert.True(t, scheduler.GetNextRun().IsZero())

	scheduler.Start()
	scheduler.Start()
	assert.False(t, scheduler.GetNextRun().IsZero())

	scheduler.Stop()
	scheduler.Stop()
	assert.True(t, scheduler.GetNextRun().IsZero())
}
