package view

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerAppliesOnlyTheLastValue(t *testing.T) {
	debouncer := NewDebouncer(30 * time.Millisecond)
	defer debouncer.Stop()

	var fired atomic.Int32
	var last atomic.Value

	for _, query := range []string{"m", "ma", "mar"} {
		query := query
		debouncer.Trigger(func() {
			fired.Add(1)
			last.Store(query)
		})
	}

	require.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, "mar", last.Load())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load(), "earlier inputs are reset, not queued")
}

func TestDebouncerFiresAgainAfterQuiescence(t *testing.T) {
	debouncer := NewDebouncer(10 * time.Millisecond)
	defer debouncer.Stop()

	var fired atomic.Int32
	debouncer.Trigger(func() { fired.Add(1) })
	require.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, time.Millisecond)

	debouncer.Trigger(func() { fired.Add(1) })
	require.Eventually(t, func() bool { return fired.Load() == 2 },
		time.Second, time.Millisecond)
}

func TestDebouncerStopCancelsPendingWork(t *testing.T) {
	debouncer := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int32
	debouncer.Trigger(func() { fired.Add(1) })
	debouncer.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}
